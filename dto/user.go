package dto

import (
	"net/http"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
)

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // Optional: GET, POST, PUT, DELETE, PATCH
}

type UserResponse struct {
	UserID      string          `json:"user_id"`
	Email       string          `json:"email,omitempty"`
	DisplayName string          `json:"display_name"`
	IsGuest     bool            `json:"is_guest"`
	CreatedAt   time.Time       `json:"created_at"`
	Links       map[string]Link `json:"_links,omitempty"` // HAL links
}

func ToUserResponse(user *model.User, baseURL string) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsGuest:     user.IsGuest,
		CreatedAt:   user.CreatedAt,
		Links: map[string]Link{
			"self":     {Href: baseURL + "/profile", Method: http.MethodGet},
			"update":   {Href: baseURL + "/profile", Method: http.MethodPut},
			"progress": {Href: baseURL + "/progress", Method: http.MethodGet},
			"logout":   {Href: baseURL + "/auth/logout", Method: http.MethodPost},
		},
	}
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	SessionID    string       `json:"session_id"`
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"session_expires_at"`
	Notice       string       `json:"notice,omitempty"`
}

func ToAuthResponse(res *model.AuthResult, baseURL string) AuthResponse {
	out := AuthResponse{
		User:         ToUserResponse(res.User, baseURL),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		Notice:       res.Notice,
	}
	if res.Session != nil {
		out.SessionID = res.Session.SessionID
		out.ExpiresAt = res.Session.ExpiresAt
	}
	return out
}

// SessionStateResponse answers "who is signed in". User is nil when nobody is.
type SessionStateResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
	SessionID     string        `json:"session_id,omitempty"`
}
