package model

import "time"

type Session struct {
	SessionID      string    `bson:"session_id" json:"session_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	DisplayName    string    `bson:"display_name" json:"display_name"`
	DeviceInfo     string    `bson:"device_info" json:"device_info"`
	IPAddress      string    `bson:"ip_address" json:"ip_address"`
	IsGuest        bool      `bson:"is_guest" json:"is_guest"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt      time.Time `bson:"expires_at" json:"expires_at"`
	LastActivityAt time.Time `bson:"last_activity_at" json:"last_activity_at"`
	IsActive       bool      `bson:"is_active" json:"is_active"`
}

// Identity is the authenticated caller. It is handed explicitly to every
// service call that acts on behalf of a user.
type Identity struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	IsGuest   bool   `json:"is_guest"`
}

// ClientMeta describes the client opening a session.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

// AuthResult is returned by every operation that opens a session.
type AuthResult struct {
	User         *User    `json:"user"`
	Session      *Session `json:"-"`
	AccessToken  string   `json:"token"`
	RefreshToken string   `json:"refresh"`
	Notice       string   `json:"notice,omitempty"`
}
