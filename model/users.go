package model

import "time"

type User struct {
	UserID      string    `bson:"user_id" json:"user_id"`                 // Unique ID
	Email       string    `bson:"email" json:"email"`                     // Login identifier, unique
	DisplayName string    `bson:"display_name" json:"display_name"`       // Shown on the leaderboard
	Password    string    `bson:"password" json:"-"`                      // argon2id salt$hash
	IsGuest     bool      `bson:"is_guest" json:"is_guest"`               // Guest identities never log in again
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`           // Time created for account life
	UpdatedAt   time.Time `bson:"updated_at,omitempty" json:"updated_at"` // Last display name change
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,password"`
	DisplayName string `json:"display_name" binding:"required,min=2,max=40"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=2,max=40"`
}
