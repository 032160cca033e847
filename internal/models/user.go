package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account holder. A user authenticates either with a local
// password hash or through an external provider, never both.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50"`
	DisplayName  string    `json:"display_name" gorm:"size:50"`
	PasswordHash string    `json:"-"`
	Provider     string    `json:"provider,omitempty" gorm:"size:30"`
	ProviderID   string    `json:"provider_id,omitempty" gorm:"index"`
	PfpURL       string    `json:"pfp_url"`
	HeaderURL    string    `json:"header_url,omitempty"`
	Bio          string    `json:"bio,omitempty" gorm:"size:500"`
	Location     string    `json:"location,omitempty" gorm:"size:100"`
	Website      string    `json:"website,omitempty"`
	JoinDate     time.Time `json:"join_date" gorm:"autoCreateTime;index"`

	// Denormalized counts, adjusted by the mutations that change them.
	FollowersCount int `json:"followers_count" gorm:"default:0;index"`
	FollowingCount int `json:"following_count" gorm:"default:0"`
	PostsCount     int `json:"posts_count" gorm:"default:0"`
}

// RegisterRequest defines the request body for local registration
type RegisterRequest struct {
	Username             string `json:"username" validate:"required,min=1,max=50"`
	DisplayName          string `json:"display_name" validate:"omitempty,max=50"`
	Password             string `json:"password" validate:"required,min=1"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// LoginRequest defines the request body for local login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProviderLoginRequest carries an external provider's ID token
type ProviderLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location    string `json:"location,omitempty" validate:"omitempty,max=100"`
	Website     string `json:"website,omitempty"`
	PfpURL      string `json:"pfp_url,omitempty"`
	HeaderURL   string `json:"header_url,omitempty"`
}

// UpdatePasswordRequest defines the request body for password changes
type UpdatePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=1"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
