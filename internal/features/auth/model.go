package auth

import (
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
)

// User represents a registered account: reporter, admin or super-admin
type User struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Email     string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	Role      access.Role `gorm:"type:varchar(20);not null;default:user;index" json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Actor returns the access-control view of the user.
func (u *User) Actor() access.Actor {
	return access.Actor{UserID: u.ID, Role: u.Role}
}

// Summary is the public identity shown next to reports and chat messages
type Summary struct {
	ID   uint        `json:"id"`
	Name string      `json:"name"`
	Role access.Role `json:"role,omitempty"`
}

// RegisterRequest represents the payload for creating a reporter account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the payload for email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the payload for updating user profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=3,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UpdatePasswordRequest represents the payload for changing the password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}
