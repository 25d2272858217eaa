package admins

import (
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
)

// CreateAdminRequest represents the payload for creating an administrator
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateAdminRequest changes only the fields that are present
type UpdateAdminRequest struct {
	Name     string `json:"name" binding:"omitempty,min=3,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type AdminResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      access.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toResponse(u *auth.User) AdminResponse {
	return AdminResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}
