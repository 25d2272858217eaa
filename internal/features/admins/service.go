package admins

import (
	"context"
	"strings"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

// Service manages administrator accounts. Every call requires a super-admin
// and no call ever touches a super-admin account.
type Service struct {
	users *auth.Repository
}

func NewService(users *auth.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context, actor access.Actor) ([]AdminResponse, error) {
	if err := access.CanManageAdmins(actor); err != nil {
		return nil, err
	}
	users, err := s.users.ListByRoles(ctx, access.RoleAdmin)
	if err != nil {
		return nil, err
	}
	out := make([]AdminResponse, 0, len(users))
	for i := range users {
		out = append(out, toResponse(&users[i]))
	}
	return out, nil
}

// Create registers a new account with the admin role
func (s *Service) Create(ctx context.Context, actor access.Actor, req CreateAdminRequest) (*AdminResponse, error) {
	if err := access.CanManageAdmins(actor); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	user := &auth.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    auth.NormalizeEmail(req.Email),
		Password: hash,
		Role:     access.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, apperrors.Conflict("Email already in use")
		}
		return nil, err
	}
	out := toResponse(user)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, actor access.Actor, id uint, req UpdateAdminRequest) (*AdminResponse, error) {
	user, err := s.target(ctx, actor, id, "modify")
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		user.Email = auth.NormalizeEmail(req.Email)
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, apperrors.Internal("failed to hash password", err)
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, apperrors.Conflict("Email already in use")
		}
		return nil, err
	}
	out := toResponse(user)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, actor access.Actor, id uint) error {
	if _, err := s.target(ctx, actor, id, "delete"); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// target loads an account that may be managed. Super-admins are refused and
// reporter accounts are reported as missing.
func (s *Service) target(ctx context.Context, actor access.Actor, id uint, verb string) (*auth.User, error) {
	if err := access.CanManageAdmins(actor); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.NotFound("Admin not found")
		}
		return nil, err
	}
	switch user.Role {
	case access.RoleSuperAdmin:
		return nil, apperrors.Forbidden("Cannot " + verb + " super-admin accounts")
	case access.RoleAdmin:
		return user, nil
	}
	return nil, apperrors.NotFound("Admin not found")
}
