package auth

import (
	"context"
	"errors"

	"github.com/xyz-asif/whistleblow/internal/access"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
	"gorm.io/gorm"
)

// Repository handles database interactions for user accounts
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. A taken email yields a Conflict error.
func (r *Repository) Create(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("Email already registered")
	}
	return err
}

// FindByID returns the user or a NotFound error
func (r *Repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns nil, nil when no account uses the email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists name, email, password and role changes
func (r *Repository) Update(ctx context.Context, user *User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("name", "email", "password", "role").
		Updates(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("Email already registered")
	}
	return err
}

// Delete hard-deletes a user
func (r *Repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("User not found")
	}
	return nil
}

// ListByRoles returns users with any of the roles, newest first
func (r *Repository) ListByRoles(ctx context.Context, roles ...access.Role) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Where("role IN ?", roles).
		Order("created_at desc").
		Find(&users).Error
	return users, err
}

// IDsByRoles returns the ids of every user holding one of the roles
func (r *Repository) IDsByRoles(ctx context.Context, roles ...access.Role) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("role IN ?", roles).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

// AdminIDs returns every account that handles reports.
func (r *Repository) AdminIDs(ctx context.Context) ([]uint, error) {
	return r.IDsByRoles(ctx, access.RoleAdmin, access.RoleSuperAdmin)
}

// Summaries loads id, name and role for the given users keyed by id.
// Unknown ids are absent from the result.
func (r *Repository) Summaries(ctx context.Context, ids []uint) (map[uint]Summary, error) {
	out := make(map[uint]Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []Summary
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("id", "name", "role").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CountByRole counts accounts holding role
func (r *Repository) CountByRole(ctx context.Context, role access.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
