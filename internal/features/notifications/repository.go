package notifications

import (
	"context"

	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateMany inserts notifications in one batch statement
func (r *Repository) CreateMany(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
}

// ListByUser returns a page of the user's inbox, newest first.
// isRead filters on read state when non-nil.
func (r *Repository) ListByUser(ctx context.Context, userID uint, isRead *bool, offset, limit int) ([]Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if isRead != nil {
		q = q.Where("is_read = ?", *isRead)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]Notification, 0, limit)
	err := q.Order("created_at desc").Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *Repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkAsRead flips one notification owned by userID
func (r *Repository) MarkAsRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Notification not found")
	}
	return nil
}

// MarkAllAsRead flips every unread notification of userID
func (r *Repository) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
