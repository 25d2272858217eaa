package chats

import (
	"context"

	"gorm.io/gorm"
)

// Repository handles database interactions for chat messages
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, chat *Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// ListByReport returns a report's messages oldest first
func (r *Repository) ListByReport(ctx context.Context, reportID uint) ([]Chat, error) {
	var chats []Chat
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at asc, id asc").
		Find(&chats).Error
	return chats, err
}
