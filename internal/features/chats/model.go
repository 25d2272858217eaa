package chats

import (
	"time"

	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/reports"
)

// Chat is one message on a report thread. Messages are append-only.
type Chat struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ReportID  uint            `gorm:"not null;index:idx_chats_report_created,priority:1" json:"report_id"`
	Report    *reports.Report `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    *uint           `gorm:"index" json:"-"`
	Message   string          `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time       `gorm:"index:idx_chats_report_created,priority:2" json:"created_at"`
}

func (Chat) TableName() string { return "chats" }

// MaxMessageLength is counted in characters, not bytes.
const MaxMessageLength = 2000

type SendMessageRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// ChatResponse carries the author summary, or null for a code holder
type ChatResponse struct {
	ID        uint          `json:"id"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
	User      *auth.Summary `json:"user"`
}
