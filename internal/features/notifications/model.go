package notifications

import (
	"time"
)

// Notification type constants
const (
	TypeReportCreated   = "report_created"
	TypeReportProcessed = "report_processed"
	TypeReportRejected  = "report_rejected"
	TypeReportCompleted = "report_completed"
	TypeChatMessage     = "chat_message"
)

// Notification represents one entry in a user's inbox
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	Type      string    `gorm:"size:30;not null" json:"type"`
	ReportID  *uint     `gorm:"index" json:"report_id,omitempty"`
	Message   string    `gorm:"size:500;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }

// Request DTOs

type NotificationListQuery struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	IsRead  string `form:"is_read" binding:"omitempty,oneof=true false"`
}

// Response DTOs

type ListMeta struct {
	UnreadCount int64 `json:"unread_count"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkReadResponse struct {
	ID     uint `json:"id"`
	IsRead bool `json:"is_read"`
}

type MarkAllReadResponse struct {
	MarkedCount int64 `json:"marked_count"`
}
