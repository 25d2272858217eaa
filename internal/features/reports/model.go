package reports

import (
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
)

// Status is a report's position in the handling workflow.
type Status string

const (
	StatusPending    Status = "menunggu-verifikasi"
	StatusProcessing Status = "diproses"
	StatusRejected   Status = "ditolak"
	StatusCompleted  Status = "selesai"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusRejected, StatusCompleted}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

type FileType string

const (
	FileEvidence      FileType = "evidence"
	FileHandlingProof FileType = "handling_proof"
)

// Report is a misconduct report. Exactly one of UserID and UniqueCode is set.
type Report struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"size:255;not null" json:"title"`
	Violation       string       `gorm:"size:255;not null" json:"violation"`
	Location        string       `gorm:"size:255;not null" json:"location"`
	IncidentDate    time.Time    `gorm:"type:date;not null" json:"-"`
	Actors          string       `gorm:"size:500;not null" json:"actors"`
	Detail          string       `gorm:"type:text;not null" json:"detail"`
	IsAnonymous     bool         `gorm:"not null;default:false" json:"is_anonymous"`
	UniqueCode      *string      `gorm:"size:16;uniqueIndex" json:"-"`
	Status          Status       `gorm:"type:varchar(30);not null;default:menunggu-verifikasi;index" json:"status"`
	RejectionReason *string      `gorm:"type:text" json:"rejection_reason"`
	AdminNotes      *string      `gorm:"type:text" json:"admin_notes"`
	VerifiedAt      *time.Time   `json:"verified_at"`
	CompletedAt     *time.Time   `json:"completed_at"`
	UserID          *uint        `gorm:"index;check:chkReportOwner,(user_id IS NULL) <> (unique_code IS NULL)" json:"-"`
	AdminID         *uint        `gorm:"index" json:"-"`
	Files           []ReportFile `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (Report) TableName() string { return "reports" }

// Subject returns the ownership view used by access decisions.
func (r *Report) Subject() access.Subject {
	s := access.Subject{OwnerID: r.UserID, Anonymous: r.IsAnonymous, HandlerID: r.AdminID}
	if r.UniqueCode != nil {
		s.UniqueCode = *r.UniqueCode
	}
	return s
}

// ReportFile is an evidence or handling-proof attachment. Rows are never
// updated after insert.
type ReportFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReportID     uint      `gorm:"not null;index" json:"report_id"`
	FilePath     string    `gorm:"size:500;not null" json:"-"`
	FileType     FileType  `gorm:"type:varchar(20);not null" json:"file_type"`
	OriginalName string    `gorm:"size:255" json:"file_name"`
	ContentType  string    `gorm:"size:100" json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ReportFile) TableName() string { return "report_files" }

// CreateReportRequest is the multipart payload of a new report.
type CreateReportRequest struct {
	Title       string `form:"title" json:"title" binding:"required,max=255,minwords=5"`
	Violation   string `form:"violation" json:"violation" binding:"required,max=255"`
	Location    string `form:"location" json:"location" binding:"required,max=255"`
	Date        string `form:"date" json:"date" binding:"required,ddmmyyyy"`
	Actors      string `form:"actors" json:"actors" binding:"required,max=500"`
	Detail      string `form:"detail" json:"detail" binding:"required,min=50"`
	IsAnonymous *bool  `form:"is_anonymous" json:"is_anonymous" binding:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

type CompleteRequest struct {
	Notes string `form:"notes" json:"notes" binding:"required,max=5000"`
}

// AdminListQuery filters the administrator report list
type AdminListQuery struct {
	Status  string `form:"status" binding:"omitempty,oneof=menunggu-verifikasi diproses ditolak selesai"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// CreatedResponse is returned to the submitter. UniqueCode is the only way
// back into an anonymous report.
type CreatedResponse struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Status     Status `json:"status"`
	UniqueCode string `json:"unique_code,omitempty"`
}

type FileResponse struct {
	ID          uint      `json:"id"`
	FileType    FileType  `json:"file_type"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportResponse is the read model of a report. Reporter is never set for
// anonymous reports.
type ReportResponse struct {
	ID              uint           `json:"id"`
	Title           string         `json:"title"`
	Violation       string         `json:"violation"`
	Location        string         `json:"location"`
	Date            string         `json:"date"`
	Actors          string         `json:"actors"`
	Detail          string         `json:"detail,omitempty"`
	Status          Status         `json:"status"`
	RejectionReason *string        `json:"rejection_reason"`
	AdminNotes      *string        `json:"admin_notes"`
	VerifiedAt      *time.Time     `json:"verified_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	IsAnonymous     bool           `json:"is_anonymous"`
	Files           []FileResponse `json:"files,omitempty"`
	Reporter        *auth.Summary  `json:"reporter,omitempty"`
	Processor       *auth.Summary  `json:"processor"`
}

// TransitionResponse is returned by process, reject and complete.
type TransitionResponse struct {
	ID              uint          `json:"id"`
	Status          Status        `json:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	AdminNotes      *string       `json:"admin_notes,omitempty"`
	VerifiedAt      *time.Time    `json:"verified_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	Processor       *auth.Summary `json:"processor"`
}

type AdminListMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}
