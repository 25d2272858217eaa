package dashboard

import (
	"context"
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/notifications"
	"github.com/xyz-asif/whistleblow/internal/features/reports"
	"gorm.io/gorm"
)

// Repository runs the read-only aggregate queries behind the dashboards
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountByStatus returns a count for every status, zero when absent. A
// non-nil owner restricts the count to that user's reports.
func (r *Repository) CountByStatus(ctx context.Context, owner *uint) (map[reports.Status]int64, error) {
	var rows []struct {
		Status reports.Status
		Count  int64
	}
	query := r.db.WithContext(ctx).Model(&reports.Report{}).Select("status, COUNT(*) AS count")
	if owner != nil {
		query = query.Where("user_id = ?", *owner)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[reports.Status]int64, len(reports.Statuses))
	for _, st := range reports.Statuses {
		out[st] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// Recent returns the newest reports, optionally of one owner
func (r *Repository) Recent(ctx context.Context, owner *uint, limit int) ([]RecentReport, error) {
	var rows []RecentReport
	query := r.db.WithContext(ctx).Model(&reports.Report{}).Select("id", "title", "status", "created_at")
	if owner != nil {
		query = query.Where("user_id = ?", *owner)
	}
	err := query.Order("created_at desc, id desc").Limit(limit).Scan(&rows).Error
	return rows, err
}

// CountCompletedSince counts reports completed at or after t
func (r *Repository) CountCompletedSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reports.Report{}).
		Where("status = ? AND completed_at >= ?", reports.StatusCompleted, t).
		Count(&n).Error
	return n, err
}

// CountRejectedSince counts reports rejected at or after t. Rejection stamps
// verified_at.
func (r *Repository) CountRejectedSince(ctx context.Context, t time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&reports.Report{}).
		Where("status = ? AND verified_at >= ?", reports.StatusRejected, t).
		Count(&n).Error
	return n, err
}

// CompletionDurations returns created-to-completed spans of finished reports
func (r *Repository) CompletionDurations(ctx context.Context) ([]time.Duration, error) {
	var rows []struct {
		CreatedAt   time.Time
		CompletedAt time.Time
	}
	err := r.db.WithContext(ctx).Model(&reports.Report{}).
		Select("created_at", "completed_at").
		Where("status = ? AND completed_at IS NOT NULL", reports.StatusCompleted).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]time.Duration, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CompletedAt.Sub(row.CreatedAt))
	}
	return out, nil
}

// CompletedByAdmin counts completed reports per handling admin
func (r *Repository) CompletedByAdmin(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		AdminID uint
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&reports.Report{}).
		Select("admin_id, COUNT(*) AS count").
		Where("admin_id IS NOT NULL AND status = ?", reports.StatusCompleted).
		Group("admin_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.AdminID] = row.Count
	}
	return out, nil
}

// CreatedBetween returns creation times of reports in [from, to)
func (r *Repository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).Model(&reports.Report{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("created_at", &times).Error
	return times, err
}

func (r *Repository) CountReporters(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&auth.User{}).Where("role = ?", access.RoleUser).Count(&n).Error
	return n, err
}

func (r *Repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notifications.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
