package dashboard

import (
	"time"

	"github.com/xyz-asif/whistleblow/internal/features/reports"
)

type StatusCount struct {
	Status reports.Status `json:"status"`
	Count  int64          `json:"count"`
}

// RecentReport is the short form of a report shown on dashboards
type RecentReport struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Status    reports.Status `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type ActiveReports struct {
	Total               int64 `json:"total"`
	WaitingVerification int64 `json:"waiting_verification"`
	InProcess           int64 `json:"in_process"`
	Completed           int64 `json:"completed"`
	Rejected            int64 `json:"rejected"`
}

type Activity struct {
	Type      string    `json:"type"`
	ReportID  uint      `json:"report_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type UserDashboard struct {
	ActiveReports    ActiveReports `json:"active_reports"`
	LatestActivities []Activity    `json:"latest_activities"`
	UnreadMessages   int64         `json:"unread_messages"`
}

type AdminStats struct {
	PendingVerification int64 `json:"pending_verification"`
	InProcess           int64 `json:"in_process"`
	CompletedThisMonth  int64 `json:"completed_this_month"`
	RejectedThisMonth   int64 `json:"rejected_this_month"`
}

type AdminDashboard struct {
	Stats           AdminStats     `json:"stats"`
	ReportsByStatus []StatusCount  `json:"reports_by_status"`
	RecentReports   []RecentReport `json:"recent_reports"`
}

type SystemStats struct {
	TotalUsers         int64   `json:"total_users"`
	TotalReports       int64   `json:"total_reports"`
	CompletionRate     float64 `json:"completion_rate"`
	AverageProcessTime string  `json:"average_process_time"`
	AverageProcessDays float64 `json:"average_process_days"`
}

type AdminPerformance struct {
	AdminID        uint   `json:"admin_id"`
	Name           string `json:"name"`
	ReportsHandled int64  `json:"reports_handled"`
}

type MonthlyCount struct {
	Month        string `json:"month"`
	ReportsCount int64  `json:"reports_count"`
}

type SuperAdminDashboard struct {
	SystemStats      SystemStats        `json:"system_stats"`
	AdminPerformance []AdminPerformance `json:"admin_performance"`
	MonthlyReports   []MonthlyCount     `json:"monthly_reports"`
}

type OverviewStats struct {
	TotalReports      int64 `json:"total_reports"`
	CompletedReports  int64 `json:"completed_reports"`
	ProcessingReports int64 `json:"processing_reports"`
	PendingReports    int64 `json:"pending_reports"`
	RejectedReports   int64 `json:"rejected_reports"`
}

type ReportStats struct {
	ReportsByStatus []StatusCount  `json:"reports_by_status"`
	RecentReports   []RecentReport `json:"recent_reports"`
}
