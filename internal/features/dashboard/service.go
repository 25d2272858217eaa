package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/reports"
)

const (
	userRecentLimit  = 5
	adminRecentLimit = 10
	statsRecentLimit = 5
)

type UserDirectory interface {
	Summaries(ctx context.Context, ids []uint) (map[uint]auth.Summary, error)
}

type Service struct {
	repo  *Repository
	users UserDirectory
	now   func() time.Time
}

func NewService(repo *Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// User summarizes the caller's own reports and inbox
func (s *Service) User(ctx context.Context, actor access.Actor) (*UserDashboard, error) {
	owner := actor.UserID
	counts, err := s.repo.CountByStatus(ctx, &owner)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, &owner, userRecentLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, owner)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(recent))
	for _, r := range recent {
		activities = append(activities, Activity{
			Type:      "report",
			ReportID:  r.ID,
			Message:   fmt.Sprintf("Laporan \"%s\" berstatus %s", r.Title, r.Status),
			Timestamp: r.CreatedAt,
		})
	}

	return &UserDashboard{
		ActiveReports: ActiveReports{
			Total:               sum(counts),
			WaitingVerification: counts[reports.StatusPending],
			InProcess:           counts[reports.StatusProcessing],
			Completed:           counts[reports.StatusCompleted],
			Rejected:            counts[reports.StatusRejected],
		},
		LatestActivities: activities,
		UnreadMessages:   unread,
	}, nil
}

// Admin summarizes the work queue and this month's closures
func (s *Service) Admin(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.repo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	monthStart := startOfMonth(s.now())
	completed, err := s.repo.CountCompletedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	rejected, err := s.repo.CountRejectedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, nil, adminRecentLimit)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Stats: AdminStats{
			PendingVerification: counts[reports.StatusPending],
			InProcess:           counts[reports.StatusProcessing],
			CompletedThisMonth:  completed,
			RejectedThisMonth:   rejected,
		},
		ReportsByStatus: byStatus(counts),
		RecentReports:   recent,
	}, nil
}

// SuperAdmin reports system-wide throughput and per-admin output
func (s *Service) SuperAdmin(ctx context.Context) (*SuperAdminDashboard, error) {
	counts, err := s.repo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	reporters, err := s.repo.CountReporters(ctx)
	if err != nil {
		return nil, err
	}
	durations, err := s.repo.CompletionDurations(ctx)
	if err != nil {
		return nil, err
	}
	perAdmin, err := s.repo.CompletedByAdmin(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.monthly(ctx)
	if err != nil {
		return nil, err
	}

	total := sum(counts)
	rate := 0.0
	if total > 0 {
		rate = round2(float64(counts[reports.StatusCompleted]) / float64(total) * 100)
	}
	avgDays := averageDays(durations)

	performance, err := s.performance(ctx, perAdmin)
	if err != nil {
		return nil, err
	}

	return &SuperAdminDashboard{
		SystemStats: SystemStats{
			TotalUsers:         reporters,
			TotalReports:       total,
			CompletionRate:     rate,
			AverageProcessTime: fmt.Sprintf("%.1f days", avgDays),
			AverageProcessDays: avgDays,
		},
		AdminPerformance: performance,
		MonthlyReports:   monthly,
	}, nil
}

// Overview returns the report totals per status
func (s *Service) Overview(ctx context.Context) (*OverviewStats, error) {
	counts, err := s.repo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &OverviewStats{
		TotalReports:      sum(counts),
		CompletedReports:  counts[reports.StatusCompleted],
		ProcessingReports: counts[reports.StatusProcessing],
		PendingReports:    counts[reports.StatusPending],
		RejectedReports:   counts[reports.StatusRejected],
	}, nil
}

func (s *Service) ReportStats(ctx context.Context) (*ReportStats, error) {
	counts, err := s.repo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.Recent(ctx, nil, statsRecentLimit)
	if err != nil {
		return nil, err
	}
	return &ReportStats{ReportsByStatus: byStatus(counts), RecentReports: recent}, nil
}

func (s *Service) performance(ctx context.Context, perAdmin map[uint]int64) ([]AdminPerformance, error) {
	ids := make([]uint, 0, len(perAdmin))
	for id := range perAdmin {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	people, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]AdminPerformance, 0, len(ids))
	for _, id := range ids {
		name := "Unknown"
		if p, ok := people[id]; ok {
			name = p.Name
		}
		out = append(out, AdminPerformance{AdminID: id, Name: name, ReportsHandled: perAdmin[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReportsHandled > out[j].ReportsHandled })
	return out, nil
}

func (s *Service) monthly(ctx context.Context) ([]MonthlyCount, error) {
	now := s.now()
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	times, err := s.repo.CreatedBetween(ctx, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}

	var buckets [12]int64
	for _, t := range times {
		buckets[t.In(now.Location()).Month()-1]++
	}
	out := make([]MonthlyCount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		out = append(out, MonthlyCount{Month: m.String(), ReportsCount: buckets[m-1]})
	}
	return out, nil
}

func byStatus(counts map[reports.Status]int64) []StatusCount {
	out := make([]StatusCount, 0, len(reports.Statuses))
	for _, st := range reports.Statuses {
		out = append(out, StatusCount{Status: st, Count: counts[st]})
	}
	return out
}

func sum(counts map[reports.Status]int64) int64 {
	var n int64
	for _, c := range counts {
		n += c
	}
	return n
}

func averageDays(durations []time.Duration) float64 {
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	days := total.Hours() / 24 / float64(len(durations))
	return math.Round(days*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
