package chats

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/notifications"
	"github.com/xyz-asif/whistleblow/internal/features/reports"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

// Notifier receives chat events after the message is stored.
type Notifier interface {
	DispatchChat(ctx context.Context, ev notifications.ChatEvent) error
}

type UserDirectory interface {
	Summaries(ctx context.Context, ids []uint) (map[uint]auth.Summary, error)
}

// ReportFinder resolves the report a thread belongs to.
type ReportFinder interface {
	FindByID(ctx context.Context, id uint) (*reports.Report, error)
	FindByCode(ctx context.Context, code string) (*reports.Report, error)
}

type Service struct {
	repo     *Repository
	reports  ReportFinder
	users    UserDirectory
	notifier Notifier
}

func NewService(repo *Repository, reports ReportFinder, users UserDirectory, notifier Notifier) *Service {
	return &Service{repo: repo, reports: reports, users: users, notifier: notifier}
}

// Thread identifies a report either by id, for signed-in actors, or by its
// unique code, for anonymous code holders.
type Thread struct {
	ReportID uint
	Code     string
}

func (s *Service) resolve(ctx context.Context, actor access.Actor, thread Thread, action access.Action) (*reports.Report, error) {
	var (
		report *reports.Report
		err    error
	)
	if thread.Code != "" {
		report, err = s.reports.FindByCode(ctx, thread.Code)
	} else {
		report, err = s.reports.FindByID(ctx, thread.ReportID)
	}
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, action, report.Subject()); err != nil {
		return nil, err
	}
	return report, nil
}

// List returns the thread oldest first
func (s *Service) List(ctx context.Context, actor access.Actor, thread Thread) ([]ChatResponse, error) {
	report, err := s.resolve(ctx, actor, thread, access.ReadChat)
	if err != nil {
		return nil, err
	}

	chats, err := s.repo.ListByReport(ctx, report.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(chats))
	for _, c := range chats {
		if c.UserID != nil {
			ids = append(ids, *c.UserID)
		}
	}
	people, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ChatResponse, 0, len(chats))
	for _, c := range chats {
		out = append(out, present(c, people))
	}
	return out, nil
}

// Post appends a message and notifies the counterparty. A failed
// notification is returned as a warning.
func (s *Service) Post(ctx context.Context, actor access.Actor, thread Thread, message string) (*ChatResponse, []string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, nil, apperrors.Validation("Validation failed", apperrors.FieldError{Field: "message", Message: "is required"})
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, nil, apperrors.Validation("Validation failed", apperrors.FieldError{Field: "message", Message: "must be at most 2000 characters"})
	}

	report, err := s.resolve(ctx, actor, thread, access.WriteChat)
	if err != nil {
		return nil, nil, err
	}

	chat := &Chat{ReportID: report.ID, Message: message}
	if actor.Authenticated() {
		id := actor.UserID
		chat.UserID = &id
	}
	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, nil, err
	}

	people := map[uint]auth.Summary{}
	if chat.UserID != nil {
		if people, err = s.users.Summaries(ctx, []uint{*chat.UserID}); err != nil {
			return nil, nil, err
		}
	}
	out := present(*chat, people)

	ev := notifications.ChatEvent{
		ReportID:      report.ID,
		Title:         report.Title,
		SenderID:      chat.UserID,
		SenderIsAdmin: actor.IsAdmin(),
		OwnerID:       report.UserID,
		HandlerID:     report.AdminID,
	}
	if out.User != nil {
		ev.SenderName = out.User.Name
	}

	var warnings []string
	if s.notifier != nil {
		if err := s.notifier.DispatchChat(ctx, ev); err != nil {
			logger.LogError("chats", "Post", "dispatch", logger.Fields{"report_id": report.ID}, err)
			warnings = append(warnings, reports.WarningNotificationFailed)
		}
	}
	return &out, warnings, nil
}

func present(c Chat, people map[uint]auth.Summary) ChatResponse {
	out := ChatResponse{ID: c.ID, Message: c.Message, CreatedAt: c.CreatedAt}
	if c.UserID != nil {
		if p, ok := people[*c.UserID]; ok {
			out.User = &p
		}
	}
	return out
}
