package notifications

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// AdminDirectory lists the accounts that receive new-report alerts.
type AdminDirectory interface {
	AdminIDs(ctx context.Context) ([]uint, error)
}

// ReportEvent describes a lifecycle step of a report.
type ReportEvent struct {
	Type      string
	ReportID  uint
	Title     string
	OwnerID   *uint
	Anonymous bool
	Reason    string
}

// ChatEvent describes a message posted on a report.
type ChatEvent struct {
	ReportID      uint
	Title         string
	SenderID      *uint
	SenderName    string
	SenderIsAdmin bool
	OwnerID       *uint
	HandlerID     *uint
}

// Recipients returns who is told about a report event. New reports go to
// every admin; status changes go to the owner unless the report is anonymous.
func (e ReportEvent) Recipients(admins []uint) []uint {
	if e.Type == TypeReportCreated {
		return admins
	}
	if e.Anonymous || e.OwnerID == nil {
		return nil
	}
	return []uint{*e.OwnerID}
}

// Recipients returns the counterparty of a chat message: the owner when an
// admin writes, the handling admin otherwise. Nobody is notified about
// their own message.
func (e ChatEvent) Recipients() []uint {
	var to *uint
	if e.SenderIsAdmin {
		to = e.OwnerID
	} else {
		to = e.HandlerID
	}
	if to == nil {
		return nil
	}
	if e.SenderID != nil && *e.SenderID == *to {
		return nil
	}
	return []uint{*to}
}

func (e ReportEvent) message() string {
	title := truncate(e.Title, 150)
	switch e.Type {
	case TypeReportCreated:
		return fmt.Sprintf("Laporan baru \"%s\" menunggu verifikasi", title)
	case TypeReportProcessed:
		return fmt.Sprintf("Laporan \"%s\" sedang diproses", title)
	case TypeReportRejected:
		return fmt.Sprintf("Laporan \"%s\" ditolak: %s", title, truncate(e.Reason, 250))
	case TypeReportCompleted:
		return fmt.Sprintf("Laporan \"%s\" telah selesai ditangani", title)
	}
	return fmt.Sprintf("Laporan \"%s\" diperbarui", title)
}

func (e ChatEvent) message() string {
	name := e.SenderName
	if name == "" {
		name = "Pelapor anonim"
	}
	return fmt.Sprintf("Pesan baru dari %s terkait laporan \"%s\"", truncate(name, 100), truncate(e.Title, 150))
}

// Dispatcher writes notifications for report and chat events.
type Dispatcher struct {
	repo   *Repository
	admins AdminDirectory
}

func NewDispatcher(repo *Repository, admins AdminDirectory) *Dispatcher {
	return &Dispatcher{repo: repo, admins: admins}
}

func (d *Dispatcher) DispatchReport(ctx context.Context, ev ReportEvent) error {
	var admins []uint
	if ev.Type == TypeReportCreated {
		ids, err := d.admins.AdminIDs(ctx)
		if err != nil {
			return fmt.Errorf("load admin recipients: %w", err)
		}
		admins = ids
	}
	return d.send(ctx, ev.Recipients(admins), ev.Type, ev.ReportID, ev.message())
}

func (d *Dispatcher) DispatchChat(ctx context.Context, ev ChatEvent) error {
	return d.send(ctx, ev.Recipients(), TypeChatMessage, ev.ReportID, ev.message())
}

func (d *Dispatcher) send(ctx context.Context, recipients []uint, typ string, reportID uint, msg string) error {
	if len(recipients) == 0 {
		return nil
	}
	rid := reportID
	batch := make([]Notification, 0, len(recipients))
	for _, uid := range recipients {
		batch = append(batch, Notification{
			UserID:   uid,
			Type:     typ,
			ReportID: &rid,
			Message:  msg,
		})
	}
	if err := d.repo.CreateMany(ctx, batch); err != nil {
		return fmt.Errorf("store notifications: %w", err)
	}
	return nil
}

// truncate cuts s to at most maxLen runes
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
