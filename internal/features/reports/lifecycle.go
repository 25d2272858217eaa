package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
	"gorm.io/gorm"
)

// transitions is the directed status graph. Nothing leaves a terminal status.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusRejected},
	StatusProcessing: {StatusCompleted},
}

// CanTransition reports whether the graph has an edge from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var errGuardMiss = errors.New("status guard did not match")

// Engine applies lifecycle transitions. Each transition is a single
// conditional update on the expected current status, so of two concurrent
// calls racing on one report at most one succeeds.
type Engine struct {
	repo *Repository
	// SameHandler restricts completion to the admin who processed the
	// report. Super-admins are exempt.
	sameHandler bool
	now         func() time.Time
}

func NewEngine(repo *Repository, sameHandler bool) *Engine {
	return &Engine{repo: repo, sameHandler: sameHandler, now: time.Now}
}

// Process moves a pending report into handling and assigns the admin.
func (e *Engine) Process(ctx context.Context, reportID uint, admin access.Actor) error {
	now := e.now()
	return e.apply(ctx, reportID, admin, StatusPending, StatusProcessing, map[string]any{
		"status":      string(StatusProcessing),
		"admin_id":    admin.UserID,
		"verified_at": now,
		"updated_at":  now,
	}, nil)
}

// Reject closes a pending report with a reason.
func (e *Engine) Reject(ctx context.Context, reportID uint, admin access.Actor, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.Validation("Validation failed", apperrors.FieldError{Field: "reason", Message: "is required"})
	}

	now := e.now()
	return e.apply(ctx, reportID, admin, StatusPending, StatusRejected, map[string]any{
		"status":           string(StatusRejected),
		"admin_id":         admin.UserID,
		"rejection_reason": reason,
		"verified_at":      now,
		"updated_at":       now,
	}, nil)
}

// Complete closes a report in handling with the admin's notes. A handling
// proof, when given, is inserted in the same transaction as the update.
func (e *Engine) Complete(ctx context.Context, reportID uint, admin access.Actor, notes string, proof *ReportFile) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return apperrors.Validation("Validation failed", apperrors.FieldError{Field: "notes", Message: "is required"})
	}

	now := e.now()
	updates := map[string]any{
		"status":       string(StatusCompleted),
		"admin_id":     admin.UserID,
		"admin_notes":  notes,
		"completed_at": now,
		"updated_at":   now,
	}

	var attach func(tx *gorm.DB) error
	if proof != nil {
		attach = func(tx *gorm.DB) error {
			proof.ID = 0
			proof.ReportID = reportID
			proof.FileType = FileHandlingProof
			return tx.Create(proof).Error
		}
	}
	return e.apply(ctx, reportID, admin, StatusProcessing, StatusCompleted, updates, attach)
}

func (e *Engine) apply(ctx context.Context, reportID uint, admin access.Actor, from, to Status, updates map[string]any, extra func(tx *gorm.DB) error) error {
	if !CanTransition(from, to) {
		return apperrors.InvalidTransition(fmt.Sprintf("cannot move a report from %s to %s", from, to))
	}
	if err := access.Check(admin, access.TransitionReport, access.Subject{}); err != nil {
		return err
	}

	restrictHandler := to == StatusCompleted && e.sameHandler && admin.Role != access.RoleSuperAdmin

	err := e.repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&Report{}).Where("id = ? AND status = ?", reportID, string(from))
		if restrictHandler {
			query = query.Where("admin_id = ?", admin.UserID)
		}
		res := query.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errGuardMiss
		}
		if extra != nil {
			return extra(tx)
		}
		return nil
	})
	if !errors.Is(err, errGuardMiss) {
		return err
	}

	current, handler, rerr := e.repo.CurrentStatus(ctx, reportID)
	if rerr != nil {
		return rerr
	}
	if current == from && restrictHandler && (handler == nil || *handler != admin.UserID) {
		return apperrors.Forbidden("only the admin handling this report can complete it")
	}
	return apperrors.InvalidTransition(fmt.Sprintf("report is %s and cannot move to %s", current, to))
}
