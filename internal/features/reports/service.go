package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/xyz-asif/whistleblow/internal/access"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/features/notifications"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
	"github.com/xyz-asif/whistleblow/internal/pkg/storage"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

// MaxEvidenceFiles caps the attachments of a single report.
const MaxEvidenceFiles = 10

// WarningNotificationFailed is attached to an otherwise successful response
// when the notification fan-out could not be written.
const WarningNotificationFailed = "notifications could not be delivered"

// Notifier receives lifecycle events after they are committed.
type Notifier interface {
	DispatchReport(ctx context.Context, ev notifications.ReportEvent) error
}

// UserDirectory resolves the names shown next to a report.
type UserDirectory interface {
	Summaries(ctx context.Context, ids []uint) (map[uint]auth.Summary, error)
}

type Service struct {
	repo      *Repository
	engine    *Engine
	store     storage.Storage
	notifier  Notifier
	users     UserDirectory
	maxUpload int64
}

func NewService(repo *Repository, engine *Engine, store storage.Storage, notifier Notifier, users UserDirectory, maxUpload int64) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		store:     store,
		notifier:  notifier,
		users:     users,
		maxUpload: maxUpload,
	}
}

// Create stores the evidence, then persists the report and its files in one
// transaction. Stored blobs are removed when the insert fails. A failed
// notification fan-out does not fail the request; it is returned as a warning.
func (s *Service) Create(ctx context.Context, actor access.Actor, req CreateReportRequest, files []*multipart.FileHeader) (*Report, []string, error) {
	anonymous := req.IsAnonymous != nil && *req.IsAnonymous
	if !anonymous && !actor.Authenticated() {
		return nil, nil, apperrors.Unauthorized("Login required to submit a report under your name")
	}

	date, err := time.Parse(validator.DateLayout, req.Date)
	if err != nil {
		return nil, nil, apperrors.Validation("Validation failed", apperrors.FieldError{Field: "date", Message: "must be a date in DD-MM-YYYY format"})
	}
	if err := s.validateUploads("evidence_files", files, MaxEvidenceFiles); err != nil {
		return nil, nil, err
	}

	stored, err := s.storeAll(ctx, "evidence", "evidence_files", files, FileEvidence)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{
		Title:        req.Title,
		Violation:    req.Violation,
		Location:     req.Location,
		IncidentDate: date,
		Actors:       req.Actors,
		Detail:       req.Detail,
		IsAnonymous:  anonymous,
		Status:       StatusPending,
		Files:        stored,
	}
	if !anonymous {
		owner := actor.UserID
		report.UserID = &owner
	}

	if err := s.repo.Create(ctx, report); err != nil {
		s.discard(ctx, stored)
		return nil, nil, err
	}

	warnings := s.notify(ctx, notifications.ReportEvent{
		Type:      notifications.TypeReportCreated,
		ReportID:  report.ID,
		Title:     report.Title,
		OwnerID:   report.UserID,
		Anonymous: report.IsAnonymous,
	})
	return report, warnings, nil
}

// Get returns a report the actor may read
func (s *Service) Get(ctx context.Context, actor access.Actor, id uint) (*Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.ReadReport, report.Subject()); err != nil {
		return nil, err
	}
	return report, nil
}

// GetByCode returns the anonymous report unlocked by code
func (s *Service) GetByCode(ctx context.Context, code string) (*Report, error) {
	report, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := access.Check(access.Anonymous(code), access.ReadReport, report.Subject()); err != nil {
		return nil, apperrors.NotFound("Report not found")
	}
	return report, nil
}

// History lists the actor's own named reports
func (s *Service) History(ctx context.Context, actor access.Actor) ([]Report, error) {
	if !actor.Authenticated() {
		return nil, apperrors.Unauthorized("authentication required")
	}
	return s.repo.ListByOwner(ctx, actor.UserID)
}

// List returns one page of reports for administrators
func (s *Service) List(ctx context.Context, status Status, offset, limit int) ([]Report, int64, error) {
	return s.repo.List(ctx, status, offset, limit)
}

// OpenFile releases a file after re-checking that it belongs to the report
// the actor was allowed to read.
func (s *Service) OpenFile(ctx context.Context, actor access.Actor, report *Report, fileID uint) (*ReportFile, io.ReadCloser, error) {
	if err := access.Check(actor, access.DownloadFile, report.Subject()); err != nil {
		return nil, nil, err
	}
	file, err := s.repo.FindFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if err := access.FileBelongs(file.ReportID, report.ID); err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, file.FilePath)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, apperrors.NotFound("File not found")
	}
	if err != nil {
		return nil, nil, apperrors.Dependency("File storage unavailable", err)
	}
	return file, rc, nil
}

// Process moves a pending report to diproses and tells the owner.
func (s *Service) Process(ctx context.Context, actor access.Actor, id uint) (*Report, []string, error) {
	if err := s.engine.Process(ctx, id, actor); err != nil {
		return nil, nil, err
	}
	return s.afterTransition(ctx, id, notifications.TypeReportProcessed)
}

// Reject closes a pending report with reason and tells the owner.
func (s *Service) Reject(ctx context.Context, actor access.Actor, id uint, reason string) (*Report, []string, error) {
	if err := s.engine.Reject(ctx, id, actor, reason); err != nil {
		return nil, nil, err
	}
	return s.afterTransition(ctx, id, notifications.TypeReportRejected)
}

// Complete closes a report in handling. The optional proof is stored before
// the transition and removed again when the transition is refused.
func (s *Service) Complete(ctx context.Context, actor access.Actor, id uint, notes string, proof *multipart.FileHeader) (*Report, []string, error) {
	if err := access.Check(actor, access.TransitionReport, access.Subject{}); err != nil {
		return nil, nil, err
	}

	var file *ReportFile
	if proof != nil {
		uploads := []*multipart.FileHeader{proof}
		if err := s.validateUploads("handling_proof", uploads, 1); err != nil {
			return nil, nil, err
		}
		stored, err := s.storeAll(ctx, "handling-proof", "handling_proof", uploads, FileHandlingProof)
		if err != nil {
			return nil, nil, err
		}
		file = &stored[0]
	}

	if err := s.engine.Complete(ctx, id, actor, notes, file); err != nil {
		if file != nil {
			s.discard(ctx, []ReportFile{*file})
		}
		return nil, nil, err
	}
	return s.afterTransition(ctx, id, notifications.TypeReportCompleted)
}

func (s *Service) afterTransition(ctx context.Context, id uint, eventType string) (*Report, []string, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ev := notifications.ReportEvent{
		Type:      eventType,
		ReportID:  report.ID,
		Title:     report.Title,
		OwnerID:   report.UserID,
		Anonymous: report.IsAnonymous,
	}
	if report.RejectionReason != nil {
		ev.Reason = *report.RejectionReason
	}
	return report, s.notify(ctx, ev), nil
}

// People resolves reporters and handlers of the given reports by id.
func (s *Service) People(ctx context.Context, reports ...Report) (map[uint]auth.Summary, error) {
	seen := make(map[uint]struct{})
	var ids []uint
	add := func(id *uint) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; !ok {
			seen[*id] = struct{}{}
			ids = append(ids, *id)
		}
	}
	for i := range reports {
		add(reports[i].UserID)
		add(reports[i].AdminID)
	}
	return s.users.Summaries(ctx, ids)
}

func (s *Service) notify(ctx context.Context, ev notifications.ReportEvent) []string {
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.DispatchReport(ctx, ev); err != nil {
		logger.LogError("reports", "notify", ev.Type, logger.Fields{"report_id": ev.ReportID}, err)
		return []string{WarningNotificationFailed}
	}
	return nil
}

func (s *Service) validateUploads(field string, files []*multipart.FileHeader, limit int) error {
	if len(files) > limit {
		return apperrors.Validation("Validation failed", apperrors.FieldError{
			Field:   field,
			Message: fmt.Sprintf("must contain at most %d files", limit),
		})
	}
	for _, fh := range files {
		if err := storage.ValidateFile(fh, s.maxUpload); err != nil {
			return apperrors.Validation("Validation failed", apperrors.FieldError{Field: field, Message: err.Error()})
		}
	}
	return nil
}

// storeAll saves every upload in order. On any failure the blobs already
// written are deleted.
func (s *Service) storeAll(ctx context.Context, dir, field string, files []*multipart.FileHeader, fileType FileType) ([]ReportFile, error) {
	stored := make([]ReportFile, 0, len(files))
	for _, fh := range files {
		rf, err := s.storeOne(ctx, dir, field, fh)
		if err != nil {
			s.discard(ctx, stored)
			return nil, err
		}
		rf.FileType = fileType
		stored = append(stored, rf)
	}
	return stored, nil
}

func (s *Service) storeOne(ctx context.Context, dir, field string, fh *multipart.FileHeader) (ReportFile, error) {
	f, err := fh.Open()
	if err != nil {
		return ReportFile{}, apperrors.Internal("failed to read upload", err)
	}
	defer f.Close()

	var (
		body        io.Reader = f
		contentType           = fh.Header.Get("Content-Type")
		size                  = fh.Size
		object                = storage.ObjectName(dir, fh.Filename)
	)
	if storage.IsImage(fh.Filename) {
		clean, err := storage.SanitizeImage(f, fh.Filename)
		if err != nil {
			return ReportFile{}, apperrors.Validation("Validation failed", apperrors.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s could not be read as an image", filepath.Base(fh.Filename)),
			})
		}
		body = clean.Data
		contentType = clean.ContentType
		size = int64(clean.Data.Len())
		object = storage.ObjectName(dir, "image"+clean.Extension)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path, err := s.store.Save(ctx, object, contentType, body)
	if err != nil {
		return ReportFile{}, apperrors.Dependency("Failed to store uploaded file", err)
	}
	return ReportFile{
		FilePath:     path,
		OriginalName: filepath.Base(fh.Filename),
		ContentType:  contentType,
		Size:         size,
	}, nil
}

func (s *Service) discard(ctx context.Context, files []ReportFile) {
	ctx = context.WithoutCancel(ctx)
	for _, f := range files {
		if err := s.store.Delete(ctx, f.FilePath); err != nil {
			logger.LogError("reports", "discard", f.FilePath, nil, err)
		}
	}
}
