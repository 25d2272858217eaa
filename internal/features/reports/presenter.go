package reports

import (
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
)

// FileURL builds the download location of a report file.
type FileURL func(r *Report, f ReportFile) string

// Present builds the read model. Detail and files are included only when
// detail is set; the reporter is never revealed for anonymous reports.
func Present(r *Report, people map[uint]auth.Summary, fileURL FileURL, detail bool) ReportResponse {
	out := ReportResponse{
		ID:              r.ID,
		Title:           r.Title,
		Violation:       r.Violation,
		Location:        r.Location,
		Date:            r.IncidentDate.Format(validator.DateLayout),
		Actors:          r.Actors,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		AdminNotes:      r.AdminNotes,
		VerifiedAt:      r.VerifiedAt,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
		IsAnonymous:     r.IsAnonymous,
		Processor:       lookup(people, r.AdminID),
	}
	if !r.IsAnonymous {
		out.Reporter = lookup(people, r.UserID)
	}

	if detail {
		out.Detail = r.Detail
		out.Files = make([]FileResponse, 0, len(r.Files))
		for _, f := range r.Files {
			out.Files = append(out.Files, FileResponse{
				ID:          f.ID,
				FileType:    f.FileType,
				FileName:    f.OriginalName,
				ContentType: f.ContentType,
				Size:        f.Size,
				URL:         fileURL(r, f),
				CreatedAt:   f.CreatedAt,
			})
		}
	}
	return out
}

// PresentTransition builds the response of a lifecycle step.
func PresentTransition(r *Report, people map[uint]auth.Summary) TransitionResponse {
	return TransitionResponse{
		ID:              r.ID,
		Status:          r.Status,
		RejectionReason: r.RejectionReason,
		AdminNotes:      r.AdminNotes,
		VerifiedAt:      r.VerifiedAt,
		CompletedAt:     r.CompletedAt,
		Processor:       lookup(people, r.AdminID),
	}
}

func lookup(people map[uint]auth.Summary, id *uint) *auth.Summary {
	if id == nil {
		return nil
	}
	if s, ok := people[*id]; ok {
		return &s
	}
	return nil
}
