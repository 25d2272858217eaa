package reports

import (
	"context"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/validator"
)

const (
	exportSheet       = "Laporan"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeadings = []interface{}{
	"ID", "Judul", "Pelanggaran", "Lokasi", "Tanggal Kejadian", "Pihak Terlibat",
	"Status", "Anonim", "Pelapor", "Penanggung Jawab", "Alasan Penolakan",
	"Catatan Admin", "Diverifikasi", "Selesai", "Dibuat",
}

// Export writes every report matching status as an XLSX workbook.
func (s *Service) Export(ctx context.Context, status Status, w io.Writer) error {
	reports, err := s.repo.All(ctx, status)
	if err != nil {
		return err
	}
	people, err := s.People(ctx, reports...)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeadings); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return err
	}

	for i := range reports {
		r := &reports[i]
		reporter := "Anonim"
		if !r.IsAnonymous {
			reporter = nameOf(lookup(people, r.UserID))
		}
		row := []interface{}{
			r.ID,
			r.Title,
			r.Violation,
			r.Location,
			r.IncidentDate.Format(validator.DateLayout),
			r.Actors,
			string(r.Status),
			yesNo(r.IsAnonymous),
			reporter,
			nameOf(lookup(people, r.AdminID)),
			deref(r.RejectionReason),
			deref(r.AdminNotes),
			formatTime(r.VerifiedAt),
			formatTime(r.CompletedAt),
			r.CreatedAt.Format(time.DateTime),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(exportSheet, "B", "B", 40); err != nil {
		return err
	}
	return f.Write(w)
}

func nameOf(s *auth.Summary) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func yesNo(b bool) string {
	if b {
		return "Ya"
	}
	return "Tidak"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateTime)
}
