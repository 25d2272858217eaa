package reports

import (
	"context"
	"errors"

	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
	"gorm.io/gorm"
)

const uniqueCodeAttempts = 3

// Repository handles database interactions for reports and their files
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the handle for transactional work across repositories.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Create inserts the report with its files in one transaction. Anonymous
// reports get a fresh unique code, regenerated when it collides.
func (r *Repository) Create(ctx context.Context, report *Report) error {
	if !report.IsAnonymous {
		return r.db.WithContext(ctx).Create(report).Error
	}

	for attempt := 0; attempt < uniqueCodeAttempts; attempt++ {
		code, err := NewUniqueCode()
		if err != nil {
			return apperrors.Internal("failed to generate unique code", err)
		}
		report.UniqueCode = &code
		report.UserID = nil

		err = r.db.WithContext(ctx).Create(report).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		report.ID = 0
		for i := range report.Files {
			report.Files[i].ID = 0
			report.Files[i].ReportID = 0
		}
	}
	return apperrors.Internal("unique code space exhausted", gorm.ErrDuplicatedKey)
}

// FindByID returns the report with its files or a NotFound error
func (r *Repository) FindByID(ctx context.Context, id uint) (*Report, error) {
	var report Report
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Report not found")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindByCode returns the anonymous report holding code. Unknown codes are
// NotFound so a caller cannot tell a wrong code from a missing report.
func (r *Repository) FindByCode(ctx context.Context, code string) (*Report, error) {
	if code == "" {
		return nil, apperrors.NotFound("Report not found")
	}
	var report Report
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("unique_code = ?", code).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Report not found")
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByOwner returns the user's reports, newest first
func (r *Repository) ListByOwner(ctx context.Context, userID uint) ([]Report, error) {
	var reports []Report
	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&reports).Error
	return reports, err
}

// List returns one page of reports, optionally restricted to a status
func (r *Repository) List(ctx context.Context, status Status, offset, limit int) ([]Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []Report
	err := query.
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&reports).Error
	return reports, total, err
}

// All returns every report matching status for export, oldest first
func (r *Repository) All(ctx context.Context, status Status) ([]Report, error) {
	query := r.db.WithContext(ctx).Order("created_at asc, id asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reports []Report
	err := query.Find(&reports).Error
	return reports, err
}

// FindFile returns a file row by id or a NotFound error
func (r *Repository) FindFile(ctx context.Context, id uint) (*ReportFile, error) {
	var file ReportFile
	err := r.db.WithContext(ctx).First(&file, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("File not found")
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// CurrentStatus reads only the status column.
func (r *Repository) CurrentStatus(ctx context.Context, id uint) (Status, *uint, error) {
	var row struct {
		Status  Status
		AdminID *uint
	}
	res := r.db.WithContext(ctx).Model(&Report{}).Select("status", "admin_id").Where("id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return "", nil, res.Error
	}
	if res.RowsAffected == 0 {
		return "", nil, apperrors.NotFound("Report not found")
	}
	return row.Status, row.AdminID, nil
}
