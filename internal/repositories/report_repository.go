package repositories

import (
	"errors"
	"fmt"

	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReportNotFound = errors.New("report not found")
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(report *models.Report) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Create(report).Error; err != nil {
		if isForeignKeyError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *reportRepository) GetByID(id uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// GetByFileName returns the newest report stored under name. A non-nil owner
// restricts the match to that user's reports.
func (r *reportRepository) GetByFileName(name string, owner *uuid.UUID) (*models.Report, error) {
	query := r.db.Where("file_name = ?", name)
	if owner != nil {
		query = query.Where("user_id = ?", *owner)
	}

	var report models.Report
	if err := query.Order("created_at DESC").First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report by file name: %w", err)
	}
	return &report, nil
}

// List returns reports newest first. The date filters bound created_at.
func (r *reportRepository) List(filters models.ReportFilters, page pagination.Params) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := r.db.Model(&models.Report{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Format != "" {
		query = query.Where("format = ?", filters.Format)
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("created_at < ?", *filters.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Scopes(page.Scope()).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

func (r *reportRepository) Update(report *models.Report) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}

	if err := r.db.Omit(clause.Associations).Save(report).Error; err != nil {
		if isForeignKeyError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

func (r *reportRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&models.Report{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
