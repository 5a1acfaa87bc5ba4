package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"budgetron/internal/dto"
	"budgetron/internal/events"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"
	"budgetron/internal/storage"

	"github.com/google/uuid"
)

const reportDateLayout = "02-01-2006"

var reportHeader = []string{"Date", "Category", "Type", "Description", "Amount"}

// ReportService renders monthly transaction summaries into stored artifacts
type ReportService struct {
	reportRepo      repositories.ReportRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	store           ArtifactStore
	publisher       EventPublisher
	auditService    AuditServiceInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	store ArtifactStore,
	publisher EventPublisher,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) ReportServiceInterface {
	return &ReportService{
		reportRepo:      reportRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		store:           store,
		publisher:       publisher,
		auditService:    auditService,
		metrics:         metrics,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReportService) List(p Principal, filters models.ReportFilters, page pagination.Params) (*pagination.Page[models.Report], error) {
	if !p.IsAdmin {
		filters.UserID = &p.UserID
	}

	reports, total, err := s.reportRepo.List(filters, page)
	if err != nil {
		return nil, err
	}
	return pagination.New(reports, total, page), nil
}

func (s *ReportService) Get(id uuid.UUID) (*models.Report, error) {
	return s.reportRepo.GetByID(id)
}

// GetByFileName resolves a stored artifact name to the report row the
// principal may read. Ownership follows the row, so a report moved to another
// user stops being readable by its previous owner.
func (s *ReportService) GetByFileName(p Principal, name string) (*models.Report, error) {
	var owner *uuid.UUID
	if !p.IsAdmin {
		owner = &p.UserID
	}
	return s.reportRepo.GetByFileName(name, owner)
}

// Generate summarises one user's transactions for a month into a csv
// artifact, records it and publishes report.generated.
func (s *ReportService) Generate(ctx context.Context, p Principal, req *dto.CreateReportRequest) (*models.Report, error) {
	started := time.Now()
	format := strings.ToLower(req.Format)

	report, err := s.generate(ctx, p, req.Month, format, req.UserID)
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.IncrementCounter(MetricReportGenerated, map[string]string{"format": format, "status": status})
	s.metrics.RecordProcessingTime(MetricReportGeneration, time.Since(started))
	if err != nil {
		return nil, err
	}

	s.metrics.RecordGauge(MetricReportRows, float64(report.RowCount), nil)
	s.auditService.LogAction(p, models.AuditActionReportGenerated, models.AuditResourceReport, report.ID.String(),
		models.AuditDetails{"month": report.Month, "rows": report.RowCount})

	event := events.ReportGenerated{
		ReportID:    report.ID,
		UserID:      report.UserID,
		Month:       report.Month,
		Format:      report.Format,
		FileURL:     report.FileURL,
		RowCount:    report.RowCount,
		GeneratedAt: report.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// the report is already durable; consumers can catch up from the list endpoint
		s.logger.WarnContext(ctx, "failed to publish report event",
			"error", err,
			"report_id", report.ID)
	}

	return report, nil
}

func (s *ReportService) generate(ctx context.Context, p Principal, month, format string, requested *uuid.UUID) (*models.Report, error) {
	if !models.IsSupportedReportFormat(format) {
		return nil, ErrReportFormat
	}

	owner, err := resolveOwner(s.userRepo, p, requested)
	if err != nil {
		return nil, err
	}

	start, end, err := models.MonthRange(month)
	if err != nil {
		return nil, newValidationError("month", "must be a month in YYYY-MM format")
	}

	transactions, err := s.transactionRepo.ListForPeriod(owner, start, end)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	body, err := RenderCSV(BuildReportRows(transactions))
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	name := ReportFileName(owner, month, s.now())
	location, err := s.store.Save(ctx, name, bytes.NewReader(body))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store report artifact",
			"error", err,
			"file", name)
		return nil, fmt.Errorf("%w: %v", ErrReportStorageFailed, err)
	}

	report := &models.Report{
		UserID:   owner,
		Month:    month,
		Format:   format,
		FileURL:  location,
		FileName: name,
		RowCount: len(transactions),
	}
	if err := s.reportRepo.Create(report); err != nil {
		s.removeArtifact(ctx, name)
		return nil, err
	}

	return report, nil
}

// Update changes the recorded format or, for admins, the owning user.
func (s *ReportService) Update(p Principal, report *models.Report, req *dto.UpdateReportRequest) (*models.Report, error) {
	var changed []string

	if req.Format != nil {
		format := strings.ToLower(*req.Format)
		if !models.IsSupportedReportFormat(format) {
			return nil, ErrReportFormat
		}
		if format != report.Format {
			report.Format = format
			changed = append(changed, "format")
		}
	}

	if req.UserID != nil && *req.UserID != report.UserID {
		owner, err := resolveOwner(s.userRepo, p, req.UserID)
		if err != nil {
			return nil, err
		}
		report.UserID = owner
		changed = append(changed, "user_id")
	}

	if len(changed) == 0 {
		return report, nil
	}

	if err := s.reportRepo.Update(report); err != nil {
		return nil, err
	}

	s.auditService.LogAction(p, models.AuditActionUpdate, models.AuditResourceReport, report.ID.String(),
		models.AuditDetails{"fields": changed})
	return report, nil
}

// Delete removes the report row and then its artifact.
func (s *ReportService) Delete(ctx context.Context, p Principal, report *models.Report) error {
	if err := s.reportRepo.Delete(report.ID); err != nil {
		return err
	}
	s.removeArtifact(ctx, report.FileName)

	s.auditService.LogAction(p, models.AuditActionDelete, models.AuditResourceReport, report.ID.String(), nil)
	return nil
}

func (s *ReportService) OpenArtifact(ctx context.Context, report *models.Report) (io.ReadCloser, error) {
	rc, err := s.store.Open(ctx, report.FileName)
	if err != nil {
		if errors.Is(err, storage.ErrArtifactNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to open report artifact: %w", err)
	}
	return rc, nil
}

func (s *ReportService) removeArtifact(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, name); err != nil {
		s.logger.WarnContext(ctx, "failed to delete report artifact",
			"error", err,
			"file", name)
	}
}

// BuildReportRows maps transactions to report lines, keeping their order.
func BuildReportRows(transactions []models.Transaction) []models.ReportRow {
	rows := make([]models.ReportRow, 0, len(transactions))
	for _, t := range transactions {
		row := models.ReportRow{
			Date:        t.Timestamp,
			Type:        t.Type(),
			Description: t.Description,
			Amount:      t.Amount,
		}
		if t.Category != nil {
			row.Category = t.Category.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderCSV writes the header and one line per row. Dates are DD-MM-YYYY.
func RenderCSV(rows []models.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Date.UTC().Format(reportDateLayout),
			row.Category,
			row.Type,
			row.Description,
			row.Amount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReportFileName builds report_{user}_{month}_{YYYYMMDDhhmmss}.csv
func ReportFileName(userID uuid.UUID, month string, at time.Time) string {
	return "report_" + userID.String() + "_" + month + "_" + at.UTC().Format("20060102150405") + "." + models.ReportFormatCSV
}
