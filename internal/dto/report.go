package dto

import (
	"time"

	"budgetron/internal/models"

	"github.com/google/uuid"
)

// CreateReportRequest asks for a monthly summary. Only admins may target another user.
type CreateReportRequest struct {
	Month  string     `json:"month" validate:"required,yyyymm"`
	Format string     `json:"format" validate:"required,report_format"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

// UpdateReportRequest changes report metadata. Reassigning UserID is admin only.
type UpdateReportRequest struct {
	Format *string    `json:"format,omitempty" validate:"omitempty,report_format"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
}

type ReportResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Month     string    `json:"month"`
	Format    string    `json:"format"`
	FileURL   string    `json:"file_url"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

func NewReportResponse(r *models.Report) ReportResponse {
	return ReportResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Month:     r.Month,
		Format:    r.Format,
		FileURL:   r.FileURL,
		RowCount:  r.RowCount,
		CreatedAt: r.CreatedAt,
	}
}
