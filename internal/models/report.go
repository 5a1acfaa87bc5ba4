package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ReportFormatCSV  = "csv"
	ReportFormatPDF  = "pdf"
	ReportFormatXLSX = "xlsx"
)

// Report records a generated artifact. FileName is the key in the artifact store.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Month     string    `gorm:"type:varchar(7);not null" json:"month"`
	Format    string    `gorm:"type:varchar(10);not null;index" json:"format"`
	FileURL   string    `gorm:"type:varchar(512);not null" json:"file_url"`
	FileName  string    `gorm:"type:varchar(255);not null;index" json:"-"`
	RowCount  int       `gorm:"not null;default:0" json:"row_count"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Report) OwnerID() uuid.UUID {
	return r.UserID
}

func (r *Report) TableName() string {
	return "reports"
}

func IsSupportedReportFormat(format string) bool {
	return format == ReportFormatCSV
}

// ReportRow is one line of a monthly transaction summary.
type ReportRow struct {
	Date        time.Time
	Category    string
	Type        string
	Description string
	Amount      decimal.Decimal
}
