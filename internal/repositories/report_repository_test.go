package repositories

import (
	"testing"
	"time"

	"budgetron/internal/database"
	"budgetron/internal/models"
	"budgetron/internal/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestReportRepository(t *testing.T) {
	suite.Run(t, new(ReportRepositorySuite))
}

type ReportRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo ReportRepositoryInterface
	user *models.User
}

func (s *ReportRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewReportRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "reporter")
}

func (s *ReportRepositorySuite) newReport(format string, createdAt time.Time) *models.Report {
	report := &models.Report{
		UserID:    s.user.ID,
		Month:     "2024-03",
		Format:    format,
		FileURL:   "/static/reports/r.csv",
		FileName:  "r.csv",
		RowCount:  3,
		CreatedAt: createdAt,
	}
	s.Require().NoError(s.repo.Create(report))
	return report
}

func (s *ReportRepositorySuite) TestReportRepository_ListOrderAndFilters() {
	old := s.newReport(models.ReportFormatCSV, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	recent := s.newReport(models.ReportFormatCSV, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	s.newReport(models.ReportFormatPDF, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))

	reports, total, err := s.repo.List(models.ReportFilters{UserID: &s.user.ID}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal(recent.ID, reports[0].ID)
	s.Equal(old.ID, reports[2].ID)

	_, total, err = s.repo.List(models.ReportFilters{Format: models.ReportFormatCSV}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	start := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	reports, total, err = s.repo.List(models.ReportFilters{StartDate: &start, EndDate: &end}, pagination.NewParams(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(models.ReportFormatPDF, reports[0].Format)
}

func (s *ReportRepositorySuite) TestReportRepository_CRUD() {
	report := s.newReport(models.ReportFormatCSV, time.Time{})
	s.False(report.CreatedAt.IsZero())

	report.Format = models.ReportFormatXLSX
	s.NoError(s.repo.Update(report))

	found, err := s.repo.GetByID(report.ID)
	s.Require().NoError(err)
	s.Equal(models.ReportFormatXLSX, found.Format)
	s.Equal("r.csv", found.FileName)

	s.NoError(s.repo.Delete(report.ID))
	s.Equal(ErrReportNotFound, s.repo.Delete(report.ID))

	_, err = s.repo.GetByID(uuid.New())
	s.Equal(ErrReportNotFound, err)
}

func (s *ReportRepositorySuite) TestReportRepository_GetByFileName() {
	older := s.newReport(models.ReportFormatCSV, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	newer := s.newReport(models.ReportFormatCSV, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	other := database.CreateTestUser(s.T(), s.db, "outsider")

	found, err := s.repo.GetByFileName("r.csv", nil)
	s.Require().NoError(err)
	s.Equal(newer.ID, found.ID)

	older.UserID = other.ID
	s.Require().NoError(s.repo.Update(older))

	found, err = s.repo.GetByFileName("r.csv", &other.ID)
	s.Require().NoError(err)
	s.Equal(older.ID, found.ID)

	_, err = s.repo.GetByFileName("missing.csv", nil)
	s.Equal(ErrReportNotFound, err)

	stranger := uuid.New()
	_, err = s.repo.GetByFileName("r.csv", &stranger)
	s.Equal(ErrReportNotFound, err)
}
