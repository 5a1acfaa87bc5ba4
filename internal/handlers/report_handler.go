package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"path"

	"budgetron/internal/dto"
	"budgetron/internal/errors"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

// ReportHandler generates monthly reports and serves their artifacts.
type ReportHandler struct {
	reportService services.ReportServiceInterface
	limits        PageLimits
}

func NewReportHandler(reportService services.ReportServiceInterface, limits PageLimits) *ReportHandler {
	return &ReportHandler{reportService: reportService, limits: limits}
}

// List returns reports, newest first
// @Summary List reports
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param format query string false "csv, pdf or xlsx"
// @Param start_date query string false "Created on or after, YYYY-MM-DD"
// @Param end_date query string false "Created on or before, YYYY-MM-DD"
// @Param user_id query string false "Owner (admin only)"
// @Success 200 {object} SuccessResponse{data=pagination.Page[dto.ReportResponse]}
// @Failure 422 {object} errors.ErrorResponse "REQUEST_001"
// @Router /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	q := newQueryParser(c)
	filters := models.ReportFilters{
		UserID: q.UUID("user_id"),
		Format: q.OneOf("format", models.ReportFormatCSV, models.ReportFormatPDF, models.ReportFormatXLSX),
	}
	filters.StartDate, filters.EndDate = q.DateRange("start_date", "end_date")
	if q.Invalid() {
		return q.Respond()
	}

	page, err := h.reportService.List(principal(c), filters, h.limits.params(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendPage(c, pagination.Map(page, func(r models.Report) dto.ReportResponse {
		return dto.NewReportResponse(&r)
	}))
}

// @Summary Get report
// @Tags Reports
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} SuccessResponse{data=dto.ReportResponse}
// @Failure 404 {object} errors.ErrorResponse "REPORT_001"
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	report, ok := loaded[*models.Report](c)
	if !ok {
		return SendError(c, errors.ReportNotFound)
	}
	return sendData(c, http.StatusOK, dto.NewReportResponse(report), "")
}

// Create generates the csv summary of one month synchronously
// @Summary Generate report
// @Tags Reports
// @Security BearerAuth
// @Param request body dto.CreateReportRequest true "Month and format"
// @Success 201 {object} SuccessResponse{data=dto.ReportResponse}
// @Failure 404 {object} errors.ErrorResponse "REPORT_003"
// @Failure 422 {object} errors.ErrorResponse "REPORT_002"
// @Failure 500 {object} errors.ErrorResponse "REPORT_004"
// @Router /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req dto.CreateReportRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	report, err := h.reportService.Generate(c.Request().Context(), principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusCreated, dto.NewReportResponse(report), "Report generated successfully")
}

// @Summary Update report
// @Tags Reports
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body dto.UpdateReportRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.ReportResponse}
// @Router /reports/{id} [patch]
func (h *ReportHandler) Update(c echo.Context) error {
	report, ok := loaded[*models.Report](c)
	if !ok {
		return SendError(c, errors.ReportNotFound)
	}

	var req dto.UpdateReportRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	updated, err := h.reportService.Update(principal(c), report, &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewReportResponse(updated), "Report updated successfully")
}

// Delete removes the report row and its artifact
// @Summary Delete report
// @Tags Reports
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 204
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c echo.Context) error {
	report, ok := loaded[*models.Report](c)
	if !ok {
		return SendError(c, errors.ReportNotFound)
	}

	if err := h.reportService.Delete(c.Request().Context(), principal(c), report); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Download streams the stored csv
// @Summary Download report
// @Tags Reports
// @Security BearerAuth
// @Produce text/csv
// @Param id path string true "Report ID"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse "REPORT_001"
// @Router /reports/{id}/download [get]
func (h *ReportHandler) Download(c echo.Context) error {
	report, ok := loaded[*models.Report](c)
	if !ok {
		return SendError(c, errors.ReportNotFound)
	}
	return h.stream(c, report)
}

// ServeFile answers the file_url returned with each report. Access is
// decided by the report row that references the file.
func (h *ReportHandler) ServeFile(c echo.Context) error {
	name := path.Base(c.Param("name"))
	report, err := h.reportService.GetByFileName(principal(c), name)
	if err != nil {
		return handleServiceError(c, err)
	}
	return h.stream(c, report)
}

func (h *ReportHandler) stream(c echo.Context, report *models.Report) error {
	ctx := c.Request().Context()
	rc, err := h.reportService.OpenArtifact(ctx, report)
	if err != nil {
		return handleServiceError(c, err)
	}
	defer rc.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+report.FileName+`"`)
	res.WriteHeader(http.StatusOK)
	if _, err := io.Copy(res, rc); err != nil {
		slog.WarnContext(ctx, "report download interrupted",
			"file", report.FileName,
			"error", err)
	}
	return nil
}
