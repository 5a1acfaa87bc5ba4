package handlers

import (
	"net/http"

	"budgetron/internal/dto"
	"budgetron/internal/errors"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/services"

	"github.com/labstack/echo/v4"
)

// BudgetHandler serves monthly budgets with live spent/remaining figures.
type BudgetHandler struct {
	budgetService services.BudgetServiceInterface
	limits        PageLimits
}

func NewBudgetHandler(budgetService services.BudgetServiceInterface, limits PageLimits) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, limits: limits}
}

// List returns budgets, latest month first
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param month query string false "YYYY-MM"
// @Param category_id query string false "Category ID"
// @Param min_amount query number false "Minimum budget amount"
// @Param max_amount query number false "Maximum budget amount"
// @Param user_id query string false "Owner (admin only)"
// @Success 200 {object} SuccessResponse{data=pagination.Page[dto.BudgetResponse]}
// @Failure 422 {object} errors.ErrorResponse "REQUEST_001"
// @Router /budgets [get]
func (h *BudgetHandler) List(c echo.Context) error {
	q := newQueryParser(c)
	filters := models.BudgetFilters{
		UserID:     q.UUID("user_id"),
		CategoryID: q.UUID("category_id"),
		Month:      q.Month("month"),
	}
	filters.MinAmount, filters.MaxAmount = q.DecimalRange("min_amount", "max_amount")
	if q.Invalid() {
		return q.Respond()
	}

	page, err := h.budgetService.List(principal(c), filters, h.limits.params(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendPage(c, pagination.Map(page, func(b models.Budget) dto.BudgetResponse {
		return dto.NewBudgetResponse(&b)
	}))
}

// Get returns a budget. The guard loads it with spent already computed.
// @Summary Get budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse}
// @Failure 404 {object} errors.ErrorResponse "BUDGET_001"
// @Router /budgets/{id} [get]
func (h *BudgetHandler) Get(c echo.Context) error {
	budget, ok := loaded[*models.Budget](c)
	if !ok {
		return SendError(c, errors.BudgetNotFound)
	}
	return sendData(c, http.StatusOK, dto.NewBudgetResponse(budget), "")
}

// @Summary Create budget
// @Tags Budgets
// @Security BearerAuth
// @Param request body dto.CreateBudgetRequest true "Budget"
// @Success 201 {object} SuccessResponse{data=dto.BudgetResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 409 {object} errors.ErrorResponse "BUDGET_002"
// @Router /budgets [post]
func (h *BudgetHandler) Create(c echo.Context) error {
	var req dto.CreateBudgetRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	budget, err := h.budgetService.Create(principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusCreated, dto.NewBudgetResponse(budget), "Budget created successfully")
}

// @Summary Update budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Param request body dto.UpdateBudgetRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.BudgetResponse}
// @Failure 409 {object} errors.ErrorResponse "BUDGET_002"
// @Router /budgets/{id} [patch]
func (h *BudgetHandler) Update(c echo.Context) error {
	budget, ok := loaded[*models.Budget](c)
	if !ok {
		return SendError(c, errors.BudgetNotFound)
	}

	var req dto.UpdateBudgetRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	updated, err := h.budgetService.Update(principal(c), budget, &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewBudgetResponse(updated), "Budget updated successfully")
}

// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 204
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c echo.Context) error {
	budget, ok := loaded[*models.Budget](c)
	if !ok {
		return SendError(c, errors.BudgetNotFound)
	}

	if err := h.budgetService.Delete(principal(c), budget); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
