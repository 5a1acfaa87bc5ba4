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

// TransactionHandler serves transactions. Routes with an :id run behind the
// ownership guard, which loads the record into the context.
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
	limits             PageLimits
}

func NewTransactionHandler(transactionService services.TransactionServiceInterface, limits PageLimits) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, limits: limits}
}

// List returns transactions, newest first
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param category_id query string false "Category ID"
// @Param type query string false "income or expense"
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Param min_amount query number false "Minimum amount"
// @Param max_amount query number false "Maximum amount"
// @Param search query string false "Description substring"
// @Param user_id query string false "Owner (admin only)"
// @Success 200 {object} SuccessResponse{data=pagination.Page[dto.TransactionResponse]}
// @Failure 422 {object} errors.ErrorResponse "REQUEST_001"
// @Router /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	q := newQueryParser(c)
	filters := models.TransactionFilters{
		UserID:     q.UUID("user_id"),
		CategoryID: q.UUID("category_id"),
		Type:       q.OneOf("type", models.CategoryTypeIncome, models.CategoryTypeExpense),
		Search:     q.String("search"),
	}
	filters.StartDate, filters.EndDate = q.DateRange("start_date", "end_date")
	filters.MinAmount, filters.MaxAmount = q.DecimalRange("min_amount", "max_amount")
	if q.Invalid() {
		return q.Respond()
	}

	page, err := h.transactionService.List(principal(c), filters, h.limits.params(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendPage(c, pagination.Map(page, func(t models.Transaction) dto.TransactionResponse {
		return dto.NewTransactionResponse(&t)
	}))
}

// @Summary Get transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	txn, ok := loaded[*models.Transaction](c)
	if !ok {
		return SendError(c, errors.TransactionNotFound)
	}
	return sendData(c, http.StatusOK, dto.NewTransactionResponse(txn), "")
}

// Create records a transaction. Admins may pass user_id to act for someone else.
// @Summary Create transaction
// @Tags Transactions
// @Security BearerAuth
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Router /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	var req dto.CreateTransactionRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	txn, err := h.transactionService.Create(principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusCreated, dto.NewTransactionResponse(txn), "Transaction created successfully")
}

// @Summary Update transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.TransactionResponse}
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001"
// @Router /transactions/{id} [patch]
func (h *TransactionHandler) Update(c echo.Context) error {
	txn, ok := loaded[*models.Transaction](c)
	if !ok {
		return SendError(c, errors.TransactionNotFound)
	}

	var req dto.UpdateTransactionRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	updated, err := h.transactionService.Update(principal(c), txn, &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewTransactionResponse(updated), "Transaction updated successfully")
}

// @Summary Delete transaction
// @Tags Transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	txn, ok := loaded[*models.Transaction](c)
	if !ok {
		return SendError(c, errors.TransactionNotFound)
	}

	if err := h.transactionService.Delete(principal(c), txn); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
