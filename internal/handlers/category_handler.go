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

// CategoryHandler serves default and personal categories. Visibility and
// edit rights are enforced by the category service.
type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
	limits          PageLimits
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface, limits PageLimits) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, limits: limits}
}

// List returns visible categories ordered by name
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param type query string false "income or expense"
// @Param scope query string false "default or personal"
// @Param search query string false "Name substring"
// @Success 200 {object} SuccessResponse{data=pagination.Page[dto.CategoryResponse]}
// @Failure 422 {object} errors.ErrorResponse "REQUEST_001"
// @Router /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	q := newQueryParser(c)
	filters := models.CategoryFilters{
		Type:   q.OneOf("type", models.CategoryTypeIncome, models.CategoryTypeExpense),
		Scope:  q.OneOf("scope", models.CategoryScopeDefault, models.CategoryScopePersonal),
		Search: q.String("search"),
	}
	if q.Invalid() {
		return q.Respond()
	}

	page, err := h.categoryService.List(principal(c), filters, h.limits.params(c))
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendPage(c, pagination.Map(page, func(cat models.Category) dto.CategoryResponse {
		return dto.NewCategoryResponse(&cat)
	}))
}

// @Summary Get category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} SuccessResponse{data=dto.CategoryResponse}
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001"
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.CategoryNotFound)
	}

	category, err := h.categoryService.Get(principal(c), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewCategoryResponse(category), "")
}

// Create adds a default category when called by an admin, a personal one otherwise
// @Summary Create category
// @Tags Categories
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} SuccessResponse{data=dto.CategoryResponse}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002"
// @Router /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req dto.CreateCategoryRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.Create(principal(c), &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusCreated, dto.NewCategoryResponse(category), "Category created successfully")
}

// @Summary Update category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} SuccessResponse{data=dto.CategoryResponse}
// @Failure 403 {object} errors.ErrorResponse "AUTH_005"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002"
// @Router /categories/{id} [patch]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.CategoryNotFound)
	}

	var req dto.UpdateCategoryRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	category, err := h.categoryService.Update(principal(c), id, &req)
	if err != nil {
		return handleServiceError(c, err)
	}
	return sendData(c, http.StatusOK, dto.NewCategoryResponse(category), "Category updated successfully")
}

// @Summary Delete category
// @Tags Categories
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 204
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_003"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return SendError(c, errors.CategoryNotFound)
	}

	if err := h.categoryService.Delete(principal(c), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
