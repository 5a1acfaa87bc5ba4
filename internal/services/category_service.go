package services

import (
	"strings"

	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

// CategoryService manages default categories (admin owned, visible to
// everyone) and personal categories (visible to their owner only).
type CategoryService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	auditService AuditServiceInterface
	metrics      MetricsRecorderInterface
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	auditService AuditServiceInterface,
	metrics MetricsRecorderInterface,
) CategoryServiceInterface {
	return &CategoryService{
		categoryRepo: categoryRepo,
		auditService: auditService,
		metrics:      metrics,
	}
}

// List returns the categories visible to p, ordered by name.
func (s *CategoryService) List(p Principal, filters models.CategoryFilters, page pagination.Params) (*pagination.Page[models.Category], error) {
	if !p.IsAdmin {
		filters.VisibleTo = &p.UserID
	}

	categories, total, err := s.categoryRepo.List(filters, page)
	if err != nil {
		return nil, err
	}
	return pagination.New(categories, total, page), nil
}

func (s *CategoryService) Get(p Principal, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin && !category.IsVisibleTo(p.UserID) {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create makes a default category when called by an admin and a personal
// category otherwise.
func (s *CategoryService) Create(p Principal, req *dto.CreateCategoryRequest) (*models.Category, error) {
	var owner *uuid.UUID
	if !p.IsAdmin {
		id := p.UserID
		owner = &id
	}

	name := strings.TrimSpace(req.Name)
	if err := s.checkName(name, owner, nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:   name,
		Type:   req.Type,
		UserID: owner,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	s.audit(p, models.AuditActionCreate, category)
	return category, nil
}

func (s *CategoryService) Update(p Principal, id uuid.UUID, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.editable(p, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != category.Name {
			if err := s.checkName(name, category.UserID, &category.ID); err != nil {
				return nil, err
			}
			category.Name = name
			changed = true
		}
	}
	if req.Type != nil && *req.Type != category.Type {
		category.Type = *req.Type
		changed = true
	}
	if !changed {
		return category, nil
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	s.audit(p, models.AuditActionUpdate, category)
	return category, nil
}

// Delete fails with ErrCategoryInUse while transactions or budgets reference the category.
func (s *CategoryService) Delete(p Principal, id uuid.UUID) error {
	category, err := s.editable(p, id)
	if err != nil {
		return err
	}

	refs, err := s.categoryRepo.CountReferences(category.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(category.ID); err != nil {
		return err
	}

	s.audit(p, models.AuditActionDelete, category)
	return nil
}

// editable loads a category the principal may change. Defaults are visible to
// everyone but only admins may modify them.
func (s *CategoryService) editable(p Principal, id uuid.UUID) (*models.Category, error) {
	category, err := s.Get(p, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin && !category.IsOwnedBy(p.UserID) {
		return nil, ErrForbidden
	}
	return category, nil
}

func (s *CategoryService) checkName(name string, owner, excludeID *uuid.UUID) error {
	taken, err := s.categoryRepo.NameExistsInScope(name, owner, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return conflict(ErrCategoryAlreadyExists, "name", "is already used by another category")
	}
	return nil
}

func (s *CategoryService) audit(p Principal, action models.AuditAction, category *models.Category) {
	s.auditService.LogAction(p, action, models.AuditResourceCategory, category.ID.String(),
		models.AuditDetails{"name": category.Name, "default": category.UserID == nil})
	s.metrics.IncrementCounter(MetricRecordChanged, map[string]string{"resource": "category", "operation": action.Verb()})
}
