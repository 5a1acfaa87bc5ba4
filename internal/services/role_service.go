package services

import (
	"errors"

	"budgetron/internal/dto"
	"budgetron/internal/models"
	"budgetron/internal/pagination"
	"budgetron/internal/repositories"

	"github.com/google/uuid"
)

// RoleService manages the role reference table. The seeded admin and user
// roles cannot be renamed or removed because authorization depends on them.
type RoleService struct {
	roleRepo     repositories.RoleRepositoryInterface
	auditService AuditServiceInterface
}

func NewRoleService(roleRepo repositories.RoleRepositoryInterface, auditService AuditServiceInterface) RoleServiceInterface {
	return &RoleService{
		roleRepo:     roleRepo,
		auditService: auditService,
	}
}

func (s *RoleService) List(page pagination.Params) (*pagination.Page[models.Role], error) {
	roles, total, err := s.roleRepo.List(page)
	if err != nil {
		return nil, err
	}
	return pagination.New(roles, total, page), nil
}

func (s *RoleService) Get(id uuid.UUID) (*models.Role, error) {
	return s.roleRepo.GetByID(id)
}

func (s *RoleService) Create(p Principal, req *dto.CreateRoleRequest) (*models.Role, error) {
	if err := s.checkName(req.Name, nil); err != nil {
		return nil, err
	}

	role := &models.Role{Name: req.Name}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, err
	}

	s.auditService.LogAction(p, models.AuditActionCreate, models.AuditResourceRole, role.ID.String(),
		models.AuditDetails{"name": role.Name})
	return role, nil
}

func (s *RoleService) Update(p Principal, id uuid.UUID, req *dto.UpdateRoleRequest) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name == nil || *req.Name == role.Name {
		return role, nil
	}
	if isBuiltinRole(role.Name) {
		return nil, ErrRoleProtected
	}
	if err := s.checkName(*req.Name, &role.ID); err != nil {
		return nil, err
	}

	previous := role.Name
	role.Name = *req.Name
	if err := s.roleRepo.Update(role); err != nil {
		return nil, err
	}

	s.auditService.LogAction(p, models.AuditActionUpdate, models.AuditResourceRole, role.ID.String(),
		models.AuditDetails{"from": previous, "to": role.Name})
	return role, nil
}

// Delete refuses roles that are still assigned to a user.
func (s *RoleService) Delete(p Principal, id uuid.UUID) error {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if isBuiltinRole(role.Name) {
		return ErrRoleProtected
	}

	assigned, err := s.roleRepo.CountUsers(role.ID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return ErrRoleInUse
	}

	if err := s.roleRepo.Delete(role.ID); err != nil {
		return err
	}

	s.auditService.LogAction(p, models.AuditActionDelete, models.AuditResourceRole, role.ID.String(),
		models.AuditDetails{"name": role.Name})
	return nil
}

func (s *RoleService) checkName(name string, excludeID *uuid.UUID) error {
	existing, err := s.roleRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrRoleNotFound) {
			return nil
		}
		return err
	}
	if excludeID != nil && existing.ID == *excludeID {
		return nil
	}
	return conflict(ErrRoleAlreadyExists, "name", "is already taken")
}

func isBuiltinRole(name string) bool {
	return name == models.RoleAdmin || name == models.RoleUser
}
