package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

// ErrDepartmentNotFound indicates the department does not exist.
var ErrDepartmentNotFound = errors.New("department not found")

// DepartmentService manages departments. Deletion is refused while the
// department still has members, mirroring the scheduler UI's guard.
type DepartmentService interface {
	Create(ctx context.Context, actor Actor, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error)
	List(ctx context.Context) (dto.DepartmentListResponse, error)
	Delete(ctx context.Context, actor Actor, id string) dto.ActionResult
}

type departmentService struct {
	repo      repository.DepartmentRepository
	accounts  repository.AccountRepository
	audit     AuditRecorder
	validator StructValidator
	logger    zerolog.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(
	repo repository.DepartmentRepository,
	accounts repository.AccountRepository,
	audit AuditRecorder,
	validate StructValidator,
	logger zerolog.Logger,
) DepartmentService {
	return &departmentService{
		repo:      repo,
		accounts:  accounts,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "department_service").Logger(),
	}
}

func (s *departmentService) Create(ctx context.Context, actor Actor, payload dto.DepartmentCreateRequest) (dto.DepartmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.DepartmentResponse{}, err
	}

	department := models.Department{
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
	}
	if err := s.repo.Create(ctx, &department); err != nil {
		return dto.DepartmentResponse{}, err
	}

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, AuditEntry{
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Action:    "department_created",
			TargetID:  &department.ID,
			Details:   map[string]interface{}{"name": department.Name},
		}); err != nil {
			s.logger.Error().Err(err).Msg("audit append failed after department creation")
		}
	}

	return dto.NewDepartmentResponse(department, 0), nil
}

func (s *departmentService) List(ctx context.Context) (dto.DepartmentListResponse, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return dto.DepartmentListResponse{}, err
	}

	items := make([]dto.DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		count, err := s.accounts.CountByDepartment(ctx, department.ID)
		if err != nil {
			return dto.DepartmentListResponse{}, err
		}
		items = append(items, dto.NewDepartmentResponse(department, count))
	}

	return dto.DepartmentListResponse{Items: items}, nil
}

func (s *departmentService) Delete(ctx context.Context, actor Actor, id string) dto.ActionResult {
	count, err := s.accounts.CountByDepartment(ctx, id)
	if err != nil {
		return dto.Failed(err.Error())
	}
	if count > 0 {
		return dto.Failed(fmt.Sprintf("Cannot delete department with %d employee(s). Please reassign employees first.", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.Failed(ErrDepartmentNotFound.Error())
		}
		return dto.Failed(err.Error())
	}

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, AuditEntry{
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Action:    "department_deleted",
			TargetID:  &id,
			Details:   map[string]interface{}{"action": "delete_department"},
		}); err != nil {
			s.logger.Error().Err(err).Msg("audit append failed after department deletion")
		}
	}

	return dto.Succeeded("department deleted")
}
