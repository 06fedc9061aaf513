package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/observability"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

const scheduleDateLayout = "2006-01-02"

// ShiftService manages shift assignment and the weekly schedule board.
type ShiftService interface {
	Assign(ctx context.Context, actorID string, payload dto.ShiftAssignRequest) dto.ActionResult
	Delete(ctx context.Context, actorID, shiftID string) dto.ActionResult
	ListForEmployee(ctx context.Context, employeeID string) ([]dto.ShiftResponse, error)
	WeekBoard(ctx context.Context, weekStart string) (dto.ScheduleBoardResponse, error)
	Availability(ctx context.Context, employeeID string) ([]dto.AvailabilityResponse, error)
	UpsertAvailability(ctx context.Context, employeeID string, payload dto.AvailabilityUpsertRequest) (dto.AvailabilityResponse, error)
}

type shiftService struct {
	shifts       repository.ShiftRepository
	availability repository.AvailabilityRepository
	accounts     repository.AccountRepository
	policy       *authz.Policy
	escalations  EscalationService
	audit        AuditRecorder
	notifier     Notifier
	validator    StructValidator
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewShiftService constructs the shift service. The Redis client is optional;
// without it the weekly board is computed on every request.
func NewShiftService(
	shifts repository.ShiftRepository,
	availability repository.AvailabilityRepository,
	accounts repository.AccountRepository,
	policy *authz.Policy,
	escalations EscalationService,
	audit AuditRecorder,
	notifier Notifier,
	validate StructValidator,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ShiftService {
	return &shiftService{
		shifts:       shifts,
		availability: availability,
		accounts:     accounts,
		policy:       policy,
		escalations:  escalations,
		audit:        audit,
		notifier:     notifier,
		validator:    validate,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger.With().Str("component", "shift_service").Logger(),
	}
}

func (s *shiftService) Assign(ctx context.Context, actorID string, payload dto.ShiftAssignRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return dto.Failed(authz.ReasonUnauthorized)
	}

	employee, err := s.accounts.GetByID(ctx, payload.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.Failed("User not found")
		}
		return dto.Failed(err.Error())
	}

	decision := s.policy.Evaluate(ctx, &actor, &employee, authz.ActionAssignShift)
	observability.PolicyDecisions().WithLabelValues(authz.ActionAssignShift.String(), verdictLabel(decision)).Inc()
	switch decision.Verdict {
	case authz.VerdictAllowed:
	case authz.VerdictRequiresEscalation:
		return requestEscalation(ctx, s.escalations, s.logger, actor.ID, employee.ID, authz.ActionAssignShift, "")
	default:
		return dto.Failed(decision.Reason)
	}

	shift := models.Shift{
		EmployeeID:   employee.ID,
		DepartmentID: payload.DepartmentID,
		ShiftDate:    payload.ShiftDate,
		StartTime:    payload.StartTime,
		EndTime:      payload.EndTime,
		Role:         payload.Role,
		Status:       models.ShiftStatusPublished,
	}
	if err := s.shifts.Create(ctx, &shift); err != nil {
		return dto.Failed(err.Error())
	}

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, AuditEntry{
			ActorID:   actor.ID,
			ActorRole: string(actor.Role),
			Action:    "assign_shift",
			TargetID:  &employee.ID,
			Details: map[string]interface{}{
				"assigned_by": actor.FullName,
				"shift_date":  payload.ShiftDate,
				"start_time":  payload.StartTime,
				"end_time":    payload.EndTime,
			},
		}); err != nil {
			s.logger.Error().Err(err).Msg("audit append failed after shift assignment")
		}
	}

	if s.notifier != nil {
		if _, err := s.notifier.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  employee.ID,
			Type:    "shift_assigned",
			Title:   "New Shift Assigned",
			Message: fmt.Sprintf("You have been assigned a shift on %s from %s to %s.", payload.ShiftDate, payload.StartTime, payload.EndTime),
		}); err != nil {
			s.logger.Warn().Err(err).Msg("best-effort shift notification failed")
		}
	}

	s.invalidateBoard(ctx, payload.ShiftDate)
	return dto.Succeeded("shift assigned")
}

func (s *shiftService) Delete(ctx context.Context, actorID, shiftID string) dto.ActionResult {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return dto.Failed(authz.ReasonUnauthorized)
	}

	shift, err := s.shifts.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.Failed("Shift not found")
		}
		return dto.Failed(err.Error())
	}

	var target *models.Account
	if employee, err := s.accounts.GetByID(ctx, shift.EmployeeID); err == nil {
		target = &employee
	}

	decision := s.policy.Evaluate(ctx, &actor, target, authz.ActionDeleteShift)
	observability.PolicyDecisions().WithLabelValues(authz.ActionDeleteShift.String(), verdictLabel(decision)).Inc()
	switch decision.Verdict {
	case authz.VerdictAllowed:
	case authz.VerdictRequiresEscalation:
		return requestEscalation(ctx, s.escalations, s.logger, actor.ID, target.ID, authz.ActionDeleteShift, "")
	default:
		return dto.Failed(decision.Reason)
	}

	if err := s.shifts.Delete(ctx, shiftID); err != nil {
		return dto.Failed(err.Error())
	}

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, AuditEntry{
			ActorID:   actor.ID,
			ActorRole: string(actor.Role),
			Action:    "delete_shift",
			TargetID:  &shift.EmployeeID,
			Details: map[string]interface{}{
				"deleted_by": actor.FullName,
				"shift_id":   shift.ID,
			},
		}); err != nil {
			s.logger.Error().Err(err).Msg("audit append failed after shift deletion")
		}
	}

	s.invalidateBoard(ctx, shift.ShiftDate)
	return dto.Succeeded("shift deleted")
}

func (s *shiftService) ListForEmployee(ctx context.Context, employeeID string) ([]dto.ShiftResponse, error) {
	shifts, err := s.shifts.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return dto.NewShiftResponseSlice(shifts), nil
}

// WeekBoard returns the published schedule for the week starting at
// weekStart (YYYY-MM-DD). The board is cached because the scheduler page
// polls it aggressively.
func (s *shiftService) WeekBoard(ctx context.Context, weekStart string) (dto.ScheduleBoardResponse, error) {
	start, err := time.Parse(scheduleDateLayout, weekStart)
	if err != nil {
		return dto.ScheduleBoardResponse{}, fmt.Errorf("invalid week start: %w", err)
	}
	end := start.AddDate(0, 0, 6)

	cacheKey := "rota:board:" + weekStart
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var board dto.ScheduleBoardResponse
			if err := json.Unmarshal([]byte(cached), &board); err == nil {
				board.CacheHit = true
				return board, nil
			}
		}
	}

	shifts, err := s.shifts.ListRange(ctx, weekStart, end.Format(scheduleDateLayout))
	if err != nil {
		return dto.ScheduleBoardResponse{}, err
	}

	board := dto.ScheduleBoardResponse{
		WeekStart:   weekStart,
		Shifts:      dto.NewShiftResponseSlice(shifts),
		GeneratedAt: time.Now().UTC(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(board); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache schedule board")
			}
		}
	}

	return board, nil
}

func (s *shiftService) Availability(ctx context.Context, employeeID string) ([]dto.AvailabilityResponse, error) {
	windows, err := s.availability.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return dto.NewAvailabilityResponseSlice(windows), nil
}

func (s *shiftService) UpsertAvailability(ctx context.Context, employeeID string, payload dto.AvailabilityUpsertRequest) (dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AvailabilityResponse{}, err
	}

	window := models.Availability{
		EmployeeID: employeeID,
		Weekday:    payload.Weekday,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		Available:  *payload.Available,
	}
	if err := s.availability.Upsert(ctx, &window); err != nil {
		return dto.AvailabilityResponse{}, err
	}

	return dto.NewAvailabilityResponse(window), nil
}

// invalidateBoard drops the cached board for the week containing shiftDate.
func (s *shiftService) invalidateBoard(ctx context.Context, shiftDate string) {
	if s.cache == nil {
		return
	}
	day, err := time.Parse(scheduleDateLayout, shiftDate)
	if err != nil {
		return
	}
	offset := (int(day.Weekday()) + 6) % 7 // Monday-based weeks
	weekStart := day.AddDate(0, 0, -offset).Format(scheduleDateLayout)
	if err := s.cache.Del(ctx, "rota:board:"+weekStart).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate schedule board cache")
	}
}
