package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/observability"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

// ErrTimeOffNotFound indicates the leave request does not exist.
var ErrTimeOffNotFound = errors.New("time-off request not found")

// TimeOffService manages leave requests and their review.
type TimeOffService interface {
	Request(ctx context.Context, employeeID string, payload dto.TimeOffCreateRequest) (dto.TimeOffResponse, error)
	Decide(ctx context.Context, actorID, requestID string, payload dto.TimeOffDecisionRequest) dto.ActionResult
	ListMine(ctx context.Context, employeeID string) (dto.TimeOffListResponse, error)
	ListPending(ctx context.Context) (dto.TimeOffListResponse, error)
}

type timeOffService struct {
	repo        repository.TimeOffRepository
	accounts    repository.AccountRepository
	policy      *authz.Policy
	escalations EscalationService
	audit       AuditRecorder
	notifier    Notifier
	validator   StructValidator
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewTimeOffService constructs the time-off service.
func NewTimeOffService(
	repo repository.TimeOffRepository,
	accounts repository.AccountRepository,
	policy *authz.Policy,
	escalations EscalationService,
	audit AuditRecorder,
	notifier Notifier,
	validate StructValidator,
	logger zerolog.Logger,
) TimeOffService {
	return &timeOffService{
		repo:        repo,
		accounts:    accounts,
		policy:      policy,
		escalations: escalations,
		audit:       audit,
		notifier:    notifier,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "timeoff_service").Logger(),
	}
}

func (s *timeOffService) Request(ctx context.Context, employeeID string, payload dto.TimeOffCreateRequest) (dto.TimeOffResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TimeOffResponse{}, err
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))
	if reason == "" {
		return dto.TimeOffResponse{}, errors.New("reason is required")
	}
	if payload.EndDate < payload.StartDate {
		return dto.TimeOffResponse{}, errors.New("end date must not precede start date")
	}

	request := models.TimeOffRequest{
		EmployeeID: employeeID,
		StartDate:  payload.StartDate,
		EndDate:    payload.EndDate,
		Reason:     reason,
	}
	if err := s.repo.Create(ctx, &request); err != nil {
		return dto.TimeOffResponse{}, err
	}

	return dto.NewTimeOffResponse(request), nil
}

func (s *timeOffService) Decide(ctx context.Context, actorID, requestID string, payload dto.TimeOffDecisionRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return dto.Failed(authz.ReasonUnauthorized)
	}

	request, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.Failed(ErrTimeOffNotFound.Error())
		}
		return dto.Failed(err.Error())
	}

	employee, err := s.accounts.GetByID(ctx, request.EmployeeID)
	var target *models.Account
	if err == nil {
		target = &employee
	}

	decision := s.policy.Evaluate(ctx, &actor, target, authz.ActionDecideTimeOff)
	observability.PolicyDecisions().WithLabelValues(authz.ActionDecideTimeOff.String(), verdictLabel(decision)).Inc()
	switch decision.Verdict {
	case authz.VerdictAllowed:
	case authz.VerdictRequiresEscalation:
		return requestEscalation(ctx, s.escalations, s.logger, actor.ID, target.ID, authz.ActionDecideTimeOff, "")
	default:
		return dto.Failed(decision.Reason)
	}

	status := strings.ToLower(strings.TrimSpace(payload.Status))
	notes := strings.TrimSpace(s.sanitizer.Sanitize(payload.Notes))
	reviewed, err := s.repo.Review(ctx, requestID, status, notes, actor.ID)
	if err != nil {
		return dto.Failed(err.Error())
	}

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, AuditEntry{
			ActorID:   actor.ID,
			ActorRole: string(actor.Role),
			Action:    "update_time_off_request",
			TargetID:  &reviewed.EmployeeID,
			Details: map[string]interface{}{
				"reviewed_by": actor.FullName,
				"request_id":  reviewed.ID,
				"status":      status,
				"notes":       notes,
			},
		}); err != nil {
			s.logger.Error().Err(err).Str("request_id", requestID).Msg("audit append failed after time-off review")
		}
	}

	if s.notifier != nil {
		if _, err := s.notifier.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  reviewed.EmployeeID,
			Type:    "time_off_decision",
			Title:   "Time Off Request Reviewed",
			Message: "Your time off request has been " + status + ".",
		}); err != nil {
			s.logger.Warn().Err(err).Msg("best-effort time-off notification failed")
		}
	}

	return dto.Succeeded("time off request " + status)
}

func (s *timeOffService) ListMine(ctx context.Context, employeeID string) (dto.TimeOffListResponse, error) {
	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return dto.TimeOffListResponse{}, err
	}
	return dto.TimeOffListResponse{Items: dto.NewTimeOffResponseSlice(requests)}, nil
}

func (s *timeOffService) ListPending(ctx context.Context) (dto.TimeOffListResponse, error) {
	requests, err := s.repo.ListPending(ctx)
	if err != nil {
		return dto.TimeOffListResponse{}, err
	}
	return dto.TimeOffListResponse{Items: dto.NewTimeOffResponseSlice(requests)}, nil
}
