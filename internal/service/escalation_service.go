package service

import (
	"context"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

// Escalation workflow errors surfaced to handlers.
var (
	ErrEmptyReason          = errors.New("a reason is required to request admin action approval")
	ErrNotSuperAdmin        = errors.New("only the super admin can decide escalation requests")
	ErrEscalationNotFound   = errors.New("escalation request not found")
	ErrEscalationFinalState = errors.New("escalation request already decided")
)

// AuditActionRequestAdminAction tags the audit record written when an
// escalation request is raised.
const AuditActionRequestAdminAction = "request_admin_action"

// EscalationService manages the super-admin approval workflow for
// admin-on-admin operations. It satisfies authz.ApprovalChecker so the
// policy can consult prior approvals.
type EscalationService interface {
	RequestApproval(ctx context.Context, requesterID string, payload dto.EscalationCreateRequest) (dto.EscalationResponse, error)
	Decide(ctx context.Context, requestID string, payload dto.EscalationDecisionRequest, deciderID string) (dto.EscalationResponse, error)
	HasApproval(ctx context.Context, requesterID, targetID string, action authz.Action) (bool, error)
	ListPending(ctx context.Context) (dto.EscalationListResponse, error)
}

type escalationService struct {
	repo      repository.EscalationRepository
	accounts  repository.AccountRepository
	audit     AuditRecorder
	validator StructValidator
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// StructValidator is the subset of validator.Validate the services depend on.
type StructValidator interface {
	Struct(s interface{}) error
}

// NewEscalationService constructs the escalation workflow service.
func NewEscalationService(
	repo repository.EscalationRepository,
	accounts repository.AccountRepository,
	audit AuditRecorder,
	validate StructValidator,
	logger zerolog.Logger,
) EscalationService {
	return &escalationService{
		repo:      repo,
		accounts:  accounts,
		audit:     audit,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/rota-go-api/internal/service/escalation"),
		logger:    logger.With().Str("component", "escalation_service").Logger(),
	}
}

func (s *escalationService) RequestApproval(ctx context.Context, requesterID string, payload dto.EscalationCreateRequest) (dto.EscalationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EscalationResponse{}, err
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))
	if reason == "" {
		return dto.EscalationResponse{}, ErrEmptyReason
	}

	spanCtx, span := s.tracer.Start(ctx, "escalation.request", trace.WithAttributes(
		attribute.String("escalation.requester_id", requesterID),
		attribute.String("escalation.target_id", payload.TargetAdminID),
		attribute.String("escalation.action", payload.ActionType),
	))
	defer span.End()

	request := models.EscalationRequest{
		RequestingAdminID: requesterID,
		TargetAdminID:     payload.TargetAdminID,
		ActionType:        strings.ToLower(strings.TrimSpace(payload.ActionType)),
		Reason:            reason,
	}

	if err := s.repo.Create(spanCtx, &request); err != nil {
		span.RecordError(err)
		return dto.EscalationResponse{}, err
	}

	// The request itself is an auditable event; a failed append is logged
	// but does not undo the recorded request.
	if s.audit != nil {
		if _, err := s.audit.Record(spanCtx, AuditEntry{
			ActorID:  requesterID,
			Action:   AuditActionRequestAdminAction,
			TargetID: &request.TargetAdminID,
			Details: map[string]interface{}{
				"action_type": request.ActionType,
				"reason":      reason,
				"request_id":  request.ID,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Str("request_id", request.ID).Msg("audit append for escalation request failed")
		}
	}

	return dto.NewEscalationResponse(request), nil
}

func (s *escalationService) Decide(ctx context.Context, requestID string, payload dto.EscalationDecisionRequest, deciderID string) (dto.EscalationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EscalationResponse{}, err
	}

	decider, err := s.accounts.GetByID(ctx, deciderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EscalationResponse{}, ErrNotSuperAdmin
		}
		return dto.EscalationResponse{}, err
	}
	if !decider.IsSuperAdmin {
		return dto.EscalationResponse{}, ErrNotSuperAdmin
	}

	spanCtx, span := s.tracer.Start(ctx, "escalation.decide", trace.WithAttributes(
		attribute.String("escalation.request_id", requestID),
		attribute.String("escalation.outcome", payload.Outcome),
	))
	defer span.End()

	request, err := s.repo.Decide(spanCtx, requestID, payload.Outcome, deciderID)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, repository.ErrEscalationDecided):
			return dto.EscalationResponse{}, ErrEscalationFinalState
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.EscalationResponse{}, ErrEscalationNotFound
		default:
			return dto.EscalationResponse{}, err
		}
	}

	return dto.NewEscalationResponse(request), nil
}

func (s *escalationService) HasApproval(ctx context.Context, requesterID, targetID string, action authz.Action) (bool, error) {
	return s.repo.HasApproved(ctx, requesterID, targetID, action.String())
}

func (s *escalationService) ListPending(ctx context.Context) (dto.EscalationListResponse, error) {
	requests, err := s.repo.ListPending(ctx)
	if err != nil {
		return dto.EscalationListResponse{}, err
	}
	return dto.EscalationListResponse{Items: dto.NewEscalationResponseSlice(requests)}, nil
}
