package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/observability"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

// Actor represents the authenticated caller performing a gated operation.
type Actor struct {
	ID   string
	Role string
}

// AuditEntry captures the details required to persist an audit record.
type AuditEntry struct {
	ActorID   string
	ActorRole string
	Action    string
	TargetID  *string
	Details   map[string]interface{}
}

// AuditRecorder defines behaviour for appending to the audit trail. Every
// orchestrated mutation calls it explicitly after the mutation succeeds.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) (dto.AuditResponse, error)
}

// AuditService exposes methods to append to and query the audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error)
}

type auditService struct {
	repo   repository.AuditRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) (dto.AuditResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.AuditResponse{}, fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.ActorID) == "" {
		return dto.AuditResponse{}, fmt.Errorf("actor id is required")
	}

	model := models.AuditRecord{
		ActorID:   entry.ActorID,
		ActorRole: normalizeActorRole(entry.ActorRole),
		Action:    strings.ToLower(strings.TrimSpace(entry.Action)),
		TargetID:  entry.TargetID,
		Details:   sanitizeDetails(entry.Details),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		observability.AuditWrites().WithLabelValues(model.Action, "error").Inc()
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist audit record")
		return dto.AuditResponse{}, err
	}

	observability.AuditWrites().WithLabelValues(model.Action, "ok").Inc()
	return dto.NewAuditResponse(model), nil
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	filter := repository.AuditFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		ActorID:  strings.TrimSpace(req.ActorID),
		Action:   strings.TrimSpace(req.Action),
		TargetID: strings.TrimSpace(req.TargetID),
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	responses := make([]dto.AuditResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewAuditResponse(record))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.AuditListResponse{Items: responses, Pagination: pagination}, nil
}

// sanitizeDetails masks metadata values whose keys look like direct contact
// or credential material before they reach the durable trail.
func sanitizeDetails(details map[string]interface{}) datatypes.JSONMap {
	if details == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range details {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") || strings.Contains(lower, "password") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func normalizeActorRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	if r == "" {
		return "system"
	}
	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
