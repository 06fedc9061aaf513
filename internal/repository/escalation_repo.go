package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// ErrEscalationDecided signals an attempt to transition a request that has
// already reached a terminal state.
var ErrEscalationDecided = errors.New("escalation request already decided")

// EscalationRepository persists super-admin approval requests.
type EscalationRepository interface {
	Create(ctx context.Context, request *models.EscalationRequest) error
	GetByID(ctx context.Context, id string) (models.EscalationRequest, error)
	ListPending(ctx context.Context) ([]models.EscalationRequest, error)
	CountPending(ctx context.Context) (int64, error)
	HasApproved(ctx context.Context, requesterID, targetID, actionType string) (bool, error)
	Decide(ctx context.Context, id, outcome, deciderID string) (models.EscalationRequest, error)
}

type escalationRepository struct {
	db *gorm.DB
}

// NewEscalationRepository constructs the escalation repository.
func NewEscalationRepository(db *gorm.DB) EscalationRepository {
	return &escalationRepository{db: db}
}

func (r *escalationRepository) Create(ctx context.Context, request *models.EscalationRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.EscalationStatusPending
	}
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *escalationRepository) GetByID(ctx context.Context, id string) (models.EscalationRequest, error) {
	var request models.EscalationRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return models.EscalationRequest{}, err
	}
	return request, nil
}

func (r *escalationRepository) ListPending(ctx context.Context) ([]models.EscalationRequest, error) {
	var requests []models.EscalationRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.EscalationStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *escalationRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EscalationRequest{}).
		Where("status = ?", models.EscalationStatusPending).
		Count(&count).Error
	return count, err
}

func (r *escalationRepository) HasApproved(ctx context.Context, requesterID, targetID, actionType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EscalationRequest{}).
		Where("requesting_admin_id = ? AND target_admin_id = ? AND action_type = ? AND status = ?",
			requesterID, targetID, actionType, models.EscalationStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Decide transitions a pending request to a terminal state. The update is
// conditional on the current status still being pending, so concurrent
// decisions cannot both win; the loser sees ErrEscalationDecided.
func (r *escalationRepository) Decide(ctx context.Context, id, outcome, deciderID string) (models.EscalationRequest, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.EscalationRequest{}).
		Where("id = ? AND status = ?", id, models.EscalationStatusPending).
		Updates(map[string]interface{}{
			"status":     outcome,
			"decided_by": deciderID,
			"decided_at": now,
		})
	if result.Error != nil {
		return models.EscalationRequest{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return models.EscalationRequest{}, err
		}
		return models.EscalationRequest{}, ErrEscalationDecided
	}

	return r.GetByID(ctx, id)
}
