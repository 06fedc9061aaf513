package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// TimeOffRepository exposes persistence helpers for leave requests.
type TimeOffRepository interface {
	Create(ctx context.Context, request *models.TimeOffRequest) error
	GetByID(ctx context.Context, id string) (models.TimeOffRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.TimeOffRequest, error)
	ListPending(ctx context.Context) ([]models.TimeOffRequest, error)
	CountPending(ctx context.Context) (int64, error)
	Review(ctx context.Context, id, status, notes, reviewerID string) (models.TimeOffRequest, error)
}

type timeOffRepository struct {
	db *gorm.DB
}

// NewTimeOffRepository constructs the time-off repository.
func NewTimeOffRepository(db *gorm.DB) TimeOffRepository {
	return &timeOffRepository{db: db}
}

func (r *timeOffRepository) Create(ctx context.Context, request *models.TimeOffRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.TimeOffStatusPending
	}
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *timeOffRepository) GetByID(ctx context.Context, id string) (models.TimeOffRequest, error) {
	var request models.TimeOffRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return models.TimeOffRequest{}, err
	}
	return request, nil
}

func (r *timeOffRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.TimeOffRequest, error) {
	var requests []models.TimeOffRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *timeOffRepository) ListPending(ctx context.Context) ([]models.TimeOffRequest, error) {
	var requests []models.TimeOffRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.TimeOffStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *timeOffRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TimeOffRequest{}).
		Where("status = ?", models.TimeOffStatusPending).
		Count(&count).Error
	return count, err
}

func (r *timeOffRepository) Review(ctx context.Context, id, status, notes, reviewerID string) (models.TimeOffRequest, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.TimeOffRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"notes":       notes,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return models.TimeOffRequest{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.TimeOffRequest{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}
