package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// ShiftRepository exposes persistence helpers for shifts.
type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	GetByID(ctx context.Context, id string) (models.Shift, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Shift, error)
	ListRange(ctx context.Context, fromDate, toDate string) ([]models.Shift, error)
	CountRange(ctx context.Context, fromDate, toDate string) (int64, error)
}

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository constructs the shift repository.
func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	if shift.Status == "" {
		shift.Status = models.ShiftStatusPublished
	}
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (models.Shift, error) {
	var shift models.Shift
	if err := r.db.WithContext(ctx).First(&shift, "id = ?", id).Error; err != nil {
		return models.Shift{}, err
	}
	return shift, nil
}

func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Shift{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *shiftRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Shift, error) {
	var shifts []models.Shift
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("shift_date ASC, start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepository) ListRange(ctx context.Context, fromDate, toDate string) ([]models.Shift, error) {
	var shifts []models.Shift
	err := r.db.WithContext(ctx).
		Where("shift_date >= ? AND shift_date <= ?", fromDate, toDate).
		Order("shift_date ASC, start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepository) CountRange(ctx context.Context, fromDate, toDate string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Shift{}).
		Where("shift_date >= ? AND shift_date <= ?", fromDate, toDate).
		Count(&count).Error
	return count, err
}
