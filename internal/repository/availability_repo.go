package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// AvailabilityRepository exposes persistence helpers for weekly availability.
type AvailabilityRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Availability, error)
	Upsert(ctx context.Context, window *models.Availability) error
}

type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository constructs the availability repository.
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Availability, error) {
	var windows []models.Availability
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error
	return windows, err
}

// Upsert replaces the window for the employee's weekday, creating it when no
// row exists yet. One window per weekday keeps the model simple.
func (r *availabilityRepository) Upsert(ctx context.Context, window *models.Availability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Availability
		err := tx.Where("employee_id = ? AND weekday = ?", window.EmployeeID, window.Weekday).
			First(&existing).Error
		switch {
		case err == nil:
			window.ID = existing.ID
			window.CreatedAt = existing.CreatedAt
			return tx.Save(window).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if window.ID == "" {
				window.ID = uuid.NewString()
			}
			return tx.Create(window).Error
		default:
			return err
		}
	})
}
