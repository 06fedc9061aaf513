package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// AccountFilter narrows account listing queries.
type AccountFilter struct {
	Search       string
	Role         string
	Status       string
	DepartmentID string
	Page         int
	PageSize     int
}

// AccountRepository exposes persistence helpers for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (models.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]models.Account, int64, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (models.Account, error)
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[string]int64, error)
	CountByDepartment(ctx context.Context, departmentID string) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs the account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create persists a new account. The first account ever created is promoted
// to admin inside the same transaction, so two concurrent sign-ups cannot
// both observe an empty admin set and only one bootstrap admin exists.
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.Role == "" {
		account.Role = models.RoleEmployee
	}
	if account.Status == "" {
		account.Status = models.AccountStatusActive
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var adminCount int64
		if err := tx.Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
			return err
		}
		if adminCount == 0 {
			account.Role = models.RoleAdmin
			account.IsSuperAdmin = true
		}
		if account.Role != models.RoleAdmin {
			account.IsSuperAdmin = false
		}
		return tx.Create(account).Error
	})
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *accountRepository) List(ctx context.Context, filter AccountFilter) ([]models.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var accounts []models.Account
	if err := query.Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *accountRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (models.Account, error) {
	result := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Account{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Account{}, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *accountRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	type roleCount struct {
		Role  string
		Count int64
	}

	var rows []roleCount
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *accountRepository) CountByDepartment(ctx context.Context, departmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}
