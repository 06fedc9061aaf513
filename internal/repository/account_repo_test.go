package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rota-go-api/internal/models"
)

func TestAccountRepositoryFirstAccountBecomesSuperAdmin(t *testing.T) {
	db := setupTestDB(t, &models.Account{})
	repo := NewAccountRepository(db)

	first := models.Account{Email: "first@example.com", FullName: "First User"}
	require.NoError(t, repo.Create(context.Background(), &first))
	require.Equal(t, models.RoleAdmin, first.Role)
	require.True(t, first.IsSuperAdmin)

	second := models.Account{Email: "second@example.com", FullName: "Second User"}
	require.NoError(t, repo.Create(context.Background(), &second))
	require.Equal(t, models.RoleEmployee, second.Role)
	require.False(t, second.IsSuperAdmin)
}

func TestAccountRepositoryNonAdminNeverKeepsSuperAdminFlag(t *testing.T) {
	db := setupTestDB(t, &models.Account{})
	repo := NewAccountRepository(db)

	admin := models.Account{Email: "boot@example.com", FullName: "Boot"}
	require.NoError(t, repo.Create(context.Background(), &admin))

	sneaky := models.Account{Email: "sneaky@example.com", FullName: "Sneaky", Role: models.RoleManager, IsSuperAdmin: true}
	require.NoError(t, repo.Create(context.Background(), &sneaky))
	require.False(t, sneaky.IsSuperAdmin)
}

func TestAccountRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t, &models.Account{})
	repo := NewAccountRepository(db)

	deptID := "11111111-1111-4111-8111-111111111111"
	seed := []models.Account{
		{Email: "root@example.com", FullName: "Root"},
		{Email: "mia@example.com", FullName: "Mia Manager", Role: models.RoleManager, DepartmentID: &deptID},
		{Email: "eve@example.com", FullName: "Eve Employee", Role: models.RoleEmployee, Status: models.AccountStatusSuspended},
	}
	for i := range seed {
		require.NoError(t, repo.Create(context.Background(), &seed[i]))
	}

	managers, total, err := repo.List(context.Background(), AccountFilter{Role: string(models.RoleManager)})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, managers, 1)
	require.Equal(t, "mia@example.com", managers[0].Email)

	suspended, total, err := repo.List(context.Background(), AccountFilter{Status: models.AccountStatusSuspended})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "eve@example.com", suspended[0].Email)

	byName, total, err := repo.List(context.Background(), AccountFilter{Search: "mia"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Mia Manager", byName[0].FullName)

	count, err := repo.CountByDepartment(context.Background(), deptID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAccountRepositoryUpdateAndDelete(t *testing.T) {
	db := setupTestDB(t, &models.Account{})
	repo := NewAccountRepository(db)

	account := models.Account{Email: "user@example.com", FullName: "User"}
	require.NoError(t, repo.Create(context.Background(), &account))

	updated, err := repo.Update(context.Background(), account.ID, map[string]interface{}{"status": models.AccountStatusSuspended})
	require.NoError(t, err)
	require.Equal(t, models.AccountStatusSuspended, updated.Status)

	require.NoError(t, repo.Delete(context.Background(), account.ID))
	_, err = repo.GetByID(context.Background(), account.ID)
	require.Error(t, err)

	require.Error(t, repo.Delete(context.Background(), account.ID), "second delete should report not found")
}

func TestAccountRepositoryCountByRole(t *testing.T) {
	db := setupTestDB(t, &models.Account{})
	repo := NewAccountRepository(db)

	accounts := []models.Account{
		{Email: "a@example.com", FullName: "A"},
		{Email: "b@example.com", FullName: "B", Role: models.RoleManager},
		{Email: "c@example.com", FullName: "C", Role: models.RoleEmployee},
		{Email: "d@example.com", FullName: "D", Role: models.RoleEmployee},
	}
	for i := range accounts {
		require.NoError(t, repo.Create(context.Background(), &accounts[i]))
	}

	counts, err := repo.CountByRole(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[string(models.RoleAdmin)])
	require.Equal(t, int64(1), counts[string(models.RoleManager)])
	require.Equal(t, int64(2), counts[string(models.RoleEmployee)])
}
