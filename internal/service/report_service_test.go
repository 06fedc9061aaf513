package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

func TestReportSummaryCountsAndCaches(t *testing.T) {
	env := newTestEnv(t)
	_, client := newTestRedis(t)

	svc := NewReportService(
		env.accounts,
		repository.NewShiftRepository(env.db),
		repository.NewTimeOffRepository(env.db),
		env.escalations,
		client,
		time.Minute,
		zerolog.Nop(),
	)
	ctx := context.Background()

	admin := env.seedAccount(t, models.Account{
		ID:           uuid.NewString(),
		Email:        "super@example.com",
		FullName:     "Super Admin",
		Role:         models.RoleAdmin,
		IsSuperAdmin: true,
	})
	employee := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "worker@example.com",
		FullName: "A Worker",
		Role:     models.RoleEmployee,
	})

	require.NoError(t, env.db.Create(&models.Shift{
		ID:         uuid.NewString(),
		EmployeeID: employee.ID,
		ShiftDate:  time.Now().UTC().Format("2006-01-02"),
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     models.ShiftStatusPublished,
	}).Error)
	require.NoError(t, env.db.Create(&models.TimeOffRequest{
		ID:         uuid.NewString(),
		EmployeeID: employee.ID,
		StartDate:  "2026-04-06",
		EndDate:    "2026-04-08",
		Reason:     "dentist",
		Status:     models.TimeOffStatusPending,
	}).Error)

	_, err := env.escalation.RequestApproval(ctx, admin.ID, dto.EscalationCreateRequest{
		TargetAdminID: admin.ID,
		ActionType:    "suspend",
		Reason:        "self test",
	})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.False(t, summary.CacheHit)
	require.EqualValues(t, 2, summary.TotalAccounts)
	require.EqualValues(t, 1, summary.AccountsByRole[string(models.RoleAdmin)])
	require.EqualValues(t, 1, summary.AccountsByRole[string(models.RoleEmployee)])
	require.EqualValues(t, 1, summary.ShiftsThisWeek)
	require.EqualValues(t, 1, summary.PendingTimeOff)
	require.EqualValues(t, 1, summary.PendingApprovals)
	require.Zero(t, summary.ConflictCount)

	cached, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, summary.TotalAccounts, cached.TotalAccounts)
}

func TestReportSummaryWithoutCacheClient(t *testing.T) {
	env := newTestEnv(t)

	svc := NewReportService(
		env.accounts,
		repository.NewShiftRepository(env.db),
		repository.NewTimeOffRepository(env.db),
		env.escalations,
		nil,
		time.Minute,
		zerolog.Nop(),
	)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.False(t, summary.CacheHit)
	require.Zero(t, summary.TotalAccounts)
}
