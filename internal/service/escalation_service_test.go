package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
)

func TestEscalationRequestRejectsReasonThatSanitizesToNothing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.escalation.RequestApproval(context.Background(), uuid.NewString(), dto.EscalationCreateRequest{
		TargetAdminID: uuid.NewString(),
		ActionType:    "suspend",
		Reason:        "<script>alert(1)</script>",
	})
	require.ErrorIs(t, err, ErrEmptyReason)
}

func TestEscalationRequestWritesAuditRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	requester := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "requester@example.com",
		FullName: "Requesting Admin",
		Role:     models.RoleAdmin,
	})
	target := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "target@example.com",
		FullName: "Target Admin",
		Role:     models.RoleAdmin,
	})

	response, err := env.escalation.RequestApproval(ctx, requester.ID, dto.EscalationCreateRequest{
		TargetAdminID: target.ID,
		ActionType:    "Suspend",
		Reason:        "  needs review  ",
	})
	require.NoError(t, err)
	require.Equal(t, models.EscalationStatusPending, response.Status)
	require.Equal(t, "suspend", response.ActionType)
	require.Equal(t, "needs review", response.Reason)

	require.Contains(t, env.auditActions(t, requester.ID), AuditActionRequestAdminAction)
}

func TestEscalationDecideRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "plain-admin@example.com",
		FullName: "Plain Admin",
		Role:     models.RoleAdmin,
	})
	target := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "victim@example.com",
		FullName: "Victim Admin",
		Role:     models.RoleAdmin,
	})

	request, err := env.escalation.RequestApproval(ctx, admin.ID, dto.EscalationCreateRequest{
		TargetAdminID: target.ID,
		ActionType:    "suspend",
		Reason:        "cover shift dispute",
	})
	require.NoError(t, err)

	_, err = env.escalation.Decide(ctx, request.ID, dto.EscalationDecisionRequest{Outcome: "approved"}, admin.ID)
	require.ErrorIs(t, err, ErrNotSuperAdmin)

	_, err = env.escalation.Decide(ctx, request.ID, dto.EscalationDecisionRequest{Outcome: "approved"}, uuid.NewString())
	require.ErrorIs(t, err, ErrNotSuperAdmin)
}

func TestEscalationApprovalGrantsTheExactTriple(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	super := env.seedAccount(t, models.Account{
		ID:           uuid.NewString(),
		Email:        "super@example.com",
		FullName:     "Super Admin",
		Role:         models.RoleAdmin,
		IsSuperAdmin: true,
	})
	requester := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "admin@example.com",
		FullName: "Second Admin",
		Role:     models.RoleAdmin,
	})
	target := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "third@example.com",
		FullName: "Third Admin",
		Role:     models.RoleAdmin,
	})

	request, err := env.escalation.RequestApproval(ctx, requester.ID, dto.EscalationCreateRequest{
		TargetAdminID: target.ID,
		ActionType:    "suspend",
		Reason:        "repeated no-shows",
	})
	require.NoError(t, err)

	granted, err := env.escalation.HasApproval(ctx, requester.ID, target.ID, authz.ActionSuspend)
	require.NoError(t, err)
	require.False(t, granted, "a pending request must not grant anything")

	decided, err := env.escalation.Decide(ctx, request.ID, dto.EscalationDecisionRequest{Outcome: "approved"}, super.ID)
	require.NoError(t, err)
	require.Equal(t, models.EscalationStatusApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	require.Equal(t, super.ID, *decided.DecidedBy)

	granted, err = env.escalation.HasApproval(ctx, requester.ID, target.ID, authz.ActionSuspend)
	require.NoError(t, err)
	require.True(t, granted)

	// The approval covers only the requested triple.
	granted, err = env.escalation.HasApproval(ctx, requester.ID, target.ID, authz.ActionEditProfile)
	require.NoError(t, err)
	require.False(t, granted)

	granted, err = env.escalation.HasApproval(ctx, target.ID, requester.ID, authz.ActionSuspend)
	require.NoError(t, err)
	require.False(t, granted)
}

func TestEscalationDenialDoesNotGrant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	super := env.seedAccount(t, models.Account{
		ID:           uuid.NewString(),
		Email:        "super@example.com",
		FullName:     "Super Admin",
		Role:         models.RoleAdmin,
		IsSuperAdmin: true,
	})
	requester := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "admin@example.com",
		FullName: "Second Admin",
		Role:     models.RoleAdmin,
	})
	target := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "third@example.com",
		FullName: "Third Admin",
		Role:     models.RoleAdmin,
	})

	request, err := env.escalation.RequestApproval(ctx, requester.ID, dto.EscalationCreateRequest{
		TargetAdminID: target.ID,
		ActionType:    "edit",
		Reason:        "profile cleanup",
	})
	require.NoError(t, err)

	_, err = env.escalation.Decide(ctx, request.ID, dto.EscalationDecisionRequest{Outcome: "denied"}, super.ID)
	require.NoError(t, err)

	granted, err := env.escalation.HasApproval(ctx, requester.ID, target.ID, authz.ActionEditProfile)
	require.NoError(t, err)
	require.False(t, granted)
}

func TestEscalationDecideIsFinal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	super := env.seedAccount(t, models.Account{
		ID:           uuid.NewString(),
		Email:        "super@example.com",
		FullName:     "Super Admin",
		Role:         models.RoleAdmin,
		IsSuperAdmin: true,
	})
	requester := env.seedAccount(t, models.Account{
		ID:       uuid.NewString(),
		Email:    "admin@example.com",
		FullName: "Second Admin",
		Role:     models.RoleAdmin,
	})

	request, err := env.escalation.RequestApproval(ctx, requester.ID, dto.EscalationCreateRequest{
		TargetAdminID: super.ID,
		ActionType:    "suspend",
		Reason:        "testing finality",
	})
	require.NoError(t, err)

	_, err = env.escalation.Decide(ctx, request.ID, dto.EscalationDecisionRequest{Outcome: "denied"}, super.ID)
	require.NoError(t, err)

	_, err = env.escalation.Decide(ctx, request.ID, dto.EscalationDecisionRequest{Outcome: "approved"}, super.ID)
	require.ErrorIs(t, err, ErrEscalationFinalState)

	_, err = env.escalation.Decide(ctx, uuid.NewString(), dto.EscalationDecisionRequest{Outcome: "approved"}, super.ID)
	require.ErrorIs(t, err, ErrEscalationNotFound)
}
