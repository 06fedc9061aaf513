package authz

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/rota-go-api/internal/models"
)

// Verdict is the outcome class of a policy evaluation.
type Verdict int

const (
	// VerdictDenied means the actor may not perform the action.
	VerdictDenied Verdict = iota
	// VerdictAllowed means the action may proceed.
	VerdictAllowed
	// VerdictRequiresEscalation means the action needs super-admin approval
	// before it can proceed.
	VerdictRequiresEscalation
)

// Denial reasons surfaced to callers.
const (
	ReasonUnauthorized     = "unauthorized"
	ReasonSuperAdminDelete = "Only the super admin can remove other admins"
	ReasonNeedsApproval    = "Requires super admin approval"
)

// Decision is the structured result of evaluating an action request.
type Decision struct {
	Verdict Verdict
	Reason  string
}

// Allowed reports whether the action may proceed immediately.
func (d Decision) Allowed() bool {
	return d.Verdict == VerdictAllowed
}

// RequiresEscalation reports whether the action needs a super-admin approval.
func (d Decision) RequiresEscalation() bool {
	return d.Verdict == VerdictRequiresEscalation
}

func allowed() Decision {
	return Decision{Verdict: VerdictAllowed}
}

func denied(reason string) Decision {
	return Decision{Verdict: VerdictDenied, Reason: reason}
}

func escalate() Decision {
	return Decision{Verdict: VerdictRequiresEscalation, Reason: ReasonNeedsApproval}
}

// ApprovalChecker answers whether a prior super-admin approval exists for
// the (requester, target, action) triple.
type ApprovalChecker interface {
	HasApproval(ctx context.Context, requesterID, targetID string, action Action) (bool, error)
}

// Policy decides whether an actor may perform an action against a target
// account. It holds no mutable state; all inputs arrive per call.
type Policy struct {
	approvals ApprovalChecker
	logger    zerolog.Logger
}

// NewPolicy constructs the authorization policy. The approval checker may be
// nil, in which case admin-on-admin actions always escalate.
func NewPolicy(approvals ApprovalChecker, logger zerolog.Logger) *Policy {
	return &Policy{
		approvals: approvals,
		logger:    logger.With().Str("component", "authz_policy").Logger(),
	}
}

// Evaluate applies the role gate, the admin-on-admin protection rule and the
// super-admin override, in that order. Target may be nil for actions that do
// not touch another account. Malformed input is answered with a denial, not
// an error.
func (p *Policy) Evaluate(ctx context.Context, actor *models.Account, target *models.Account, action Action) Decision {
	if actor == nil || actor.ID == "" {
		return denied(ReasonUnauthorized)
	}

	switch {
	case action.Administrative():
		if actor.Role != models.RoleAdmin {
			return denied(ReasonUnauthorized)
		}
	case action == ActionDecideTimeOff:
		if actor.Role != models.RoleAdmin && actor.Role != models.RoleManager {
			return denied(ReasonUnauthorized)
		}
	default:
		return denied(ReasonUnauthorized)
	}

	if target == nil || target.Role != models.RoleAdmin {
		return allowed()
	}

	// Admin target from here on. Delete is never escalatable: an approved
	// request does not override the super-admin-only rule.
	if action == ActionDelete {
		if actor.IsSuperAdmin {
			return allowed()
		}
		return denied(ReasonSuperAdminDelete)
	}

	if actor.IsSuperAdmin {
		return allowed()
	}

	if p.approvals != nil {
		granted, err := p.approvals.HasApproval(ctx, actor.ID, target.ID, action)
		if err != nil {
			p.logger.Error().Err(err).
				Str("actor_id", actor.ID).
				Str("target_id", target.ID).
				Str("action", action.String()).
				Msg("approval lookup failed, escalating")
		} else if granted {
			return allowed()
		}
	}

	return escalate()
}
