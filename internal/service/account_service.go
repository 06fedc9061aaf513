package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/observability"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

// ErrAccountNotFound indicates the account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// Notifier delivers a best-effort user notification. Failures are logged and
// never roll back the mutation or the audit record.
type Notifier interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// AccountService orchestrates account management: every state-changing
// operation resolves the caller, evaluates the authorization policy, applies
// the mutation and appends an audit record, in that order.
type AccountService interface {
	Create(ctx context.Context, payload dto.AccountCreateRequest) (dto.AccountResponse, error)
	Get(ctx context.Context, id string) (dto.AccountResponse, error)
	List(ctx context.Context, req dto.AccountListRequest) (dto.AccountListResponse, error)
	UpdateProfile(ctx context.Context, actorID, targetID string, payload dto.AccountUpdateRequest) dto.ActionResult
	Suspend(ctx context.Context, actorID, targetID string, payload dto.AccountSuspendRequest) dto.ActionResult
	Activate(ctx context.Context, actorID, targetID string) dto.ActionResult
	Delete(ctx context.Context, actorID, targetID string, payload dto.AccountDeleteRequest) dto.ActionResult
	AssignDepartment(ctx context.Context, actorID, targetID string, payload dto.DepartmentAssignRequest) dto.ActionResult
	UpdateManagerStatus(ctx context.Context, actorID, managerID string, payload dto.ManagerStatusRequest) dto.ActionResult
	SendManagerNotification(ctx context.Context, actorID, managerID string, payload dto.ManagerNotificationRequest) dto.ActionResult
	Export(ctx context.Context, actorID, targetID string) (dto.AccountExportResponse, dto.ActionResult)
}

type accountService struct {
	accounts     repository.AccountRepository
	departments  repository.DepartmentRepository
	shifts       repository.ShiftRepository
	availability repository.AvailabilityRepository
	timeOff      repository.TimeOffRepository
	policy       *authz.Policy
	escalations  EscalationService
	audit        AuditRecorder
	notifier     Notifier
	validator    StructValidator
	adminCode    string
	logger       zerolog.Logger
}

// NewAccountService constructs the account orchestration service. adminCode
// is the optional sign-up code that grants the admin role at creation.
func NewAccountService(
	accounts repository.AccountRepository,
	departments repository.DepartmentRepository,
	shifts repository.ShiftRepository,
	availability repository.AvailabilityRepository,
	timeOff repository.TimeOffRepository,
	policy *authz.Policy,
	escalations EscalationService,
	audit AuditRecorder,
	notifier Notifier,
	validate StructValidator,
	adminCode string,
	logger zerolog.Logger,
) AccountService {
	return &accountService{
		accounts:     accounts,
		departments:  departments,
		shifts:       shifts,
		availability: availability,
		timeOff:      timeOff,
		policy:       policy,
		escalations:  escalations,
		audit:        audit,
		notifier:     notifier,
		validator:    validate,
		adminCode:    adminCode,
		logger:       logger.With().Str("component", "account_service").Logger(),
	}
}

func (s *accountService) Create(ctx context.Context, payload dto.AccountCreateRequest) (dto.AccountResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AccountResponse{}, err
	}

	account := models.Account{
		Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
		FullName: strings.TrimSpace(payload.FullName),
		Role:     models.RoleEmployee,
	}
	if s.adminCode != "" && payload.AdminCode == s.adminCode {
		account.Role = models.RoleAdmin
	}

	// The repository promotes the very first account to admin inside the
	// insert transaction regardless of the requested role.
	if err := s.accounts.Create(ctx, &account); err != nil {
		return dto.AccountResponse{}, err
	}

	return dto.NewAccountResponse(account), nil
}

func (s *accountService) Get(ctx context.Context, id string) (dto.AccountResponse, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AccountResponse{}, ErrAccountNotFound
		}
		return dto.AccountResponse{}, err
	}
	return dto.NewAccountResponse(account), nil
}

func (s *accountService) List(ctx context.Context, req dto.AccountListRequest) (dto.AccountListResponse, error) {
	filter := repository.AccountFilter{
		Search:       strings.TrimSpace(req.Search),
		Role:         strings.TrimSpace(req.Role),
		Status:       strings.TrimSpace(req.Status),
		DepartmentID: strings.TrimSpace(req.DepartmentID),
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	accounts, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return dto.AccountListResponse{}, err
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

	return dto.AccountListResponse{Items: dto.NewAccountResponseSlice(accounts), Pagination: pagination}, nil
}

// authorize runs steps 1-3 of the mutation protocol: resolve the actor,
// resolve the target and evaluate the policy. A non-nil ActionResult means
// the operation must stop with that outcome.
func (s *accountService) authorize(ctx context.Context, actorID, targetID string, action authz.Action, reason string) (models.Account, models.Account, *dto.ActionResult) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		result := dto.Failed(authz.ReasonUnauthorized)
		return models.Account{}, models.Account{}, &result
	}

	var target models.Account
	var targetRef *models.Account
	if targetID != "" {
		target, err = s.accounts.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result := dto.Failed("User not found")
				return models.Account{}, models.Account{}, &result
			}
			result := dto.Failed(err.Error())
			return models.Account{}, models.Account{}, &result
		}
		targetRef = &target
	}

	decision := s.policy.Evaluate(ctx, &actor, targetRef, action)
	observability.PolicyDecisions().WithLabelValues(action.String(), verdictLabel(decision)).Inc()

	switch decision.Verdict {
	case authz.VerdictAllowed:
		return actor, target, nil
	case authz.VerdictRequiresEscalation:
		result := requestEscalation(ctx, s.escalations, s.logger, actor.ID, target.ID, action, reason)
		return models.Account{}, models.Account{}, &result
	default:
		result := dto.Failed(decision.Reason)
		return models.Account{}, models.Account{}, &result
	}
}

func (s *accountService) UpdateProfile(ctx context.Context, actorID, targetID string, payload dto.AccountUpdateRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, target, stop := s.authorize(ctx, actorID, targetID, authz.ActionEditProfile, "")
	if stop != nil {
		return *stop
	}

	updates := make(map[string]interface{})
	changedFields := make([]string, 0)

	if payload.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*payload.FullName)
		changedFields = append(changedFields, "full_name")
	}
	if payload.Role != nil {
		role := models.Role(strings.ToLower(strings.TrimSpace(*payload.Role)))
		updates["role"] = role
		changedFields = append(changedFields, "role")
		if role != models.RoleAdmin {
			// The super-admin flag is meaningful only on admin accounts.
			updates["is_super_admin"] = false
		}
	}
	if payload.Status != nil {
		updates["status"] = strings.ToLower(strings.TrimSpace(*payload.Status))
		changedFields = append(changedFields, "status")
	}
	if payload.DepartmentID != nil {
		updates["department_id"] = payload.DepartmentID
		changedFields = append(changedFields, "department_id")
	}

	if len(updates) == 0 {
		return dto.Succeeded("no changes")
	}

	updated, err := s.accounts.Update(ctx, target.ID, updates)
	if err != nil {
		return dto.Failed(err.Error())
	}

	s.record(ctx, actor, "update_user_profile", &target.ID, map[string]interface{}{
		"updated_by": actor.FullName,
		"fields":     changedFields,
	})

	s.notifyProfileChanges(ctx, target, updated, payload)
	return dto.Succeeded("profile updated")
}

func (s *accountService) notifyProfileChanges(ctx context.Context, before, after models.Account, payload dto.AccountUpdateRequest) {
	var parts []string
	if payload.Role != nil && before.Role != after.Role {
		parts = append(parts, fmt.Sprintf("Your role has been changed to %s.", after.Role))
	}
	if payload.DepartmentID != nil && !equalStringPtr(before.DepartmentID, after.DepartmentID) {
		parts = append(parts, "Your department has been updated.")
	}
	if payload.Status != nil && before.Status != after.Status {
		parts = append(parts, fmt.Sprintf("Your account status has been changed to %s.", after.Status))
	}
	if len(parts) == 0 {
		return
	}

	s.notify(ctx, dto.NotificationCreateRequest{
		UserID:  after.ID,
		Type:    "profile_update",
		Title:   "Profile Updated",
		Message: strings.Join(parts, " "),
	})
}

func (s *accountService) Suspend(ctx context.Context, actorID, targetID string, payload dto.AccountSuspendRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, target, stop := s.authorize(ctx, actorID, targetID, authz.ActionSuspend, payload.Reason)
	if stop != nil {
		return *stop
	}

	if _, err := s.accounts.Update(ctx, target.ID, map[string]interface{}{"status": models.AccountStatusSuspended}); err != nil {
		return dto.Failed(err.Error())
	}

	s.record(ctx, actor, "suspend_user", &target.ID, map[string]interface{}{
		"suspended_by": actor.FullName,
		"reason":       payload.Reason,
	})

	return dto.Succeeded("account suspended")
}

func (s *accountService) Activate(ctx context.Context, actorID, targetID string) dto.ActionResult {
	actor, target, stop := s.authorize(ctx, actorID, targetID, authz.ActionActivate, "")
	if stop != nil {
		return *stop
	}

	if _, err := s.accounts.Update(ctx, target.ID, map[string]interface{}{"status": models.AccountStatusActive}); err != nil {
		return dto.Failed(err.Error())
	}

	s.record(ctx, actor, "activate_user", &target.ID, map[string]interface{}{
		"activated_by": actor.FullName,
	})

	return dto.Succeeded("account activated")
}

func (s *accountService) Delete(ctx context.Context, actorID, targetID string, payload dto.AccountDeleteRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, target, stop := s.authorize(ctx, actorID, targetID, authz.ActionDelete, payload.Reason)
	if stop != nil {
		return *stop
	}

	if err := s.accounts.Delete(ctx, target.ID); err != nil {
		return dto.Failed(err.Error())
	}

	s.record(ctx, actor, "delete_user", &target.ID, map[string]interface{}{
		"deleted_by": actor.FullName,
		"reason":     payload.Reason,
	})

	return dto.Succeeded("account removed")
}

func (s *accountService) AssignDepartment(ctx context.Context, actorID, targetID string, payload dto.DepartmentAssignRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, target, stop := s.authorize(ctx, actorID, targetID, authz.ActionAssignDepartment, "")
	if stop != nil {
		return *stop
	}

	departmentName := "No department"
	if payload.DepartmentID != nil {
		department, err := s.departments.GetByID(ctx, *payload.DepartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.Failed("Department not found")
			}
			return dto.Failed(err.Error())
		}
		departmentName = department.Name
	}

	if _, err := s.accounts.Update(ctx, target.ID, map[string]interface{}{"department_id": payload.DepartmentID}); err != nil {
		return dto.Failed(err.Error())
	}

	s.record(ctx, actor, "assign_department", &target.ID, map[string]interface{}{
		"assigned_by": actor.FullName,
		"department":  departmentName,
		"user_name":   target.FullName,
	})

	s.notify(ctx, dto.NotificationCreateRequest{
		UserID:  target.ID,
		Type:    "department_change",
		Title:   "Department Assignment Updated",
		Message: fmt.Sprintf("You have been assigned to %s by %s", departmentName, actor.FullName),
	})

	return dto.Succeeded("department assigned")
}

func (s *accountService) UpdateManagerStatus(ctx context.Context, actorID, managerID string, payload dto.ManagerStatusRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, manager, stop := s.authorize(ctx, actorID, managerID, authz.ActionUpdateManagerStatus, payload.Reason)
	if stop != nil {
		return *stop
	}

	status := strings.ToLower(strings.TrimSpace(payload.Status))
	if _, err := s.accounts.Update(ctx, manager.ID, map[string]interface{}{"status": status}); err != nil {
		return dto.Failed(err.Error())
	}

	message := fmt.Sprintf("Your account status has been changed to %s", status)
	if strings.TrimSpace(payload.Reason) != "" {
		message = fmt.Sprintf("%s: %s", message, payload.Reason)
	}
	s.notify(ctx, dto.NotificationCreateRequest{
		UserID:  manager.ID,
		Type:    "status_update",
		Title:   "Account Status Updated",
		Message: fmt.Sprintf("%s by %s", message, actor.FullName),
	})

	s.record(ctx, actor, "update_manager_status", &manager.ID, map[string]interface{}{
		"updated_by": actor.FullName,
		"new_status": status,
		"reason":     payload.Reason,
	})

	return dto.Succeeded("manager status updated")
}

func (s *accountService) SendManagerNotification(ctx context.Context, actorID, managerID string, payload dto.ManagerNotificationRequest) dto.ActionResult {
	if err := s.validator.Struct(payload); err != nil {
		return dto.Failed(err.Error())
	}

	actor, manager, stop := s.authorize(ctx, actorID, managerID, authz.ActionSendNotification, "")
	if stop != nil {
		return *stop
	}

	if s.notifier != nil {
		if _, err := s.notifier.Publish(ctx, dto.NotificationCreateRequest{
			UserID:  manager.ID,
			Type:    "status_update",
			Title:   payload.Title,
			Message: payload.Message,
		}); err != nil {
			return dto.Failed(err.Error())
		}
	}

	s.record(ctx, actor, "send_notification", &manager.ID, map[string]interface{}{
		"sent_by": actor.FullName,
		"title":   payload.Title,
		"message": payload.Message,
	})

	return dto.Succeeded("notification sent")
}

func (s *accountService) Export(ctx context.Context, actorID, targetID string) (dto.AccountExportResponse, dto.ActionResult) {
	actor, target, stop := s.authorize(ctx, actorID, targetID, authz.ActionExportData, "")
	if stop != nil {
		return dto.AccountExportResponse{}, *stop
	}

	shifts, err := s.shifts.ListByEmployee(ctx, target.ID)
	if err != nil {
		return dto.AccountExportResponse{}, dto.Failed(err.Error())
	}
	windows, err := s.availability.ListByEmployee(ctx, target.ID)
	if err != nil {
		return dto.AccountExportResponse{}, dto.Failed(err.Error())
	}
	timeOff, err := s.timeOff.ListByEmployee(ctx, target.ID)
	if err != nil {
		return dto.AccountExportResponse{}, dto.Failed(err.Error())
	}

	// Export is a read, but it is a sensitive one; it lands in the audit
	// trail like a mutation would.
	s.record(ctx, actor, "export_user_data", &target.ID, map[string]interface{}{
		"exported_by": actor.FullName,
	})

	export := dto.AccountExportResponse{
		Profile:      dto.NewAccountResponse(target),
		Shifts:       dto.NewShiftResponseSlice(shifts),
		Availability: dto.NewAvailabilityResponseSlice(windows),
		TimeOff:      dto.NewTimeOffResponseSlice(timeOff),
		GeneratedAt:  time.Now().UTC(),
	}

	return export, dto.Succeeded("export generated")
}

// record appends an audit entry for a completed operation. Audit failures
// are logged and surfaced as metrics, never as operation failures.
func (s *accountService) record(ctx context.Context, actor models.Account, action string, targetID *string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	if _, err := s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    action,
		TargetID:  targetID,
		Details:   details,
	}); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("audit append failed after successful mutation")
	}
}

func (s *accountService) notify(ctx context.Context, payload dto.NotificationCreateRequest) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Publish(ctx, payload); err != nil {
		s.logger.Warn().Err(err).Str("user_id", payload.UserID).Msg("best-effort notification failed")
	}
}

// requestEscalation converts a RequiresEscalation verdict into the pending
// outcome by filing the approval request the verdict calls for.
func requestEscalation(ctx context.Context, escalations EscalationService, logger zerolog.Logger, actorID, targetID string, action authz.Action, reason string) dto.ActionResult {
	if strings.TrimSpace(reason) == "" {
		reason = fmt.Sprintf("requested %s on admin account", action)
	}
	if _, err := escalations.RequestApproval(ctx, actorID, dto.EscalationCreateRequest{
		TargetAdminID: targetID,
		ActionType:    action.String(),
		Reason:        reason,
	}); err != nil {
		logger.Error().Err(err).Str("action", action.String()).Msg("failed to create escalation request")
		return dto.Failed(err.Error())
	}
	return dto.PendingApproval()
}

func verdictLabel(decision authz.Decision) string {
	switch decision.Verdict {
	case authz.VerdictAllowed:
		return "allowed"
	case authz.VerdictRequiresEscalation:
		return "requires_escalation"
	default:
		return "denied"
	}
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
