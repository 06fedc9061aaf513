package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/rota-go-api/internal/authz"
	"github.com/noah-isme/rota-go-api/internal/dto"
	"github.com/noah-isme/rota-go-api/internal/models"
	"github.com/noah-isme/rota-go-api/internal/repository"
)

// recordingNotifier captures published notifications instead of fanning them
// out, so tests can assert on exactly what was sent.
type recordingNotifier struct {
	published []dto.NotificationCreateRequest
}

func (n *recordingNotifier) Publish(_ context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	n.published = append(n.published, payload)
	return dto.NotificationResponse{
		UserID:  payload.UserID,
		Type:    payload.Type,
		Title:   payload.Title,
		Message: payload.Message,
	}, nil
}

type testEnv struct {
	db          *gorm.DB
	accounts    repository.AccountRepository
	escalations repository.EscalationRepository
	audits      repository.AuditRepository
	audit       AuditService
	escalation  EscalationService
	policy      *authz.Policy
	account     AccountService
	notifier    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Department{},
		&models.Shift{},
		&models.Availability{},
		&models.TimeOffRequest{},
		&models.EscalationRequest{},
		&models.AuditRecord{},
		&models.Notification{},
	))

	validate := validator.New()
	log := zerolog.Nop()

	accounts := repository.NewAccountRepository(db)
	escalations := repository.NewEscalationRepository(db)
	audits := repository.NewAuditRepository(db)

	auditSvc := NewAuditService(audits, log)
	escalationSvc := NewEscalationService(escalations, accounts, auditSvc, validate, log)
	policy := authz.NewPolicy(escalationSvc, log)
	notifier := &recordingNotifier{}

	accountSvc := NewAccountService(
		accounts,
		repository.NewDepartmentRepository(db),
		repository.NewShiftRepository(db),
		repository.NewAvailabilityRepository(db),
		repository.NewTimeOffRepository(db),
		policy,
		escalationSvc,
		auditSvc,
		notifier,
		validate,
		"let-me-in",
		log,
	)

	return &testEnv{
		db:          db,
		accounts:    accounts,
		escalations: escalations,
		audits:      audits,
		audit:       auditSvc,
		escalation:  escalationSvc,
		policy:      policy,
		account:     accountSvc,
		notifier:    notifier,
	}
}

// seedAccount inserts an account directly, bypassing the bootstrap promotion
// that Create applies to the first row.
func (e *testEnv) seedAccount(t *testing.T, account models.Account) models.Account {
	t.Helper()

	if account.Status == "" {
		account.Status = models.AccountStatusActive
	}
	require.NoError(t, e.db.Create(&account).Error)
	return account
}

func (e *testEnv) auditActions(t *testing.T, actorID string) []string {
	t.Helper()

	records, _, err := e.audits.List(context.Background(), repository.AuditFilter{ActorID: actorID})
	require.NoError(t, err)

	actions := make([]string, 0, len(records))
	for _, record := range records {
		actions = append(actions, record.Action)
	}
	return actions
}
