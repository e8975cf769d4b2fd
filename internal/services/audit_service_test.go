package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/auditctx"
	"github.com/charlesng35/hrms/internal/models"
)

func TestAuditServiceRecordUsesActor(t *testing.T) {
	f := newServiceFixture(t)
	ctx := auditctx.WithActor(context.Background(), auditctx.Actor{UserID: "u-1", OrganisationID: "o-1"})

	require.NoError(t, f.audit.Record(ctx, nil, AuditEntry{Action: "custom", Meta: map[string]any{"k": "v"}}))

	var log models.Log
	require.NoError(t, f.db.Where("action = ?", "custom").Take(&log).Error)
	require.Equal(t, "o-1", *log.OrganisationID)
	require.Equal(t, "u-1", *log.UserID)
	require.Equal(t, "v", log.Meta["k"])
	require.False(t, log.Timestamp.IsZero())
}

func TestAuditServiceRecordWithoutActor(t *testing.T) {
	f := newServiceFixture(t)

	require.NoError(t, f.audit.Record(context.Background(), nil, AuditEntry{Action: "anonymous"}))

	var log models.Log
	require.NoError(t, f.db.Where("action = ?", "anonymous").Take(&log).Error)
	require.Nil(t, log.OrganisationID)
	require.Nil(t, log.UserID)

	require.Error(t, f.audit.Record(context.Background(), nil, AuditEntry{Action: " "}))
}

func TestAuditServiceRecordRollsBackWithTransaction(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	err := f.db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, f.audit.Record(ctx, tx, AuditEntry{Action: "rolled_back"}))
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)
	require.Zero(t, f.countLogs(t, "rolled_back"))
}

func TestAuditServiceListScopesAndFilters(t *testing.T) {
	f := newServiceFixture(t)
	ctxA := f.registerActor(t, "A Corp", "a@a.test")
	ctxB := f.registerActor(t, "B Corp", "b@b.test")

	_, err := f.employees.Create(ctxA, CreateEmployeeInput{FirstName: "Al", LastName: "A"})
	require.NoError(t, err)
	_, err = f.teams.Create(ctxA, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)
	_, err = f.teams.Create(ctxB, CreateTeamInput{Name: "Sales"})
	require.NoError(t, err)

	logs, err := f.audit.List(ctxA, LogQuery{})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for _, log := range logs {
		require.NotEqual(t, "B Corp", log.Meta["organisationName"])
		require.NotEqual(t, "Sales", log.Meta["name"])
	}
	for i := 1; i < len(logs); i++ {
		require.False(t, logs[i].Timestamp.After(logs[i-1].Timestamp))
	}

	teamLogs, err := f.audit.List(ctxA, LogQuery{Action: ActionTeamCreated})
	require.NoError(t, err)
	require.Len(t, teamLogs, 1)
	require.Equal(t, "Eng", teamLogs[0].Meta["name"])

	limited, err := f.audit.List(ctxA, LogQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	_, err = f.audit.List(context.Background(), LogQuery{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuditServiceClampLimit(t *testing.T) {
	f := newServiceFixture(t)
	svc, err := NewAuditService(f.db, WithLogLimits(10, 20))
	require.NoError(t, err)

	require.Equal(t, 10, svc.clampLimit(0))
	require.Equal(t, 10, svc.clampLimit(-5))
	require.Equal(t, 15, svc.clampLimit(15))
	require.Equal(t, 20, svc.clampLimit(500))

	defaults, err := NewAuditService(f.db)
	require.NoError(t, err)
	require.Equal(t, DefaultLogLimit, defaults.clampLimit(0))
	require.Equal(t, MaxLogLimit, defaults.clampLimit(5000))
}

func TestAuditServiceCleanupOlderThan(t *testing.T) {
	f := newServiceFixture(t)

	old := models.Log{Action: "stale", Timestamp: time.Now().UTC().AddDate(0, 0, -40)}
	fresh := models.Log{Action: "fresh", Timestamp: time.Now().UTC().AddDate(0, 0, -1)}
	require.NoError(t, f.db.Create(&old).Error)
	require.NoError(t, f.db.Create(&fresh).Error)

	removed, err := f.audit.CleanupOlderThan(context.Background(), 0)
	require.NoError(t, err)
	require.Zero(t, removed)

	removed, err = f.audit.CleanupOlderThan(context.Background(), 30)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
	require.Zero(t, f.countLogs(t, "stale"))
	require.EqualValues(t, 1, f.countLogs(t, "fresh"))
}
