package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/auditctx"
	"github.com/charlesng35/hrms/internal/auth"
	"github.com/charlesng35/hrms/internal/database/testutil"
	"github.com/charlesng35/hrms/internal/models"
)

type serviceFixture struct {
	db        *gorm.DB
	tokens    *auth.JWTService
	audit     *AuditService
	auth      *AuthService
	employees *EmployeeService
	teams     *TeamService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	return newServiceFixtureWithDB(t, testutil.MustOpenTestDB(t, testutil.WithAutoMigrate()))
}

// newServiceFixtureWithDB wires the services over an already migrated database.
func newServiceFixtureWithDB(t *testing.T, db *gorm.DB) *serviceFixture {
	t.Helper()

	tokens, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "hrms", AccessTokenTTL: time.Hour})
	require.NoError(t, err)

	auditSvc, err := NewAuditService(db)
	require.NoError(t, err)
	authSvc, err := NewAuthService(db, auditSvc, tokens, WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	employeeSvc, err := NewEmployeeService(db, auditSvc)
	require.NoError(t, err)
	teamSvc, err := NewTeamService(db, auditSvc)
	require.NoError(t, err)

	return &serviceFixture{
		db:        db,
		tokens:    tokens,
		audit:     auditSvc,
		auth:      authSvc,
		employees: employeeSvc,
		teams:     teamSvc,
	}
}

// registerActor creates an organisation and returns a context carrying its admin.
func (f *serviceFixture) registerActor(t *testing.T, orgName, email string) context.Context {
	t.Helper()

	result, err := f.auth.Register(context.Background(), RegisterInput{
		OrgName:   orgName,
		AdminName: "Admin",
		Email:     email,
		Password:  "secret1",
	})
	require.NoError(t, err)

	return auditctx.WithActor(context.Background(), auditctx.Actor{
		UserID:         result.User.ID,
		OrganisationID: result.User.OrganisationID,
		Email:          result.User.Email,
	})
}

func (f *serviceFixture) countLogs(t *testing.T, action string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&models.Log{}).Where("action = ?", action).Count(&count).Error)
	return count
}

func (f *serviceFixture) countAssignments(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&models.EmployeeTeam{}).Count(&count).Error)
	return count
}

func strPtr(value string) *string {
	return &value
}
