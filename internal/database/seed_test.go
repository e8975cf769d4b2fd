package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/hrms/internal/models"
	"github.com/charlesng35/hrms/pkg/crypto"
)

func TestSeedDemoPopulatesDataset(t *testing.T) {
	db := openTestDB(t)

	result, err := SeedDemo(context.Background(), db, false)
	require.NoError(t, err)
	require.Equal(t, 5, result.Employees)
	require.Equal(t, 3, result.Teams)
	require.Equal(t, 7, result.Assignments)

	var admin models.User
	require.NoError(t, db.Where("email = ?", DemoAdminEmail).First(&admin).Error)
	require.Equal(t, result.OrganisationID, admin.OrganisationID)
	require.True(t, crypto.VerifyPassword(admin.PasswordHash, DemoAdminPassword))

	var org models.Organisation
	require.NoError(t, db.First(&org, "id = ?", result.OrganisationID).Error)
	require.Equal(t, DemoOrganisationName, org.Name)

	var janeTeams int64
	require.NoError(t, db.Model(&models.EmployeeTeam{}).
		Joins("JOIN employees ON employees.id = employee_teams.employee_id").
		Where("employees.first_name = ?", "Jane").
		Count(&janeTeams).Error)
	require.EqualValues(t, 2, janeTeams)
}

func TestSeedDemoRefusesSecondRunWithoutReset(t *testing.T) {
	db := openTestDB(t)

	_, err := SeedDemo(context.Background(), db, false)
	require.NoError(t, err)

	_, err = SeedDemo(context.Background(), db, false)
	require.ErrorIs(t, err, ErrAlreadySeeded)
}

func TestSeedDemoResetRebuildsDataset(t *testing.T) {
	db := openTestDB(t)

	first, err := SeedDemo(context.Background(), db, false)
	require.NoError(t, err)

	second, err := SeedDemo(context.Background(), db, true)
	require.NoError(t, err)
	require.NotEqual(t, first.OrganisationID, second.OrganisationID)

	var orgs int64
	require.NoError(t, db.Model(&models.Organisation{}).Count(&orgs).Error)
	require.EqualValues(t, 1, orgs)
}
