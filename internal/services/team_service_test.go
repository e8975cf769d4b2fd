package services

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/hrms/internal/database"
	"github.com/charlesng35/hrms/internal/models"
)

func TestTeamServiceCreateUpdateDelete(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Support", Description: strPtr("Helpdesk")})
	require.NoError(t, err)
	require.Equal(t, "Helpdesk", *team.Description)

	name := "Customer Support"
	updated, err := f.teams.Update(ctx, team.ID, UpdateTeamInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, "Helpdesk", *updated.Description)

	cleared, err := f.teams.Update(ctx, team.ID, UpdateTeamInput{Description: strPtr("")})
	require.NoError(t, err)
	require.Nil(t, cleared.Description)

	_, err = f.teams.Update(ctx, team.ID, UpdateTeamInput{Name: strPtr("")})
	require.Error(t, err)

	require.NoError(t, f.teams.Delete(ctx, team.ID))
	_, err = f.teams.Get(ctx, team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)

	var log models.Log
	require.NoError(t, f.db.Where("action = ?", ActionTeamDeleted).Take(&log).Error)
	require.Equal(t, team.ID, log.Meta["id"])
	require.Equal(t, name, log.Meta["name"])
	require.EqualValues(t, 2, f.countLogs(t, ActionTeamUpdated))
}

func TestTeamServiceCreateRequiresName(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	_, err := f.teams.Create(ctx, CreateTeamInput{Name: "  "})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Team name is required")
}

func TestTeamServiceAssignIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	employee, err := f.employees.Create(ctx, CreateEmployeeInput{FirstName: "Jo", LastName: "Doe"})
	require.NoError(t, err)
	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)

	first, err := f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID})
	require.NoError(t, err)
	require.Equal(t, 1, first.Assigned)

	second, err := f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID})
	require.NoError(t, err)
	require.Equal(t, 0, second.Assigned)

	require.EqualValues(t, 1, f.countAssignments(t))
	require.EqualValues(t, 1, f.countLogs(t, ActionEmployeeAssigned))

	var log models.Log
	require.NoError(t, f.db.Where("action = ?", ActionEmployeeAssigned).Take(&log).Error)
	require.Equal(t, employee.ID, log.Meta["employeeId"])
	require.Equal(t, team.ID, log.Meta["teamId"])
	require.Equal(t, "Eng", log.Meta["teamName"])
}

func TestTeamServiceAssignRejectsRepeatedIDs(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	employee, err := f.employees.Create(ctx, CreateEmployeeInput{FirstName: "Jo", LastName: "Doe"})
	require.NoError(t, err)
	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)

	_, err = f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID, employee.ID})
	require.ErrorIs(t, err, ErrPartialNotFound)
	require.Zero(t, f.countAssignments(t))
	require.Zero(t, f.countLogs(t, ActionEmployeeAssigned))

	// blank entries are ignored rather than counted
	result, err := f.teams.AssignEmployees(ctx, team.ID, []string{" ", employee.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.Assigned)
}

func TestTeamServiceConcurrentAssignSamePair(t *testing.T) {
	db, err := database.Open(database.Config{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "hrms.sqlite"),
		MaxOpenConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))

	f := newServiceFixtureWithDB(t, db)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	employee, err := f.employees.Create(ctx, CreateEmployeeInput{FirstName: "Jo", LastName: "Doe"})
	require.NoError(t, err)
	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)

	const callers = 2
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make([]*AssignResult, callers)
		errs    = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID})
		}(i)
	}
	close(start)
	wg.Wait()

	total := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		total += results[i].Assigned
	}
	require.Equal(t, 1, total)
	require.EqualValues(t, 1, f.countAssignments(t))
	require.EqualValues(t, 1, f.countLogs(t, ActionEmployeeAssigned))
}

func TestTeamServiceAssignValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctxA := f.registerActor(t, "A Corp", "a@a.test")
	ctxB := f.registerActor(t, "B Corp", "b@b.test")

	mine, err := f.employees.Create(ctxA, CreateEmployeeInput{FirstName: "Al", LastName: "A"})
	require.NoError(t, err)
	foreignEmployee, err := f.employees.Create(ctxB, CreateEmployeeInput{FirstName: "Bea", LastName: "B"})
	require.NoError(t, err)
	team, err := f.teams.Create(ctxA, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)
	foreignTeam, err := f.teams.Create(ctxB, CreateTeamInput{Name: "Sales"})
	require.NoError(t, err)

	_, err = f.teams.AssignEmployees(ctxA, team.ID, nil)
	require.ErrorIs(t, err, ErrEmployeeIDsRequired)

	_, err = f.teams.AssignEmployees(ctxA, foreignTeam.ID, []string{mine.ID})
	require.ErrorIs(t, err, ErrTeamNotFound)

	_, err = f.teams.AssignEmployees(ctxA, team.ID, []string{mine.ID, foreignEmployee.ID})
	require.ErrorIs(t, err, ErrPartialNotFound)

	_, err = f.teams.AssignEmployees(ctxA, team.ID, []string{mine.ID, "missing"})
	require.ErrorIs(t, err, ErrPartialNotFound)

	require.Zero(t, f.countAssignments(t))
}

func TestTeamServiceGetListsMembers(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	employee, err := f.employees.Create(ctx, CreateEmployeeInput{FirstName: "Jo", LastName: "Doe", Phone: strPtr("555")})
	require.NoError(t, err)
	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)
	_, err = f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID})
	require.NoError(t, err)

	detail, err := f.teams.Get(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, detail.Employees, 1)
	require.Equal(t, employee.ID, detail.Employees[0].ID)
	require.Equal(t, "555", *detail.Employees[0].Phone)
	require.False(t, detail.Employees[0].AssignedAt.IsZero())

	list, err := f.teams.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Employees, 1)
	require.Equal(t, "Jo", list[0].Employees[0].FirstName)

	empDetail, err := f.employees.Get(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, empDetail.Teams, 1)
	require.Equal(t, "Eng", empDetail.Teams[0].Name)
}

func TestTeamServiceUnassign(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	employee, err := f.employees.Create(ctx, CreateEmployeeInput{FirstName: "Jo", LastName: "Doe"})
	require.NoError(t, err)
	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)

	require.ErrorIs(t, f.teams.UnassignEmployee(ctx, team.ID, employee.ID), ErrAssignmentNotFound)
	require.ErrorIs(t, f.teams.UnassignEmployee(ctx, "missing", employee.ID), ErrTeamNotFound)
	require.ErrorIs(t, f.teams.UnassignEmployee(ctx, team.ID, "missing"), ErrEmployeeNotFound)

	_, err = f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID})
	require.NoError(t, err)

	require.NoError(t, f.teams.UnassignEmployee(ctx, team.ID, employee.ID))
	require.Zero(t, f.countAssignments(t))
	require.EqualValues(t, 1, f.countLogs(t, ActionEmployeeUnassigned))
}

func TestTeamServiceDeleteCascadesAssignments(t *testing.T) {
	f := newServiceFixture(t)
	ctx := f.registerActor(t, "Acme", "a@x.com")

	employee, err := f.employees.Create(ctx, CreateEmployeeInput{FirstName: "Jo", LastName: "Doe"})
	require.NoError(t, err)
	team, err := f.teams.Create(ctx, CreateTeamInput{Name: "Eng"})
	require.NoError(t, err)
	_, err = f.teams.AssignEmployees(ctx, team.ID, []string{employee.ID})
	require.NoError(t, err)

	require.NoError(t, f.teams.Delete(ctx, team.ID))
	require.Zero(t, f.countAssignments(t))

	_, err = f.employees.Get(ctx, employee.ID)
	require.NoError(t, err)
}
