package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/hrms/internal/models"
)

// TeamMemberRef is the short employee view embedded in team listings.
type TeamMemberRef struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email"`
}

// TeamMember describes one employee assigned to a team.
type TeamMember struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	AssignedAt time.Time `json:"assignedAt"`
}

// TeamSummary is a team with the names of its members.
type TeamSummary struct {
	models.Team
	Employees []TeamMemberRef `json:"employees"`
}

// TeamDetail is a team with full member information.
type TeamDetail struct {
	models.Team
	Employees []TeamMember `json:"employees"`
}

// CreateTeamInput captures new team metadata.
type CreateTeamInput struct {
	Name        string
	Description *string
}

// UpdateTeamInput describes mutable team fields. An empty description clears it.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

// AssignResult reports how many assignments were newly created.
type AssignResult struct {
	Assigned int `json:"assigned"`
}

// TeamService handles team lifecycle and employee assignment.
type TeamService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(db *gorm.DB, audit *AuditService) (*TeamService, error) {
	if db == nil {
		return nil, errors.New("team service: db is required")
	}
	if audit == nil {
		return nil, errors.New("team service: audit service is required")
	}
	return &TeamService{db: db, audit: audit}, nil
}

// List returns the organisation's teams, newest first.
func (s *TeamService) List(ctx context.Context) ([]TeamSummary, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var teams []models.Team
	if err := s.db.WithContext(ctx).
		Where("organisation_id = ?", actor.OrganisationID).
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("team service: list teams: %w", err)
	}

	ids := make([]string, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}
	members, err := s.members(ctx, actor.OrganisationID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TeamSummary, 0, len(teams))
	for _, team := range teams {
		refs := make([]TeamMemberRef, 0, len(members[team.ID]))
		for _, m := range members[team.ID] {
			refs = append(refs, TeamMemberRef{ID: m.ID, FirstName: m.FirstName, LastName: m.LastName, Email: m.Email})
		}
		out = append(out, TeamSummary{Team: team, Employees: refs})
	}
	return out, nil
}

// Get returns one team of the organisation with its members.
func (s *TeamService) Get(ctx context.Context, id string) (*TeamDetail, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	team, err := findTeam(s.db.WithContext(ctx), actor.OrganisationID, id)
	if err != nil {
		return nil, err
	}

	members, err := s.members(ctx, actor.OrganisationID, []string{team.ID})
	if err != nil {
		return nil, err
	}

	employees := members[team.ID]
	if employees == nil {
		employees = []TeamMember{}
	}
	return &TeamDetail{Team: *team, Employees: employees}, nil
}

// Create registers a new team.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrValidation("Team name is required")
	}

	team := &models.Team{
		OrganisationID: actor.OrganisationID,
		Name:           name,
		Description:    optionalString(input.Description),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		return s.audit.Record(ctx, tx, AuditEntry{
			Action: ActionTeamCreated,
			Meta: map[string]any{
				"teamId": team.ID,
				"name":   team.Name,
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("team service: %w", err)
	}
	return team, nil
}

// Update modifies team metadata.
func (s *TeamService) Update(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	requested := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrValidation("Team name cannot be empty")
		}
		updates["name"] = name
		requested["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = optionalString(input.Description)
		requested["description"] = *input.Description
	}

	var team *models.Team
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		team, err = findTeam(tx, actor.OrganisationID, id)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(team).Updates(updates).Error; err != nil {
				return fmt.Errorf("update team: %w", err)
			}
			if team, err = findTeam(tx, actor.OrganisationID, id); err != nil {
				return err
			}
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action: ActionTeamUpdated,
			Meta: map[string]any{
				"teamId":  team.ID,
				"updates": requested,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("team service: %w", err)
	}
	return team, nil
}

// Delete removes a team and its assignments.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, actor.OrganisationID, id)
		if err != nil {
			return err
		}
		snapshot := map[string]any{"id": team.ID, "name": team.Name}

		if err := tx.Where("team_id = ?", team.ID).Delete(&models.EmployeeTeam{}).Error; err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if err := tx.Delete(&models.Team{}, "id = ?", team.ID).Error; err != nil {
			return fmt.Errorf("delete team: %w", err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{Action: ActionTeamDeleted, Meta: snapshot})
	})
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("team service: %w", err)
	}
	return nil
}

// AssignEmployees links employees of the caller's organisation to a team. Pairs that already
// exist are skipped, so the result counts only new assignments.
func (s *TeamService) AssignEmployees(ctx context.Context, teamID string, employeeIDs []string) (*AssignResult, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requested := trimIDs(employeeIDs)
	if len(requested) == 0 {
		return nil, ErrEmployeeIDsRequired
	}
	ids := uniqueIDs(requested)

	result := &AssignResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, actor.OrganisationID, teamID)
		if err != nil {
			return err
		}

		var found int64
		if err := tx.Model(&models.Employee{}).
			Where("id IN ? AND organisation_id = ?", ids, actor.OrganisationID).
			Count(&found).Error; err != nil {
			return fmt.Errorf("resolve employees: %w", err)
		}
		// a repeated id resolves once, so it fails the comparison
		if int(found) != len(requested) {
			return ErrPartialNotFound
		}

		for _, employeeID := range ids {
			link := models.EmployeeTeam{EmployeeID: employeeID, TeamID: team.ID}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
			if res.Error != nil {
				return fmt.Errorf("assign employee: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				continue
			}

			result.Assigned++
			if err := s.audit.Record(ctx, tx, AuditEntry{
				Action: ActionEmployeeAssigned,
				Meta: map[string]any{
					"employeeId": employeeID,
					"teamId":     team.ID,
					"teamName":   team.Name,
				},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, ErrPartialNotFound):
			return nil, ErrPartialNotFound
		}
		return nil, fmt.Errorf("team service: %w", err)
	}
	return result, nil
}

// UnassignEmployee removes an employee from a team.
func (s *TeamService) UnassignEmployee(ctx context.Context, teamID, employeeID string) error {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, actor.OrganisationID, teamID)
		if err != nil {
			return err
		}
		employee, err := findEmployee(tx, actor.OrganisationID, employeeID)
		if err != nil {
			return err
		}

		res := tx.Where("employee_id = ? AND team_id = ?", employee.ID, team.ID).Delete(&models.EmployeeTeam{})
		if res.Error != nil {
			return fmt.Errorf("unassign employee: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAssignmentNotFound
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action: ActionEmployeeUnassigned,
			Meta: map[string]any{
				"employeeId": employee.ID,
				"teamId":     team.ID,
				"teamName":   team.Name,
			},
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTeamNotFound):
			return ErrTeamNotFound
		case errors.Is(err, ErrEmployeeNotFound):
			return ErrEmployeeNotFound
		case errors.Is(err, ErrAssignmentNotFound):
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("team service: %w", err)
	}
	return nil
}

type teamMemberRow struct {
	TeamID     string
	EmployeeID string
	FirstName  string
	LastName   string
	Email      *string
	Phone      *string
	AssignedAt time.Time
}

// members loads assigned employees for the given teams, keyed by team id.
func (s *TeamService) members(ctx context.Context, orgID string, teamIDs []string) (map[string][]TeamMember, error) {
	out := make(map[string][]TeamMember, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	var rows []teamMemberRow
	if err := s.db.WithContext(ctx).
		Table("employee_teams").
		Select("employee_teams.team_id, employees.id AS employee_id, employees.first_name, employees.last_name, employees.email, employees.phone, employee_teams.assigned_at").
		Joins("JOIN employees ON employees.id = employee_teams.employee_id").
		Where("employee_teams.team_id IN ? AND employees.organisation_id = ?", teamIDs, orgID).
		Order("employee_teams.assigned_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("team service: load members: %w", err)
	}

	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], TeamMember{
			ID:         row.EmployeeID,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			Email:      row.Email,
			Phone:      row.Phone,
			AssignedAt: row.AssignedAt,
		})
	}
	return out, nil
}

// findTeam loads a team scoped to the organisation. Foreign ids resolve to ErrTeamNotFound.
func findTeam(db *gorm.DB, orgID, id string) (*models.Team, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrTeamNotFound
	}

	var team models.Team
	err := db.Where("id = ? AND organisation_id = ?", id, orgID).Take(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load team: %w", err)
	}
	return &team, nil
}
