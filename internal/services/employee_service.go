package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/models"
)

// TeamRef is the short team view embedded in employee listings.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeTeamMembership describes one team an employee belongs to.
type EmployeeTeamMembership struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	AssignedAt  time.Time `json:"assignedAt"`
}

// EmployeeSummary is an employee with the names of its teams.
type EmployeeSummary struct {
	models.Employee
	Teams []TeamRef `json:"teams"`
}

// EmployeeDetail is an employee with full membership information.
type EmployeeDetail struct {
	models.Employee
	Teams []EmployeeTeamMembership `json:"teams"`
}

// CreateEmployeeInput captures a new employee.
type CreateEmployeeInput struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
}

// UpdateEmployeeInput lists fields to change. Nil leaves a field untouched; an empty email or
// phone clears it.
type UpdateEmployeeInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// EmployeeService manages an organisation's employees.
type EmployeeService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(db *gorm.DB, audit *AuditService) (*EmployeeService, error) {
	if db == nil {
		return nil, errors.New("employee service: db is required")
	}
	if audit == nil {
		return nil, errors.New("employee service: audit service is required")
	}
	return &EmployeeService{db: db, audit: audit}, nil
}

// List returns the organisation's employees, newest first.
func (s *EmployeeService) List(ctx context.Context) ([]EmployeeSummary, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var employees []models.Employee
	if err := s.db.WithContext(ctx).
		Where("organisation_id = ?", actor.OrganisationID).
		Order("created_at DESC").
		Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("employee service: list employees: %w", err)
	}

	ids := make([]string, 0, len(employees))
	for _, employee := range employees {
		ids = append(ids, employee.ID)
	}
	memberships, err := s.memberships(ctx, actor.OrganisationID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]EmployeeSummary, 0, len(employees))
	for _, employee := range employees {
		teams := make([]TeamRef, 0, len(memberships[employee.ID]))
		for _, m := range memberships[employee.ID] {
			teams = append(teams, TeamRef{ID: m.ID, Name: m.Name})
		}
		out = append(out, EmployeeSummary{Employee: employee, Teams: teams})
	}
	return out, nil
}

// Get returns one employee of the organisation with its team memberships.
func (s *EmployeeService) Get(ctx context.Context, id string) (*EmployeeDetail, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	employee, err := findEmployee(s.db.WithContext(ctx), actor.OrganisationID, id)
	if err != nil {
		return nil, err
	}

	memberships, err := s.memberships(ctx, actor.OrganisationID, []string{employee.ID})
	if err != nil {
		return nil, err
	}

	teams := memberships[employee.ID]
	if teams == nil {
		teams = []EmployeeTeamMembership{}
	}
	return &EmployeeDetail{Employee: *employee, Teams: teams}, nil
}

// Create adds an employee to the caller's organisation.
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrValidation("First name and last name are required")
	}

	employee := &models.Employee{
		OrganisationID: actor.OrganisationID,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          optionalString(input.Email),
		Phone:          optionalString(input.Phone),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(employee).Error; err != nil {
			return fmt.Errorf("create employee: %w", err)
		}
		return s.audit.Record(ctx, tx, AuditEntry{
			Action: ActionEmployeeCreated,
			Meta: map[string]any{
				"employeeId": employee.ID,
				"firstName":  employee.FirstName,
				"lastName":   employee.LastName,
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("employee service: %w", err)
	}
	return employee, nil
}

// Update applies the supplied fields to an employee of the caller's organisation.
func (s *EmployeeService) Update(ctx context.Context, id string, input UpdateEmployeeInput) (*models.Employee, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	requested := map[string]any{}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, ErrValidation("First name cannot be empty")
		}
		updates["first_name"] = name
		requested["firstName"] = *input.FirstName
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, ErrValidation("Last name cannot be empty")
		}
		updates["last_name"] = name
		requested["lastName"] = *input.LastName
	}
	if input.Email != nil {
		updates["email"] = optionalString(input.Email)
		requested["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = optionalString(input.Phone)
		requested["phone"] = *input.Phone
	}

	var employee *models.Employee
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		employee, err = findEmployee(tx, actor.OrganisationID, id)
		if err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(employee).Updates(updates).Error; err != nil {
				return fmt.Errorf("update employee: %w", err)
			}
			if employee, err = findEmployee(tx, actor.OrganisationID, id); err != nil {
				return err
			}
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Action: ActionEmployeeUpdated,
			Meta: map[string]any{
				"employeeId": employee.ID,
				"updates":    requested,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("employee service: %w", err)
	}
	return employee, nil
}

// Delete removes an employee and its team assignments.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employee, err := findEmployee(tx, actor.OrganisationID, id)
		if err != nil {
			return err
		}
		snapshot := map[string]any{
			"id":        employee.ID,
			"firstName": employee.FirstName,
			"lastName":  employee.LastName,
		}

		if err := tx.Where("employee_id = ?", employee.ID).Delete(&models.EmployeeTeam{}).Error; err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		if err := tx.Delete(&models.Employee{}, "id = ?", employee.ID).Error; err != nil {
			return fmt.Errorf("delete employee: %w", err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{Action: ActionEmployeeDeleted, Meta: snapshot})
	})
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("employee service: %w", err)
	}
	return nil
}

type employeeMembershipRow struct {
	EmployeeID  string
	TeamID      string
	Name        string
	Description *string
	AssignedAt  time.Time
}

// memberships loads team memberships for the given employees, keyed by employee id.
func (s *EmployeeService) memberships(ctx context.Context, orgID string, employeeIDs []string) (map[string][]EmployeeTeamMembership, error) {
	out := make(map[string][]EmployeeTeamMembership, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return out, nil
	}

	var rows []employeeMembershipRow
	if err := s.db.WithContext(ctx).
		Table("employee_teams").
		Select("employee_teams.employee_id, teams.id AS team_id, teams.name, teams.description, employee_teams.assigned_at").
		Joins("JOIN teams ON teams.id = employee_teams.team_id").
		Where("employee_teams.employee_id IN ? AND teams.organisation_id = ?", employeeIDs, orgID).
		Order("employee_teams.assigned_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("employee service: load memberships: %w", err)
	}

	for _, row := range rows {
		out[row.EmployeeID] = append(out[row.EmployeeID], EmployeeTeamMembership{
			ID:          row.TeamID,
			Name:        row.Name,
			Description: row.Description,
			AssignedAt:  row.AssignedAt,
		})
	}
	return out, nil
}

// findEmployee loads an employee scoped to the organisation. Foreign ids resolve to ErrEmployeeNotFound.
func findEmployee(db *gorm.DB, orgID, id string) (*models.Employee, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmployeeNotFound
	}

	var employee models.Employee
	err := db.Where("id = ? AND organisation_id = ?", id, orgID).Take(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	return &employee, nil
}
