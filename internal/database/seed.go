package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/models"
	"github.com/charlesng35/hrms/pkg/crypto"
)

const (
	DemoOrganisationName = "Demo Company Inc."
	DemoAdminEmail       = "admin@demo.com"
	DemoAdminPassword    = "admin123"
)

// ErrAlreadySeeded is returned when the demo administrator already exists and no reset was requested.
var ErrAlreadySeeded = errors.New("demo data already present")

// SeedResult summarises what SeedDemo wrote.
type SeedResult struct {
	OrganisationID string
	AdminEmail     string
	Employees      int
	Teams          int
	Assignments    int
}

type demoEmployee struct {
	first, last, email, phone string
}

type demoTeam struct {
	name, description string
}

var (
	demoEmployees = []demoEmployee{
		{"John", "Doe", "john.doe@demo.com", "+1-555-0101"},
		{"Jane", "Smith", "jane.smith@demo.com", "+1-555-0102"},
		{"Bob", "Johnson", "bob.johnson@demo.com", "+1-555-0103"},
		{"Alice", "Williams", "alice.williams@demo.com", "+1-555-0104"},
		{"Charlie", "Brown", "charlie.brown@demo.com", "+1-555-0105"},
	}
	demoTeams = []demoTeam{
		{"Engineering", "Software development and technical operations"},
		{"Marketing", "Brand management and customer outreach"},
		{"Sales", "Revenue generation and client relations"},
	}
	// employee index -> team index
	demoAssignments = [][2]int{
		{0, 0}, {1, 0}, {1, 1}, {2, 2}, {3, 1}, {4, 2}, {4, 0},
	}
)

// SeedDemo populates a demo organisation with an administrator, employees, teams and
// assignments. With reset the schema is dropped and recreated first.
func SeedDemo(ctx context.Context, db *gorm.DB, reset bool) (*SeedResult, error) {
	if db == nil {
		return nil, errors.New("nil database handle")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	db = db.WithContext(ctx)

	if reset {
		if err := DropAll(db); err != nil {
			return nil, fmt.Errorf("seed: drop tables: %w", err)
		}
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("seed: migrate: %w", err)
	}

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", DemoAdminEmail).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("seed: check admin: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadySeeded
	}

	hash, err := crypto.HashPassword(DemoAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password: %w", err)
	}

	result := &SeedResult{AdminEmail: DemoAdminEmail}
	err = db.Transaction(func(tx *gorm.DB) error {
		org := models.Organisation{Name: DemoOrganisationName}
		if err := tx.Create(&org).Error; err != nil {
			return fmt.Errorf("create organisation: %w", err)
		}
		result.OrganisationID = org.ID

		admin := models.User{
			OrganisationID: org.ID,
			Email:          DemoAdminEmail,
			PasswordHash:   hash,
			Name:           "Admin User",
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		employees := make([]models.Employee, 0, len(demoEmployees))
		for _, e := range demoEmployees {
			email, phone := e.email, e.phone
			employees = append(employees, models.Employee{
				OrganisationID: org.ID,
				FirstName:      e.first,
				LastName:       e.last,
				Email:          &email,
				Phone:          &phone,
			})
		}
		if err := tx.Create(&employees).Error; err != nil {
			return fmt.Errorf("create employees: %w", err)
		}

		teams := make([]models.Team, 0, len(demoTeams))
		for _, t := range demoTeams {
			description := t.description
			teams = append(teams, models.Team{
				OrganisationID: org.ID,
				Name:           t.name,
				Description:    &description,
			})
		}
		if err := tx.Create(&teams).Error; err != nil {
			return fmt.Errorf("create teams: %w", err)
		}

		links := make([]models.EmployeeTeam, 0, len(demoAssignments))
		for _, pair := range demoAssignments {
			links = append(links, models.EmployeeTeam{
				EmployeeID: employees[pair[0]].ID,
				TeamID:     teams[pair[1]].ID,
			})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("create assignments: %w", err)
		}

		result.Employees = len(employees)
		result.Teams = len(teams)
		result.Assignments = len(links)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return result, nil
}
