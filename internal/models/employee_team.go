package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeTeam links an employee to a team. At most one row exists per pair and the row
// disappears with either side.
type EmployeeTeam struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string    `gorm:"size:36;not null;uniqueIndex:idx_employee_teams_pair" json:"employeeId"`
	TeamID     string    `gorm:"size:36;not null;uniqueIndex:idx_employee_teams_pair;index" json:"teamId"`
	AssignedAt time.Time `gorm:"not null" json:"assignedAt"`

	Employee *Employee `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Team     *Team     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (EmployeeTeam) TableName() string { return "employee_teams" }

func (m *EmployeeTeam) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.AssignedAt.IsZero() {
		m.AssignedAt = nowFrom(tx)
	}
	return nil
}
