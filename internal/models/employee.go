package models

// Employee is a person managed by an organisation.
type Employee struct {
	BaseModel

	OrganisationID string        `gorm:"size:36;not null;index" json:"organisationId"`
	Organisation   *Organisation `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	FirstName string  `gorm:"size:100;not null" json:"firstName"`
	LastName  string  `gorm:"size:100;not null" json:"lastName"`
	Email     *string `gorm:"size:255" json:"email"`
	Phone     *string `gorm:"size:50" json:"phone"`
}

func (Employee) TableName() string { return "employees" }
