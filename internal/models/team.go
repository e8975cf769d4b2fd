package models

// Team groups employees of a single organisation.
type Team struct {
	BaseModel

	OrganisationID string        `gorm:"size:36;not null;index" json:"organisationId"`
	Organisation   *Organisation `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

func (Team) TableName() string { return "teams" }
