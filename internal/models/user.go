package models

// User is an administrator who authenticates and acts on behalf of an organisation.
// Email is unique across all organisations.
type User struct {
	BaseModel

	OrganisationID string        `gorm:"size:36;not null;index" json:"organisationId"`
	Organisation   *Organisation `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Name         string `gorm:"size:255" json:"name"`
}

func (User) TableName() string { return "users" }
