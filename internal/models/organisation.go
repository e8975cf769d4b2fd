package models

// Organisation is the tenant boundary. Every user, employee, and team belongs to exactly one.
type Organisation struct {
	BaseModel

	Name string `gorm:"size:255;not null" json:"name"`
}

func (Organisation) TableName() string { return "organisations" }
