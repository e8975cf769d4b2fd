package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Log is an append-only audit record. Organisation and user are nullable so records
// survive independently of the rows they describe.
type Log struct {
	ID             string            `gorm:"primaryKey;size:36" json:"id"`
	OrganisationID *string           `gorm:"size:36;index" json:"organisationId"`
	UserID         *string           `gorm:"size:36;index" json:"userId"`
	Action         string            `gorm:"size:255;not null;index" json:"action"`
	Meta           datatypes.JSONMap `json:"meta"`
	Timestamp      time.Time         `gorm:"not null;index" json:"timestamp"`
}

func (Log) TableName() string { return "logs" }

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = nowFrom(tx)
	}
	if l.Meta == nil {
		l.Meta = datatypes.JSONMap{}
	}
	return nil
}

// nowFrom honours the clock configured on the gorm session so timestamps match
// the ones gorm writes into created_at.
func nowFrom(tx *gorm.DB) time.Time {
	if tx != nil && tx.Config != nil && tx.Config.NowFunc != nil {
		return tx.Config.NowFunc()
	}
	return time.Now().UTC()
}
