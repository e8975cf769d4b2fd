package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/models"
)

// schema lists models in foreign-key order so parents are created first.
func schema() []interface{} {
	return []interface{}{
		&models.Organisation{},
		&models.User{},
		&models.Employee{},
		&models.Team{},
		&models.EmployeeTeam{},
		&models.Log{},
	}
}

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(schema()...)
}

// DropAll removes every application table, children first.
func DropAll(db *gorm.DB) error {
	tables := schema()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return err
		}
	}
	return nil
}
