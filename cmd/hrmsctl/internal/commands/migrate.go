package commands

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/charlesng35/hrms/internal/database"
)

type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx context.Context, globals *Globals) (err error) {
	db, err := globals.openDatabase()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, database.Close(db)) }()

	if err := database.AutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Fprintln(globals.out(), "schema is up to date")
	return nil
}
