package commands

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/charlesng35/hrms/internal/database"
)

type SeedCmd struct {
	Reset bool `help:"Drop and recreate every table before seeding" default:"false"`
}

func (s *SeedCmd) Run(ctx context.Context, globals *Globals) (err error) {
	db, err := globals.openDatabase()
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, database.Close(db)) }()

	result, err := database.SeedDemo(ctx, db, s.Reset)
	if errors.Is(err, database.ErrAlreadySeeded) {
		fmt.Fprintln(globals.out(), "demo data already present; use --reset to recreate it")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	out := globals.out()
	fmt.Fprintf(out, "seeded organisation %s\n", result.OrganisationID)
	fmt.Fprintf(out, "  employees:   %d\n", result.Employees)
	fmt.Fprintf(out, "  teams:       %d\n", result.Teams)
	fmt.Fprintf(out, "  assignments: %d\n", result.Assignments)
	fmt.Fprintf(out, "login with %s / %s\n", result.AdminEmail, database.DemoAdminPassword)
	return nil
}
