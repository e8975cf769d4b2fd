package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/charlesng35/hrms/cmd/hrmsctl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Migrate commands.MigrateCmd `cmd:"" help:"Create or update the database schema"`
		Seed    commands.SeedCmd    `cmd:"" help:"Load the demo organisation"`
		Config  string              `help:"Path to configuration directory" type:"path" default:""`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("hrmsctl"),
		kong.Description("HRMS operator tooling"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{ConfigPath: cli.Config, Version: version})
	cmd.FatalIfErrorf(err)
}
