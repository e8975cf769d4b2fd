package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/app"
	"github.com/charlesng35/hrms/internal/database"
)

type Globals struct {
	ConfigPath string
	Version    string

	// Out defaults to stdout.
	Out io.Writer
}

func (g *Globals) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// openDatabase loads configuration and opens the configured database.
func (g *Globals) openDatabase() (*gorm.DB, error) {
	var paths []string
	if g != nil && strings.TrimSpace(g.ConfigPath) != "" {
		paths = append(paths, g.ConfigPath)
	}

	cfg, err := app.LoadConfig(paths...)
	if err != nil {
		return nil, err
	}
	if err := app.ConfigureLogging(cfg.Server.LogLevel, cfg.Server.LogFormat); err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	db, err := database.Open(cfg.Database.DatabaseSettings())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
