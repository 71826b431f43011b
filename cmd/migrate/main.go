package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// usage: migrate [-steps N] up|down|version
func main() {
	steps := flag.Int("steps", 0, "number of migrations to apply (0 = all for up, 1 for down)")
	flag.Parse()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	m, err := pginfra.NewMigrator(cfg.PostgresDSN(), cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("migrator: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch cmd {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		n := *steps
		if n <= 0 {
			n = 1
		}
		err = m.Steps(-n)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatalf("version: %v", verr)
		}
		logger.WithField("version", v).WithField("dirty", dirty).Info("schema version")
		return
	default:
		log.Fatalf("unknown command %q (want up, down or version)", cmd)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
	logger.WithField("command", cmd).Info("migrations applied")
}
