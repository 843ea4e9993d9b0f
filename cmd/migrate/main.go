package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/schoolfees/backend/internal/infrastructure/config"
	"github.com/schoolfees/backend/internal/infrastructure/logger"
	"github.com/schoolfees/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const usage = `School fees schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down                  roll back all migrations
  step <n>              apply n migrations, negative n rolls back
  goto <version>        migrate to one specific version
  version               print the current schema version
  force <version>       overwrite the recorded version, for dirty state recovery
  drop -confirm         drop every database object
  create <name> [desc]  write a new up/down migration pair
  list                  list the migration pairs on disk

Flags:
  -path string          migrations directory (default "migrations")
  -log-level string     debug, info, warn or error (default "info")

Database settings come from the same environment the server reads:
DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL_MODE.`

func main() {
	var (
		dir      string
		logLevel string
	)
	flag.StringVar(&dir, "path", "migrations", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	// create and list work on the files alone, no database needed
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		pair, err := migration.Create(dir, args[1], description)
		if err != nil {
			log.Fatal("create migration", zap.Error(err))
		}
		log.Info("migration pair written",
			zap.String("up", pair.UpPath),
			zap.String("down", pair.DownPath))
		return

	case "list":
		names, err := migration.List(dir)
		if err != nil {
			log.Fatal("list migrations", zap.Error(err))
		}
		if len(names) == 0 {
			log.Info("no migrations found", zap.String("path", dir))
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	mg, err := migration.New(db, dir, log)
	if err != nil {
		log.Fatal("create migrator", zap.Error(err))
	}
	defer mg.Close()

	switch command {
	case "up":
		if err := mg.Up(); err != nil {
			log.Fatal("migrate up", zap.Error(err))
		}

	case "down":
		if err := mg.Down(); err != nil {
			log.Fatal("migrate down", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("step count must be an integer", zap.String("value", args[1]))
		}
		if err := mg.Steps(n); err != nil {
			log.Fatal("migrate step", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("version must be an unsigned integer", zap.String("value", args[1]))
		}
		if err := mg.GoTo(uint(version)); err != nil {
			log.Fatal("migrate goto", zap.Error(err))
		}

	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			log.Fatal("read version", zap.Error(err))
		}
		if version == 0 {
			log.Info("no migrations applied yet")
			return
		}
		log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "force":
		if len(args) < 2 {
			log.Fatal("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("version must be an integer", zap.String("value", args[1]))
		}
		if err := mg.Force(version); err != nil {
			log.Fatal("force version", zap.Error(err))
		}

	case "drop":
		confirmed := false
		for _, arg := range args[1:] {
			if arg == "-confirm" || arg == "--confirm" {
				confirmed = true
			}
		}
		if !confirmed {
			log.Fatal("drop destroys all data, rerun as: migrate drop -confirm")
		}
		if err := mg.Drop(); err != nil {
			log.Fatal("drop", zap.Error(err))
		}

	default:
		fmt.Println(usage)
		log.Fatal("unknown command", zap.String("command", command))
	}
}
