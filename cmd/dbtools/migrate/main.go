// cmd/dbtools/migrate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"

	"github.com/codr1/Matchpoint/internal/db"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Path to SQLite database")
		command = flag.String("command", "", "Command to run (up, down, version)")
		steps   = flag.Int("steps", 0, "Number of migrations to roll back with down (0 = all)")
	)
	flag.Parse()

	if *dbPath == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	absDB, err := filepath.Abs(*dbPath)
	if err != nil {
		log.Fatalf("Invalid database path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(absDB), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	src, err := db.MigrationsSource()
	if err != nil {
		log.Fatalf("Failed to load embedded migrations: %v", err)
	}

	// Initialize migrate
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+absDB)
	if err != nil {
		log.Fatalf("Migration init failed: %v", err)
	}
	defer m.Close()

	// Execute command
	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration up failed: %v", err)
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration down failed: %v", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Get version failed: %v", err)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}
