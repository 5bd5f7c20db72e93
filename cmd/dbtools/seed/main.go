// cmd/dbtools/seed/main.go
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/config"
	"github.com/codr1/Matchpoint/internal/db"
	"github.com/codr1/Matchpoint/internal/venues"
)

func main() {
	var (
		configPath  = flag.String("config", "config/app.yaml", "Path to the YAML configuration file")
		catalogPath = flag.String("venues", "config/venues.yaml", "Path to the venue catalog")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	file, err := venues.LoadCatalogFile(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *catalogPath).Msg("Failed to load venue catalog")
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = log.Logger.WithContext(ctx)

	result, err := venues.NewCatalog(database, clockwork.NewRealClock()).Seed(ctx, file)
	if err != nil {
		log.Error().Err(err).Int("created", result.Created).Msg("Venue seed failed")
		os.Exit(1)
	}
	log.Info().Int("created", result.Created).Int("skipped", result.Skipped).Msg("Venue catalog seeded")
}
