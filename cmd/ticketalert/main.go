package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"ticketalert/internal/logging"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logging.Setup("info", "json")
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = openDatabase(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer db.Close()
	}

	svcs := buildServices(cfg, db)

	scheduler, err := startScheduler(cfg.SweepSchedule, svcs.sweeper)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("invalid sweep schedule")
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	log.Info().Str("addr", cfg.Addr).Msg("API listening")
	if err := http.ListenAndServe(cfg.Addr, svcs.handler); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
