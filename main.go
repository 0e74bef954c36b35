package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/buehner/ivao-tracker/airports"
	"github.com/buehner/ivao-tracker/api"
	"github.com/buehner/ivao-tracker/config"
	"github.com/buehner/ivao-tracker/db"
	"github.com/buehner/ivao-tracker/services/feed"
	"github.com/buehner/ivao-tracker/tracker"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	cfg, err := config.Load("config.toml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	store, err := db.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Airport reference data refreshes out of band on its own slow
	// ticker; reconciliation passes never wait for it.
	syncer := airports.NewSyncer(store, cfg.Airports.URL, log.Logger)
	go func() {
		if err := syncer.Sync(); err != nil {
			log.Error().Err(err).Msg("error syncing airports")
		}
		for range time.Tick(time.Duration(cfg.Airports.SyncIntervalHours) * time.Hour) {
			if err := syncer.Sync(); err != nil {
				log.Error().Err(err).Msg("error syncing airports")
			}
		}
	}()

	client := feed.NewClient(cfg.IVAO.WhazzupURL)
	t, err := tracker.New(store, client, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create tracker")
	}

	router := api.NewRouter(t, store)
	go func() {
		log.Info().Str("addr", cfg.Tracker.ListenAddr).Msg("starting API server")
		if err := http.ListenAndServe(cfg.Tracker.ListenAddr, router); err != nil {
			log.Fatal().Err(err).Msg("failed to start API server")
		}
	}()

	interval := time.Duration(cfg.Tracker.IntervalSeconds) * time.Second
	log.Info().Dur("interval", interval).Msg("starting IVAO tracker")

	// Fixed-interval ticker; a pass that overruns the interval skips
	// the missed ticks instead of queueing them.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := t.FetchAndImport(); err != nil {
		log.Error().Err(err).Msg("error importing snapshot")
	}
	for range ticker.C {
		if err := t.FetchAndImport(); err != nil {
			log.Error().Err(err).Msg("error importing snapshot")
		}
	}
}
