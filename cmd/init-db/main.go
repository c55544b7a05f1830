package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/bootstrap"
	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/config"
	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/database"
	"github.com/rs/zerolog"
)

var version = "dev"

func main() {
	var overrides config.Overrides
	flag.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file (default .env)")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.StringVar(&overrides.Host, "host", "", "mongodb host")
	flag.StringVar(&overrides.Port, "port", "", "mongodb port")
	flag.StringVar(&overrides.Database, "database", "", "target database name")
	flag.StringVar(&overrides.Collection, "collection", "", "target collection name")
	flag.BoolVar(&overrides.FailOnWriteError, "fail-on-write-error", false, "exit non-zero when seed data cannot be written")
	flag.Parse()

	// Config
	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	// Errors go to stderr so they reach the operator's error channel.
	log := zerolog.New(splitWriter{out: os.Stdout, err: os.Stderr}).With().Timestamp().Logger().Level(level)
	log.Info().
		Str("version", version).
		Str("database", cfg.Database).
		Str("collection", cfg.Collection).
		Dur("retry_interval", cfg.RetryInterval()).
		Msg("init-db starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uri := database.ConnectionURI(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dbLog := log.With().Str("component", "database").Logger()

	var db *database.DB
	initializer := &bootstrap.Initializer{
		Dial: func(ctx context.Context) (bootstrap.Store, error) {
			conn, err := database.Connect(ctx, database.Options{
				URI:     uri,
				Timeout: cfg.Timeout(),
				Log:     dbLog,
			})
			if err != nil {
				return nil, err
			}
			db = conn
			return conn, nil
		},
		Database:         cfg.Database,
		Collection:       cfg.Collection,
		RetryInterval:    cfg.RetryInterval(),
		FailOnWriteError: cfg.FailOnWriteError,
		Log:              log.With().Str("component", "bootstrap").Logger(),
	}

	res, err := initializer.Run(ctx)
	if db != nil {
		db.Close()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("interrupted before initialization finished")
		} else {
			log.Error().Err(err).Msg("initialization failed")
		}
		os.Exit(1)
	}

	log.Info().
		Bool("already_initialized", res.AlreadyInitialized).
		Int("failed_connect_attempts", res.FailedAttempts).
		Msg("init-db finished")
}
