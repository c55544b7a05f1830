package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/database"
	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/retry"
	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/seed"
	"github.com/rs/zerolog"
)

// ErrSeedWrite is returned by Run when the seed insert reports write errors
// and FailOnWriteError is set.
var ErrSeedWrite = errors.New("seed data write failed")

// Store is the subset of database operations the initializer needs.
type Store interface {
	ListDatabaseNames(ctx context.Context) ([]string, error)
	ListCollectionNames(ctx context.Context, database string) ([]string, error)
	CreateCollection(ctx context.Context, database, collection string) error
	CreateIndex(ctx context.Context, database, collection, field string) (string, error)
	InsertMany(ctx context.Context, database, collection string, docs []interface{}) (*database.InsertResult, error)
}

// DialFunc opens a connection to the database. It is retried until it succeeds.
type DialFunc func(ctx context.Context) (Store, error)

// Initializer brings the target collection to its seeded state exactly once.
type Initializer struct {
	Dial       DialFunc
	Database   string
	Collection string

	RetryInterval time.Duration
	// Timer overrides the wait between connection attempts; nil uses the wall clock.
	Timer retry.Timer

	// FailOnWriteError makes a seed write error fatal. The default logs it and
	// reports success, as earlier deployments of this job did.
	FailOnWriteError bool

	Log zerolog.Logger
}

// Result describes what a Run did.
type Result struct {
	AlreadyInitialized bool
	FailedAttempts     int
	IndexName          string
	Insert             *database.InsertResult
}

// Run connects, retrying at a fixed interval without limit, and provisions
// the collection unless it already exists.
func (in *Initializer) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	store, err := in.connect(ctx, res)
	if err != nil {
		return res, err
	}

	exists, err := in.collectionExists(ctx, store)
	if err != nil {
		return res, err
	}
	if exists {
		in.Log.Info().
			Str("database", in.Database).
			Str("collection", in.Collection).
			Msg("collection already exists, nothing to do")
		res.AlreadyInitialized = true
		return res, nil
	}

	// Created explicitly so the index lands on this collection rather than
	// one implicitly created by the insert.
	if err := store.CreateCollection(ctx, in.Database, in.Collection); err != nil {
		return res, fmt.Errorf("create collection %q: %w", in.Collection, err)
	}

	res.IndexName, err = store.CreateIndex(ctx, in.Database, in.Collection, seed.IndexField)
	if err != nil {
		return res, fmt.Errorf("create index on %q: %w", seed.IndexField, err)
	}

	docs := seed.Documents()
	res.Insert, err = store.InsertMany(ctx, in.Database, in.Collection, docs)
	if err != nil {
		return res, fmt.Errorf("insert seed data: %w", err)
	}

	if res.Insert.HasWriteErrors() {
		in.Log.Error().
			Interface("result", res.Insert).
			Str("errmsg", res.Insert.Message).
			Msg("error when writing the data")
		if in.FailOnWriteError {
			return res, fmt.Errorf("%w: %s", ErrSeedWrite, res.Insert.Message)
		}
		return res, nil
	}

	in.Log.Info().
		Str("database", in.Database).
		Str("collection", in.Collection).
		Str("index", res.IndexName).
		Int("documents", res.Insert.InsertedCount).
		Msg("collection initialized")
	return res, nil
}

func (in *Initializer) connect(ctx context.Context, res *Result) (Store, error) {
	interval := in.RetryInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	var store Store
	r := &retry.Retry{
		Interval: interval,
		Timer:    in.Timer,
		Notify: func(err error, attempt int, wait time.Duration) {
			res.FailedAttempts = attempt
			in.Log.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("retry_in", wait).
				Msg("cannot connect to mongodb")
		},
	}
	err := r.Do(ctx, func(ctx context.Context) error {
		s, err := in.Dial(ctx)
		if err != nil {
			return err
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return store, nil
}

func (in *Initializer) collectionExists(ctx context.Context, store Store) (bool, error) {
	databases, err := store.ListDatabaseNames(ctx)
	if err != nil {
		return false, fmt.Errorf("list databases: %w", err)
	}
	if !slices.Contains(databases, in.Database) {
		return false, nil
	}

	collections, err := store.ListCollectionNames(ctx, in.Database)
	if err != nil {
		return false, fmt.Errorf("list collections in %q: %w", in.Database, err)
	}
	return slices.Contains(collections, in.Collection), nil
}
