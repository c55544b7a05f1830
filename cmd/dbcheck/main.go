package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/config"
	"github.com/Robert-Prikryl/ambulance-virtual-patient-api/internal/database"
	"github.com/rs/zerolog"
)

// Exit codes: 0 initialized, 2 not yet initialized, 1 error.
const (
	exitInitialized    = 0
	exitError          = 1
	exitNotInitialized = 2
)

// inspector is what dbcheck reads from the database.
type inspector interface {
	ListDatabaseNames(ctx context.Context) ([]string, error)
	ListCollectionNames(ctx context.Context, database string) ([]string, error)
	CountDocuments(ctx context.Context, database, collection string) (int64, error)
	ListIndexes(ctx context.Context, database, collection string) ([]database.IndexInfo, error)
}

func main() {
	envFile := flag.String("env-file", "", "path to .env file (default .env)")
	flag.Parse()

	cfg, err := config.Load(config.Overrides{EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(exitError)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, database.Options{
		URI:     database.ConnectionURI(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		Timeout: cfg.Timeout(),
		Log:     zerolog.Nop(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s:%s: %v\n", cfg.Host, cfg.Port, err)
		os.Exit(exitError)
	}

	code, err := report(ctx, os.Stdout, db, cfg.Database, cfg.Collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	db.Close()
	os.Exit(code)
}

func report(ctx context.Context, w io.Writer, db inspector, dbName, collName string) (int, error) {
	databases, err := db.ListDatabaseNames(ctx)
	if err != nil {
		return exitError, fmt.Errorf("list databases: %w", err)
	}
	dbExists := slices.Contains(databases, dbName)
	fmt.Fprintf(w, "%-12s %s (exists: %t)\n", "Database", dbName, dbExists)
	if !dbExists {
		fmt.Fprintln(w, "\nNot initialized.")
		return exitNotInitialized, nil
	}

	collections, err := db.ListCollectionNames(ctx, dbName)
	if err != nil {
		return exitError, fmt.Errorf("list collections: %w", err)
	}
	collExists := slices.Contains(collections, collName)
	fmt.Fprintf(w, "%-12s %s (exists: %t)\n", "Collection", collName, collExists)
	if !collExists {
		fmt.Fprintln(w, "\nNot initialized.")
		return exitNotInitialized, nil
	}

	count, err := db.CountDocuments(ctx, dbName, collName)
	if err != nil {
		return exitError, fmt.Errorf("count documents: %w", err)
	}
	fmt.Fprintf(w, "%-12s %d\n", "Documents", count)

	indexes, err := db.ListIndexes(ctx, dbName, collName)
	if err != nil {
		return exitError, fmt.Errorf("list indexes: %w", err)
	}
	fmt.Fprintln(w, "\nIndex                    Keys")
	fmt.Fprintln(w, "─────────────────────────────────")
	for _, idx := range indexes {
		fmt.Fprintf(w, "%-25s %s\n", idx.Name, idx.Keys)
	}

	fmt.Fprintln(w, "\nInitialized.")
	return exitInitialized, nil
}
