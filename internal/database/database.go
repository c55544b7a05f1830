package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// DB wraps a connected MongoDB client with per-command timeouts.
type DB struct {
	Client  *mongo.Client
	log     zerolog.Logger
	timeout time.Duration
}

// Options configures Connect.
type Options struct {
	URI string
	// Timeout bounds server selection, the initial ping and each command.
	Timeout time.Duration
	Log     zerolog.Logger
}

// Connect opens a client and pings the primary. The driver dials lazily, so
// the ping is what surfaces an unreachable server.
func Connect(ctx context.Context, opts Options) (*DB, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	opts.Log.Info().
		Str("uri", maskURI(opts.URI)).
		Dur("timeout", timeout).
		Msg("database connected")

	return New(client, timeout, opts.Log), nil
}

// New wraps an already connected client.
func New(client *mongo.Client, timeout time.Duration, log zerolog.Logger) *DB {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &DB{Client: client, log: log, timeout: timeout}
}

// Close disconnects the client, logging rather than returning any error.
func (db *DB) Close() {
	db.log.Info().Msg("closing database client")
	ctx, cancel := context.WithTimeout(context.Background(), db.timeout)
	defer cancel()
	if err := db.Client.Disconnect(ctx); err != nil {
		db.log.Warn().Err(err).Msg("database disconnect failed")
	}
}

// ConnectionURI builds a mongodb:// URI. Credentials are URL-encoded and
// omitted entirely when user is empty.
func ConnectionURI(host, port, user, password string) string {
	hostPart := host
	if port != "" {
		hostPart = fmt.Sprintf("%s:%s", host, port)
	}
	if user == "" {
		return fmt.Sprintf("mongodb://%s/", hostPart)
	}
	return fmt.Sprintf("mongodb://%s@%s/", url.UserPassword(user, password).String(), hostPart)
}

func maskURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		if _, hasPass := u.User.Password(); hasPass {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}

