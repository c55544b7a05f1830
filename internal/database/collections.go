package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// WriteError describes one document the server refused to insert.
type WriteError struct {
	Index   int
	Code    int
	Message string
}

// InsertResult reports the outcome of a batch insert. Server-side write
// failures land here rather than in the returned error.
type InsertResult struct {
	InsertedCount     int
	WriteErrors       []WriteError
	WriteConcernError string
	// Message is the server's combined error message, empty on success.
	Message string
}

// HasWriteErrors reports whether any document or the write concern failed.
func (r *InsertResult) HasWriteErrors() bool {
	return len(r.WriteErrors) > 0 || r.WriteConcernError != ""
}

// IndexInfo is a trimmed-down index specification.
type IndexInfo struct {
	Name string
	Keys string
}

func (db *DB) ListDatabaseNames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	return db.Client.ListDatabaseNames(ctx, bson.D{})
}

func (db *DB) ListCollectionNames(ctx context.Context, database string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	return db.Client.Database(database).ListCollectionNames(ctx, bson.D{})
}

func (db *DB) CreateCollection(ctx context.Context, database, collection string) error {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	if err := db.Client.Database(database).CreateCollection(ctx, collection); err != nil {
		return err
	}
	db.log.Info().Str("database", database).Str("collection", collection).Msg("collection created")
	return nil
}

// CreateIndex creates an ascending single-field index and returns its name.
func (db *DB) CreateIndex(ctx context.Context, database, collection, field string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	name, err := db.Client.Database(database).Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: field, Value: 1}},
	})
	if err != nil {
		return "", err
	}
	db.log.Info().Str("collection", collection).Str("index", name).Msg("index created")
	return name, nil
}

// InsertMany inserts docs in a single ordered batch.
func (db *DB) InsertMany(ctx context.Context, database, collection string, docs []interface{}) (*InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	_, err := db.Client.Database(database).Collection(collection).InsertMany(ctx, docs)
	if err == nil {
		return &InsertResult{InsertedCount: len(docs)}, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return nil, err
	}
	// Ordered inserts stop at the first failure, so everything before it landed.
	out := &InsertResult{InsertedCount: len(docs)}
	for _, we := range bwe.WriteErrors {
		out.WriteErrors = append(out.WriteErrors, WriteError{
			Index:   we.Index,
			Code:    we.Code,
			Message: we.Message,
		})
	}
	if len(out.WriteErrors) > 0 {
		out.InsertedCount = out.WriteErrors[0].Index
	}
	if bwe.WriteConcernError != nil {
		out.WriteConcernError = bwe.WriteConcernError.Message
	}
	out.Message = bwe.Error()
	return out, nil
}

func (db *DB) CountDocuments(ctx context.Context, database, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	return db.Client.Database(database).Collection(collection).CountDocuments(ctx, bson.D{})
}

func (db *DB) ListIndexes(ctx context.Context, database, collection string) ([]IndexInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()
	specs, err := db.Client.Database(database).Collection(collection).Indexes().ListSpecifications(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]IndexInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, IndexInfo{Name: s.Name, Keys: formatKeys(s.KeysDocument)})
	}
	return out, nil
}

func formatKeys(raw bson.Raw) string {
	var keys bson.D
	if err := bson.Unmarshal(raw, &keys); err != nil {
		return raw.String()
	}
	parts := make([]string, 0, len(keys))
	for _, e := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", e.Key, e.Value))
	}
	return strings.Join(parts, ",")
}
