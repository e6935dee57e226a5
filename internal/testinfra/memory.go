package testinfra

import (
	"context"
	"testing"

	"github.com/matthieukhl/cartstats/internal/config"
	"github.com/matthieukhl/cartstats/internal/database"
	"github.com/matthieukhl/cartstats/internal/ingest"
	"github.com/matthieukhl/cartstats/internal/models"
)

// NewSQLiteDB opens an in-memory SQLite database with the schema created.
// The pool is pinned to one connection because each SQLite memory
// connection is its own database.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()
	return open(t, &config.DBConfig{Driver: "sqlite3", DSN: ":memory:", MaxOpenConns: 1})
}

// NewDuckDB opens an in-memory DuckDB database with the schema created
func NewDuckDB(t *testing.T) *database.DB {
	t.Helper()
	return open(t, &config.DBConfig{Driver: "duckdb", DSN: ""})
}

func open(t *testing.T, cfg *config.DBConfig) *database.DB {
	t.Helper()

	db, err := database.NewConnection(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.SetupSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// Seed writes ds into db
func Seed(t *testing.T, db *database.DB, ds *models.Dataset) {
	t.Helper()
	if err := ingest.NewWriter(db).Write(context.Background(), ds); err != nil {
		t.Fatalf("Failed to seed dataset: %v", err)
	}
}
