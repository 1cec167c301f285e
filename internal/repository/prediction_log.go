package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rillyayidan/SmartHome-API/internal/model"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const postgresSchema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS price_predictions (
	id BIGSERIAL PRIMARY KEY,
	prediction_id TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL,
	zone TEXT NOT NULL,
	predicted_price DOUBLE PRECISION NOT NULL,
	category TEXT NOT NULL,
	uncertainty DOUBLE PRECISION NOT NULL DEFAULT 0,
	input JSONB,
	features vector,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_price_predictions_created_at ON price_predictions (created_at DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS price_predictions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	prediction_id TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL,
	zone TEXT NOT NULL,
	predicted_price REAL NOT NULL,
	category TEXT NOT NULL,
	uncertainty REAL NOT NULL DEFAULT 0,
	input TEXT,
	features TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_price_predictions_created_at ON price_predictions (created_at DESC);
`

// PredictionRepository persists predictions to PostgreSQL or SQLite
type PredictionRepository struct {
	db     *sqlx.DB
	driver string
}

// NewPredictionRepository opens the prediction log database
func NewPredictionRepository(driver, dsn string, maxConn, maxIdleConn int) (*PredictionRepository, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		// SQLite allows a single writer
		maxConn, maxIdleConn = 1, 1
	default:
		return nil, fmt.Errorf("unsupported prediction log driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PredictionRepository{db: db, driver: driver}, nil
}

// Driver returns the database driver name
func (r *PredictionRepository) Driver() string {
	return r.driver
}

// Close closes the database connection
func (r *PredictionRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the predictions table when missing
func (r *PredictionRepository) EnsureSchema(ctx context.Context) error {
	schema := sqliteSchema
	if r.driver == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// LogPrediction stores one prediction
func (r *PredictionRepository) LogPrediction(ctx context.Context, entry *model.PredictionLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO price_predictions
			(prediction_id, location, zone, predicted_price, category, uncertainty, input, features, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		entry.PredictionID, entry.Location, entry.Zone, entry.PredictedPrice,
		entry.Category, entry.Uncertainty, entry.Input, entry.Features, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log prediction: %w", err)
	}
	return nil
}

// RecentPredictions returns the latest predictions, newest first
func (r *PredictionRepository) RecentPredictions(ctx context.Context, limit int) ([]model.PredictionLogEntry, error) {
	query := r.db.Rebind(`
		SELECT id, prediction_id, location, zone, predicted_price, category, uncertainty, input, features, created_at
		FROM price_predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)

	entries := []model.PredictionLogEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}
	return entries, nil
}
