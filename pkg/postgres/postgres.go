package postgres

import (
	"context"
	"fmt"

	"ngo-filer/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewPool(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
	)

	return pool, nil
}

// Migrate creates the ledger, audit and user tables when they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	logger.Info("Database schema ready", zap.Int("statements", len(schema)))
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'viewer',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_rows (
		seq BIGSERIAL,
		doc_id TEXT PRIMARY KEY,
		issue_date TEXT NOT NULL DEFAULT '',
		due_date TEXT NOT NULL DEFAULT '',
		vendor TEXT NOT NULL DEFAULT '',
		invoice_number TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT '',
		subtotal DOUBLE PRECISION NOT NULL DEFAULT 0,
		tax_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		grand_total DOUBLE PRECISION NOT NULL DEFAULT 0,
		project_code TEXT NOT NULL DEFAULT '',
		grant_code TEXT NOT NULL DEFAULT '',
		fund_type TEXT NOT NULL DEFAULT '',
		category_primary TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		fiscal_year TEXT NOT NULL DEFAULT '',
		file_path TEXT NOT NULL DEFAULT '',
		file_name TEXT NOT NULL DEFAULT '',
		dedupe_status TEXT NOT NULL DEFAULT 'unique',
		approver TEXT NOT NULL DEFAULT '',
		approved_at TIMESTAMPTZ,
		checksum_sha256 TEXT NOT NULL DEFAULT '',
		doc_fingerprint TEXT NOT NULL DEFAULT '',
		score_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		flags JSONB NOT NULL DEFAULT '[]'::jsonb,
		ingested_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_rows_checksum_idx ON ledger_rows (checksum_sha256)`,
	`CREATE INDEX IF NOT EXISTS ledger_rows_fingerprint_idx ON ledger_rows (doc_fingerprint)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id BIGSERIAL PRIMARY KEY,
		doc_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		details JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS audit_events_doc_idx ON audit_events (doc_id, id)`,
}
