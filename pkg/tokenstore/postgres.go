package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore is a Store backed by a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to the database at dsn and pings it.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Token store connection pool established")

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the zoho_tokens table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS zoho_tokens (
			client_id    TEXT PRIMARY KEY,
			access_token TEXT NOT NULL,
			api_domain   TEXT NOT NULL DEFAULT '',
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create zoho_tokens table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO zoho_tokens (client_id, access_token, api_domain, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    api_domain   = EXCLUDED.api_domain,
		    updated_at   = EXCLUDED.updated_at`,
		rec.ClientID, rec.AccessToken, rec.APIDomain, rec.UpdatedAt)
	if err != nil {
		s.logger.Error("Failed to save token", zap.Error(err), zap.String("client_id", rec.ClientID))
		return fmt.Errorf("failed to save token: %w", err)
	}

	s.logger.Debug("Saved token", zap.String("client_id", rec.ClientID))
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, clientID string) (*Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx, `
		SELECT client_id, access_token, api_domain, updated_at
		FROM zoho_tokens
		WHERE client_id = $1`, clientID).
		Scan(&rec.ClientID, &rec.AccessToken, &rec.APIDomain, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Failed to load token", zap.Error(err), zap.String("client_id", clientID))
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	return &rec, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
