package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStorage keeps payloads in the local_storage table of a PostgreSQL database.
type PostgresStorage struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresStorage wraps an open connection. The schema is expected to be
// in place, see db.InitPostgres.
func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{DB: db}
}

// Get fetches the payload stored under key.
func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	var payload []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT payload FROM local_storage WHERE storage_key = $1`,
		key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return payload, true, nil
}

// Put inserts or replaces the payload stored under key.
func (s *PostgresStorage) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO local_storage (storage_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (storage_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("postgres put %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *PostgresStorage) Close() error {
	return s.DB.Close()
}
