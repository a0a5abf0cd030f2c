// Package storage provides the durable local key-value backends used to keep
// application state between runs: a JSON file directory, an embedded SQLite
// database, a PostgreSQL table and an in-memory map.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/ReportKeeper/internal/db"
)

// Backend is a key-value store holding opaque payloads.
type Backend interface {
	// Get returns the payload stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Put stores value under key, replacing any previous payload.
	Put(ctx context.Context, key string, value []byte) error
	// Close releases the resources held by the backend.
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	// KindFile stores each key as a JSON file in a directory.
	KindFile Kind = "file"
	// KindSQLite stores keys in an embedded SQLite database file.
	KindSQLite Kind = "sqlite"
	// KindPostgres stores keys in a PostgreSQL table.
	KindPostgres Kind = "postgres"
	// KindMemory keeps keys in process memory only.
	KindMemory Kind = "memory"
)

var (
	// ErrInvalidKey is returned for empty keys or keys that cannot be stored.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrUnknownKind is returned by Open for an unsupported backend kind.
	ErrUnknownKind = errors.New("unknown storage kind")
)

// Open constructs the backend named by kind. dsn is a directory for KindFile,
// a database path for KindSQLite and a connection string for KindPostgres.
// It is ignored for KindMemory.
func Open(kind Kind, dsn string) (Backend, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindFile, "":
		return NewFileStorage(dsn)
	case KindSQLite:
		return NewSQLiteStorage(dsn)
	case KindPostgres:
		conn, err := db.InitPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return NewPostgresStorage(conn), nil
	case KindMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}
