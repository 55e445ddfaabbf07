package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DIMO-Network/line-webhook-relay/internal/db/migrations"
)

// PostgresStore keeps keys in the kv_entries table. Each Set is a single
// upsert, so a value is replaced atomically.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store backed by an open database handle.
// The schema must already be migrated.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrInvalidKey
	}
	var value string
	err := p.db.QueryRowContext(ctx,
		"SELECT value FROM "+migrations.SchemaName+".kv_entries WHERE key = $1", key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO "+migrations.SchemaName+".kv_entries (key, value, updated_at) VALUES ($1, $2, NOW()) "+
			"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}
