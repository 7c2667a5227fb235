package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoState is returned when nothing has been saved under a key yet.
var ErrNoState = errors.New("no saved state")

// PostgresFavorites keeps each favorites collection as one JSON document per
// storage key.
type PostgresFavorites struct {
	DB *sql.DB
}

func NewPostgresFavorites(db *sql.DB) *PostgresFavorites {
	return &PostgresFavorites{DB: db}
}

func (r *PostgresFavorites) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS favorites_state (
			storage_key TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresFavorites) Load(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := r.DB.QueryRowContext(ctx, `
		SELECT payload FROM favorites_state WHERE storage_key = $1
	`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (r *PostgresFavorites) Save(ctx context.Context, key string, payload []byte) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO favorites_state (storage_key, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (storage_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = CURRENT_TIMESTAMP
	`, key, string(payload))
	return err
}
