package snapshots

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/dbx"
)

// PostgresRepository shares one snapshot between every client pointed at
// the same database.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM cache_metadata WHERE key = ANY(ARRAY[$1, $2])`, key, capturedAtKey(key))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	values, err := scanPairs(rows)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return decodeSnapshot(values[key], values[capturedAtKey(key)])
}

func (r *PostgresRepository) Save(ctx context.Context, key string, snap *models.Snapshot, _ time.Duration) error {
	entries, err := encodeEntries(snap.Entries)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		const upsert = `
			INSERT INTO cache_metadata (key, value, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

		if _, err := tx.ExecContext(ctx, upsert, key, entries); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, upsert, capturedAtKey(key), encodeTime(snap.CapturedAt))
		return err
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cache_metadata WHERE key IN ($1, $2)`, key, capturedAtKey(key))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
