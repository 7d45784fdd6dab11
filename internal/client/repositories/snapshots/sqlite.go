package snapshots

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata WHERE key IN (?, ?)`, key, capturedAtKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot[%s]: %w", key, err)
	}
	defer rows.Close()

	values, err := scanPairs(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot[%s]: %w", key, err)
	}

	return decodeSnapshot(values[key], values[capturedAtKey(key)])
}

func (r *SQLiteRepository) Save(ctx context.Context, key string, snap *models.Snapshot, _ time.Duration) error {
	entries, err := encodeEntries(snap.Entries)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		const upsert = `
			INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`

		if _, err := tx.ExecContext(ctx, upsert, key, entries); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, upsert, capturedAtKey(key), encodeTime(snap.CapturedAt))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (?, ?)`, key, capturedAtKey(key))
	if err != nil {
		return fmt.Errorf("failed to delete snapshot[%s]: %w", key, err)
	}
	return nil
}

func scanPairs(rows *sql.Rows) (map[string][]byte, error) {
	out := make(map[string][]byte, 2)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
