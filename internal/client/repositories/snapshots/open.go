package snapshots

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/krktechnologyandservices/GBV/internal/client/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Migrate applies the embedded migrations of the given dialect directory
// ("sqlite" or "postgres").
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

// Open builds the Repository for driver. The returned close function
// releases the underlying connection.
func Open(ctx context.Context, driver, dsn string) (Repository, func() error, error) {
	switch driver {
	case DriverSQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("db open error: %w", err)
		}
		if err := Migrate(ctx, db, goose.DialectSQLite3, "sqlite"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return NewSQLiteRepository(db), db.Close, nil

	case DriverPostgres:
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("db open error: %w", err)
		}
		if err := Migrate(ctx, db, goose.DialectPostgres, "postgres"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return NewPostgresRepository(db), db.Close, nil

	case DriverRedis:
		opts, err := redis.ParseURL(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisRepository(rdb), rdb.Close, nil

	case DriverMemory, "":
		return NewMemoryRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}
