package snapshots

import (
	"context"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

type Repository interface {
	Load(ctx context.Context, key string) (*models.Snapshot, error)

	// Save replaces the snapshot under key. Backends with native expiry
	// drop it after ttl; the others keep it until Delete.
	Save(ctx context.Context, key string, snap *models.Snapshot, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
