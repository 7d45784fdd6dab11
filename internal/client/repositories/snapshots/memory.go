package snapshots

import (
	"context"
	"sync"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

// MemoryRepository is a process-local Repository for tests and for running
// without any durable store.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]models.Snapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]models.Snapshot)}
}

func (r *MemoryRepository) Load(_ context.Context, key string) (*models.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.items[key]
	if !ok {
		return nil, nil
	}
	return cloneSnapshot(snap), nil
}

func (r *MemoryRepository) Save(_ context.Context, key string, snap *models.Snapshot, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[key] = *cloneSnapshot(*snap)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, key)
	return nil
}

func cloneSnapshot(s models.Snapshot) *models.Snapshot {
	entries := make([]models.ListingEntry, len(s.Entries))
	copy(entries, s.Entries)
	return &models.Snapshot{Entries: entries, CapturedAt: s.CapturedAt}
}
