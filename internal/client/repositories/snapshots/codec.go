package snapshots

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

const capturedAtSuffix = ".captured_at"

func capturedAtKey(key string) string {
	return key + capturedAtSuffix
}

func encodeEntries(entries []models.ListingEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.ListingEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return b, nil
}

func encodeTime(t time.Time) []byte {
	return []byte(t.UTC().Format(time.RFC3339Nano))
}

// decodeSnapshot rebuilds a snapshot from its two stored values. A missing
// half means no snapshot.
func decodeSnapshot(entries, capturedAt []byte) (*models.Snapshot, error) {
	if entries == nil || capturedAt == nil {
		return nil, nil
	}

	ts, err := time.Parse(time.RFC3339Nano, string(capturedAt))
	if err != nil {
		return nil, fmt.Errorf("decode captured_at: %w", err)
	}

	var list []models.ListingEntry
	if err := json.Unmarshal(entries, &list); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}

	return &models.Snapshot{Entries: list, CapturedAt: ts}, nil
}
