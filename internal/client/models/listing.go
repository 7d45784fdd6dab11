package models

import "time"

// ListingEntry is the browsing projection of a Record.
type ListingEntry struct {
	ID        int64  `json:"employeeId"`
	Code      string `json:"employeeCode"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"emailId"`
	Active    bool   `json:"activeStatus"`
}

// FullName is first and last name joined by a single space.
func (e ListingEntry) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Snapshot is the persisted form of the listing cache.
type Snapshot struct {
	Entries    []ListingEntry `json:"entries"`
	CapturedAt time.Time      `json:"capturedAt"`
}

// Age returns how old the snapshot is at now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.CapturedAt)
}

// ListingEntries projects every record.
func ListingEntries(records []Record) []ListingEntry {
	out := make([]ListingEntry, 0, len(records))
	for i := range records {
		out = append(out, records[i].ToListingEntry())
	}
	return out
}
