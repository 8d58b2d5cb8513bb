// Package schedule holds the fleet scheduling model and the month-grid
// generator behind the scheduling view.
package schedule

import (
	"fmt"
	"sync"
	"time"
)

// Status of a schedule entry.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Entry is one fleet assignment on a given day.
type Entry struct {
	ID          string `json:"id"`
	ArmadaName  string `json:"armada_name"`
	OrderDetail string `json:"order_detail"`
	CrewName    string `json:"crew_name"`
	Destination string `json:"destination"`
	Time        string `json:"time"` // HH:MM
	Status      Status `json:"status"`
}

// DateKey formats a date as the ISO day key entries are grouped under.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Index groups entries by ISO YYYY-MM-DD key. Order within a day is insertion
// order. Safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	byDay map[string][]Entry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byDay: make(map[string][]Entry)}
}

// Add appends an entry under the given day key.
func (ix *Index) Add(dateKey string, e Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.byDay[dateKey] = append(ix.byDay[dateKey], e)
}

// For returns the entries for a day key in insertion order. The returned
// slice is a copy.
func (ix *Index) For(dateKey string) []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	entries := ix.byDay[dateKey]
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Has reports whether at least one entry exists for the day key.
func (ix *Index) Has(dateKey string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byDay[dateKey]) > 0
}

// Validate checks an entry before it is indexed.
func (e Entry) Validate() error {
	switch e.Status {
	case StatusScheduled, StatusInProgress, StatusCompleted:
	default:
		return fmt.Errorf("schedule: invalid status %q", e.Status)
	}
	if _, err := time.Parse("15:04", e.Time); err != nil {
		return fmt.Errorf("schedule: invalid time %q", e.Time)
	}
	return nil
}
