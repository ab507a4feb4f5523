package store

import (
	"time"

	"github.com/Sternrassler/sporthive-results/pkg/results"
)

// Entry is one published race collection.
type Entry struct {
	// Records in source order
	Records []results.AthleteRecord `json:"records"`

	EventID string `json:"event_id"`
	RaceID  string `json:"race_id"`
	Splits  bool   `json:"splits"`

	// CollectedAt is when the collection finished
	CollectedAt time.Time `json:"collected_at"`

	// Expires is when the entry stops being served
	Expires time.Time `json:"expires"`
}

// NewEntry creates an entry for key collected now and valid for ttl.
func NewEntry(key Key, records []results.AthleteRecord, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Records:     records,
		EventID:     key.EventID,
		RaceID:      key.RaceID,
		Splits:      key.Splits,
		CollectedAt: now,
		Expires:     now.Add(ttl),
	}
}

// Key returns the key the entry belongs to.
func (e *Entry) Key() Key {
	return Key{EventID: e.EventID, RaceID: e.RaceID, Splits: e.Splits}
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
