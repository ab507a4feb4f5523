package store

import "strings"

// KeyPrefix is the namespace of every key written by the store.
const KeyPrefix = "sporthive:results"

// Key identifies one published collection.
type Key struct {
	EventID string
	RaceID  string

	// Splits is set when the records include split times. Collections with
	// and without splits are stored separately.
	Splits bool
}

// String generates the Redis key.
// Format: sporthive:results:<event>:<race>[:splits]
//
// Example:
//
//	sporthive:results:6855879561074155264:480016:splits
func (k Key) String() string {
	parts := []string{KeyPrefix, k.EventID, k.RaceID}
	if k.Splits {
		parts = append(parts, "splits")
	}
	return strings.Join(parts, ":")
}
