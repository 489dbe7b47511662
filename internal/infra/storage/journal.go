// Package storage keeps a write-only audit journal of processed commands.
// The journal is never replayed into the engine.
package storage

import (
	"context"
	"fmt"
	"time"
)

// Entry is one processed command and the result lines it produced.
type Entry struct {
	Seq     uint64    `json:"seq"`
	Command string    `json:"command"`
	Results []string  `json:"results"`
	At      time.Time `json:"at"`
}

// Journal appends entries in sequence order.
type Journal interface {
	Append(ctx context.Context, e Entry) error
	Entries(ctx context.Context) ([]Entry, error)
	Close() error
}

const (
	DriverNone   = "none"
	DriverSQLite = "sqlite"
	DriverPebble = "pebble"
)

// Open opens the journal for driver at path.
// Driver "none" (or empty) returns a nil Journal and no error.
func Open(driver, path string) (Journal, error) {
	switch driver {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		return NewSQLiteJournal(path)
	case DriverPebble:
		return NewPebbleJournal(path)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", driver)
	}
}
