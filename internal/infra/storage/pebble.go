package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"simple_cross/internal/domain"
)

var (
	journalPrefix = []byte("j:")
	journalUpper  = []byte("j;") // first key past the prefix
)

func journalKey(seq uint64) []byte {
	key := make([]byte, len(journalPrefix)+8)
	copy(key, journalPrefix)
	binary.BigEndian.PutUint64(key[len(journalPrefix):], seq)
	return key
}

// PebbleJournal stores entries in a Pebble LSM under big-endian sequence keys,
// so key order is sequence order.
type PebbleJournal struct {
	mu     sync.Mutex
	db     *pebble.DB
	closed bool
}

// NewPebbleJournal opens the Pebble database directory at path.
func NewPebbleJournal(path string) (*PebbleJournal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble db at %s: %w", path, err)
	}
	return &PebbleJournal{db: db}, nil
}

// Append writes e with a synced write.
func (j *PebbleJournal) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return domain.ErrJournalClosed
	}
	if err := j.db.Set(journalKey(e.Seq), data, pebble.Sync); err != nil {
		return &domain.StorageError{Op: "pebble append", Err: err}
	}
	return nil
}

// Entries scans the journal prefix in key order.
func (j *PebbleJournal) Entries(ctx context.Context) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, domain.ErrJournalClosed
	}

	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: journalPrefix,
		UpperBound: journalUpper,
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "pebble read", Err: err}
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry %x: %w", iter.Key(), err)
		}
		entries = append(entries, e)
	}
	if err := iter.Error(); err != nil {
		return nil, &domain.StorageError{Op: "pebble read", Err: err}
	}
	return entries, nil
}

// Close closes the database. Calling it twice is safe.
func (j *PebbleJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
