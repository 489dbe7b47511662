package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func TestPebbleJournal(t *testing.T) {
	journalSuite(t, func(t *testing.T) Journal {
		j, err := NewPebbleJournal(filepath.Join(t.TempDir(), "pebble"))
		if err != nil {
			t.Fatalf("NewPebbleJournal failed: %v", err)
		}
		return j
	})
}

func TestPebbleJournal_Reopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pebble")
	ctx := context.Background()

	j, err := NewPebbleJournal(dir)
	if err != nil {
		t.Fatalf("NewPebbleJournal failed: %v", err)
	}
	if err := j.Append(ctx, Entry{Seq: 1, Command: "P"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	j.Close()

	j, err = NewPebbleJournal(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer j.Close()

	got, err := j.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(got) != 1 || got[0].Command != "P" {
		t.Errorf("entries after reopen = %+v", got)
	}
}

func TestJournalKeyOrder(t *testing.T) {
	// 256 must sort after 255 (big-endian, not decimal text)
	if bytes.Compare(journalKey(255), journalKey(256)) >= 0 {
		t.Error("journal keys not in sequence order")
	}
	if bytes.Compare(journalKey(^uint64(0)), journalUpper) >= 0 {
		t.Error("max key escapes the upper bound")
	}
}
