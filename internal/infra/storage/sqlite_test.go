package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"simple_cross/internal/domain"
)

// journalSuite runs the same checks against every driver.
func journalSuite(t *testing.T, open func(t *testing.T) Journal) {
	ctx := context.Background()

	t.Run("append and read in order", func(t *testing.T) {
		j := open(t)
		defer j.Close()

		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		in := []Entry{
			{Seq: 2, Command: "O 10002 IBM S 5 100.00000", Results: []string{"F 10002 IBM 5 100.00000", "F 10001 IBM 5 100.00000"}, At: at},
			{Seq: 1, Command: "O 10001 IBM B 10 100.00000", At: at},
			{Seq: 3, Command: "X 9", Results: []string{"E 9 Order id not found"}, At: at},
		}
		for _, e := range in {
			if err := j.Append(ctx, e); err != nil {
				t.Fatalf("Append(%d) failed: %v", e.Seq, err)
			}
		}

		got, err := j.Entries(ctx)
		if err != nil {
			t.Fatalf("Entries failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		for i, e := range got {
			if e.Seq != uint64(i+1) {
				t.Errorf("entry %d has seq %d", i, e.Seq)
			}
		}
		if len(got[0].Results) != 0 {
			t.Errorf("seq 1 results = %q, want none", got[0].Results)
		}
		if len(got[1].Results) != 2 || got[1].Results[1] != "F 10001 IBM 5 100.00000" {
			t.Errorf("seq 2 results = %q", got[1].Results)
		}
		if !got[2].At.Equal(at) {
			t.Errorf("At = %v, want %v", got[2].At, at)
		}
	})

	t.Run("closed journal", func(t *testing.T) {
		j := open(t)
		if err := j.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := j.Close(); err != nil {
			t.Errorf("second Close failed: %v", err)
		}
		if err := j.Append(ctx, Entry{Seq: 1}); !errors.Is(err, domain.ErrJournalClosed) {
			t.Errorf("Append after close = %v", err)
		}
		if _, err := j.Entries(ctx); !errors.Is(err, domain.ErrJournalClosed) {
			t.Errorf("Entries after close = %v", err)
		}
	})
}

func TestSQLiteJournal(t *testing.T) {
	journalSuite(t, func(t *testing.T) Journal {
		j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "data", "journal.db"))
		if err != nil {
			t.Fatalf("NewSQLiteJournal failed: %v", err)
		}
		return j
	})
}

func TestSQLiteJournal_DuplicateSeq(t *testing.T) {
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteJournal failed: %v", err)
	}
	defer j.Close()

	ctx := context.Background()
	if err := j.Append(ctx, Entry{Seq: 1, Command: "P"}); err != nil {
		t.Fatalf("first Append failed: %v", err)
	}
	err = j.Append(ctx, Entry{Seq: 1, Command: "P"})
	if err == nil {
		t.Fatal("duplicate seq accepted")
	}
	if !domain.IsRetriable(err) {
		t.Errorf("storage error should be retriable: %v", err)
	}
}

func TestOpen(t *testing.T) {
	j, err := Open(DriverNone, "")
	if err != nil || j != nil {
		t.Errorf("Open(none) = %v, %v", j, err)
	}

	if _, err := Open("mysql", "x"); err == nil {
		t.Error("unknown driver accepted")
	}

	j, err = Open(DriverSQLite, filepath.Join(t.TempDir(), "j.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	if _, ok := j.(*SQLiteJournal); !ok {
		t.Errorf("Open(sqlite) returned %T", j)
	}
	j.Close()
}
