package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"simple_cross/internal/domain"
)

// journalRecord is the gorm model behind SQLiteJournal.
type journalRecord struct {
	Seq       uint64 `gorm:"primaryKey;autoIncrement:false"`
	Command   string `gorm:"not null"`
	Results   string // newline separated result lines
	CreatedAt time.Time
}

func (journalRecord) TableName() string { return "journal" }

// SQLiteJournal stores entries in a SQLite file (pure Go driver).
type SQLiteJournal struct {
	mu     sync.Mutex
	db     *gorm.DB
	closed bool
}

// NewSQLiteJournal opens or creates the database at path.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&journalRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Append inserts e. A duplicate sequence is an error.
func (j *SQLiteJournal) Append(ctx context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return domain.ErrJournalClosed
	}

	rec := journalRecord{
		Seq:       e.Seq,
		Command:   e.Command,
		Results:   strings.Join(e.Results, "\n"),
		CreatedAt: e.At,
	}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return &domain.StorageError{Op: "sqlite append", Err: err}
	}
	return nil
}

// Entries returns every entry ordered by sequence.
func (j *SQLiteJournal) Entries(ctx context.Context) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, domain.ErrJournalClosed
	}

	var recs []journalRecord
	if err := j.db.WithContext(ctx).Order("seq asc").Find(&recs).Error; err != nil {
		return nil, &domain.StorageError{Op: "sqlite read", Err: err}
	}

	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		var results []string
		if r.Results != "" {
			results = strings.Split(r.Results, "\n")
		}
		entries = append(entries, Entry{Seq: r.Seq, Command: r.Command, Results: results, At: r.CreatedAt})
	}
	return entries, nil
}

// Close releases the underlying connection. Calling it twice is safe.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true

	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
