package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"simple_cross/internal/book"
	"simple_cross/internal/domain"
	"simple_cross/internal/event"
	"simple_cross/internal/infra"
	"simple_cross/internal/infra/storage"
	"simple_cross/internal/protocol"
)

// DefaultDumpFile receives the book state when the sequencer halts.
const DefaultDumpFile = "panic_dump.json"

// Sequencer is the single-threaded command processor.
// Every source funnels through it, so the engine never sees two commands at once.
type Sequencer struct {
	inbox   chan *event.CommandEvent
	engine  *Engine
	nextSeq uint64

	journal storage.Journal // optional
	metrics *infra.Metrics  // optional
	logger  *slog.Logger

	dumpFile string

	mu sync.RWMutex // guards engine state against external reads
}

// NewSequencer creates a new sequencer instance. journal and metrics may be nil.
func NewSequencer(inboxSize int, eng *Engine, journal storage.Journal, metrics *infra.Metrics) *Sequencer {
	return &Sequencer{
		inbox:    make(chan *event.CommandEvent, inboxSize),
		engine:   eng,
		nextSeq:  1,
		journal:  journal,
		metrics:  metrics,
		logger:   slog.Default(),
		dumpFile: DefaultDumpFile,
	}
}

// SetLogger replaces the default logger.
func (s *Sequencer) SetLogger(l *slog.Logger) {
	s.logger = l
}

// SetDumpFile changes where DumpState writes on a halt.
func (s *Sequencer) SetDumpFile(path string) {
	s.dumpFile = path
}

// Inbox returns the command channel. Feeds send pooled events here.
func (s *Sequencer) Inbox() chan<- *event.CommandEvent {
	return s.inbox
}

// Run drains the inbox until ctx is done. This MUST be run in a single goroutine.
// A broken book invariant halts the process after the state is dumped.
func (s *Sequencer) Run(ctx context.Context) {
	s.logger.Info("Sequencer started")
	defer s.haltOnPanic()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sequencer stopping...")
			return
		case ev := <-s.inbox:
			s.handle(ev)
		}
	}
}

func (s *Sequencer) handle(ev *event.CommandEvent) {
	out := s.process(ev.Line, ev.Source)
	if ev.Reply != nil {
		ev.Reply(out)
	}
	event.ReleaseCommandEvent(ev)
}

// Action processes one command line synchronously and returns its result lines.
// It must not be called while Run is active.
func (s *Sequencer) Action(line string) []string {
	defer s.haltOnPanic()
	return s.process(line, "direct")
}

// haltOnPanic dumps the book and re-panics. It must be deferred directly.
func (s *Sequencer) haltOnPanic() {
	if r := recover(); r != nil {
		s.logger.Error("CRITICAL_PANIC_DETECTED", slog.Any("panic", r))
		s.DumpState(s.dumpFile)
		panic(fmt.Sprintf("HALTED: %v", r))
	}
}

func (s *Sequencer) process(line, source string) []string {
	start := time.Now()

	var effects []domain.Effect
	cmd, err := protocol.Parse(line)

	s.mu.Lock()
	if err != nil {
		effects = []domain.Effect{ErrorEffect(err)}
	} else {
		effects = s.engine.Apply(cmd)
	}
	seq := s.nextSeq
	s.nextSeq++
	resting := s.engine.Book().Len()
	s.mu.Unlock()

	out := protocol.FormatAll(effects)

	if len(effects) == 1 && effects[0].Kind == domain.EffectError {
		s.logger.Warn("command rejected",
			slog.Uint64("seq", seq),
			slog.String("source", source),
			slog.String("command", line),
			slog.String("result", out[0]))
	} else {
		s.logger.Debug("command processed",
			slog.Uint64("seq", seq),
			slog.String("source", source),
			slog.Int("effects", len(effects)))
	}

	if s.journal != nil {
		entry := storage.Entry{Seq: seq, Command: line, Results: out, At: start}
		if err := s.journal.Append(context.Background(), entry); err != nil {
			// the book already moved; an audit gap is logged, not fatal
			s.logger.Error("journal append failed",
				slog.Uint64("seq", seq),
				slog.Bool("retriable", domain.IsRetriable(err)),
				slog.Any("error", err))
			if s.metrics != nil {
				s.metrics.RecordJournalError()
			}
		}
	}

	if s.metrics != nil {
		s.metrics.RecordCommand(time.Since(start).Nanoseconds(), effects)
		s.metrics.SetRestingOrders(resting)
	}
	return out
}

// Processed returns how many commands have been sequenced.
func (s *Sequencer) Processed() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextSeq - 1
}

// Snapshot returns a copy of the book (external read).
func (s *Sequencer) Snapshot() map[string]book.PairSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Book().Snapshot()
}

// DumpState writes the entire internal state to a file (for post-mortem).
// It reads the book without the lock: it runs on the halting goroutine.
func (s *Sequencer) DumpState(filename string) {
	s.logger.Info("Dumping internal state...", slog.String("file", filename))

	data := struct {
		NextSeq uint64                       `json:"next_seq"`
		Book    map[string]book.PairSnapshot `json:"book"`
	}{
		NextSeq: s.nextSeq,
		Book:    s.engine.Book().Snapshot(),
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal state", slog.Any("error", err))
		return
	}

	if err := os.WriteFile(filename, b, 0644); err != nil {
		s.logger.Error("Failed to write state dump", slog.Any("error", err))
	}
}
