package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"simple_cross/internal/engine"
	"simple_cross/internal/infra"
	"simple_cross/internal/infra/feed"
	"simple_cross/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config    *infra.Config
	Logger    *slog.Logger
	Metrics   *infra.Metrics
	Journal   storage.Journal // nil when journaling is off
	Engine    *engine.Engine
	Sequencer *engine.Sequencer
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration and wires config, logger, journal, engine
// and sequencer. With required unset a missing config file falls back to
// the defaults.
func (b *Bootstrap) Initialize(configPath string, required bool) error {
	// 1. Load Config
	var (
		cfg *infra.Config
		err error
	)
	if required {
		cfg, err = infra.LoadConfig(configPath)
	} else {
		cfg, err = infra.LoadConfigOrDefault(configPath)
	}
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	b.Logger = infra.NewLogger(cfg)
	slog.SetDefault(b.Logger)
	b.Logger.Debug("Bootstrapping", slog.String("app", cfg.App.Name), slog.String("version", cfg.App.Version))

	// 3. Metrics
	b.Metrics = infra.NewMetrics()

	// 4. Journal
	journal, err := storage.Open(cfg.Journal.Driver, cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	b.Journal = journal
	if journal != nil {
		b.Logger.Info("Journal opened",
			slog.String("driver", cfg.Journal.Driver),
			slog.String("path", cfg.Journal.Path))
	}

	// 5. Engine & Sequencer
	printOrder, err := engine.ParsePrintOrder(cfg.Engine.PrintOrder)
	if err != nil {
		return err
	}
	b.Engine = engine.NewEngine(printOrder)
	b.Sequencer = engine.NewSequencer(cfg.Engine.InboxSize, b.Engine, b.Journal, b.Metrics)
	b.Sequencer.SetLogger(b.Logger)

	return nil
}

// RunBatch feeds every line of r through the sequencer and writes the
// result lines to w, one per line, in order.
func (b *Bootstrap) RunBatch(ctx context.Context, r io.Reader, w io.Writer) error {
	out := bufio.NewWriter(w)

	var writeErr error
	err := feed.ReadLines(ctx, r, func(line string) {
		for _, result := range b.Sequencer.Action(line) {
			if writeErr == nil {
				_, writeErr = fmt.Fprintln(out, result)
			}
		}
	})
	if ferr := out.Flush(); writeErr == nil {
		writeErr = ferr
	}

	b.Logger.Info("Batch finished",
		slog.Uint64("commands", b.Sequencer.Processed()),
		slog.Int("resting", b.Engine.Book().Len()))

	return errors.Join(err, writeErr)
}

// Close releases the journal.
func (b *Bootstrap) Close() error {
	if b.Journal == nil {
		return nil
	}
	return b.Journal.Close()
}
