package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // For pprof profiling
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"simple_cross/internal/event"
	"simple_cross/internal/infra/feed"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the sequencer against the websocket command feed until interrupted",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	b, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer b.Close()
	cfg := b.Config

	// Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics & pprof server (localhost by default)
	reg := prometheus.NewRegistry()
	reg.MustRegister(b.Metrics, collectors.NewGoCollector())
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: cfg.Metrics.Addr, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Metrics server started", slog.String("addr", cfg.Metrics.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", slog.Any("error", err))
		}
	}()

	event.Warmup(cfg.Engine.InboxSize)

	// Start Sequencer in its own goroutine (The Hotpath Loop)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Sequencer.Run(ctx)
	}()

	if cfg.Feed.WSURL != "" {
		worker := feed.NewWSWorker(cfg.Feed.WSURL, b.Sequencer.Inbox(), b.Metrics, b.Logger)
		if err := worker.Connect(ctx); err != nil {
			return err
		}
		defer worker.Disconnect()
	} else {
		slog.Warn("No feed.ws_url configured; serving metrics only")
	}

	slog.InfoContext(ctx, "SimpleCross operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()
	<-done

	slog.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
