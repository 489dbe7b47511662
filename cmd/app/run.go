package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file|-]",
	Short: "process a command file (or stdin) and print results to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	path := b.Config.Input.Path
	if len(args) == 1 {
		path = args[0]
	}

	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return b.RunBatch(ctx, in, os.Stdout)
}
