package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "print the command journal",
	Args:  cobra.NoArgs,
	RunE:  printJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
}

func printJournal(cmd *cobra.Command, _ []string) error {
	b, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.Journal == nil {
		return errors.New("journal.driver is none; nothing to print")
	}

	entries, err := b.Journal.Entries(cmd.Context())
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for _, e := range entries {
		fmt.Fprintf(out, "%d\t%s\t%s\n", e.Seq, e.At.Format("2006-01-02T15:04:05.000Z07:00"), e.Command)
		for _, r := range e.Results {
			fmt.Fprintf(out, "\t\t%s\n", r)
		}
	}
	return nil
}
