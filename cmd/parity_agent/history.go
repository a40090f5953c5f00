package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonathan/parity-check/internal/config"
	"github.com/jonathan/parity-check/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded parity runs",
	Long:  `Lists runs recorded by 'run --history', newest first.`,
	RunE:  runHistoryCmd,
}

var (
	historyDB    string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "", "SQLite history file (defaults to PARITY_HISTORY_DB)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistoryCmd(_ *cobra.Command, _ []string) error {
	path := historyDB
	if path == "" {
		path = os.Getenv(config.EnvHistoryDB)
	}
	if path == "" {
		return fmt.Errorf("history database is required: set --db or %s", config.EnvHistoryDB)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("history database not found: %s", path)
	}

	ctx := context.Background()
	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	printHistory(os.Stdout, runs)
	return nil
}

// printHistory renders runs as a table.
func printHistory(w io.Writer, runs []history.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Started", "Suite", "Engine", "Candidate", "Compared", "Mismatches", "Verdict", "Duration"})
	for _, run := range runs {
		verdict := "PASS"
		if !run.Passed {
			verdict = "FAIL"
		}
		t.AppendRow(table.Row{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Suite,
			run.Engine,
			run.CandidateURL,
			run.Compared,
			run.Mismatches,
			verdict,
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	t.Render()
}
