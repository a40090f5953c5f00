package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/parity-check/internal/capture"
	"github.com/jonathan/parity-check/internal/history"
	"github.com/jonathan/parity-check/internal/pipeline"
	"github.com/jonathan/parity-check/internal/suite"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Capture reference and candidate, compare and report",
	Long: `Runs the full parity check: capture the reference site and the candidate (a URL or a locally served build),
diff the two snapshots and print the report. Exits 1 when any mismatch is found.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runParityCmd,
}

var (
	runSuite        string
	runReferenceURL string
	runCandidateURL string
	runServeDir     string
	runFormat       string
	runOutputDir    string
	runHistoryDB    string
	runSequential   bool
	runCapture      captureFlags
)

func init() {
	runCommand.Flags().StringVarP(&runSuite, "suite", "s", "", "Path to suite file (YAML or JSON)")
	runCommand.Flags().StringVarP(&runReferenceURL, "reference-url", "r", "", "Reference site URL (defaults to PARITY_REFERENCE_URL)")
	runCommand.Flags().StringVarP(&runCandidateURL, "candidate-url", "c", "", "Candidate URL, or a path on the served build when --serve-dir is set")
	runCommand.Flags().StringVar(&runServeDir, "serve-dir", "", "Serve this build directory on loopback and capture it as the candidate")
	runCommand.Flags().StringVarP(&runFormat, "format", "f", "", "Report format: text, json or junit (default text)")
	runCommand.Flags().StringVarP(&runOutputDir, "out", "o", "", "Directory to write snapshots and the report to")
	runCommand.Flags().StringVar(&runHistoryDB, "history", "", "SQLite file to record the run in (defaults to PARITY_HISTORY_DB)")
	runCommand.Flags().BoolVar(&runSequential, "sequential", false, "Capture reference then candidate instead of in parallel")
	runCapture.register(runCommand)

	rootCmd.AddCommand(runCommand)
}

func runParityCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("suite") {
		cfg.Suite = runSuite
	}
	if cmd.Flags().Changed("reference-url") {
		cfg.ReferenceURL = runReferenceURL
	}
	if cmd.Flags().Changed("candidate-url") {
		cfg.CandidateURL = runCandidateURL
	}
	if cmd.Flags().Changed("serve-dir") {
		cfg.ServeDir = runServeDir
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = runFormat
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("history") {
		cfg.HistoryDB = runHistoryDB
	}
	if cmd.Flags().Changed("sequential") {
		cfg.Sequential = runSequential
	}
	runCapture.apply(cmd, &cfg)

	// Step 3: Apply environment and defaults
	cfg, err = finishConfig(cmd, cfg)
	if err != nil {
		return err
	}

	// Step 4: Validate required fields
	if cfg.Suite == "" {
		return fmt.Errorf("suite is required: set --suite or 'suite' in config")
	}
	if cfg.ReferenceURL == "" {
		return fmt.Errorf("reference URL is required: set --reference-url, 'reference_url' in config or PARITY_REFERENCE_URL")
	}
	if cfg.CandidateURL == "" && cfg.ServeDir == "" {
		return fmt.Errorf("candidate is required: set --candidate-url or --serve-dir")
	}

	s, err := suite.Load(cfg.Suite)
	if err != nil {
		return err
	}

	capturer, err := capture.New(cfg.Engine, captureOptions(cfg))
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.HistoryDB != "" {
		store, err = history.Open(ctx, cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		Suite:        s,
		ReferenceURL: cfg.ReferenceURL,
		CandidateURL: cfg.CandidateURL,
		ServeDir:     cfg.ServeDir,
		Capturer:     capturer,
		Format:       cfg.Format,
		OutputDir:    cfg.OutputDir,
		History:      store,
		Sequential:   cfg.Sequential,
		Verbose:      cfg.Verbose,
		Out:          os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("parity run failed: %w", err)
	}

	if result.ReportPath != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Report: %s\n", result.ReportPath)
	}
	if !result.Passed {
		return errParityFailed
	}
	return nil
}
