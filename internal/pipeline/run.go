// Package pipeline runs a parity check end to end: capture the reference and
// candidate pages, diff the snapshots and report the result.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/parity-check/internal/capture"
	"github.com/jonathan/parity-check/internal/compare"
	"github.com/jonathan/parity-check/internal/history"
	"github.com/jonathan/parity-check/internal/observability"
	"github.com/jonathan/parity-check/internal/report"
	"github.com/jonathan/parity-check/internal/serve"
	"github.com/jonathan/parity-check/internal/snapshot"
	"github.com/jonathan/parity-check/internal/types"
)

// Snapshot roles
const (
	RoleReference = "reference"
	RoleCandidate = "candidate"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Suite        *types.Suite
	ReferenceURL string
	// CandidateURL is an absolute URL, or a path resolved against the
	// served build when ServeDir is set.
	CandidateURL string
	ServeDir     string
	Capturer     capture.Capturer
	RunID        uuid.UUID
	Format       string
	OutputDir    string
	History      *history.Store
	Sequential   bool
	Verbose      bool
	// Out receives the report only.
	Out          io.Writer
	// Log receives verbose summaries. Defaults to stderr.
	Log          io.Writer
	OnProgress   ProgressCallback
}

// Result is the outcome of a pipeline run.
type Result struct {
	RunID        uuid.UUID
	CandidateURL string
	Reference    *types.Snapshot
	Candidate    *types.Snapshot
	Comparison   *types.Comparison
	ReportPath   string
	Passed       bool
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID uuid.UUID, step, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, RunID: runID.String()})
	}
}

func (o *RunOptions) validate() error {
	if o.Suite == nil {
		return fmt.Errorf("suite is required")
	}
	if o.Capturer == nil {
		return fmt.Errorf("capturer is required")
	}
	if o.ReferenceURL == "" {
		return fmt.Errorf("reference URL is required")
	}
	if o.CandidateURL == "" && o.ServeDir == "" {
		return fmt.Errorf("candidate URL or serve directory is required")
	}
	return nil
}

// Run captures both sides, compares them and writes the report. A capture
// failure aborts the run with an error; mismatches do not, they are returned
// in the Result with Passed set to false.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}

	runID := opts.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	startedAt := time.Now().UTC()
	printer := observability.NewPrinter(opts.Log)

	if opts.Verbose {
		printer.PrintSuite(opts.Suite)
	}

	candidateURL := opts.CandidateURL
	if opts.ServeDir != "" {
		serveCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()

		_, base, err := serve.Start(serveCtx, serve.Config{Dir: opts.ServeDir, Verbose: opts.Verbose})
		if err != nil {
			return nil, fmt.Errorf("failed to serve %s: %w", opts.ServeDir, err)
		}
		candidateURL, err = ResolveCandidateURL(base, opts.CandidateURL)
		if err != nil {
			return nil, err
		}
		emitProgress(&opts, runID, "serve", fmt.Sprintf("serving %s at %s", opts.ServeDir, base))
	}

	// Step 1: capture reference and candidate
	emitProgress(&opts, runID, "capture", fmt.Sprintf("capturing %s and %s", opts.ReferenceURL, candidateURL))
	reference, candidate, err := captureBoth(ctx, &opts, opts.ReferenceURL, candidateURL)
	if err != nil {
		return nil, err
	}
	reference.RunID = runID
	candidate.RunID = runID
	if opts.Verbose {
		printer.PrintSnapshot(RoleReference, reference)
		printer.PrintSnapshot(RoleCandidate, candidate)
	}

	// Step 2: compare
	comparison := compare.Compare(reference, candidate, opts.Suite)
	emitProgress(&opts, runID, "compare", report.Summary(comparison))
	if opts.Verbose {
		printer.PrintComparison(comparison)
	}

	result := &Result{
		RunID:        runID,
		CandidateURL: candidateURL,
		Reference:    reference,
		Candidate:    candidate,
		Comparison:   comparison,
		Passed:       comparison.Passed(),
	}

	// Step 3: report
	reporter, err := report.New(opts.Format)
	if err != nil {
		return nil, err
	}
	meta := report.Meta{
		Suite:        opts.Suite.Name,
		ReferenceURL: opts.ReferenceURL,
		CandidateURL: candidateURL,
		Engine:       opts.Capturer.Engine(),
	}
	if err := reporter.Write(opts.Out, comparison, meta); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if opts.OutputDir != "" {
		reportPath, err := writeArtifacts(opts.OutputDir, reporter, result, meta)
		if err != nil {
			return nil, err
		}
		result.ReportPath = reportPath
		emitProgress(&opts, runID, "write", fmt.Sprintf("artifacts written to %s", opts.OutputDir))
	}

	if opts.History != nil {
		run := history.Run{
			ID:           runID,
			Suite:        opts.Suite.Name,
			ReferenceURL: opts.ReferenceURL,
			CandidateURL: candidateURL,
			Engine:       opts.Capturer.Engine(),
			Compared:     len(comparison.Compared),
			Mismatches:   len(comparison.Mismatches),
			Passed:       result.Passed,
			StartedAt:    startedAt,
			FinishedAt:   time.Now().UTC(),
		}
		if err := opts.History.Record(ctx, run); err != nil {
			log.Printf("Warning: failed to record run history: %v", err)
		}
	}

	return result, nil
}

// captureBoth captures reference and candidate, in parallel unless Sequential is set.
// Each capture owns its own browser.
func captureBoth(ctx context.Context, opts *RunOptions, referenceURL, candidateURL string) (*types.Snapshot, *types.Snapshot, error) {
	g, gCtx := errgroup.WithContext(ctx)
	if opts.Sequential {
		g.SetLimit(1)
	}

	var reference, candidate *types.Snapshot

	g.Go(func() error {
		snap, err := opts.Capturer.Capture(gCtx, referenceURL, opts.Suite)
		if err != nil {
			return fmt.Errorf("%s capture failed: %w", RoleReference, err)
		}
		reference = snap
		return nil
	})

	g.Go(func() error {
		snap, err := opts.Capturer.Capture(gCtx, candidateURL, opts.Suite)
		if err != nil {
			return fmt.Errorf("%s capture failed: %w", RoleCandidate, err)
		}
		candidate = snap
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return reference, candidate, nil
}

// writeArtifacts saves both snapshots and a copy of the report under dir and
// returns the report path.
func writeArtifacts(dir string, reporter report.Reporter, result *Result, meta report.Meta) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	if err := snapshot.Save(filepath.Join(dir, snapshot.FileName(RoleReference)), result.Reference); err != nil {
		return "", err
	}
	if err := snapshot.Save(filepath.Join(dir, snapshot.FileName(RoleCandidate)), result.Candidate); err != nil {
		return "", err
	}

	reportPath := filepath.Join(dir, report.FileName(reporter.Format()))
	f, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file %s: %w", reportPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := reporter.Write(f, result.Comparison, meta); err != nil {
		return "", fmt.Errorf("failed to write report file %s: %w", reportPath, err)
	}
	return reportPath, nil
}

// ResolveCandidateURL resolves candidate against the base URL of the served
// build. An empty candidate means the site root; an absolute URL is returned as is.
func ResolveCandidateURL(base, candidate string) (string, error) {
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %s: %w", base, err)
	}
	if candidate == "" {
		return baseURL.String(), nil
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("invalid candidate URL %s: %w", candidate, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	ref.Path = strings.TrimPrefix(ref.Path, "/")
	return baseURL.ResolveReference(ref).String(), nil
}
