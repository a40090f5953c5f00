// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jonathan/parity-check/internal/capture"
	"github.com/jonathan/parity-check/internal/report"
)

// Environment variables consulted for values missing from the config file.
const (
	EnvReferenceURL = "PARITY_REFERENCE_URL"
	EnvCandidateURL = "PARITY_CANDIDATE_URL"
	EnvEngine       = "PARITY_ENGINE"
	EnvHistoryDB    = "PARITY_HISTORY_DB"
	EnvChromePath   = "PARITY_CHROME_PATH"
	EnvRemoteURL    = "PARITY_REMOTE_URL"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Suite        string `json:"suite,omitempty"`         // Path to suite file (YAML or JSON)
	ReferenceURL string `json:"reference_url,omitempty"` // Reference site URL
	CandidateURL string `json:"candidate_url,omitempty"` // Candidate URL, or a path when serve_dir is set
	ServeDir     string `json:"serve_dir,omitempty"`     // Local build directory to serve as the candidate

	// Capture
	Engine         string `json:"engine,omitempty"`          // chromedp, rod or static
	ChromePath     string `json:"chrome_path,omitempty"`     // Chrome/Chromium binary override
	RemoteURL      string `json:"remote_url,omitempty"`      // DevTools URL of a running browser (rod only)
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Navigation timeout
	SettleMillis   int    `json:"settle_ms,omitempty"`       // Extra wait after load
	Sequential     bool   `json:"sequential,omitempty"`      // Capture reference then candidate instead of in parallel

	// Output
	Format    string `json:"format,omitempty"`     // text, json or junit
	OutputDir string `json:"output_dir,omitempty"` // Directory for snapshots and report files
	HistoryDB string `json:"history_db,omitempty"` // SQLite file recording runs
	Verbose   bool   `json:"verbose,omitempty"`    // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Engine != "" && !slices.Contains(capture.Engines(), c.Engine) {
		return fmt.Errorf("config error: 'engine' must be one of %v", capture.Engines())
	}
	if c.Format != "" && !slices.Contains(report.Formats(), c.Format) {
		return fmt.Errorf("config error: 'format' must be one of %v", report.Formats())
	}

	if c.RemoteURL != "" && c.Engine != capture.EngineRod {
		return fmt.Errorf("config error: 'remote_url' requires engine %q", capture.EngineRod)
	}

	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.SettleMillis < 0 {
		return fmt.Errorf("config error: 'settle_ms' must be non-negative")
	}

	if c.Suite != "" {
		if _, err := os.Stat(c.Suite); os.IsNotExist(err) {
			return fmt.Errorf("config error: suite file not found: %s", c.Suite)
		}
	}

	if c.ServeDir != "" {
		info, err := os.Stat(c.ServeDir)
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: serve directory not found: %s", c.ServeDir)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("config error: serve_dir is not a directory: %s", c.ServeDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Suite == "" {
		result.Suite = defaults.Suite
	}
	if result.ReferenceURL == "" {
		result.ReferenceURL = defaults.ReferenceURL
	}
	if result.CandidateURL == "" {
		result.CandidateURL = defaults.CandidateURL
	}
	if result.ServeDir == "" {
		result.ServeDir = defaults.ServeDir
	}
	if result.Engine == "" {
		result.Engine = defaults.Engine
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.RemoteURL == "" {
		result.RemoteURL = defaults.RemoteURL
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.HistoryDB == "" {
		result.HistoryDB = defaults.HistoryDB
	}

	// Int fields: use default if zero
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.SettleMillis == 0 {
		result.SettleMillis = defaults.SettleMillis
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills empty fields from environment variables using lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	fill := func(field *string, key string) {
		if *field != "" {
			return
		}
		if v, ok := lookup(key); ok {
			*field = v
		}
	}

	fill(&c.ReferenceURL, EnvReferenceURL)
	fill(&c.CandidateURL, EnvCandidateURL)
	fill(&c.Engine, EnvEngine)
	fill(&c.HistoryDB, EnvHistoryDB)
	fill(&c.ChromePath, EnvChromePath)
	fill(&c.RemoteURL, EnvRemoteURL)
}
