package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/parity-check/internal/capture"
	"github.com/jonathan/parity-check/internal/config"
	"github.com/jonathan/parity-check/internal/report"
	"github.com/spf13/cobra"
)

// defaultConfig holds the values used when neither flags, config file nor environment set them.
var defaultConfig = config.Config{
	Engine:         capture.EngineChromedp,
	Format:         report.FormatText,
	TimeoutSeconds: int(capture.DefaultTimeout / time.Second),
	SettleMillis:   int(capture.DefaultSettle / time.Millisecond),
}

// captureFlags are shared by the commands that drive a browser.
type captureFlags struct {
	engine     string
	chromePath string
	remoteURL  string
	timeout    int
	settle     int
}

func (f *captureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.engine, "engine", "e", "", fmt.Sprintf("Capture engine: %v (default %s)", capture.Engines(), capture.EngineChromedp))
	cmd.Flags().StringVar(&f.chromePath, "chrome-path", "", "Chrome/Chromium binary (defaults to PARITY_CHROME_PATH or auto-detect)")
	cmd.Flags().StringVar(&f.remoteURL, "remote-url", "", "DevTools URL of a running browser to attach to (rod engine; defaults to PARITY_REMOTE_URL)")
	cmd.Flags().IntVar(&f.timeout, "timeout", 0, "Navigation timeout in seconds (default 30)")
	cmd.Flags().IntVar(&f.settle, "settle", 0, "Extra wait after load in milliseconds (default 500)")
}

// apply copies explicitly set flags onto cfg.
func (f *captureFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("engine") {
		cfg.Engine = f.engine
	}
	if cmd.Flags().Changed("chrome-path") {
		cfg.ChromePath = f.chromePath
	}
	if cmd.Flags().Changed("remote-url") {
		cfg.RemoteURL = f.remoteURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = f.timeout
	}
	if cmd.Flags().Changed("settle") {
		cfg.SettleMillis = f.settle
	}
}

// loadConfig reads the --config file when given. Flags are applied by the
// caller, then finishConfig fills the rest.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath == "" {
		return cfg, nil
	}

	loadedCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Loaded config from: %s\n", configPath)
	}
	return *loadedCfg, nil
}

// finishConfig applies environment variables and defaults, then validates.
func finishConfig(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	cfg.ApplyEnv(os.LookupEnv)
	cfg = cfg.MergeWithDefaults(defaultConfig)
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// captureOptions converts config values into capturer options.
func captureOptions(cfg config.Config) capture.Options {
	return capture.Options{
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		Settle:    time.Duration(cfg.SettleMillis) * time.Millisecond,
		ExecPath:  cfg.ChromePath,
		RemoteURL: cfg.RemoteURL,
		Verbose:   cfg.Verbose,
	}
}
