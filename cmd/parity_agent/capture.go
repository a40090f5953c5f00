package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/parity-check/internal/capture"
	"github.com/jonathan/parity-check/internal/snapshot"
	"github.com/jonathan/parity-check/internal/suite"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a snapshot of one page",
	Long:  "Renders a page, records presence, text and computed-style values for every suite target and writes the snapshot as JSON.",
	RunE:  runCaptureCmd,
}

var (
	captureURL         string
	captureSuite       string
	captureOut         string
	captureEngineFlags captureFlags
)

func init() {
	captureCmd.Flags().StringVarP(&captureURL, "url", "u", "", "Page URL (required)")
	captureCmd.Flags().StringVarP(&captureSuite, "suite", "s", "", "Path to suite file (required)")
	captureCmd.Flags().StringVarP(&captureOut, "out", "o", "", "Output snapshot file (default stdout)")
	captureEngineFlags.register(captureCmd)

	if err := captureCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}
	if err := captureCmd.MarkFlagRequired("suite"); err != nil {
		panic(fmt.Sprintf("failed to mark suite flag as required: %v", err))
	}

	rootCmd.AddCommand(captureCmd)
}

func runCaptureCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	captureEngineFlags.apply(cmd, &cfg)
	cfg, err = finishConfig(cmd, cfg)
	if err != nil {
		return err
	}

	s, err := suite.Load(captureSuite)
	if err != nil {
		return err
	}

	capturer, err := capture.New(cfg.Engine, captureOptions(cfg))
	if err != nil {
		return err
	}

	snap, err := capturer.Capture(context.Background(), captureURL, s)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	if captureOut == "" {
		data, err := snapshot.Marshal(snap)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := snapshot.Save(captureOut, snap); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Captured %d/%d targets from %s\n", snap.FoundCount(), len(s.Targets), captureURL)
	_, _ = fmt.Fprintf(os.Stdout, "Snapshot: %s\n", captureOut)
	return nil
}
