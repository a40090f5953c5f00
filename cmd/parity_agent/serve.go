package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jonathan/parity-check/internal/serve"
	"github.com/spf13/cobra"
)

var (
	serveDir  string
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local site build",
	Long:  `Start a static file server for a site build directory. Pretty URLs resolve to index.html or .html files.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Site build directory (required)")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind")
	serveCmd.Flags().IntVar(&servePort, "port", 4321, "Port to listen on")

	if err := serveCmd.MarkFlagRequired("dir"); err != nil {
		panic(fmt.Sprintf("failed to mark dir flag as required: %v", err))
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := serve.New(serve.Config{
		Dir:     serveDir,
		Addr:    net.JoinHostPort(serveHost, strconv.Itoa(servePort)),
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	baseURL, err := srv.Listen()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Serving %s at %s\n", serveDir, baseURL)

	<-ctx.Done()
	_, _ = fmt.Fprintln(os.Stdout, "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
