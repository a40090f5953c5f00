// Package serve serves a built static site over loopback HTTP so it can be
// captured as the candidate side of a parity run.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// shutdownTimeout bounds graceful shutdown of the server.
const shutdownTimeout = 10 * time.Second

// Config holds static server configuration
type Config struct {
	// Dir is the site build output directory.
	Dir string
	// Addr is the listen address. ":0" or "127.0.0.1:0" picks a free port.
	Addr    string
	Verbose bool
}

// Server serves a static directory.
type Server struct {
	cfg        Config
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server for cfg.Dir. The directory must exist.
func New(cfg Config) (*Server, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat site directory %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("site path %s is not a directory", cfg.Dir)
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}

	s := &Server{cfg: cfg}
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Router returns the HTTP handler for the site.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.cfg.Verbose {
		r.Use(middleware.Logger)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/*", s.handleFile)
	r.Head("/*", s.handleFile)
	return r
}

// Listen binds the listener and starts serving in the background. It returns
// the base URL of the site, e.g. "http://127.0.0.1:54321".
func (s *Server) Listen() (string, error) {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Static server error: %v", err)
		}
	}()

	base := "http://" + ln.Addr().String()
	if s.cfg.Verbose {
		log.Printf("[SERVE] Serving %s at %s", s.cfg.Dir, base)
	}
	return base, nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Start listens and shuts the server down when ctx is cancelled.
func Start(ctx context.Context, cfg Config) (*Server, string, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, "", err
	}
	base, err := s.Listen()
	if err != nil {
		return nil, "", err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	return s, base, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleFile serves files with pretty URLs: /about resolves to /about/index.html
// or /about.html.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	filePath, ok := s.resolve(r.URL.Path)
	if !ok {
		if page, err := os.ReadFile(filepath.Join(s.cfg.Dir, "404.html")); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(page)
			return
		}
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filePath)
}

// resolve maps a URL path onto a file under the site directory.
func (s *Server) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	rel := filepath.FromSlash(strings.TrimPrefix(clean, "/"))

	candidates := []string{
		filepath.Join(s.cfg.Dir, rel),
		filepath.Join(s.cfg.Dir, rel, "index.html"),
	}
	if rel != "" && filepath.Ext(rel) == "" {
		candidates = append(candidates, filepath.Join(s.cfg.Dir, rel+".html"))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
