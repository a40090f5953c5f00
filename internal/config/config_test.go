package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"reference_url": "https://example.com",
		"serve_dir": "dist",
		"engine": "rod",
		"timeout_seconds": 45,
		"format": "junit",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com", cfg.ReferenceURL)
	assert.Equal(t, "dist", cfg.ServeDir)
	assert.Equal(t, "rod", cfg.Engine)
	assert.Equal(t, 45, cfg.TimeoutSeconds)
	assert.Equal(t, "junit", cfg.Format)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	suitePath := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(suitePath, []byte("targets: []"), 0644))
	filePath := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "valid", cfg: Config{Suite: suitePath, ServeDir: dir, Engine: "static", Format: "json"}},
		{name: "unknown engine", cfg: Config{Engine: "webkit"}, wantErr: "'engine' must be one of"},
		{name: "unknown format", cfg: Config{Format: "html"}, wantErr: "'format' must be one of"},
		{name: "negative timeout", cfg: Config{TimeoutSeconds: -1}, wantErr: "timeout_seconds"},
		{name: "negative settle", cfg: Config{SettleMillis: -5}, wantErr: "settle_ms"},
		{name: "missing suite", cfg: Config{Suite: filepath.Join(dir, "nope.yaml")}, wantErr: "suite file not found"},
		{name: "missing serve dir", cfg: Config{ServeDir: filepath.Join(dir, "dist")}, wantErr: "serve directory not found"},
		{name: "serve dir is file", cfg: Config{ServeDir: filePath}, wantErr: "not a directory"},
		{name: "remote url with rod", cfg: Config{Engine: "rod", RemoteURL: "ws://127.0.0.1:9222/devtools/browser/abc"}},
		{name: "remote url without rod", cfg: Config{Engine: "chromedp", RemoteURL: "ws://127.0.0.1:9222"}, wantErr: "'remote_url' requires engine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{ReferenceURL: "https://flag.example.com", Format: "json"}
	file := Config{
		ReferenceURL:   "https://file.example.com",
		CandidateURL:   "/pricing",
		ServeDir:       "dist",
		Format:         "text",
		TimeoutSeconds: 60,
		HistoryDB:      "runs.db",
	}

	merged := flags.MergeWithDefaults(file)

	assert.Equal(t, "https://flag.example.com", merged.ReferenceURL, "flags win")
	assert.Equal(t, "json", merged.Format)
	assert.Equal(t, "/pricing", merged.CandidateURL)
	assert.Equal(t, "dist", merged.ServeDir)
	assert.Equal(t, 60, merged.TimeoutSeconds)
	assert.Equal(t, "runs.db", merged.HistoryDB)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvReferenceURL: "https://env.example.com",
		EnvEngine:       "rod",
		EnvHistoryDB:    "env.db",
		EnvRemoteURL:    "ws://127.0.0.1:9222/devtools/browser/abc",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Config{Engine: "static"}
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "https://env.example.com", cfg.ReferenceURL)
	assert.Equal(t, "static", cfg.Engine, "explicit values are kept")
	assert.Equal(t, "env.db", cfg.HistoryDB)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", cfg.RemoteURL)
	assert.Empty(t, cfg.CandidateURL)
}
