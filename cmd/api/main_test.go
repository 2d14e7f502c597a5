package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"solarcast/internal/config"
	"solarcast/internal/core"
	"solarcast/internal/types"
)

// buildTestServer creates a minimal server for infrastructure endpoint
// tests. Domain handlers are not mounted; health and routing behavior is
// what's under test here.
func buildTestServer(t *testing.T) *core.Server {
	t.Helper()
	t.Setenv("APP_ENV", "local")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	srv.MountRoutes()
	return srv
}

// TestHealthEndpoint verifies that the wired server responds with 200 on
// GET /health when no probes are registered.
func TestHealthEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /health: got status %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("got status %q, want %q", resp["status"], "healthy")
	}
}

func TestLoadModel_NoPathReturnsUnavailableModel(t *testing.T) {
	cfg := &config.Config{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	model, err := loadModel(cfg, logger)
	if err != nil {
		t.Fatalf("loadModel: %v", err)
	}

	_, err = model.Predict(nil)
	if err == nil {
		t.Fatal("expected prediction error from unavailable model")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeModelLoad {
		t.Errorf("got error %v, want code %s", err, types.ErrCodeModelLoad)
	}
}

func TestLoadModel_BadPathFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.Model.Path = filepath.Join(t.TempDir(), "missing.json")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	if _, err := loadModel(cfg, logger); err == nil {
		t.Fatal("expected error for missing model artifact")
	}
}

func TestUpstreamProbe(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	probe := upstreamProbe{url: upstream.URL}
	if probe.Name() != "weather_upstream" {
		t.Errorf("got name %q", probe.Name())
	}
	if err := probe.Check(context.Background()); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestUpstreamProbe_ServerErrorFails(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	probe := upstreamProbe{url: upstream.URL}
	err := probe.Check(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 upstream")
	}
	want := fmt.Sprintf("weather upstream returned status %d", http.StatusInternalServerError)
	if err.Error() != want {
		t.Errorf("got error %q, want %q", err.Error(), want)
	}
}

func TestModelProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	probe := modelProbe{path: path}
	if err := probe.Check(context.Background()); err != nil {
		t.Errorf("Check with existing artifact: %v", err)
	}

	probe = modelProbe{path: filepath.Join(t.TempDir(), "gone.json")}
	if err := probe.Check(context.Background()); err == nil {
		t.Error("expected error for missing artifact")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		logger := newLogger(tt.level)
		if !logger.Enabled(context.Background(), tt.enabled) {
			t.Errorf("level %q: expected %v to be enabled", tt.level, tt.enabled)
		}
	}
}
