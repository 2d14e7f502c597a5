// Package main is the entry point for the solarcast API server.
//
// It loads configuration, wires the weather acquisition layer and the
// forecast paths, builds the HTTP server with the core chassis (middleware,
// routing, health checks), and starts listening for requests. Graceful
// shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solarcast/internal/api/handlers"
	"solarcast/internal/config"
	"solarcast/internal/core"
	"solarcast/internal/external"
	"solarcast/internal/predict"
	"solarcast/internal/solar"
	"solarcast/internal/types"
	"solarcast/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on
// error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("solarcast API starting",
		"environment", cfg.Environment,
		"port", cfg.Server.Port,
	)

	weatherService := buildWeatherService(cfg, logger)

	model, err := loadModel(cfg, logger)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	predictor := predict.NewSolarPowerPredictor(weatherService, model, types.RealClock{}, logger)
	runner := solar.NewRunner(predictor, nil, types.RealClock{}, logger)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	weatherHandler := handlers.NewWeatherHandler(weatherService, logger)
	forecastHandler := handlers.NewForecastHandler(runner, srv.Validator, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		weatherHandler.RegisterRoutes,
		forecastHandler.RegisterRoutes,
	)

	srv.HealthProbes = append(srv.HealthProbes, upstreamProbe{url: cfg.Weather.ForecastURL})
	if cfg.Model.Path != "" {
		srv.HealthProbes = append(srv.HealthProbes, modelProbe{path: cfg.Model.Path})
	}

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// buildWeatherService assembles the upstream client chain: resilient HTTP
// transport, Open-Meteo client, and response cache.
func buildWeatherService(cfg *config.Config, logger *slog.Logger) *weather.Service {
	policy := external.DefaultRetryPolicy()
	policy.MaxRetries = cfg.Weather.MaxRetries

	base := external.NewBaseClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		"open-meteo",
		policy,
		cfg.Weather.UserAgent,
	)

	client := weather.NewClient(cfg.Weather.ForecastURL, cfg.Weather.ArchiveURL, base, logger)

	var cache weather.Cache = weather.NopCache{}
	if cfg.Weather.CacheTables {
		cache = weather.NewMemoryCache()
	}

	return weather.NewService(client, cache, logger)
}

// loadModel loads the pretrained tree model when a path is configured. With
// no path, the tree forecast path stays mounted but reports the load failure
// per request.
func loadModel(cfg *config.Config, logger *slog.Logger) (predict.Predictor, error) {
	if cfg.Model.Path == "" {
		logger.Warn("MODEL_PATH not set; tree forecast requests will fail until a model is configured")
		return unavailableModel{}, nil
	}

	model, err := predict.LoadTreeModel(cfg.Model.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("tree model loaded", "path", cfg.Model.Path, "features", len(model.FeatureNames()))
	return model, nil
}

// unavailableModel satisfies predict.Predictor when no artifact is
// configured.
type unavailableModel struct{}

func (unavailableModel) Predict(_ *predict.Frame) ([]float64, error) {
	return nil, types.NewAppError(types.ErrCodeModelLoad, "no model artifact configured", nil)
}

// upstreamProbe reports whether the weather provider is reachable.
type upstreamProbe struct {
	url string
}

func (p upstreamProbe) Name() string { return "weather_upstream" }

func (p upstreamProbe) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("weather upstream returned status %d", resp.StatusCode)
	}
	return nil
}

// modelProbe reports whether the model artifact is still present on disk.
type modelProbe struct {
	path string
}

func (p modelProbe) Name() string { return "model" }

func (p modelProbe) Check(_ context.Context) error {
	_, err := os.Stat(p.path)
	return err
}

// runHTTPServer starts the server in standard HTTP mode with graceful
// shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// Compile-time interface assertions.
var (
	_ core.HealthProbe        = upstreamProbe{}
	_ core.HealthProbe        = modelProbe{}
	_ predict.Predictor       = unavailableModel{}
	_ handlers.ForecastRunner = (*solar.Runner)(nil)
	_ handlers.WeatherGetter  = (*weather.Service)(nil)
)
