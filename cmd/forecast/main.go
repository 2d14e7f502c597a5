// Package main is a command-line front end for the solarcast forecast
// pipeline. It runs a single 48-hour tree-model forecast for a PV site and
// writes the resulting power series to stdout as JSON or CSV.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"solarcast/internal/config"
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

func run() error {
	var (
		lat         = flag.Float64("lat", 0, "site latitude in degrees")
		lon         = flag.Float64("lon", 0, "site longitude in degrees")
		kwp         = flag.Float64("kwp", 0, "rated peak capacity in kW")
		tilt        = flag.Float64("tilt", 35, "panel tilt in degrees")
		orientation = flag.Float64("orientation", 180, "panel orientation in degrees")
		start       = flag.String("start", "", "forecast start time (RFC 3339); defaults to now")
		format      = flag.String("format", "json", "output format: json or csv")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	site := types.PVSite{
		Latitude:    *lat,
		Longitude:   *lon,
		CapacityKWp: *kwp,
		Tilt:        *tilt,
		Orientation: *orientation,
	}

	var ts time.Time
	if *start != "" {
		ts, err = time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid -start value %q: %w", *start, err)
		}
	}

	model, err := predict.LoadTreeModel(cfg.Model.Path)
	if err != nil {
		return err
	}

	weatherService := buildWeatherService(cfg, logger)
	predictor := predict.NewSolarPowerPredictor(weatherService, model, types.RealClock{}, logger)
	runner := solar.NewRunner(predictor, nil, types.RealClock{}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Weather.Timeout)
	defer cancel()

	forecast, err := runner.RunTreeForecast(ctx, site, ts)
	if err != nil {
		return err
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(forecast)
	case "csv":
		return writeCSV(os.Stdout, forecast)
	default:
		return fmt.Errorf("unknown -format %q, want json or csv", *format)
	}
}

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
	return weather.NewService(client, weather.NopCache{}, logger)
}

func writeCSV(f *os.File, forecast *types.PowerForecast) error {
	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "power_wh"}); err != nil {
		return err
	}
	for _, pt := range forecast.Points {
		record := []string{
			pt.Date.Format(time.RFC3339),
			strconv.FormatFloat(pt.PowerWh, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
