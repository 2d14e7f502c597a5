package predict

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"solarcast/internal/types"
	"solarcast/internal/weather"
)

// ForecastHorizon is the forward span every forecast covers.
const ForecastHorizon = 48 * time.Hour

// WeatherFetcher is the slice of the weather service the predictor needs.
type WeatherFetcher interface {
	GetMinutelyWeather(ctx context.Context, lat, lon float64, start, end string) (*weather.Table, error)
}

// SolarPowerPredictor produces 48-hour power forecasts at 15-minute cadence
// from point weather data and a pretrained tree model.
type SolarPowerPredictor struct {
	weather   WeatherFetcher
	assembler *Assembler
	model     Predictor
	clock     types.Clock
	logger    *slog.Logger
}

// NewSolarPowerPredictor wires the tree-model forecast path. If clock is
// nil, RealClock is used; if logger is nil, slog.Default() is used.
func NewSolarPowerPredictor(fetcher WeatherFetcher, model Predictor, clock types.Clock, logger *slog.Logger) *SolarPowerPredictor {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SolarPowerPredictor{
		weather:   fetcher,
		assembler: NewAssembler(logger),
		model:     model,
		clock:     clock,
		logger:    logger,
	}
}

// PredictPowerOutput forecasts site power generation for the 48 hours
// starting at ts. A zero ts means "now", floored to the 15-minute grid.
func (p *SolarPowerPredictor) PredictPowerOutput(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error) {
	if ts.IsZero() {
		ts = p.clock.Now().Truncate(15 * time.Minute)
	}
	ts = ts.UTC()

	// Fetch whole days so the window [ts, ts+48h) is fully covered.
	start := ts.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 2)

	table, err := p.weather.GetMinutelyWeather(ctx, site.Latitude, site.Longitude,
		start.Format(types.DateFormat), end.Format(types.DateFormat))
	if err != nil {
		return nil, err
	}

	frame := p.assembler.Assemble(table, site, p.clock.Now())
	values, err := p.model.Predict(frame)
	if err != nil {
		return nil, err
	}

	windowEnd := ts.Add(ForecastHorizon)
	points := make([]types.PowerPoint, 0, len(values))
	for i, v := range values {
		date := frame.Times[i]
		if date.Before(ts) || !date.Before(windowEnd) {
			continue
		}
		if v < 0 {
			v = 0
		}
		points = append(points, types.PowerPoint{Date: date, PowerWh: v})
	}

	p.logger.Info("tree model forecast complete",
		"latitude", site.Latitude,
		"longitude", site.Longitude,
		"start", ts,
		"points", len(points))

	return &types.PowerForecast{
		ID:          uuid.NewString(),
		Site:        site,
		GeneratedAt: p.clock.Now(),
		Points:      points,
	}, nil
}
