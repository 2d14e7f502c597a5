// Package solar exposes the top-level forecast entry points: a physics/ML
// hybrid path driven by an external NWP model and a pretrained tree-model
// path driven by point weather data.
package solar

import (
	"context"
	"log/slog"
	"time"

	"solarcast/internal/types"
)

// TreeForecaster is the pretrained tree-model forecast path.
type TreeForecaster interface {
	PredictPowerOutput(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error)
}

// HybridModel is the opaque external physics/ML predictor. Implementations
// live outside this module; the runner only depends on this capability.
type HybridModel interface {
	Forecast(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error)
}

// Runner dispatches forecast requests to the configured model path.
type Runner struct {
	tree   TreeForecaster
	hybrid HybridModel
	clock  types.Clock
	logger *slog.Logger
}

// NewRunner creates a forecast Runner. hybrid may be nil when no external
// NWP model is deployed. If clock is nil, RealClock is used; if logger is
// nil, slog.Default() is used.
func NewRunner(tree TreeForecaster, hybrid HybridModel, clock types.Clock, logger *slog.Logger) *Runner {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{tree: tree, hybrid: hybrid, clock: clock, logger: logger}
}

// RunForecast produces a 48-hour forecast via the hybrid NWP model.
func (r *Runner) RunForecast(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error) {
	if r.hybrid == nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "no hybrid NWP model configured", nil)
	}
	ts = r.normalize(ts)
	r.logger.Info("running hybrid forecast", "latitude", site.Latitude, "longitude", site.Longitude, "start", ts)
	return r.hybrid.Forecast(ctx, site, ts)
}

// RunTreeForecast produces a 48-hour forecast via the pretrained tree model.
func (r *Runner) RunTreeForecast(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error) {
	ts = r.normalize(ts)
	return r.tree.PredictPowerOutput(ctx, site, ts)
}

// normalize defaults a zero timestamp to now and floors it to the
// 15-minute forecast grid.
func (r *Runner) normalize(ts time.Time) time.Time {
	if ts.IsZero() {
		ts = r.clock.Now()
	}
	return ts.UTC().Truncate(15 * time.Minute)
}
