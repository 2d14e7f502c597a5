package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"solarcast/internal/core"
	"solarcast/internal/types"
)

// ForecastRunner is the slice of the forecast runner the handler depends on.
type ForecastRunner interface {
	RunForecast(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error)
	RunTreeForecast(ctx context.Context, site types.PVSite, ts time.Time) (*types.PowerForecast, error)
}

// ForecastHandler serves power forecast requests.
type ForecastHandler struct {
	runner    ForecastRunner
	validator *core.Validator
	logger    *slog.Logger
}

// NewForecastHandler creates a ForecastHandler. If logger is nil,
// slog.Default() is used.
func NewForecastHandler(runner ForecastRunner, validator *core.Validator, logger *slog.Logger) *ForecastHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastHandler{runner: runner, validator: validator, logger: logger}
}

// RegisterRoutes mounts the forecast endpoint under the given router.
func (h *ForecastHandler) RegisterRoutes(r chi.Router) {
	r.Post("/forecast", h.HandleForecast)
}

// forecastRequest is the POST /v1/forecast request body. Model selects the
// forecast path; StartTime defaults to "now" when omitted.
type forecastRequest struct {
	Site      types.PVSite `json:"site"`
	StartTime *time.Time   `json:"start_time,omitempty"`
	Model     string       `json:"model,omitempty"`
}

const (
	modelTree   = "tree"
	modelHybrid = "hybrid"
)

// HandleForecast serves POST /v1/forecast.
func (h *ForecastHandler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req.Site); err != nil {
		core.Error(w, r, err)
		return
	}

	model := req.Model
	if model == "" {
		model = modelTree
	}

	var ts time.Time
	if req.StartTime != nil {
		ts = *req.StartTime
	}

	var (
		forecast *types.PowerForecast
		err      error
	)
	switch model {
	case modelTree:
		forecast, err = h.runner.RunTreeForecast(r.Context(), req.Site, ts)
	case modelHybrid:
		forecast, err = h.runner.RunForecast(r.Context(), req.Site, ts)
	default:
		core.Error(w, r, types.NewAppErrorWithDetails(types.ErrCodeValidationMissingField,
			"model must be \"tree\" or \"hybrid\"", nil, map[string]any{"model": model}))
		return
	}
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: forecast})
}
