// Package handlers implements the HTTP handlers for the v1 API surface.
package handlers

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"solarcast/internal/core"
	"solarcast/internal/types"
	"solarcast/internal/weather"
)

// WeatherGetter is the slice of the weather service the handler depends on.
type WeatherGetter interface {
	GetHourlyWeather(ctx context.Context, lat, lon float64, start, end string) (*weather.Table, error)
	GetMinutelyWeather(ctx context.Context, lat, lon float64, start, end string) (*weather.Table, error)
	GetHistoricalWeather(ctx context.Context, lat, lon float64, start, end string, variables []string) (*weather.Table, error)
}

// WeatherHandler serves normalized weather tables.
type WeatherHandler struct {
	service WeatherGetter
	logger  *slog.Logger
}

// NewWeatherHandler creates a WeatherHandler. If logger is nil,
// slog.Default() is used.
func NewWeatherHandler(service WeatherGetter, logger *slog.Logger) *WeatherHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the weather endpoints under the given router.
func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Route("/weather", func(r chi.Router) {
		r.Get("/hourly", h.HandleHourly)
		r.Get("/minutely", h.HandleMinutely)
		r.Get("/historical", h.HandleHistorical)
	})
}

// tableResponse is the wire form of a weather table. NaN gaps are encoded
// as JSON nulls.
type tableResponse struct {
	Times   []string              `json:"times"`
	Columns []string              `json:"columns"`
	Values  map[string][]*float64 `json:"values"`
}

func newTableResponse(table *weather.Table) tableResponse {
	times := make([]string, table.NumRows())
	for i, ts := range table.Times() {
		times[i] = ts.Format("2006-01-02T15:04")
	}

	values := make(map[string][]*float64, table.NumCols())
	for _, col := range table.Columns() {
		vals, _ := table.Column(col)
		out := make([]*float64, len(vals))
		for i := range vals {
			if !math.IsNaN(vals[i]) {
				v := vals[i]
				out[i] = &v
			}
		}
		values[col] = out
	}

	return tableResponse{Times: times, Columns: table.Columns(), Values: values}
}

// HandleHourly serves GET /v1/weather/hourly.
func (h *WeatherHandler) HandleHourly(w http.ResponseWriter, r *http.Request) {
	lat, lon, start, end, err := weatherQueryParams(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	table, err := h.service.GetHourlyWeather(r.Context(), lat, lon, start, end)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: newTableResponse(table)})
}

// HandleMinutely serves GET /v1/weather/minutely.
func (h *WeatherHandler) HandleMinutely(w http.ResponseWriter, r *http.Request) {
	lat, lon, start, end, err := weatherQueryParams(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	table, err := h.service.GetMinutelyWeather(r.Context(), lat, lon, start, end)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: newTableResponse(table)})
}

// HandleHistorical serves GET /v1/weather/historical. An optional
// comma-separated "variables" parameter narrows the archived variable set.
func (h *WeatherHandler) HandleHistorical(w http.ResponseWriter, r *http.Request) {
	lat, lon, start, end, err := weatherQueryParams(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	var variables []string
	if raw := r.URL.Query().Get("variables"); raw != "" {
		variables = strings.Split(raw, ",")
	}

	table, err := h.service.GetHistoricalWeather(r.Context(), lat, lon, start, end, variables)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: newTableResponse(table)})
}

// weatherQueryParams extracts and type-checks the shared query parameters.
// Range and format validation is left to the weather service.
func weatherQueryParams(r *http.Request) (lat, lon float64, start, end string, err error) {
	q := r.URL.Query()

	lat, err = parseFloatParam(q.Get("latitude"), "latitude")
	if err != nil {
		return 0, 0, "", "", err
	}
	lon, err = parseFloatParam(q.Get("longitude"), "longitude")
	if err != nil {
		return 0, 0, "", "", err
	}

	start = q.Get("start_date")
	end = q.Get("end_date")
	if start == "" || end == "" {
		return 0, 0, "", "", types.NewAppError(types.ErrCodeValidationMissingField,
			"start_date and end_date are required", nil)
	}
	return lat, lon, start, end, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, types.NewAppErrorWithDetails(types.ErrCodeValidationMissingField,
			name+" is required", nil, map[string]any{"field": name})
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, types.NewAppErrorWithDetails(types.ErrCodeValidationMissingField,
			name+" must be a number", err, map[string]any{"field": name})
	}
	return v, nil
}
