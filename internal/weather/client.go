package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"solarcast/internal/types"
)

// HTTPDoer abstracts the HTTP client for testability.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoint selects which Open-Meteo API a request targets.
type Endpoint string

const (
	// EndpointForecast serves the rolling forecast window.
	EndpointForecast Endpoint = "forecast"
	// EndpointArchive serves the historical reanalysis archive.
	EndpointArchive Endpoint = "archive"
)

// Request describes a single weather data fetch.
type Request struct {
	Endpoint    Endpoint
	Latitude    float64
	Longitude   float64
	Granularity types.Granularity
	Variables   []string
	Range       types.DateRange
}

// CacheKey returns a canonical string identifying this request. Two requests
// with the same key always yield the same upstream response within a process
// lifetime.
func (r Request) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s", r.Endpoint, r.Granularity, r.query().Encode())
}

func (r Request) query() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(r.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(r.Longitude, 'f', -1, 64))
	params.Set(string(r.Granularity), strings.Join(r.Variables, ","))
	params.Set("start_date", r.Range.Start.Format(types.DateFormat))
	params.Set("end_date", r.Range.End.Format(types.DateFormat))
	params.Set("timezone", "GMT")
	return params
}

// Client fetches weather data tables from the Open-Meteo APIs.
type Client struct {
	forecastURL string
	archiveURL  string
	http        HTTPDoer
	logger      *slog.Logger
}

// NewClient creates an Open-Meteo client. If logger is nil, slog.Default()
// is used.
func NewClient(forecastURL, archiveURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		http:        doer,
		logger:      logger,
	}
}

// Fetch performs the upstream request and parses the response into a Table.
func (c *Client) Fetch(ctx context.Context, req Request) (*Table, error) {
	base := c.forecastURL
	if req.Endpoint == EndpointArchive {
		base = c.archiveURL
	}
	fullURL := base + "?" + req.query().Encode()

	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build weather request", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather, "failed to read weather response", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather upstream returned non-200",
			"endpoint", req.Endpoint,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, types.NewAppErrorWithDetails(types.ErrCodeUpstreamWeather,
			fmt.Sprintf("weather upstream returned status %d", resp.StatusCode), nil,
			map[string]any{"status": resp.StatusCode, "endpoint": string(req.Endpoint)})
	}

	table, err := ParseTable(body, string(req.Granularity), req.Variables)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("weather fetch complete",
		"endpoint", req.Endpoint,
		"granularity", req.Granularity,
		"rows", table.NumRows(),
		"duration_ms", time.Since(start).Milliseconds())
	return table, nil
}
