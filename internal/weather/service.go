package weather

import (
	"context"
	"log/slog"

	"solarcast/internal/types"
)

// Fetcher abstracts the upstream client for testability.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Table, error)
}

// Service is the weather acquisition layer. It validates inputs, consults
// the cache, and normalizes upstream responses into Tables.
type Service struct {
	fetcher Fetcher
	cache   Cache
	logger  *slog.Logger
}

// NewService creates a weather Service. If cache is nil, NopCache is used;
// if logger is nil, slog.Default() is used.
func NewService(fetcher Fetcher, cache Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, cache: cache, logger: logger}
}

// GetHourlyWeather fetches the full hourly variable set for a coordinate and
// date range from the forecast API.
func (s *Service) GetHourlyWeather(ctx context.Context, lat, lon float64, start, end string) (*Table, error) {
	return s.get(ctx, EndpointForecast, lat, lon, start, end, types.GranularityHourly, HourlyVariables)
}

// GetMinutelyWeather fetches the 15-minute variable set for a coordinate and
// date range from the forecast API.
func (s *Service) GetMinutelyWeather(ctx context.Context, lat, lon float64, start, end string) (*Table, error) {
	return s.get(ctx, EndpointForecast, lat, lon, start, end, types.GranularityMinutely15, MinutelyVariables)
}

// GetHistoricalWeather fetches past weather from the archive API at hourly
// resolution. A nil variables slice selects the default historical set.
func (s *Service) GetHistoricalWeather(ctx context.Context, lat, lon float64, start, end string, variables []string) (*Table, error) {
	if variables == nil {
		variables = HistoricalVariables
	}
	return s.get(ctx, EndpointArchive, lat, lon, start, end, types.GranularityHourly, variables)
}

func (s *Service) get(ctx context.Context, endpoint Endpoint, lat, lon float64, start, end string,
	granularity types.Granularity, variables []string) (*Table, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	dateRange, err := ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}

	req := Request{
		Endpoint:    endpoint,
		Latitude:    lat,
		Longitude:   lon,
		Granularity: granularity,
		Variables:   variables,
		Range:       dateRange,
	}

	table, err := s.cache.GetOrFetch(ctx, req.CacheKey(), func(ctx context.Context) (*Table, error) {
		return s.fetcher.Fetch(ctx, req)
	})
	if err != nil {
		s.logger.Error("weather fetch failed",
			"endpoint", endpoint,
			"granularity", granularity,
			"error", err)
		return nil, err
	}
	return table, nil
}
