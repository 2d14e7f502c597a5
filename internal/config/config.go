// Package config defines the global configuration structure for the solarcast
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the solarcast service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"solarcast"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Domain Configurations
	Server  ServerConfig
	Weather WeatherConfig
	Model   ModelConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout    time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout     time.Duration `envconfig:"SERVER_REQUEST_TIMEOUT" default:"29s"`
	CorsAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// WeatherConfig holds the upstream weather provider endpoints and client
// tuning parameters. The defaults target the public Open-Meteo API; the URLs
// are overridable so tests and local mirrors can point elsewhere.
type WeatherConfig struct {
	ForecastURL string        `envconfig:"WEATHER_FORECAST_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	ArchiveURL  string        `envconfig:"WEATHER_ARCHIVE_URL" default:"https://archive-api.open-meteo.com/v1/archive" validate:"required,url"`
	Timeout     time.Duration `envconfig:"WEATHER_TIMEOUT" default:"30s"`
	MaxRetries  int           `envconfig:"WEATHER_MAX_RETRIES" default:"3" validate:"gte=0"`
	UserAgent   string        `envconfig:"WEATHER_USER_AGENT" default:"solarcast/1.0"`
	CacheTables bool          `envconfig:"WEATHER_CACHE_TABLES" default:"true"`
}

// ModelConfig holds the pretrained tree-model artifact location.
type ModelConfig struct {
	// Path to the serialized gradient-boosted tree dump (.json or .json.zst).
	// Required only by the tree-model forecast path; binaries that never
	// touch it may leave it empty.
	Path string `envconfig:"MODEL_PATH"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
