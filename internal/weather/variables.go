package weather

// HourlyVariables is the full set of hourly weather variables requested from
// Open-Meteo, in the column order they appear in assembled tables.
var HourlyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"precipitation",
	"surface_pressure",
	"cloud_cover",
	"cloud_cover_low",
	"cloud_cover_mid",
	"cloud_cover_high",
	"visibility",
	"wind_speed_10m",
	"wind_speed_80m",
	"wind_speed_120m",
	"wind_speed_180m",
	"wind_direction_10m",
	"wind_direction_80m",
	"wind_direction_120m",
	"wind_direction_180m",
	"is_day",
	"sunshine_duration",
	"shortwave_radiation",
	"direct_radiation",
	"diffuse_radiation",
	"direct_normal_irradiance",
	"terrestrial_radiation",
}

// MinutelyVariables is the 15-minute variable set. It is a subset of the
// hourly set: the multi-level wind fields, visibility and sunshine duration
// are only published at hourly resolution.
var MinutelyVariables = []string{
	"temperature_2m",
	"relative_humidity_2m",
	"dew_point_2m",
	"precipitation",
	"surface_pressure",
	"cloud_cover",
	"cloud_cover_low",
	"cloud_cover_mid",
	"cloud_cover_high",
	"wind_speed_10m",
	"wind_direction_10m",
	"is_day",
	"shortwave_radiation",
	"direct_radiation",
	"diffuse_radiation",
	"direct_normal_irradiance",
	"terrestrial_radiation",
}

// HistoricalVariables is the default variable set for archive requests.
// Callers may override it per request; nil selects this default.
var HistoricalVariables = MinutelyVariables
