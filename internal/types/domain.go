package types

import "time"

// DateFormat is the fixed calendar-date format accepted by all weather and
// forecast operations.
const DateFormat = "2006-01-02"

// Location represents a geographic coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PVSite describes a photovoltaic installation. It is supplied by the caller
// and treated as read-only input; CapacityKWp is the rated peak output in
// kilowatts, Tilt and Orientation are panel angles in degrees.
type PVSite struct {
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	CapacityKWp float64 `json:"capacity_kwp" validate:"required,gt=0"`
	Tilt        float64 `json:"tilt" validate:"gte=0,lte=90"`
	Orientation float64 `json:"orientation" validate:"gte=0,lte=360"`
}

// DateRange is a validated, forward-ordered pair of calendar dates.
// Construct via weather.ParseDateRange; never persisted.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Granularity is the time-step resolution of a weather series. Its string
// value doubles as the request parameter key and the response bucket name
// on the provider wire contract.
type Granularity string

const (
	GranularityHourly     Granularity = "hourly"
	GranularityMinutely15 Granularity = "minutely_15"
)

// Step returns the native timestep of the granularity.
func (g Granularity) Step() time.Duration {
	if g == GranularityMinutely15 {
		return 15 * time.Minute
	}
	return time.Hour
}

// ResponseMeta carries non-blocking notices alongside successful API
// responses, such as horizon warnings for near-boundary date ranges.
type ResponseMeta struct {
	Warnings []string `json:"warnings,omitempty"`
}

// PowerPoint is one timestep of a predicted power series.
type PowerPoint struct {
	Date    time.Time `json:"date"`
	PowerWh float64   `json:"power_wh"`
}

// PowerForecast is a date-indexed series of predicted power output at the
// model's native cadence (15-minute steps). Points are ordered by Date
// ascending.
type PowerForecast struct {
	ID          string       `json:"id"`
	Site        PVSite       `json:"site"`
	GeneratedAt time.Time    `json:"generated_at"`
	Points      []PowerPoint `json:"points"`
}

// Window returns the points p with Date in [start, end). The original series
// is not modified.
func (f *PowerForecast) Window(start, end time.Time) []PowerPoint {
	out := make([]PowerPoint, 0, len(f.Points))
	for _, pt := range f.Points {
		if !pt.Date.Before(start) && pt.Date.Before(end) {
			out = append(out, pt)
		}
	}
	return out
}
