package predict

import (
	"context"
	"testing"
	"time"

	"solarcast/internal/types"
	"solarcast/internal/weather"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubWeather struct {
	table      *weather.Table
	err        error
	start, end string
}

func (s *stubWeather) GetMinutelyWeather(_ context.Context, lat, lon float64, start, end string) (*weather.Table, error) {
	s.start, s.end = start, end
	return s.table, s.err
}

// stubModel predicts the row index minus an offset, so some values go
// negative.
type stubModel struct{ offset float64 }

func (m stubModel) Predict(frame *Frame) ([]float64, error) {
	out := make([]float64, len(frame.Rows))
	for i := range out {
		out[i] = float64(i) - m.offset
	}
	return out, nil
}

func TestPredictPowerOutput_WindowsTo48Hours(t *testing.T) {
	ts := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	// Three days of 15-minute data, starting at midnight of the request day.
	table := makeWeatherTable(t, ts.Truncate(24*time.Hour), 3*96)
	fetcher := &stubWeather{table: table}

	predictor := NewSolarPowerPredictor(fetcher, stubModel{}, fixedClock{now: ts}, nil)
	forecast, err := predictor.PredictPowerOutput(context.Background(), types.PVSite{Latitude: 51.5, Longitude: -0.12, CapacityKWp: 4}, ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(forecast.Points); got != 48*4 {
		t.Errorf("points = %d, want %d", got, 48*4)
	}
	first := forecast.Points[0]
	if !first.Date.Equal(ts) {
		t.Errorf("first point = %v, want %v (inclusive start)", first.Date, ts)
	}
	last := forecast.Points[len(forecast.Points)-1]
	wantLast := ts.Add(ForecastHorizon - 15*time.Minute)
	if !last.Date.Equal(wantLast) {
		t.Errorf("last point = %v, want %v (exclusive end)", last.Date, wantLast)
	}
}

func TestPredictPowerOutput_FetchesWholeDays(t *testing.T) {
	ts := time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC)
	fetcher := &stubWeather{table: makeWeatherTable(t, ts.Truncate(24*time.Hour), 3*96)}

	predictor := NewSolarPowerPredictor(fetcher, stubModel{}, fixedClock{now: ts}, nil)
	if _, err := predictor.PredictPowerOutput(context.Background(), types.PVSite{Latitude: 51.5, Longitude: -0.12, CapacityKWp: 4}, ts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.start != "2026-06-01" {
		t.Errorf("fetch start = %q, want 2026-06-01", fetcher.start)
	}
	if fetcher.end != "2026-06-03" {
		t.Errorf("fetch end = %q, want 2026-06-03", fetcher.end)
	}
}

func TestPredictPowerOutput_ClampsNegativePredictions(t *testing.T) {
	ts := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &stubWeather{table: makeWeatherTable(t, ts, 2*96)}

	predictor := NewSolarPowerPredictor(fetcher, stubModel{offset: 10}, fixedClock{now: ts}, nil)
	forecast, err := predictor.PredictPowerOutput(context.Background(), types.PVSite{Latitude: 51.5, Longitude: -0.12, CapacityKWp: 4}, ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		if forecast.Points[i].PowerWh != 0 {
			t.Errorf("point %d = %v, want 0 (clamped)", i, forecast.Points[i].PowerWh)
		}
	}
	if forecast.Points[11].PowerWh != 1 {
		t.Errorf("point 11 = %v, want 1", forecast.Points[11].PowerWh)
	}
}

func TestPredictPowerOutput_ZeroTimeUsesClock(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 7, 0, 0, time.UTC)
	fetcher := &stubWeather{table: makeWeatherTable(t, now.Truncate(24*time.Hour), 3*96)}

	predictor := NewSolarPowerPredictor(fetcher, stubModel{}, fixedClock{now: now}, nil)
	forecast, err := predictor.PredictPowerOutput(context.Background(), types.PVSite{Latitude: 51.5, Longitude: -0.12, CapacityKWp: 4}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:07 floors to 09:00 on the 15-minute grid.
	want := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	if !forecast.Points[0].Date.Equal(want) {
		t.Errorf("first point = %v, want %v", forecast.Points[0].Date, want)
	}
	if forecast.ID == "" {
		t.Error("forecast ID should be set")
	}
	if !forecast.GeneratedAt.Equal(now) {
		t.Errorf("generated at = %v, want %v", forecast.GeneratedAt, now)
	}
}
