package types

import (
	"testing"
	"time"
)

func TestGranularityStep(t *testing.T) {
	if got := GranularityHourly.Step(); got != time.Hour {
		t.Errorf("hourly step = %v, want 1h", got)
	}
	if got := GranularityMinutely15.Step(); got != 15*time.Minute {
		t.Errorf("minutely_15 step = %v, want 15m", got)
	}
}

// TestPowerForecastWindow verifies the inclusive-start/exclusive-end slice.
func TestPowerForecastWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f := &PowerForecast{}
	for i := 0; i < 72*4; i++ { // 72 hours at 15-minute steps
		f.Points = append(f.Points, PowerPoint{
			Date:    start.Add(time.Duration(i) * 15 * time.Minute),
			PowerWh: float64(i),
		})
	}

	end := start.Add(48 * time.Hour)
	got := f.Window(start, end)

	if len(got) != 48*4 {
		t.Fatalf("window size = %d, want %d", len(got), 48*4)
	}
	if !got[0].Date.Equal(start) {
		t.Errorf("first point = %v, want %v (inclusive start)", got[0].Date, start)
	}
	last := got[len(got)-1].Date
	if !last.Equal(end.Add(-15 * time.Minute)) {
		t.Errorf("last point = %v, want %v (exclusive end)", last, end.Add(-15*time.Minute))
	}
}
