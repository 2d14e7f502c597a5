package predict

import (
	"log/slog"
	"math"
	"time"

	"solarcast/internal/types"
	"solarcast/internal/weather"
)

// Site attribute columns, in the order the pretrained model expects them.
var siteColumns = []string{
	"latitude_rounded",
	"longitude_rounded",
	"orientation",
	"tilt",
	"kwp",
}

// Trailing time-part columns derived from each row's timestamp.
var timeColumns = []string{"year", "month", "day", "hour", "minute"}

// Frame is a flat feature matrix ready for model inference. Column order is
// a hard compatibility contract with the model artifact: site attributes
// first, weather variables in request order, time parts last.
type Frame struct {
	Columns []string
	Times   []time.Time
	Rows    [][]float64
}

// NumRows returns the number of feature rows.
func (f *Frame) NumRows() int {
	return len(f.Rows)
}

// Assembler builds feature frames from weather tables and site metadata.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates an Assembler. If logger is nil, slog.Default() is
// used.
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble joins a weather table with static site attributes into the flat
// feature schema. Site coordinates are rounded to two decimals to match the
// training data. Requests starting more than three months before now fall
// outside the forecast horizon; this is logged, not rejected.
func (a *Assembler) Assemble(table *weather.Table, site types.PVSite, now time.Time) *Frame {
	if len(table.Times()) > 0 {
		horizon := now.AddDate(0, -3, 0)
		if table.Times()[0].Before(horizon) {
			a.logger.Warn("requested window starts more than three months in the past, no forecast data exists there",
				"window_start", table.Times()[0],
				"horizon", horizon)
		}
	}

	weatherCols := table.Columns()
	columns := make([]string, 0, len(siteColumns)+len(weatherCols)+len(timeColumns))
	columns = append(columns, siteColumns...)
	columns = append(columns, weatherCols...)
	columns = append(columns, timeColumns...)

	siteVals := []float64{
		roundTo(site.Latitude, 2),
		roundTo(site.Longitude, 2),
		site.Orientation,
		site.Tilt,
		site.CapacityKWp,
	}

	times := table.Times()
	rows := make([][]float64, len(times))
	for i, ts := range times {
		row := make([]float64, 0, len(columns))
		row = append(row, siteVals...)
		row = append(row, table.Row(i)...)
		row = append(row,
			float64(ts.Year()),
			float64(ts.Month()),
			float64(ts.Day()),
			float64(ts.Hour()),
			float64(ts.Minute()),
		)
		rows[i] = row
	}

	return &Frame{Columns: columns, Times: times, Rows: rows}
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
