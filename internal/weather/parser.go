package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"solarcast/internal/types"
)

// Open-Meteo time layouts. The API omits seconds; some deployments include
// them.
const (
	isoMinuteLayout = "2006-01-02T15:04"
	isoSecondLayout = "2006-01-02T15:04:05"
)

// timeSpec is the alternate compact form of the time axis, returned when the
// upstream encodes the index as a start/end/interval triple of unix seconds.
type timeSpec struct {
	Start    int64 `json:"start"`
	End      int64 `json:"end"`
	Interval int64 `json:"interval"`
}

// ParseTable decodes an Open-Meteo response body into a Table. bucket names
// the resolution block to read ("hourly" or "minutely_15") and variables
// lists the columns that must be present, in order.
func ParseTable(body []byte, bucket string, variables []string) (*Table, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamMalformed, "weather response is not valid JSON", err)
	}

	raw, ok := top[bucket]
	if !ok {
		return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
			fmt.Sprintf("weather response missing %q block", bucket), nil)
	}

	var block map[string]json.RawMessage
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
			fmt.Sprintf("weather response %q block is not an object", bucket), err)
	}

	times, err := parseTimeAxis(block)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]float64, len(variables))
	for _, variable := range variables {
		rawVals, ok := block[variable]
		if !ok {
			return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
				fmt.Sprintf("weather response missing variable %q", variable), nil)
		}
		// Nulls stand in for gaps in upstream data; carry them as NaN.
		var ptrs []*float64
		if err := json.Unmarshal(rawVals, &ptrs); err != nil {
			return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
				fmt.Sprintf("variable %q is not a numeric array", variable), err)
		}
		if len(ptrs) != len(times) {
			return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
				fmt.Sprintf("variable %q has %d values for %d timestamps", variable, len(ptrs), len(times)), nil)
		}
		vals := make([]float64, len(ptrs))
		for i, p := range ptrs {
			if p == nil {
				vals[i] = math.NaN()
			} else {
				vals[i] = *p
			}
		}
		values[variable] = vals
	}

	return NewTable(times, variables, values)
}

// parseTimeAxis decodes the time index of a resolution block. The upstream
// emits either ISO 8601 strings, unix second numbers, or a
// start/end/interval triple.
func parseTimeAxis(block map[string]json.RawMessage) ([]time.Time, error) {
	rawTime, ok := block["time"]
	if !ok {
		return nil, types.NewAppError(types.ErrCodeUpstreamMalformed, "weather response missing time axis", nil)
	}

	var isoTimes []string
	if err := json.Unmarshal(rawTime, &isoTimes); err == nil {
		times := make([]time.Time, len(isoTimes))
		for i, s := range isoTimes {
			t, err := time.Parse(isoMinuteLayout, s)
			if err != nil {
				t, err = time.Parse(isoSecondLayout, s)
			}
			if err != nil {
				return nil, types.NewAppError(types.ErrCodeUpstreamMalformed,
					fmt.Sprintf("unparseable timestamp %q", s), err)
			}
			times[i] = t.UTC()
		}
		return times, nil
	}

	var unixTimes []int64
	if err := json.Unmarshal(rawTime, &unixTimes); err == nil {
		times := make([]time.Time, len(unixTimes))
		for i, sec := range unixTimes {
			times[i] = time.Unix(sec, 0).UTC()
		}
		return times, nil
	}

	var spec timeSpec
	if err := json.Unmarshal(rawTime, &spec); err == nil && spec.Interval > 0 && spec.End > spec.Start {
		var times []time.Time
		for sec := spec.Start; sec < spec.End; sec += spec.Interval {
			times = append(times, time.Unix(sec, 0).UTC())
		}
		return times, nil
	}

	return nil, types.NewAppError(types.ErrCodeUpstreamMalformed, "unrecognized time axis encoding", nil)
}
