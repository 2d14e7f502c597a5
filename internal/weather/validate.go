package weather

import (
	"fmt"
	"time"

	"solarcast/internal/types"
)

// ValidateCoordinates checks that a latitude/longitude pair lies within the
// valid geographic range. It runs before any network call is made.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidLat,
			"latitude must be between -90 and 90", nil,
			map[string]any{"latitude": lat})
	}
	if lon < -180 || lon > 180 {
		return types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidLon,
			"longitude must be between -180 and 180", nil,
			map[string]any{"longitude": lon})
	}
	return nil
}

// ParseDateRange parses start and end dates in YYYY-MM-DD form and checks
// their ordering. Both failure modes share one error code, distinguished by
// the "reason" detail.
func ParseDateRange(start, end string) (types.DateRange, error) {
	startDate, err := time.Parse(types.DateFormat, start)
	if err != nil {
		return types.DateRange{}, types.NewAppErrorWithDetails(types.ErrCodeValidationDateRange,
			fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", start), err,
			map[string]any{"reason": types.DateRangeReasonUnparseable, "field": "start_date"})
	}
	endDate, err := time.Parse(types.DateFormat, end)
	if err != nil {
		return types.DateRange{}, types.NewAppErrorWithDetails(types.ErrCodeValidationDateRange,
			fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", end), err,
			map[string]any{"reason": types.DateRangeReasonUnparseable, "field": "end_date"})
	}
	if endDate.Before(startDate) {
		return types.DateRange{}, types.NewAppErrorWithDetails(types.ErrCodeValidationDateRange,
			"end date must not be before start date", nil,
			map[string]any{"reason": types.DateRangeReasonEndBeforeStart})
	}
	return types.DateRange{Start: startDate, End: endDate}, nil
}
