package report

import (
	"fmt"
	"time"
)

// Recognized report periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodAllTime = "all_time"
)

// allTimeEpoch is the fixed lower bound of the all_time period. Nothing in
// the system predates it.
var allTimeEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// PeriodBounds resolves a period name to [start,end] with end = now.
func PeriodBounds(period string, now time.Time) (start, end time.Time, err error) {
	switch period {
	case PeriodDaily:
		return now.Add(-24 * time.Hour), now, nil
	case PeriodWeekly:
		return now.Add(-7 * 24 * time.Hour), now, nil
	case PeriodAllTime:
		return allTimeEpoch, now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown report period %q", period)
	}
}
