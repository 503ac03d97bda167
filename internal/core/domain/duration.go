package domain

import (
	"math"
	"time"
)

// TripDuration returns the day count of a trip. A nil end means the trip is
// still ongoing and yields 0. Otherwise the wall-clock difference is rounded
// up to whole days and clamped to a minimum of 1, so a trip that starts and
// ends on the same day still counts as a one-day trip and partial days are
// never under-reported.
func TripDuration(start time.Time, end *time.Time) int {
	if end == nil {
		return 0
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}
