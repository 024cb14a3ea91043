package engine

import (
	"math"
	"time"
)

// Status thresholds in whole days to expiry.
const (
	criticalDays = 7
	warningDays  = 30
)

// DaysToExpiry returns the ceiling of (expiry − now) in whole days. A product
// expiring later today reports 0 or more; one that expired earlier today
// reports 0 or less.
func DaysToExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// Classify converts an expiry date into a day count and a lifecycle status.
// Boundaries are inclusive on the upper end: exactly 7 days is critical,
// exactly 30 days is warning, exactly 0 days is expired.
func Classify(expiry, now time.Time) (int, Status) {
	days := DaysToExpiry(expiry, now)

	switch {
	case days <= 0:
		return days, StatusExpired
	case days <= criticalDays:
		return days, StatusCritical
	case days <= warningDays:
		return days, StatusWarning
	default:
		return days, StatusSafe
	}
}
