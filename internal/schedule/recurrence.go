package schedule

import "fmt"

// BuildRecurrence translates a millisecond interval into a six-field cron
// spec (seconds enabled), preserving the legacy precedence:
//
//  1. under 60 s: every N seconds within each minute
//  2. exact multiple of 60 s, under 1 h: every N minutes at second 0
//  3. exact multiple of 1 h, under 24 h: every N hours at minute 0, second 0
//  4. anything else: once per day at midnight
//
// Rule 4 means an interval that misses every alignment boundary (65 000 ms,
// say) silently degrades to a 24-hour cadence. That is intentional,
// compatibility-preserving behavior, kept exactly; callers should validate
// intervals up front if they want to catch it.
func BuildRecurrence(intervalMs int64) string {
	if intervalMs%1000 != 0 {
		return "0 0 0 * * *"
	}
	seconds := intervalMs / 1000

	switch {
	case seconds < 60:
		return fmt.Sprintf("*/%d * * * * *", seconds)
	case seconds%60 == 0 && seconds < 3600:
		return fmt.Sprintf("0 */%d * * * *", seconds/60)
	case seconds%3600 == 0 && seconds < 86400:
		return fmt.Sprintf("0 0 */%d * * *", seconds/3600)
	default:
		return "0 0 0 * * *"
	}
}
