package recur

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

// Next returns the next time the cron expression fires strictly after
// start.
func Next(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}

// Validate checks if the cron expression is valid. It enforces exactly 5
// fields (minute hour day-of-month month day-of-week); gronx.IsValid alone
// would also accept 6-field expressions with seconds.
func Validate(expr string) error {
	if expr == "" {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	if !gronx.IsValid(expr) {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}

// HasOccurrenceWithinYear checks if a cron expression has any occurrence
// within 1 year from the given time. Returns false for invalid expressions
// or if no occurrence exists within the 1-year window.
func HasOccurrenceWithinYear(expr string, from time.Time) bool {
	next, err := gronx.NextTickAfter(expr, from, false)
	if err != nil {
		return false
	}
	return next.Before(from.Add(365 * 24 * time.Hour))
}
