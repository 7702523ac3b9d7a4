package utils

import (
	"time"
)

// TimeNow returns the current time in UTC; stored timestamps are all UTC.
func TimeNow() time.Time {
	return time.Now().UTC()
}

// FiscalYear parses the year out of a provider fiscal date such as "2023-09-30".
func FiscalYear(fiscalDateEnding string) (int, bool) {
	t, err := time.Parse("2006-01-02", fiscalDateEnding)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// IsOlderThan reports whether t is zero or further in the past than age.
func IsOlderThan(t time.Time, age time.Duration, now time.Time) bool {
	if t.IsZero() {
		return true
	}
	return now.Sub(t) >= age
}
