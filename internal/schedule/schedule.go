// Package schedule implements calendar-aware date stepping for recurring
// transactions and subscription billing cycles.
package schedule

import (
	"fmt"
	"time"

	"fintrack/internal/models"
)

// Next returns the due date one frequency step after date. Month and year
// steps clamp to the last valid day of the target month, so a Jan 31
// monthly schedule lands on Feb 28 (29 in leap years) rather than
// overflowing into March.
func Next(date time.Time, freq models.Frequency) (time.Time, error) {
	switch freq {
	case models.FrequencyDaily:
		return date.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7), nil
	case models.FrequencyBiweekly:
		return date.AddDate(0, 0, 14), nil
	case models.FrequencyMonthly:
		return addMonths(date, 1), nil
	case models.FrequencyQuarterly:
		return addMonths(date, 3), nil
	case models.FrequencyYearly:
		return addMonths(date, 12), nil
	default:
		return time.Time{}, fmt.Errorf("unknown frequency: %s", freq)
	}
}

// NextBilling steps a subscription billing date by its cycle.
func NextBilling(date time.Time, cycle models.BillingCycle) (time.Time, error) {
	switch cycle {
	case models.BillingCycleMonthly:
		return addMonths(date, 1), nil
	case models.BillingCycleQuarterly:
		return addMonths(date, 3), nil
	case models.BillingCycleYearly:
		return addMonths(date, 12), nil
	default:
		return time.Time{}, fmt.Errorf("unknown billing cycle: %s", cycle)
	}
}

// addMonths adds n calendar months, clamping the day of month to the last
// valid day of the target month. time.AddDate alone normalizes overflow
// (Jan 31 + 1 month = Mar 3), which is wrong for billing dates.
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	hour, min, sec := t.Clock()
	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
