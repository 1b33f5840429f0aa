// Package aggregate provides pure grouping and summation primitives shared
// by the budget and analytics services. All functions are side-effect free
// and independent of iteration order.
package aggregate

import "time"

// SumBy groups items by keyFn and sums amountFn within each group.
func SumBy[T any, K comparable](items []T, keyFn func(T) K, amountFn func(T) int64) map[K]int64 {
	totals := make(map[K]int64, len(items))
	for _, item := range items {
		totals[keyFn(item)] += amountFn(item)
	}
	return totals
}

// Total sums amountFn over all items.
func Total[T any](items []T, amountFn func(T) int64) int64 {
	var total int64
	for _, item := range items {
		total += amountFn(item)
	}
	return total
}

// PercentOf returns numerator as a percentage of denominator,
// or 0 when the denominator is not positive.
func PercentOf(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// DayKey buckets a time by calendar day, e.g. "2026-08-31".
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey buckets a time by calendar month, e.g. "2026-08".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// WeekdayKey buckets a time by weekday name, e.g. "Monday".
func WeekdayKey(t time.Time) string {
	return t.Weekday().String()
}
