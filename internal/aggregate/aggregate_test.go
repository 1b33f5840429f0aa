package aggregate

import (
	"testing"
	"time"
)

type item struct {
	category string
	amount   int64
}

func TestSumBy(t *testing.T) {
	t.Run("groups_and_sums", func(t *testing.T) {
		items := []item{
			{"Food", 1000},
			{"Food", 2500},
			{"Transport", 500},
		}

		totals := SumBy(items,
			func(i item) string { return i.category },
			func(i item) int64 { return i.amount })

		if len(totals) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(totals))
		}
		if totals["Food"] != 3500 {
			t.Errorf("expected Food total 3500, got %d", totals["Food"])
		}
		if totals["Transport"] != 500 {
			t.Errorf("expected Transport total 500, got %d", totals["Transport"])
		}
	})

	t.Run("group_totals_preserve_grand_total", func(t *testing.T) {
		items := []item{
			{"A", 100}, {"B", 200}, {"A", 300}, {"C", -50}, {"B", 7},
		}

		totals := SumBy(items,
			func(i item) string { return i.category },
			func(i item) int64 { return i.amount })

		var sum int64
		for _, v := range totals {
			sum += v
		}
		if grand := Total(items, func(i item) int64 { return i.amount }); sum != grand {
			t.Errorf("group totals sum to %d, want grand total %d", sum, grand)
		}
	})

	t.Run("empty", func(t *testing.T) {
		totals := SumBy(nil,
			func(i item) string { return i.category },
			func(i item) int64 { return i.amount })
		if len(totals) != 0 {
			t.Errorf("expected empty map, got %d entries", len(totals))
		}
	})
}

func TestTotal(t *testing.T) {
	items := []item{{"A", 100}, {"B", -30}, {"C", 5}}
	if got := Total(items, func(i item) int64 { return i.amount }); got != 75 {
		t.Errorf("expected 75, got %d", got)
	}
	if got := Total(nil, func(i item) int64 { return i.amount }); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}
}

func TestPercentOf(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		if got := PercentOf(750, 1000); got != 75.0 {
			t.Errorf("expected 75.0, got %f", got)
		}
	})

	t.Run("over_100", func(t *testing.T) {
		if got := PercentOf(1200, 1000); got != 120.0 {
			t.Errorf("expected 120.0, got %f", got)
		}
	})

	t.Run("zero_denominator", func(t *testing.T) {
		if got := PercentOf(500, 0); got != 0 {
			t.Errorf("expected 0 for zero denominator, got %f", got)
		}
	})

	t.Run("negative_denominator", func(t *testing.T) {
		if got := PercentOf(500, -100); got != 0 {
			t.Errorf("expected 0 for negative denominator, got %f", got)
		}
	})
}

func TestTimeKeys(t *testing.T) {
	ts := time.Date(2026, time.August, 31, 14, 30, 0, 0, time.UTC)

	if got := DayKey(ts); got != "2026-08-31" {
		t.Errorf("expected 2026-08-31, got %s", got)
	}
	if got := MonthKey(ts); got != "2026-08" {
		t.Errorf("expected 2026-08, got %s", got)
	}
	if got := WeekdayKey(ts); got != "Monday" {
		t.Errorf("expected Monday, got %s", got)
	}
}
