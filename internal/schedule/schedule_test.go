package schedule

import (
	"testing"
	"time"

	"fintrack/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNext(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		got, err := Next(date(2026, time.March, 15), models.FrequencyDaily)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.March, 16); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		got, err := Next(date(2026, time.March, 15), models.FrequencyWeekly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.March, 22); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("biweekly", func(t *testing.T) {
		got, err := Next(date(2026, time.March, 15), models.FrequencyBiweekly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.March, 29); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("monthly_clamps_to_end_of_february", func(t *testing.T) {
		got, err := Next(date(2026, time.January, 31), models.FrequencyMonthly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.February, 28); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("monthly_clamps_to_leap_february", func(t *testing.T) {
		got, err := Next(date(2028, time.January, 31), models.FrequencyMonthly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2028, time.February, 29); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("monthly_keeps_day_when_valid", func(t *testing.T) {
		got, err := Next(date(2026, time.April, 15), models.FrequencyMonthly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.May, 15); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("quarterly", func(t *testing.T) {
		got, err := Next(date(2026, time.November, 30), models.FrequencyQuarterly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2027, time.February, 28); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("yearly_from_leap_day", func(t *testing.T) {
		got, err := Next(date(2028, time.February, 29), models.FrequencyYearly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2029, time.February, 28); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("unknown_frequency", func(t *testing.T) {
		if _, err := Next(date(2026, time.March, 15), models.Frequency("hourly")); err == nil {
			t.Error("expected error for unknown frequency")
		}
	})
}

func TestNextBilling(t *testing.T) {
	t.Run("monthly", func(t *testing.T) {
		got, err := NextBilling(date(2026, time.May, 31), models.BillingCycleMonthly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.June, 30); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("quarterly", func(t *testing.T) {
		got, err := NextBilling(date(2026, time.January, 10), models.BillingCycleQuarterly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2026, time.April, 10); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("yearly", func(t *testing.T) {
		got, err := NextBilling(date(2026, time.July, 4), models.BillingCycleYearly)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := date(2027, time.July, 4); !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("unknown_cycle", func(t *testing.T) {
		if _, err := NextBilling(date(2026, time.July, 4), models.BillingCycle("weekly")); err == nil {
			t.Error("expected error for unknown billing cycle")
		}
	})
}
