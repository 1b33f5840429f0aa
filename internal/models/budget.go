package models

import (
	"fmt"
	"time"
)

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// DefaultAlertThresholds are the spend percentages at which alerts fire
// when a budget is created without explicit thresholds.
var DefaultAlertThresholds = IntList{50, 75, 90, 100}

// Budget represents one category's spending cap for one period instance.
// A record is unique per (user, category, period, year, month); month is
// zero for yearly budgets.
type Budget struct {
	Base
	UserID   uint         `gorm:"not null;index:idx_budget_key,unique" json:"user_id"`
	Category string       `gorm:"not null;index:idx_budget_key,unique" json:"category"`
	Amount   int64        `gorm:"type:bigint;not null" json:"amount"`
	Period   BudgetPeriod `gorm:"not null;default:monthly;index:idx_budget_key,unique" json:"period"`
	Year     int          `gorm:"not null;index:idx_budget_key,unique" json:"year"`
	Month    int          `gorm:"not null;default:0;index:idx_budget_key,unique" json:"month"`
	Rollover bool         `gorm:"default:false" json:"rollover"`

	// RolledOverFrom holds the period key of the month whose surplus was
	// last carried into this budget. Rollover is a no-op when the marker
	// already matches the source period, so re-running it cannot
	// double-credit the carry.
	RolledOverFrom string `json:"rolled_over_from,omitempty"`

	AlertThresholds IntList  `gorm:"type:text" json:"alert_thresholds"`
	AlertsSent      AlertLog `gorm:"type:text" json:"alerts_sent"`
}

// PeriodKey identifies one budget period instance, e.g. "monthly-2026-8"
// or "yearly-2026".
func PeriodKey(period BudgetPeriod, year, month int) string {
	if period == BudgetPeriodYearly {
		return fmt.Sprintf("yearly-%d", year)
	}
	return fmt.Sprintf("monthly-%d-%d", year, month)
}

// PeriodWindow returns the first and last instant of the budget's period
// instance in the given location.
func (b *Budget) PeriodWindow(loc *time.Location) (time.Time, time.Time) {
	if b.Period == BudgetPeriodYearly {
		start := time.Date(b.Year, time.January, 1, 0, 0, 0, 0, loc)
		end := time.Date(b.Year, time.December, 31, 23, 59, 59, 999999999, loc)
		return start, end
	}
	start := time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
