package models

import "time"

// Frequency represents how often a recurring transaction repeats
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// RecurringTransaction is a template that materializes transactions on a
// schedule. NextDueDate only ever advances; IsActive flips to false once
// it would pass EndDate.
type RecurringTransaction struct {
	Base
	UserID      uint            `gorm:"not null;index:idx_recurring_due" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Description string          `gorm:"not null" json:"description"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    string          `gorm:"not null" json:"category"`
	Frequency   Frequency       `gorm:"not null" json:"frequency"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	NextDueDate time.Time       `gorm:"not null;index:idx_recurring_due" json:"next_due_date"`
	IsActive    bool            `gorm:"default:true;index:idx_recurring_due" json:"is_active"`
	AutoCreate  bool            `gorm:"default:false" json:"auto_create"`
	BudgetID    *uint           `json:"budget_id,omitempty"`

	Budget *Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}
