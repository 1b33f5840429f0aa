package models

import "time"

// BillingCycle represents how often a subscription renews
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

// Subscription tracks a recurring cost for renewal and cancellation
// reminders. Unlike RecurringTransaction it never creates transactions.
type Subscription struct {
	Base
	UserID             uint         `gorm:"not null;index:idx_subscription_billing" json:"user_id"`
	Name               string       `gorm:"not null" json:"name"`
	Amount             int64        `gorm:"type:bigint;not null" json:"amount"`
	Category           string       `gorm:"default:Subscriptions" json:"category"`
	BillingCycle       BillingCycle `gorm:"not null;default:monthly" json:"billing_cycle"`
	StartDate          time.Time    `gorm:"not null" json:"start_date"`
	NextBillingDate    time.Time    `gorm:"not null;index:idx_subscription_billing" json:"next_billing_date"`
	IsActive           bool         `gorm:"default:true;index:idx_subscription_billing" json:"is_active"`
	IsTrial            bool         `gorm:"default:false" json:"is_trial"`
	TrialEndDate       *time.Time   `json:"trial_end_date,omitempty"`
	CancelReminderDays int          `gorm:"default:3" json:"cancel_reminder_days"`
	Description        string       `json:"description"`
}
