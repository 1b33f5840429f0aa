package models

import "time"

// SavingsGoal tracks progress toward a savings target.
type SavingsGoal struct {
	Base
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;default:0" json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
	Description   string     `json:"description"`
}
