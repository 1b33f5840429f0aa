package models

import "time"

// SharedExpense is an expense split among the members of a group.
// The split amounts always sum exactly to TotalAmount.
type SharedExpense struct {
	Base
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`
	Description string    `gorm:"not null" json:"description"`
	TotalAmount int64     `gorm:"type:bigint;not null" json:"total_amount"`
	Category    string    `gorm:"not null" json:"category"`
	Date        time.Time `gorm:"not null" json:"date"`
	IsSettled   bool      `gorm:"default:false" json:"is_settled"`

	Splits []ExpenseSplit `gorm:"foreignKey:SharedExpenseID" json:"splits"`
}

// ExpenseSplit is one member's share of a shared expense.
type ExpenseSplit struct {
	Base
	SharedExpenseID uint    `gorm:"not null;index" json:"shared_expense_id"`
	UserID          uint    `gorm:"not null" json:"user_id"`
	Amount          int64   `gorm:"type:bigint;not null" json:"amount"`
	Percentage      float64 `json:"percentage,omitempty"`
}
