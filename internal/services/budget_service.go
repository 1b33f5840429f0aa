package services

import (
	"time"

	"gorm.io/gorm"

	"fintrack/internal/aggregate"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// budgetService computes spend against the user's whole-account monthly
// budget scalar.
type budgetService struct {
	db          *gorm.DB
	userService UserServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, userService UserServicer) BudgetServicer {
	return &budgetService{db: db, userService: userService}
}

// GetBudgetStatus returns spend-vs-budget for the month containing ref.
func (s *budgetService) GetBudgetStatus(userID uint, ref time.Time) (*BudgetStatus, error) {
	user, err := s.userService.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	start, end := monthWindow(ref)
	spent, err := sumExpenses(s.db, userID, "", start, end)
	if err != nil {
		return nil, err
	}

	budget := user.MonthlyBudget
	percent := aggregate.PercentOf(spent, budget)

	remaining := budget - spent
	if remaining < 0 {
		remaining = 0
	}

	// Ties resolve to the highest tier that applies.
	alert := BudgetAlertNone
	if budget > 0 {
		switch {
		case percent >= 100:
			alert = BudgetAlertOver
		case percent >= 70:
			alert = BudgetAlertAt70
		}
	}

	return &BudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: remaining,
		Percent:   percent,
		Alert:     alert,
	}, nil
}

// SetMonthlyBudget updates the user's whole-account cap and returns the
// recomputed status.
func (s *budgetService) SetMonthlyBudget(userID uint, amount int64, ref time.Time) (*BudgetStatus, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget must not be negative")
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("monthly_budget", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBudgetStatus(userID, ref)
}
