package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/aggregate"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// alertCooldown is the minimum interval between repeat alerts for the
// same budget threshold.
const alertCooldown = 24 * time.Hour

// categoryBudgetService manages per-category budget records, rollover,
// and threshold alerting.
type categoryBudgetService struct {
	db *gorm.DB
}

// NewCategoryBudgetService creates a new CategoryBudgetServicer.
func NewCategoryBudgetService(db *gorm.DB) CategoryBudgetServicer {
	return &categoryBudgetService{db: db}
}

// periodFields resolves the year/month key for a period anchored at ref.
// Yearly budgets store month 0.
func periodFields(period models.BudgetPeriod, ref time.Time) (int, int) {
	if period == models.BudgetPeriodYearly {
		return ref.Year(), 0
	}
	return ref.Year(), int(ref.Month())
}

// SetCategoryBudget creates or replaces the budget identified by
// (user, category, period, year, month).
func (s *categoryBudgetService) SetCategoryBudget(
	userID uint,
	category string,
	amount int64,
	period models.BudgetPeriod,
	rollover bool,
	thresholds []int,
	ref time.Time,
) (*models.Budget, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodYearly {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be monthly or yearly")
	}

	thresholdList := models.IntList(thresholds)
	if len(thresholdList) == 0 {
		thresholdList = models.DefaultAlertThresholds
	}

	year, month := periodFields(period, ref)

	var budget models.Budget
	err := s.db.Where("user_id = ? AND category = ? AND period = ? AND year = ? AND month = ?",
		userID, category, period, year, month).First(&budget).Error
	switch {
	case err == nil:
		budget.Amount = amount
		budget.Rollover = rollover
		budget.AlertThresholds = thresholdList
		if err := s.db.Save(&budget).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &budget, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		budget = models.Budget{
			UserID:          userID,
			Category:        category,
			Amount:          amount,
			Period:          period,
			Year:            year,
			Month:           month,
			Rollover:        rollover,
			AlertThresholds: thresholdList,
			AlertsSent:      models.AlertLog{},
		}
		if err := s.db.Create(&budget).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &budget, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// ListCategoryBudgets returns the user's budgets for the period instance
// containing ref, each with computed spend figures.
func (s *categoryBudgetService) ListCategoryBudgets(userID uint, period models.BudgetPeriod, ref time.Time) ([]CategoryBudgetStatus, error) {
	year, month := periodFields(period, ref)

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND period = ? AND year = ? AND month = ?",
		userID, period, year, month).
		Order("category ASC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	statuses := make([]CategoryBudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		status, err := s.statusFor(budget, ref.Location())
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *categoryBudgetService) statusFor(budget models.Budget, loc *time.Location) (CategoryBudgetStatus, error) {
	start, end := budget.PeriodWindow(loc)
	spent, err := sumExpenses(s.db, budget.UserID, budget.Category, start, end)
	if err != nil {
		return CategoryBudgetStatus{}, err
	}

	remaining := budget.Amount - spent
	if remaining < 0 {
		remaining = 0
	}

	return CategoryBudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: remaining,
		Percent:   aggregate.PercentOf(spent, budget.Amount),
	}, nil
}

// DeleteCategoryBudget soft-deletes a budget owned by the user.
func (s *categoryBudgetService) DeleteCategoryBudget(userID, budgetID uint) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Rollover carries last month's unspent amounts into this month for every
// prior-month budget with rollover enabled. The destination budget records
// the source period key, so running rollover again for the same month pair
// is a no-op rather than a double credit.
func (s *categoryBudgetService) Rollover(userID uint, ref time.Time) ([]models.Budget, error) {
	prev := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, -1, 0)
	prevYear, prevMonth := prev.Year(), int(prev.Month())
	curYear, curMonth := ref.Year(), int(ref.Month())
	sourceKey := models.PeriodKey(models.BudgetPeriodMonthly, prevYear, prevMonth)

	var sources []models.Budget
	if err := s.db.Where("user_id = ? AND period = ? AND year = ? AND month = ? AND rollover = ?",
		userID, models.BudgetPeriodMonthly, prevYear, prevMonth, true).
		Find(&sources).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rolled []models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, source := range sources {
			start, end := source.PeriodWindow(ref.Location())
			spent, err := sumExpenses(tx, userID, source.Category, start, end)
			if err != nil {
				return err
			}

			carry := source.Amount - spent
			if carry <= 0 {
				continue
			}

			var dest models.Budget
			err = tx.Where("user_id = ? AND category = ? AND period = ? AND year = ? AND month = ?",
				userID, source.Category, models.BudgetPeriodMonthly, curYear, curMonth).
				First(&dest).Error
			switch {
			case err == nil:
				if dest.RolledOverFrom == sourceKey {
					continue // already rolled over for this month pair
				}
				dest.Amount += carry
				dest.RolledOverFrom = sourceKey
				if err := tx.Save(&dest).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				dest = models.Budget{
					UserID:          userID,
					Category:        source.Category,
					Amount:          carry,
					Period:          models.BudgetPeriodMonthly,
					Year:            curYear,
					Month:           curMonth,
					Rollover:        source.Rollover,
					RolledOverFrom:  sourceKey,
					AlertThresholds: source.AlertThresholds,
					AlertsSent:      models.AlertLog{},
				}
				if err := tx.Create(&dest).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			default:
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			rolled = append(rolled, dest)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rolled == nil {
		rolled = []models.Budget{}
	}
	return rolled, nil
}

// EvaluateAlerts returns one alert per crossed threshold per budget in the
// current period, honoring the 24-hour cooldown. Alerts are not recorded
// as sent here; callers confirm delivery via MarkAlertSent.
func (s *categoryBudgetService) EvaluateAlerts(userID uint, ref time.Time) ([]BudgetAlert, error) {
	year, month := periodFields(models.BudgetPeriodMonthly, ref)

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND period = ? AND year = ? AND month = ?",
		userID, models.BudgetPeriodMonthly, year, month).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	alerts := []BudgetAlert{}
	for _, budget := range budgets {
		status, err := s.statusFor(budget, ref.Location())
		if err != nil {
			return nil, err
		}

		for _, threshold := range budget.AlertThresholds.Ascending() {
			if status.Percent < float64(threshold) {
				continue
			}
			if last := budget.AlertsSent.LastSentAt(threshold); !last.IsZero() && ref.Sub(last) < alertCooldown {
				continue
			}
			alerts = append(alerts, BudgetAlert{
				BudgetID:     budget.ID,
				Category:     budget.Category,
				Threshold:    threshold,
				Percent:      status.Percent,
				Spent:        status.Spent,
				BudgetAmount: budget.Amount,
				Message: fmt.Sprintf("You've used %.0f%% of your %s budget",
					status.Percent, budget.Category),
			})
		}
	}
	return alerts, nil
}

// MarkAlertSent appends a send timestamp for the threshold. History is
// never pruned.
func (s *categoryBudgetService) MarkAlertSent(userID, budgetID uint, threshold int, now time.Time) error {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget.AlertsSent.RecordSent(threshold, now)
	if err := s.db.Model(&budget).Update("alerts_sent", budget.AlertsSent).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
