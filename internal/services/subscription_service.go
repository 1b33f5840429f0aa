package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/schedule"
)

// renewalWindow is the look-ahead for "upcoming renewal" and "trial
// ending" counts in subscription insights.
const renewalWindow = 7 * 24 * time.Hour

// subscriptionService tracks recurring costs and their renewal dates.
type subscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB) SubscriptionServicer {
	return &subscriptionService{db: db}
}

// ListSubscriptions returns the user's subscriptions, soonest billing first.
func (s *subscriptionService) ListSubscriptions(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	if err := s.db.Where("user_id = ?", userID).
		Order("next_billing_date ASC").
		Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// CreateSubscription registers a new subscription.
func (s *subscriptionService) CreateSubscription(userID uint, input SubscriptionInput) (*models.Subscription, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if _, err := schedule.NextBilling(time.Now(), input.BillingCycle); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid billing cycle")
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	nextBilling := input.NextBillingDate
	if nextBilling.IsZero() {
		next, err := schedule.NextBilling(startDate, input.BillingCycle)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		nextBilling = next
	}

	category := input.Category
	if category == "" {
		category = "Subscriptions"
	}
	reminderDays := input.CancelReminderDays
	if reminderDays <= 0 {
		reminderDays = 3
	}

	sub := &models.Subscription{
		UserID:             userID,
		Name:               input.Name,
		Amount:             input.Amount,
		Category:           category,
		BillingCycle:       input.BillingCycle,
		StartDate:          startDate,
		NextBillingDate:    nextBilling,
		IsActive:           true,
		IsTrial:            input.IsTrial,
		TrialEndDate:       input.TrialEndDate,
		CancelReminderDays: reminderDays,
		Description:        input.Description,
	}

	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

func (s *subscriptionService) getSubscription(userID, subscriptionID uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.Where("id = ? AND user_id = ?", subscriptionID, userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// UpdateSubscription edits a subscription's fields.
func (s *subscriptionService) UpdateSubscription(userID, subscriptionID uint, update SubscriptionUpdate) (*models.Subscription, error) {
	sub, err := s.getSubscription(userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Amount != nil {
		if *update.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		updates["amount"] = *update.Amount
	}
	if update.Category != nil {
		updates["category"] = *update.Category
	}
	if update.BillingCycle != nil {
		if _, err := schedule.NextBilling(time.Now(), *update.BillingCycle); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid billing cycle")
		}
		updates["billing_cycle"] = *update.BillingCycle
	}
	if update.NextBillingDate != nil {
		updates["next_billing_date"] = *update.NextBillingDate
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if update.IsTrial != nil {
		updates["is_trial"] = *update.IsTrial
	}
	if update.TrialEndDate != nil {
		updates["trial_end_date"] = update.TrialEndDate
	}
	if update.CancelReminderDays != nil {
		updates["cancel_reminder_days"] = *update.CancelReminderDays
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(sub).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return sub, nil
}

// DeleteSubscription soft-deletes a subscription.
func (s *subscriptionService) DeleteSubscription(userID, subscriptionID uint) error {
	sub, err := s.getSubscription(userID, subscriptionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(sub).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// daysUntil counts whole days from now to the target, rounding partial
// days up so a renewal 6.5 days out still shows 7.
func daysUntil(now, target time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

// Insights aggregates active subscription costs. Non-monthly cycles are
// normalized into monthly and yearly equivalents: a quarterly charge
// contributes a third of its amount per month, a yearly charge a twelfth.
func (s *subscriptionService) Insights(userID uint, now time.Time) (*SubscriptionInsights, error) {
	var subs []models.Subscription
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("next_billing_date ASC").
		Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	insights := &SubscriptionInsights{
		Total:         len(subs),
		Subscriptions: make([]SubscriptionRenewal, 0, len(subs)),
	}

	// Fractional cycle shares accumulate in float and are rounded once at
	// the end.
	var monthlyEquivalent float64

	windowEnd := now.Add(renewalWindow)
	for _, sub := range subs {
		switch sub.BillingCycle {
		case models.BillingCycleMonthly:
			insights.MonthlyTotal += sub.Amount
			monthlyEquivalent += float64(sub.Amount)
			insights.YearlyEquivalent += sub.Amount * 12
		case models.BillingCycleQuarterly:
			monthlyEquivalent += float64(sub.Amount) / 3
			insights.YearlyEquivalent += sub.Amount * 4
		case models.BillingCycleYearly:
			monthlyEquivalent += float64(sub.Amount) / 12
			insights.YearlyEquivalent += sub.Amount
		}

		if !sub.NextBillingDate.Before(now) && !sub.NextBillingDate.After(windowEnd) {
			insights.UpcomingRenewals++
		}
		if sub.IsTrial && sub.TrialEndDate != nil &&
			!sub.TrialEndDate.Before(now) && !sub.TrialEndDate.After(windowEnd) {
			insights.TrialEnding++
		}

		insights.Subscriptions = append(insights.Subscriptions, SubscriptionRenewal{
			Subscription:     sub,
			DaysUntilRenewal: daysUntil(now, sub.NextBillingDate),
		})
	}
	insights.MonthlyEquivalent = int64(math.Round(monthlyEquivalent))

	return insights, nil
}

// CancelReminders returns active subscriptions whose next billing date
// falls inside their per-subscription reminder window. Already-past
// billing dates are excluded.
func (s *subscriptionService) CancelReminders(userID uint, now time.Time) ([]CancelReminder, error) {
	var subs []models.Subscription
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("next_billing_date ASC").
		Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	reminders := []CancelReminder{}
	for _, sub := range subs {
		days := daysUntil(now, sub.NextBillingDate)
		if days <= 0 || days > sub.CancelReminderDays {
			continue
		}
		reminders = append(reminders, CancelReminder{
			Subscription: sub,
			DaysUntil:    days,
			Message:      fmt.Sprintf("%s renews in %d day(s)", sub.Name, days),
		})
	}
	return reminders, nil
}
