package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/schedule"
)

// recurringService manages recurring transaction templates.
type recurringService struct {
	db *gorm.DB
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB) RecurringServicer {
	return &recurringService{db: db}
}

// ListRecurring returns the user's recurring transactions, soonest due first.
func (s *recurringService) ListRecurring(userID uint) ([]models.RecurringTransaction, error) {
	var entries []models.RecurringTransaction
	if err := s.db.Where("user_id = ?", userID).
		Order("next_due_date ASC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// CreateRecurring creates a recurring transaction template.
func (s *recurringService) CreateRecurring(userID uint, input RecurringInput) (*models.RecurringTransaction, error) {
	if input.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}
	if _, err := schedule.Next(time.Now(), input.Frequency); err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid frequency")
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}
	nextDueDate := input.NextDueDate
	if nextDueDate.IsZero() {
		nextDueDate = startDate
	}

	entry := &models.RecurringTransaction{
		UserID:      userID,
		Type:        input.Type,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Frequency:   input.Frequency,
		StartDate:   startDate,
		EndDate:     input.EndDate,
		NextDueDate: nextDueDate,
		IsActive:    true,
		AutoCreate:  input.AutoCreate,
		BudgetID:    input.BudgetID,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

func (s *recurringService) getRecurring(userID, recurringID uint) (*models.RecurringTransaction, error) {
	var entry models.RecurringTransaction
	if err := s.db.Where("id = ? AND user_id = ?", recurringID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateRecurring edits a recurring transaction's fields.
func (s *recurringService) UpdateRecurring(userID, recurringID uint, update RecurringUpdate) (*models.RecurringTransaction, error) {
	entry, err := s.getRecurring(userID, recurringID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Description != nil {
		updates["description"] = *update.Description
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
	if update.Frequency != nil {
		if _, err := schedule.Next(time.Now(), *update.Frequency); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid frequency")
		}
		updates["frequency"] = *update.Frequency
	}
	if update.EndDate != nil {
		updates["end_date"] = update.EndDate
	}
	if update.NextDueDate != nil {
		updates["next_due_date"] = *update.NextDueDate
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if update.AutoCreate != nil {
		updates["auto_create"] = *update.AutoCreate
	}

	if len(updates) > 0 {
		if err := s.db.Model(entry).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return entry, nil
}

// DeleteRecurring soft-deletes a recurring transaction.
func (s *recurringService) DeleteRecurring(userID, recurringID uint) error {
	entry, err := s.getRecurring(userID, recurringID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Materialize creates a transaction from the template, dated at the
// current due date, then advances the due date one frequency step. The
// entry deactivates once the new due date passes its end date. Both
// writes happen in one database transaction so a failed advance never
// leaves an orphaned transaction behind.
func (s *recurringService) Materialize(userID, recurringID uint) (*models.Transaction, *models.RecurringTransaction, error) {
	entry, err := s.getRecurring(userID, recurringID)
	if err != nil {
		return nil, nil, err
	}
	if !entry.IsActive {
		return nil, nil, apperrors.ErrRecurringInactive
	}

	next, err := schedule.Next(entry.NextDueDate, entry.Frequency)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        entry.Type,
		Description: entry.Description,
		Amount:      entry.Amount,
		Category:    entry.Category,
		Date:        entry.NextDueDate,
		IsRecurring: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		entry.NextDueDate = next
		if entry.EndDate != nil && next.After(*entry.EndDate) {
			entry.IsActive = false
		}
		if err := tx.Save(entry).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return transaction, entry, nil
}
