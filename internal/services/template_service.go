package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// templateService serves budget templates and applies them as category
// budgets.
type templateService struct {
	db      *gorm.DB
	budgets CategoryBudgetServicer
}

// NewTemplateService creates a new TemplateServicer.
func NewTemplateService(db *gorm.DB, budgets CategoryBudgetServicer) TemplateServicer {
	return &templateService{db: db, budgets: budgets}
}

// ListTemplates returns every template with its items.
func (s *templateService) ListTemplates() ([]models.BudgetTemplate, error) {
	var templates []models.BudgetTemplate
	if err := s.db.Preload("Items").
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// ApplyTemplate copies a template's items into the user's monthly category
// budgets for the month containing ref. Existing budgets for the same
// categories are replaced.
func (s *templateService) ApplyTemplate(userID, templateID uint, ref time.Time) ([]models.Budget, error) {
	var template models.BudgetTemplate
	if err := s.db.Preload("Items").First(&template, templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	applied := make([]models.Budget, 0, len(template.Items))
	for _, item := range template.Items {
		budget, err := s.budgets.SetCategoryBudget(
			userID, item.Category, item.Amount,
			models.BudgetPeriodMonthly, false, nil, ref)
		if err != nil {
			return nil, err
		}
		applied = append(applied, *budget)
	}
	return applied, nil
}

// SeedDefaultTemplates inserts the built-in templates if none exist yet.
// Amounts are in cents.
func SeedDefaultTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.BudgetTemplate{}).
		Where("is_default = ?", true).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	templates := []models.BudgetTemplate{
		{
			Name:        "Student Essentials",
			Description: "Lean budget for students living on a stipend or part-time income",
			Lifestyle:   models.LifestyleStudent,
			IsDefault:   true,
			Items: []models.TemplateItem{
				{Category: "Food", Amount: 25000, Percentage: 25},
				{Category: "Transport", Amount: 10000, Percentage: 10},
				{Category: "Entertainment", Amount: 10000, Percentage: 10},
				{Category: "Education", Amount: 30000, Percentage: 30},
				{Category: "Shopping", Amount: 15000, Percentage: 15},
				{Category: "Other", Amount: 10000, Percentage: 10},
			},
		},
		{
			Name:        "Young Professional",
			Description: "Balanced budget for a single professional",
			Lifestyle:   models.LifestyleProfessional,
			IsDefault:   true,
			Items: []models.TemplateItem{
				{Category: "Housing", Amount: 120000, Percentage: 30},
				{Category: "Food", Amount: 60000, Percentage: 15},
				{Category: "Transport", Amount: 40000, Percentage: 10},
				{Category: "Entertainment", Amount: 40000, Percentage: 10},
				{Category: "Subscriptions", Amount: 20000, Percentage: 5},
				{Category: "Savings", Amount: 80000, Percentage: 20},
				{Category: "Other", Amount: 40000, Percentage: 10},
			},
		},
		{
			Name:        "Family Budget",
			Description: "Household budget covering dependents",
			Lifestyle:   models.LifestyleFamily,
			IsDefault:   true,
			Items: []models.TemplateItem{
				{Category: "Housing", Amount: 180000, Percentage: 30},
				{Category: "Food", Amount: 120000, Percentage: 20},
				{Category: "Transport", Amount: 60000, Percentage: 10},
				{Category: "Healthcare", Amount: 60000, Percentage: 10},
				{Category: "Education", Amount: 60000, Percentage: 10},
				{Category: "Savings", Amount: 60000, Percentage: 10},
				{Category: "Other", Amount: 60000, Percentage: 10},
			},
		},
		{
			Name:        "Retired",
			Description: "Fixed-income budget focused on essentials and healthcare",
			Lifestyle:   models.LifestyleRetired,
			IsDefault:   true,
			Items: []models.TemplateItem{
				{Category: "Housing", Amount: 80000, Percentage: 25},
				{Category: "Food", Amount: 64000, Percentage: 20},
				{Category: "Healthcare", Amount: 64000, Percentage: 20},
				{Category: "Transport", Amount: 32000, Percentage: 10},
				{Category: "Entertainment", Amount: 32000, Percentage: 10},
				{Category: "Other", Amount: 48000, Percentage: 15},
			},
		},
	}

	if err := db.Create(&templates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
