package models

// Lifestyle categorizes a budget template by the situation it fits
type Lifestyle string

const (
	LifestyleStudent      Lifestyle = "student"
	LifestyleProfessional Lifestyle = "professional"
	LifestyleFamily       Lifestyle = "family"
	LifestyleRetired      Lifestyle = "retired"
	LifestyleCustom       Lifestyle = "custom"
)

// BudgetTemplate is read-mostly reference data. Applying a template copies
// its items into the caller's category budgets for the current month.
type BudgetTemplate struct {
	Base
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Lifestyle   Lifestyle `gorm:"not null;default:custom" json:"lifestyle"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`

	Items []TemplateItem `gorm:"foreignKey:TemplateID" json:"items"`
}

// TemplateItem is one category allocation within a template.
type TemplateItem struct {
	Base
	TemplateID uint    `gorm:"not null;index" json:"template_id"`
	Category   string  `gorm:"not null" json:"category"`
	Amount     int64   `gorm:"type:bigint;not null" json:"amount"`
	Percentage float64 `json:"percentage,omitempty"`
}
