package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Query    string
	Type     *models.TransactionType
	Category string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionUpdate holds the editable fields of a transaction; nil fields
// are left unchanged.
type TransactionUpdate struct {
	Type        *models.TransactionType
	Description *string
	Amount      *int64
	Category    *string
	Date        *time.Time
	IsRecurring *bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, txType models.TransactionType, description string, amount int64, category string, date time.Time, isRecurring bool) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// Alert tiers for the whole-account monthly budget.
const (
	BudgetAlertNone = ""
	BudgetAlertAt70 = "at_70"
	BudgetAlertOver = "over"
)

// BudgetStatus is the whole-account spend-vs-budget picture for one month.
type BudgetStatus struct {
	Budget    int64   `json:"budget"`
	Spent     int64   `json:"spent"`
	Remaining int64   `json:"remaining"`
	Percent   float64 `json:"percent"`
	Alert     string  `json:"alert,omitempty"`
}

// BudgetServicer computes status against the user's single monthly budget
// scalar. Per-category caps are handled by CategoryBudgetServicer; the two
// mechanisms are semantically distinct and deliberately not unified.
type BudgetServicer interface {
	GetBudgetStatus(userID uint, ref time.Time) (*BudgetStatus, error)
	SetMonthlyBudget(userID uint, amount int64, ref time.Time) (*BudgetStatus, error)
}

// CategoryBudgetStatus is a stored category budget with its computed
// spend figures for the current period instance.
type CategoryBudgetStatus struct {
	models.Budget
	Spent     int64   `json:"spent"`
	Remaining int64   `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// BudgetAlert is one threshold crossing eligible for notification.
type BudgetAlert struct {
	BudgetID     uint    `json:"budget_id"`
	Category     string  `json:"category"`
	Threshold    int     `json:"threshold"`
	Percent      float64 `json:"percent"`
	Spent        int64   `json:"spent"`
	BudgetAmount int64   `json:"budget_amount"`
	Message      string  `json:"message"`
}

// CategoryBudgetServicer defines the contract for per-category budgets,
// rollover, and threshold alerting.
type CategoryBudgetServicer interface {
	SetCategoryBudget(userID uint, category string, amount int64, period models.BudgetPeriod, rollover bool, thresholds []int, ref time.Time) (*models.Budget, error)
	ListCategoryBudgets(userID uint, period models.BudgetPeriod, ref time.Time) ([]CategoryBudgetStatus, error)
	DeleteCategoryBudget(userID, budgetID uint) error
	Rollover(userID uint, ref time.Time) ([]models.Budget, error)
	EvaluateAlerts(userID uint, ref time.Time) ([]BudgetAlert, error)
	MarkAlertSent(userID, budgetID uint, threshold int, now time.Time) error
}

// RecurringCandidate is a detected recurring pattern proposed to the user.
// Candidates are never persisted by the detector itself.
type RecurringCandidate struct {
	Description string                 `json:"description"`
	Amount      int64                  `json:"amount"`
	Category    string                 `json:"category"`
	Type        models.TransactionType `json:"type"`
	Frequency   models.Frequency       `json:"frequency"`
	StartDate   time.Time              `json:"start_date"`
	NextDueDate time.Time              `json:"next_due_date"`
	Occurrences int                    `json:"occurrences"`
	Confidence  float64                `json:"confidence"`
}

// RecurrenceServicer scans transaction history for recurring patterns.
type RecurrenceServicer interface {
	Detect(userID uint, windowDays int, now time.Time) ([]RecurringCandidate, error)
}

// RecurringInput holds the fields for creating a recurring transaction.
type RecurringInput struct {
	Type        models.TransactionType
	Description string
	Amount      int64
	Category    string
	Frequency   models.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	NextDueDate time.Time
	AutoCreate  bool
	BudgetID    *uint
}

// RecurringUpdate holds editable recurring transaction fields; nil fields
// are left unchanged.
type RecurringUpdate struct {
	Description *string
	Amount      *int64
	Category    *string
	Frequency   *models.Frequency
	EndDate     *time.Time
	NextDueDate *time.Time
	IsActive    *bool
	AutoCreate  *bool
}

// RecurringServicer defines the contract for recurring transaction
// templates and their materialization into real transactions.
type RecurringServicer interface {
	ListRecurring(userID uint) ([]models.RecurringTransaction, error)
	CreateRecurring(userID uint, input RecurringInput) (*models.RecurringTransaction, error)
	UpdateRecurring(userID, recurringID uint, update RecurringUpdate) (*models.RecurringTransaction, error)
	DeleteRecurring(userID, recurringID uint) error
	Materialize(userID, recurringID uint) (*models.Transaction, *models.RecurringTransaction, error)
}

// SubscriptionInput holds the fields for creating a subscription.
type SubscriptionInput struct {
	Name               string
	Amount             int64
	Category           string
	BillingCycle       models.BillingCycle
	StartDate          time.Time
	NextBillingDate    time.Time
	IsTrial            bool
	TrialEndDate       *time.Time
	CancelReminderDays int
	Description        string
}

// SubscriptionUpdate holds editable subscription fields; nil fields are
// left unchanged.
type SubscriptionUpdate struct {
	Name               *string
	Amount             *int64
	Category           *string
	BillingCycle       *models.BillingCycle
	NextBillingDate    *time.Time
	IsActive           *bool
	IsTrial            *bool
	TrialEndDate       *time.Time
	CancelReminderDays *int
	Description        *string
}

// SubscriptionRenewal is a subscription annotated with days until its
// next billing date.
type SubscriptionRenewal struct {
	models.Subscription
	DaysUntilRenewal int `json:"days_until_renewal"`
}

// SubscriptionInsights aggregates active subscription costs.
type SubscriptionInsights struct {
	Total             int                   `json:"total"`
	MonthlyTotal      int64                 `json:"monthly_total"`
	MonthlyEquivalent int64                 `json:"monthly_equivalent"`
	YearlyEquivalent  int64                 `json:"yearly_equivalent"`
	UpcomingRenewals  int                   `json:"upcoming_renewals"`
	TrialEnding       int                   `json:"trial_ending"`
	Subscriptions     []SubscriptionRenewal `json:"subscriptions"`
}

// CancelReminder flags a subscription renewing within its reminder window.
type CancelReminder struct {
	Subscription models.Subscription `json:"subscription"`
	DaysUntil    int                 `json:"days_until"`
	Message      string              `json:"message"`
}

// SubscriptionServicer defines the contract for subscription tracking.
type SubscriptionServicer interface {
	ListSubscriptions(userID uint) ([]models.Subscription, error)
	CreateSubscription(userID uint, input SubscriptionInput) (*models.Subscription, error)
	UpdateSubscription(userID, subscriptionID uint, update SubscriptionUpdate) (*models.Subscription, error)
	DeleteSubscription(userID, subscriptionID uint) error
	Insights(userID uint, now time.Time) (*SubscriptionInsights, error)
	CancelReminders(userID uint, now time.Time) ([]CancelReminder, error)
}

// DayTrend is spending aggregated over one weekday.
type DayTrend struct {
	Day     string  `json:"day"`
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// TrendReport summarizes day-of-week spending patterns.
type TrendReport struct {
	DayOfWeek          []DayTrend `json:"day_of_week"`
	HighestSpendingDay string     `json:"highest_spending_day"`
	PercentDifference  float64    `json:"percent_difference"`
	Message            string     `json:"message"`
}

// Spending trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// ForecastReport projects next month's spending from recent history.
type ForecastReport struct {
	Forecast       int64   `json:"forecast"`
	Trend          string  `json:"trend"`
	Confidence     int     `json:"confidence"`
	PreviousMonths []int64 `json:"previous_months"`
	Average        int64   `json:"average"`
}

// VelocityReport is the current month's burn rate.
type VelocityReport struct {
	DailyRate        int64 `json:"daily_rate"`
	WeeklyRate       int64 `json:"weekly_rate"`
	ProjectedMonthly int64 `json:"projected_monthly"`
	CurrentSpending  int64 `json:"current_spending"`
	DaysElapsed      int   `json:"days_elapsed"`
	DaysRemaining    int   `json:"days_remaining"`
}

// ComparisonPeriod selects the window pair for category comparison.
type ComparisonPeriod string

// Comparison periods.
const (
	ComparisonPeriodMonth ComparisonPeriod = "month"
	ComparisonPeriodYear  ComparisonPeriod = "year"
)

// CategoryComparison is one category's period-over-period change.
type CategoryComparison struct {
	Category string  `json:"category"`
	Current  int64   `json:"current"`
	Previous int64   `json:"previous"`
	Change   float64 `json:"change"`
	Trend    string  `json:"trend"`
}

// HeatmapCell is one day's spending with a 0-100 intensity relative to the
// year's maximum daily spend.
type HeatmapCell struct {
	Date      string  `json:"date"`
	Amount    int64   `json:"amount"`
	Intensity float64 `json:"intensity"`
}

// HeatmapReport is a year of daily spending intensities.
type HeatmapReport struct {
	Year        int           `json:"year"`
	Data        []HeatmapCell `json:"data"`
	MaxSpending int64         `json:"max_spending"`
	TotalDays   int           `json:"total_days"`
}

// Insight severities.
const (
	InsightTypeWarning = "warning"
	InsightTypeInfo    = "info"
)

// Insight is one rule-based observation about recent spending.
type Insight struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
	Current  int64  `json:"current,omitempty"`
	Previous int64  `json:"previous,omitempty"`
	Days     int    `json:"days,omitempty"`
}

// AnalyticsServicer derives trends, forecasts, and insights from a user's
// transaction history. All methods are read-only.
type AnalyticsServicer interface {
	Trends(userID uint, days int, now time.Time) (*TrendReport, error)
	Forecast(userID uint, now time.Time) (*ForecastReport, error)
	Velocity(userID uint, now time.Time) (*VelocityReport, error)
	CompareCategories(userID uint, period ComparisonPeriod, now time.Time) ([]CategoryComparison, error)
	Heatmap(userID uint, year int) (*HeatmapReport, error)
	Insights(userID uint, now time.Time) ([]Insight, error)
}

// SplitInput is one explicit member share supplied by the caller.
type SplitInput struct {
	UserID     uint    `json:"user_id"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage,omitempty"`
}

// ExpenseInput holds the fields for creating a shared expense.
type ExpenseInput struct {
	Description string
	TotalAmount int64
	Category    string
	Date        time.Time
	Splits      []SplitInput
	SplitEqual  bool
}

// ExpenseUpdate holds editable shared-expense fields; nil fields are left
// unchanged.
type ExpenseUpdate struct {
	Description *string
	TotalAmount *int64
	Category    *string
	Date        *time.Time
	Splits      []SplitInput
	IsSettled   *bool
}

// GroupServicer defines the contract for expense-sharing groups, their
// membership, and shared expenses.
type GroupServicer interface {
	CreateGroup(userID uint, name, description string) (*models.Group, error)
	GetUserGroups(userID uint) ([]models.Group, error)
	GetGroupByID(userID, groupID uint) (*models.Group, error)
	UpdateGroup(userID, groupID uint, name, description string) (*models.Group, error)
	DeleteGroup(userID, groupID uint) error
	AddMember(userID, groupID uint, email string, role models.MemberRole) (*models.Group, error)
	UpdateMemberRole(userID, groupID, memberID uint, role models.MemberRole) (*models.Group, error)
	RemoveMember(userID, groupID, memberID uint) error
	PreviewEqualSplit(userID, groupID uint, total int64) ([]models.ExpenseSplit, error)
	ListExpenses(userID, groupID uint) ([]models.SharedExpense, error)
	CreateExpense(userID, groupID uint, input ExpenseInput) (*models.SharedExpense, error)
	UpdateExpense(userID, groupID, expenseID uint, update ExpenseUpdate) (*models.SharedExpense, error)
	DeleteExpense(userID, groupID, expenseID uint) error
}

// GoalUpdate holds editable savings goal fields; nil fields are left
// unchanged.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *int64
	CurrentAmount *int64
	TargetDate    *time.Time
	Description   *string
}

// GoalProgress is a savings goal with its completion percentage.
type GoalProgress struct {
	models.SavingsGoal
	Percent float64 `json:"percent"`
}

// GoalServicer defines the contract for savings goals.
type GoalServicer interface {
	ListGoals(userID uint) ([]GoalProgress, error)
	CreateGoal(userID uint, name string, targetAmount, currentAmount int64, targetDate *time.Time, description string) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID uint, update GoalUpdate) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID uint) error
}

// TemplateServicer defines the contract for budget templates.
type TemplateServicer interface {
	ListTemplates() ([]models.BudgetTemplate, error)
	ApplyTemplate(userID, templateID uint, ref time.Time) ([]models.Budget, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
