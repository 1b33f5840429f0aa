package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique email and the password
// "password123".
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@example.com", nextID()))
}

// CreateTestUserWithEmail creates a user with the given email and the
// password "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     "Test User",
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction for the user.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount int64, category string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		Type:        txType,
		Description: fmt.Sprintf("test transaction %d", nextID()),
		Amount:      amount,
		Category:    category,
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a monthly category budget for the given month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category string, amount int64, year, month int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:          userID,
		Category:        category,
		Amount:          amount,
		Period:          models.BudgetPeriodMonthly,
		Year:            year,
		Month:           month,
		AlertThresholds: models.DefaultAlertThresholds,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestRecurring creates an active recurring transaction due at the
// given date.
func CreateTestRecurring(t *testing.T, db *gorm.DB, userID uint, frequency models.Frequency, amount int64, nextDue time.Time) *models.RecurringTransaction {
	t.Helper()

	entry := &models.RecurringTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeExpense,
		Description: fmt.Sprintf("test recurring %d", nextID()),
		Amount:      amount,
		Category:    "Bills",
		Frequency:   frequency,
		StartDate:   nextDue,
		NextDueDate: nextDue,
		IsActive:    true,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return entry
}

// CreateTestSubscription creates an active subscription billing next at the
// given date.
func CreateTestSubscription(t *testing.T, db *gorm.DB, userID uint, name string, amount int64, cycle models.BillingCycle, nextBilling time.Time) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		UserID:             userID,
		Name:               name,
		Amount:             amount,
		Category:           "Subscriptions",
		BillingCycle:       cycle,
		StartDate:          nextBilling.AddDate(0, -1, 0),
		NextBillingDate:    nextBilling,
		IsActive:           true,
		CancelReminderDays: 3,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subscription: %v", err)
	}
	return sub
}

// CreateTestGroup creates a group with the creator as its admin member.
func CreateTestGroup(t *testing.T, db *gorm.DB, creatorID uint) *models.Group {
	t.Helper()

	group := &models.Group{
		Name:      fmt.Sprintf("Test Group %d", nextID()),
		CreatedBy: creatorID,
		IsActive:  true,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}

	member := &models.GroupMember{
		GroupID:  group.ID,
		UserID:   creatorID,
		Role:     models.MemberRoleAdmin,
		JoinedAt: time.Now(),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test group member: %v", err)
	}
	return group
}

// AddTestMember adds a user to a group with the given role.
func AddTestMember(t *testing.T, db *gorm.DB, groupID, userID uint, role models.MemberRole) *models.GroupMember {
	t.Helper()

	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to add test group member: %v", err)
	}
	return member
}

// CreateTestGoal creates a savings goal for the user.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target, current int64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: current,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test savings goal: %v", err)
	}
	return goal
}
