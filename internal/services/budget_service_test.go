package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestGetBudgetStatus(t *testing.T) {
	ref := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no_budget_set", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 5000, "Food", ref)

		status, err := svc.GetBudgetStatus(user.ID, ref)
		testutil.AssertNoError(t, err)

		if status.Budget != 0 {
			t.Errorf("expected budget 0, got %d", status.Budget)
		}
		if status.Spent != 5000 {
			t.Errorf("expected spent 5000, got %d", status.Spent)
		}
		if status.Percent != 0 {
			t.Errorf("expected percent 0 with no budget, got %f", status.Percent)
		}
		if status.Alert != BudgetAlertNone {
			t.Errorf("expected no alert, got %s", status.Alert)
		}
	})

	t.Run("under_70_percent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		if _, err := svc.SetMonthlyBudget(user.ID, 100000, ref); err != nil {
			t.Fatalf("failed to set budget: %v", err)
		}
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 50000, "Food", ref)

		status, err := svc.GetBudgetStatus(user.ID, ref)
		testutil.AssertNoError(t, err)

		if status.Percent != 50.0 {
			t.Errorf("expected percent 50.0, got %f", status.Percent)
		}
		if status.Remaining != 50000 {
			t.Errorf("expected remaining 50000, got %d", status.Remaining)
		}
		if status.Alert != BudgetAlertNone {
			t.Errorf("expected no alert, got %s", status.Alert)
		}
	})

	t.Run("at_70_alert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		if _, err := svc.SetMonthlyBudget(user.ID, 100000, ref); err != nil {
			t.Fatalf("failed to set budget: %v", err)
		}
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 75000, "Food", ref)

		status, err := svc.GetBudgetStatus(user.ID, ref)
		testutil.AssertNoError(t, err)

		if status.Percent != 75.0 {
			t.Errorf("expected percent 75.0, got %f", status.Percent)
		}
		if status.Alert != BudgetAlertAt70 {
			t.Errorf("expected at_70 alert, got %s", status.Alert)
		}
	})

	t.Run("over_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		if _, err := svc.SetMonthlyBudget(user.ID, 50000, ref); err != nil {
			t.Fatalf("failed to set budget: %v", err)
		}
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 60000, "Food", ref)

		status, err := svc.GetBudgetStatus(user.ID, ref)
		testutil.AssertNoError(t, err)

		if status.Percent != 120.0 {
			t.Errorf("expected percent 120.0, got %f", status.Percent)
		}
		if status.Remaining != 0 {
			t.Errorf("expected remaining clamped to 0, got %d", status.Remaining)
		}
		if status.Alert != BudgetAlertOver {
			t.Errorf("expected over alert, got %s", status.Alert)
		}
	})

	t.Run("exactly_100_percent_is_over", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		if _, err := svc.SetMonthlyBudget(user.ID, 50000, ref); err != nil {
			t.Fatalf("failed to set budget: %v", err)
		}
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 50000, "Food", ref)

		status, err := svc.GetBudgetStatus(user.ID, ref)
		testutil.AssertNoError(t, err)

		if status.Alert != BudgetAlertOver {
			t.Errorf("expected over alert at exactly 100%%, got %s", status.Alert)
		}
	})

	t.Run("ignores_income_and_other_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		if _, err := svc.SetMonthlyBudget(user.ID, 100000, ref); err != nil {
			t.Fatalf("failed to set budget: %v", err)
		}
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 99999, "Salary", ref)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 88888, "Food", ref.AddDate(0, -1, 0))
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", ref)

		status, err := svc.GetBudgetStatus(user.ID, ref)
		testutil.AssertNoError(t, err)

		if status.Spent != 1000 {
			t.Errorf("expected spent 1000, got %d", status.Spent)
		}
	})

	t.Run("user_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))

		_, err := svc.GetBudgetStatus(9999, ref)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestSetMonthlyBudget(t *testing.T) {
	ref := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		status, err := svc.SetMonthlyBudget(user.ID, 200000, ref)
		testutil.AssertNoError(t, err)

		if status.Budget != 200000 {
			t.Errorf("expected budget 200000, got %d", status.Budget)
		}

		var stored models.User
		if err := db.First(&stored, user.ID).Error; err != nil {
			t.Fatalf("failed to reload user: %v", err)
		}
		if stored.MonthlyBudget != 200000 {
			t.Errorf("expected stored budget 200000, got %d", stored.MonthlyBudget)
		}
	})

	t.Run("negative", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db, NewUserService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.SetMonthlyBudget(user.ID, -1, ref)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
