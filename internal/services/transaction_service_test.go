package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, "Lunch", 1500, "Food", date, false)
		testutil.AssertNoError(t, err)

		if tx.ID == 0 {
			t.Fatal("expected non-zero transaction ID")
		}
		if tx.Amount != 1500 {
			t.Errorf("expected amount 1500, got %d", tx.Amount)
		}
		if tx.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense type, got %s", tx.Type)
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, "Lunch", -1, "Food", date, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, "", 1500, "Food", date, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, models.TransactionType("transfer"), "Lunch", 1500, "Food", date, false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserTransactions(t *testing.T) {
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	t.Run("returns_user_transactions_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeExpense, 1000, "Food", date)
		testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeExpense, 2000, "Food", date)
		testutil.CreateTestTransaction(t, db, user2.ID, models.TransactionTypeExpense, 3000, "Food", date)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user1.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 transactions, got %d", result.TotalItems)
		}
	})

	t.Run("filters_by_type_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 2000, "Transport", date)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, 50000, "Salary", date)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		expense := models.TransactionTypeExpense
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{
			Type:     &expense,
			Category: "Food",
		})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
	})

	t.Run("filters_by_date_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 2000, "Food", date.AddDate(0, -2, 0))

		from := date.AddDate(0, -1, 0)
		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction in range, got %d", result.TotalItems)
		}
	})

	t.Run("search_by_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense, "Coffee at the corner shop", 450, "Food", date, false)
		testutil.AssertNoError(t, err)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 2000, "Food", date)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{Query: "Coffee"})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 match, got %d", result.TotalItems)
		}
		if result.Data[0].ID != tx.ID {
			t.Errorf("expected transaction %d, got %d", tx.ID, result.Data[0].ID)
		}
	})

	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date.AddDate(0, 0, -5))
		newest := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 2000, "Food", date)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 2 || result.Data[0].ID != newest.ID {
			t.Errorf("expected newest transaction first")
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date.AddDate(0, 0, -i))
		}

		page := pagination.PageRequest{Page: 1, PageSize: 2}
		result, err := svc.GetUserTransactions(user.ID, page, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", result.TotalPages)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page, got %d", len(result.Data))
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date)

		found, err := svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertNoError(t, err)

		if found.ID != tx.ID {
			t.Errorf("expected transaction %d, got %d", tx.ID, found.ID)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeExpense, 1000, "Food", date)

		_, err := svc.GetTransactionByID(user2.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date)

		newAmount := int64(2500)
		newCategory := "Dining"
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{
			Amount:   &newAmount,
			Category: &newCategory,
		})
		testutil.AssertNoError(t, err)

		fetched, err := svc.GetTransactionByID(user.ID, updated.ID)
		testutil.AssertNoError(t, err)
		if fetched.Amount != 2500 {
			t.Errorf("expected amount 2500, got %d", fetched.Amount)
		}
		if fetched.Category != "Dining" {
			t.Errorf("expected category Dining, got %s", fetched.Category)
		}
	})

	t.Run("rejects_negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date)

		negative := int64(-5)
		_, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{Amount: &negative})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateTransaction(user.ID, 9999, TransactionUpdate{})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	date := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	t.Run("soft_deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 1000, "Food", date)

		err := svc.DeleteTransaction(user.ID, tx.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.GetTransactionByID(user.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		var count int64
		db.Unscoped().Model(&models.Transaction{}).Where("id = ?", tx.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected soft-deleted record to exist, count=%d", count)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, user1.ID, models.TransactionTypeExpense, 1000, "Food", date)

		err := svc.DeleteTransaction(user2.ID, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
