package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateRecurring(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry, err := svc.CreateRecurring(user.ID, RecurringInput{
			Type:        models.TransactionTypeExpense,
			Description: "Rent",
			Amount:      120000,
			Category:    "Housing",
			Frequency:   models.FrequencyMonthly,
			StartDate:   start,
		})
		testutil.AssertNoError(t, err)

		if entry.ID == 0 {
			t.Fatal("expected non-zero ID")
		}
		if !entry.IsActive {
			t.Error("expected entry to be active")
		}
		if !entry.NextDueDate.Equal(start) {
			t.Errorf("expected next due date to default to start date, got %v", entry.NextDueDate)
		}
	})

	t.Run("invalid_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateRecurring(user.ID, RecurringInput{
			Type:        models.TransactionTypeExpense,
			Description: "Rent",
			Amount:      120000,
			Frequency:   models.Frequency("hourly"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateRecurring(user.ID, RecurringInput{
			Type:      models.TransactionTypeExpense,
			Amount:    1000,
			Frequency: models.FrequencyMonthly,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateRecurring(user.ID, RecurringInput{
			Type:        models.TransactionType("transfer"),
			Description: "Rent",
			Amount:      1000,
			Frequency:   models.FrequencyMonthly,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListRecurring(t *testing.T) {
	t.Run("ordered_by_due_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		later := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
		sooner := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 1000, later)
		testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 2000, sooner)

		entries, err := svc.ListRecurring(user.ID)
		testutil.AssertNoError(t, err)

		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if !entries[0].NextDueDate.Equal(sooner) {
			t.Errorf("expected soonest due first, got %v", entries[0].NextDueDate)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateTestRecurring(t, db, user2.ID, models.FrequencyMonthly, 1000, due)

		entries, err := svc.ListRecurring(user1.ID)
		testutil.AssertNoError(t, err)

		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})
}

func TestUpdateRecurring(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry := testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 1000, due)

		newAmount := int64(2500)
		inactive := false
		updated, err := svc.UpdateRecurring(user.ID, entry.ID, RecurringUpdate{
			Amount:   &newAmount,
			IsActive: &inactive,
		})
		testutil.AssertNoError(t, err)

		if updated.Amount != 2500 {
			t.Errorf("expected amount 2500, got %d", updated.Amount)
		}

		var stored models.RecurringTransaction
		if err := db.First(&stored, entry.ID).Error; err != nil {
			t.Fatalf("failed to reload entry: %v", err)
		}
		if stored.IsActive {
			t.Error("expected entry deactivated")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateRecurring(user.ID, 9999, RecurringUpdate{})
		testutil.AssertAppError(t, err, "RECURRING_NOT_FOUND")
	})
}

func TestDeleteRecurring(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry := testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 1000, due)

		err := svc.DeleteRecurring(user.ID, entry.ID)
		testutil.AssertNoError(t, err)

		entries, err := svc.ListRecurring(user.ID)
		testutil.AssertNoError(t, err)
		if len(entries) != 0 {
			t.Errorf("expected no entries after delete, got %d", len(entries))
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry := testutil.CreateTestRecurring(t, db, user1.ID, models.FrequencyMonthly, 1000, due)

		err := svc.DeleteRecurring(user2.ID, entry.ID)
		testutil.AssertAppError(t, err, "RECURRING_NOT_FOUND")
	})
}

func TestMaterialize(t *testing.T) {
	t.Run("creates_transaction_and_advances", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry := testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 120000, due)

		tx, updated, err := svc.Materialize(user.ID, entry.ID)
		testutil.AssertNoError(t, err)

		if !tx.Date.Equal(due) {
			t.Errorf("expected transaction dated at due date, got %v", tx.Date)
		}
		if !tx.IsRecurring {
			t.Error("expected transaction marked recurring")
		}
		if tx.Amount != 120000 {
			t.Errorf("expected amount 120000, got %d", tx.Amount)
		}

		want := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
		if !updated.NextDueDate.Equal(want) {
			t.Errorf("expected next due %v, got %v", want, updated.NextDueDate)
		}
		if !updated.IsActive {
			t.Error("expected entry still active")
		}
	})

	t.Run("deactivates_past_end_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry := testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 1000, due)

		endDate := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
		if err := db.Model(entry).Update("end_date", endDate).Error; err != nil {
			t.Fatalf("failed to set end date: %v", err)
		}

		_, updated, err := svc.Materialize(user.ID, entry.ID)
		testutil.AssertNoError(t, err)

		if updated.IsActive {
			t.Error("expected entry deactivated once due date passes end date")
		}
	})

	t.Run("inactive_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
		entry := testutil.CreateTestRecurring(t, db, user.ID, models.FrequencyMonthly, 1000, due)
		if err := db.Model(entry).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate entry: %v", err)
		}

		_, _, err := svc.Materialize(user.ID, entry.ID)
		testutil.AssertAppError(t, err, "RECURRING_INACTIVE")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurringService(db)
		user := testutil.CreateTestUser(t, db)

		_, _, err := svc.Materialize(user.ID, 9999)
		testutil.AssertAppError(t, err, "RECURRING_NOT_FOUND")
	})
}
