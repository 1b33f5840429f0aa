package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestDetect(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	t.Run("monthly_pattern", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 3; i >= 0; i-- {
			date := now.AddDate(0, 0, -30*i)
			tx := &models.Transaction{
				UserID:      user.ID,
				Type:        models.TransactionTypeExpense,
				Description: "Netflix",
				Amount:      1599,
				Category:    "Entertainment",
				Date:        date,
			}
			if err := db.Create(tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		candidates, err := svc.Detect(user.ID, 120, now)
		testutil.AssertNoError(t, err)

		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		c := candidates[0]
		if c.Description != "Netflix" {
			t.Errorf("expected Netflix, got %s", c.Description)
		}
		if c.Frequency != models.FrequencyMonthly {
			t.Errorf("expected monthly frequency, got %s", c.Frequency)
		}
		if c.Occurrences != 4 {
			t.Errorf("expected 4 occurrences, got %d", c.Occurrences)
		}
		if c.Confidence != 40 {
			t.Errorf("expected confidence 40, got %f", c.Confidence)
		}
		if !c.NextDueDate.After(now.AddDate(0, 0, 25)) {
			t.Errorf("expected next due roughly a month out, got %v", c.NextDueDate)
		}
	})

	t.Run("confidence_caps_at_100", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 11; i >= 0; i-- {
			testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, 999, "Entertainment", now.AddDate(0, 0, -7*i))
		}
		// All fixtures share an amount but have unique descriptions, so
		// create matching descriptions directly.
		db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Update("description", "Spotify")

		candidates, err := svc.Detect(user.ID, 120, now)
		testutil.AssertNoError(t, err)

		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].Confidence != 100 {
			t.Errorf("expected confidence capped at 100, got %f", candidates[0].Confidence)
		}
		if candidates[0].Frequency != models.FrequencyWeekly {
			t.Errorf("expected weekly frequency, got %s", candidates[0].Frequency)
		}
	})

	t.Run("case_insensitive_description", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		user := testutil.CreateTestUser(t, db)

		names := []string{"Gym Membership", "gym membership", "GYM MEMBERSHIP"}
		for i, name := range names {
			tx := &models.Transaction{
				UserID:      user.ID,
				Type:        models.TransactionTypeExpense,
				Description: name,
				Amount:      4500,
				Category:    "Health",
				Date:        now.AddDate(0, 0, -30*(len(names)-1-i)),
			}
			if err := db.Create(tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		candidates, err := svc.Detect(user.ID, 120, now)
		testutil.AssertNoError(t, err)

		if len(candidates) != 1 {
			t.Fatalf("expected casing variants clustered into 1 candidate, got %d", len(candidates))
		}
	})

	t.Run("different_amounts_split_clusters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 2; i >= 0; i-- {
			tx := &models.Transaction{
				UserID:      user.ID,
				Type:        models.TransactionTypeExpense,
				Description: "Groceries",
				Amount:      int64(5000 + i), // distinct amounts
				Category:    "Food",
				Date:        now.AddDate(0, 0, -7*i),
			}
			if err := db.Create(tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		candidates, err := svc.Detect(user.ID, 90, now)
		testutil.AssertNoError(t, err)

		if len(candidates) != 0 {
			t.Errorf("expected no candidates below occurrence floor, got %d", len(candidates))
		}
	})

	t.Run("two_occurrences_insufficient", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 1; i >= 0; i-- {
			tx := &models.Transaction{
				UserID:      user.ID,
				Type:        models.TransactionTypeExpense,
				Description: "Rent",
				Amount:      120000,
				Category:    "Housing",
				Date:        now.AddDate(0, 0, -30*i),
			}
			if err := db.Create(tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		candidates, err := svc.Detect(user.ID, 90, now)
		testutil.AssertNoError(t, err)

		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("window_excludes_old_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewRecurrenceService(db)
		user := testutil.CreateTestUser(t, db)

		for i := 3; i >= 0; i-- {
			tx := &models.Transaction{
				UserID:      user.ID,
				Type:        models.TransactionTypeExpense,
				Description: "Insurance",
				Amount:      9900,
				Category:    "Bills",
				Date:        now.AddDate(0, 0, -60*i), // only two fall inside 90 days
			}
			if err := db.Create(tx).Error; err != nil {
				t.Fatalf("failed to create transaction: %v", err)
			}
		}

		candidates, err := svc.Detect(user.ID, 90, now)
		testutil.AssertNoError(t, err)

		if len(candidates) != 0 {
			t.Errorf("expected no candidates inside window, got %d", len(candidates))
		}
	})
}

func TestClassifyInterval(t *testing.T) {
	cases := []struct {
		days float64
		want models.Frequency
	}{
		{1, models.FrequencyDaily},
		{6.5, models.FrequencyWeekly},
		{13, models.FrequencyBiweekly},
		{30, models.FrequencyMonthly},
		{31, models.FrequencyMonthly},
		{90, models.FrequencyQuarterly},
		{200, models.FrequencyYearly},
	}
	for _, tc := range cases {
		if got := classifyInterval(tc.days); got != tc.want {
			t.Errorf("classifyInterval(%v) = %s, want %s", tc.days, got, tc.want)
		}
	}
}
