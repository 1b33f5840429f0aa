package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// minOccurrences is the evidence floor for proposing a recurring pattern.
const minOccurrences = 3

// recurrenceService detects recurring patterns in transaction history.
type recurrenceService struct {
	db *gorm.DB
}

// NewRecurrenceService creates a new RecurrenceServicer.
func NewRecurrenceService(db *gorm.DB) RecurrenceServicer {
	return &recurrenceService{db: db}
}

// Detect scans the trailing windowDays of transactions, clusters them by
// (description, amount), and proposes recurring candidates with an
// inferred frequency and confidence score. Nothing is persisted; accepting
// a candidate is a separate explicit action.
func (s *recurrenceService) Detect(userID uint, windowDays int, now time.Time) ([]RecurringCandidate, error) {
	if windowDays <= 0 {
		windowDays = 90
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ?", userID, cutoff).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type cluster struct {
		description string
		amount      int64
		category    string
		txType      models.TransactionType
		dates       []time.Time
	}

	clusters := make(map[string]*cluster)
	var order []string
	for _, tx := range transactions {
		key := fmt.Sprintf("%s_%d", strings.ToLower(tx.Description), tx.Amount)
		c, ok := clusters[key]
		if !ok {
			c = &cluster{
				description: tx.Description,
				amount:      tx.Amount,
				category:    tx.Category,
				txType:      tx.Type,
			}
			clusters[key] = c
			order = append(order, key)
		}
		c.dates = append(c.dates, tx.Date)
	}

	candidates := []RecurringCandidate{}
	for _, key := range order {
		c := clusters[key]
		if len(c.dates) < minOccurrences {
			continue
		}

		var totalDays float64
		for i := 1; i < len(c.dates); i++ {
			totalDays += c.dates[i].Sub(c.dates[i-1]).Hours() / 24
		}
		avgInterval := totalDays / float64(len(c.dates)-1)

		last := c.dates[len(c.dates)-1]
		candidates = append(candidates, RecurringCandidate{
			Description: c.description,
			Amount:      c.amount,
			Category:    c.category,
			Type:        c.txType,
			Frequency:   classifyInterval(avgInterval),
			StartDate:   c.dates[0],
			NextDueDate: last.Add(time.Duration(avgInterval * 24 * float64(time.Hour))),
			Occurrences: len(c.dates),
			Confidence:  confidenceFor(len(c.dates)),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates, nil
}

// classifyInterval maps a mean occurrence interval in days to the nearest
// named frequency, checking thresholds in ascending order.
func classifyInterval(avgDays float64) models.Frequency {
	switch {
	case avgDays <= 1:
		return models.FrequencyDaily
	case avgDays <= 7:
		return models.FrequencyWeekly
	case avgDays <= 14:
		return models.FrequencyBiweekly
	case avgDays <= 31:
		return models.FrequencyMonthly
	case avgDays <= 93:
		return models.FrequencyQuarterly
	default:
		return models.FrequencyYearly
	}
}

// confidenceFor scores a cluster by occurrence count: 30 at the three-
// occurrence floor, 100 from ten occurrences on.
func confidenceFor(occurrences int) float64 {
	confidence := float64(occurrences) / float64(minOccurrences) * 30
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}
