package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/aggregate"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// analyticsService derives reports from transaction history. Every method
// is read-only and takes an explicit reference time so results are
// reproducible.
type analyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(db *gorm.DB) AnalyticsServicer {
	return &analyticsService{db: db}
}

func (s *analyticsService) expensesSince(userID uint, cutoff time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND type = ? AND date >= ?",
		userID, models.TransactionTypeExpense, cutoff).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func (s *analyticsService) expensesBetween(userID uint, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND type = ? AND date BETWEEN ? AND ?",
		userID, models.TransactionTypeExpense, start, end).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Trends buckets the trailing days of expenses by weekday and reports
// which day spending concentrates on. The percent difference compares the
// heaviest day's total against the mean of all weekday totals.
func (s *analyticsService) Trends(userID uint, days int, now time.Time) (*TrendReport, error) {
	if days <= 0 {
		days = 90
	}

	transactions, err := s.expensesSince(userID, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	totals := aggregate.SumBy(transactions,
		func(tx models.Transaction) string { return aggregate.WeekdayKey(tx.Date) },
		func(tx models.Transaction) int64 { return tx.Amount })
	counts := make(map[string]int, len(totals))
	for _, tx := range transactions {
		counts[aggregate.WeekdayKey(tx.Date)]++
	}

	report := &TrendReport{DayOfWeek: []DayTrend{}, HighestSpendingDay: "N/A"}
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := day.String()
		total, ok := totals[name]
		if !ok {
			continue
		}
		count := counts[name]
		report.DayOfWeek = append(report.DayOfWeek, DayTrend{
			Day:     name,
			Total:   total,
			Average: float64(total) / float64(count),
			Count:   count,
		})
	}
	if len(report.DayOfWeek) == 0 {
		return report, nil
	}

	highest := report.DayOfWeek[0]
	var sum int64
	for _, trend := range report.DayOfWeek {
		sum += trend.Total
		if trend.Total > highest.Total {
			highest = trend
		}
	}
	mean := float64(sum) / float64(len(report.DayOfWeek))

	var percentDiff float64
	if mean > 0 {
		percentDiff = (float64(highest.Total) - mean) / mean * 100
	}
	percentDiff = math.Round(percentDiff*10) / 10

	direction := "more"
	if percentDiff < 0 {
		direction = "less"
	}
	report.HighestSpendingDay = highest.Day
	report.PercentDifference = percentDiff
	report.Message = fmt.Sprintf("You spend %.1f%% %s on %ss",
		math.Abs(percentDiff), direction, highest.Day)
	return report, nil
}

// Forecast projects next month's spending from up to three trailing months
// of expense totals. The projection is the recent average with a five
// percent upward adjustment; confidence grows with months of data, capped
// at 85.
func (s *analyticsService) Forecast(userID uint, now time.Time) (*ForecastReport, error) {
	cutoff := time.Date(now.Year(), now.Month()-3, 1, 0, 0, 0, 0, now.Location())
	transactions, err := s.expensesSince(userID, cutoff)
	if err != nil {
		return nil, err
	}

	byMonth := aggregate.SumBy(transactions,
		func(tx models.Transaction) string { return aggregate.MonthKey(tx.Date) },
		func(tx models.Transaction) int64 { return tx.Amount })

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	report := &ForecastReport{Trend: TrendStable, PreviousMonths: []int64{}}
	if len(months) == 0 {
		return report, nil
	}

	var total int64
	for _, month := range months {
		report.PreviousMonths = append(report.PreviousMonths, byMonth[month])
		total += byMonth[month]
	}
	avg := float64(total) / float64(len(months))

	recentMonths := report.PreviousMonths
	if len(recentMonths) > 2 {
		recentMonths = recentMonths[len(recentMonths)-2:]
	}
	var recentTotal int64
	for _, amount := range recentMonths {
		recentTotal += amount
	}
	recentAvg := float64(recentTotal) / float64(len(recentMonths))

	switch {
	case recentAvg > avg:
		report.Trend = TrendIncreasing
	case recentAvg < avg:
		report.Trend = TrendDecreasing
	}

	report.Forecast = int64(math.Round(recentAvg * 1.05))
	report.Average = int64(math.Round(avg))
	report.Confidence = len(months) * 20
	if report.Confidence > 85 {
		report.Confidence = 85
	}
	return report, nil
}

// Velocity reports the current month's burn rate and its projection to
// month end.
func (s *analyticsService) Velocity(userID uint, now time.Time) (*VelocityReport, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	spent, err := sumExpenses(s.db, userID, "", start, now)
	if err != nil {
		return nil, err
	}

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	daysElapsed := now.Day()

	dailyRate := float64(spent) / float64(daysElapsed)
	return &VelocityReport{
		DailyRate:        int64(math.Round(dailyRate)),
		WeeklyRate:       int64(math.Round(dailyRate * 7)),
		ProjectedMonthly: int64(math.Round(dailyRate * float64(daysInMonth))),
		CurrentSpending:  spent,
		DaysElapsed:      daysElapsed,
		DaysRemaining:    daysInMonth - daysElapsed,
	}, nil
}

// CompareCategories reports per-category spend change between the current
// period and the one before it. A category absent last period but present
// now counts as a 100 percent increase.
func (s *analyticsService) CompareCategories(userID uint, period ComparisonPeriod, now time.Time) ([]CategoryComparison, error) {
	var curStart, curEnd, prevStart, prevEnd time.Time
	switch period {
	case ComparisonPeriodMonth, "":
		curStart, curEnd = monthWindow(now)
		prevStart, prevEnd = monthWindow(curStart.AddDate(0, -1, 0))
	case ComparisonPeriodYear:
		curStart, curEnd = yearWindow(now.Year(), now.Location())
		prevStart, prevEnd = yearWindow(now.Year()-1, now.Location())
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be month or year")
	}

	currentTx, err := s.expensesBetween(userID, curStart, curEnd)
	if err != nil {
		return nil, err
	}
	previousTx, err := s.expensesBetween(userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	byCategory := func(tx models.Transaction) string { return tx.Category }
	amount := func(tx models.Transaction) int64 { return tx.Amount }
	currentMap := aggregate.SumBy(currentTx, byCategory, amount)
	previousMap := aggregate.SumBy(previousTx, byCategory, amount)

	categories := make(map[string]struct{}, len(currentMap)+len(previousMap))
	for category := range currentMap {
		categories[category] = struct{}{}
	}
	for category := range previousMap {
		categories[category] = struct{}{}
	}

	comparisons := make([]CategoryComparison, 0, len(categories))
	for category := range categories {
		current := currentMap[category]
		previous := previousMap[category]

		var change float64
		switch {
		case previous > 0:
			change = float64(current-previous) / float64(previous) * 100
		case current > 0:
			change = 100
		}
		change = math.Round(change*10) / 10

		trend := TrendStable
		switch {
		case change > 0:
			trend = "up"
		case change < 0:
			trend = "down"
		}

		comparisons = append(comparisons, CategoryComparison{
			Category: category,
			Current:  current,
			Previous: previous,
			Change:   change,
			Trend:    trend,
		})
	}

	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].Category < comparisons[j].Category
	})
	return comparisons, nil
}

// Heatmap returns daily expense totals for a year, each scored 0-100
// against the year's heaviest day.
func (s *analyticsService) Heatmap(userID uint, year int) (*HeatmapReport, error) {
	start, end := yearWindow(year, time.UTC)
	transactions, err := s.expensesBetween(userID, start, end)
	if err != nil {
		return nil, err
	}

	daily := aggregate.SumBy(transactions,
		func(tx models.Transaction) string { return aggregate.DayKey(tx.Date) },
		func(tx models.Transaction) int64 { return tx.Amount })

	var maxSpending int64 = 1
	for _, amount := range daily {
		if amount > maxSpending {
			maxSpending = amount
		}
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	report := &HeatmapReport{
		Year:        year,
		Data:        make([]HeatmapCell, 0, len(days)),
		MaxSpending: maxSpending,
		TotalDays:   len(days),
	}
	for _, day := range days {
		amount := daily[day]
		intensity := float64(amount) / float64(maxSpending) * 100
		if intensity > 100 {
			intensity = 100
		}
		report.Data = append(report.Data, HeatmapCell{
			Date:      day,
			Amount:    amount,
			Intensity: intensity,
		})
	}
	return report, nil
}

// Insights applies three independent rules to the current and previous
// month: categories up more than 20 percent month over month, a top
// category dominating over 40 percent of spend, and days spending more
// than triple the month's daily average. Each rule contributes its own
// insights; none suppresses another.
func (s *analyticsService) Insights(userID uint, now time.Time) ([]Insight, error) {
	curStart, _ := monthWindow(now)
	prevStart, prevEnd := monthWindow(curStart.AddDate(0, -1, 0))

	currentTx, err := s.expensesBetween(userID, curStart, now)
	if err != nil {
		return nil, err
	}
	previousTx, err := s.expensesBetween(userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	byCategory := func(tx models.Transaction) string { return tx.Category }
	amount := func(tx models.Transaction) int64 { return tx.Amount }
	currentByCategory := aggregate.SumBy(currentTx, byCategory, amount)
	previousByCategory := aggregate.SumBy(previousTx, byCategory, amount)

	insights := []Insight{}

	categories := make([]string, 0, len(currentByCategory))
	for category := range currentByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		current := currentByCategory[category]
		previous := previousByCategory[category]
		if previous <= 0 || float64(current) <= float64(previous)*1.2 {
			continue
		}
		increase := float64(current-previous) / float64(previous) * 100
		insights = append(insights, Insight{
			Type:     InsightTypeWarning,
			Category: category,
			Message: fmt.Sprintf("Your spending on %s has increased by %.0f%% compared to last month. Consider reviewing these expenses.",
				category, increase),
			Current:  current,
			Previous: previous,
		})
	}

	total := aggregate.Total(currentTx, amount)
	if total > 0 {
		topCategory := ""
		var topAmount int64
		for _, category := range categories {
			if currentByCategory[category] > topAmount {
				topCategory = category
				topAmount = currentByCategory[category]
			}
		}
		if percent := aggregate.PercentOf(topAmount, total); percent > 40 {
			insights = append(insights, Insight{
				Type:     InsightTypeInfo,
				Category: topCategory,
				Message: fmt.Sprintf("%s accounts for %.0f%% of your spending this month. Consider if this aligns with your priorities.",
					topCategory, percent),
				Current: topAmount,
			})
		}
	}

	if len(currentTx) > 0 {
		avgDaily := float64(total) / float64(now.Day())
		dailyTotals := aggregate.SumBy(currentTx,
			func(tx models.Transaction) string { return aggregate.DayKey(tx.Date) },
			amount)
		highDays := 0
		for _, dayTotal := range dailyTotals {
			if float64(dayTotal) > avgDaily*3 {
				highDays++
			}
		}
		if highDays > 0 {
			insights = append(insights, Insight{
				Type:    InsightTypeWarning,
				Message: fmt.Sprintf("You have %d day(s) with unusually high spending. Review these transactions.", highDays),
				Days:    highDays,
			})
		}
	}

	return insights, nil
}
