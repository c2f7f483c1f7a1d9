package subscription

import (
	"sort"

	"github.com/ayush/flowbit/backend/internal/models"
)

// ComputeStats groups subs by category and sums the monthly-billed amounts.
// Categories are ordered by total descending, then by name. Yearly
// subscriptions count toward their category but not toward the monthly total.
func ComputeStats(subs []models.Subscription) models.Stats {
	byCategory := make(map[models.Category]*models.CategorySpend)
	var monthly float64

	for _, s := range subs {
		row, ok := byCategory[s.Category]
		if !ok {
			row = &models.CategorySpend{Category: s.Category}
			byCategory[s.Category] = row
		}
		row.TotalAmount += s.Amount
		row.Count++

		if s.BillingCycle == models.BillingMonthly {
			monthly += s.Amount
		}
	}

	rows := make([]models.CategorySpend, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalAmount != rows[j].TotalAmount {
			return rows[i].TotalAmount > rows[j].TotalAmount
		}
		return rows[i].Category < rows[j].Category
	})

	return models.Stats{SpendingByCategory: rows, TotalMonthlySpend: monthly}
}
