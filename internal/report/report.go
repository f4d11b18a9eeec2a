// Package report computes summaries over claims and their expense items:
// per-currency totals for a single claim and status breakdowns across a
// claimant's claims.
package report

import (
	"fmt"
	"sort"
	"time"

	"traveltracker/internal/models"
)

// CurrencyTotal is the summed amount for one currency.
type CurrencyTotal struct {
	Currency string
	Amount   float64
}

// ClaimSummary aggregates one claim and its items.
type ClaimSummary struct {
	Status    models.Status
	StartDate time.Time
	EndDate   time.Time
	ItemCount int
	Receipts  int
	Totals    []CurrencyTotal
}

// Summarize computes the summary for a claim. Items belonging to a
// different claim are rejected rather than silently skipped.
func Summarize(claim *models.Claim, items []*models.Item) (ClaimSummary, error) {
	summary := ClaimSummary{
		Status:    claim.Status(),
		StartDate: claim.StartDate(),
		EndDate:   claim.EndDate(),
		ItemCount: len(items),
	}

	byCurrency := make(map[string]float64)
	for _, item := range items {
		if item.Claim() != claim.UUID() {
			return ClaimSummary{}, fmt.Errorf("item %s belongs to claim %s, not %s",
				item.UUID(), item.Claim(), claim.UUID())
		}
		byCurrency[item.Currency()] += item.Amount()
		if item.Receipt() != nil {
			summary.Receipts++
		}
	}

	summary.Totals = sortedTotals(byCurrency)
	return summary, nil
}

// StatusCounts tallies a set of claims by workflow status.
func StatusCounts(claims []*models.Claim) map[models.Status]int {
	counts := make(map[models.Status]int)
	for _, c := range claims {
		counts[c.Status()]++
	}
	return counts
}

// sortedTotals flattens the currency map into a deterministic slice.
func sortedTotals(byCurrency map[string]float64) []CurrencyTotal {
	totals := make([]CurrencyTotal, 0, len(byCurrency))
	for currency, amount := range byCurrency {
		totals = append(totals, CurrencyTotal{Currency: currency, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Currency < totals[j].Currency
	})
	return totals
}
