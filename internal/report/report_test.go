package report

import (
	"testing"

	"github.com/google/uuid"

	"traveltracker/internal/models"
)

func TestSummarizeTotalsByCurrency(t *testing.T) {
	claim := models.NewClaim(uuid.New(), uuid.New())

	amounts := []struct {
		amount   float64
		currency string
	}{
		{100, "CAD"},
		{50.50, "CAD"},
		{30, "USD"},
	}
	items := make([]*models.Item, 0, len(amounts))
	for _, a := range amounts {
		item := models.NewItem(uuid.New(), claim.UUID())
		item.SetAmount(a.amount)
		item.SetCurrency(a.currency)
		items = append(items, item)
	}
	items[0].SetReceipt(&models.Receipt{URI: "https://receipts.example.com/1.jpg"})

	summary, err := Summarize(claim, items)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", summary.ItemCount)
	}
	if summary.Receipts != 1 {
		t.Errorf("Receipts = %d, want 1", summary.Receipts)
	}
	want := []CurrencyTotal{{"CAD", 150.50}, {"USD", 30}}
	if len(summary.Totals) != len(want) {
		t.Fatalf("Totals = %v, want %v", summary.Totals, want)
	}
	for i := range want {
		if summary.Totals[i] != want[i] {
			t.Errorf("Totals[%d] = %v, want %v", i, summary.Totals[i], want[i])
		}
	}
}

func TestSummarizeRejectsForeignItems(t *testing.T) {
	claim := models.NewClaim(uuid.New(), uuid.New())
	stray := models.NewItem(uuid.New(), uuid.New())

	if _, err := Summarize(claim, []*models.Item{stray}); err == nil {
		t.Error("Summarize accepted an item from another claim")
	}
}

func TestSummarizeEmptyClaim(t *testing.T) {
	claim := models.NewClaim(uuid.New(), uuid.New())
	summary, err := Summarize(claim, nil)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.ItemCount != 0 || len(summary.Totals) != 0 {
		t.Errorf("summary = %+v, want an empty one", summary)
	}
	if summary.Status != models.StatusInProgress {
		t.Errorf("Status = %v, want the claim's status", summary.Status)
	}
}

func TestStatusCounts(t *testing.T) {
	user := uuid.New()
	var claims []*models.Claim
	for _, s := range []models.Status{
		models.StatusInProgress,
		models.StatusInProgress,
		models.StatusSubmitted,
		models.StatusApproved,
	} {
		c := models.NewClaim(uuid.New(), user)
		c.SetStatus(s)
		claims = append(claims, c)
	}

	counts := StatusCounts(claims)
	if counts[models.StatusInProgress] != 2 || counts[models.StatusSubmitted] != 1 || counts[models.StatusApproved] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if counts[models.StatusReturned] != 0 {
		t.Errorf("returned count = %d, want 0", counts[models.StatusReturned])
	}
}
