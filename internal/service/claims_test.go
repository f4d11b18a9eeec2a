package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"traveltracker/internal/datasource"
	"traveltracker/internal/models"
	"traveltracker/internal/storage/memory"
)

func newTestService(t *testing.T) (*Claims, *datasource.DataSource) {
	t.Helper()
	ds := datasource.New(memory.New(), memory.New())
	ds.Start(context.Background())
	<-ds.Loaded()
	return NewClaims(ds), ds
}

func newClaim(t *testing.T, ds *datasource.DataSource, user uuid.UUID) *models.Claim {
	t.Helper()
	res := <-ds.AddClaim(context.Background(), user)
	if res.Err != nil {
		t.Fatalf("AddClaim failed: %v", res.Err)
	}
	return res.Value
}

func TestSubmitApproveFlow(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	claimant := uuid.New()
	approver := uuid.New()
	claim := newClaim(t, ds, claimant)

	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if claim.Status() != models.StatusSubmitted {
		t.Fatalf("status = %v, want submitted", claim.Status())
	}

	if err := svc.Approve(ctx, claim.UUID(), approver); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if claim.Status() != models.StatusApproved {
		t.Errorf("status = %v, want approved", claim.Status())
	}
	if claim.Approver() != approver {
		t.Errorf("approver = %v, want %v", claim.Approver(), approver)
	}
}

func TestReturnAndResubmit(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	claim := newClaim(t, ds, uuid.New())
	approver := uuid.New()

	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := svc.Return(ctx, claim.UUID(), approver, "missing receipts"); err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if claim.Status() != models.StatusReturned {
		t.Fatalf("status = %v, want returned", claim.Status())
	}
	comments := claim.Comments()
	if len(comments) != 1 || comments[0].Text != "missing receipts" {
		t.Errorf("comments = %v, want the review note first", comments)
	}

	// A returned claim goes straight back to approval.
	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Errorf("resubmit after return failed: %v", err)
	}
}

func TestReopenReturnedClaim(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	claim := newClaim(t, ds, uuid.New())
	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := svc.Return(ctx, claim.UUID(), uuid.New(), ""); err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if err := svc.Reopen(ctx, claim.UUID()); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if claim.Status() != models.StatusInProgress {
		t.Errorf("status = %v, want in progress", claim.Status())
	}
}

func TestIllegalTransitions(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	t.Run("approve before submit", func(t *testing.T) {
		claim := newClaim(t, ds, uuid.New())
		err := svc.Approve(ctx, claim.UUID(), uuid.New())
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("approved claim is terminal", func(t *testing.T) {
		claim := newClaim(t, ds, uuid.New())
		if err := svc.Submit(ctx, claim.UUID()); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if err := svc.Approve(ctx, claim.UUID(), uuid.New()); err != nil {
			t.Fatalf("Approve failed: %v", err)
		}
		if err := svc.Submit(ctx, claim.UUID()); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Submit error = %v, want ErrInvalidTransition", err)
		}
		if err := svc.Reopen(ctx, claim.UUID()); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Reopen error = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("double submit", func(t *testing.T) {
		claim := newClaim(t, ds, uuid.New())
		if err := svc.Submit(ctx, claim.UUID()); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if err := svc.Submit(ctx, claim.UUID()); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestSelfApprovalForbidden(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	claimant := uuid.New()
	claim := newClaim(t, ds, claimant)
	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if err := svc.Approve(ctx, claim.UUID(), claimant); !errors.Is(err, ErrForbidden) {
		t.Errorf("Approve error = %v, want ErrForbidden", err)
	}
	if err := svc.Return(ctx, claim.UUID(), claimant, "nope"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Return error = %v, want ErrForbidden", err)
	}
	if claim.Status() != models.StatusSubmitted {
		t.Errorf("status = %v, a forbidden review must not change it", claim.Status())
	}
}

func TestApproverStampedOnFirstReviewOnly(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	claim := newClaim(t, ds, uuid.New())
	first := uuid.New()
	second := uuid.New()

	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := svc.Return(ctx, claim.UUID(), first, "fix dates"); err != nil {
		t.Fatalf("Return failed: %v", err)
	}
	if err := svc.Submit(ctx, claim.UUID()); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if err := svc.Approve(ctx, claim.UUID(), second); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	if claim.Approver() != first {
		t.Errorf("approver = %v, want the first reviewer %v", claim.Approver(), first)
	}
}

func TestSummary(t *testing.T) {
	svc, ds := newTestService(t)
	ctx := context.Background()

	claim := newClaim(t, ds, uuid.New())
	for _, amount := range []float64{12.50, 7.50} {
		res := <-ds.AddItem(ctx, claim.UUID())
		if res.Err != nil {
			t.Fatalf("AddItem failed: %v", res.Err)
		}
		res.Value.SetAmount(amount)
		res.Value.SetCurrency("CAD")
	}

	summary, err := svc.Summary(ctx, claim.UUID())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", summary.ItemCount)
	}
	if len(summary.Totals) != 1 || summary.Totals[0].Amount != 20 {
		t.Errorf("Totals = %v, want 20 CAD", summary.Totals)
	}
}

func TestUnknownClaim(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Submit(context.Background(), uuid.New())
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
