// Package service implements the claim approval workflow on top of the
// datasource. Status legality lives here, not in the model: setters accept
// any status so that merging can replay whatever the backend holds, while
// user-facing operations go through this package and are checked.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"traveltracker/internal/datasource"
	"traveltracker/internal/models"
	"traveltracker/internal/report"
)

var (
	// ErrInvalidTransition reports a status change the workflow forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden reports an operation the caller may not perform.
	ErrForbidden = errors.New("operation not permitted")
)

// Claims drives the travel claim approval workflow.
type Claims struct {
	ds *datasource.DataSource
}

// NewClaims creates a workflow service over the given datasource.
func NewClaims(ds *datasource.DataSource) *Claims {
	return &Claims{ds: ds}
}

func (s *Claims) claim(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	res := <-s.ds.GetClaim(ctx, id)
	return res.Value, res.Err
}

func transition(claim *models.Claim, to models.Status) error {
	from := claim.Status()
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: claim %s cannot go from %s to %s",
			ErrInvalidTransition, claim.UUID(), from, to)
	}
	claim.SetStatus(to)
	return nil
}

// Submit sends a claim to approval. Allowed from the in-progress and
// returned states.
func (s *Claims) Submit(ctx context.Context, id uuid.UUID) error {
	claim, err := s.claim(ctx, id)
	if err != nil {
		return err
	}
	if err := transition(claim, models.StatusSubmitted); err != nil {
		return err
	}
	slog.Info("claim submitted", "claim", id, "claimant", claim.User())
	return nil
}

// Approve finishes a submitted claim. The approver must not be the
// claimant. The claim keeps the approver that first reviewed it; later
// reviews do not reassign it.
func (s *Claims) Approve(ctx context.Context, id, approver uuid.UUID) error {
	claim, err := s.claim(ctx, id)
	if err != nil {
		return err
	}
	if approver == claim.User() {
		return fmt.Errorf("%w: claimant %s cannot approve their own claim %s",
			ErrForbidden, approver, id)
	}
	if err := transition(claim, models.StatusApproved); err != nil {
		return err
	}
	if claim.Approver() == uuid.Nil {
		claim.SetApprover(approver)
	}
	slog.Info("claim approved", "claim", id, "approver", claim.Approver())
	return nil
}

// Return sends a submitted claim back to the claimant with a comment
// explaining what needs fixing. The comment lands at the front of the
// claim's comment list.
func (s *Claims) Return(ctx context.Context, id, approver uuid.UUID, comment string) error {
	claim, err := s.claim(ctx, id)
	if err != nil {
		return err
	}
	if approver == claim.User() {
		return fmt.Errorf("%w: claimant %s cannot review their own claim %s",
			ErrForbidden, approver, id)
	}
	if err := transition(claim, models.StatusReturned); err != nil {
		return err
	}
	if claim.Approver() == uuid.Nil {
		claim.SetApprover(approver)
	}
	if comment != "" {
		claim.AddComment(comment)
	}
	slog.Info("claim returned", "claim", id, "approver", claim.Approver())
	return nil
}

// Summary reports a claim's status, date range and per-currency totals
// over its expense items.
func (s *Claims) Summary(ctx context.Context, id uuid.UUID) (report.ClaimSummary, error) {
	claim, err := s.claim(ctx, id)
	if err != nil {
		return report.ClaimSummary{}, err
	}
	res := <-s.ds.ItemsForClaim(ctx, id)
	if res.Err != nil {
		return report.ClaimSummary{}, res.Err
	}
	return report.Summarize(claim, res.Value)
}

// Reopen takes a returned claim back to in-progress so the claimant can
// edit it before resubmitting.
func (s *Claims) Reopen(ctx context.Context, id uuid.UUID) error {
	claim, err := s.claim(ctx, id)
	if err != nil {
		return err
	}
	if err := transition(claim, models.StatusInProgress); err != nil {
		return err
	}
	slog.Info("claim reopened", "claim", id)
	return nil
}
