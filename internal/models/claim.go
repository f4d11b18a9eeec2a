package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Destination is one stop on a claim's itinerary. Value type, compared
// structurally.
type Destination struct {
	Location string `json:"location"`
	Reason   string `json:"reason,omitempty"`
}

// Comment is a note left by an approver on a claim. Value type, compared
// structurally.
type Comment struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Claim is a travel expense claim made by a user acting as a claimant.
//
// The approver field stays uuid.Nil until the first review action
// (approve or return); the service layer stamps it.
type Claim struct {
	Document

	user         uuid.UUID
	approver     uuid.UUID
	status       Status
	startDate    time.Time
	endDate      time.Time
	destinations []Destination
	comments     []Comment
	tags         []uuid.UUID
}

// NewClaim constructs a claim owned by the given user. Status defaults to
// StatusInProgress and both dates default to the current time.
func NewClaim(id, user uuid.UUID) *Claim {
	now := time.Now()
	return &Claim{
		Document:  newDocument(id, KindClaim),
		user:      user,
		status:    StatusInProgress,
		startDate: now,
		endDate:   now,
	}
}

// SetName sets the claim's display name.
func (c *Claim) SetName(name string) {
	c.name = name
	c.notify(c)
}

// User returns the claimant who owns this claim.
func (c *Claim) User() uuid.UUID { return c.user }

// SetUser sets the claimant who owns this claim.
func (c *Claim) SetUser(user uuid.UUID) {
	c.user = user
	c.notify(c)
}

// Approver returns the approver who first reviewed this claim, or uuid.Nil
// if no review action has occurred.
func (c *Claim) Approver() uuid.UUID { return c.approver }

// SetApprover sets the reviewing approver.
func (c *Claim) SetApprover(approver uuid.UUID) {
	c.approver = approver
	c.notify(c)
}

// Status returns the claim's lifecycle status.
func (c *Claim) Status() Status { return c.status }

// SetStatus sets the claim's lifecycle status. Transition legality is not
// checked here; see service.Claims.
func (c *Claim) SetStatus(status Status) {
	c.status = status
	c.notify(c)
}

// StartDate returns the claim's start date.
func (c *Claim) StartDate() time.Time { return c.startDate }

// SetStartDate sets the claim's start date.
func (c *Claim) SetStartDate(t time.Time) {
	c.startDate = t
	c.notify(c)
}

// EndDate returns the claim's end date.
func (c *Claim) EndDate() time.Time { return c.endDate }

// SetEndDate sets the claim's end date.
func (c *Claim) SetEndDate(t time.Time) {
	c.endDate = t
	c.notify(c)
}

// Destinations returns a copy of the claim's itinerary. Mutate through
// SetDestinations so listeners are notified.
func (c *Claim) Destinations() []Destination {
	return slices.Clone(c.destinations)
}

// SetDestinations replaces the claim's itinerary.
func (c *Claim) SetDestinations(destinations []Destination) {
	c.destinations = slices.Clone(destinations)
	c.notify(c)
}

// Comments returns a copy of the claim's approver comments. Mutate through
// SetComments, AddComment or AppendComment so listeners are notified.
func (c *Claim) Comments() []Comment {
	return slices.Clone(c.comments)
}

// SetComments replaces the claim's comments in caller order.
func (c *Claim) SetComments(comments []Comment) {
	c.comments = slices.Clone(comments)
	c.notify(c)
}

// AddComment prepends a comment with the given text, dated now, so the
// newest comment comes first.
func (c *Claim) AddComment(text string) {
	c.comments = append([]Comment{{Text: text, Date: time.Now()}}, c.comments...)
	c.notify(c)
}

// AppendComment appends a premade comment.
func (c *Claim) AppendComment(comment Comment) {
	c.comments = append(c.comments, comment)
	c.notify(c)
}

// Tags returns a copy of the claim's tag references. Mutate through SetTags
// so listeners are notified.
func (c *Claim) Tags() []uuid.UUID {
	return slices.Clone(c.tags)
}

// SetTags replaces the claim's tag references. Duplicates are dropped,
// keeping first occurrence order; tags are a set.
func (c *Claim) SetTags(tags []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(tags))
	deduped := make([]uuid.UUID, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		deduped = append(deduped, tag)
	}
	c.tags = deduped
	c.notify(c)
}
