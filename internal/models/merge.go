package models

import (
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Merge reconciles a local and a source (remote/incoming) copy of the same
// logical document and reports whether local was altered.
//
// The policy is per-field source-wins-on-difference, applied independently
// per field with the result OR-ed together:
//
//   - local empty, source empty: unchanged
//   - local empty, source non-empty: adopt source
//   - local non-empty, differs from source by value equality: adopt source
//
// Container fields are whole-value replacements compared structurally, not
// element-wise. There is no timestamp or version-vector resolution: when both
// copies changed the same field independently since the last sync, the local
// edit is discarded without warning. That is the existing contract.
//
// Merge writes fields directly rather than through the notifying setters, so
// reconciling a fetched copy does not re-notify listeners.
//
// A source of a different concrete kind is a contract violation: Merge
// returns ErrTypeMismatch (wrapped with the local id) and leaves local
// untouched.
func Merge(local, source Entity) (changed bool, err error) {
	switch l := local.(type) {
	case *Claim:
		if s, ok := source.(*Claim); ok {
			return applyRules(l, s, claimRules), nil
		}
	case *Item:
		if s, ok := source.(*Item); ok {
			return applyRules(l, s, itemRules), nil
		}
	case *User:
		if s, ok := source.(*User); ok {
			return applyRules(l, s, userRules), nil
		}
	}
	return false, NewDocumentError("merge", local.UUID(), ErrTypeMismatch)
}

// fieldRule merges one field of an entity kind, reporting whether the local
// value was replaced.
type fieldRule[E Entity] struct {
	name  string
	merge func(local, source E) bool
}

// The per-kind rule tables. Each entry names a wire field and how to compare
// and adopt it; applyRules is the single merge routine that consumes them.
var (
	claimRules = []fieldRule[*Claim]{
		scalar("name", func(c *Claim) *string { return &c.name }),
		scalar("user", func(c *Claim) *uuid.UUID { return &c.user }),
		scalar("approver", func(c *Claim) *uuid.UUID { return &c.approver }),
		scalar("status", func(c *Claim) *Status { return &c.status }),
		timestamp("startDate", func(c *Claim) *time.Time { return &c.startDate }),
		timestamp("endDate", func(c *Claim) *time.Time { return &c.endDate }),
		sequence("destinations", func(c *Claim) *[]Destination { return &c.destinations },
			func(a, b Destination) bool { return a == b }),
		sequence("comments", func(c *Claim) *[]Comment { return &c.comments },
			func(a, b Comment) bool { return a.Text == b.Text && a.Date.Equal(b.Date) }),
		idSet("tags", func(c *Claim) *[]uuid.UUID { return &c.tags }),
	}

	itemRules = []fieldRule[*Item]{
		scalar("name", func(i *Item) *string { return &i.name }),
		scalar("claim", func(i *Item) *uuid.UUID { return &i.claim }),
		scalar("amount", func(i *Item) *float64 { return &i.amount }),
		scalar("currency", func(i *Item) *string { return &i.currency }),
		timestamp("date", func(i *Item) *time.Time { return &i.date }),
		scalar("description", func(i *Item) *string { return &i.description }),
		receiptRule("receipt", func(i *Item) **Receipt { return &i.receipt }),
	}

	userRules = []fieldRule[*User]{
		scalar("name", func(u *User) *string { return &u.name }),
	}
)

func applyRules[E Entity](local, source E, rules []fieldRule[E]) bool {
	changed := false
	for _, r := range rules {
		if r.merge(local, source) {
			slog.Debug("merge adopted source value",
				"id", local.UUID(),
				"kind", local.Kind().String(),
				"field", r.name,
			)
			changed = true
		}
	}
	return changed
}

// mergeValue applies the source-wins-on-difference policy to one field
// through its emptiness and equality predicates.
func mergeValue[T any](local *T, source T, empty func(T) bool, equal func(T, T) bool) bool {
	if empty(*local) {
		if empty(source) {
			return false
		}
		*local = source
		return true
	}
	if equal(*local, source) {
		return false
	}
	*local = source
	return true
}

// scalar merges a comparable field. The zero value is "empty".
func scalar[E Entity, T comparable](name string, field func(E) *T) fieldRule[E] {
	var zero T
	return fieldRule[E]{name: name, merge: func(local, source E) bool {
		return mergeValue(field(local), *field(source),
			func(v T) bool { return v == zero },
			func(a, b T) bool { return a == b })
	}}
}

// timestamp merges a time field; zero times are empty and equality ignores
// the monotonic clock reading.
func timestamp[E Entity](name string, field func(E) *time.Time) fieldRule[E] {
	return fieldRule[E]{name: name, merge: func(local, source E) bool {
		return mergeValue(field(local), *field(source),
			time.Time.IsZero,
			time.Time.Equal)
	}}
}

// sequence merges an ordered container as a whole-value replacement compared
// element-for-element in order.
func sequence[E Entity, T any](name string, field func(E) *[]T, equal func(T, T) bool) fieldRule[E] {
	return fieldRule[E]{name: name, merge: func(local, source E) bool {
		return mergeValue(field(local), slices.Clone(*field(source)),
			func(v []T) bool { return len(v) == 0 },
			func(a, b []T) bool { return slices.EqualFunc(a, b, equal) })
	}}
}

// idSet merges a tag set as a whole-value replacement compared by
// membership, ignoring order.
func idSet[E Entity](name string, field func(E) *[]uuid.UUID) fieldRule[E] {
	return fieldRule[E]{name: name, merge: func(local, source E) bool {
		return mergeValue(field(local), slices.Clone(*field(source)),
			func(v []uuid.UUID) bool { return len(v) == 0 },
			equalIDSets)
	}}
}

// receiptRule merges the optional receipt reference; nil is empty.
func receiptRule[E Entity](name string, field func(E) **Receipt) fieldRule[E] {
	return fieldRule[E]{name: name, merge: func(local, source E) bool {
		return mergeValue(field(local), *field(source),
			func(r *Receipt) bool { return r == nil },
			func(a, b *Receipt) bool { return b != nil && *a == *b })
	}}
}

func equalIDSets(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	members := make(map[uuid.UUID]struct{}, len(a))
	for _, id := range a {
		members[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := members[id]; !ok {
			return false
		}
	}
	return true
}
