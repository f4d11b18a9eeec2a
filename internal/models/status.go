package models

import "fmt"

// Status is a claim's position in the review lifecycle.
//
// The legal transitions are:
//
//	inProgress -> submitted
//	submitted  -> approved | returned
//	returned   -> submitted | inProgress
//
// approved is terminal. SetStatus does not enforce legality; that belongs to
// the service layer wrapping the model (see service.Claims).
type Status int

const (
	StatusInProgress Status = iota
	StatusSubmitted
	StatusApproved
	StatusReturned
)

var statusNames = map[Status]string{
	StatusInProgress: "inProgress",
	StatusSubmitted:  "submitted",
	StatusApproved:   "approved",
	StatusReturned:   "returned",
}

var statusTransitions = map[Status][]Status{
	StatusInProgress: {StatusSubmitted},
	StatusSubmitted:  {StatusApproved, StatusReturned},
	StatusApproved:   {},
	StatusReturned:   {StatusSubmitted, StatusInProgress},
}

// CanTransition reports whether moving from s to the given status is a legal
// lifecycle step.
func (s Status) CanTransition(to Status) bool {
	for _, next := range statusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %d", ErrMalformed, int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("%w: unknown status %q", ErrMalformed, string(text))
}
