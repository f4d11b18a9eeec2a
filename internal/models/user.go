package models

import "github.com/google/uuid"

// User is the identity anchor for ownership relations. Claims reference
// their claimant and approver by user id; the user document itself carries
// no further state.
type User struct {
	Document
}

// NewUser constructs a user with the given id.
func NewUser(id uuid.UUID) *User {
	return &User{Document: newDocument(id, KindUser)}
}

// SetName sets the user's display name.
func (u *User) SetName(name string) {
	u.name = name
	u.notify(u)
}
