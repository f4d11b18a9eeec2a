package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The wire format is a JSON envelope carrying the identity, the kind
// discriminator, and a kind-specific payload:
//
//	{"id": "...", "kind": "claim", "name": "...", "data": {...}}
//
// The discriminator lets a heterogeneous payload be dispatched to the right
// schema on decode. Dates travel as RFC 3339 absolute timestamps.
type envelope struct {
	ID   uuid.UUID       `json:"id"`
	Kind Kind            `json:"kind"`
	Name string          `json:"name,omitempty"`
	Data json.RawMessage `json:"data"`
}

type claimWire struct {
	User         uuid.UUID     `json:"user"`
	Approver     *uuid.UUID    `json:"approver,omitempty"`
	Status       Status        `json:"status"`
	StartDate    time.Time     `json:"startDate"`
	EndDate      time.Time     `json:"endDate"`
	Destinations []Destination `json:"destinations,omitempty"`
	Comments     []Comment     `json:"comments,omitempty"`
	Tags         []uuid.UUID   `json:"tags,omitempty"`
}

type itemWire struct {
	Claim       uuid.UUID `json:"claim"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency,omitempty"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Receipt     *Receipt  `json:"receipt,omitempty"`
}

// MarshalDocument encodes an entity into its wire envelope.
func MarshalDocument(e Entity) ([]byte, error) {
	var payload any
	switch v := e.(type) {
	case *Claim:
		w := claimWire{
			User:         v.user,
			Status:       v.status,
			StartDate:    v.startDate,
			EndDate:      v.endDate,
			Destinations: v.destinations,
			Comments:     v.comments,
			Tags:         v.tags,
		}
		if v.approver != uuid.Nil {
			approver := v.approver
			w.Approver = &approver
		}
		payload = w
	case *Item:
		payload = itemWire{
			Claim:       v.claim,
			Amount:      v.amount,
			Currency:    v.currency,
			Date:        v.date,
			Description: v.description,
			Receipt:     v.receipt,
		}
	case *User:
		payload = struct{}{}
	default:
		return nil, NewDocumentError("marshal", e.UUID(), ErrTypeMismatch)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, NewDocumentError("marshal", e.UUID(), err)
	}
	return json.Marshal(envelope{
		ID:   e.UUID(),
		Kind: e.Kind(),
		Name: e.Name(),
		Data: data,
	})
}

// UnmarshalDocument decodes a wire envelope into a fresh entity. Any decode
// failure, including an unknown kind, wraps ErrMalformed.
func UnmarshalDocument(data []byte) (Entity, error) {
	var env struct {
		ID   uuid.UUID       `json:"id"`
		Kind string          `json:"kind"`
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing document id", ErrMalformed)
	}
	kind, err := ParseKind(env.Kind)
	if err != nil {
		return nil, NewDocumentError("unmarshal", env.ID, err)
	}

	switch kind {
	case KindClaim:
		var w claimWire
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, NewDocumentError("unmarshal", env.ID, fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		c := &Claim{
			Document:     newDocument(env.ID, KindClaim),
			user:         w.User,
			status:       w.Status,
			startDate:    w.StartDate,
			endDate:      w.EndDate,
			destinations: w.Destinations,
			comments:     w.Comments,
			tags:         w.Tags,
		}
		c.name = env.Name
		if w.Approver != nil {
			c.approver = *w.Approver
		}
		return c, nil
	case KindItem:
		var w itemWire
		if err := json.Unmarshal(env.Data, &w); err != nil {
			return nil, NewDocumentError("unmarshal", env.ID, fmt.Errorf("%w: %v", ErrMalformed, err))
		}
		i := &Item{
			Document:    newDocument(env.ID, KindItem),
			claim:       w.Claim,
			amount:      w.Amount,
			currency:    w.Currency,
			date:        w.Date,
			description: w.Description,
			receipt:     w.Receipt,
		}
		i.name = env.Name
		return i, nil
	case KindUser:
		u := NewUser(env.ID)
		u.name = env.Name
		return u, nil
	}
	return nil, NewDocumentError("unmarshal", env.ID, fmt.Errorf("%w: unknown kind", ErrMalformed))
}

// CloneDocument produces a detached copy of an entity by round-tripping it
// through the wire format. Listener registrations are not copied.
func CloneDocument(e Entity) (Entity, error) {
	data, err := MarshalDocument(e)
	if err != nil {
		return nil, err
	}
	return UnmarshalDocument(data)
}

// Owner returns the id a document is listed under: the claimant for a claim,
// the claim for an item, and uuid.Nil for a user.
func Owner(e Entity) uuid.UUID {
	switch v := e.(type) {
	case *Claim:
		return v.user
	case *Item:
		return v.claim
	}
	return uuid.Nil
}
