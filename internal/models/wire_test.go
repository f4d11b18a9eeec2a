package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestWireDispatchesOnKind(t *testing.T) {
	claimant := uuid.New()

	claim := NewClaim(uuid.New(), claimant)
	claim.SetName("Sales trip")
	claim.SetTags([]uuid.UUID{uuid.New(), uuid.New()})
	claim.AddComment("needs itemized receipts")

	item := NewItem(uuid.New(), claim.UUID())
	item.SetAmount(42.5)
	item.SetCurrency("USD")

	user := NewUser(claimant)
	user.SetName("claimant one")

	for _, e := range []Entity{claim, item, user} {
		data, err := MarshalDocument(e)
		if err != nil {
			t.Fatalf("MarshalDocument(%v): %v", e.Kind(), err)
		}

		decoded, err := UnmarshalDocument(data)
		if err != nil {
			t.Fatalf("UnmarshalDocument(%v): %v", e.Kind(), err)
		}
		if decoded.Kind() != e.Kind() {
			t.Errorf("kind = %v, want %v", decoded.Kind(), e.Kind())
		}
		if decoded.UUID() != e.UUID() {
			t.Errorf("id = %s, want %s", decoded.UUID(), e.UUID())
		}
		if decoded.Name() != e.Name() {
			t.Errorf("name = %q, want %q", decoded.Name(), e.Name())
		}
	}
}

func TestWireOmitsUnsetApprover(t *testing.T) {
	claim := NewClaim(uuid.New(), uuid.New())

	data, err := MarshalDocument(claim)
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	if strings.Contains(string(data), "approver") {
		t.Errorf("unset approver should be omitted from the wire: %s", data)
	}

	decoded, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument: %v", err)
	}
	if decoded.(*Claim).Approver() != uuid.Nil {
		t.Error("decoded approver should be unset")
	}
}

func TestWireMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{"id": nope`},
		{"missing id", `{"kind": "claim", "data": {}}`},
		{"unknown kind", `{"id": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "kind": "tag", "data": {}}`},
		{"missing kind", `{"id": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "data": {}}`},
		{"bad claim payload", `{"id": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "kind": "claim", "data": {"status": 7}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalDocument([]byte(tt.payload))
			if err == nil {
				t.Fatal("expected a decode error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestCloneIsDetached(t *testing.T) {
	original := NewClaim(uuid.New(), uuid.New())
	original.SetName("original")

	cloned, err := CloneDocument(original)
	if err != nil {
		t.Fatalf("CloneDocument: %v", err)
	}

	notified := false
	original.Register(func(Entity) { notified = true })
	cloned.(*Claim).SetName("clone edit")

	if notified {
		t.Error("mutating the clone must not notify the original's listeners")
	}
	if original.Name() != "original" {
		t.Error("mutating the clone must not change the original")
	}
}
