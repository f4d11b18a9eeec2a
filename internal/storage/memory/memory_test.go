package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"traveltracker/internal/models"
)

func TestMemoryStoreDetachesDocuments(t *testing.T) {
	store := New()
	ctx := context.Background()

	claim := models.NewClaim(uuid.New(), uuid.New())
	claim.SetName("before")
	if err := store.Put(ctx, claim); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	claim.SetName("after")

	got, err := store.Get(ctx, claim.UUID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name() != "before" {
		t.Errorf("name = %q, want the stored snapshot", got.Name())
	}

	// And mutating the returned copy must not change the store either.
	got.(*models.Claim).SetName("aliased")
	again, err := store.Get(ctx, claim.UUID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Name() != "before" {
		t.Errorf("name = %q, store state was aliased", again.Name())
	}
}

func TestMemoryStoreListing(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := models.NewUser(uuid.New())
	claim := models.NewClaim(uuid.New(), user.UUID())
	item := models.NewItem(uuid.New(), claim.UUID())
	for _, e := range []models.Entity{user, claim, item} {
		if err := store.Put(ctx, e); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	claims, err := store.ListByKind(ctx, models.KindClaim, user.UUID())
	if err != nil {
		t.Fatalf("ListByKind failed: %v", err)
	}
	if len(claims) != 1 || claims[0].UUID() != claim.UUID() {
		t.Errorf("claims = %v, want exactly the user's claim", claims)
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 || store.Len() != 3 {
		t.Errorf("got %d documents (Len %d), want 3", len(all), store.Len())
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.Get(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete error = %v, want ErrNotFound", err)
	}
}
