package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "traveltracker-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Put and Get round-trip a claim", func(t *testing.T) {
		claimant := uuid.New()
		claim := models.NewClaim(uuid.New(), claimant)
		claim.SetName("Field visit")
		claim.SetStatus(models.StatusSubmitted)
		claim.SetDestinations([]models.Destination{{Location: "Red Deer", Reason: "audit"}})

		if err := store.Put(ctx, claim); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := store.Get(ctx, claim.UUID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		retrieved, ok := got.(*models.Claim)
		if !ok {
			t.Fatalf("Get returned %T, want *models.Claim", got)
		}
		if retrieved.User() != claimant {
			t.Errorf("user = %s, want %s", retrieved.User(), claimant)
		}
		if retrieved.Status() != models.StatusSubmitted {
			t.Errorf("status = %v, want %v", retrieved.Status(), models.StatusSubmitted)
		}
		if len(retrieved.Destinations()) != 1 {
			t.Errorf("destinations = %v, want one entry", retrieved.Destinations())
		}
	})

	t.Run("Put replaces an existing document", func(t *testing.T) {
		item := models.NewItem(uuid.New(), uuid.New())
		item.SetAmount(10)

		if err := store.Put(ctx, item); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		item.SetAmount(25)
		if err := store.Put(ctx, item); err != nil {
			t.Fatalf("second Put failed: %v", err)
		}

		got, err := store.Get(ctx, item.UUID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if amount := got.(*models.Item).Amount(); amount != 25 {
			t.Errorf("amount = %v, want 25", amount)
		}
	})

	t.Run("Get returns not-found for unknown id", func(t *testing.T) {
		id := uuid.New()
		_, err := store.Get(ctx, id)
		if !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
		var docErr *models.DocumentError
		if !errors.As(err, &docErr) || docErr.ID != id {
			t.Errorf("error should reference id %s, got %v", id, err)
		}
	})

	t.Run("Delete removes and reports absence", func(t *testing.T) {
		user := models.NewUser(uuid.New())
		if err := store.Put(ctx, user); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := store.Delete(ctx, user.UUID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := store.Delete(ctx, user.UUID()); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStoreListing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser(uuid.New())
	bob := models.NewUser(uuid.New())

	aliceClaim := models.NewClaim(uuid.New(), alice.UUID())
	bobClaim := models.NewClaim(uuid.New(), bob.UUID())

	item1 := models.NewItem(uuid.New(), aliceClaim.UUID())
	item2 := models.NewItem(uuid.New(), aliceClaim.UUID())
	item3 := models.NewItem(uuid.New(), bobClaim.UUID())

	for _, e := range []models.Entity{alice, bob, aliceClaim, bobClaim, item1, item2, item3} {
		if err := store.Put(ctx, e); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	t.Run("claims by claimant", func(t *testing.T) {
		claims, err := store.ListByKind(ctx, models.KindClaim, alice.UUID())
		if err != nil {
			t.Fatalf("ListByKind failed: %v", err)
		}
		if len(claims) != 1 || claims[0].UUID() != aliceClaim.UUID() {
			t.Errorf("got %d claims, want exactly alice's", len(claims))
		}
	})

	t.Run("items by claim", func(t *testing.T) {
		items, err := store.ListByKind(ctx, models.KindItem, aliceClaim.UUID())
		if err != nil {
			t.Fatalf("ListByKind failed: %v", err)
		}
		if len(items) != 2 {
			t.Errorf("got %d items, want 2", len(items))
		}
	})

	t.Run("all of one kind", func(t *testing.T) {
		users, err := store.ListByKind(ctx, models.KindUser, uuid.Nil)
		if err != nil {
			t.Fatalf("ListByKind failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("got %d users, want 2", len(users))
		}
	})

	t.Run("everything for bulk load", func(t *testing.T) {
		all, err := store.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(all) != 7 {
			t.Errorf("got %d documents, want 7", len(all))
		}
	})
}

func TestSQLiteAccounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := &storage.Account{
		Email:        "claimant@example.com",
		DisplayName:  "Claimant One",
		PasswordHash: "$2a$10$fakehash",
	}
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if account.ID == "" {
		t.Error("expected account ID to be generated")
	}
	if account.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}

	byEmail, err := store.GetAccountByEmail(ctx, "claimant@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != account.ID {
		t.Errorf("got %+v, want account %s", byEmail, account.ID)
	}

	missing, err := store.GetAccountByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}

	if err := store.CreateAccount(ctx, &storage.Account{
		Email:        "claimant@example.com",
		DisplayName:  "Duplicate",
		PasswordHash: "x",
	}); err == nil {
		t.Error("expected unique email constraint violation")
	}
}
