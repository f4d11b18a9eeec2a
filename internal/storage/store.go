// Package storage provides abstractions for document persistence.
package storage

import (
	"context"

	"github.com/google/uuid"

	"traveltracker/internal/models"
)

// Store is the interface every document backend implements: the SQLite local
// cache, the in-memory store, and the HTTP remote client. The datasource
// programs against this interface only, so backends can be swapped without
// touching the sync logic.
//
// Lookups for ids with no backing document return an error wrapping
// models.ErrNotFound; remote implementations signal unreachable backends
// with models.ErrTransient instead, so callers can tell retryable failures
// apart.
type Store interface {
	// Put inserts or replaces the document with the entity's id.
	Put(ctx context.Context, e models.Entity) error

	// Get retrieves a document by id.
	Get(ctx context.Context, id uuid.UUID) (models.Entity, error)

	// Delete removes a document by id. Deleting an absent id is an
	// ErrNotFound error.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByKind retrieves all documents of one kind. A non-Nil owner
	// narrows the result to documents owned by that id: claims by claimant,
	// items by claim.
	ListByKind(ctx context.Context, kind models.Kind, owner uuid.UUID) ([]models.Entity, error)

	// ListAll retrieves every document in the store, for bulk loading.
	ListAll(ctx context.Context) ([]models.Entity, error)

	// Close releases any resources held by the store.
	Close() error
}

// Account is a server-side authentication record. Accounts are not User
// documents: a User is an identity anchor inside the document model, an
// Account is who may talk to the sync backend.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// Email is the account's login email (unique).
	Email string

	// DisplayName is the human-readable account name.
	DisplayName string

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// AccountStore is implemented by backends that can hold authentication
// records alongside documents.
type AccountStore interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, account *Account) error

	// GetAccountByEmail retrieves an account by email. Returns nil without
	// an error when no account matches.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// GetAccountByID retrieves an account by id. Returns nil without an
	// error when no account matches.
	GetAccountByID(ctx context.Context, id string) (*Account, error)
}
