package auth

import (
	"context"

	"traveltracker/internal/storage"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the handler code.
type Authenticator interface {
	// Register creates a new account with the given email and credential.
	// The credential format depends on the implementation (e.g., password, OAuth token, etc.)
	// Returns the created account or an error if registration fails.
	Register(ctx context.Context, email, displayName, credential string) (*storage.Account, error)

	// Authenticate verifies the credentials and returns the account if successful.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, email, credential string) (*storage.Account, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	// For passwords: check length, complexity, etc.
	// For other methods: validate format, etc.
	ValidateCredential(credential string) error
}
