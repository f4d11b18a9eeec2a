package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"traveltracker/internal/storage"
)

// CreateAccount inserts a new account into the database, generating the id
// and creation time when unset.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *storage.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, display_name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		account.ID, account.Email, account.DisplayName, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail retrieves an account by email address.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*storage.Account, error) {
	return s.getAccount(ctx,
		"SELECT id, email, display_name, password_hash, created_at FROM accounts WHERE email = ?",
		email)
}

// GetAccountByID retrieves an account by id.
func (s *SQLiteStore) GetAccountByID(ctx context.Context, id string) (*storage.Account, error) {
	return s.getAccount(ctx,
		"SELECT id, email, display_name, password_hash, created_at FROM accounts WHERE id = ?",
		id)
}

func (s *SQLiteStore) getAccount(ctx context.Context, query string, arg string) (*storage.Account, error) {
	account := &storage.Account{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.DisplayName,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}
