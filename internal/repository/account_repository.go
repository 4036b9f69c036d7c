package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// AccountRepo stores accounts in the MySQL `accounts` table.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts the account.  A duplicate username yields ErrUsernameTaken.
func (r *AccountRepo) Create(ctx context.Context, acc model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (username, password_hash, email, mobile, created_at) VALUES (?,?,?,?,?)",
		acc.Username, acc.PasswordHash, acc.Email, acc.Mobile, acc.CreatedAt.UTC())
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Get fetches an account by username.
func (r *AccountRepo) Get(ctx context.Context, username string) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, password_hash, email, mobile, created_at FROM accounts WHERE username=? LIMIT 1",
		username).Scan(&a.Username, &a.PasswordHash, &a.Email, &a.Mobile, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("select account: %w", err)
	}
	return a, nil
}
