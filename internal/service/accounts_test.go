package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
)

func TestCreateAndAuthenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	acc, err := e.accounts.Create(ctx, "alice", "abcdef1!", "a@b.com", "9876543210")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdef1!", acc.PasswordHash)

	id, err := e.accounts.Authenticate(ctx, "alice", "abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, model.Identity{Username: "alice", IsAdmin: false}, id)

	_, err = e.accounts.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.accounts.Authenticate(ctx, "bob", "abcdef1!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = e.accounts.Create(ctx, "alice", "abcdef1!", "a@b.com", "9876543210")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name     string
		username string
		password string
		email    string
		mobile   string
	}{
		{"empty username", " ", "abcdef1!", "a@b.com", "9876543210"},
		{"space in username", "al ice", "abcdef1!", "a@b.com", "9876543210"},
		{"short password", "bob", "abc", "a@b.com", "9876543210"},
		{"no symbol", "bob", "abcdefg1", "a@b.com", "9876543210"},
		{"password over bcrypt limit", "bob", strings.Repeat("a", 80) + "1!", "a@b.com", "9876543210"},
		{"bad email", "bob", "abcdef1!", "not-an-email", "9876543210"},
		{"bad mobile", "bob", "abcdef1!", "a@b.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.accounts.Create(context.Background(), tt.username, tt.password, tt.email, tt.mobile)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Reason)
		})
	}
}

func TestAdminCredentials(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	id, err := e.accounts.Authenticate(ctx, "root", "R00t!pass")
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)
	assert.Equal(t, model.RoleAdmin, id.Role())

	_, err = e.accounts.Authenticate(ctx, "root", "r00t!pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// admin names are reserved
	_, err = e.accounts.Create(ctx, "root", "abcdef1!", "a@b.com", "9876543210")
	assert.ErrorIs(t, err, repository.ErrUsernameTaken)

	// the admin table only holds hashes
	assert.NotEqual(t, "R00t!pass", e.accounts.admins["root"])
}

func TestAccountsStorageFault(t *testing.T) {
	a, err := NewAccounts(brokenAccounts{}, nil, bcrypt.MinCost, zap.NewNop())
	require.NoError(t, err)

	_, err = a.Authenticate(context.Background(), "alice", "abcdef1!")
	assert.ErrorIs(t, err, errStorage)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Create(context.Background(), "alice", "abcdef1!", "a@b.com", "9876543210")
	assert.ErrorIs(t, err, errStorage)

	_, err = a.Profile(context.Background(), model.Identity{Username: "alice"})
	assert.ErrorIs(t, err, errStorage)
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.accounts.Create(ctx, "alice", "abcdef1!", "a@b.com", "9876543210")
	require.NoError(t, err)

	acc, err := e.accounts.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", acc.Email)

	_, err = e.accounts.Profile(ctx, model.Identity{Username: "ghost"})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	acc, err = e.accounts.Profile(ctx, testAdmin)
	require.NoError(t, err)
	assert.Equal(t, "root", acc.Username)
}
