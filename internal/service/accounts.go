package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/metrics"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/utils"
	"github.com/iliyamo/cinema-ticket-booking/internal/validation"
)

const maxUsernameLen = 64

// Accounts creates customer accounts and authenticates both customers and
// the statically configured admins.
type Accounts struct {
	store  repository.AccountStore
	admins map[string]string // username -> bcrypt hash
	cost   int
	log    *zap.Logger
	now    func() time.Time
}

// NewAccounts hashes the clear-text admin table once so admin logins go
// through the same bcrypt check as customers.
func NewAccounts(store repository.AccountStore, admins map[string]string, cost int, log *zap.Logger) (*Accounts, error) {
	hashed := make(map[string]string, len(admins))
	for name, pw := range admins {
		h, err := utils.HashPassword(pw, cost)
		if err != nil {
			return nil, fmt.Errorf("hash admin %q: %w", name, err)
		}
		hashed[name] = h
	}
	return &Accounts{store: store, admins: hashed, cost: cost, log: log, now: time.Now}, nil
}

// Create registers a customer.  Reserved admin names are reported as taken.
func (a *Accounts) Create(ctx context.Context, username, password, email, mobile string) (model.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	mobile = strings.TrimSpace(mobile)
	switch {
	case username == "":
		return model.Account{}, invalid("username is required")
	case len(username) > maxUsernameLen || strings.ContainsAny(username, " \t\r\n"):
		return model.Account{}, invalid("username must be at most %d characters without spaces", maxUsernameLen)
	case !validation.PasswordIsStrong(password):
		return model.Account{}, invalid("password must be at least 8 characters and contain a digit and one of !@#$%%^&*")
	case len(password) > utils.MaxPasswordBytes:
		return model.Account{}, invalid("password must be at most %d bytes", utils.MaxPasswordBytes)
	case !validation.EmailIsValid(email):
		return model.Account{}, invalid("email is not valid")
	case !validation.MobileIsValid(mobile):
		return model.Account{}, invalid("mobile must be exactly 10 digits")
	}
	if _, ok := a.admins[username]; ok {
		return model.Account{}, repository.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(password, a.cost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}
	acc := model.Account{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Mobile:       mobile,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.store.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return model.Account{}, err
		}
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}
	metrics.IncSignup()
	a.log.Info("account created", zap.String("username", username))
	return acc, nil
}

// Authenticate checks the admin table first, then customer accounts.  An
// admin name never falls through to the customer store.
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (model.Identity, error) {
	username = strings.TrimSpace(username)
	if hash, ok := a.admins[username]; ok {
		if !utils.VerifyPassword(hash, password) {
			return model.Identity{}, ErrInvalidCredentials
		}
		return model.Identity{Username: username, IsAdmin: true}, nil
	}
	acc, err := a.store.Get(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("load account: %w", err)
	}
	if !utils.VerifyPassword(acc.PasswordHash, password) {
		return model.Identity{}, ErrInvalidCredentials
	}
	return model.Identity{Username: acc.Username}, nil
}

// Profile returns the stored account of a customer identity.  Admins have
// no stored profile.
func (a *Accounts) Profile(ctx context.Context, id model.Identity) (model.Account, error) {
	if id.IsAdmin {
		return model.Account{Username: id.Username}, nil
	}
	acc, err := a.store.Get(ctx, id.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("load account: %w", err)
	}
	return acc, nil
}
