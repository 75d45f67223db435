package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/internal/ids"
	"github.com/amonks/lists/listable"
	"golang.org/x/crypto/bcrypt"
)

// AccountsCollection holds one document per email address.
const AccountsCollection = "accounts"

var (
	// ErrEmailTaken is returned when an account with the email already exists.
	ErrEmailTaken = errors.New("Email already in use")

	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Accounts registers and authenticates local users.
type Accounts struct {
	store docstore.Store
	users *listable.Service
	cost  int

	// mu serializes registrations so an email cannot be claimed twice by
	// one process.
	mu sync.Mutex
}

// AccountsOptions configures Accounts.
type AccountsOptions struct {
	// Cost is the bcrypt cost. Defaults to bcrypt.DefaultCost.
	Cost int
}

// NewAccounts creates an account service. Profiles are written through users.
func NewAccounts(store docstore.Store, users *listable.Service, opts AccountsOptions) *Accounts {
	if opts.Cost == 0 {
		opts.Cost = bcrypt.DefaultCost
	}
	return &Accounts{store: store, users: users, cost: opts.Cost}
}

// Register validates the registration, stores the account and ensures the
// user profile exists.
func (a *Accounts) Register(ctx context.Context, reg Registration) (*listable.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	email := NormalizeEmail(reg.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.store.Get(ctx, AccountsCollection, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	userID := ids.New()
	if err := a.store.Set(ctx, AccountsCollection, email, map[string]any{
		"email":        email,
		"passwordHash": string(hash),
		"userId":       userID,
	}); err != nil {
		return nil, fmt.Errorf("store account: %w", err)
	}

	return a.users.EnsureUser(ctx, listable.User{ID: userID, Name: reg.Name, Email: email})
}

// Login checks the password and returns the user's profile.
func (a *Accounts) Login(ctx context.Context, email, password string) (*listable.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	doc, err := a.store.Get(ctx, AccountsCollection, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, docstore.ErrInvalidID) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	hash, _ := doc.Data["passwordHash"].(string)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	userID, _ := doc.Data["userId"].(string)
	return a.users.EnsureUser(ctx, listable.User{ID: userID, Email: email})
}
