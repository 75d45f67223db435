package listable

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/amonks/lists/internal/docstore"
)

// User returns a stored profile.
func (s *Service) User(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}
	doc, err := s.store.Get(ctx, UsersCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, docstore.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	u := UserFromDocument(doc)
	return &u, nil
}

// EnsureUser stores the profile when none exists yet and returns the stored
// profile otherwise.
func (s *Service) EnsureUser(ctx context.Context, u User) (*User, error) {
	existing, err := s.User(ctx, u.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err := docstore.ValidateID(u.ID); err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if err := s.store.Set(ctx, UsersCollection, u.ID, UserToDocument(u)); err != nil {
		return nil, fmt.Errorf("create user %s: %w", u.ID, err)
	}
	return &u, nil
}

// Users returns every profile sorted by display name.
func (s *Service) Users(ctx context.Context) ([]User, error) {
	docs, err := s.store.Query(ctx, UsersCollection)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	users := make([]User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, UserFromDocument(doc))
	}
	collator := newCollator()
	sort.SliceStable(users, func(i, j int) bool {
		return collator.CompareString(users[i].DisplayName(), users[j].DisplayName()) < 0
	})
	return users, nil
}

// UpdateUserName changes the profile name.
func (s *Service) UpdateUserName(ctx context.Context, id, name string) (*User, error) {
	return s.updateUserDetails(ctx, id, docstore.Update{Path: fieldName, Value: strings.TrimSpace(name)})
}

// UpdateUserLocation stores a human-readable location.
func (s *Service) UpdateUserLocation(ctx context.Context, id, location string) (*User, error) {
	return s.updateUserDetails(ctx, id, docstore.Update{Path: fieldLocation, Value: location})
}

// UpdateUserPhoto stores the profile photo URL.
func (s *Service) UpdateUserPhoto(ctx context.Context, id, photoURL string) (*User, error) {
	return s.updateUserDetails(ctx, id, docstore.Update{Path: fieldPhotoURL, Value: photoURL})
}

func (s *Service) updateUserDetails(ctx context.Context, id string, updates ...docstore.Update) (*User, error) {
	if err := s.store.Update(ctx, UsersCollection, id, updates...); err != nil {
		if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, docstore.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return s.User(ctx, id)
}
