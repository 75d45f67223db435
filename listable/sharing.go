package listable

import (
	"context"
	"fmt"
	"sort"

	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/internal/events"
)

// ToggleFavorite adds or removes the listable from the user's favorites and
// returns the new state.
func (s *Service) ToggleFavorite(ctx context.Context, userID, id string) (bool, error) {
	l, err := s.Listable(ctx, userID, id)
	if err != nil {
		return false, err
	}

	value := docstore.ArrayUnion(userID)
	favorites := AddFavorite(l.favorites, userID)
	if IsFavorite(l.favorites, userID) {
		value = docstore.ArrayRemove(userID)
		favorites = RemoveFavorite(l.favorites, userID)
	}
	if err := s.store.Update(ctx, ListsCollection, id, docstore.Update{Path: fieldFavorites, Value: value}); err != nil {
		return false, fmt.Errorf("toggle favorite %s: %w", id, err)
	}

	s.events.Trigger(events.Event{Name: events.ListableChanged, UserID: userID, ListID: id})
	return IsFavorite(favorites, userID), nil
}

// AddFavorite returns ids with userID appended unless already present.
func AddFavorite(ids []string, userID string) []string {
	if IsFavorite(ids, userID) {
		return ids
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, userID)
}

// RemoveFavorite returns ids without userID.
func RemoveFavorite(ids []string, userID string) []string {
	if !IsFavorite(ids, userID) {
		return ids
	}
	out := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// IsFavorite reports whether userID is in ids.
func IsFavorite(ids []string, userID string) bool {
	return containsString(ids, userID)
}

// Favorites returns the user's favorite listables sorted by name.
func (s *Service) Favorites(ctx context.Context, userID string) ([]FavoriteEntry, error) {
	docs, err := s.store.Query(ctx, ListsCollection, docstore.Where(fieldFavorites, docstore.OpArrayContains, userID))
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}

	entries := make([]FavoriteEntry, 0, len(docs))
	for _, doc := range docs {
		l := ListableFromDocument(doc, userID)
		if !CanView(l, userID) {
			continue
		}
		entries = append(entries, FavoriteEntry{ID: l.ID, Name: l.Name, Type: l.Type})
	}

	collator := newCollator()
	sort.SliceStable(entries, func(i, j int) bool {
		return collator.CompareString(entries[i].Name, entries[j].Name) < 0
	})
	return entries, nil
}

// Share gives another user access to a listable the user owns.
func (s *Service) Share(ctx context.Context, userID, id, withUserID string) (*Listable, error) {
	l, err := s.Listable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if l.Owner != userID {
		return nil, ErrNotOwner
	}
	if withUserID == l.Owner {
		return nil, ErrShareWithOwner
	}
	if _, err := s.User(ctx, withUserID); err != nil {
		return nil, err
	}

	if err := s.update(ctx, ListsCollection, id, userID,
		docstore.Update{Path: fieldSharedWith, Value: docstore.ArrayUnion(withUserID)},
	); err != nil {
		return nil, fmt.Errorf("share list %s: %w", id, err)
	}
	if !containsString(l.SharedWith, withUserID) {
		l.SharedWith = append(l.SharedWith, withUserID)
	}
	s.trigger(events.ListableChanged, userID, *l, "")
	return l, nil
}

// Unshare revokes access to a listable. The owner may remove anyone; a user
// the listable is shared with may remove themselves. The removed user's
// favorite mark and priority are dropped too.
func (s *Service) Unshare(ctx context.Context, userID, id, withUserID string) (*Listable, error) {
	l, err := s.Listable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if l.Owner != userID && withUserID != userID {
		return nil, ErrNotOwner
	}
	if withUserID == l.Owner {
		return nil, ErrShareWithOwner
	}

	if err := s.update(ctx, ListsCollection, id, userID,
		docstore.Update{Path: fieldSharedWith, Value: docstore.ArrayRemove(withUserID)},
		docstore.Update{Path: fieldFavorites, Value: docstore.ArrayRemove(withUserID)},
		docstore.Update{Path: priorityPath(withUserID), Value: docstore.DeleteField},
	); err != nil {
		return nil, fmt.Errorf("unshare list %s: %w", id, err)
	}

	audience := *l
	remaining := make([]string, 0, len(l.SharedWith))
	for _, sharedID := range l.SharedWith {
		if sharedID != withUserID {
			remaining = append(remaining, sharedID)
		}
	}
	l.SharedWith = remaining
	s.trigger(events.ListableChanged, userID, audience, "")
	return l, nil
}
