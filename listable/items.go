package listable

import (
	"context"
	"errors"
	"fmt"

	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/internal/events"
	"github.com/amonks/lists/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// list returns a visible listable and fails for notes.
func (s *Service) list(ctx context.Context, userID, listID string) (*Listable, error) {
	l, err := s.Listable(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if !l.Type.IsList() {
		return nil, fmt.Errorf("%w: %s", ErrNotAList, listID)
	}
	return l, nil
}

// ListWithItems loads a list and its items concurrently.
func (s *Service) ListWithItems(ctx context.Context, userID, listID string) (*ListWithItems, error) {
	var (
		l     *Listable
		items []Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		l, err = s.list(gctx, userID, listID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.items(gctx, userID, listID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.NumberOfItems = len(items)
	return &ListWithItems{Listable: *l, Items: items}, nil
}

// Items returns the items of a list sorted by the user's priority and name.
func (s *Service) Items(ctx context.Context, userID, listID string) ([]Item, error) {
	if _, err := s.list(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.items(ctx, userID, listID)
}

func (s *Service) items(ctx context.Context, userID, listID string) ([]Item, error) {
	docs, err := s.store.Query(ctx, ItemsCollection(listID))
	if err != nil {
		if errors.Is(err, docstore.ErrInvalidCollection) {
			return nil, fmt.Errorf("%w: %s", ErrListableNotFound, listID)
		}
		return nil, fmt.Errorf("query items of %s: %w", listID, err)
	}
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ItemFromDocument(doc, userID, listID))
	}
	SortByPriorityAndName(items)
	return items, nil
}

// Item returns one item of a list visible to the user.
func (s *Service) Item(ctx context.Context, userID, listID, itemID string) (*Item, error) {
	if _, err := s.list(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.item(ctx, userID, listID, itemID)
}

func (s *Service) item(ctx context.Context, userID, listID, itemID string) (*Item, error) {
	doc, err := s.store.Get(ctx, ItemsCollection(listID), itemID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, docstore.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		return nil, fmt.Errorf("get item %s: %w", itemID, err)
	}
	item := ItemFromDocument(doc, userID, listID)
	return &item, nil
}

// QuickCreateItem appends a pending item to the end of the user's pending
// items.
func (s *Service) QuickCreateItem(ctx context.Context, userID, listID, name string) (*Item, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	list, err := s.ListWithItems(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	item := Item{
		ListID:     listID,
		Name:       name,
		Status:     StatusPending,
		Priority:   PriorityPtr(NextItemPriority(*list)),
		Owner:      userID,
		ChangedBy:  userID,
		ModifiedAt: s.now().UnixMilli(),
	}
	id, err := s.store.Create(ctx, ItemsCollection(listID), ItemToDocument(item, userID))
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	item.ID = id

	if err := s.setItemCount(ctx, userID, listID, len(list.Items)+1); err != nil {
		return nil, err
	}

	s.logger.Debug("created item", zap.String("list", listID), zap.String("id", id), zap.Int("priority", *item.Priority))
	s.trigger(events.ItemChanged, userID, list.Listable, id)
	return &item, nil
}

// ItemUpdateOptions configures fields to update on an item.
// Nil pointers mean "don't update this field".
type ItemUpdateOptions struct {
	Name   *string
	Notes  *string
	Status *ItemStatus

	// Priority sets the user's priority for the item.
	Priority *int
}

// UpdateItem changes an item of a list visible to the user.
func (s *Service) UpdateItem(ctx context.Context, userID, listID, itemID string, opts ItemUpdateOptions) (*Item, error) {
	list, err := s.list(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	current, err := s.item(ctx, userID, listID, itemID)
	if err != nil {
		return nil, err
	}

	var updates []docstore.Update
	if opts.Name != nil {
		name, err := ValidateName(*opts.Name)
		if err != nil {
			return nil, err
		}
		updates = append(updates, docstore.Update{Path: fieldName, Value: name})
	}
	if opts.Notes != nil {
		updates = append(updates, docstore.Update{Path: fieldNotes, Value: *opts.Notes})
	}
	if opts.Status != nil {
		if !opts.Status.IsValid() {
			return nil, validation.FormatInvalidValueError(ErrInvalidStatus, *opts.Status, ValidItemStatuses())
		}
		updates = append(updates, docstore.Update{Path: fieldStatus, Value: string(*opts.Status)})
	}
	if opts.Priority != nil {
		updates = append(updates, docstore.Update{Path: priorityPath(userID), Value: *opts.Priority})
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := s.update(ctx, ItemsCollection(listID), itemID, userID, updates...); err != nil {
		return nil, fmt.Errorf("update item %s: %w", itemID, err)
	}
	updated, err := s.item(ctx, userID, listID, itemID)
	if err != nil {
		return nil, err
	}
	s.trigger(events.ItemChanged, userID, *list, itemID)
	return updated, nil
}

// SaveItem writes the editable fields of an existing item. An empty status
// keeps the stored one.
func (s *Service) SaveItem(ctx context.Context, userID string, item Item) (*Item, error) {
	opts := ItemUpdateOptions{
		Name:     &item.Name,
		Notes:    &item.Notes,
		Priority: item.Priority,
	}
	if item.Status != "" {
		opts.Status = &item.Status
	}
	return s.UpdateItem(ctx, userID, item.ListID, item.ID, opts)
}

// SetItemStatus moves an item to the given status.
func (s *Service) SetItemStatus(ctx context.Context, userID, listID, itemID string, status ItemStatus) (*Item, error) {
	if !status.IsValid() {
		return nil, validation.FormatInvalidValueError(ErrInvalidStatus, status, ValidItemStatuses())
	}
	return s.UpdateItem(ctx, userID, listID, itemID, ItemUpdateOptions{Status: &status})
}

// SetItemToDone marks an item done.
func (s *Service) SetItemToDone(ctx context.Context, userID, listID, itemID string) (*Item, error) {
	return s.SetItemStatus(ctx, userID, listID, itemID, StatusDone)
}

// SetItemToPending marks an item pending.
func (s *Service) SetItemToPending(ctx context.Context, userID, listID, itemID string) (*Item, error) {
	return s.SetItemStatus(ctx, userID, listID, itemID, StatusPending)
}

// DeleteItem removes an item from a list visible to the user.
func (s *Service) DeleteItem(ctx context.Context, userID, listID, itemID string) error {
	list, err := s.list(ctx, userID, listID)
	if err != nil {
		return err
	}
	if _, err := s.item(ctx, userID, listID, itemID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, ItemsCollection(listID), itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}

	docs, err := s.store.Query(ctx, ItemsCollection(listID))
	if err != nil {
		return fmt.Errorf("count items of %s: %w", listID, err)
	}
	if err := s.setItemCount(ctx, userID, listID, len(docs)); err != nil {
		return err
	}

	s.trigger(events.ItemDeleted, userID, *list, itemID)
	return nil
}

// UpdateItemsOrder stores the user's priority for each item of a list.
func (s *Service) UpdateItemsOrder(ctx context.Context, userID, listID string, updates []PriorityUpdate) error {
	list, err := s.list(ctx, userID, listID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdatingItemsPriorities, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, update := range updates {
		g.Go(func() error {
			return s.update(gctx, ItemsCollection(listID), update.ID, userID,
				docstore.Update{Path: priorityPath(userID), Value: update.Priority},
			)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrUpdatingItemsPriorities, err)
	}

	s.trigger(events.ItemChanged, userID, *list, "")
	return nil
}

func (s *Service) setItemCount(ctx context.Context, userID, listID string, count int) error {
	if err := s.update(ctx, ListsCollection, listID, userID,
		docstore.Update{Path: fieldNumberOfItems, Value: count},
	); err != nil {
		return fmt.Errorf("update item count of %s: %w", listID, err)
	}
	return nil
}
