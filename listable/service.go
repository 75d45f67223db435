package listable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/internal/events"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collection names.
const (
	ListsCollection = "lists"
	UsersCollection = "users"
	itemsSegment    = "items"
)

// ItemsCollection returns the collection holding the items of a list.
func ItemsCollection(listID string) string {
	return docstore.CollectionPath(ListsCollection, listID, itemsSegment)
}

// Service implements listable operations on a document store.
type Service struct {
	store  docstore.Store
	events *events.Manager
	logger *zap.Logger
	now    func() time.Time
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Events receives change notifications. Optional.
	Events *events.Manager

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewService creates a service over store.
func NewService(store docstore.Store, opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:  store,
		events: opts.Events,
		logger: opts.Logger,
		now:    opts.Now,
	}
}

// Store returns the underlying document store.
func (s *Service) Store() docstore.Store {
	return s.store
}

// ListablesByType returns the listables the user owns or has shared with
// them, sorted by the user's priority and name. A nil type returns all.
func (s *Service) ListablesByType(ctx context.Context, userID string, t *Type) ([]Listable, error) {
	if t != nil && !t.IsValid() {
		return nil, ValidateType(*t, "")
	}

	owned := []docstore.Filter{docstore.Where(fieldOwner, docstore.OpEqual, userID)}
	shared := []docstore.Filter{docstore.Where(fieldSharedWith, docstore.OpArrayContains, userID)}
	if t != nil {
		owned = append(owned, docstore.Where(fieldType, docstore.OpEqual, string(*t)))
		shared = append(shared, docstore.Where(fieldType, docstore.OpEqual, string(*t)))
	}

	var ownedDocs, sharedDocs []docstore.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.store.Query(gctx, ListsCollection, owned...)
		ownedDocs = docs
		return err
	})
	g.Go(func() error {
		docs, err := s.store.Query(gctx, ListsCollection, shared...)
		sharedDocs = docs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}

	seen := make(map[string]struct{}, len(ownedDocs)+len(sharedDocs))
	listables := make([]Listable, 0, len(ownedDocs)+len(sharedDocs))
	for _, doc := range append(ownedDocs, sharedDocs...) {
		if _, ok := seen[doc.ID]; ok {
			continue
		}
		seen[doc.ID] = struct{}{}
		listables = append(listables, ListableFromDocument(doc, userID))
	}
	SortByPriorityAndName(listables)

	s.events.Trigger(events.Event{Name: events.ListablesLoaded, UserID: userID})
	return listables, nil
}

// Listable returns one listable visible to the user.
func (s *Service) Listable(ctx context.Context, userID, id string) (*Listable, error) {
	if id == "" {
		return nil, ErrListableNotFound
	}
	doc, err := s.store.Get(ctx, ListsCollection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, docstore.ErrInvalidID) {
			return nil, fmt.Errorf("%w: %s", ErrListableNotFound, id)
		}
		return nil, fmt.Errorf("get list %s: %w", id, err)
	}
	l := ListableFromDocument(doc, userID)
	if !CanView(l, userID) {
		return nil, fmt.Errorf("%w: %s", ErrListableNotFound, id)
	}
	return &l, nil
}

// CreateOptions configures a new listable.
type CreateOptions struct {
	// Type defaults to TypeToDo.
	Type Type

	SubType       SubType
	Description   string
	KeepDoneItems bool
	NoteContent   string

	// Priority is the owner's priority. Defaults to PriorityLowest.
	Priority *int
}

// Create creates a listable owned by the user.
func (s *Service) Create(ctx context.Context, userID, name string, opts CreateOptions) (*Listable, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if opts.Type == "" {
		opts.Type = TypeToDo
	}
	if err := ValidateType(opts.Type, opts.SubType); err != nil {
		return nil, err
	}
	priority := opts.Priority
	if priority == nil {
		priority = PriorityPtr(PriorityLowest)
	}

	l := Listable{
		Type:          opts.Type,
		SubType:       opts.SubType,
		Name:          name,
		Description:   opts.Description,
		Owner:         userID,
		SharedWith:    []string{},
		Priority:      priority,
		KeepDoneItems: opts.KeepDoneItems,
		ChangedBy:     userID,
		ModifiedAt:    s.now().UnixMilli(),
		favorites:     []string{},
	}
	if l.IsNote() {
		l.NoteContent = opts.NoteContent
	}

	id, err := s.store.Create(ctx, ListsCollection, listableDocument(l))
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	l.ID = id

	s.logger.Debug("created listable", zap.String("id", id), zap.String("type", string(l.Type)), zap.String("user", userID))
	s.trigger(events.ListableChanged, userID, l, "")
	return &l, nil
}

// UpdateOptions configures fields to update on a listable.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Name          *string
	Description   *string
	Type          *Type
	SubType       *SubType
	KeepDoneItems *bool
}

// Update changes the editable fields of a listable visible to the user.
func (s *Service) Update(ctx context.Context, userID, id string, opts UpdateOptions) (*Listable, error) {
	current, err := s.Listable(ctx, userID, id)
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
	nextType, nextSub := current.Type, current.SubType
	if opts.Type != nil {
		nextType = *opts.Type
	}
	if opts.SubType != nil {
		nextSub = *opts.SubType
	}
	if opts.Type != nil || opts.SubType != nil {
		if err := ValidateType(nextType, nextSub); err != nil {
			return nil, err
		}
		updates = append(updates,
			docstore.Update{Path: fieldType, Value: string(nextType)},
			docstore.Update{Path: fieldSubType, Value: string(nextSub)},
		)
	}
	if opts.Description != nil {
		updates = append(updates, docstore.Update{Path: fieldDescription, Value: *opts.Description})
	}
	if opts.KeepDoneItems != nil {
		updates = append(updates, docstore.Update{Path: fieldKeepDoneItems, Value: *opts.KeepDoneItems})
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := s.update(ctx, ListsCollection, id, userID, updates...); err != nil {
		return nil, fmt.Errorf("update list %s: %w", id, err)
	}
	updated, err := s.Listable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.trigger(events.ListableChanged, userID, *updated, "")
	return updated, nil
}

// SaveList creates the listable when it has no id and updates its editable
// fields otherwise.
func (s *Service) SaveList(ctx context.Context, userID string, l Listable) (*Listable, error) {
	if l.ID == "" {
		return s.Create(ctx, userID, l.Name, CreateOptions{
			Type:          l.Type,
			SubType:       l.SubType,
			Description:   l.Description,
			KeepDoneItems: l.KeepDoneItems,
			NoteContent:   l.NoteContent,
			Priority:      l.Priority,
		})
	}
	opts := UpdateOptions{
		Name:          &l.Name,
		Description:   &l.Description,
		SubType:       &l.SubType,
		KeepDoneItems: &l.KeepDoneItems,
	}
	if l.Type != "" {
		opts.Type = &l.Type
	}
	return s.Update(ctx, userID, l.ID, opts)
}

// SaveNoteContent replaces the body of a note.
func (s *Service) SaveNoteContent(ctx context.Context, userID, id, content string) (*Listable, error) {
	current, err := s.Listable(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !current.IsNote() {
		return nil, fmt.Errorf("%w: %s", ErrNotANote, id)
	}
	if err := s.update(ctx, ListsCollection, id, userID, docstore.Update{Path: fieldNoteContent, Value: content}); err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	current.NoteContent = content
	current.ChangedBy = userID
	current.ModifiedAt = s.now().UnixMilli()
	s.trigger(events.ListableChanged, userID, *current, "")
	return current, nil
}

// DeleteListable deletes a listable the user owns together with its items.
// Lists shared with the user cannot be deleted.
func (s *Service) DeleteListable(ctx context.Context, userID, id string) error {
	l, err := s.Listable(ctx, userID, id)
	if err != nil {
		return err
	}
	if l.Owner != userID {
		return ErrSharedListDelete
	}

	items, err := s.store.Query(ctx, ItemsCollection(id))
	if err != nil {
		return fmt.Errorf("delete list %s: %w", id, err)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range items {
		g.Go(func() error {
			return s.store.Delete(gctx, ItemsCollection(id), item.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("delete list %s: %w", id, err)
	}
	if err := s.store.Delete(ctx, ListsCollection, id); err != nil {
		return fmt.Errorf("delete list %s: %w", id, err)
	}

	s.logger.Debug("deleted listable", zap.String("id", id), zap.Int("items", len(items)))
	s.trigger(events.ListableDeleted, userID, *l, "")
	return nil
}

// UpdateListsPriorities stores the user's priority for each listable.
func (s *Service) UpdateListsPriorities(ctx context.Context, userID string, updates []PriorityUpdate) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, update := range updates {
		g.Go(func() error {
			l, err := s.Listable(gctx, userID, update.ID)
			if err != nil {
				return err
			}
			if err := s.update(gctx, ListsCollection, update.ID, userID,
				docstore.Update{Path: priorityPath(userID), Value: update.Priority},
			); err != nil {
				return err
			}
			l.Priority = PriorityPtr(update.Priority)
			s.trigger(events.ListableChanged, userID, *l, "")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrUpdatingListsPriorities, err)
	}
	return nil
}

// update applies updates and stamps the audit fields.
func (s *Service) update(ctx context.Context, collection, id, userID string, updates ...docstore.Update) error {
	updates = append(updates,
		docstore.Update{Path: fieldChangedBy, Value: userID},
		docstore.Update{Path: fieldModifiedAt, Value: s.now().UnixMilli()},
	)
	return s.store.Update(ctx, collection, id, updates...)
}

// trigger notifies everyone who can see the listable.
func (s *Service) trigger(name, actor string, l Listable, itemID string) {
	audience := append([]string{l.Owner}, l.SharedWith...)
	s.events.Trigger(events.Event{
		Name:     name,
		UserID:   actor,
		ListID:   l.ID,
		ItemID:   itemID,
		Audience: audience,
	})
}
