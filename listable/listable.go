package listable

// Listable is a list or a note as seen by one user.
//
// Priority, IsShared and IsFavorite are derived for the viewing user when
// the document is loaded.
type Listable struct {
	ID          string  `json:"id" yaml:"id"`
	Type        Type    `json:"type" yaml:"type"`
	SubType     SubType `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`

	// Owner is the id of the user who created the listable.
	Owner string `json:"owner" yaml:"owner"`

	// SharedWith lists the ids of users the owner shared the listable with.
	SharedWith []string `json:"sharedWith" yaml:"sharedWith"`

	// Priority is the viewer's manual ordering value.
	Priority *int `json:"priority,omitempty" yaml:"priority,omitempty"`

	// IsShared is true when the viewer sees the listable through sharing.
	IsShared bool `json:"isShared" yaml:"isShared"`

	// IsFavorite is true when the viewer marked the listable as a favorite.
	IsFavorite bool `json:"isFavorite" yaml:"isFavorite"`

	NumberOfItems int  `json:"numberOfItems" yaml:"numberOfItems"`
	KeepDoneItems bool `json:"keepDoneItems" yaml:"keepDoneItems"`

	// NoteContent is the body of a note.
	NoteContent string `json:"noteContent,omitempty" yaml:"noteContent,omitempty"`

	ChangedBy  string `json:"changedBy" yaml:"changedBy"`
	ModifiedAt int64  `json:"modifiedAt" yaml:"modifiedAt"`

	favorites      []string
	userPriorities map[string]int
}

// IsNote returns true when the listable is a note.
func (l Listable) IsNote() bool {
	return l.Type == TypeNote
}

// SortName implements Sortable.
func (l Listable) SortName() string {
	return l.Name
}

// SortPriority implements Sortable.
func (l Listable) SortPriority() *int {
	return l.Priority
}

// Item is a child entity of a list.
type Item struct {
	ID     string     `json:"id" yaml:"id"`
	ListID string     `json:"listId" yaml:"listId"`
	Name   string     `json:"name" yaml:"name"`
	Notes  string     `json:"notes" yaml:"notes"`
	Status ItemStatus `json:"status" yaml:"status"`

	// Priority is the viewer's manual ordering value.
	Priority *int `json:"priority,omitempty" yaml:"priority,omitempty"`

	Owner      string `json:"owner" yaml:"owner"`
	ChangedBy  string `json:"changedBy" yaml:"changedBy"`
	ModifiedAt int64  `json:"modifiedAt" yaml:"modifiedAt"`
}

// SortName implements Sortable.
func (i Item) SortName() string {
	return i.Name
}

// SortPriority implements Sortable.
func (i Item) SortPriority() *int {
	return i.Priority
}

// ListWithItems is a list together with its items.
type ListWithItems struct {
	Listable `yaml:",inline"`
	Items    []Item `json:"items" yaml:"items"`
}

// PendingItems returns the pending items sorted by priority and name.
func (l ListWithItems) PendingItems() []Item {
	return l.itemsWithStatus(StatusPending)
}

// DoneItems returns the done items sorted by priority and name.
// Lists that do not keep done items have none.
func (l ListWithItems) DoneItems() []Item {
	if !l.KeepDoneItems {
		return nil
	}
	return l.itemsWithStatus(StatusDone)
}

// AllDoneItems returns the done items whether or not the list keeps them.
func (l ListWithItems) AllDoneItems() []Item {
	return l.itemsWithStatus(StatusDone)
}

// HasPendingItems reports whether any item is pending.
func (l ListWithItems) HasPendingItems() bool {
	return len(l.PendingItems()) > 0
}

// HasDoneItems reports whether any done item is shown.
func (l ListWithItems) HasDoneItems() bool {
	return len(l.DoneItems()) > 0
}

func (l ListWithItems) itemsWithStatus(status ItemStatus) []Item {
	var items []Item
	for _, item := range l.Items {
		if item.Status == status {
			items = append(items, item)
		}
	}
	SortByPriorityAndName(items)
	return items
}

// NextItemPriority returns the priority for a new item appended to the end
// of the pending items.
func NextItemPriority(list ListWithItems) int {
	pending := list.PendingItems()
	if len(pending) == 0 {
		return PriorityHighest
	}
	last := pending[len(pending)-1]
	if last.Priority == nil {
		return 1
	}
	return *last.Priority + 1
}

// PriorityUpdate sets the viewer's priority for one listable or item.
type PriorityUpdate struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

// FavoriteEntry is the short form of a favorite listable.
type FavoriteEntry struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// FavoriteLink returns the page path for a favorite.
func FavoriteLink(entry FavoriteEntry) string {
	if entry.Type == TypeNote {
		return "/note/" + entry.ID
	}
	return "/list/" + entry.ID + "/items"
}
