// Package listable implements personal lists and notes.
//
// A listable is either a list (to-do list, shopping cart, wishlist or
// checklist) with child items, or a note. Listables are owned by one user
// and may be shared with others. Every user who can see a listable keeps an
// independent manual ordering for it (and for its items) in a sparse
// "userPriorities" map stored on the document, and may mark it as a
// favorite.
//
// The public API is exposed by Service:
//   - ListablesByType, Listable, SaveList, SaveNoteContent, DeleteListable,
//     UpdateListsPriorities for lists and notes
//   - ListWithItems, Items, Item, QuickCreateItem, SaveItem, SetItemStatus,
//     DeleteItem, UpdateItemsOrder for list items
//   - ToggleFavorite, Favorites, Share, Unshare
//   - User, EnsureUser, Users and the UpdateUser* helpers
package listable

// Type is the kind of a listable.
type Type string

const (
	// TypeToDo is a to-do list.
	TypeToDo Type = "todo"

	// TypeShop is a shopping cart.
	TypeShop Type = "shop"

	// TypeWish is a wishlist.
	TypeWish Type = "wish"

	// TypeCheck is a checklist.
	TypeCheck Type = "check"

	// TypeNote is a free-form note.
	TypeNote Type = "note"
)

// ValidTypes returns all valid listable types.
func ValidTypes() []Type {
	return []Type{TypeToDo, TypeShop, TypeWish, TypeCheck, TypeNote}
}

// IsValid returns true if the type is a known valid value.
func (t Type) IsValid() bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// IsList returns true for every type that holds items.
func (t Type) IsList() bool {
	return t.IsValid() && t != TypeNote
}

// Label returns a human-readable name for the type.
func (t Type) Label() string {
	switch t {
	case TypeToDo:
		return "To Do List"
	case TypeShop:
		return "Shopping List"
	case TypeWish:
		return "Whishlist"
	case TypeCheck:
		return "Checklist"
	case TypeNote:
		return "Note"
	default:
		return "unknown"
	}
}

// SubTypes returns the subtypes a listable of this type may use.
func (t Type) SubTypes() []SubType {
	switch t {
	case TypeToDo, TypeCheck:
		return []SubType{SubTypePersonal, SubTypeWork}
	case TypeShop:
		return []SubType{SubTypeGroceries, SubTypeHouse}
	default:
		return nil
	}
}

// SubType refines a listable type.
type SubType string

const (
	SubTypePersonal  SubType = "personal"
	SubTypeWork      SubType = "work"
	SubTypeGroceries SubType = "groceries"
	SubTypeHouse     SubType = "house"
)

// Label returns a human-readable name for the subtype.
func (s SubType) Label() string {
	switch s {
	case SubTypePersonal:
		return "Personal"
	case SubTypeWork:
		return "Work"
	case SubTypeGroceries:
		return "Groceries"
	case SubTypeHouse:
		return "House"
	default:
		return string(s)
	}
}

// ItemStatus is the state of a list item.
type ItemStatus string

const (
	// StatusPending marks an item that still needs doing.
	StatusPending ItemStatus = "Pending"

	// StatusDone marks a completed item.
	StatusDone ItemStatus = "Done"
)

// ValidItemStatuses returns all valid item statuses.
func ValidItemStatuses() []ItemStatus {
	return []ItemStatus{StatusPending, StatusDone}
}

// IsValid returns true if the status is a known valid value.
func (s ItemStatus) IsValid() bool {
	for _, valid := range ValidItemStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ActionIcon names the icon of the primary action on a row.
type ActionIcon string

const (
	IconEdit      ActionIcon = "edit"
	IconDelete    ActionIcon = "delete"
	IconDone      ActionIcon = "done"
	IconRedo      ActionIcon = "redo"
	IconChecked   ActionIcon = "check_box"
	IconUnchecked ActionIcon = "check_box_outline_blank"
)

// ItemActionIcon returns the action icon for an item of a list of the given type.
func ItemActionIcon(parent Type, status ItemStatus) ActionIcon {
	switch parent {
	case TypeCheck:
		if status == StatusDone {
			return IconChecked
		}
		return IconUnchecked
	case TypeToDo, TypeShop, TypeWish:
		if status == StatusDone {
			return IconRedo
		}
		return IconDone
	default:
		return IconEdit
	}
}

// Priority bounds. Lower values sort first.
const (
	PriorityHighest = 0
	PriorityLowest  = 999
)

// PriorityPtr returns a pointer to the provided priority.
func PriorityPtr(priority int) *int {
	return &priority
}

// MaxNameLength is the maximum allowed length for listable and item names.
const MaxNameLength = 500

// TypeInfo describes a listable type for pickers.
type TypeInfo struct {
	Value    Type      `json:"value" yaml:"value"`
	Label    string    `json:"label" yaml:"label"`
	IsList   bool      `json:"isList" yaml:"isList"`
	SubTypes []SubType `json:"subTypes" yaml:"subTypes"`
}

// Types describes every listable type.
func Types() []TypeInfo {
	infos := make([]TypeInfo, 0, len(ValidTypes()))
	for _, t := range ValidTypes() {
		subTypes := t.SubTypes()
		if subTypes == nil {
			subTypes = []SubType{}
		}
		infos = append(infos, TypeInfo{
			Value:    t,
			Label:    t.Label(),
			IsList:   t.IsList(),
			SubTypes: subTypes,
		})
	}
	return infos
}
