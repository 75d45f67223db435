package listable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/lists/internal/validation"
)

var (
	// ErrEmptyName is returned when a listable or item name is blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNameTooLong is returned when a name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("name exceeds maximum length")

	// ErrInvalidType is returned when an unknown listable type is provided.
	ErrInvalidType = errors.New("invalid list type")

	// ErrInvalidSubType is returned when a subtype does not belong to the type.
	ErrInvalidSubType = errors.New("invalid list subtype")

	// ErrInvalidStatus is returned when an unknown item status is provided.
	ErrInvalidStatus = errors.New("invalid item status")

	// ErrListableNotFound is returned when a listable does not exist or is
	// not visible to the user.
	ErrListableNotFound = errors.New("List does not exist")

	// ErrItemNotFound is returned when a list item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrUserNotFound is returned when a user profile does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrSharedListDelete is returned when a user deletes a list shared with them.
	ErrSharedListDelete = errors.New("List cannot be deleted as it is a shared list")

	// ErrNotOwner is returned when only the owner may perform an operation.
	ErrNotOwner = errors.New("only the owner can change sharing")

	// ErrShareWithOwner is returned when an owner shares a list with themselves.
	ErrShareWithOwner = errors.New("cannot share a list with its owner")

	// ErrNotAList is returned for item operations on a note.
	ErrNotAList = errors.New("listable is not a list")

	// ErrNotANote is returned when setting note content on a list.
	ErrNotANote = errors.New("listable is not a note")

	// ErrUpdatingListsPriorities wraps failures of UpdateListsPriorities.
	ErrUpdatingListsPriorities = errors.New("Error updating lists priorities")

	// ErrUpdatingItemsPriorities wraps failures of UpdateItemsOrder.
	ErrUpdatingItemsPriorities = errors.New("Error updating list items priorities")
)

// ValidateName trims and checks a listable or item name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(name), MaxNameLength)
	}
	return name, nil
}

// ValidateType checks a listable type and its subtype.
func ValidateType(t Type, sub SubType) error {
	if !t.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidType, t, ValidTypes())
	}
	if sub == "" {
		return nil
	}
	for _, valid := range t.SubTypes() {
		if sub == valid {
			return nil
		}
	}
	return validation.FormatInvalidValueError(ErrInvalidSubType, sub, t.SubTypes())
}
