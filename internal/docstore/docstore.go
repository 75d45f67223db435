// Package docstore stores schemaless documents in named collections.
//
// The model follows a hosted document database: a collection path is a
// slash-separated list with an odd number of segments ("lists" or
// "lists/<id>/items"), each document has an id and a map of fields, and
// updates address nested fields with dotted paths ("userPriorities.<uid>").
//
// Three backends implement Store: JSONL files, SQLite and Firestore.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidCollection is returned for malformed collection paths.
	ErrInvalidCollection = errors.New("invalid collection path")

	// ErrInvalidID is returned for empty or malformed document ids.
	ErrInvalidID = errors.New("invalid document id")

	// ErrInvalidPath is returned for malformed update paths.
	ErrInvalidPath = errors.New("invalid field path")
)

// Document is a stored document.
type Document struct {
	ID   string
	Data map[string]any
}

// Op is a query comparison operator.
type Op string

const (
	// OpEqual matches documents whose field equals the value.
	OpEqual Op = "=="

	// OpArrayContains matches documents whose array field contains the value.
	OpArrayContains Op = "array-contains"
)

// Filter restricts the documents returned by Query.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Where builds a Filter.
func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// Update sets the field at Path. Path may be dotted to address nested maps.
type Update struct {
	Path  string
	Value any
}

type arrayUnion struct {
	values []any
}

type arrayRemove struct {
	values []any
}

type deleteField struct{}

// ArrayUnion is an update value that appends the given elements to an array
// field, skipping elements already present.
func ArrayUnion(values ...any) any {
	return arrayUnion{values: values}
}

// ArrayRemove is an update value that removes every occurrence of the given
// elements from an array field.
func ArrayRemove(values ...any) any {
	return arrayRemove{values: values}
}

// DeleteField is an update value that removes the field.
var DeleteField any = deleteField{}

// Store is a document database.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns the documents of a collection matching every filter.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

	// Create stores a new document under a generated id and returns the id.
	Create(ctx context.Context, collection string, data map[string]any) (string, error)

	// Set creates or replaces the document.
	Set(ctx context.Context, collection, id string, data map[string]any) error

	// Update applies field updates to an existing document.
	// It returns ErrNotFound when the document does not exist.
	Update(ctx context.Context, collection, id string, updates ...Update) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Close releases backend resources.
	Close() error
}

// CollectionPath joins path segments into a collection path.
func CollectionPath(segments ...string) string {
	return strings.Join(segments, "/")
}

// ValidateCollection checks that a collection path has an odd number of
// non-empty segments.
func ValidateCollection(collection string) error {
	segments := strings.Split(collection, "/")
	if len(segments)%2 == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
		}
	}
	return nil
}

// ValidateID checks that a document id can be used as a path segment.
func ValidateID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func validateUpdates(updates []Update) error {
	for _, update := range updates {
		for _, segment := range strings.Split(update.Path, ".") {
			if segment == "" {
				return fmt.Errorf("%w: %q", ErrInvalidPath, update.Path)
			}
		}
	}
	return nil
}
