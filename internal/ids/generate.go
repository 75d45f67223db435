// Package ids generates document identifiers and resolves id prefixes.
package ids

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Length is the length of identifiers returned by New.
const Length = 26

// New returns a new lowercase ULID. IDs sort by creation time.
func New() string {
	return strings.ToLower(ulid.Make().String())
}

// IsValid reports whether id parses as a ULID.
func IsValid(id string) bool {
	_, err := ulid.ParseStrict(strings.ToUpper(id))
	return err == nil
}
