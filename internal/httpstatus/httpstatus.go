// Package httpstatus maps domain errors to HTTP status codes.
package httpstatus

import (
	"errors"
	"net/http"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/listable"
)

// ErrBadRequest marks malformed request bodies and parameters.
var ErrBadRequest = errors.New("bad request")

// For returns the status code for err. Unknown errors are 500.
func For(err error) int {
	switch {
	case errors.Is(err, listable.ErrListableNotFound),
		errors.Is(err, listable.ErrItemNotFound),
		errors.Is(err, listable.ErrUserNotFound),
		errors.Is(err, docstore.ErrNotFound),
		errors.Is(err, docstore.ErrInvalidID):
		return http.StatusNotFound
	case errors.Is(err, listable.ErrNotOwner),
		errors.Is(err, listable.ErrSharedListDelete):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, listable.ErrEmptyName),
		errors.Is(err, listable.ErrNameTooLong),
		errors.Is(err, listable.ErrInvalidType),
		errors.Is(err, listable.ErrInvalidSubType),
		errors.Is(err, listable.ErrInvalidStatus),
		errors.Is(err, listable.ErrShareWithOwner),
		errors.Is(err, listable.ErrNotAList),
		errors.Is(err, listable.ErrNotANote),
		errors.Is(err, auth.ErrEmailRequired),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrPasswordRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
