package httpstatus

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/listable"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing list", err: fmt.Errorf("%w: abc", listable.ErrListableNotFound), want: http.StatusNotFound},
		{name: "missing document", err: fmt.Errorf("get: %w", docstore.ErrNotFound), want: http.StatusNotFound},
		{name: "not owner", err: listable.ErrNotOwner, want: http.StatusForbidden},
		{name: "shared delete", err: listable.ErrSharedListDelete, want: http.StatusForbidden},
		{name: "bad credentials", err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "email taken", err: auth.ErrEmailTaken, want: http.StatusConflict},
		{name: "bad body", err: fmt.Errorf("%w: empty body", ErrBadRequest), want: http.StatusBadRequest},
		{name: "empty name", err: listable.ErrEmptyName, want: http.StatusBadRequest},
		{name: "password mismatch", err: auth.ErrPasswordMismatch, want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := For(tt.err); got != tt.want {
				t.Fatalf("For(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
