package server

import "github.com/amonks/lists/listable"

// Request and response bodies of the JSON API.

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token string        `json:"token"`
	User  listable.User `json:"user"`
}

// UpdateMeRequest is the body of PATCH /api/me. Nil fields are unchanged.
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
}

// LocationRequest is the body of PUT /api/me/location.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UsersResponse is returned by GET /api/users.
type UsersResponse struct {
	Users []listable.User `json:"users"`
}

// TypesResponse is returned by GET /api/types.
type TypesResponse struct {
	Types []listable.TypeInfo `json:"types"`
}

// ListableRequest is the body of POST /api/listables and
// PUT /api/listables/{id}.
type ListableRequest struct {
	Name          string           `json:"name"`
	Type          listable.Type    `json:"type,omitempty"`
	SubType       listable.SubType `json:"subtype,omitempty"`
	Description   string           `json:"description,omitempty"`
	KeepDoneItems bool             `json:"keepDoneItems,omitempty"`
	NoteContent   string           `json:"noteContent,omitempty"`
	Priority      *int             `json:"priority,omitempty"`
}

// Listable converts the request into a listable with the given id.
func (req ListableRequest) Listable(id string) listable.Listable {
	return listable.Listable{
		ID:            id,
		Type:          req.Type,
		SubType:       req.SubType,
		Name:          req.Name,
		Description:   req.Description,
		KeepDoneItems: req.KeepDoneItems,
		NoteContent:   req.NoteContent,
		Priority:      req.Priority,
	}
}

// ListablesResponse is returned by GET /api/listables.
type ListablesResponse struct {
	Listables []listable.Listable `json:"listables"`
}

// NoteRequest is the body of PUT /api/listables/{id}/note.
type NoteRequest struct {
	Content string `json:"content"`
}

// PrioritiesRequest reorders listables or items.
type PrioritiesRequest struct {
	Updates []listable.PriorityUpdate `json:"updates"`
}

// FavoriteResponse is returned by POST /api/listables/{id}/favorite.
type FavoriteResponse struct {
	Favorite bool `json:"favorite"`
}

// FavoritesResponse is returned by GET /api/favorites.
type FavoritesResponse struct {
	Favorites []listable.FavoriteEntry `json:"favorites"`
}

// ItemRequest creates or saves an item.
type ItemRequest struct {
	Name     string              `json:"name"`
	Notes    string              `json:"notes,omitempty"`
	Status   listable.ItemStatus `json:"status,omitempty"`
	Priority *int                `json:"priority,omitempty"`
}
