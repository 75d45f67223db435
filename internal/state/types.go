// Package state manages the lists CLI state file.
//
// The state file (~/.local/state/lists/state.json) stores one session per
// server the CLI has logged in to. All writes are serialized through file
// locking to allow safe concurrent access from multiple processes.
package state

import "time"

// State represents the persisted state file.
type State struct {
	Sessions map[string]Session `json:"sessions"`
}

// Session is a stored login for one server.
type Session struct {
	Server     string    `json:"server"`
	Token      string    `json:"token"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
