package docstore

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendJSONL     Backend = "jsonl"
	BackendSQLite    Backend = "sqlite"
	BackendFirestore Backend = "firestore"
)

// ValidBackends returns all supported backends.
func ValidBackends() []Backend {
	return []Backend{BackendJSONL, BackendSQLite, BackendFirestore}
}

// IsValid returns true if the backend is known.
func (b Backend) IsValid() bool {
	for _, valid := range ValidBackends() {
		if b == valid {
			return true
		}
	}
	return false
}

// Options selects and configures a backend.
type Options struct {
	Backend Backend

	// Path is the JSONL directory or the SQLite database file.
	Path string

	Firestore FirestoreOptions
}

// Open opens the configured backend. JSONL is used when no backend is set.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendJSONL:
		return OpenJSONL(opts.Path)
	case BackendSQLite:
		path := opts.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "lists.db")
		}
		return OpenSQLite(path)
	case BackendFirestore:
		return OpenFirestore(ctx, opts.Firestore)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
