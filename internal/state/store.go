package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrNoSession indicates there is no stored session for a server.
var ErrNoSession = errors.New("no session for server")

// Store manages the state file with locking.
type Store struct {
	dir string
}

// NewStore creates a new state store using the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// statePath returns the path to the state file.
func (s *Store) statePath() string {
	return filepath.Join(s.dir, "state.json")
}

// lockPath returns the path to the lock file.
func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "state.lock")
}

// Load reads the state from disk. Returns an empty state if the file doesn't exist.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.statePath())
	if errors.Is(err, os.ErrNotExist) {
		return &State{Sessions: make(map[string]Session)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if st.Sessions == nil {
		st.Sessions = make(map[string]Session)
	}
	return &st, nil
}

// Save writes the state to disk. The file holds tokens, so it is only
// readable by the owner.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if existing, err := os.ReadFile(s.statePath()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read state file: %w", err)
	}

	// Write atomically via temp file
	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(s.statePath())+".tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(name, s.statePath()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// Update atomically reads, modifies, and writes the state with file locking.
func (s *Store) Update(fn func(st *State) error) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	st, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	return s.Save(st)
}

// Session returns the stored session for a server.
func (s *Store) Session(server string) (Session, error) {
	st, err := s.Load()
	if err != nil {
		return Session{}, err
	}
	session, ok := st.Sessions[ServerKey(server)]
	if !ok || session.Token == "" {
		return Session{}, fmt.Errorf("%w: %s", ErrNoSession, server)
	}
	return session, nil
}

// PutSession stores a session, replacing any earlier one for its server.
func (s *Store) PutSession(session Session) error {
	key := ServerKey(session.Server)
	session.Server = key
	return s.Update(func(st *State) error {
		st.Sessions[key] = session
		return nil
	})
}

// RemoveSession forgets the session for a server and reports whether one
// was stored.
func (s *Store) RemoveSession(server string) (bool, error) {
	var removed bool
	err := s.Update(func(st *State) error {
		key := ServerKey(server)
		_, removed = st.Sessions[key]
		delete(st.Sessions, key)
		return nil
	})
	return removed, err
}

// ServerKey normalizes a server URL for use as a session key.
func ServerKey(server string) string {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if scheme, rest, ok := strings.Cut(server, "://"); ok {
		return strings.ToLower(scheme) + "://" + strings.ToLower(rest)
	}
	return "http://" + strings.ToLower(server)
}
