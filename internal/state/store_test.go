package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStore_LoadEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	st, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load empty state: %v", err)
	}
	if st == nil || st.Sessions == nil {
		t.Fatal("expected initialized state")
	}
	if len(st.Sessions) != 0 {
		t.Errorf("expected 0 sessions, got %d", len(st.Sessions))
	}
}

func TestStore_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	loggedIn := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := &State{Sessions: map[string]Session{
		"http://localhost:8080": {
			Server:     "http://localhost:8080",
			Token:      "abc.def.ghi",
			UserID:     "user-1",
			Email:      "alice@example.com",
			LoggedInAt: loggedIn,
		},
	}}
	if err := store.Save(st); err != nil {
		t.Fatalf("failed to save state: %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, "state.json"))
	if err != nil {
		t.Fatalf("stat state file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 state file, got %o", perm)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load state: %v", err)
	}
	session := loaded.Sessions["http://localhost:8080"]
	if session.Token != "abc.def.ghi" || session.Email != "alice@example.com" || !session.LoggedInAt.Equal(loggedIn) {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestStore_LoadRejectsCorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "state.json"), []byte("{"), 0o600); err != nil {
		t.Fatalf("write state: %v", err)
	}
	if _, err := NewStore(tmpDir).Load(); err == nil {
		t.Fatal("expected error for corrupt state")
	}
}

func TestStore_SessionLifecycle(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Session("localhost:8080"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	if err := store.PutSession(Session{Server: "HTTP://LocalHost:8080/", Token: "first"}); err != nil {
		t.Fatalf("put session: %v", err)
	}
	session, err := store.Session("localhost:8080")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session.Token != "first" || session.Server != "http://localhost:8080" {
		t.Fatalf("unexpected session %+v", session)
	}

	if err := store.PutSession(Session{Server: "http://localhost:8080", Token: "second"}); err != nil {
		t.Fatalf("replace session: %v", err)
	}
	if session, _ = store.Session("http://localhost:8080"); session.Token != "second" {
		t.Fatalf("expected replaced token, got %q", session.Token)
	}

	removed, err := store.RemoveSession("http://localhost:8080")
	if err != nil || !removed {
		t.Fatalf("expected session removed, got %v (%v)", removed, err)
	}
	removed, err = store.RemoveSession("http://localhost:8080")
	if err != nil || removed {
		t.Fatalf("expected nothing to remove, got %v (%v)", removed, err)
	}
}

func TestStore_SessionsArePerServer(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.PutSession(Session{Server: "https://lists.example.com", Token: "remote"}); err != nil {
		t.Fatalf("put session: %v", err)
	}
	if _, err := store.Session("http://localhost:8080"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for other server, got %v", err)
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	store := NewStore(t.TempDir())

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs <- store.PutSession(Session{Server: fmt.Sprintf("http://host-%d", n), Token: "token"})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent update failed: %v", err)
		}
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if len(st.Sessions) != 10 {
		t.Fatalf("expected 10 sessions, got %d", len(st.Sessions))
	}
}

func TestServerKey(t *testing.T) {
	tests := map[string]string{
		"localhost:8080":              "http://localhost:8080",
		" https://Lists.Example.com/": "https://lists.example.com",
		"http://127.0.0.1:9000":       "http://127.0.0.1:9000",
	}
	for input, want := range tests {
		if got := ServerKey(input); got != want {
			t.Errorf("ServerKey(%q) = %q, want %q", input, got, want)
		}
	}
}
