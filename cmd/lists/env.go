package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amonks/lists/internal/config"
	"github.com/amonks/lists/internal/paths"
	"github.com/amonks/lists/internal/state"
	"github.com/amonks/lists/server"
	"go.uber.org/zap"
)

var errNotLoggedIn = errors.New("not logged in (run `lists login`)")

func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}

func newLogger() (*zap.Logger, error) {
	if rootDebug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func stateStore() (*state.Store, error) {
	dir, err := paths.DefaultStateDir()
	if err != nil {
		return nil, err
	}
	return state.NewStore(dir), nil
}

// loadToken returns $LISTS_TOKEN or the session stored for serverURL. A
// missing session is not an error.
func loadToken(serverURL string) (string, error) {
	if token := strings.TrimSpace(os.Getenv(config.EnvToken)); token != "" {
		return token, nil
	}
	store, err := stateStore()
	if err != nil {
		return "", err
	}
	session, err := store.Session(serverURL)
	if errors.Is(err, state.ErrNoSession) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func saveSession(serverURL string, session server.SessionResponse) error {
	store, err := stateStore()
	if err != nil {
		return err
	}
	return store.PutSession(state.Session{
		Server:     serverURL,
		Token:      session.Token,
		UserID:     session.User.ID,
		Email:      session.User.Email,
		Name:       session.User.Name,
		LoggedInAt: time.Now(),
	})
}

func removeSession(serverURL string) (bool, error) {
	store, err := stateStore()
	if err != nil {
		return false, err
	}
	return store.RemoveSession(serverURL)
}

// serverURL returns the --url flag or the configured server URL.
func serverURL() (string, error) {
	if rootURL != "" {
		return rootURL, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Client.URL, nil
}

// newClient returns an API client for the configured server. With
// requireToken it fails when no session token is available.
func newClient(requireToken bool) (*server.Client, error) {
	url, err := serverURL()
	if err != nil {
		return nil, err
	}
	client := server.NewClient(url, "")
	token, err := loadToken(client.BaseURL())
	if err != nil {
		return nil, err
	}
	if requireToken && token == "" {
		return nil, errNotLoggedIn
	}
	return client.WithToken(token), nil
}
