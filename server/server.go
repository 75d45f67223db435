// Package server exposes the lists service as a JSON API, a websocket
// change feed and the browser UI.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/events"
	"github.com/amonks/lists/listable"
	"github.com/amonks/lists/location"
	"github.com/amonks/lists/web"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options configures a Server.
type Options struct {
	Service  *listable.Service
	Accounts *auth.Accounts
	Issuer   *auth.Issuer

	// Verifier authenticates bearer tokens and cookies. Defaults to Issuer.
	Verifier auth.Verifier

	// Location resolves coordinates for PUT /api/me/location.
	// Defaults to a client for location.DefaultBaseURL.
	Location *location.Client

	// Events feeds /ws. Without it the websocket only answers pings.
	Events *events.Manager

	Logger *zap.Logger
}

// Server serves the API and web UI.
type Server struct {
	service  *listable.Service
	accounts *auth.Accounts
	issuer   *auth.Issuer
	verifier auth.Verifier
	location *location.Client
	events   *events.Manager
	logger   *zap.Logger
}

const shutdownTimeout = 5 * time.Second

// NewServer creates a server.
func NewServer(opts Options) (*Server, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("service is required")
	}
	if opts.Accounts == nil {
		return nil, fmt.Errorf("accounts are required")
	}
	if opts.Issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	verifier := opts.Verifier
	if verifier == nil {
		verifier = opts.Issuer
	}
	loc := opts.Location
	if loc == nil {
		loc = location.New(location.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		service:  opts.Service,
		accounts: opts.Accounts,
		issuer:   opts.Issuer,
		verifier: verifier,
		location: loc,
		events:   opts.Events,
		logger:   logger,
	}, nil
}

// methodMismatch reports whether some route matches the request's path
// but not its method.
func methodMismatch(router *mux.Router, req *http.Request) bool {
	mismatch := false
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		var match mux.RouteMatch
		if !route.Match(req, &match) && errors.Is(match.MatchErr, mux.ErrMethodMismatch) {
			mismatch = true
		}
		return nil
	})
	return mismatch
}

// Handler returns the HTTP handler for the API and web UI.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.logRequests, s.recoverHandler, auth.Middleware(s.verifier, s.logger))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.requireUser(s.handleWebsocket)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/types", s.handleTypes).Methods(http.MethodGet)

	api.HandleFunc("/me", s.requireUser(s.handleMe)).Methods(http.MethodGet)
	api.HandleFunc("/me", s.requireUser(s.handleUpdateMe)).Methods(http.MethodPatch)
	api.HandleFunc("/me/location", s.requireUser(s.handleUpdateLocation)).Methods(http.MethodPut)
	api.HandleFunc("/users", s.requireUser(s.handleUsers)).Methods(http.MethodGet)
	api.HandleFunc("/favorites", s.requireUser(s.handleFavorites)).Methods(http.MethodGet)

	api.HandleFunc("/listables", s.requireUser(s.handleListables)).Methods(http.MethodGet)
	api.HandleFunc("/listables", s.requireUser(s.handleCreateListable)).Methods(http.MethodPost)
	api.HandleFunc("/listables/priorities", s.requireUser(s.handleListablesPriorities)).Methods(http.MethodPost)
	api.HandleFunc("/listables/{id}", s.requireUser(s.handleListable)).Methods(http.MethodGet)
	api.HandleFunc("/listables/{id}", s.requireUser(s.handleSaveListable)).Methods(http.MethodPut)
	api.HandleFunc("/listables/{id}", s.requireUser(s.handleDeleteListable)).Methods(http.MethodDelete)
	api.HandleFunc("/listables/{id}/note", s.requireUser(s.handleSaveNote)).Methods(http.MethodPut)
	api.HandleFunc("/listables/{id}/favorite", s.requireUser(s.handleToggleFavorite)).Methods(http.MethodPost)
	api.HandleFunc("/listables/{id}/share/{user}", s.requireUser(s.handleShare)).Methods(http.MethodPost)
	api.HandleFunc("/listables/{id}/share/{user}", s.requireUser(s.handleUnshare)).Methods(http.MethodDelete)

	api.HandleFunc("/listables/{id}/items", s.requireUser(s.handleListWithItems)).Methods(http.MethodGet)
	api.HandleFunc("/listables/{id}/items", s.requireUser(s.handleCreateItem)).Methods(http.MethodPost)
	api.HandleFunc("/listables/{id}/items/priorities", s.requireUser(s.handleItemsPriorities)).Methods(http.MethodPost)
	api.HandleFunc("/listables/{id}/items/{item}", s.requireUser(s.handleItem)).Methods(http.MethodGet)
	api.HandleFunc("/listables/{id}/items/{item}", s.requireUser(s.handleSaveItem)).Methods(http.MethodPut)
	api.HandleFunc("/listables/{id}/items/{item}", s.requireUser(s.handleDeleteItem)).Methods(http.MethodDelete)
	api.HandleFunc("/listables/{id}/items/{item}/done", s.requireUser(s.handleItemStatus(listable.StatusDone))).Methods(http.MethodPost)
	api.HandleFunc("/listables/{id}/items/{item}/pending", s.requireUser(s.handleItemStatus(listable.StatusPending))).Methods(http.MethodPost)
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	})
	// mux drops a method mismatch once a later route misses on path, so
	// unmatched requests are checked against every route's path again.
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if methodMismatch(api, r) {
			api.MethodNotAllowedHandler.ServeHTTP(w, r)
			return
		}
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
	})

	r.PathPrefix("/").Handler(web.NewHandler(web.Options{
		Service:  s.service,
		Accounts: s.accounts,
		Issuer:   s.issuer,
		Logger:   s.logger.Named("web"),
	}))
	return r
}

// Serve runs the server on addr until it fails or the process is
// interrupted.
func (s *Server) Serve(addr string) error {
	errorLog, err := zap.NewStdLogAt(s.logger.Named("http"), zap.ErrorLevel)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ErrorLog:          errorLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logger.Info("listening", zap.String("addr", addr))

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	case <-interrupts:
		s.logger.Info("interrupt received, shutting down")
		if s.events != nil {
			s.events.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		if errors.Is(shutdownErr, http.ErrServerClosed) {
			shutdownErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
