package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/config"
	"github.com/amonks/lists/internal/docstore"
	"github.com/amonks/lists/internal/events"
	"github.com/amonks/lists/listable"
	"github.com/amonks/lists/location"
	"github.com/amonks/lists/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lists server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to [server] addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, closeStore, err := buildServer(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return srv.Serve(addr)
}

// buildServer wires the store, service and auth described by cfg. The
// returned func closes the store.
func buildServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server.Server, func(), error) {
	if cfg.Auth.Secret == "" {
		return nil, nil, errors.New("auth.secret is required to issue tokens")
	}
	ttl, err := cfg.TokenTTLDuration()
	if err != nil {
		return nil, nil, err
	}
	issuer, err := auth.NewIssuer(cfg.Auth.Secret, auth.IssuerOptions{TTL: ttl})
	if err != nil {
		return nil, nil, err
	}

	backend := docstore.Backend(cfg.Store.Backend)
	if !backend.IsValid() {
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	firestoreOpts := docstore.FirestoreOptions{
		ProjectID:       cfg.Store.ProjectID,
		CredentialsFile: cfg.Store.CredentialsFile,
		EmulatorHost:    cfg.Store.EmulatorHost,
	}
	store, err := docstore.Open(ctx, docstore.Options{
		Backend:   backend,
		Path:      cfg.Store.Path,
		Firestore: firestoreOpts,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}

	var verifier auth.Verifier = issuer
	if cfg.Auth.Firebase {
		app, err := docstore.NewFirebaseApp(ctx, firestoreOpts)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		firebaseVerifier, err := auth.NewFirebaseVerifier(ctx, app)
		if err != nil {
			closeStore()
			return nil, nil, err
		}
		verifier = auth.Verifiers{issuer, firebaseVerifier}
	}

	manager := events.NewManager()
	service := listable.NewService(store, listable.ServiceOptions{
		Events: manager,
		Logger: logger.Named("listable"),
	})
	srv, err := server.NewServer(server.Options{
		Service:  service,
		Accounts: auth.NewAccounts(store, service, auth.AccountsOptions{}),
		Issuer:   issuer,
		Verifier: verifier,
		Location: location.New(location.Options{BaseURL: cfg.Location.GeocodeURL}),
		Events:   manager,
		Logger:   logger.Named("server"),
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	logger.Info("store opened", zap.String("backend", string(backend)), zap.String("path", cfg.Store.Path))
	return srv, closeStore, nil
}
