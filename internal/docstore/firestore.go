package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/amonks/lists/internal/ids"
)

// FirestoreOptions configures a Firestore connection.
type FirestoreOptions struct {
	// ProjectID is the Google Cloud project. Required with the emulator.
	ProjectID string

	// CredentialsFile is a service account key. Application default
	// credentials are used when empty.
	CredentialsFile string

	// EmulatorHost points the client at a local Firestore emulator
	// ("localhost:8080"). It is exported as FIRESTORE_EMULATOR_HOST.
	EmulatorHost string
}

// FirestoreStore stores documents in Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirebaseApp initializes a Firebase app from options. The app is shared
// by the Firestore store and the ID token verifier.
func NewFirebaseApp(ctx context.Context, opts FirestoreOptions) (*firebase.App, error) {
	if opts.EmulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", opts.EmulatorHost); err != nil {
			return nil, fmt.Errorf("set emulator host: %w", err)
		}
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	var config *firebase.Config
	if opts.ProjectID != "" {
		config = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, config, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}
	return app, nil
}

// OpenFirestore connects to Firestore.
func OpenFirestore(ctx context.Context, opts FirestoreOptions) (*FirestoreStore, error) {
	app, err := NewFirebaseApp(ctx, opts)
	if err != nil {
		return nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Get implements Store.
func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return Document{}, err
	}
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	snapshot, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, translateFirestoreError(err)
	}
	return Document{ID: snapshot.Ref.ID, Data: snapshot.Data()}, nil
}

// Query implements Store.
func (s *FirestoreStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	query := s.client.Collection(collection).Query
	for _, filter := range filters {
		query = query.Where(filter.Field, string(filter.Op), filter.Value)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snapshot, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snapshot.Ref.ID, Data: snapshot.Data()})
	}
	return docs, nil
}

// Create implements Store.
func (s *FirestoreStore) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	id := ids.New()
	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, data); err != nil {
		return "", fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	return id, nil
}

// Set implements Store.
func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update implements Store.
func (s *FirestoreStore) Update(ctx context.Context, collection, id string, updates ...Update) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := validateUpdates(updates); err != nil {
		return err
	}

	converted := make([]firestore.Update, 0, len(updates))
	for _, update := range updates {
		converted = append(converted, firestore.Update{
			Path:  update.Path,
			Value: firestoreValue(update.Value),
		})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, converted); err != nil {
		return translateFirestoreError(err)
	}
	return nil
}

// Delete implements Store.
func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Close implements Store.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func firestoreValue(value any) any {
	switch typed := value.(type) {
	case arrayUnion:
		return firestore.ArrayUnion(typed.values...)
	case arrayRemove:
		return firestore.ArrayRemove(typed.values...)
	case deleteField:
		return firestore.Delete
	default:
		return value
	}
}

func translateFirestoreError(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}
