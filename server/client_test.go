package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amonks/lists/auth"
	"github.com/amonks/lists/internal/events"
	"github.com/amonks/lists/listable"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*testServer, *Client) {
	t.Helper()
	ts := newTestServer(t)
	httpServer := httptest.NewServer(ts.handler)
	t.Cleanup(httpServer.Close)
	return ts, NewClient(httpServer.URL, "")
}

func TestNewClientAddsScheme(t *testing.T) {
	client := NewClient("localhost:8080/", "")
	if client.baseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url %q", client.baseURL)
	}
	client = NewClient("https://lists.example.com", "")
	if client.baseURL != "https://lists.example.com" {
		t.Fatalf("unexpected base url %q", client.baseURL)
	}
}

func TestClientRoundTrip(t *testing.T) {
	_, anonymous := newTestClient(t)
	ctx := context.Background()

	session, err := anonymous.Register(ctx, auth.Registration{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	client := anonymous.WithToken(session.Token)

	me, err := client.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, session.User.ID, me.ID)

	list, err := client.CreateListable(ctx, ListableRequest{Name: "Chores"})
	require.NoError(t, err)
	require.Equal(t, listable.TypeToDo, list.Type)

	note, err := client.CreateListable(ctx, ListableRequest{Name: "Journal", Type: listable.TypeNote})
	require.NoError(t, err)
	_, err = client.SaveNote(ctx, note.ID, "dear diary")
	require.NoError(t, err)

	noteType := listable.TypeNote
	notes, err := client.Listables(ctx, &noteType)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "dear diary", notes[0].NoteContent)

	dishes, err := client.CreateItem(ctx, list.ID, "Dishes")
	require.NoError(t, err)
	_, err = client.CreateItem(ctx, list.ID, "Laundry")
	require.NoError(t, err)

	done, err := client.SetItemStatus(ctx, list.ID, dishes.ID, listable.StatusDone)
	require.NoError(t, err)
	require.Equal(t, listable.StatusDone, done.Status)

	withItems, err := client.ListWithItems(ctx, list.ID)
	require.NoError(t, err)
	var names []string
	for _, item := range withItems.PendingItems() {
		names = append(names, item.Name)
	}
	if diff := cmp.Diff([]string{"Laundry"}, names); diff != "" {
		t.Fatalf("pending items mismatch (-want +got):\n%s", diff)
	}

	favorite, err := client.ToggleFavorite(ctx, list.ID)
	require.NoError(t, err)
	require.True(t, favorite)
	favorites, err := client.Favorites(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]listable.FavoriteEntry{{ID: list.ID, Name: "Chores", Type: listable.TypeToDo}}, favorites); diff != "" {
		t.Fatalf("favorites mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, client.DeleteItem(ctx, list.ID, dishes.ID))
	require.NoError(t, client.DeleteListable(ctx, list.ID))

	all, err := client.Listables(ctx, nil)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{note.ID}, listableIDs(all), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("listables mismatch (-want +got):\n%s", diff)
	}
}

func listableIDs(listables []listable.Listable) []string {
	ids := make([]string, 0, len(listables))
	for _, l := range listables {
		ids = append(ids, l.ID)
	}
	return ids
}

func TestClientReturnsAPIErrors(t *testing.T) {
	_, client := newTestClient(t)

	_, err := client.Me(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "lists error: authentication required", err.Error())

	_, err = client.Login(context.Background(), "nobody@example.com", "secret123")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClientReadsPlainErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").Types(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTeapot, apiErr.Status)
	require.True(t, strings.Contains(err.Error(), "418"), err.Error())
}

func TestClientEvents(t *testing.T) {
	ts, anonymous := newTestClient(t)
	session, err := anonymous.Register(context.Background(), auth.Registration{
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	client := anonymous.WithToken(session.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	feed, errs := client.Events(ctx)

	// The subscription is registered once the handshake completes.
	deadline := time.Now().Add(5 * time.Second)
	var received events.Event
	for received.ListID == "" && time.Now().Before(deadline) {
		ts.events.Trigger(events.Event{Name: events.ItemChanged, UserID: session.User.ID, ListID: "list", ItemID: "item"})
		select {
		case received = <-feed:
		case <-time.After(50 * time.Millisecond):
		}
	}
	require.Equal(t, events.ItemChanged, received.Name)
	require.Equal(t, "item", received.ItemID)

	cancel()
	for range feed {
	}
	require.NoError(t, <-errs)
}
