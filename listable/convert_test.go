package listable

import (
	"encoding/json"
	"testing"

	"github.com/amonks/lists/internal/docstore"
	"github.com/google/go-cmp/cmp"
)

func TestListableFromDocument(t *testing.T) {
	tests := []struct {
		name         string
		data         map[string]any
		viewer       string
		wantShared   bool
		wantFavorite bool
		wantPriority int
		wantItems    int
	}{
		{
			name:         "owner also in sharedWith",
			data:         map[string]any{"owner": "alice", "sharedWith": []any{"alice", "bob"}, "userPriorities": map[string]any{"alice": 3}},
			viewer:       "alice",
			wantPriority: 3,
		},
		{
			name:         "shared viewer without priority",
			data:         map[string]any{"owner": "alice", "sharedWith": []any{"bob"}, "favorites": []any{"bob"}},
			viewer:       "bob",
			wantShared:   true,
			wantFavorite: true,
			wantPriority: PriorityLowest,
		},
		{
			name:         "json numbers",
			data:         map[string]any{"owner": "alice", "numberOfItems": json.Number("4"), "userPriorities": map[string]any{"alice": json.Number("2")}},
			viewer:       "alice",
			wantPriority: 2,
			wantItems:    4,
		},
		{
			name:         "int64 numbers",
			data:         map[string]any{"owner": "alice", "numberOfItems": int64(5), "userPriorities": map[string]any{"alice": int64(7)}},
			viewer:       "alice",
			wantPriority: 7,
			wantItems:    5,
		},
		{
			name:         "float64 numbers",
			data:         map[string]any{"owner": "alice", "numberOfItems": float64(6), "userPriorities": map[string]any{"alice": float64(1)}},
			viewer:       "alice",
			wantPriority: 1,
			wantItems:    6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ListableFromDocument(docstore.Document{ID: "l1", Data: tt.data}, tt.viewer)
			if l.ID != "l1" {
				t.Fatalf("expected id l1, got %q", l.ID)
			}
			if l.IsShared != tt.wantShared {
				t.Errorf("expected IsShared %v, got %v", tt.wantShared, l.IsShared)
			}
			if l.IsFavorite != tt.wantFavorite {
				t.Errorf("expected IsFavorite %v, got %v", tt.wantFavorite, l.IsFavorite)
			}
			if l.Priority == nil || *l.Priority != tt.wantPriority {
				t.Errorf("expected priority %d, got %v", tt.wantPriority, l.Priority)
			}
			if l.NumberOfItems != tt.wantItems {
				t.Errorf("expected %d items, got %d", tt.wantItems, l.NumberOfItems)
			}
		})
	}
}

func TestItemFromDocument(t *testing.T) {
	tests := []struct {
		name         string
		data         map[string]any
		wantStatus   ItemStatus
		wantPriority *int
	}{
		{
			name:         "done with priority",
			data:         map[string]any{"name": "milk", "status": "done", "userPriorities": map[string]any{"alice": json.Number("2")}},
			wantStatus:   StatusDone,
			wantPriority: PriorityPtr(2),
		},
		{
			name:       "missing status",
			data:       map[string]any{"name": "milk"},
			wantStatus: StatusPending,
		},
		{
			name:       "invalid status",
			data:       map[string]any{"name": "milk", "status": "archived"},
			wantStatus: StatusPending,
		},
		{
			name:       "priority for another user only",
			data:       map[string]any{"name": "milk", "status": "pending", "userPriorities": map[string]any{"bob": 1}},
			wantStatus: StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := ItemFromDocument(docstore.Document{ID: "i1", Data: tt.data}, "alice", "l1")
			if item.ID != "i1" || item.ListID != "l1" {
				t.Fatalf("expected ids i1/l1, got %q/%q", item.ID, item.ListID)
			}
			if item.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, item.Status)
			}
			if diff := cmp.Diff(tt.wantPriority, item.Priority); diff != "" {
				t.Errorf("priority mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemToDocument_StoresViewerPriority(t *testing.T) {
	data := ItemToDocument(Item{Name: "milk", Status: StatusPending, Priority: PriorityPtr(4)}, "alice")

	item := ItemFromDocument(docstore.Document{ID: "i1", Data: data}, "alice", "l1")
	if item.Priority == nil || *item.Priority != 4 {
		t.Fatalf("expected priority 4 for alice, got %v", item.Priority)
	}
	item = ItemFromDocument(docstore.Document{ID: "i1", Data: data}, "bob", "l1")
	if item.Priority != nil {
		t.Fatalf("expected no priority for bob, got %d", *item.Priority)
	}
}

func TestUserToDocument(t *testing.T) {
	u := User{ID: "u1", Name: "Ada", Email: "ada@example.com", Location: "London"}

	got := UserFromDocument(docstore.Document{ID: "u1", Data: UserToDocument(u)})
	if diff := cmp.Diff(u, got); diff != "" {
		t.Fatalf("user mismatch (-want +got):\n%s", diff)
	}
}

func TestFavorites(t *testing.T) {
	ids := AddFavorite([]string{"bob"}, "alice")
	if diff := cmp.Diff([]string{"bob", "alice"}, ids); diff != "" {
		t.Fatalf("add mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ids, AddFavorite(ids, "alice")); diff != "" {
		t.Fatalf("expected add to be idempotent (-want +got):\n%s", diff)
	}
	if !IsFavorite(ids, "alice") || IsFavorite(ids, "carol") {
		t.Fatalf("unexpected membership in %v", ids)
	}

	ids = RemoveFavorite(ids, "alice")
	if diff := cmp.Diff([]string{"bob"}, ids); diff != "" {
		t.Fatalf("remove mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bob"}, RemoveFavorite(ids, "carol")); diff != "" {
		t.Fatalf("expected removing an absent id to be a no-op (-want +got):\n%s", diff)
	}
}
