package docstore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApply_SetsNestedPath(t *testing.T) {
	data := map[string]any{"name": "Groceries"}

	got, err := Apply(data,
		Update{Path: "userPriorities.alice", Value: 3},
		Update{Path: "changedBy", Value: "alice"},
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	want := map[string]any{
		"name":           "Groceries",
		"changedBy":      "alice",
		"userPriorities": map[string]any{"alice": 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestApply_ArrayUnionSkipsExisting(t *testing.T) {
	data := map[string]any{"favorites": []any{"alice"}}

	got, err := Apply(data, Update{Path: "favorites", Value: ArrayUnion("alice", "bob")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if diff := cmp.Diff([]any{"alice", "bob"}, got["favorites"]); diff != "" {
		t.Fatalf("unexpected favorites (-want +got):\n%s", diff)
	}
}

func TestApply_ArrayUnionCreatesMissingField(t *testing.T) {
	got, err := Apply(nil, Update{Path: "sharedWith", Value: ArrayUnion("bob")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff([]any{"bob"}, got["sharedWith"]); diff != "" {
		t.Fatalf("unexpected sharedWith (-want +got):\n%s", diff)
	}
}

func TestApply_ArrayRemove(t *testing.T) {
	data := map[string]any{"favorites": []any{"alice", "bob", "alice"}}

	got, err := Apply(data, Update{Path: "favorites", Value: ArrayRemove("alice", "carol")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff([]any{"bob"}, got["favorites"]); diff != "" {
		t.Fatalf("unexpected favorites (-want +got):\n%s", diff)
	}
}

func TestApply_DeleteField(t *testing.T) {
	data := map[string]any{"userPriorities": map[string]any{"alice": 1.0, "bob": 2.0}}

	got, err := Apply(data, Update{Path: "userPriorities.alice", Value: DeleteField})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := map[string]any{"userPriorities": map[string]any{"bob": 2.0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected data (-want +got):\n%s", diff)
	}
}

func TestApply_RejectsEmptySegments(t *testing.T) {
	for _, path := range []string{"", "a..b", ".a", "a."} {
		_, err := Apply(nil, Update{Path: path, Value: 1})
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("path %q: expected ErrInvalidPath, got %v", path, err)
		}
	}
}

func TestMatches(t *testing.T) {
	data := map[string]any{
		"owner":          "alice",
		"type":           "shop",
		"sharedWith":     []any{"bob", "carol"},
		"userPriorities": map[string]any{"alice": 2.0},
	}

	tests := []struct {
		name    string
		filters []Filter
		want    bool
	}{
		{name: "no filters", want: true},
		{name: "equal", filters: []Filter{Where("owner", OpEqual, "alice")}, want: true},
		{name: "not equal", filters: []Filter{Where("owner", OpEqual, "bob")}, want: false},
		{name: "missing field", filters: []Filter{Where("subtype", OpEqual, "house")}, want: false},
		{name: "array contains", filters: []Filter{Where("sharedWith", OpArrayContains, "carol")}, want: true},
		{name: "array missing value", filters: []Filter{Where("sharedWith", OpArrayContains, "dave")}, want: false},
		{name: "nested numeric equality", filters: []Filter{Where("userPriorities.alice", OpEqual, 2)}, want: true},
		{
			name:    "conjunction",
			filters: []Filter{Where("sharedWith", OpArrayContains, "bob"), Where("type", OpEqual, "todo")},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(data, tt.filters...)
			if err != nil {
				t.Fatalf("matches: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMatches_UnknownOperator(t *testing.T) {
	_, err := Matches(map[string]any{"a": 1}, Filter{Field: "a", Op: ">", Value: 0})
	if err == nil {
		t.Fatal("expected error for unsupported operator")
	}
}

func TestValidateCollection(t *testing.T) {
	valid := []string{"lists", "lists/abc/items", "users"}
	for _, collection := range valid {
		if err := ValidateCollection(collection); err != nil {
			t.Errorf("expected %q to be valid, got %v", collection, err)
		}
	}

	invalid := []string{"", "lists/abc", "lists//items", "../lists", "lists/../items"}
	for _, collection := range invalid {
		if err := ValidateCollection(collection); !errors.Is(err, ErrInvalidCollection) {
			t.Errorf("expected %q to be invalid, got %v", collection, err)
		}
	}
}
