package main

import (
	"errors"
	"testing"

	"github.com/amonks/lists/listable"
)

func TestMatchListable(t *testing.T) {
	listables := []listable.Listable{
		{ID: "01jab", Name: "Groceries"},
		{ID: "01jcd", Name: "Chores"},
		{ID: "02xyz", Name: "chores"},
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "unique prefix", ref: "01ja", want: "01jab"},
		{name: "upper case prefix", ref: "02X", want: "02xyz"},
		{name: "name", ref: "groceries", want: "01jab"},
		{name: "ambiguous prefix", ref: "01j", wantErr: true},
		{name: "ambiguous name", ref: "Chores", wantErr: true},
		{name: "missing", ref: "Trip", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchListable(listables, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.ID)
			}
		})
	}
}

func TestMatchListableNotFoundIsTyped(t *testing.T) {
	_, err := matchListable(nil, "Trip")
	if !errors.Is(err, listable.ErrListableNotFound) {
		t.Fatalf("expected ErrListableNotFound, got %v", err)
	}
}

func TestMatchItem(t *testing.T) {
	items := []listable.Item{
		{ID: "01aaa", Name: "oat milk"},
		{ID: "01bbb", Name: "bread"},
	}

	got, err := matchItem(items, "Oat Milk")
	if err != nil || got.ID != "01aaa" {
		t.Fatalf("expected oat milk, got %+v (%v)", got, err)
	}
	got, err = matchItem(items, "01b")
	if err != nil || got.ID != "01bbb" {
		t.Fatalf("expected bread, got %+v (%v)", got, err)
	}
	if _, err := matchItem(items, "eggs"); !errors.Is(err, listable.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestMatchUser(t *testing.T) {
	users := []listable.User{
		{ID: "u1", Email: "alice@example.com"},
		{ID: "u2", Email: "bob@example.com"},
	}
	if got, err := matchUser(users, "BOB@example.com"); err != nil || got.ID != "u2" {
		t.Fatalf("expected bob, got %+v (%v)", got, err)
	}
	if got, err := matchUser(users, "u1"); err != nil || got.ID != "u1" {
		t.Fatalf("expected alice, got %+v (%v)", got, err)
	}
	if _, err := matchUser(users, "carol@example.com"); !errors.Is(err, listable.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestParseCoordinates(t *testing.T) {
	lat, lon, err := parseCoordinates("38.72", "-9.14")
	if err != nil || lat != 38.72 || lon != -9.14 {
		t.Fatalf("unexpected result %v %v %v", lat, lon, err)
	}
	if _, _, err := parseCoordinates("91", "0"); err == nil {
		t.Fatal("expected latitude error")
	}
	if _, _, err := parseCoordinates("0", "east"); err == nil {
		t.Fatal("expected longitude error")
	}
}
