package listable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestType_IsValid(t *testing.T) {
	for _, typ := range ValidTypes() {
		if !typ.IsValid() {
			t.Errorf("expected %q to be valid", typ)
		}
	}
	if Type("board").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
	if TypeNote.IsList() {
		t.Error("expected note not to be a list")
	}
	if !TypeShop.IsList() {
		t.Error("expected shop to be a list")
	}
}

func TestType_LabelsAndSubTypes(t *testing.T) {
	tests := []struct {
		typ      Type
		label    string
		subTypes []SubType
	}{
		{TypeToDo, "To Do List", []SubType{SubTypePersonal, SubTypeWork}},
		{TypeShop, "Shopping List", []SubType{SubTypeGroceries, SubTypeHouse}},
		{TypeWish, "Whishlist", nil},
		{TypeCheck, "Checklist", []SubType{SubTypePersonal, SubTypeWork}},
		{TypeNote, "Note", nil},
	}

	for _, tt := range tests {
		if got := tt.typ.Label(); got != tt.label {
			t.Errorf("%s: expected label %q, got %q", tt.typ, tt.label, got)
		}
		if diff := cmp.Diff(tt.subTypes, tt.typ.SubTypes()); diff != "" {
			t.Errorf("%s: subtypes mismatch (-want +got):\n%s", tt.typ, diff)
		}
	}
}

func TestTypes_DescribesEveryType(t *testing.T) {
	infos := Types()
	if len(infos) != len(ValidTypes()) {
		t.Fatalf("expected %d types, got %d", len(ValidTypes()), len(infos))
	}
	for _, info := range infos {
		if info.SubTypes == nil {
			t.Errorf("%s: expected non-nil subtypes", info.Value)
		}
	}
}

func TestItemActionIcon(t *testing.T) {
	tests := []struct {
		parent Type
		status ItemStatus
		want   ActionIcon
	}{
		{TypeCheck, StatusPending, IconUnchecked},
		{TypeCheck, StatusDone, IconChecked},
		{TypeToDo, StatusPending, IconDone},
		{TypeShop, StatusDone, IconRedo},
		{TypeWish, StatusPending, IconDone},
		{TypeNote, StatusPending, IconEdit},
	}

	for _, tt := range tests {
		if got := ItemActionIcon(tt.parent, tt.status); got != tt.want {
			t.Errorf("ItemActionIcon(%s, %s) = %s, want %s", tt.parent, tt.status, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	name, err := ValidateName("  Milk  ")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if name != "Milk" {
		t.Fatalf("expected trimmed name, got %q", name)
	}

	if _, err := ValidateName("   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	long := make([]byte, MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := ValidateName(string(long)); !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

func TestValidateType(t *testing.T) {
	if err := ValidateType(TypeShop, SubTypeGroceries); err != nil {
		t.Fatalf("expected valid subtype, got %v", err)
	}
	if err := ValidateType(TypeWish, ""); err != nil {
		t.Fatalf("expected empty subtype to be valid, got %v", err)
	}
	if err := ValidateType(TypeShop, SubTypeWork); !errors.Is(err, ErrInvalidSubType) {
		t.Fatalf("expected ErrInvalidSubType, got %v", err)
	}
	if err := ValidateType("board", ""); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestListWithItems_PendingAndDone(t *testing.T) {
	list := ListWithItems{
		Listable: Listable{Type: TypeToDo, KeepDoneItems: true},
		Items: []Item{
			{ID: "c", Name: "Cheese", Status: StatusPending, Priority: PriorityPtr(2)},
			{ID: "a", Name: "Apples", Status: StatusDone, Priority: PriorityPtr(0)},
			{ID: "b", Name: "Bread", Status: StatusPending, Priority: PriorityPtr(1)},
		},
	}

	pending := itemIDs(list.PendingItems())
	if diff := cmp.Diff([]string{"b", "c"}, pending); diff != "" {
		t.Fatalf("pending mismatch (-want +got):\n%s", diff)
	}
	done := itemIDs(list.DoneItems())
	if diff := cmp.Diff([]string{"a"}, done); diff != "" {
		t.Fatalf("done mismatch (-want +got):\n%s", diff)
	}

	list.KeepDoneItems = false
	if list.HasDoneItems() {
		t.Fatal("expected no done items when done items are not kept")
	}
	if diff := cmp.Diff([]string{"a"}, itemIDs(list.AllDoneItems())); diff != "" {
		t.Fatalf("all done mismatch (-want +got):\n%s", diff)
	}
	if !list.HasPendingItems() {
		t.Fatal("expected pending items")
	}
}

func TestNextItemPriority(t *testing.T) {
	empty := ListWithItems{}
	if got := NextItemPriority(empty); got != PriorityHighest {
		t.Fatalf("expected %d for empty list, got %d", PriorityHighest, got)
	}

	list := ListWithItems{Items: []Item{
		{Name: "a", Status: StatusPending, Priority: PriorityPtr(0)},
		{Name: "b", Status: StatusPending, Priority: PriorityPtr(4)},
		{Name: "c", Status: StatusDone, Priority: PriorityPtr(9)},
	}}
	if got := NextItemPriority(list); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestFavoriteLink(t *testing.T) {
	if got := FavoriteLink(FavoriteEntry{ID: "n1", Type: TypeNote}); got != "/note/n1" {
		t.Fatalf("unexpected note link %q", got)
	}
	if got := FavoriteLink(FavoriteEntry{ID: "l1", Type: TypeShop}); got != "/list/l1/items" {
		t.Fatalf("unexpected list link %q", got)
	}
}

func TestUser_DisplayAndInitials(t *testing.T) {
	tests := []struct {
		name      string
		user      User
		anonymous bool
		display   string
		initials  string
	}{
		{name: "named", user: User{ID: "u", Name: "ada lovelace", Email: "ada@example.com"}, display: "ada lovelace", initials: "A"},
		{name: "email only", user: User{ID: "u", Email: "grace@example.com"}, display: "grace@example.com", initials: "G"},
		{name: "anonymous", user: User{ID: "u"}, anonymous: true, display: AnonymousName, initials: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsAnonymous(); got != tt.anonymous {
				t.Fatalf("IsAnonymous = %v, want %v", got, tt.anonymous)
			}
			if got := tt.user.IsLoggedIn(); got == tt.anonymous {
				t.Fatalf("IsLoggedIn = %v, want %v", got, !tt.anonymous)
			}
			if got := tt.user.DisplayName(); got != tt.display {
				t.Fatalf("DisplayName = %q, want %q", got, tt.display)
			}
			if got := tt.user.Initials(); got != tt.initials {
				t.Fatalf("Initials = %q, want %q", got, tt.initials)
			}
		})
	}
}

func TestFormatTitle(t *testing.T) {
	tests := map[string]string{
		"shopping-list": "Shopping list",
		"TODO":          "Todo",
		"":              "",
		"my-WISH-list":  "My wish list",
	}
	for input, want := range tests {
		if got := FormatTitle(input); got != want {
			t.Errorf("FormatTitle(%q) = %q, want %q", input, got, want)
		}
	}
}

func itemIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
