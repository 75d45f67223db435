package listable

import (
	"encoding/json"

	"github.com/amonks/lists/internal/docstore"
)

// Document field names.
const (
	fieldType           = "type"
	fieldSubType        = "subtype"
	fieldName           = "name"
	fieldDescription    = "description"
	fieldOwner          = "owner"
	fieldSharedWith     = "sharedWith"
	fieldFavorites      = "favorites"
	fieldUserPriorities = "userPriorities"
	fieldNumberOfItems  = "numberOfItems"
	fieldKeepDoneItems  = "keepDoneItems"
	fieldNoteContent    = "noteContent"
	fieldChangedBy      = "changedBy"
	fieldModifiedAt     = "modifiedAt"
	fieldNotes          = "notes"
	fieldStatus         = "status"
	fieldEmail          = "email"
	fieldPhotoURL       = "photoURL"
	fieldLocation       = "location"
)

// ListableFromDocument builds the listable as seen by viewerID.
// A viewer without a stored priority gets PriorityLowest.
func ListableFromDocument(doc docstore.Document, viewerID string) Listable {
	data := doc.Data
	l := Listable{
		ID:             doc.ID,
		Type:           Type(stringField(data, fieldType)),
		SubType:        SubType(stringField(data, fieldSubType)),
		Name:           stringField(data, fieldName),
		Description:    stringField(data, fieldDescription),
		Owner:          stringField(data, fieldOwner),
		SharedWith:     stringSlice(data, fieldSharedWith),
		NumberOfItems:  intOrZero(data, fieldNumberOfItems),
		KeepDoneItems:  boolField(data, fieldKeepDoneItems),
		NoteContent:    stringField(data, fieldNoteContent),
		ChangedBy:      stringField(data, fieldChangedBy),
		ModifiedAt:     int64(intOrZero(data, fieldModifiedAt)),
		favorites:      stringSlice(data, fieldFavorites),
		userPriorities: intMap(data, fieldUserPriorities),
	}
	if l.Type == "" {
		l.Type = TypeToDo
	}
	if priority, ok := l.userPriorities[viewerID]; ok {
		l.Priority = PriorityPtr(priority)
	} else {
		l.Priority = PriorityPtr(PriorityLowest)
	}
	l.IsShared = IsSharedWith(l, viewerID)
	l.IsFavorite = IsFavorite(l.favorites, viewerID)
	return l
}

// IsSharedWith reports whether userID sees the listable through sharing
// rather than ownership.
func IsSharedWith(l Listable, userID string) bool {
	return l.Owner != userID && containsString(l.SharedWith, userID)
}

// CanView reports whether userID owns the listable or has it shared.
func CanView(l Listable, userID string) bool {
	return l.Owner == userID || containsString(l.SharedWith, userID)
}

// listableDocument returns the stored fields of a new listable.
func listableDocument(l Listable) map[string]any {
	data := map[string]any{
		fieldType:           string(l.Type),
		fieldSubType:        string(l.SubType),
		fieldName:           l.Name,
		fieldDescription:    l.Description,
		fieldOwner:          l.Owner,
		fieldSharedWith:     anySlice(l.SharedWith),
		fieldFavorites:      anySlice(l.favorites),
		fieldUserPriorities: map[string]any{},
		fieldNumberOfItems:  l.NumberOfItems,
		fieldKeepDoneItems:  l.KeepDoneItems,
		fieldChangedBy:      l.ChangedBy,
		fieldModifiedAt:     l.ModifiedAt,
	}
	if l.Priority != nil {
		data[fieldUserPriorities] = map[string]any{l.Owner: *l.Priority}
	}
	if l.IsNote() {
		data[fieldNoteContent] = l.NoteContent
	}
	return data
}

// ItemFromDocument builds an item of listID as seen by viewerID.
// Missing or unknown statuses read as pending.
func ItemFromDocument(doc docstore.Document, viewerID, listID string) Item {
	data := doc.Data
	item := Item{
		ID:         doc.ID,
		ListID:     listID,
		Name:       stringField(data, fieldName),
		Notes:      stringField(data, fieldNotes),
		Status:     ItemStatus(stringField(data, fieldStatus)),
		Owner:      stringField(data, fieldOwner),
		ChangedBy:  stringField(data, fieldChangedBy),
		ModifiedAt: int64(intOrZero(data, fieldModifiedAt)),
	}
	if !item.Status.IsValid() {
		item.Status = StatusPending
	}
	if priority, ok := intMap(data, fieldUserPriorities)[viewerID]; ok {
		item.Priority = PriorityPtr(priority)
	}
	return item
}

// ItemToDocument returns the stored fields of a new item created by
// viewerID. The item's priority is stored for viewerID only.
func ItemToDocument(item Item, viewerID string) map[string]any {
	priorities := map[string]any{}
	if item.Priority != nil {
		priorities[viewerID] = *item.Priority
	}
	return map[string]any{
		fieldName:           item.Name,
		fieldNotes:          item.Notes,
		fieldStatus:         string(item.Status),
		fieldOwner:          item.Owner,
		fieldUserPriorities: priorities,
		fieldChangedBy:      item.ChangedBy,
		fieldModifiedAt:     item.ModifiedAt,
	}
}

// UserFromDocument builds a user profile.
func UserFromDocument(doc docstore.Document) User {
	return User{
		ID:       doc.ID,
		Name:     stringField(doc.Data, fieldName),
		Email:    stringField(doc.Data, fieldEmail),
		PhotoURL: stringField(doc.Data, fieldPhotoURL),
		Location: stringField(doc.Data, fieldLocation),
	}
}

// UserToDocument returns the stored profile fields.
func UserToDocument(u User) map[string]any {
	return map[string]any{
		fieldName:     u.Name,
		fieldEmail:    u.Email,
		fieldPhotoURL: u.PhotoURL,
		fieldLocation: u.Location,
	}
}

func priorityPath(userID string) string {
	return fieldUserPriorities + "." + userID
}

func stringField(data map[string]any, key string) string {
	value, _ := data[key].(string)
	return value
}

func boolField(data map[string]any, key string) bool {
	value, _ := data[key].(bool)
	return value
}

func intOrZero(data map[string]any, key string) int {
	value, _ := toInt(data[key])
	return value
}

// toInt accepts the numeric representations the backends decode to.
func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	default:
		return 0, false
	}
}

func stringSlice(data map[string]any, key string) []string {
	out := []string{}
	switch values := data[key].(type) {
	case []string:
		out = append(out, values...)
	case []any:
		for _, value := range values {
			if s, ok := value.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func intMap(data map[string]any, key string) map[string]int {
	out := map[string]int{}
	raw, ok := data[key].(map[string]any)
	if !ok {
		return out
	}
	for k, value := range raw {
		if i, ok := toInt(value); ok {
			out[k] = i
		}
	}
	return out
}

func anySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
