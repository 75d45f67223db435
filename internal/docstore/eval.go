package docstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Apply applies updates to data in place and returns it.
// A nil map is replaced by a new one.
func Apply(data map[string]any, updates ...Update) (map[string]any, error) {
	if err := validateUpdates(updates); err != nil {
		return nil, err
	}
	if data == nil {
		data = make(map[string]any)
	}

	for _, update := range updates {
		segments := strings.Split(update.Path, ".")
		parent := data
		for _, segment := range segments[:len(segments)-1] {
			child, ok := parent[segment].(map[string]any)
			if !ok {
				child = make(map[string]any)
				parent[segment] = child
			}
			parent = child
		}

		leaf := segments[len(segments)-1]
		switch value := update.Value.(type) {
		case deleteField:
			delete(parent, leaf)
		case arrayUnion:
			existing := toSlice(parent[leaf])
			for _, candidate := range value.values {
				if !containsValue(existing, candidate) {
					existing = append(existing, candidate)
				}
			}
			parent[leaf] = existing
		case arrayRemove:
			existing := toSlice(parent[leaf])
			kept := make([]any, 0, len(existing))
			for _, element := range existing {
				if !containsValue(value.values, element) {
					kept = append(kept, element)
				}
			}
			parent[leaf] = kept
		default:
			parent[leaf] = update.Value
		}
	}

	return data, nil
}

// Matches reports whether data satisfies every filter.
func Matches(data map[string]any, filters ...Filter) (bool, error) {
	for _, filter := range filters {
		value, found := Lookup(data, filter.Field)
		switch filter.Op {
		case OpEqual:
			if !found || !valuesEqual(value, filter.Value) {
				return false, nil
			}
		case OpArrayContains:
			if !found || !containsValue(toSlice(value), filter.Value) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported query operator %q", filter.Op)
		}
	}
	return true, nil
}

// Lookup returns the value at a dotted field path.
func Lookup(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, segment := range strings.Split(path, ".") {
		fields, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = fields[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// normalize converts data into the shapes produced by decoding JSON so that
// local backends compare and return values consistently.
func normalize(data map[string]any) (map[string]any, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if decoded == nil {
		decoded = make(map[string]any)
	}
	return decoded, nil
}

func toSlice(value any) []any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		return typed
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func containsValue(values []any, candidate any) bool {
	for _, value := range values {
		if valuesEqual(value, candidate) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
