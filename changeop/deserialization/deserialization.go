// Package deserialization turns edit request payloads into change operations.
//
// Payloads are decoded JSON (map[string]any, []any, string, ...). Each
// deserializer walks its part of the payload with a validation.Context that
// tracks the current path, and returns the first *validation.Error it finds.
// Nothing is applied here; the returned operation is applied by the caller.
package deserialization

import (
	"context"
	"sort"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// ParamData is the request parameter edit payloads are sent in.
const ParamData = "data"

// EntityLookup reports whether a referenced entity exists.
type EntityLookup interface {
	HasEntity(ctx context.Context, id lexeme.EntityID) (bool, error)
}

func asObject(value any, vc validation.Context) (map[string]any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, vc.Violation(validation.JSONFieldHasWrongType{Expected: "object", Given: validation.JSONType(value)})
	}
	return m, nil
}

func asList(value any, vc validation.Context) ([]any, error) {
	l, ok := value.([]any)
	if !ok {
		return nil, vc.Violation(validation.JSONFieldHasWrongType{Expected: "array", Given: validation.JSONType(value)})
	}
	return l, nil
}

func asString(value any, vc validation.Context) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", vc.Violation(validation.JSONFieldHasWrongType{Expected: "string", Given: validation.JSONType(value)})
	}
	return s, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
