package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxTermLength is the longest term text accepted, in characters.
const DefaultMaxTermLength = 1000

// TermValidator checks a single term. It returns nil when the term is acceptable.
type TermValidator interface {
	ValidateTerm(language, text string) APIError
}

// TermLanguages is the allowlist of term language codes. Entries are exact
// codes or doublestar patterns such as "mis-x-*". It is safe for concurrent
// use and can be replaced while requests are being served.
type TermLanguages struct {
	mu       sync.RWMutex
	exact    map[string]bool
	patterns []string
}

// NewTermLanguages builds an allowlist from codes and patterns.
func NewTermLanguages(entries []string) (*TermLanguages, error) {
	l := &TermLanguages{}
	if err := l.Replace(entries); err != nil {
		return nil, err
	}
	return l, nil
}

// Replace swaps the allowlist contents.
func (l *TermLanguages) Replace(entries []string) error {
	exact := make(map[string]bool, len(entries))
	var patterns []string
	for _, e := range entries {
		if !doublestar.ValidatePattern(e) {
			return fmt.Errorf("invalid language pattern %q", e)
		}
		if isPattern(e) {
			patterns = append(patterns, e)
			continue
		}
		exact[e] = true
	}

	l.mu.Lock()
	l.exact = exact
	l.patterns = patterns
	l.mu.Unlock()
	return nil
}

// Contains reports whether a language code is allowed.
func (l *TermLanguages) Contains(code string) bool {
	if code == "" {
		return false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.exact[code] {
		return true
	}
	for _, p := range l.patterns {
		if ok, _ := doublestar.Match(p, code); ok {
			return true
		}
	}
	return false
}

// Entries returns the exact codes followed by the patterns, each sorted.
func (l *TermLanguages) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.exact)+len(l.patterns))
	for code := range l.exact {
		out = append(out, code)
	}
	sort.Strings(out)
	patterns := append([]string(nil), l.patterns...)
	sort.Strings(patterns)
	return append(out, patterns...)
}

func isPattern(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}

// LanguageValidator rejects language codes outside the allowlist.
type LanguageValidator struct {
	Languages *TermLanguages
}

// ValidateTerm implements TermValidator.
func (v LanguageValidator) ValidateTerm(language, _ string) APIError {
	if !v.Languages.Contains(language) {
		return UnknownLanguage{Given: language}
	}
	return nil
}

// LengthValidator rejects term texts longer than Max characters.
type LengthValidator struct {
	Max int
}

// ValidateTerm implements TermValidator.
func (v LengthValidator) ValidateTerm(language, text string) APIError {
	max := v.Max
	if max <= 0 {
		max = DefaultMaxTermLength
	}
	if utf8.RuneCountInString(text) > max {
		return TermTooLong{Max: max, Language: language}
	}
	return nil
}

// TermSerializationValidator checks the structure of a serialized term
// stored under key in a term map.
type TermSerializationValidator struct {
	Languages LanguageValidator
}

// Validate checks serialization. mapContext is the context of the term map;
// failures are reported at the entry under key, except an unknown language,
// which is reported under the language the term declares.
func (v TermSerializationValidator) Validate(key string, serialization map[string]any, mapContext Context) *Error {
	vc := mapContext.At(key)
	raw, ok := serialization["language"]
	if !ok {
		return vc.Violation(JSONFieldIsRequired{Field: "language"})
	}
	language, ok := raw.(string)
	if !ok {
		return vc.At("language").Violation(JSONFieldHasWrongType{Expected: "string", Given: JSONType(raw)})
	}
	if language == "" {
		return vc.Violation(LexemeTermLanguageCanNotBeEmpty{})
	}
	if value, ok := serialization["value"]; ok {
		if _, ok := value.(string); !ok {
			return vc.At("value").Violation(JSONFieldHasWrongType{Expected: "string", Given: JSONType(value)})
		}
	}
	if apiErr := v.Languages.ValidateTerm(language, ""); apiErr != nil {
		return mapContext.At(language).Violation(apiErr)
	}
	if language != key {
		return vc.Violation(InconsistentLanguage{Expected: key, Given: language})
	}
	return nil
}

// JSONType names the JSON type of a decoded value.
func JSONType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
