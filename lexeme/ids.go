// Package lexeme holds the Lexeme entity model: typed ids, terms, statements,
// and the Lexeme, Form and Sense entities that change operations are applied to.
package lexeme

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a string is not a well-formed entity id.
var ErrInvalidID = errors.New("invalid entity id")

// EntityType represents the type of an entity.
type EntityType string

const (
	EntityTypeItem     EntityType = "item"
	EntityTypeProperty EntityType = "property"
	EntityTypeLexeme   EntityType = "lexeme"
	EntityTypeForm     EntityType = "form"
	EntityTypeSense    EntityType = "sense"
)

var (
	itemIDRe     = regexp.MustCompile(`^Q[1-9]\d{0,9}$`)
	propertyIDRe = regexp.MustCompile(`^P[1-9]\d{0,9}$`)
	lexemeIDRe   = regexp.MustCompile(`^L[1-9]\d{0,9}$`)
	formIDRe     = regexp.MustCompile(`^(L[1-9]\d{0,9})-F([1-9]\d{0,9})$`)
	senseIDRe    = regexp.MustCompile(`^(L[1-9]\d{0,9})-S([1-9]\d{0,9})$`)
)

// EntityID is implemented by every typed id.
type EntityID interface {
	String() string
	EntityType() EntityType
}

// ItemID identifies an item, e.g. "Q7725".
type ItemID string

func (id ItemID) String() string         { return string(id) }
func (id ItemID) EntityType() EntityType { return EntityTypeItem }

// PropertyID identifies a property, e.g. "P31".
type PropertyID string

func (id PropertyID) String() string         { return string(id) }
func (id PropertyID) EntityType() EntityType { return EntityTypeProperty }

// LexemeID identifies a lexeme, e.g. "L12".
type LexemeID string

func (id LexemeID) String() string         { return string(id) }
func (id LexemeID) EntityType() EntityType { return EntityTypeLexeme }

// Number returns the numeric part of the id, or 0 for an empty id.
func (id LexemeID) Number() int {
	n, err := strconv.Atoi(strings.TrimPrefix(string(id), "L"))
	if err != nil {
		return 0
	}
	return n
}

// NewLexemeID builds the id of the n-th lexeme.
func NewLexemeID(n int) LexemeID {
	return LexemeID(fmt.Sprintf("L%d", n))
}

// FormID identifies a form of a lexeme, e.g. "L12-F3".
type FormID string

func (id FormID) String() string         { return string(id) }
func (id FormID) EntityType() EntityType { return EntityTypeForm }

// LexemeID returns the id of the lexeme the form belongs to.
func (id FormID) LexemeID() LexemeID { return LexemeID(parentPart(string(id))) }

// Suffix returns the lexeme-local part of the id, e.g. "F3".
func (id FormID) Suffix() string { return suffixPart(string(id)) }

// NewFormID builds the id of the n-th form of a lexeme.
func NewFormID(lexemeID LexemeID, n int) FormID {
	return FormID(fmt.Sprintf("%s-F%d", lexemeID, n))
}

// SenseID identifies a sense of a lexeme, e.g. "L12-S1".
type SenseID string

func (id SenseID) String() string         { return string(id) }
func (id SenseID) EntityType() EntityType { return EntityTypeSense }

// LexemeID returns the id of the lexeme the sense belongs to.
func (id SenseID) LexemeID() LexemeID { return LexemeID(parentPart(string(id))) }

// Suffix returns the lexeme-local part of the id, e.g. "S1".
func (id SenseID) Suffix() string { return suffixPart(string(id)) }

// NewSenseID builds the id of the n-th sense of a lexeme.
func NewSenseID(lexemeID LexemeID, n int) SenseID {
	return SenseID(fmt.Sprintf("%s-S%d", lexemeID, n))
}

func parentPart(s string) string {
	if i := strings.LastIndex(s, "-"); i >= 0 {
		return s[:i]
	}
	return ""
}

func suffixPart(s string) string {
	if i := strings.LastIndex(s, "-"); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// ParseItemID parses an item id. The prefix letter is case-insensitive.
func ParseItemID(s string) (ItemID, error) {
	s = upperFirst(strings.TrimSpace(s))
	if !itemIDRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not an item id", ErrInvalidID, s)
	}
	return ItemID(s), nil
}

// ParsePropertyID parses a property id. The prefix letter is case-insensitive.
func ParsePropertyID(s string) (PropertyID, error) {
	s = upperFirst(strings.TrimSpace(s))
	if !propertyIDRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a property id", ErrInvalidID, s)
	}
	return PropertyID(s), nil
}

// ParseLexemeID parses a lexeme id. The prefix letter is case-insensitive.
func ParseLexemeID(s string) (LexemeID, error) {
	s = upperFirst(strings.TrimSpace(s))
	if !lexemeIDRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a lexeme id", ErrInvalidID, s)
	}
	return LexemeID(s), nil
}

// ParseFormID parses a form id of the shape "<LexemeId>-F<n>".
func ParseFormID(s string) (FormID, error) {
	if !formIDRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a form id", ErrInvalidID, s)
	}
	return FormID(s), nil
}

// ParseSenseID parses a sense id of the shape "<LexemeId>-S<n>".
func ParseSenseID(s string) (SenseID, error) {
	if !senseIDRe.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not a sense id", ErrInvalidID, s)
	}
	return SenseID(s), nil
}

// ParseEntityID parses any serialized entity id into its typed form.
func ParseEntityID(s string) (EntityID, error) {
	switch {
	case formIDRe.MatchString(s):
		return FormID(s), nil
	case senseIDRe.MatchString(s):
		return SenseID(s), nil
	}

	switch strings.ToUpper(firstLetter(s)) {
	case "Q":
		return ParseItemID(s)
	case "P":
		return ParsePropertyID(s)
	case "L":
		return ParseLexemeID(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
}

func firstLetter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s[:1]
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
