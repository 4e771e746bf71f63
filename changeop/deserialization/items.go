package deserialization

import (
	"context"
	"fmt"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/textnorm"
)

// itemReference reads an item id that must refer to an existing item.
type itemReference struct {
	lookup     EntityLookup
	normalizer textnorm.Normalizer
}

func (r itemReference) deserialize(ctx context.Context, value any, vc validation.Context) (lexeme.ItemID, error) {
	s, err := asString(value, vc)
	if err != nil {
		return "", err
	}
	s = r.normalizer.Normalize(s)

	id, err := lexeme.ParseItemID(s)
	if err != nil {
		return "", vc.Violation(validation.InvalidItemID{Given: s})
	}

	exists, err := r.lookup.HasEntity(ctx, id)
	if err != nil {
		return "", fmt.Errorf("look up %s: %w", id, err)
	}
	if !exists {
		return "", vc.Violation(validation.EntityNotFound{ID: string(id)})
	}
	return id, nil
}

// LanguageDeserializer reads the "language" part of a lexeme payload.
type LanguageDeserializer struct {
	items itemReference
}

// NewLanguageDeserializer creates a LanguageDeserializer.
func NewLanguageDeserializer(lookup EntityLookup) *LanguageDeserializer {
	return &LanguageDeserializer{items: itemReference{lookup: lookup}}
}

// Deserialize returns a SetLanguage operation.
func (d *LanguageDeserializer) Deserialize(ctx context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	id, err := d.items.deserialize(ctx, value, vc)
	if err != nil {
		return nil, err
	}
	return changeop.SetLanguage{Language: id}, nil
}

// LexicalCategoryDeserializer reads the "lexicalCategory" part of a lexeme payload.
type LexicalCategoryDeserializer struct {
	items itemReference
}

// NewLexicalCategoryDeserializer creates a LexicalCategoryDeserializer.
func NewLexicalCategoryDeserializer(lookup EntityLookup) *LexicalCategoryDeserializer {
	return &LexicalCategoryDeserializer{items: itemReference{lookup: lookup}}
}

// Deserialize returns a SetLexicalCategory operation.
func (d *LexicalCategoryDeserializer) Deserialize(ctx context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	id, err := d.items.deserialize(ctx, value, vc)
	if err != nil {
		return nil, err
	}
	return changeop.SetLexicalCategory{LexicalCategory: id}, nil
}

// GrammaticalFeaturesDeserializer reads the "grammaticalFeatures" list of a form payload.
type GrammaticalFeaturesDeserializer struct {
	items itemReference
}

// NewGrammaticalFeaturesDeserializer creates a GrammaticalFeaturesDeserializer.
func NewGrammaticalFeaturesDeserializer(lookup EntityLookup) *GrammaticalFeaturesDeserializer {
	return &GrammaticalFeaturesDeserializer{items: itemReference{lookup: lookup}}
}

// Deserialize returns a SetGrammaticalFeatures operation.
func (d *GrammaticalFeaturesDeserializer) Deserialize(ctx context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	list, err := asList(value, vc)
	if err != nil {
		return nil, err
	}

	features := make([]lexeme.ItemID, 0, len(list))
	for i, raw := range list {
		id, err := d.items.deserialize(ctx, raw, vc.AtIndex(i))
		if err != nil {
			return nil, err
		}
		features = append(features, id)
	}
	return changeop.SetGrammaticalFeatures{Features: features}, nil
}
