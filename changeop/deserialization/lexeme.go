package deserialization

import (
	"context"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// LexemeDeserializer reads a whole lexeme edit payload.
type LexemeDeserializer struct {
	lemmas          *LemmaDeserializer
	lexicalCategory *LexicalCategoryDeserializer
	language        *LanguageDeserializer
	claims          *ClaimsDeserializer
	forms           *FormListDeserializer
	senses          *SenseListDeserializer
}

// NewLexemeDeserializer creates a LexemeDeserializer.
func NewLexemeDeserializer(
	lemmas *LemmaDeserializer,
	lexicalCategory *LexicalCategoryDeserializer,
	language *LanguageDeserializer,
	claims *ClaimsDeserializer,
	forms *FormListDeserializer,
	senses *SenseListDeserializer,
) *LexemeDeserializer {
	return &LexemeDeserializer{
		lemmas:          lemmas,
		lexicalCategory: lexicalCategory,
		language:        language,
		claims:          claims,
		forms:           forms,
		senses:          senses,
	}
}

// Deserialize returns one composite operation for the lexeme target.
// Keys are processed in a fixed order; unknown keys are ignored.
func (d *LexemeDeserializer) Deserialize(ctx context.Context, target lexeme.LexemeID, value any, vc validation.Context) (changeop.ChangeOp, error) {
	m, err := asObject(value, vc)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		key string
		fn  func(raw any, vc validation.Context) (changeop.ChangeOp, error)
	}{
		{"lemmas", func(raw any, vc validation.Context) (changeop.ChangeOp, error) {
			return d.lemmas.Deserialize(ctx, raw, vc)
		}},
		{"lexicalCategory", func(raw any, vc validation.Context) (changeop.ChangeOp, error) {
			return d.lexicalCategory.Deserialize(ctx, raw, vc)
		}},
		{"language", func(raw any, vc validation.Context) (changeop.ChangeOp, error) {
			return d.language.Deserialize(ctx, raw, vc)
		}},
		{"claims", func(raw any, vc validation.Context) (changeop.ChangeOp, error) {
			return d.claims.Deserialize(ctx, raw, vc)
		}},
		{"forms", func(raw any, vc validation.Context) (changeop.ChangeOp, error) {
			return d.forms.Deserialize(ctx, target, raw, vc)
		}},
		{"senses", func(raw any, vc validation.Context) (changeop.ChangeOp, error) {
			return d.senses.Deserialize(ctx, target, raw, vc)
		}},
	}

	var ops changeop.ChangeOps
	for _, s := range steps {
		raw, ok := m[s.key]
		if !ok {
			continue
		}
		op, err := s.fn(raw, vc.At(s.key))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
