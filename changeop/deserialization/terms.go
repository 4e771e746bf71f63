package deserialization

import (
	"context"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/textnorm"
)

// Terms holds the validators and normalizer shared by the term list deserializers.
type Terms struct {
	Languages  validation.LanguageValidator
	Length     validation.LengthValidator
	Normalizer textnorm.Normalizer
}

// deserialize reads a map of language code to serialized term.
// Entries carrying "remove" become removals without further checks. Other
// entries are validated and normalized; an empty text also means removal.
func (t Terms) deserialize(field changeop.TermField, value any, vc validation.Context) (changeop.ChangeOps, error) {
	m, err := asObject(value, vc)
	if err != nil {
		return nil, err
	}

	serialization := validation.TermSerializationValidator{Languages: t.Languages}
	ops := make(changeop.ChangeOps, 0, len(m))
	for _, key := range sortedKeys(m) {
		tvc := vc.At(key)
		entry, err := asObject(m[key], tvc)
		if err != nil {
			return nil, err
		}

		if _, remove := entry["remove"]; remove {
			ops = append(ops, changeop.RemoveTerm{Field: field, Language: key})
			continue
		}
		if verr := serialization.Validate(key, entry, vc); verr != nil {
			return nil, verr
		}

		text, _ := entry["value"].(string)
		text = t.Normalizer.Normalize(text)
		if text == "" {
			ops = append(ops, changeop.RemoveTerm{Field: field, Language: key})
			continue
		}
		if apiErr := t.Length.ValidateTerm(key, text); apiErr != nil {
			return nil, tvc.Violation(apiErr)
		}
		ops = append(ops, changeop.SetTerm{Field: field, Term: lexeme.Term{Language: key, Text: text}})
	}
	return ops, nil
}

// LemmaDeserializer reads the "lemmas" part of a lexeme payload.
type LemmaDeserializer struct {
	terms Terms
}

// NewLemmaDeserializer creates a LemmaDeserializer.
func NewLemmaDeserializer(terms Terms) *LemmaDeserializer {
	return &LemmaDeserializer{terms: terms}
}

// Deserialize returns the lemma edits as one composite operation.
func (d *LemmaDeserializer) Deserialize(_ context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	ops, err := d.terms.deserialize(changeop.FieldLemmas, value, vc)
	if err != nil {
		return nil, err
	}
	return ops, nil
}

// GlossesDeserializer reads the "glosses" part of a sense payload.
type GlossesDeserializer struct {
	terms Terms
}

// NewGlossesDeserializer creates a GlossesDeserializer.
func NewGlossesDeserializer(terms Terms) *GlossesDeserializer {
	return &GlossesDeserializer{terms: terms}
}

// Deserialize returns the gloss edits. Applying them fails if the sense
// would be left without glosses.
func (d *GlossesDeserializer) Deserialize(_ context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	ops, err := d.terms.deserialize(changeop.FieldGlosses, value, vc)
	if err != nil {
		return nil, err
	}
	return changeop.GlossList(ops, vc), nil
}

// RepresentationsDeserializer reads the "representations" part of a form payload.
type RepresentationsDeserializer struct {
	terms Terms
}

// NewRepresentationsDeserializer creates a RepresentationsDeserializer.
func NewRepresentationsDeserializer(terms Terms) *RepresentationsDeserializer {
	return &RepresentationsDeserializer{terms: terms}
}

// Deserialize returns the representation edits. Applying them fails if the
// form would be left without representations.
func (d *RepresentationsDeserializer) Deserialize(_ context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	ops, err := d.terms.deserialize(changeop.FieldRepresentations, value, vc)
	if err != nil {
		return nil, err
	}
	return changeop.RepresentationList(ops, vc), nil
}
