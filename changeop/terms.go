package changeop

import (
	"fmt"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// TermField selects which term list of an entity an operation edits.
type TermField string

const (
	FieldLemmas          TermField = "lemmas"
	FieldRepresentations TermField = "representations"
	FieldGlosses         TermField = "glosses"
)

func (f TermField) terms(entity lexeme.Entity) (*lexeme.TermList, error) {
	switch f {
	case FieldLemmas:
		l, err := asLexeme(entity, "set "+string(f))
		if err != nil {
			return nil, err
		}
		return &l.Lemmas, nil
	case FieldRepresentations:
		form, err := asForm(entity, "set "+string(f))
		if err != nil {
			return nil, err
		}
		return &form.Representations, nil
	case FieldGlosses:
		s, err := asSense(entity, "set "+string(f))
		if err != nil {
			return nil, err
		}
		return &s.Glosses, nil
	default:
		return nil, fmt.Errorf("unknown term field %q", f)
	}
}

// SetTerm adds or replaces one term.
type SetTerm struct {
	Field TermField
	Term  lexeme.Term
}

// Apply implements ChangeOp.
func (op SetTerm) Apply(entity lexeme.Entity) error {
	terms, err := op.Field.terms(entity)
	if err != nil {
		return err
	}
	terms.Set(op.Term)
	return nil
}

// RemoveTerm removes the term for a language. Removing a missing term is a no-op.
type RemoveTerm struct {
	Field    TermField
	Language string
}

// Apply implements ChangeOp.
func (op RemoveTerm) Apply(entity lexeme.Entity) error {
	terms, err := op.Field.terms(entity)
	if err != nil {
		return err
	}
	terms.Remove(op.Language)
	return nil
}

// SetLemma returns an operation that sets a lemma.
func SetLemma(t lexeme.Term) SetTerm { return SetTerm{Field: FieldLemmas, Term: t} }

// RemoveLemma returns an operation that removes a lemma.
func RemoveLemma(language string) RemoveTerm {
	return RemoveTerm{Field: FieldLemmas, Language: language}
}

// SetRepresentation returns an operation that sets a form representation.
func SetRepresentation(t lexeme.Term) SetTerm {
	return SetTerm{Field: FieldRepresentations, Term: t}
}

// RemoveRepresentation returns an operation that removes a form representation.
func RemoveRepresentation(language string) RemoveTerm {
	return RemoveTerm{Field: FieldRepresentations, Language: language}
}

// SetGloss returns an operation that sets a sense gloss.
func SetGloss(t lexeme.Term) SetTerm { return SetTerm{Field: FieldGlosses, Term: t} }

// RemoveGloss returns an operation that removes a sense gloss.
func RemoveGloss(language string) RemoveTerm {
	return RemoveTerm{Field: FieldGlosses, Language: language}
}

// TermList applies term edits and requires the list to stay non-empty.
// On failure it reports Violation at Context and leaves the entity untouched.
type TermList struct {
	Field     TermField
	Ops       ChangeOps
	Violation validation.APIError
	Context   validation.Context
}

// GlossList wraps gloss edits so that a sense keeps at least one gloss.
func GlossList(ops ChangeOps, vc validation.Context) TermList {
	return TermList{Field: FieldGlosses, Ops: ops, Violation: validation.GlossesMustNotBeEmpty{}, Context: vc}
}

// RepresentationList wraps representation edits so that a form keeps at least one representation.
func RepresentationList(ops ChangeOps, vc validation.Context) TermList {
	return TermList{Field: FieldRepresentations, Ops: ops, Violation: validation.FormMustHaveRepresentation{}, Context: vc}
}

// Apply implements ChangeOp.
func (op TermList) Apply(entity lexeme.Entity) error {
	work := entity.Clone()
	if err := op.Ops.Apply(work); err != nil {
		return err
	}
	terms, err := op.Field.terms(work)
	if err != nil {
		return err
	}
	if len(*terms) == 0 {
		return op.Context.Violation(op.Violation)
	}
	entity.Overwrite(work)
	return nil
}
