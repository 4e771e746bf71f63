package deserialization

import (
	"context"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// EditFormDeserializer reads the editable elements of a form:
// representations, grammatical features and claims.
type EditFormDeserializer struct {
	representations *RepresentationsDeserializer
	features        *GrammaticalFeaturesDeserializer
	claims          *ClaimsDeserializer
}

// NewEditFormDeserializer creates an EditFormDeserializer.
func NewEditFormDeserializer(
	representations *RepresentationsDeserializer,
	features *GrammaticalFeaturesDeserializer,
	claims *ClaimsDeserializer,
) *EditFormDeserializer {
	return &EditFormDeserializer{representations: representations, features: features, claims: claims}
}

// Deserialize returns the edits to apply to a form.
func (d *EditFormDeserializer) Deserialize(ctx context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	m, err := asObject(value, vc)
	if err != nil {
		return nil, err
	}

	var ops changeop.ChangeOps
	if raw, ok := m["representations"]; ok {
		op, err := d.representations.Deserialize(ctx, raw, vc.At("representations"))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if raw, ok := m["grammaticalFeatures"]; ok {
		op, err := d.features.Deserialize(ctx, raw, vc.At("grammaticalFeatures"))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if raw, ok := m["claims"]; ok {
		op, err := d.claims.Deserialize(ctx, raw, vc.At("claims"))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// FormDeserializer reads one entry of a lexeme's "forms" list.
//
// An entry with "id" edits that form, or removes it when "remove" is present.
// An entry without "id" creates a new form; the "add" marker is optional.
type FormDeserializer struct {
	ids  FormIDDeserializer
	edit *EditFormDeserializer
}

// NewFormDeserializer creates a FormDeserializer.
func NewFormDeserializer(ids FormIDDeserializer, edit *EditFormDeserializer) *FormDeserializer {
	return &FormDeserializer{ids: ids, edit: edit}
}

// Deserialize returns the operation for one form entry of the lexeme target.
func (d *FormDeserializer) Deserialize(ctx context.Context, target lexeme.LexemeID, value any, vc validation.Context) (changeop.ChangeOp, error) {
	m, err := asObject(value, vc)
	if err != nil {
		return nil, err
	}

	if rawID, ok := m["id"]; ok {
		id, err := d.ids.Deserialize(rawID, vc.At("id"))
		if err != nil {
			return nil, err
		}
		if id.LexemeID() != target {
			return nil, vc.At("id").Violation(validation.InvalidLexemeField{ID: string(id), Lexeme: string(target)})
		}
		if _, remove := m["remove"]; remove {
			return changeop.RemoveForm{ID: id, Context: vc}, nil
		}
		edit, err := d.edit.Deserialize(ctx, m, vc)
		if err != nil {
			return nil, err
		}
		return changeop.EditForm{ID: id, Edit: changeop.ChangeOps{edit}, Context: vc}, nil
	}

	if _, remove := m["remove"]; remove {
		return nil, vc.Violation(validation.JSONFieldIsRequired{Field: "id"})
	}

	edit, err := d.edit.Deserialize(ctx, m, vc)
	if err != nil {
		return nil, err
	}
	return changeop.AddForm{Edit: changeop.ChangeOps{edit}, Context: vc}, nil
}

// FormListDeserializer reads a lexeme's "forms" list.
type FormListDeserializer struct {
	form *FormDeserializer
}

// NewFormListDeserializer creates a FormListDeserializer.
func NewFormListDeserializer(form *FormDeserializer) *FormListDeserializer {
	return &FormListDeserializer{form: form}
}

// Deserialize returns the form operations in list order. The first invalid
// entry aborts the whole list.
func (d *FormListDeserializer) Deserialize(ctx context.Context, target lexeme.LexemeID, value any, vc validation.Context) (changeop.ChangeOp, error) {
	list, err := asList(value, vc)
	if err != nil {
		return nil, err
	}

	ops := make(changeop.ChangeOps, 0, len(list))
	for i, item := range list {
		op, err := d.form.Deserialize(ctx, target, item, vc.AtIndex(i))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
