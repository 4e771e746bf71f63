package deserialization

import (
	"context"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// EditSenseDeserializer reads the editable elements of a sense: glosses and claims.
type EditSenseDeserializer struct {
	glosses *GlossesDeserializer
	claims  *ClaimsDeserializer
}

// NewEditSenseDeserializer creates an EditSenseDeserializer.
func NewEditSenseDeserializer(glosses *GlossesDeserializer, claims *ClaimsDeserializer) *EditSenseDeserializer {
	return &EditSenseDeserializer{glosses: glosses, claims: claims}
}

// Deserialize returns the edits to apply to a sense.
func (d *EditSenseDeserializer) Deserialize(ctx context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	m, err := asObject(value, vc)
	if err != nil {
		return nil, err
	}

	var ops changeop.ChangeOps
	if raw, ok := m["glosses"]; ok {
		op, err := d.glosses.Deserialize(ctx, raw, vc.At("glosses"))
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

// SenseDeserializer reads one entry of a lexeme's "senses" list.
type SenseDeserializer struct {
	ids  SenseIDDeserializer
	edit *EditSenseDeserializer
}

// NewSenseDeserializer creates a SenseDeserializer.
func NewSenseDeserializer(ids SenseIDDeserializer, edit *EditSenseDeserializer) *SenseDeserializer {
	return &SenseDeserializer{ids: ids, edit: edit}
}

// Deserialize returns the operation for one sense entry of the lexeme target.
func (d *SenseDeserializer) Deserialize(ctx context.Context, target lexeme.LexemeID, value any, vc validation.Context) (changeop.ChangeOp, error) {
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
			return changeop.RemoveSense{ID: id, Context: vc}, nil
		}
		edit, err := d.edit.Deserialize(ctx, m, vc)
		if err != nil {
			return nil, err
		}
		return changeop.EditSense{ID: id, Edit: changeop.ChangeOps{edit}, Context: vc}, nil
	}

	if _, remove := m["remove"]; remove {
		return nil, vc.Violation(validation.JSONFieldIsRequired{Field: "id"})
	}

	edit, err := d.edit.Deserialize(ctx, m, vc)
	if err != nil {
		return nil, err
	}
	return changeop.AddSense{Edit: changeop.ChangeOps{edit}, Context: vc}, nil
}

// SenseListDeserializer reads a lexeme's "senses" list.
type SenseListDeserializer struct {
	sense *SenseDeserializer
}

// NewSenseListDeserializer creates a SenseListDeserializer.
func NewSenseListDeserializer(sense *SenseDeserializer) *SenseListDeserializer {
	return &SenseListDeserializer{sense: sense}
}

// Deserialize returns the sense operations in list order.
func (d *SenseListDeserializer) Deserialize(ctx context.Context, target lexeme.LexemeID, value any, vc validation.Context) (changeop.ChangeOp, error) {
	list, err := asList(value, vc)
	if err != nil {
		return nil, err
	}

	ops := make(changeop.ChangeOps, 0, len(list))
	for i, item := range list {
		op, err := d.sense.Deserialize(ctx, target, item, vc.AtIndex(i))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
