package deserialization

import (
	"context"
	"fmt"
	"strings"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// ClaimsDeserializer reads the "claims" part of a lexeme, form or sense payload.
// The value is either a list of statements or a map of property id to list.
type ClaimsDeserializer struct {
	lookup EntityLookup
}

// NewClaimsDeserializer creates a ClaimsDeserializer.
func NewClaimsDeserializer(lookup EntityLookup) *ClaimsDeserializer {
	return &ClaimsDeserializer{lookup: lookup}
}

// Deserialize returns the statement edits as one composite operation.
func (d *ClaimsDeserializer) Deserialize(ctx context.Context, value any, vc validation.Context) (changeop.ChangeOp, error) {
	if byProperty, ok := value.(map[string]any); ok {
		var ops changeop.ChangeOps
		for _, property := range sortedKeys(byProperty) {
			pvc := vc.At(property)
			list, err := asList(byProperty[property], pvc)
			if err != nil {
				return nil, err
			}
			listOps, err := d.deserializeList(ctx, property, list, pvc)
			if err != nil {
				return nil, err
			}
			ops = append(ops, listOps...)
		}
		return ops, nil
	}

	list, err := asList(value, vc)
	if err != nil {
		return nil, err
	}
	ops, err := d.deserializeList(ctx, "", list, vc)
	if err != nil {
		return nil, err
	}
	return ops, nil
}

func (d *ClaimsDeserializer) deserializeList(ctx context.Context, property string, list []any, vc validation.Context) (changeop.ChangeOps, error) {
	ops := make(changeop.ChangeOps, 0, len(list))
	for i, raw := range list {
		op, err := d.deserializeStatement(ctx, property, raw, vc.AtIndex(i))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (d *ClaimsDeserializer) deserializeStatement(ctx context.Context, property string, raw any, vc validation.Context) (changeop.ChangeOp, error) {
	m, err := asObject(raw, vc)
	if err != nil {
		return nil, err
	}

	guid := ""
	if rawID, ok := m["id"]; ok {
		if guid, err = asString(rawID, vc.At("id")); err != nil {
			return nil, err
		}
		if !strings.Contains(guid, "$") || lexeme.GUIDEntityID(guid) == "" {
			return nil, vc.At("id").Violation(validation.InvalidStatement{Reason: fmt.Sprintf("malformed statement id %q", guid)})
		}
	}

	if _, remove := m["remove"]; remove {
		if guid == "" {
			return nil, vc.Violation(validation.JSONFieldIsRequired{Field: "id"})
		}
		return changeop.RemoveStatement{GUID: guid, Context: vc}, nil
	}

	rawSnak, ok := m["mainsnak"]
	if !ok {
		return nil, vc.Violation(validation.JSONFieldIsRequired{Field: "mainsnak"})
	}
	snak, err := d.deserializeSnak(ctx, rawSnak, vc.At("mainsnak"))
	if err != nil {
		return nil, err
	}
	if property != "" && string(snak.Property) != property {
		return nil, vc.At("mainsnak").At("property").Violation(validation.InvalidStatement{
			Reason: fmt.Sprintf("property %s listed under %s", snak.Property, property),
		})
	}

	rank := lexeme.RankNormal
	if rawRank, ok := m["rank"]; ok {
		s, err := asString(rawRank, vc.At("rank"))
		if err != nil {
			return nil, err
		}
		switch r := lexeme.Rank(s); r {
		case lexeme.RankPreferred, lexeme.RankNormal, lexeme.RankDeprecated:
			rank = r
		default:
			return nil, vc.At("rank").Violation(validation.InvalidStatement{Reason: fmt.Sprintf("unknown rank %q", s)})
		}
	}

	return changeop.SetStatement{
		Statement: lexeme.Statement{GUID: guid, MainSnak: snak, Rank: rank},
		Context:   vc,
	}, nil
}

func (d *ClaimsDeserializer) deserializeSnak(ctx context.Context, raw any, vc validation.Context) (lexeme.Snak, error) {
	m, err := asObject(raw, vc)
	if err != nil {
		return lexeme.Snak{}, err
	}

	rawType, ok := m["snaktype"]
	if !ok {
		return lexeme.Snak{}, vc.Violation(validation.JSONFieldIsRequired{Field: "snaktype"})
	}
	snakType, err := asString(rawType, vc.At("snaktype"))
	if err != nil {
		return lexeme.Snak{}, err
	}

	rawProperty, ok := m["property"]
	if !ok {
		return lexeme.Snak{}, vc.Violation(validation.JSONFieldIsRequired{Field: "property"})
	}
	p, err := asString(rawProperty, vc.At("property"))
	if err != nil {
		return lexeme.Snak{}, err
	}
	property, err := lexeme.ParsePropertyID(p)
	if err != nil {
		return lexeme.Snak{}, vc.At("property").Violation(validation.InvalidPropertyID{Given: p})
	}
	if err := d.mustExist(ctx, property, vc.At("property")); err != nil {
		return lexeme.Snak{}, err
	}

	snak := lexeme.Snak{SnakType: lexeme.SnakType(snakType), Property: property}
	rawValue, hasValue := m["datavalue"]
	switch snak.SnakType {
	case lexeme.SnakValue:
		if !hasValue {
			return lexeme.Snak{}, vc.Violation(validation.JSONFieldIsRequired{Field: "datavalue"})
		}
		dv, err := d.deserializeDataValue(ctx, rawValue, vc.At("datavalue"))
		if err != nil {
			return lexeme.Snak{}, err
		}
		snak.DataValue = dv
	case lexeme.SnakSomeValue, lexeme.SnakNoValue:
		if hasValue {
			return lexeme.Snak{}, vc.At("datavalue").Violation(validation.InvalidStatement{
				Reason: fmt.Sprintf("%s snak cannot carry a value", snakType),
			})
		}
	default:
		return lexeme.Snak{}, vc.At("snaktype").Violation(validation.InvalidStatement{Reason: fmt.Sprintf("unknown snak type %q", snakType)})
	}
	return snak, nil
}

func (d *ClaimsDeserializer) deserializeDataValue(ctx context.Context, raw any, vc validation.Context) (*lexeme.DataValue, error) {
	m, err := asObject(raw, vc)
	if err != nil {
		return nil, err
	}
	rawType, ok := m["type"]
	if !ok {
		return nil, vc.Violation(validation.JSONFieldIsRequired{Field: "type"})
	}
	typ, err := asString(rawType, vc.At("type"))
	if err != nil {
		return nil, err
	}
	value, ok := m["value"]
	if !ok {
		return nil, vc.Violation(validation.JSONFieldIsRequired{Field: "value"})
	}

	dv := &lexeme.DataValue{Type: typ, Value: value}
	switch typ {
	case lexeme.DataValueString:
		if _, err := asString(value, vc.At("value")); err != nil {
			return nil, err
		}
	case lexeme.DataValueEntityID:
		ref, ok := dv.EntityID()
		if !ok {
			return nil, vc.At("value").Violation(validation.JSONFieldIsRequired{Field: "id"})
		}
		id, err := lexeme.ParseEntityID(ref)
		if err != nil {
			return nil, vc.At("value").At("id").Violation(validation.InvalidStatement{Reason: fmt.Sprintf("malformed entity id %q", ref)})
		}
		if err := d.mustExist(ctx, id, vc.At("value").At("id")); err != nil {
			return nil, err
		}
		dv.Value = map[string]any{"id": id.String()}
	}
	return dv, nil
}

func (d *ClaimsDeserializer) mustExist(ctx context.Context, id lexeme.EntityID, vc validation.Context) error {
	exists, err := d.lookup.HasEntity(ctx, id)
	if err != nil {
		return fmt.Errorf("look up %s: %w", id, err)
	}
	if !exists {
		return vc.Violation(validation.EntityNotFound{ID: id.String()})
	}
	return nil
}
