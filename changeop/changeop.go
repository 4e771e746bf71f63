// Package changeop defines the change operations produced by the
// deserializers and applied to lexemes, forms and senses.
package changeop

import (
	"errors"
	"fmt"

	"github.com/c360studio/semlex/lexeme"
)

// ErrWrongEntityType is returned when an operation is applied to an entity it does not support.
var ErrWrongEntityType = errors.New("change operation does not apply to entity type")

// ChangeOp is an immutable instruction to modify an entity.
type ChangeOp interface {
	Apply(entity lexeme.Entity) error
}

// ChangeOps applies its members in order as one atomic change. Members run
// against a clone; the target is only overwritten when all of them succeed.
type ChangeOps []ChangeOp

// Apply implements ChangeOp.
func (ops ChangeOps) Apply(entity lexeme.Entity) error {
	if len(ops) == 0 {
		return nil
	}
	work := entity.Clone()
	for _, op := range ops {
		if err := op.Apply(work); err != nil {
			return err
		}
	}
	entity.Overwrite(work)
	return nil
}

func asLexeme(entity lexeme.Entity, op string) (*lexeme.Lexeme, error) {
	l, ok := entity.(*lexeme.Lexeme)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrWrongEntityType, op, entity.EntityType())
	}
	return l, nil
}

func asForm(entity lexeme.Entity, op string) (*lexeme.Form, error) {
	f, ok := entity.(*lexeme.Form)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrWrongEntityType, op, entity.EntityType())
	}
	return f, nil
}

func asSense(entity lexeme.Entity, op string) (*lexeme.Sense, error) {
	s, ok := entity.(*lexeme.Sense)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrWrongEntityType, op, entity.EntityType())
	}
	return s, nil
}
