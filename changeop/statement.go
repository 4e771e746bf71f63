package changeop

import (
	"fmt"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

func asHolder(entity lexeme.Entity, op string) (lexeme.StatementHolder, error) {
	h, ok := entity.(lexeme.StatementHolder)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrWrongEntityType, op, entity.EntityType())
	}
	return h, nil
}

// SetStatement adds or replaces a statement. A statement without GUID gets
// one minted for the entity it is applied to.
type SetStatement struct {
	Statement lexeme.Statement
	Context   validation.Context
}

// Apply implements ChangeOp.
func (op SetStatement) Apply(entity lexeme.Entity) error {
	h, err := asHolder(entity, "set statement")
	if err != nil {
		return err
	}
	s := op.Statement
	if s.GUID == "" {
		s.GUID = lexeme.NewStatementGUID(h.EntityID())
	} else if lexeme.GUIDEntityID(s.GUID) != h.EntityID() {
		return op.Context.At("id").Violation(validation.InvalidStatement{
			Reason: fmt.Sprintf("statement %s does not belong to %s", s.GUID, h.EntityID()),
		})
	}
	if s.Rank == "" {
		s.Rank = lexeme.RankNormal
	}
	h.Statements().Set(s)
	return nil
}

// RemoveStatement removes a statement by GUID.
type RemoveStatement struct {
	GUID    string
	Context validation.Context
}

// Apply implements ChangeOp.
func (op RemoveStatement) Apply(entity lexeme.Entity) error {
	h, err := asHolder(entity, "remove statement")
	if err != nil {
		return err
	}
	if !h.Statements().Remove(op.GUID) {
		return op.Context.Violation(validation.StatementNotFound{GUID: op.GUID})
	}
	return nil
}
