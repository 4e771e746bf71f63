package api

import (
	"context"
	"fmt"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/deserialization"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
)

// EditResult is the response of a successful edit.
type EditResult struct {
	Success   int    `json:"success"`
	LastRevID uint64 `json:"lastrevid"`
	// Entity is the edited lexeme, form or sense. Removals carry none.
	Entity lexeme.Entity `json:"entity,omitempty"`
}

func saved(rev uint64, entity lexeme.Entity) *EditResult {
	return &EditResult{Success: 1, LastRevID: rev, Entity: entity}
}

// modify loads a lexeme, applies the operation built for it and saves the
// result on top of the loaded revision.
func (h *Handler) modify(ctx context.Context, id lexeme.LexemeID, p params, build func(l *lexeme.Lexeme) (changeop.ChangeOp, error)) (*lexeme.Lexeme, uint64, error) {
	base, hasBase, err := p.baseRevision()
	if err != nil {
		return nil, 0, err
	}

	l, rev, err := h.store.GetLexeme(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", id, err)
	}
	if hasBase && base != rev {
		return nil, 0, fmt.Errorf("%w: %s is at revision %d, edit is based on %d", storage.ErrConflict, id, rev, base)
	}

	op, err := build(l)
	if err != nil {
		return nil, 0, err
	}
	if err := (changeop.ChangeOps{op}).Apply(l); err != nil {
		return nil, 0, err
	}

	newRev, err := h.store.SaveLexeme(ctx, l, rev)
	if err != nil {
		return nil, 0, fmt.Errorf("save %s: %w", id, err)
	}
	h.publish(ctx, l, newRev)
	return l, newRev, nil
}

// publish sends the saved lexeme to the graph. The edit is already stored,
// so a failure is only logged.
func (h *Handler) publish(ctx context.Context, l *lexeme.Lexeme, rev uint64) {
	if err := h.publisher.PublishLexeme(ctx, l, rev); err != nil {
		h.logger.Warn("Failed to publish lexeme", "id", l.ID, "revision", rev, "error", err)
	}
}

func dataContext() validation.Context {
	return validation.Create(deserialization.ParamData)
}

// editEntity edits a lexeme, form or sense given by "id", or creates a
// lexeme when "id" is absent.
func (h *Handler) editEntity(ctx context.Context, p params) (any, error) {
	rawID, err := p.str("id", false)
	if err != nil {
		return nil, err
	}
	data, err := p.data()
	if err != nil {
		return nil, err
	}
	if rawID == "" {
		return h.createLexeme(ctx, data)
	}

	id, err := lexeme.ParseEntityID(rawID)
	if err != nil {
		return nil, validation.Create("id").Violation(validation.InvalidLexemeID{Given: rawID})
	}
	def, err := h.services.Definition(id.EntityType())
	if err != nil {
		return nil, validation.Create("id").Violation(validation.InvalidLexemeID{Given: rawID})
	}
	vc := dataContext()

	switch typed := id.(type) {
	case lexeme.FormID:
		l, rev, err := h.modify(ctx, typed.LexemeID(), p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
			edit, err := def.ChangeOpDeserializer(ctx, rawID, data, vc)
			if err != nil {
				return nil, err
			}
			return changeop.EditForm{ID: typed, Edit: changeop.ChangeOps{edit}, Context: validation.Create("id")}, nil
		})
		if err != nil {
			return nil, err
		}
		f, _ := l.Form(typed)
		return saved(rev, f), nil

	case lexeme.SenseID:
		l, rev, err := h.modify(ctx, typed.LexemeID(), p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
			edit, err := def.ChangeOpDeserializer(ctx, rawID, data, vc)
			if err != nil {
				return nil, err
			}
			return changeop.EditSense{ID: typed, Edit: changeop.ChangeOps{edit}, Context: validation.Create("id")}, nil
		})
		if err != nil {
			return nil, err
		}
		s, _ := l.Sense(typed)
		return saved(rev, s), nil

	default:
		lexemeID := id.(lexeme.LexemeID)
		l, rev, err := h.modify(ctx, lexemeID, p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
			return def.ChangeOpDeserializer(ctx, rawID, data, vc)
		})
		if err != nil {
			return nil, err
		}
		return saved(rev, l), nil
	}
}

// createLexeme allocates an id, applies the payload to an empty lexeme and
// stores it. Nothing is stored when the payload is rejected, but the
// allocated id is not reused.
func (h *Handler) createLexeme(ctx context.Context, data any) (any, error) {
	def, err := h.services.Definition(lexeme.EntityTypeLexeme)
	if err != nil {
		return nil, err
	}
	id, err := h.store.NextLexemeID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate lexeme id: %w", err)
	}

	op, err := def.ChangeOpDeserializer(ctx, string(id), data, dataContext())
	if err != nil {
		return nil, err
	}
	l := def.NewEntity().(*lexeme.Lexeme)
	l.ID = id
	if err := (changeop.ChangeOps{op}).Apply(l); err != nil {
		return nil, err
	}

	rev, err := h.store.CreateLexeme(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", id, err)
	}
	h.publish(ctx, l, rev)
	return saved(rev, l), nil
}

func (h *Handler) addForm(ctx context.Context, p params) (any, error) {
	id, err := p.lexemeID("lexemeId")
	if err != nil {
		return nil, err
	}
	data, err := p.data()
	if err != nil {
		return nil, err
	}

	var added lexeme.FormID
	l, rev, err := h.modify(ctx, id, p, func(l *lexeme.Lexeme) (changeop.ChangeOp, error) {
		added = lexeme.NewFormID(id, max(l.NextFormID, 1))
		edit, err := h.services.EditForm.Deserialize(ctx, data, dataContext())
		if err != nil {
			return nil, err
		}
		return changeop.AddForm{Edit: changeop.ChangeOps{edit}, Context: dataContext()}, nil
	})
	if err != nil {
		return nil, err
	}
	f, _ := l.Form(added)
	return saved(rev, f), nil
}

func (h *Handler) editFormElements(ctx context.Context, p params) (any, error) {
	id, err := p.formID("formId")
	if err != nil {
		return nil, err
	}
	data, err := p.data()
	if err != nil {
		return nil, err
	}

	l, rev, err := h.modify(ctx, id.LexemeID(), p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
		edit, err := h.services.EditForm.Deserialize(ctx, data, dataContext())
		if err != nil {
			return nil, err
		}
		return changeop.EditForm{ID: id, Edit: changeop.ChangeOps{edit}, Context: validation.Create("formId")}, nil
	})
	if err != nil {
		return nil, err
	}
	f, _ := l.Form(id)
	return saved(rev, f), nil
}

func (h *Handler) removeForm(ctx context.Context, p params) (any, error) {
	id, err := p.formID("id")
	if err != nil {
		return nil, err
	}
	_, rev, err := h.modify(ctx, id.LexemeID(), p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
		return changeop.RemoveForm{ID: id, Context: validation.Create("id")}, nil
	})
	if err != nil {
		return nil, err
	}
	return saved(rev, nil), nil
}

func (h *Handler) addSense(ctx context.Context, p params) (any, error) {
	id, err := p.lexemeID("lexemeId")
	if err != nil {
		return nil, err
	}
	data, err := p.data()
	if err != nil {
		return nil, err
	}

	var added lexeme.SenseID
	l, rev, err := h.modify(ctx, id, p, func(l *lexeme.Lexeme) (changeop.ChangeOp, error) {
		added = lexeme.NewSenseID(id, max(l.NextSenseID, 1))
		edit, err := h.services.EditSense.Deserialize(ctx, data, dataContext())
		if err != nil {
			return nil, err
		}
		return changeop.AddSense{Edit: changeop.ChangeOps{edit}, Context: dataContext()}, nil
	})
	if err != nil {
		return nil, err
	}
	s, _ := l.Sense(added)
	return saved(rev, s), nil
}

func (h *Handler) editSenseElements(ctx context.Context, p params) (any, error) {
	id, err := p.senseID("senseId")
	if err != nil {
		return nil, err
	}
	data, err := p.data()
	if err != nil {
		return nil, err
	}

	l, rev, err := h.modify(ctx, id.LexemeID(), p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
		edit, err := h.services.EditSense.Deserialize(ctx, data, dataContext())
		if err != nil {
			return nil, err
		}
		return changeop.EditSense{ID: id, Edit: changeop.ChangeOps{edit}, Context: validation.Create("senseId")}, nil
	})
	if err != nil {
		return nil, err
	}
	s, _ := l.Sense(id)
	return saved(rev, s), nil
}

func (h *Handler) removeSense(ctx context.Context, p params) (any, error) {
	id, err := p.senseID("id")
	if err != nil {
		return nil, err
	}
	_, rev, err := h.modify(ctx, id.LexemeID(), p, func(*lexeme.Lexeme) (changeop.ChangeOp, error) {
		return changeop.RemoveSense{ID: id, Context: validation.Create("id")}, nil
	})
	if err != nil {
		return nil, err
	}
	return saved(rev, nil), nil
}
