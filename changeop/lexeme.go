package changeop

import (
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// SetLanguage sets the language item of a lexeme.
type SetLanguage struct {
	Language lexeme.ItemID
}

// Apply implements ChangeOp.
func (op SetLanguage) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "set language")
	if err != nil {
		return err
	}
	l.Language = op.Language
	return nil
}

// SetLexicalCategory sets the lexical category item of a lexeme.
type SetLexicalCategory struct {
	LexicalCategory lexeme.ItemID
}

// Apply implements ChangeOp.
func (op SetLexicalCategory) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "set lexical category")
	if err != nil {
		return err
	}
	l.LexicalCategory = op.LexicalCategory
	return nil
}

// AddForm creates a form with a freshly allocated id and applies Edit to it.
// Applying the same operation twice adds two forms.
type AddForm struct {
	Edit    ChangeOps
	Context validation.Context
}

// Apply implements ChangeOp.
func (op AddForm) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "add form")
	if err != nil {
		return err
	}
	work := l.Clone().(*lexeme.Lexeme)
	f, err := work.NewForm()
	if err != nil {
		return err
	}
	if err := op.Edit.Apply(f); err != nil {
		return err
	}
	if len(f.Representations) == 0 {
		return op.Context.Violation(validation.FormMustHaveRepresentation{})
	}
	work.AttachForm(f)
	l.Overwrite(work)
	return nil
}

// EditForm applies Edit to an existing form of the lexeme.
type EditForm struct {
	ID      lexeme.FormID
	Edit    ChangeOps
	Context validation.Context
}

// Apply implements ChangeOp.
func (op EditForm) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "edit form")
	if err != nil {
		return err
	}
	f, ok := l.Form(op.ID)
	if !ok {
		return op.Context.Violation(validation.FormNotFound{ID: string(op.ID)})
	}
	return op.Edit.Apply(f)
}

// RemoveForm removes a form from the lexeme.
type RemoveForm struct {
	ID      lexeme.FormID
	Context validation.Context
}

// Apply implements ChangeOp.
func (op RemoveForm) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "remove form")
	if err != nil {
		return err
	}
	if !l.RemoveForm(op.ID) {
		return op.Context.Violation(validation.FormNotFound{ID: string(op.ID)})
	}
	return nil
}

// AddSense creates a sense with a freshly allocated id and applies Edit to it.
type AddSense struct {
	Edit    ChangeOps
	Context validation.Context
}

// Apply implements ChangeOp.
func (op AddSense) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "add sense")
	if err != nil {
		return err
	}
	work := l.Clone().(*lexeme.Lexeme)
	s, err := work.NewSense()
	if err != nil {
		return err
	}
	if err := op.Edit.Apply(s); err != nil {
		return err
	}
	if len(s.Glosses) == 0 {
		return op.Context.Violation(validation.GlossesMustNotBeEmpty{})
	}
	work.AttachSense(s)
	l.Overwrite(work)
	return nil
}

// EditSense applies Edit to an existing sense of the lexeme.
type EditSense struct {
	ID      lexeme.SenseID
	Edit    ChangeOps
	Context validation.Context
}

// Apply implements ChangeOp.
func (op EditSense) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "edit sense")
	if err != nil {
		return err
	}
	s, ok := l.Sense(op.ID)
	if !ok {
		return op.Context.Violation(validation.SenseNotFound{ID: string(op.ID)})
	}
	return op.Edit.Apply(s)
}

// RemoveSense removes a sense from the lexeme.
type RemoveSense struct {
	ID      lexeme.SenseID
	Context validation.Context
}

// Apply implements ChangeOp.
func (op RemoveSense) Apply(entity lexeme.Entity) error {
	l, err := asLexeme(entity, "remove sense")
	if err != nil {
		return err
	}
	if !l.RemoveSense(op.ID) {
		return op.Context.Violation(validation.SenseNotFound{ID: string(op.ID)})
	}
	return nil
}

// SetGrammaticalFeatures replaces the grammatical features of a form.
type SetGrammaticalFeatures struct {
	Features []lexeme.ItemID
}

// Apply implements ChangeOp.
func (op SetGrammaticalFeatures) Apply(entity lexeme.Entity) error {
	f, err := asForm(entity, "set grammatical features")
	if err != nil {
		return err
	}
	f.SetGrammaticalFeatures(op.Features)
	return nil
}
