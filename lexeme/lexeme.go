package lexeme

import (
	"errors"
	"fmt"
	"sort"
)

// ErrLexemeWithoutID is returned when a sub-entity is added to a lexeme that has no id yet.
var ErrLexemeWithoutID = errors.New("lexeme has no id")

// Entity is anything a change operation can be applied to.
type Entity interface {
	EntityType() EntityType
	// EntityID returns the serialized id, or "" for an entity that has none yet.
	EntityID() string
	// Clone returns a deep copy.
	Clone() Entity
	// Overwrite replaces the receiver's state with src, which must have the
	// receiver's concrete type.
	Overwrite(src Entity)
}

// StatementHolder is an entity that carries statements.
type StatementHolder interface {
	Entity
	Statements() *StatementList
}

// Lexeme is a lexical entry: a word or phrase with its forms and senses.
type Lexeme struct {
	ID              LexemeID      `json:"id,omitempty"`
	Lemmas          TermList      `json:"lemmas"`
	Language        ItemID        `json:"language,omitempty"`
	LexicalCategory ItemID        `json:"lexicalCategory,omitempty"`
	Claims          StatementList `json:"claims"`
	Forms           []*Form       `json:"forms"`
	Senses          []*Sense      `json:"senses"`
	NextFormID      int           `json:"nextFormId"`
	NextSenseID     int           `json:"nextSenseId"`
}

// NewLexeme returns an empty lexeme with the given id.
func NewLexeme(id LexemeID) *Lexeme {
	return &Lexeme{
		ID:          id,
		Lemmas:      TermList{},
		NextFormID:  1,
		NextSenseID: 1,
	}
}

func (l *Lexeme) EntityType() EntityType     { return EntityTypeLexeme }
func (l *Lexeme) EntityID() string           { return string(l.ID) }
func (l *Lexeme) Statements() *StatementList { return &l.Claims }

// Clone returns a deep copy of the lexeme.
func (l *Lexeme) Clone() Entity {
	c := &Lexeme{
		ID:              l.ID,
		Lemmas:          l.Lemmas.Clone(),
		Language:        l.Language,
		LexicalCategory: l.LexicalCategory,
		Claims:          l.Claims.Clone(),
		NextFormID:      l.NextFormID,
		NextSenseID:     l.NextSenseID,
	}
	for _, f := range l.Forms {
		c.Forms = append(c.Forms, f.Clone().(*Form))
	}
	for _, s := range l.Senses {
		c.Senses = append(c.Senses, s.Clone().(*Sense))
	}
	return c
}

// Overwrite implements Entity.
func (l *Lexeme) Overwrite(src Entity) {
	*l = *mustBe[*Lexeme](src)
}

// Form returns the form with the given id.
func (l *Lexeme) Form(id FormID) (*Form, bool) {
	for _, f := range l.Forms {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Sense returns the sense with the given id.
func (l *Lexeme) Sense(id SenseID) (*Sense, bool) {
	for _, s := range l.Senses {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// NewForm allocates the next form id and returns a blank form carrying it.
// The form is not attached; use AttachForm once it is complete.
func (l *Lexeme) NewForm() (*Form, error) {
	if l.ID == "" {
		return nil, ErrLexemeWithoutID
	}
	if l.NextFormID < 1 {
		l.NextFormID = 1
	}
	f := BlankForm()
	f.ID = NewFormID(l.ID, l.NextFormID)
	l.NextFormID++
	return f, nil
}

// AttachForm appends a form created by NewForm.
func (l *Lexeme) AttachForm(f *Form) {
	l.Forms = append(l.Forms, f)
}

// RemoveForm removes a form and reports whether it existed. Ids are never reused.
func (l *Lexeme) RemoveForm(id FormID) bool {
	for i, f := range l.Forms {
		if f.ID == id {
			l.Forms = append(l.Forms[:i], l.Forms[i+1:]...)
			return true
		}
	}
	return false
}

// NewSense allocates the next sense id and returns a blank sense carrying it.
func (l *Lexeme) NewSense() (*Sense, error) {
	if l.ID == "" {
		return nil, ErrLexemeWithoutID
	}
	if l.NextSenseID < 1 {
		l.NextSenseID = 1
	}
	s := BlankSense()
	s.ID = NewSenseID(l.ID, l.NextSenseID)
	l.NextSenseID++
	return s, nil
}

// AttachSense appends a sense created by NewSense.
func (l *Lexeme) AttachSense(s *Sense) {
	l.Senses = append(l.Senses, s)
}

// RemoveSense removes a sense and reports whether it existed.
func (l *Lexeme) RemoveSense(id SenseID) bool {
	for i, s := range l.Senses {
		if s.ID == id {
			l.Senses = append(l.Senses[:i], l.Senses[i+1:]...)
			return true
		}
	}
	return false
}

// Form is one inflected shape of a lexeme.
type Form struct {
	ID                  FormID        `json:"id"`
	Representations     TermList      `json:"representations"`
	GrammaticalFeatures []ItemID      `json:"grammaticalFeatures"`
	Claims              StatementList `json:"claims"`
}

// BlankForm returns a form without id, representations or features.
func BlankForm() *Form {
	return &Form{Representations: TermList{}, GrammaticalFeatures: []ItemID{}}
}

func (f *Form) EntityType() EntityType     { return EntityTypeForm }
func (f *Form) EntityID() string           { return string(f.ID) }
func (f *Form) Statements() *StatementList { return &f.Claims }

// Clone returns a deep copy of the form.
func (f *Form) Clone() Entity {
	return &Form{
		ID:                  f.ID,
		Representations:     f.Representations.Clone(),
		GrammaticalFeatures: append([]ItemID{}, f.GrammaticalFeatures...),
		Claims:              f.Claims.Clone(),
	}
}

// Overwrite implements Entity.
func (f *Form) Overwrite(src Entity) {
	*f = *mustBe[*Form](src)
}

// SetGrammaticalFeatures replaces the features, sorted and without duplicates.
func (f *Form) SetGrammaticalFeatures(features []ItemID) {
	seen := make(map[ItemID]bool, len(features))
	out := make([]ItemID, 0, len(features))
	for _, id := range features {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	f.GrammaticalFeatures = out
}

// Sense is one meaning of a lexeme.
type Sense struct {
	ID      SenseID       `json:"id"`
	Glosses TermList      `json:"glosses"`
	Claims  StatementList `json:"claims"`
}

// BlankSense returns a sense without id or glosses.
func BlankSense() *Sense {
	return &Sense{Glosses: TermList{}}
}

func (s *Sense) EntityType() EntityType     { return EntityTypeSense }
func (s *Sense) EntityID() string           { return string(s.ID) }
func (s *Sense) Statements() *StatementList { return &s.Claims }

// Clone returns a deep copy of the sense.
func (s *Sense) Clone() Entity {
	return &Sense{
		ID:      s.ID,
		Glosses: s.Glosses.Clone(),
		Claims:  s.Claims.Clone(),
	}
}

// Overwrite implements Entity.
func (s *Sense) Overwrite(src Entity) {
	*s = *mustBe[*Sense](src)
}

// Item is a labelled item or property that lexemes refer to.
type Item struct {
	ID     string   `json:"id"`
	Labels TermList `json:"labels"`
}

// Type reports whether the record is an item or a property.
func (i *Item) Type() (EntityType, error) {
	id, err := ParseEntityID(i.ID)
	if err != nil {
		return "", err
	}
	switch t := id.EntityType(); t {
	case EntityTypeItem, EntityTypeProperty:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %s is a %s", ErrInvalidID, i.ID, t)
	}
}

func mustBe[T Entity](src Entity) T {
	v, ok := src.(T)
	if !ok {
		panic(fmt.Sprintf("lexeme: cannot overwrite with %T", src))
	}
	return v
}
