package validation

import "strconv"

// Kind groups API errors by how a client should react to them.
type Kind int

const (
	// KindShape means the payload is not structured as expected.
	KindShape Kind = iota
	// KindValidation means a value is well-formed but not acceptable.
	KindValidation
	// KindReference means a referenced entity or sub-entity does not exist.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindValidation:
		return "validation"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// APIError describes one failure independent of where it happened.
type APIError interface {
	Code() string
	MessageKey() string
	// Params returns the error-specific message parameters.
	Params() []string
	Kind() Kind
}

const (
	codeBadRequest    = "bad-request"
	codeUnprocessable = "unprocessable-request"
	codeNotFound      = "not-found"
)

// JSONFieldIsRequired reports a missing field.
type JSONFieldIsRequired struct{ Field string }

func (JSONFieldIsRequired) Code() string { return codeBadRequest }
func (JSONFieldIsRequired) MessageKey() string {
	return "apierror-wikibaselexeme-json-field-required"
}
func (e JSONFieldIsRequired) Params() []string { return []string{e.Field} }
func (JSONFieldIsRequired) Kind() Kind         { return KindShape }

// JSONFieldHasWrongType reports a value of an unexpected JSON type.
type JSONFieldHasWrongType struct{ Expected, Given string }

func (JSONFieldHasWrongType) Code() string { return codeBadRequest }
func (JSONFieldHasWrongType) MessageKey() string {
	return "apierror-wikibaselexeme-json-field-has-wrong-type"
}
func (e JSONFieldHasWrongType) Params() []string { return []string{e.Expected, e.Given} }
func (JSONFieldHasWrongType) Kind() Kind         { return KindShape }

// LexemeTermLanguageCanNotBeEmpty reports a term whose language is empty.
type LexemeTermLanguageCanNotBeEmpty struct{}

func (LexemeTermLanguageCanNotBeEmpty) Code() string { return codeUnprocessable }
func (LexemeTermLanguageCanNotBeEmpty) MessageKey() string {
	return "apierror-wikibaselexeme-lexeme-term-language-cannot-be-empty"
}
func (LexemeTermLanguageCanNotBeEmpty) Params() []string { return nil }
func (LexemeTermLanguageCanNotBeEmpty) Kind() Kind       { return KindShape }

// InconsistentLanguage reports a term keyed under a different language than it declares.
type InconsistentLanguage struct{ Expected, Given string }

func (InconsistentLanguage) Code() string { return "inconsistent-language" }
func (InconsistentLanguage) MessageKey() string {
	return "apierror-wikibaselexeme-language-inconsistent"
}
func (e InconsistentLanguage) Params() []string { return []string{e.Expected, e.Given} }
func (InconsistentLanguage) Kind() Kind         { return KindValidation }

// UnknownLanguage reports a language code outside the configured term languages.
type UnknownLanguage struct{ Given string }

func (UnknownLanguage) Code() string { return "not-recognized-language" }
func (UnknownLanguage) MessageKey() string {
	return "apierror-wikibaselexeme-unknown-language"
}
func (e UnknownLanguage) Params() []string { return []string{e.Given} }
func (UnknownLanguage) Kind() Kind         { return KindValidation }

// TermTooLong reports a term text longer than the configured limit.
type TermTooLong struct {
	Max      int
	Language string
}

func (TermTooLong) Code() string { return "term-too-long" }
func (TermTooLong) MessageKey() string {
	return "wikibaselexeme-lexeme-term-too-long"
}
func (e TermTooLong) Params() []string {
	return []string{strconv.Itoa(e.Max), e.Language}
}
func (TermTooLong) Kind() Kind { return KindValidation }

// InvalidItemID reports a string that is not an item id.
type InvalidItemID struct{ Given string }

func (InvalidItemID) Code() string { return codeBadRequest }
func (InvalidItemID) MessageKey() string {
	return "apierror-wikibaselexeme-parameter-not-item-id"
}
func (e InvalidItemID) Params() []string { return []string{e.Given} }
func (InvalidItemID) Kind() Kind         { return KindShape }

// InvalidPropertyID reports a string that is not a property id.
type InvalidPropertyID struct{ Given string }

func (InvalidPropertyID) Code() string { return codeBadRequest }
func (InvalidPropertyID) MessageKey() string {
	return "apierror-wikibaselexeme-parameter-not-property-id"
}
func (e InvalidPropertyID) Params() []string { return []string{e.Given} }
func (InvalidPropertyID) Kind() Kind         { return KindShape }

// InvalidLexemeID reports a string that is not a lexeme id.
type InvalidLexemeID struct{ Given string }

func (InvalidLexemeID) Code() string { return codeBadRequest }
func (InvalidLexemeID) MessageKey() string {
	return "apierror-wikibaselexeme-parameter-not-lexeme-id"
}
func (e InvalidLexemeID) Params() []string { return []string{e.Given} }
func (InvalidLexemeID) Kind() Kind         { return KindShape }

// InvalidFormID reports a string that is not a form id.
type InvalidFormID struct{ Given string }

func (InvalidFormID) Code() string { return codeBadRequest }
func (InvalidFormID) MessageKey() string {
	return "apierror-wikibaselexeme-parameter-not-form-id"
}
func (e InvalidFormID) Params() []string { return []string{e.Given} }
func (InvalidFormID) Kind() Kind         { return KindShape }

// InvalidSenseID reports a string that is not a sense id.
type InvalidSenseID struct{ Given string }

func (InvalidSenseID) Code() string { return codeBadRequest }
func (InvalidSenseID) MessageKey() string {
	return "apierror-wikibaselexeme-parameter-not-sense-id"
}
func (e InvalidSenseID) Params() []string { return []string{e.Given} }
func (InvalidSenseID) Kind() Kind         { return KindShape }

// EntityNotFound reports a reference to an entity that does not exist.
type EntityNotFound struct{ ID string }

func (EntityNotFound) Code() string { return codeNotFound }
func (EntityNotFound) MessageKey() string {
	return "apierror-wikibaselexeme-entity-not-found"
}
func (e EntityNotFound) Params() []string { return []string{e.ID} }
func (EntityNotFound) Kind() Kind         { return KindReference }

// InvalidLexemeField reports a sub-entity id that belongs to another lexeme.
type InvalidLexemeField struct {
	ID     string
	Lexeme string
}

func (InvalidLexemeField) Code() string { return "invalid-lexeme-field" }
func (InvalidLexemeField) MessageKey() string {
	return "apierror-wikibaselexeme-sub-entity-not-of-lexeme"
}
func (e InvalidLexemeField) Params() []string { return []string{e.ID, e.Lexeme} }
func (InvalidLexemeField) Kind() Kind         { return KindReference }

// FormNotFound reports an edit or removal of a form the lexeme does not have.
type FormNotFound struct{ ID string }

func (FormNotFound) Code() string { return codeNotFound }
func (FormNotFound) MessageKey() string {
	return "apierror-wikibaselexeme-form-not-found"
}
func (e FormNotFound) Params() []string { return []string{e.ID} }
func (FormNotFound) Kind() Kind         { return KindReference }

// SenseNotFound reports an edit or removal of a sense the lexeme does not have.
type SenseNotFound struct{ ID string }

func (SenseNotFound) Code() string { return codeNotFound }
func (SenseNotFound) MessageKey() string {
	return "apierror-wikibaselexeme-sense-not-found"
}
func (e SenseNotFound) Params() []string { return []string{e.ID} }
func (SenseNotFound) Kind() Kind         { return KindReference }

// GlossesMustNotBeEmpty reports a sense left without any gloss.
type GlossesMustNotBeEmpty struct{}

func (GlossesMustNotBeEmpty) Code() string { return codeUnprocessable }
func (GlossesMustNotBeEmpty) MessageKey() string {
	return "apierror-wikibaselexeme-sense-must-have-at-least-one-gloss"
}
func (GlossesMustNotBeEmpty) Params() []string { return nil }
func (GlossesMustNotBeEmpty) Kind() Kind       { return KindValidation }

// FormMustHaveRepresentation reports a form left without any representation.
type FormMustHaveRepresentation struct{}

func (FormMustHaveRepresentation) Code() string { return codeUnprocessable }
func (FormMustHaveRepresentation) MessageKey() string {
	return "apierror-wikibaselexeme-form-must-have-at-least-one-representation"
}
func (FormMustHaveRepresentation) Params() []string { return nil }
func (FormMustHaveRepresentation) Kind() Kind       { return KindValidation }

// InvalidStatement reports a statement that cannot be applied.
type InvalidStatement struct{ Reason string }

func (InvalidStatement) Code() string { return "invalid-claim" }
func (InvalidStatement) MessageKey() string {
	return "apierror-wikibaselexeme-invalid-statement"
}
func (e InvalidStatement) Params() []string { return []string{e.Reason} }
func (InvalidStatement) Kind() Kind         { return KindValidation }

// StatementNotFound reports a removal of a statement the entity does not have.
type StatementNotFound struct{ GUID string }

func (StatementNotFound) Code() string { return "no-such-claim" }
func (StatementNotFound) MessageKey() string {
	return "apierror-wikibaselexeme-statement-not-found"
}
func (e StatementNotFound) Params() []string { return []string{e.GUID} }
func (StatementNotFound) Kind() Kind         { return KindReference }
