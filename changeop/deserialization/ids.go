package deserialization

import (
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

// FormIDDeserializer reads a form id.
type FormIDDeserializer struct{}

// Deserialize parses s as a form id.
func (FormIDDeserializer) Deserialize(value any, vc validation.Context) (lexeme.FormID, error) {
	s, err := asString(value, vc)
	if err != nil {
		return "", err
	}
	id, err := lexeme.ParseEntityID(s)
	if err != nil {
		return "", vc.Violation(validation.InvalidFormID{Given: s})
	}
	formID, ok := id.(lexeme.FormID)
	if !ok {
		return "", vc.Violation(validation.InvalidFormID{Given: s})
	}
	return formID, nil
}

// SenseIDDeserializer reads a sense id.
type SenseIDDeserializer struct{}

// Deserialize parses s as a sense id.
func (SenseIDDeserializer) Deserialize(value any, vc validation.Context) (lexeme.SenseID, error) {
	s, err := asString(value, vc)
	if err != nil {
		return "", err
	}
	id, err := lexeme.ParseEntityID(s)
	if err != nil {
		return "", vc.Violation(validation.InvalidSenseID{Given: s})
	}
	senseID, ok := id.(lexeme.SenseID)
	if !ok {
		return "", vc.Violation(validation.InvalidSenseID{Given: s})
	}
	return senseID, nil
}
