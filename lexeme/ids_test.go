package lexeme

import (
	"errors"
	"testing"
)

func TestParseEntityID(t *testing.T) {
	tests := []struct {
		input    string
		expected EntityType
		want     string
	}{
		{"Q42", EntityTypeItem, "Q42"},
		{"q42", EntityTypeItem, "Q42"},
		{"P31", EntityTypeProperty, "P31"},
		{"L1", EntityTypeLexeme, "L1"},
		{"L1-F2", EntityTypeForm, "L1-F2"},
		{"L10-S3", EntityTypeSense, "L10-S3"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			id, err := ParseEntityID(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.EntityType() != tc.expected {
				t.Errorf("expected type %s, got %s", tc.expected, id.EntityType())
			}
			if id.String() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, id.String())
			}
		})
	}
}

func TestParseEntityIDRejectsInvalid(t *testing.T) {
	invalidIDs := []string{"", "X1", "Q0", "Q01", "L1-F0", "L1-X1", "F1", "L1-F", "Q1 2"}

	for _, input := range invalidIDs {
		_, err := ParseEntityID(input)
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("expected ErrInvalidID for %q, got %v", input, err)
		}
	}
}

func TestTypedParsers(t *testing.T) {
	if _, err := ParseItemID("L1"); err == nil {
		t.Error("ParseItemID accepted a lexeme id")
	}
	if _, err := ParseFormID("L1-S1"); err == nil {
		t.Error("ParseFormID accepted a sense id")
	}
	if _, err := ParseSenseID("L1-F1"); err == nil {
		t.Error("ParseSenseID accepted a form id")
	}

	form, err := ParseFormID("L12-F3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if form.LexemeID() != "L12" || form.Suffix() != "F3" {
		t.Errorf("unexpected parts %s / %s", form.LexemeID(), form.Suffix())
	}

	sense := NewSenseID("L7", 4)
	if sense != "L7-S4" || sense.LexemeID() != "L7" {
		t.Errorf("unexpected sense id %s", sense)
	}
	if NewLexemeID(9).Number() != 9 {
		t.Error("lexeme number round trip failed")
	}
}
