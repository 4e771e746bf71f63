package view

import (
	"context"

	"github.com/c360studio/semlex/lexeme"
)

// statementsSlots renders the statements of one holder. Deprecated
// statements are shown with their rank class like any other.
func statementsSlots(ctx context.Context, text TextProvider, links *Linker, heading string, list lexeme.StatementList) StatementsSlots {
	slots := StatementsSlots{Heading: heading}
	for _, s := range list {
		slot := StatementSlot{
			GUID:     s.GUID,
			Rank:     string(s.Rank),
			Property: links.Link(ctx, string(s.MainSnak.Property)),
		}
		switch s.MainSnak.SnakType {
		case lexeme.SnakNoValue:
			slot.Value = text.Get("wikibase-snakview-variations-novalue-label")
		case lexeme.SnakSomeValue:
			slot.Value = text.Get("wikibase-snakview-variations-somevalue-label")
		default:
			if id, ok := s.MainSnak.DataValue.EntityID(); ok {
				link := links.Link(ctx, id)
				slot.ValueLink = &link
			} else if str, ok := s.MainSnak.DataValue.String(); ok {
				slot.Value = str
			} else if s.MainSnak.DataValue != nil {
				slot.Value = s.MainSnak.DataValue.Type
			}
		}
		slots.Statements = append(slots.Statements, slot)
	}
	return slots
}

func termSlots(terms lexeme.TermList, names *LanguageNamer) []TermSlot {
	sorted := terms.Sorted()
	slots := make([]TermSlot, 0, len(sorted))
	for _, t := range sorted {
		slot := TermSlot{Language: t.Language, Text: t.Text, Dir: Directionality(t.Language)}
		if names != nil {
			slot.LanguageName = names.Name(t.Language)
		}
		slots = append(slots, slot)
	}
	return slots
}
