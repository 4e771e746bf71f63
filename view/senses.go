package view

import (
	"context"
	"html/template"

	"github.com/c360studio/semlex/lexeme"
)

// SensesView renders the senses section of a lexeme.
type SensesView struct {
	text  TextProvider
	links *Linker
	names *LanguageNamer
}

// NewSensesView creates a senses view.
func NewSensesView(text TextProvider, links *Linker, names *LanguageNamer) *SensesView {
	return &SensesView{text: text, links: links, names: names}
}

// Render renders all senses of l.
func (v *SensesView) Render(ctx context.Context, l *lexeme.Lexeme) (template.HTML, error) {
	slots := SensesSlots{Heading: v.text.Get("wikibaselexeme-header-senses")}
	for _, s := range l.Senses {
		slots.Senses = append(slots.Senses, v.senseSlots(ctx, s))
	}
	return render("senses", slots)
}

// RenderSense renders a single sense as a one-entry senses section.
func (v *SensesView) RenderSense(ctx context.Context, s *lexeme.Sense) (template.HTML, error) {
	return render("senses", SensesSlots{
		Heading: v.text.Get("wikibaselexeme-header-senses"),
		Senses:  []SenseSlots{v.senseSlots(ctx, s)},
	})
}

func (v *SensesView) senseSlots(ctx context.Context, s *lexeme.Sense) SenseSlots {
	heading := v.text.Get("wikibaselexeme-statementsection-statements-about-sense", string(s.ID))
	return SenseSlots{
		ID:         string(s.ID),
		Suffix:     s.ID.Suffix(),
		Glosses:    termSlots(s.Glosses, v.names),
		Statements: statementsSlots(ctx, v.text, v.links, heading, s.Claims),
	}
}
