package view

import (
	"context"
	"html/template"

	"github.com/c360studio/semlex/lexeme"
)

// FormsView renders the forms section of a lexeme.
type FormsView struct {
	text  TextProvider
	links *Linker
}

// NewFormsView creates a forms view.
func NewFormsView(text TextProvider, links *Linker) *FormsView {
	return &FormsView{text: text, links: links}
}

// Render renders all forms of l.
func (v *FormsView) Render(ctx context.Context, l *lexeme.Lexeme) (template.HTML, error) {
	slots := FormsSlots{Heading: v.text.Get("wikibaselexeme-header-forms")}
	for _, f := range l.Forms {
		slots.Forms = append(slots.Forms, v.formSlots(ctx, f))
	}
	return render("forms", slots)
}

// RenderForm renders a single form as a one-entry forms section.
func (v *FormsView) RenderForm(ctx context.Context, f *lexeme.Form) (template.HTML, error) {
	return render("forms", FormsSlots{
		Heading: v.text.Get("wikibaselexeme-header-forms"),
		Forms:   []FormSlots{v.formSlots(ctx, f)},
	})
}

func (v *FormsView) formSlots(ctx context.Context, f *lexeme.Form) FormSlots {
	features := make([]EntityLink, 0, len(f.GrammaticalFeatures))
	for _, id := range f.GrammaticalFeatures {
		features = append(features, v.links.Link(ctx, string(id)))
	}
	heading := v.text.Get("wikibaselexeme-statementsection-statements-about-form", string(f.ID))
	return FormSlots{
		ID:                  string(f.ID),
		Suffix:              f.ID.Suffix(),
		Representations:     termSlots(f.Representations, nil),
		EmptyText:           v.text.Get("wikibaselexeme-empty-form-representation"),
		FeaturesLabel:       v.text.Get("wikibaselexeme-form-grammatical-features"),
		GrammaticalFeatures: features,
		Statements:          statementsSlots(ctx, v.text, v.links, heading, f.Claims),
	}
}
