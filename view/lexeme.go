package view

import (
	"context"
	"html/template"
	"strings"

	"github.com/c360studio/semlex/lexeme"
)

// Options configures a LexemeView.
type Options struct {
	// Language is the interface language. Defaults to "en".
	Language string
	// LinkPrefix is prepended to entity ids in links.
	LinkPrefix string
	// Text overrides the default messages.
	Text TextProvider
}

// LexemeView renders a whole lexeme page.
type LexemeView struct {
	language string
	text     TextProvider
	links    *Linker
	forms    *FormsView
	senses   *SensesView
}

// NewLexemeView creates a view that resolves labels through labels.
func NewLexemeView(labels LabelLookup, opts Options) *LexemeView {
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Text == nil {
		opts.Text = NewMessageTextProvider(nil)
	}
	links := NewLinker(labels, opts.LinkPrefix)
	return &LexemeView{
		language: opts.Language,
		text:     opts.Text,
		links:    links,
		forms:    NewFormsView(opts.Text, links),
		senses:   NewSensesView(opts.Text, links, NewLanguageNamer(opts.Language)),
	}
}

// Render renders the main body: header, statements, senses, then forms.
func (v *LexemeView) Render(ctx context.Context, l *lexeme.Lexeme) (template.HTML, error) {
	senses, err := v.senses.Render(ctx, l)
	if err != nil {
		return "", err
	}
	forms, err := v.forms.Render(ctx, l)
	if err != nil {
		return "", err
	}

	slots := LexemeSlots{
		ID:                   string(l.ID),
		IDInParentheses:      v.text.Get("parentheses", string(l.ID)),
		UserLanguage:         v.language,
		UserDir:              Directionality(v.language),
		Lemmas:               termSlots(l.Lemmas, nil),
		LanguageLabel:        v.text.Get("wikibaselexeme-field-language-label"),
		Language:             v.links.Link(ctx, string(l.Language)),
		LexicalCategoryLabel: v.text.Get("wikibaselexeme-field-lexical-category-label"),
		LexicalCategory:      v.links.Link(ctx, string(l.LexicalCategory)),
		Statements:           statementsSlots(ctx, v.text, v.links, v.text.Get("wikibase-statementsection-statements"), l.Claims),
		Senses:               senses,
		Forms:                forms,
	}
	return render("lexeme", slots)
}

// Forms returns the forms view sharing this view's links and messages.
func (v *LexemeView) Forms() *FormsView { return v.forms }

// Senses returns the senses view sharing this view's links and messages.
func (v *LexemeView) Senses() *SensesView { return v.senses }

// Title renders the heading: all lemmas joined by a slash, followed by the id.
func (v *LexemeView) Title(l *lexeme.Lexeme) (template.HTML, error) {
	return render("title", v.titleSlots(l))
}

// PlainTitle returns the title as text.
func (v *LexemeView) PlainTitle(l *lexeme.Lexeme) string {
	slots := v.titleSlots(l)
	if slots.Empty {
		return slots.EmptyText + " " + slots.IDInParentheses
	}
	texts := make([]string, len(slots.Lemmas))
	for i, t := range slots.Lemmas {
		texts[i] = t.Text
	}
	return strings.Join(texts, slots.Separator) + " " + slots.IDInParentheses
}

func (v *LexemeView) titleSlots(l *lexeme.Lexeme) TitleSlots {
	lemmas := termSlots(l.Lemmas, nil)
	return TitleSlots{
		Empty:           len(lemmas) == 0,
		EmptyText:       v.text.Get("wikibase-label-empty"),
		Lemmas:          lemmas,
		Separator:       " / ",
		IDInParentheses: v.text.Get("parentheses", string(l.ID)),
	}
}

// Page renders a standalone HTML document.
func (v *LexemeView) Page(ctx context.Context, l *lexeme.Lexeme) (template.HTML, error) {
	title, err := v.Title(l)
	if err != nil {
		return "", err
	}
	main, err := v.Render(ctx, l)
	if err != nil {
		return "", err
	}
	return render("page", PageSlots{
		Language:  v.language,
		Dir:       Directionality(v.language),
		PlainText: v.PlainTitle(l),
		Title:     title,
		Main:      main,
	})
}
