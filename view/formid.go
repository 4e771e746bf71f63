package view

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"strings"

	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
)

// LexemeSource loads lexemes by id.
type LexemeSource interface {
	GetLexeme(ctx context.Context, id lexeme.LexemeID) (*lexeme.Lexeme, uint64, error)
}

// FormIDFormatter renders a form id as a link whose text is the form's
// representations and whose title lists its grammatical features.
type FormIDFormatter struct {
	lexemes LexemeSource
	labels  LabelLookup
	text    TextProvider
	prefix  string
	logger  *slog.Logger
}

// NewFormIDFormatter creates a formatter. Links point at prefix + lexeme id + "#" + form id.
func NewFormIDFormatter(lexemes LexemeSource, labels LabelLookup, text TextProvider, prefix string, logger *slog.Logger) *FormIDFormatter {
	if text == nil {
		text = NewMessageTextProvider(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FormIDFormatter{lexemes: lexemes, labels: labels, text: text, prefix: prefix, logger: logger}
}

// Format renders id. A form that cannot be found renders as a deleted form.
func (f *FormIDFormatter) Format(ctx context.Context, id lexeme.FormID) (template.HTML, error) {
	l, _, err := f.lexemes.GetLexeme(ctx, id.LexemeID())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			f.logger.Warn("Form lookup failed", "form", id, "error", err)
		}
		return f.deleted(id)
	}
	form, ok := l.Form(id)
	if !ok {
		return f.deleted(id)
	}

	texts := make([]string, 0, len(form.Representations))
	for _, t := range form.Representations.Sorted() {
		texts = append(texts, t.Text)
	}

	return render("form-link", FormLinkSlots{
		Href:  f.prefix + string(id.LexemeID()) + "#" + string(id),
		Title: f.linkTitle(ctx, form),
		Text:  strings.Join(texts, f.text.Get("wikibaselexeme-formidformatter-separator-multiple-representation")),
	})
}

func (f *FormIDFormatter) linkTitle(ctx context.Context, form *lexeme.Form) string {
	var labels []string
	for _, feature := range form.GrammaticalFeatures {
		if f.labels == nil {
			break
		}
		if label, ok := f.labels.Label(ctx, string(feature)); ok {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		return string(form.ID)
	}
	joined := strings.Join(labels, f.text.Get("wikibaselexeme-formidformatter-separator-grammatical-features"))
	return f.text.Get("wikibaselexeme-formidformatter-link-title", string(form.ID), joined)
}

func (f *FormIDFormatter) deleted(id lexeme.FormID) (template.HTML, error) {
	return render("deleted-entity", DeletedEntitySlots{
		ID:      string(id),
		Message: f.text.Get("wikibaselexeme-deletedentity-form"),
	})
}
