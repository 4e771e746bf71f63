package view

import (
	"context"
	"errors"
	"log/slog"

	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
)

// LabelLookup resolves the display label of an item or property.
type LabelLookup interface {
	Label(ctx context.Context, id string) (string, bool)
}

// ItemSource loads item and property records.
type ItemSource interface {
	GetItem(ctx context.Context, id string) (*lexeme.Item, error)
}

// ItemLabelLookup resolves labels from stored items, trying the interface
// language first and then the fallback languages.
type ItemLabelLookup struct {
	items     ItemSource
	languages []string
	logger    *slog.Logger
}

// NewItemLabelLookup creates a lookup for the given interface language.
func NewItemLabelLookup(items ItemSource, language string, logger *slog.Logger) *ItemLabelLookup {
	if logger == nil {
		logger = slog.Default()
	}
	languages := []string{language}
	for _, fallback := range []string{"en", "mul"} {
		if fallback != language {
			languages = append(languages, fallback)
		}
	}
	return &ItemLabelLookup{items: items, languages: languages, logger: logger}
}

// Label implements LabelLookup. Missing items and lookup failures yield no label.
func (l *ItemLabelLookup) Label(ctx context.Context, id string) (string, bool) {
	item, err := l.items.GetItem(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Warn("Label lookup failed", "id", id, "error", err)
		}
		return "", false
	}
	for _, lang := range l.languages {
		if t, ok := item.Labels.Get(lang); ok {
			return t.Text, true
		}
	}
	return "", false
}

// Linker builds links to entities.
type Linker struct {
	labels LabelLookup
	prefix string
}

// NewLinker creates a linker. Links point at prefix + id.
func NewLinker(labels LabelLookup, prefix string) *Linker {
	return &Linker{labels: labels, prefix: prefix}
}

// Link returns the link slot for id. An empty id gives an empty slot.
func (k *Linker) Link(ctx context.Context, id string) EntityLink {
	if id == "" {
		return EntityLink{}
	}
	link := EntityLink{ID: id, Href: k.prefix + id}
	if k.labels != nil {
		link.Label, _ = k.labels.Label(ctx, id)
	}
	return link
}
