// Package entityschema handles the content of EntitySchema pages: a JSON
// document holding multilingual labels, descriptions and aliases next to a
// ShExC schema text.
package entityschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ContentModelID identifies EntitySchema page content.
const ContentModelID = "EntitySchema"

// ErrInvalidContent is returned when the page text is not a schema document.
var ErrInvalidContent = errors.New("invalid entity schema content")

// document is the persisted form of a schema page.
type document struct {
	ID                   string              `json:"id,omitempty"`
	SerializationVersion string              `json:"serializationVersion,omitempty"`
	Labels               map[string]string   `json:"labels,omitempty"`
	Descriptions         map[string]string   `json:"descriptions,omitempty"`
	Aliases              map[string][]string `json:"aliases,omitempty"`
	SchemaText           string              `json:"schemaText,omitempty"`
	Type                 string              `json:"type,omitempty"`
}

// NameBadge holds the label, description and aliases in one language.
type NameBadge struct {
	Language    string   `json:"language"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Aliases     []string `json:"aliases"`
}

// FullViewData is everything needed to show a schema page.
type FullViewData struct {
	ID         string      `json:"id,omitempty"`
	NameBadges []NameBadge `json:"nameBadges"`
	SchemaText string      `json:"schemaText"`
}

// Content is the raw text of a schema page.
type Content struct {
	text string
}

// NewContent wraps page text.
func NewContent(text string) *Content {
	return &Content{text: text}
}

// Text returns the raw page text.
func (c *Content) Text() string {
	return c.text
}

// IsValid reports whether the text is a JSON object.
func (c *Content) IsValid() bool {
	_, err := c.decode()
	return err == nil
}

func (c *Content) decode() (*document, error) {
	if strings.TrimSpace(c.text) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidContent)
	}
	var doc document
	if err := json.Unmarshal([]byte(c.text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return &doc, nil
}

// FullViewData returns the name badges for the given languages first, in
// that order, followed by every other language the schema has terms in.
func (c *Content) FullViewData(languages []string) (*FullViewData, error) {
	doc, err := c.decode()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var order []string
	for _, lang := range languages {
		if !seen[lang] {
			seen[lang] = true
			order = append(order, lang)
		}
	}

	var rest []string
	collect := func(lang string) {
		if !seen[lang] {
			seen[lang] = true
			rest = append(rest, lang)
		}
	}
	for lang := range doc.Labels {
		collect(lang)
	}
	for lang := range doc.Descriptions {
		collect(lang)
	}
	for lang := range doc.Aliases {
		collect(lang)
	}
	sort.Strings(rest)

	data := &FullViewData{ID: doc.ID, SchemaText: doc.SchemaText}
	for _, lang := range append(order, rest...) {
		aliases := doc.Aliases[lang]
		if aliases == nil {
			aliases = []string{}
		}
		data.NameBadges = append(data.NameBadges, NameBadge{
			Language:    lang,
			Label:       doc.Labels[lang],
			Description: doc.Descriptions[lang],
			Aliases:     aliases,
		})
	}
	return data, nil
}

// SearchIndexText returns the text to index: for each language, the label,
// description and comma-separated aliases on their own lines, then the
// schema text.
func (c *Content) SearchIndexText() (string, error) {
	data, err := c.FullViewData(nil)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, badge := range data.NameBadges {
		if badge.Label != "" {
			sb.WriteString(badge.Label + "\n")
		}
		if badge.Description != "" {
			sb.WriteString(badge.Description + "\n")
		}
		if len(badge.Aliases) > 0 {
			sb.WriteString(strings.Join(badge.Aliases, ", ") + "\n")
		}
	}
	sb.WriteString(data.SchemaText)
	return sb.String(), nil
}
