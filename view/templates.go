package view

import (
	"bytes"
	"fmt"
	"html/template"
)

// EntityLink is a link to an entity, shown by label or by id.
type EntityLink struct {
	ID    string
	Label string
	Href  string
}

// TermSlot is one language-tagged term.
type TermSlot struct {
	Language     string
	LanguageName string
	Text         string
	Dir          string
}

// StatementSlot is one rendered statement.
type StatementSlot struct {
	GUID      string
	Rank      string
	Property  EntityLink
	Value     string
	ValueLink *EntityLink
}

// StatementsSlots is a statement section.
type StatementsSlots struct {
	Heading    string
	Statements []StatementSlot
}

// TitleSlots is the page title.
type TitleSlots struct {
	Empty           bool
	EmptyText       string
	Lemmas          []TermSlot
	Separator       string
	IDInParentheses string
}

// LexemeSlots is the main lexeme body.
type LexemeSlots struct {
	ID                   string
	IDInParentheses      string
	UserLanguage         string
	UserDir              string
	Lemmas               []TermSlot
	LanguageLabel        string
	Language             EntityLink
	LexicalCategoryLabel string
	LexicalCategory      EntityLink
	Statements           StatementsSlots
	Senses               template.HTML
	Forms                template.HTML
}

// FormSlots is one form.
type FormSlots struct {
	ID                  string
	Suffix              string
	Representations     []TermSlot
	EmptyText           string
	FeaturesLabel       string
	GrammaticalFeatures []EntityLink
	Statements          StatementsSlots
}

// FormsSlots is the forms section.
type FormsSlots struct {
	Heading string
	Forms   []FormSlots
}

// SenseSlots is one sense.
type SenseSlots struct {
	ID         string
	Suffix     string
	Glosses    []TermSlot
	Statements StatementsSlots
}

// SensesSlots is the senses section.
type SensesSlots struct {
	Heading string
	Senses  []SenseSlots
}

// FormLinkSlots is a link to a single form.
type FormLinkSlots struct {
	Href  string
	Title string
	Text  string
}

// DeletedEntitySlots marks a reference to an entity that no longer exists.
type DeletedEntitySlots struct {
	ID      string
	Message string
}

// PageSlots is a standalone HTML document.
type PageSlots struct {
	Language  string
	Dir       string
	PlainText string
	Title     template.HTML
	Main      template.HTML
}

const templateSource = `
{{define "entity-link"}}{{if .ID}}<a href="{{.Href}}" title="{{.ID}}">{{if .Label}}{{.Label}}{{else}}{{.ID}}{{end}}</a>{{end}}{{end}}

{{define "deleted-entity"}}{{.ID}} <span class="wb-entity-undefinedinfo">({{.Message}})</span>{{end}}

{{define "form-link"}}<a href="{{.Href}}" title="{{.Title}}">{{.Text}}</a>{{end}}

{{define "title"}}<h1 class="wb-title{{if .Empty}} wb-empty{{end}}">
<span class="wikibase-title-label">{{if .Empty}}{{.EmptyText}}{{else}}{{range $i, $l := .Lemmas}}{{if $i}}{{$.Separator}}{{end}}<span class="mw-lexeme-lemma" lang="{{$l.Language}}" dir="{{$l.Dir}}">{{$l.Text}}</span>{{end}}{{end}}</span>
<span class="wikibase-title-id">{{.IDInParentheses}}</span>
</h1>{{end}}

{{define "statements"}}<div class="wikibase-statementgrouplistview">
<h2 class="wb-section-heading section-heading wikibase-statements" dir="auto"><span class="mw-headline">{{.Heading}}</span></h2>
{{if .Statements}}<ul class="wikibase-statementlistview">
{{range .Statements}}<li class="wikibase-statementview wb-{{.Rank}}" id="{{.GUID}}"><span class="wikibase-statementview-property">{{template "entity-link" .Property}}</span>: <span class="wikibase-snakview-value">{{if .ValueLink}}{{template "entity-link" .ValueLink}}{{else}}{{.Value}}{{end}}</span></li>
{{end}}</ul>{{end}}
</div>{{end}}

{{define "lexeme"}}<div class="wikibase-entityview wb-lexeme" id="wb-lexeme-{{.ID}}" lang="{{.UserLanguage}}" dir="{{.UserDir}}">
<div id="wb-lexeme-header" class="wb-lexeme-header">
<div id="wb-lexeme-header-lemmas">
<div class="wb-lexeme-header_id">{{.IDInParentheses}}</div>
<div class="wb-lexeme-header_lemma-widget"><div id="lemmas-widget"><div class="lemma-widget">
<ul class="lemma-widget_lemma-list">
{{range .Lemmas}}<li class="lemma-widget_lemma"><span class="lemma-widget_lemma-value" lang="{{.Language}}" dir="{{.Dir}}">{{.Text}}</span> <span class="lemma-widget_lemma-language">{{.Language}}</span></li>
{{end}}</ul>
</div></div></div>
</div>
<div class="language-lexical-category-widget">
<div><span>{{.LanguageLabel}}</span> <span class="language-lexical-category-widget_language">{{template "entity-link" .Language}}</span></div>
<div><span>{{.LexicalCategoryLabel}}</span> <span class="language-lexical-category-widget_lexical-category">{{template "entity-link" .LexicalCategory}}</span></div>
</div>
</div>
{{template "statements" .Statements}}
{{.Senses}}
{{.Forms}}
</div>{{end}}

{{define "senses"}}<div class="wikibase-lexeme-senses-section">
<h2 class="wb-section-heading section-heading"><span class="mw-headline" id="senses">{{.Heading}}</span></h2>
<div class="wikibase-lexeme-senses">
{{range .Senses}}<div class="wikibase-lexeme-sense" id="{{.ID}}">
<div class="wikibase-lexeme-sense-header">
<div class="wikibase-lexeme-sense-id wikibase-title-id">{{.Suffix}}</div>
<div class="wikibase-lexeme-sense-glosses"><table class="wikibase-lexeme-sense-glosses-table"><tbody>
{{range .Glosses}}<tr class="wikibase-lexeme-sense-gloss"><td class="wikibase-lexeme-sense-gloss-language"><span>{{.LanguageName}}</span></td><td class="wikibase-lexeme-sense-gloss-value-cell" dir="{{.Dir}}" lang="{{.Language}}"><span class="wikibase-lexeme-sense-gloss-value">{{.Text}}</span></td></tr>
{{end}}</tbody></table></div>
</div>
{{template "statements" .Statements}}
</div>
{{end}}</div>
</div>{{end}}

{{define "forms"}}<div class="wikibase-lexeme-forms-section">
<h2 class="wb-section-heading section-heading"><span class="mw-headline" id="forms">{{.Heading}}</span></h2>
<div class="wikibase-lexeme-forms">
{{range .Forms}}<div class="wikibase-lexeme-form" id="{{.ID}}">
<div class="wikibase-lexeme-form-header">
<div class="wikibase-lexeme-form-id wikibase-title-id">{{.Suffix}}</div>
<div class="wikibase-lexeme-form-representations">
{{if .Representations}}{{range .Representations}}<span class="wikibase-lexeme-form-representation" lang="{{.Language}}" dir="{{.Dir}}">{{.Text}}</span> <span class="wikibase-lexeme-form-representation-language">{{.Language}}</span>
{{end}}{{else}}<span class="wb-empty">{{.EmptyText}}</span>{{end}}
</div>
</div>
<div class="wikibase-lexeme-form-grammatical-features">
<div class="wikibase-lexeme-form-grammatical-features-header">{{.FeaturesLabel}}</div>
<div class="wikibase-lexeme-form-grammatical-features-values">{{range $i, $f := .GrammaticalFeatures}}{{if $i}}, {{end}}{{template "entity-link" $f}}{{end}}</div>
</div>
{{template "statements" .Statements}}
</div>
{{end}}</div>
</div>{{end}}

{{define "page"}}<!DOCTYPE html>
<html lang="{{.Language}}" dir="{{.Dir}}">
<head>
<meta charset="utf-8">
<title>{{.PlainText}}</title>
</head>
<body>
{{.Title}}
{{.Main}}
</body>
</html>
{{end}}
`

var templates = template.Must(template.New("view").Parse(templateSource))

func render(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
