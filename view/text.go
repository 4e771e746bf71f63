package view

import (
	"strconv"
	"strings"
)

// TextProvider returns localized interface messages. Parameters replace
// $1, $2, ... in the message text.
type TextProvider interface {
	Get(key string, params ...string) string
}

// DefaultMessages are the English interface messages.
var DefaultMessages = map[string]string{
	"parentheses":          "($1)",
	"wikibase-label-empty": "No label defined",

	"wikibaselexeme-field-language-label":         "Language",
	"wikibaselexeme-field-lexical-category-label": "Lexical category",
	"wikibaselexeme-header-forms":                 "Forms",
	"wikibaselexeme-header-senses":                "Senses",
	"wikibaselexeme-form-grammatical-features":    "Grammatical features",
	"wikibaselexeme-empty-form-representation":    "No representation defined",

	"wikibase-statementsection-statements":                             "Statements",
	"wikibaselexeme-statementsection-statements-about-form":            "Statements about $1",
	"wikibaselexeme-statementsection-statements-about-sense":           "Statements about $1",
	"wikibase-snakview-variations-somevalue-label":                     "unknown value",
	"wikibase-snakview-variations-novalue-label":                       "no value",
	"wikibaselexeme-formidformatter-separator-multiple-representation": " / ",
	"wikibaselexeme-formidformatter-separator-grammatical-features":    ", ",
	"wikibaselexeme-formidformatter-link-title":                        "$1: $2",
	"wikibaselexeme-deletedentity-form":                                "Deleted form",
	"wikibaselexeme-deletedentity-sense":                               "Deleted sense",
}

// MessageTextProvider serves messages from a map.
type MessageTextProvider struct {
	messages map[string]string
}

// NewMessageTextProvider returns a provider over DefaultMessages with the
// given overrides applied.
func NewMessageTextProvider(overrides map[string]string) *MessageTextProvider {
	messages := make(map[string]string, len(DefaultMessages)+len(overrides))
	for k, v := range DefaultMessages {
		messages[k] = v
	}
	for k, v := range overrides {
		messages[k] = v
	}
	return &MessageTextProvider{messages: messages}
}

// Get returns the message for key. Unknown keys render as ⧼key⧽.
func (p *MessageTextProvider) Get(key string, params ...string) string {
	msg, ok := p.messages[key]
	if !ok {
		return "⧼" + key + "⧽"
	}
	// Replace from the highest index down so $1 does not clobber $10.
	for i := len(params); i >= 1; i-- {
		msg = strings.ReplaceAll(msg, "$"+strconv.Itoa(i), params[i-1])
	}
	return msg
}
