package view

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var rtlLanguages = map[string]bool{
	"ar": true, "arc": true, "arz": true, "azb": true, "ckb": true, "dv": true,
	"fa": true, "he": true, "ks": true, "mzn": true, "pnb": true, "ps": true,
	"sd": true, "ug": true, "ur": true, "yi": true,
}

// Directionality returns "rtl" or "ltr" for a language code. Subtags after
// the primary language are ignored.
func Directionality(code string) string {
	base, _, _ := strings.Cut(strings.ToLower(code), "-")
	if rtlLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// LanguageNamer names language codes in the interface language.
type LanguageNamer struct {
	namer display.Namer
}

// NewLanguageNamer creates a namer for the given interface language. An
// unparsable language falls back to English.
func NewLanguageNamer(uiLanguage string) *LanguageNamer {
	tag, err := language.Parse(uiLanguage)
	if err != nil {
		tag = language.English
	}
	namer := display.Tags(tag)
	if namer == nil {
		namer = display.Tags(language.English)
	}
	return &LanguageNamer{namer: namer}
}

// Name returns the display name of code, or code itself when it has none.
func (n *LanguageNamer) Name(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := n.namer.Name(tag); name != "" {
		return name
	}
	return code
}
