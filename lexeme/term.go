package lexeme

import "sort"

// Term is a text in one language.
type Term struct {
	Language string `json:"language"`
	Text     string `json:"value"`
}

// TermList maps language codes to terms. Each language appears at most once.
type TermList map[string]Term

// NewTermList builds a term list from the given terms.
func NewTermList(terms ...Term) TermList {
	l := make(TermList, len(terms))
	for _, t := range terms {
		l[t.Language] = t
	}
	return l
}

// Set adds or replaces the term for its language.
func (l *TermList) Set(t Term) {
	if *l == nil {
		*l = TermList{}
	}
	(*l)[t.Language] = t
}

// Remove deletes the term for a language. Missing languages are ignored.
func (l TermList) Remove(language string) {
	delete(l, language)
}

// Get returns the term for a language.
func (l TermList) Get(language string) (Term, bool) {
	t, ok := l[language]
	return t, ok
}

// Languages returns the language codes in sorted order.
func (l TermList) Languages() []string {
	langs := make([]string, 0, len(l))
	for lang := range l {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Sorted returns the terms ordered by language code.
func (l TermList) Sorted() []Term {
	terms := make([]Term, 0, len(l))
	for _, lang := range l.Languages() {
		terms = append(terms, l[lang])
	}
	return terms
}

// Clone returns an independent copy. A nil list clones to an empty list.
func (l TermList) Clone() TermList {
	c := make(TermList, len(l))
	for k, v := range l {
		c[k] = v
	}
	return c
}
