// Package view renders lexemes as HTML.
//
// Rendering is split into LexemeView, FormsView and SensesView. Each fills a
// typed slot struct and executes a compiled html/template; labels for
// referenced items come from a LabelLookup and interface messages from a
// TextProvider. FormIDFormatter renders links to single forms, and
// MarkdownConverter turns rendered HTML into Markdown for terminals.
package view
