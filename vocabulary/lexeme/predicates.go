package lexeme

import (
	"strings"

	"github.com/c360studio/semstreams/vocabulary"
)

// Lexical entry predicates.
const (
	// EntryLemma links a lexeme to a language-tagged lemma.
	EntryLemma = "lexeme.entry.lemma"

	// EntryLabel repeats the lemmas as rdfs:label for generic consumers.
	EntryLabel = "lexeme.entry.label"

	// EntryLanguage links a lexeme to its language item.
	EntryLanguage = "lexeme.entry.language"

	// EntryLexicalCategory links a lexeme to its lexical category item.
	EntryLexicalCategory = "lexeme.entry.lexical_category"

	// EntryForm links a lexeme to one of its forms.
	EntryForm = "lexeme.entry.form"

	// EntrySense links a lexeme to one of its senses.
	EntrySense = "lexeme.entry.sense"

	// EntryVersion is the stored revision.
	EntryVersion = "lexeme.entry.version"
)

// Form predicates.
const (
	// FormRepresentation is a language-tagged written representation.
	FormRepresentation = "lexeme.form.representation"

	// FormLabel repeats representations as rdfs:label.
	FormLabel = "lexeme.form.label"

	// FormGrammaticalFeature links a form to a grammatical feature item.
	FormGrammaticalFeature = "lexeme.form.grammatical_feature"
)

// Sense predicates.
const (
	// SenseGloss is a language-tagged gloss.
	SenseGloss = "lexeme.sense.gloss"
)

func init() {
	registerEntryPredicates()
	registerFormPredicates()
	registerSensePredicates()
}

func registerEntryPredicates() {
	vocabulary.Register(EntryLemma,
		vocabulary.WithDescription("Lemma of the lexical entry"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(WikibaseNamespace+"lemma"))

	vocabulary.Register(EntryLabel,
		vocabulary.WithDescription("Lemma as a generic label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsLabel),
		vocabulary.WithAlias(vocabulary.AliasTypeLabel, 1))

	vocabulary.Register(EntryLanguage,
		vocabulary.WithDescription("Language of the lexical entry"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(DCTNamespace+"language"))

	vocabulary.Register(EntryLexicalCategory,
		vocabulary.WithDescription("Lexical category (part of speech)"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(WikibaseNamespace+"lexicalCategory"))

	vocabulary.Register(EntryForm,
		vocabulary.WithDescription("Form of the lexical entry"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OntolexNamespace+"lexicalForm"))

	vocabulary.Register(EntrySense,
		vocabulary.WithDescription("Sense of the lexical entry"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OntolexNamespace+"sense"))

	vocabulary.Register(EntryVersion,
		vocabulary.WithDescription("Stored revision of the entity"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(SchemaNamespace+"version"))
}

func registerFormPredicates() {
	vocabulary.Register(FormRepresentation,
		vocabulary.WithDescription("Written representation of the form"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OntolexNamespace+"representation"))

	vocabulary.Register(FormLabel,
		vocabulary.WithDescription("Representation as a generic label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsLabel),
		vocabulary.WithAlias(vocabulary.AliasTypeLabel, 1))

	vocabulary.Register(FormGrammaticalFeature,
		vocabulary.WithDescription("Grammatical feature of the form"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(WikibaseNamespace+"grammaticalFeature"))
}

func registerSensePredicates() {
	vocabulary.Register(SenseGloss,
		vocabulary.WithDescription("Gloss describing the sense"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(SKOSNamespace+"definition"))
}

// PredicateIRI returns the export IRI for a predicate. Predicates that are
// already IRIs are returned unchanged; unregistered dotted predicates fall
// back to the entity namespace.
func PredicateIRI(predicate string) string {
	if strings.HasPrefix(predicate, "http://") || strings.HasPrefix(predicate, "https://") {
		return predicate
	}
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return DefaultEntityNamespace + "ontology/" + predicate
}
