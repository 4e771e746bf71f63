// Package lexeme provides the vocabulary used to export lexemes as RDF.
//
// Predicates use the dotted notation of the semstreams vocabulary registry
// (domain.category.property) and map to OntoLex-Lemon, Wikibase, Dublin Core
// and SKOS IRIs for export:
//
//	lexeme.entry.lemma        -> wikibase:lemma
//	lexeme.entry.language     -> dct:language
//	lexeme.entry.form         -> ontolex:lexicalForm
//	lexeme.form.representation -> ontolex:representation
//	lexeme.sense.gloss        -> skos:definition
//
// Importing this package registers all predicates.
package lexeme
