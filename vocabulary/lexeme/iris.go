package lexeme

// Namespaces used by the lexeme vocabulary.
const (
	OntolexNamespace  = "http://www.w3.org/ns/lemon/ontolex#"
	WikibaseNamespace = "http://wikiba.se/ontology#"
	DCTNamespace      = "http://purl.org/dc/terms/"
	SKOSNamespace     = "http://www.w3.org/2004/02/skos/core#"
	RDFSNamespace     = "http://www.w3.org/2000/01/rdf-schema#"
	SchemaNamespace   = "http://schema.org/"
)

// DefaultEntityNamespace is the base IRI for entity instances.
const DefaultEntityNamespace = "https://semlex.dev/entity/"

// DefaultDirectClaimNamespace is the base IRI for direct-claim predicates (wdt:).
const DefaultDirectClaimNamespace = "https://semlex.dev/prop/direct/"

// Class IRIs.
const (
	ClassLexicalEntry = OntolexNamespace + "LexicalEntry"
	ClassForm         = OntolexNamespace + "Form"
	ClassLexicalSense = OntolexNamespace + "LexicalSense"

	ClassWikibaseLexeme = WikibaseNamespace + "Lexeme"
	ClassWikibaseForm   = WikibaseNamespace + "Form"
	ClassWikibaseSense  = WikibaseNamespace + "Sense"
)
