// Package export provides RDF export of lexemes, forms and senses using the
// OntoLex-Lemon and Wikibase vocabularies.
package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/c360studio/semlex/lexeme"
	vocab "github.com/c360studio/semlex/vocabulary/lexeme"
)

// Format names an RDF serialization.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// ParseFormat resolves a format name or file extension (with or without the
// leading dot) to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for format, info := range FormatRegistry {
		if name == string(format) || name == info.Extension || "."+name == info.Extension {
			return format, nil
		}
	}
	if name == "json-ld" {
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("unsupported format: %s", name)
}

// IRI is an object that serializes as a resource reference.
type IRI string

// LangString is a language-tagged literal.
type LangString struct {
	Value    string
	Language string
}

// Triple represents a semantic triple for export. Subject is an IRI;
// Predicate is a registered dotted predicate or an IRI.
type Triple struct {
	Subject   string
	Predicate string
	Object    any
}

// Entity is one subject with its rdf:type values and outgoing triples.
type Entity struct {
	IRI        string
	EntityType lexeme.EntityType
	Triples    []Triple
}

// RDFExporter collects entities and serializes them.
type RDFExporter struct {
	entities []Entity
	prefixes map[string]string
}

// NewRDFExporter creates a new RDF exporter with the default prefixes.
func NewRDFExporter() *RDFExporter {
	return &RDFExporter{
		entities: make([]Entity, 0),
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes covers the OntoLex, Wikibase and supporting vocabularies.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":      "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":     vocab.RDFSNamespace,
		"xsd":      "http://www.w3.org/2001/XMLSchema#",
		"dct":      vocab.DCTNamespace,
		"skos":     vocab.SKOSNamespace,
		"ontolex":  vocab.OntolexNamespace,
		"wikibase": vocab.WikibaseNamespace,
		"schema":   vocab.SchemaNamespace,
		"entity":   vocab.DefaultEntityNamespace,
		"wdt":      vocab.DefaultDirectClaimNamespace,
	}
}

// SetPrefix sets a namespace prefix.
func (e *RDFExporter) SetPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// AddEntity queues an entity; entities are written in insertion order.
func (e *RDFExporter) AddEntity(entity Entity) {
	e.entities = append(e.entities, entity)
}

// Entities returns the collected entities.
func (e *RDFExporter) Entities() []Entity {
	return e.entities
}

// Export writes every queued entity in format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// entityWriter is implemented by the format writers.
type entityWriter interface {
	WriteEntity(subject string, types []string, triples []Triple, predicateIRI func(string) string)
}

func (e *RDFExporter) writeEntities(w entityWriter) {
	for _, entity := range e.entities {
		w.WriteEntity(entity.IRI, vocab.TypesFor(entity.EntityType), entity.Triples, vocab.PredicateIRI)
	}
}

func (e *RDFExporter) toTurtle() string {
	w := NewTurtleWriter()
	for prefix, iri := range e.prefixes {
		w.SetPrefix(prefix, iri)
	}
	w.WritePrefixes()
	e.writeEntities(w)
	return w.String()
}

func (e *RDFExporter) toNTriples() string {
	w := NewNTriplesWriter()
	e.writeEntities(w)
	return w.String()
}

func (e *RDFExporter) toJSONLD() (string, error) {
	w := NewJSONLDWriter()
	w.SetContext(e.prefixes)
	e.writeEntities(w)
	return w.String()
}

// formatObject renders a literal or IRI object in Turtle syntax.
func formatObject(obj any) string {
	switch v := obj.(type) {
	case IRI:
		return fmt.Sprintf("<%s>", v)
	case LangString:
		return fmt.Sprintf("\"%s\"@%s", escapeString(v.Value), v.Language)
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("\"%d\"^^xsd:integer", v)
	case float32, float64:
		return fmt.Sprintf("\"%s\"^^xsd:decimal", formatDecimal(v))
	case bool:
		return fmt.Sprintf("\"%t\"^^xsd:boolean", v)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// formatObjectNTriples is formatObject with datatypes written as full IRIs.
func formatObjectNTriples(obj any) string {
	const xsd = "http://www.w3.org/2001/XMLSchema#"
	switch v := obj.(type) {
	case IRI:
		return fmt.Sprintf("<%s>", v)
	case LangString:
		return fmt.Sprintf("\"%s\"@%s", escapeString(v.Value), v.Language)
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("\"%d\"^^<%sinteger>", v, xsd)
	case float32, float64:
		return fmt.Sprintf("\"%s\"^^<%sdecimal>", formatDecimal(v), xsd)
	case bool:
		return fmt.Sprintf("\"%t\"^^<%sboolean>", v, xsd)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// formatObjectJSONLD converts an object value to its JSON-LD form.
func formatObjectJSONLD(obj any) any {
	switch v := obj.(type) {
	case IRI:
		return map[string]any{"@id": string(v)}
	case LangString:
		return map[string]any{"@value": v.Value, "@language": v.Language}
	case string, bool, int, int32, int64, uint, uint32, uint64:
		return v
	case float32:
		return float64(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprint(v)
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatDecimal(v any) string {
	switch f := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(f), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// escapeString escapes a lexical form for a quoted RDF literal.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
