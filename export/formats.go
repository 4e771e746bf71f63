package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// FormatInfo describes how a format is served and saved.
type FormatInfo struct {
	Name      Format
	MIMEType  string
	Extension string
}

// FormatRegistry maps every supported format to its MIME type and file extension.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle:   {Name: FormatTurtle, MIMEType: "text/turtle", Extension: ".ttl"},
	FormatNTriples: {Name: FormatNTriples, MIMEType: "application/n-triples", Extension: ".nt"},
	FormatJSONLD:   {Name: FormatJSONLD, MIMEType: "application/ld+json", Extension: ".jsonld"},
}

// GetFormatInfo looks up a registered format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// localName matches the local parts that may follow a prefix unescaped.
var localName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// predicateGroup is a predicate with all of its objects, in first-seen order.
type predicateGroup struct {
	predicate string
	objects   []any
}

func groupByPredicate(triples []Triple, resolve func(string) string) []predicateGroup {
	var groups []predicateGroup
	index := map[string]int{}
	for _, t := range triples {
		p := resolve(t.Predicate)
		i, ok := index[p]
		if !ok {
			i = len(groups)
			index[p] = i
			groups = append(groups, predicateGroup{predicate: p})
		}
		groups[i].objects = append(groups[i].objects, t.Object)
	}
	return groups
}

// TurtleWriter writes Turtle. IRIs under a declared prefix are written as
// prefixed names and objects sharing a predicate are joined with commas.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer with the default prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{prefixes: defaultPrefixes()}
}

// SetPrefix declares or replaces a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// WritePrefixes writes the prefix declarations, sorted by prefix.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

// WriteEntity writes one subject block. predicateIRI maps registered
// predicates to IRIs. Entities with neither types nor triples are skipped.
func (w *TurtleWriter) WriteEntity(subject string, types []string, triples []Triple, predicateIRI func(string) string) {
	if len(types) == 0 && len(triples) == 0 {
		return
	}

	var parts []string
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = w.name(t)
		}
		parts = append(parts, "a "+strings.Join(names, ", "))
	}
	for _, g := range groupByPredicate(triples, predicateIRI) {
		objects := make([]string, len(g.objects))
		for i, o := range g.objects {
			objects[i] = w.object(o)
		}
		parts = append(parts, w.name(g.predicate)+" "+strings.Join(objects, ", "))
	}

	w.sb.WriteString(w.name(subject))
	w.sb.WriteString("\n    ")
	w.sb.WriteString(strings.Join(parts, " ;\n    "))
	w.sb.WriteString(" .\n\n")
}

// name writes an IRI as a prefixed name when a declared namespace covers it.
// The longest matching namespace wins.
func (w *TurtleWriter) name(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range w.prefixes {
		if len(ns) <= len(bestNS) || !strings.HasPrefix(iri, ns) {
			continue
		}
		if localName.MatchString(iri[len(ns):]) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return "<" + iri + ">"
	}
	return best + ":" + iri[len(bestNS):]
}

func (w *TurtleWriter) object(obj any) string {
	if iri, ok := obj.(IRI); ok {
		return w.name(string(iri))
	}
	return formatObject(obj)
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// NTriplesWriter writes N-Triples: one fully expanded triple per line.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter returns an empty N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteEntity writes the type triples of subject followed by its triples.
func (w *NTriplesWriter) WriteEntity(subject string, types []string, triples []Triple, predicateIRI func(string) string) {
	for _, t := range types {
		w.WriteTriple(subject, rdfType, IRI(t))
	}
	for _, t := range triples {
		w.WriteTriple(t.Subject, predicateIRI(t.Predicate), t.Object)
	}
}

// WriteTriple writes one line with a fully expanded predicate.
func (w *NTriplesWriter) WriteTriple(subject, predicate string, object any) {
	fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", subject, predicate, formatObjectNTriples(object))
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// JSONLDDocument is the top-level JSON-LD object.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode is a node of the @graph. Properties are keyed by full IRI;
// a predicate with several objects holds an array.
type JSONLDNode struct {
	ID         string
	Type       []string
	Properties map[string]any
}

// MarshalJSON flattens the properties next to @id and @type.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter writes a JSON-LD document with one node per entity.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter returns a writer with an empty @context and @graph.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext declares prefixes in @context.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// WriteEntity adds a node for subject.
func (w *JSONLDWriter) WriteEntity(subject string, types []string, triples []Triple, predicateIRI func(string) string) {
	node := JSONLDNode{ID: subject, Type: types, Properties: make(map[string]any)}
	for _, g := range groupByPredicate(triples, predicateIRI) {
		if len(g.objects) == 1 {
			node.Properties[g.predicate] = formatObjectJSONLD(g.objects[0])
			continue
		}
		values := make([]any, len(g.objects))
		for i, o := range g.objects {
			values[i] = formatObjectJSONLD(o)
		}
		node.Properties[g.predicate] = values
	}
	w.doc.Graph = append(w.doc.Graph, node)
}

// String returns the JSON-LD output.
func (w *JSONLDWriter) String() (string, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}
