package export_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/c360studio/semlex/export"
	"github.com/c360studio/semlex/lexeme"
	vocab "github.com/c360studio/semlex/vocabulary/lexeme"
)

const base = "https://semlex.dev/entity/"

func sampleLexeme() *lexeme.Lexeme {
	l := lexeme.NewLexeme("L7")
	l.Lemmas.Set(lexeme.Term{Language: "en", Text: "cat"})
	l.Lemmas.Set(lexeme.Term{Language: "de", Text: "Katze"})
	l.Language = "Q1860"
	l.LexicalCategory = "Q1084"

	f, _ := l.NewForm()
	f.Representations.Set(lexeme.Term{Language: "en", Text: "cats"})
	f.SetGrammaticalFeatures([]lexeme.ItemID{"Q146786"})
	l.AttachForm(f)

	s, _ := l.NewSense()
	s.Glosses.Set(lexeme.Term{Language: "en", Text: "a small \"domesticated\" feline"})
	l.AttachSense(s)

	l.Claims.Set(lexeme.Statement{
		GUID: "L7$A",
		MainSnak: lexeme.Snak{
			SnakType:  lexeme.SnakValue,
			Property:  "P5",
			DataValue: &lexeme.DataValue{Type: lexeme.DataValueEntityID, Value: map[string]any{"id": "Q146"}},
		},
		Rank: lexeme.RankNormal,
	})
	return l
}

func exportSample(t *testing.T, format export.Format) string {
	t.Helper()
	exporter := export.NewRDFExporter()
	export.NewLexemeRDFBuilder("", "").AddLexeme(exporter, sampleLexeme(), 3)

	output, err := exporter.Export(format)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	return output
}

func TestLexemeEntities(t *testing.T) {
	entities := export.NewLexemeRDFBuilder("", "").Entities(sampleLexeme(), 0)

	if len(entities) != 3 {
		t.Fatalf("expected lexeme, form and sense entities, got %d", len(entities))
	}
	wantIRIs := []string{base + "L7", base + "L7-F1", base + "L7-S1"}
	wantTypes := []lexeme.EntityType{lexeme.EntityTypeLexeme, lexeme.EntityTypeForm, lexeme.EntityTypeSense}
	for i, entity := range entities {
		if entity.IRI != wantIRIs[i] {
			t.Errorf("entity %d IRI = %s, want %s", i, entity.IRI, wantIRIs[i])
		}
		if entity.EntityType != wantTypes[i] {
			t.Errorf("entity %d type = %s, want %s", i, entity.EntityType, wantTypes[i])
		}
	}

	for _, triple := range entities[0].Triples {
		if triple.Predicate == vocab.EntryVersion {
			t.Error("zero revision should not emit a version triple")
		}
	}
}

func TestLexemeTriples(t *testing.T) {
	triples := export.NewLexemeRDFBuilder("", "").Triples(sampleLexeme(), 3)

	want := map[string]any{
		vocab.EntryLanguage:          export.IRI(base + "Q1860"),
		vocab.EntryLexicalCategory:   export.IRI(base + "Q1084"),
		vocab.EntryForm:              export.IRI(base + "L7-F1"),
		vocab.EntrySense:             export.IRI(base + "L7-S1"),
		vocab.EntryVersion:           uint64(3),
		vocab.FormGrammaticalFeature: export.IRI(base + "Q146786"),
		vocab.FormRepresentation:     export.LangString{Value: "cats", Language: "en"},
		vocab.DefaultDirectClaimNamespace + "P5": export.IRI(base + "Q146"),
	}

	for predicate, object := range want {
		found := false
		for _, triple := range triples {
			if triple.Predicate == predicate && triple.Object == object {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing triple %s %v", predicate, object)
		}
	}

	lemmas := 0
	for _, triple := range triples {
		if triple.Predicate == vocab.EntryLemma {
			lemmas++
		}
	}
	if lemmas != 2 {
		t.Errorf("expected 2 lemma triples, got %d", lemmas)
	}
}

func TestClaimTriplesSkipDeprecatedAndNoValue(t *testing.T) {
	l := lexeme.NewLexeme("L1")
	l.Claims.Set(lexeme.Statement{
		GUID:     "L1$A",
		MainSnak: lexeme.Snak{SnakType: lexeme.SnakNoValue, Property: "P5"},
		Rank:     lexeme.RankNormal,
	})
	l.Claims.Set(lexeme.Statement{
		GUID: "L1$B",
		MainSnak: lexeme.Snak{
			SnakType:  lexeme.SnakValue,
			Property:  "P6",
			DataValue: &lexeme.DataValue{Type: lexeme.DataValueString, Value: "x"},
		},
		Rank: lexeme.RankDeprecated,
	})

	for _, triple := range export.NewLexemeRDFBuilder("", "").Triples(l, 0) {
		if strings.HasPrefix(triple.Predicate, vocab.DefaultDirectClaimNamespace) {
			t.Errorf("unexpected direct claim %s", triple.Predicate)
		}
	}
}

func TestExportTurtle(t *testing.T) {
	output := exportSample(t, export.FormatTurtle)

	checks := []string{
		"@prefix ontolex: <http://www.w3.org/ns/lemon/ontolex#> .",
		"@prefix entity: <" + base + "> .",
		"entity:L7\n    a ontolex:LexicalEntry, wikibase:Lexeme ;\n",
		"    wikibase:lemma \"Katze\"@de, \"cat\"@en ;\n",
		"    rdfs:label \"Katze\"@de, \"cat\"@en ;\n",
		"    dct:language entity:Q1860 ;\n",
		"    schema:version \"3\"^^xsd:integer ;\n",
		"    ontolex:lexicalForm entity:L7-F1 ;\n",
		"    wdt:P5 entity:Q146 .\n",
		"entity:L7-F1\n    a ontolex:Form, wikibase:Form ;\n",
		"    wikibase:grammaticalFeature entity:Q146786 .\n",
		"    skos:definition \"a small \\\"domesticated\\\" feline\"@en .\n",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("Turtle output should contain %q\n%s", check, output)
		}
	}
}

func TestExportTurtleFallsBackToFullIRIs(t *testing.T) {
	exporter := export.NewRDFExporter()
	exporter.AddEntity(export.Entity{
		IRI:        "urn:x:1",
		EntityType: lexeme.EntityTypeLexeme,
		Triples: []export.Triple{
			{Subject: "urn:x:1", Predicate: vocab.OntolexNamespace + "sense", Object: export.IRI(base + "a/b")},
		},
	})
	exporter.AddEntity(export.Entity{IRI: "urn:x:empty"})

	output, err := exporter.Export(export.FormatTurtle)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(output, "<urn:x:1>\n") {
		t.Errorf("subject outside every namespace should be a full IRI:\n%s", output)
	}
	if !strings.Contains(output, "ontolex:sense <"+base+"a/b> .") {
		t.Errorf("local part with a slash should not be compacted:\n%s", output)
	}
	if strings.Contains(output, "urn:x:empty") {
		t.Errorf("entity without types or triples should be skipped:\n%s", output)
	}
}

func TestExportTurtlePrefixesSorted(t *testing.T) {
	output := exportSample(t, export.FormatTurtle)

	dct := strings.Index(output, "@prefix dct:")
	xsd := strings.Index(output, "@prefix xsd:")
	if dct < 0 || xsd < 0 || dct > xsd {
		t.Errorf("prefixes should be sorted:\n%s", output)
	}
}

func TestExportNTriples(t *testing.T) {
	output := exportSample(t, export.FormatNTriples)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		t.Fatal("N-Triples output should have at least one line")
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " .") {
			t.Errorf("N-Triple line should end with ' .': %s", line)
		}
		if !strings.HasPrefix(line, "<") {
			t.Errorf("N-Triple line should start with a subject IRI: %s", line)
		}
	}

	want := "<" + base + "L7-F1> <http://www.w3.org/ns/lemon/ontolex#representation> \"cats\"@en ."
	if !strings.Contains(output, want) {
		t.Errorf("N-Triples output should contain %q", want)
	}
	if !strings.Contains(output, "\"3\"^^<http://www.w3.org/2001/XMLSchema#integer>") {
		t.Error("N-Triples output should use full datatype IRIs")
	}
}

func TestExportJSONLD(t *testing.T) {
	output := exportSample(t, export.FormatJSONLD)

	var doc struct {
		Context map[string]any   `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		t.Fatalf("JSON-LD output should be valid JSON: %v", err)
	}

	if doc.Context["ontolex"] != vocab.OntolexNamespace {
		t.Errorf("context should declare ontolex prefix, got %v", doc.Context["ontolex"])
	}
	if len(doc.Graph) != 3 {
		t.Fatalf("expected 3 graph nodes, got %d", len(doc.Graph))
	}

	entry := doc.Graph[0]
	if entry["@id"] != base+"L7" {
		t.Errorf("unexpected @id %v", entry["@id"])
	}
	lemmas, ok := entry[vocab.WikibaseNamespace+"lemma"].([]any)
	if !ok || len(lemmas) != 2 {
		t.Fatalf("expected two lemma values, got %v", entry[vocab.WikibaseNamespace+"lemma"])
	}
	first, _ := lemmas[0].(map[string]any)
	if first["@language"] != "de" || first["@value"] != "Katze" {
		t.Errorf("unexpected first lemma %v", first)
	}

	language, _ := entry[vocab.DCTNamespace+"language"].(map[string]any)
	if language["@id"] != base+"Q1860" {
		t.Errorf("language should be an IRI reference, got %v", entry[vocab.DCTNamespace+"language"])
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	exporter := export.NewRDFExporter()
	if _, err := exporter.Export("rdfxml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  export.Format
	}{
		{"turtle", export.FormatTurtle},
		{"ttl", export.FormatTurtle},
		{".ttl", export.FormatTurtle},
		{"NT", export.FormatNTriples},
		{"ntriples", export.FormatNTriples},
		{"jsonld", export.FormatJSONLD},
		{"json-ld", export.FormatJSONLD},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := export.ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	if _, err := export.ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := export.GetFormatInfo(export.FormatTurtle)
	if !ok {
		t.Fatal("turtle should be registered")
	}
	if info.MIMEType != "text/turtle" || info.Extension != ".ttl" {
		t.Errorf("unexpected format info %+v", info)
	}
}
