package export

import (
	"strings"

	"github.com/c360studio/semlex/lexeme"
	vocab "github.com/c360studio/semlex/vocabulary/lexeme"
)

// LexemeRDFBuilder turns lexemes into exportable entities.
type LexemeRDFBuilder struct {
	entityNamespace      string
	directClaimNamespace string
}

// NewLexemeRDFBuilder creates a builder. Empty namespaces fall back to the
// vocabulary defaults.
func NewLexemeRDFBuilder(entityNamespace, directClaimNamespace string) *LexemeRDFBuilder {
	if entityNamespace == "" {
		entityNamespace = vocab.DefaultEntityNamespace
	}
	if directClaimNamespace == "" {
		directClaimNamespace = vocab.DefaultDirectClaimNamespace
	}
	return &LexemeRDFBuilder{
		entityNamespace:      entityNamespace,
		directClaimNamespace: directClaimNamespace,
	}
}

// EntityIRI returns the IRI of an entity id.
func (b *LexemeRDFBuilder) EntityIRI(id string) string {
	return b.entityNamespace + id
}

// Prefixes returns the namespace prefixes the builder's IRIs use.
func (b *LexemeRDFBuilder) Prefixes() map[string]string {
	return map[string]string{
		"entity": b.entityNamespace,
		"wdt":    b.directClaimNamespace,
	}
}

// AddLexeme adds the lexeme, its forms and its senses to the exporter.
func (b *LexemeRDFBuilder) AddLexeme(e *RDFExporter, l *lexeme.Lexeme, revision uint64) {
	for prefix, iri := range b.Prefixes() {
		e.SetPrefix(prefix, iri)
	}
	for _, entity := range b.Entities(l, revision) {
		e.AddEntity(entity)
	}
}

// Entities returns the lexeme entity followed by one entity per form and sense.
// A zero revision omits the version triple.
func (b *LexemeRDFBuilder) Entities(l *lexeme.Lexeme, revision uint64) []Entity {
	entities := make([]Entity, 0, 1+len(l.Forms)+len(l.Senses))
	entities = append(entities, b.lexemeEntity(l, revision))
	for _, f := range l.Forms {
		entities = append(entities, b.formEntity(f))
	}
	for _, s := range l.Senses {
		entities = append(entities, b.senseEntity(s))
	}
	return entities
}

// FormEntities returns the entity of a single form.
func (b *LexemeRDFBuilder) FormEntities(f *lexeme.Form) []Entity {
	return []Entity{b.formEntity(f)}
}

// SenseEntities returns the entity of a single sense.
func (b *LexemeRDFBuilder) SenseEntities(s *lexeme.Sense) []Entity {
	return []Entity{b.senseEntity(s)}
}

// Triples returns all triples of the lexeme and its sub-entities.
func (b *LexemeRDFBuilder) Triples(l *lexeme.Lexeme, revision uint64) []Triple {
	var triples []Triple
	for _, entity := range b.Entities(l, revision) {
		triples = append(triples, entity.Triples...)
	}
	return triples
}

func (b *LexemeRDFBuilder) lexemeEntity(l *lexeme.Lexeme, revision uint64) Entity {
	subject := b.EntityIRI(string(l.ID))
	var triples []Triple
	add := func(predicate string, object any) {
		triples = append(triples, Triple{Subject: subject, Predicate: predicate, Object: object})
	}

	for _, t := range l.Lemmas.Sorted() {
		lemma := LangString{Value: t.Text, Language: t.Language}
		add(vocab.EntryLemma, lemma)
		add(vocab.EntryLabel, lemma)
	}
	if l.Language != "" {
		add(vocab.EntryLanguage, IRI(b.EntityIRI(string(l.Language))))
	}
	if l.LexicalCategory != "" {
		add(vocab.EntryLexicalCategory, IRI(b.EntityIRI(string(l.LexicalCategory))))
	}
	if revision > 0 {
		add(vocab.EntryVersion, revision)
	}
	for _, f := range l.Forms {
		add(vocab.EntryForm, IRI(b.EntityIRI(string(f.ID))))
	}
	for _, s := range l.Senses {
		add(vocab.EntrySense, IRI(b.EntityIRI(string(s.ID))))
	}
	triples = append(triples, b.claimTriples(subject, l.Claims)...)

	return Entity{IRI: subject, EntityType: lexeme.EntityTypeLexeme, Triples: triples}
}

func (b *LexemeRDFBuilder) formEntity(f *lexeme.Form) Entity {
	subject := b.EntityIRI(string(f.ID))
	var triples []Triple
	for _, t := range f.Representations.Sorted() {
		rep := LangString{Value: t.Text, Language: t.Language}
		triples = append(triples,
			Triple{Subject: subject, Predicate: vocab.FormRepresentation, Object: rep},
			Triple{Subject: subject, Predicate: vocab.FormLabel, Object: rep})
	}
	for _, feature := range f.GrammaticalFeatures {
		triples = append(triples, Triple{
			Subject:   subject,
			Predicate: vocab.FormGrammaticalFeature,
			Object:    IRI(b.EntityIRI(string(feature))),
		})
	}
	triples = append(triples, b.claimTriples(subject, f.Claims)...)

	return Entity{IRI: subject, EntityType: lexeme.EntityTypeForm, Triples: triples}
}

func (b *LexemeRDFBuilder) senseEntity(s *lexeme.Sense) Entity {
	subject := b.EntityIRI(string(s.ID))
	var triples []Triple
	for _, t := range s.Glosses.Sorted() {
		triples = append(triples, Triple{
			Subject:   subject,
			Predicate: vocab.SenseGloss,
			Object:    LangString{Value: t.Text, Language: t.Language},
		})
	}
	triples = append(triples, b.claimTriples(subject, s.Claims)...)

	return Entity{IRI: subject, EntityType: lexeme.EntityTypeSense, Triples: triples}
}

// claimTriples emits direct claims (truthy statements) for value snaks.
// Somevalue and novalue snaks have no direct-claim form and are skipped.
func (b *LexemeRDFBuilder) claimTriples(subject string, claims lexeme.StatementList) []Triple {
	var triples []Triple
	for _, st := range claims.Best() {
		snak := st.MainSnak
		if snak.SnakType != lexeme.SnakValue {
			continue
		}
		predicate := b.directClaimNamespace + string(snak.Property)

		if id, ok := snak.DataValue.EntityID(); ok {
			triples = append(triples, Triple{Subject: subject, Predicate: predicate, Object: IRI(b.EntityIRI(id))})
			continue
		}
		if text, ok := snak.DataValue.String(); ok {
			triples = append(triples, Triple{Subject: subject, Predicate: predicate, Object: strings.TrimSpace(text)})
		}
	}
	return triples
}
