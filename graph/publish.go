// Package graph publishes saved lexemes to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semlex/export"
	"github.com/c360studio/semlex/lexeme"
)

// GraphIngestSubject is the subject entity payloads are published to.
const GraphIngestSubject = "graph.ingest.entity"

// StreamName is the JetStream stream capturing graph ingestion subjects.
const StreamName = "GRAPH"

const source = "semlex.edit"

// StreamPublisher publishes to a JetStream-backed subject.
// *natsclient.Client satisfies it.
type StreamPublisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// Publisher turns lexemes into entity payloads and publishes them.
// A nil Publisher, or one without a stream publisher, does nothing.
type Publisher struct {
	client  StreamPublisher
	builder *export.LexemeRDFBuilder
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublisher creates a publisher. A nil builder uses the default namespaces.
func NewPublisher(client StreamPublisher, builder *export.LexemeRDFBuilder, logger *slog.Logger) *Publisher {
	if builder == nil {
		builder = export.NewLexemeRDFBuilder("", "")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:  client,
		builder: builder,
		logger:  logger,
		now:     time.Now,
	}
}

// PublishLexeme publishes the lexeme with its forms and senses as one payload.
func (p *Publisher) PublishLexeme(ctx context.Context, l *lexeme.Lexeme, revision uint64) error {
	if p == nil || p.client == nil {
		return nil
	}

	payload := p.Payload(l, revision)
	if err := payload.Validate(); err != nil {
		return fmt.Errorf("invalid lexeme payload: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal lexeme entity: %w", err)
	}

	if err := p.client.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
		return fmt.Errorf("publish lexeme entity: %w", err)
	}

	p.logger.Debug("Published lexeme to graph",
		"id", l.ID,
		"revision", revision,
		"triples", len(payload.TripleData))
	return nil
}

// Payload builds the entity payload for a lexeme.
func (p *Publisher) Payload(l *lexeme.Lexeme, revision uint64) *LexemePayload {
	now := p.now()
	rdf := p.builder.Triples(l, revision)

	triples := make([]message.Triple, 0, len(rdf))
	for _, t := range rdf {
		triple := message.Triple{
			Subject:    t.Subject,
			Predicate:  t.Predicate,
			Source:     source,
			Timestamp:  now,
			Confidence: 1.0,
		}
		switch obj := t.Object.(type) {
		case export.IRI:
			triple.Object = string(obj)
		case export.LangString:
			// Language tag travels as the datatype hint, Turtle style.
			triple.Object = obj.Value
			triple.Datatype = "@" + obj.Language
		case uint64:
			triple.Object = int64(obj)
			triple.Datatype = "xsd:integer"
		default:
			triple.Object = obj
		}
		triples = append(triples, triple)
	}

	payload := &LexemePayload{
		IRI:        p.builder.EntityIRI(string(l.ID)),
		LexemeID:   l.ID,
		Revision:   revision,
		TripleData: triples,
		UpdatedAt:  now,
	}
	for _, f := range l.Forms {
		payload.Forms = append(payload.Forms, f.ID)
	}
	for _, s := range l.Senses {
		payload.Senses = append(payload.Senses, s.ID)
	}
	return payload
}
