package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/semlex/lexeme"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "lexeme",
		Category:    "entity",
		Version:     "v1",
		Description: "Saved lexeme with its forms and senses as graph triples",
		Factory:     func() any { return &LexemePayload{} },
	})
	if err != nil {
		panic("failed to register LexemePayload: " + err.Error())
	}
}

// PayloadType is the message type of lexeme payloads.
var PayloadType = message.Type{Domain: "lexeme", Category: "entity", Version: "v1"}

// LexemePayload carries one saved revision of a lexeme. The triples cover
// the lexeme and every form and sense it holds at that revision.
type LexemePayload struct {
	IRI        string           `json:"id"`
	LexemeID   lexeme.LexemeID  `json:"lexeme_id"`
	Revision   uint64           `json:"revision"`
	Forms      []lexeme.FormID  `json:"forms,omitempty"`
	Senses     []lexeme.SenseID `json:"senses,omitempty"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (p *LexemePayload) EntityID() string          { return p.IRI }
func (p *LexemePayload) Triples() []message.Triple { return p.TripleData }
func (p *LexemePayload) Schema() message.Type      { return PayloadType }

// Validate checks the ids and that every member belongs to the lexeme.
func (p *LexemePayload) Validate() error {
	if p.IRI == "" {
		return errors.New("entity IRI is required")
	}
	if _, err := lexeme.ParseLexemeID(string(p.LexemeID)); err != nil {
		return err
	}
	if p.Revision == 0 {
		return errors.New("revision is required")
	}
	for _, f := range p.Forms {
		if f.LexemeID() != p.LexemeID {
			return fmt.Errorf("form %s does not belong to %s", f, p.LexemeID)
		}
	}
	for _, s := range p.Senses {
		if s.LexemeID() != p.LexemeID {
			return fmt.Errorf("sense %s does not belong to %s", s, p.LexemeID)
		}
	}
	for i, t := range p.TripleData {
		if t.Subject == "" || t.Predicate == "" {
			return fmt.Errorf("triple %d: subject and predicate are required", i)
		}
	}
	return nil
}

func (p *LexemePayload) MarshalJSON() ([]byte, error) {
	type Alias LexemePayload
	return json.Marshal((*Alias)(p))
}

func (p *LexemePayload) UnmarshalJSON(data []byte) error {
	type Alias LexemePayload
	return json.Unmarshal(data, (*Alias)(p))
}
