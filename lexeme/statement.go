package lexeme

import (
	"strings"

	"github.com/google/uuid"
)

// Rank orders statements about the same property.
type Rank string

const (
	RankPreferred  Rank = "preferred"
	RankNormal     Rank = "normal"
	RankDeprecated Rank = "deprecated"
)

// SnakType tells whether a snak carries a value.
type SnakType string

const (
	SnakValue     SnakType = "value"
	SnakSomeValue SnakType = "somevalue"
	SnakNoValue   SnakType = "novalue"
)

// Data value types understood by the exporters.
const (
	DataValueString   = "string"
	DataValueEntityID = "wikibase-entityid"
)

// DataValue is a typed value. Value is the decoded JSON payload.
type DataValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Snak is a property-value pair.
type Snak struct {
	SnakType  SnakType   `json:"snaktype"`
	Property  PropertyID `json:"property"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// Statement is a claim about an entity.
type Statement struct {
	GUID     string `json:"id"`
	MainSnak Snak   `json:"mainsnak"`
	Rank     Rank   `json:"rank"`
}

// StatementList is an ordered list of statements with unique GUIDs.
type StatementList []Statement

// NewStatementGUID mints a GUID for a statement on the given entity.
func NewStatementGUID(entityID string) string {
	return entityID + "$" + strings.ToUpper(uuid.NewString())
}

// GUIDEntityID returns the entity id prefix of a statement GUID.
func GUIDEntityID(guid string) string {
	i := strings.Index(guid, "$")
	if i < 0 {
		return ""
	}
	return guid[:i]
}

// Get returns the statement with the given GUID.
func (l StatementList) Get(guid string) (Statement, bool) {
	for _, s := range l {
		if s.GUID == guid {
			return s, true
		}
	}
	return Statement{}, false
}

// Set replaces the statement with the same GUID, or appends it.
func (l *StatementList) Set(s Statement) {
	for i := range *l {
		if (*l)[i].GUID == s.GUID {
			(*l)[i] = s
			return
		}
	}
	*l = append(*l, s)
}

// Remove deletes the statement with the given GUID and reports whether it existed.
func (l *StatementList) Remove(guid string) bool {
	for i := range *l {
		if (*l)[i].GUID == guid {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Best returns the statements that a reader should see per property:
// preferred ones if any exist, otherwise the normal ones.
func (l StatementList) Best() StatementList {
	preferred := map[PropertyID]bool{}
	for _, s := range l {
		if s.Rank == RankPreferred {
			preferred[s.MainSnak.Property] = true
		}
	}

	var best StatementList
	for _, s := range l {
		switch {
		case s.Rank == RankDeprecated:
		case preferred[s.MainSnak.Property] && s.Rank != RankPreferred:
		default:
			best = append(best, s)
		}
	}
	return best
}

// Clone returns an independent copy.
func (l StatementList) Clone() StatementList {
	if l == nil {
		return nil
	}
	c := make(StatementList, len(l))
	for i, s := range l {
		c[i] = s
		if s.MainSnak.DataValue != nil {
			dv := *s.MainSnak.DataValue
			c[i].MainSnak.DataValue = &dv
		}
	}
	return c
}

// EntityID returns the referenced id of a wikibase-entityid value.
func (dv *DataValue) EntityID() (string, bool) {
	if dv == nil || dv.Type != DataValueEntityID {
		return "", false
	}
	m, ok := dv.Value.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m["id"].(string)
	return id, ok && id != ""
}

// String returns the text of a string value.
func (dv *DataValue) String() (string, bool) {
	if dv == nil || dv.Type != DataValueString {
		return "", false
	}
	s, ok := dv.Value.(string)
	return s, ok
}
