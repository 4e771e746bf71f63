package deserialization

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

type fakeLookup map[string]bool

func (f fakeLookup) HasEntity(_ context.Context, id lexeme.EntityID) (bool, error) {
	return f[id.String()], nil
}

type brokenLookup struct{}

func (brokenLookup) HasEntity(context.Context, lexeme.EntityID) (bool, error) {
	return false, errors.New("connection refused")
}

var knownEntities = fakeLookup{
	"Q1860":   true,
	"Q1084":   true,
	"Q110786": true,
	"Q146786": true,
	"Q146":    true,
	"P5":      true,
}

func testTerms(t *testing.T) Terms {
	t.Helper()
	langs, err := validation.NewTermLanguages([]string{"en", "de", "fr", "mis-x-*"})
	require.NoError(t, err)
	return Terms{
		Languages: validation.LanguageValidator{Languages: langs},
		Length:    validation.LengthValidator{Max: 1000},
	}
}

func newTestDeserializer(t *testing.T, lookup EntityLookup) *LexemeDeserializer {
	t.Helper()
	terms := testTerms(t)
	claims := NewClaimsDeserializer(lookup)
	forms := NewFormListDeserializer(NewFormDeserializer(
		FormIDDeserializer{},
		NewEditFormDeserializer(NewRepresentationsDeserializer(terms), NewGrammaticalFeaturesDeserializer(lookup), claims),
	))
	senses := NewSenseListDeserializer(NewSenseDeserializer(
		SenseIDDeserializer{},
		NewEditSenseDeserializer(NewGlossesDeserializer(terms), claims),
	))
	return NewLexemeDeserializer(
		NewLemmaDeserializer(terms),
		NewLexicalCategoryDeserializer(lookup),
		NewLanguageDeserializer(lookup),
		claims,
		forms,
		senses,
	)
}

func data() validation.Context { return validation.Create(ParamData) }

func term(lang, text string) map[string]any {
	return map[string]any{"language": lang, "value": text}
}

func requireViolation(t *testing.T, err error) *validation.Error {
	t.Helper()
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	return verr
}

func seededLexeme(t *testing.T) *lexeme.Lexeme {
	t.Helper()
	l := lexeme.NewLexeme("L1")
	l.Lemmas.Set(lexeme.Term{Language: "en", Text: "cat"})

	f, err := l.NewForm()
	require.NoError(t, err)
	f.Representations.Set(lexeme.Term{Language: "en", Text: "cats"})
	l.AttachForm(f)

	s, err := l.NewSense()
	require.NoError(t, err)
	s.Glosses.Set(lexeme.Term{Language: "en", Text: "feline"})
	l.AttachSense(s)
	return l
}

func TestLemmaRoundTrip(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	payload := map[string]any{"lemmas": map[string]any{"en": term("en", "cat")}}

	op, err := d.Deserialize(context.Background(), "L1", payload, data())
	require.NoError(t, err)

	l := lexeme.NewLexeme("L1")
	require.NoError(t, op.Apply(l))
	assert.Equal(t, lexeme.NewTermList(lexeme.Term{Language: "en", Text: "cat"}), l.Lemmas)
}

func TestUnknownLanguage(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)

	tests := []struct {
		name     string
		payload  map[string]any
		wantPath []string
	}{
		{
			name:     "lemma",
			payload:  map[string]any{"lemmas": map[string]any{"xx-bad": term("xx-bad", "cat")}},
			wantPath: []string{"lemmas", "xx-bad"},
		},
		{
			name: "gloss",
			payload: map[string]any{"senses": []any{
				map[string]any{"glosses": map[string]any{"en": term("en", "cat"), "zz": term("zz", "x")}},
			}},
			wantPath: []string{"senses", "0", "glosses", "zz"},
		},
		{
			name: "representation",
			payload: map[string]any{"forms": []any{
				map[string]any{"representations": map[string]any{"qq": term("qq", "x")}},
			}},
			wantPath: []string{"forms", "0", "representations", "qq"},
		},
		{
			name:     "declared language differs from key",
			payload:  map[string]any{"lemmas": map[string]any{"en": term("xx-bad", "cat")}},
			wantPath: []string{"lemmas", "xx-bad"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Deserialize(context.Background(), "L1", tc.payload, data())
			verr := requireViolation(t, err)
			assert.IsType(t, validation.UnknownLanguage{}, verr.Err)
			assert.Equal(t, "data", verr.Parameter)
			assert.Equal(t, tc.wantPath, verr.Path)
		})
	}
}

func TestTermLength(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	ctx := context.Background()

	exact := strings.Repeat("ж", 1000)
	op, err := d.Deserialize(ctx, "L1", map[string]any{"lemmas": map[string]any{"en": term("en", exact)}}, data())
	require.NoError(t, err)
	l := lexeme.NewLexeme("L1")
	require.NoError(t, op.Apply(l))
	assert.Equal(t, exact, l.Lemmas["en"].Text)

	tooLong := strings.Repeat("a", 1001)
	tests := []struct {
		name     string
		payload  map[string]any
		wantPath []string
	}{
		{
			name:     "lemma",
			payload:  map[string]any{"lemmas": map[string]any{"en": term("en", tooLong)}},
			wantPath: []string{"lemmas", "en"},
		},
		{
			name: "gloss",
			payload: map[string]any{"senses": []any{
				map[string]any{"add": "", "glosses": map[string]any{"en": term("en", tooLong)}},
			}},
			wantPath: []string{"senses", "0", "glosses", "en"},
		},
		{
			name: "representation",
			payload: map[string]any{"forms": []any{
				map[string]any{"add": "", "representations": map[string]any{"en": term("en", tooLong)}},
			}},
			wantPath: []string{"forms", "0", "representations", "en"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Deserialize(ctx, "L1", tc.payload, data())
			verr := requireViolation(t, err)
			assert.IsType(t, validation.TermTooLong{}, verr.Err)
			assert.Equal(t, "term-too-long", verr.Code())
			assert.Equal(t, tc.wantPath, verr.Path)
		})
	}

	t.Run("boundary on gloss and representation", func(t *testing.T) {
		payload := map[string]any{
			"forms": []any{
				map[string]any{"add": "", "representations": map[string]any{"en": term("en", exact)}},
			},
			"senses": []any{
				map[string]any{"add": "", "glosses": map[string]any{"en": term("en", exact)}},
			},
		}
		op, err := d.Deserialize(ctx, "L1", payload, data())
		require.NoError(t, err)
		l := lexeme.NewLexeme("L1")
		require.NoError(t, op.Apply(l))
		require.Len(t, l.Forms, 1)
		require.Len(t, l.Senses, 1)
		assert.Equal(t, exact, l.Forms[0].Representations["en"].Text)
		assert.Equal(t, exact, l.Senses[0].Glosses["en"].Text)
	})
}

func TestLemmaEntries(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	ctx := context.Background()

	t.Run("remove bypasses validation", func(t *testing.T) {
		payload := map[string]any{"lemmas": map[string]any{
			"en":     map[string]any{"language": "en", "remove": ""},
			"xx-bad": map[string]any{"remove": ""},
		}}
		op, err := d.Deserialize(ctx, "L1", payload, data())
		require.NoError(t, err)

		l := seededLexeme(t)
		require.NoError(t, op.Apply(l))
		assert.Empty(t, l.Lemmas)
	})

	t.Run("empty value removes", func(t *testing.T) {
		op, err := d.Deserialize(ctx, "L1", map[string]any{"lemmas": map[string]any{"en": term("en", "   ")}}, data())
		require.NoError(t, err)

		l := seededLexeme(t)
		require.NoError(t, op.Apply(l))
		assert.Empty(t, l.Lemmas)
	})

	t.Run("text is normalized", func(t *testing.T) {
		op, err := d.Deserialize(ctx, "L1", map[string]any{"lemmas": map[string]any{"de": term("de", "  große \n Katze ")}}, data())
		require.NoError(t, err)

		l := seededLexeme(t)
		require.NoError(t, op.Apply(l))
		assert.Equal(t, "große Katze", l.Lemmas["de"].Text)
		assert.Equal(t, "cat", l.Lemmas["en"].Text)
	})

	t.Run("shape errors", func(t *testing.T) {
		cases := []struct {
			payload  any
			want     validation.APIError
			wantPath []string
		}{
			{[]any{}, validation.JSONFieldHasWrongType{Expected: "object", Given: "array"}, []string{"lemmas"}},
			{map[string]any{"en": "cat"}, validation.JSONFieldHasWrongType{Expected: "object", Given: "string"}, []string{"lemmas", "en"}},
			{map[string]any{"en": map[string]any{"value": "cat"}}, validation.JSONFieldIsRequired{Field: "language"}, []string{"lemmas", "en"}},
			{map[string]any{"en": term("", "cat")}, validation.LexemeTermLanguageCanNotBeEmpty{}, []string{"lemmas", "en"}},
			{map[string]any{"en": term("de", "Katze")}, validation.InconsistentLanguage{Expected: "en", Given: "de"}, []string{"lemmas", "en"}},
		}
		for _, tc := range cases {
			_, err := d.Deserialize(ctx, "L1", map[string]any{"lemmas": tc.payload}, data())
			verr := requireViolation(t, err)
			assert.Equal(t, tc.want, verr.Err)
			assert.Equal(t, tc.wantPath, verr.Path)
		}
	})
}

func TestItemReferences(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	ctx := context.Background()

	op, err := d.Deserialize(ctx, "L1", map[string]any{"language": "q1860", "lexicalCategory": "Q1084"}, data())
	require.NoError(t, err)
	l := lexeme.NewLexeme("L1")
	require.NoError(t, op.Apply(l))
	assert.Equal(t, lexeme.ItemID("Q1860"), l.Language)
	assert.Equal(t, lexeme.ItemID("Q1084"), l.LexicalCategory)

	tests := []struct {
		name  string
		key   string
		value any
		want  validation.APIError
	}{
		{"not a string", "language", 1860.0, validation.JSONFieldHasWrongType{Expected: "string", Given: "number"}},
		{"not an item id", "language", "L1", validation.InvalidItemID{Given: "L1"}},
		{"missing item", "lexicalCategory", "Q999", validation.EntityNotFound{ID: "Q999"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Deserialize(ctx, "L1", map[string]any{tc.key: tc.value}, data())
			verr := requireViolation(t, err)
			assert.Equal(t, tc.want, verr.Err)
			assert.Equal(t, []string{tc.key}, verr.Path)
		})
	}

	t.Run("lookup failure is not a violation", func(t *testing.T) {
		broken := newTestDeserializer(t, brokenLookup{})
		_, err := broken.Deserialize(ctx, "L1", map[string]any{"language": "Q1860"}, data())
		require.Error(t, err)

		var verr *validation.Error
		assert.False(t, errors.As(err, &verr))
	})
}

func TestAddFormTwiceCreatesTwoForms(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	payload := map[string]any{"forms": []any{
		map[string]any{
			"add":                 "",
			"representations":     map[string]any{"en": term("en", "cats")},
			"grammaticalFeatures": []any{"Q146786"},
		},
	}}

	op, err := d.Deserialize(context.Background(), "L1", payload, data())
	require.NoError(t, err)

	l := lexeme.NewLexeme("L1")
	require.NoError(t, op.Apply(l))
	require.NoError(t, op.Apply(l))

	require.Len(t, l.Forms, 2)
	assert.NotEqual(t, l.Forms[0].ID, l.Forms[1].ID)
	assert.Equal(t, l.Forms[0].Representations, l.Forms[1].Representations)
	assert.Equal(t, []lexeme.ItemID{"Q146786"}, l.Forms[1].GrammaticalFeatures)
}

func TestGlossRemovalKeepsSenseIntact(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	payload := map[string]any{"senses": []any{
		map[string]any{"id": "L1-S1", "glosses": map[string]any{"en": map[string]any{"language": "en", "remove": ""}}},
	}}

	op, err := d.Deserialize(context.Background(), "L1", payload, data())
	require.NoError(t, err)

	l := seededLexeme(t)
	verr := requireViolation(t, op.Apply(l))
	assert.IsType(t, validation.GlossesMustNotBeEmpty{}, verr.Err)
	assert.Equal(t, []string{"senses", "0", "glosses"}, verr.Path)
	assert.Equal(t, "feline", l.Senses[0].Glosses["en"].Text)
}

func TestFormListFailFast(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	payload := map[string]any{"forms": []any{
		map[string]any{"representations": map[string]any{"en": term("en", "cats")}},
		map[string]any{"representations": map[string]any{"en": map[string]any{"language": "xx-bad"}}},
	}}

	op, err := d.Deserialize(context.Background(), "L1", payload, data())
	assert.Nil(t, op)

	verr := requireViolation(t, err)
	assert.IsType(t, validation.UnknownLanguage{}, verr.Err)
	assert.Equal(t, []string{"forms", "1", "representations", "xx-bad"}, verr.Path)
	assert.Equal(t, []string{"data", "forms/1/representations/xx-bad", "xx-bad"}, verr.MessageParams())
}

func TestFormAndSenseDispatch(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	ctx := context.Background()

	t.Run("edit and remove", func(t *testing.T) {
		payload := map[string]any{
			"forms": []any{
				map[string]any{"id": "L1-F1", "representations": map[string]any{"de": term("de", "Katzen")}},
			},
			"senses": []any{
				map[string]any{"id": "L1-S1", "remove": ""},
			},
		}
		op, err := d.Deserialize(ctx, "L1", payload, data())
		require.NoError(t, err)

		l := seededLexeme(t)
		require.NoError(t, op.Apply(l))
		assert.Equal(t, []string{"de", "en"}, l.Forms[0].Representations.Languages())
		assert.Empty(t, l.Senses)
	})

	t.Run("add sense", func(t *testing.T) {
		payload := map[string]any{"senses": []any{
			map[string]any{"add": "", "glosses": map[string]any{"fr": term("fr", "chat")}},
		}}
		op, err := d.Deserialize(ctx, "L1", payload, data())
		require.NoError(t, err)

		l := seededLexeme(t)
		require.NoError(t, op.Apply(l))
		require.Len(t, l.Senses, 2)
		assert.Equal(t, lexeme.SenseID("L1-S2"), l.Senses[1].ID)
	})

	t.Run("apply-time not found", func(t *testing.T) {
		payload := map[string]any{"forms": []any{map[string]any{"id": "L1-F7", "remove": ""}}}
		op, err := d.Deserialize(ctx, "L1", payload, data())
		require.NoError(t, err)

		l := seededLexeme(t)
		verr := requireViolation(t, op.Apply(l))
		assert.Equal(t, validation.FormNotFound{ID: "L1-F7"}, verr.Err)
		assert.Equal(t, []string{"forms", "0"}, verr.Path)
		assert.Len(t, l.Forms, 1)
	})

	tests := []struct {
		name     string
		payload  map[string]any
		want     validation.APIError
		wantPath []string
	}{
		{
			name:     "form of another lexeme",
			payload:  map[string]any{"forms": []any{map[string]any{"id": "L2-F1", "remove": ""}}},
			want:     validation.InvalidLexemeField{ID: "L2-F1", Lexeme: "L1"},
			wantPath: []string{"forms", "0", "id"},
		},
		{
			name:     "malformed form id",
			payload:  map[string]any{"forms": []any{map[string]any{"id": "L1-S1"}}},
			want:     validation.InvalidFormID{Given: "L1-S1"},
			wantPath: []string{"forms", "0", "id"},
		},
		{
			name:     "malformed sense id",
			payload:  map[string]any{"senses": []any{map[string]any{"id": "S1"}}},
			want:     validation.InvalidSenseID{Given: "S1"},
			wantPath: []string{"senses", "0", "id"},
		},
		{
			name:     "remove without id",
			payload:  map[string]any{"senses": []any{map[string]any{"remove": ""}}},
			want:     validation.JSONFieldIsRequired{Field: "id"},
			wantPath: []string{"senses", "0"},
		},
		{
			name:     "forms not a list",
			payload:  map[string]any{"forms": map[string]any{}},
			want:     validation.JSONFieldHasWrongType{Expected: "array", Given: "object"},
			wantPath: []string{"forms"},
		},
		{
			name:     "unknown grammatical feature",
			payload:  map[string]any{"forms": []any{map[string]any{"id": "L1-F1", "grammaticalFeatures": []any{"Q146786", "Q5"}}}},
			want:     validation.EntityNotFound{ID: "Q5"},
			wantPath: []string{"forms", "0", "grammaticalFeatures", "1"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Deserialize(ctx, "L1", tc.payload, data())
			verr := requireViolation(t, err)
			assert.Equal(t, tc.want, verr.Err)
			assert.Equal(t, tc.wantPath, verr.Path)
		})
	}
}

func TestClaims(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	ctx := context.Background()

	statement := func(property string) map[string]any {
		return map[string]any{
			"mainsnak": map[string]any{
				"snaktype": "value",
				"property": property,
				"datavalue": map[string]any{
					"type":  "wikibase-entityid",
					"value": map[string]any{"id": "Q146"},
				},
			},
			"rank": "preferred",
		}
	}

	t.Run("list and map shapes", func(t *testing.T) {
		for _, claims := range []any{
			[]any{statement("P5")},
			map[string]any{"P5": []any{statement("P5")}},
		} {
			op, err := d.Deserialize(ctx, "L1", map[string]any{"claims": claims}, data())
			require.NoError(t, err)

			l := lexeme.NewLexeme("L1")
			require.NoError(t, op.Apply(l))
			require.Len(t, l.Claims, 1)
			assert.Equal(t, lexeme.RankPreferred, l.Claims[0].Rank)
			id, ok := l.Claims[0].MainSnak.DataValue.EntityID()
			assert.True(t, ok)
			assert.Equal(t, "Q146", id)
		}
	})

	t.Run("remove", func(t *testing.T) {
		l := lexeme.NewLexeme("L1")
		l.Claims.Set(lexeme.Statement{GUID: "L1$abc", MainSnak: lexeme.Snak{SnakType: lexeme.SnakNoValue, Property: "P5"}})

		op, err := d.Deserialize(ctx, "L1", map[string]any{"claims": []any{map[string]any{"id": "L1$abc", "remove": ""}}}, data())
		require.NoError(t, err)
		require.NoError(t, op.Apply(l))
		assert.Empty(t, l.Claims)
	})

	tests := []struct {
		name     string
		claim    map[string]any
		want     validation.APIError
		wantPath []string
	}{
		{
			name:     "missing mainsnak",
			claim:    map[string]any{"rank": "normal"},
			want:     validation.JSONFieldIsRequired{Field: "mainsnak"},
			wantPath: []string{"claims", "0"},
		},
		{
			name:     "invalid property",
			claim:    map[string]any{"mainsnak": map[string]any{"snaktype": "novalue", "property": "Q5"}},
			want:     validation.InvalidPropertyID{Given: "Q5"},
			wantPath: []string{"claims", "0", "mainsnak", "property"},
		},
		{
			name:     "unknown property",
			claim:    map[string]any{"mainsnak": map[string]any{"snaktype": "novalue", "property": "P99"}},
			want:     validation.EntityNotFound{ID: "P99"},
			wantPath: []string{"claims", "0", "mainsnak", "property"},
		},
		{
			name:     "value snak without value",
			claim:    map[string]any{"mainsnak": map[string]any{"snaktype": "value", "property": "P5"}},
			want:     validation.JSONFieldIsRequired{Field: "datavalue"},
			wantPath: []string{"claims", "0", "mainsnak"},
		},
		{
			name:     "remove without id",
			claim:    map[string]any{"remove": ""},
			want:     validation.JSONFieldIsRequired{Field: "id"},
			wantPath: []string{"claims", "0"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Deserialize(ctx, "L1", map[string]any{"claims": []any{tc.claim}}, data())
			verr := requireViolation(t, err)
			assert.Equal(t, tc.want, verr.Err)
			assert.Equal(t, tc.wantPath, verr.Path)
		})
	}

	t.Run("bad snak type", func(t *testing.T) {
		claim := map[string]any{"mainsnak": map[string]any{"snaktype": "maybe", "property": "P5"}}
		_, err := d.Deserialize(ctx, "L1", map[string]any{"claims": []any{claim}}, data())
		verr := requireViolation(t, err)
		assert.IsType(t, validation.InvalidStatement{}, verr.Err)
		assert.Equal(t, []string{"claims", "0", "mainsnak", "snaktype"}, verr.Path)
	})
}

func TestLexemePayloadMustBeObject(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	_, err := d.Deserialize(context.Background(), "L1", "lemmas", data())
	verr := requireViolation(t, err)
	assert.Equal(t, validation.KindShape, verr.Kind())
	assert.Empty(t, verr.Path)
}

func TestCompositeIsAtomic(t *testing.T) {
	d := newTestDeserializer(t, knownEntities)
	payload := map[string]any{
		"lemmas": map[string]any{"de": term("de", "Katze")},
		"forms":  []any{map[string]any{"id": "L1-F9", "representations": map[string]any{"en": term("en", "x")}}},
	}

	op, err := d.Deserialize(context.Background(), "L1", payload, data())
	require.NoError(t, err)

	l := seededLexeme(t)
	before := l.Clone()
	requireViolation(t, op.Apply(l))
	assert.Equal(t, before, lexeme.Entity(l))
}
