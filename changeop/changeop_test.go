package changeop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/lexeme"
)

func testLexeme(t *testing.T) *lexeme.Lexeme {
	t.Helper()
	l := lexeme.NewLexeme("L1")
	l.Lemmas.Set(lexeme.Term{Language: "en", Text: "cat"})

	f, err := l.NewForm()
	require.NoError(t, err)
	f.Representations.Set(lexeme.Term{Language: "en", Text: "cats"})
	l.AttachForm(f)

	s, err := l.NewSense()
	require.NoError(t, err)
	s.Glosses.Set(lexeme.Term{Language: "en", Text: "small feline"})
	l.AttachSense(s)
	return l
}

type failingOp struct{}

func (failingOp) Apply(lexeme.Entity) error { return errors.New("boom") }

func TestChangeOpsAtomic(t *testing.T) {
	l := testLexeme(t)
	before := l.Clone()

	ops := ChangeOps{
		SetLemma(lexeme.Term{Language: "de", Text: "Katze"}),
		SetLanguage{Language: "Q188"},
		failingOp{},
	}

	err := ops.Apply(l)
	require.Error(t, err)
	assert.Equal(t, before, lexeme.Entity(l), "failed apply must not mutate the target")

	require.NoError(t, ops[:2].Apply(l))
	assert.Equal(t, "Katze", l.Lemmas["de"].Text)
	assert.Equal(t, lexeme.ItemID("Q188"), l.Language)
}

func TestTermOps(t *testing.T) {
	l := testLexeme(t)

	require.NoError(t, ChangeOps{
		SetLemma(lexeme.Term{Language: "de", Text: "Katze"}),
		RemoveLemma("en"),
		RemoveLemma("fr"),
	}.Apply(l))

	assert.Equal(t, []string{"de"}, l.Lemmas.Languages())

	err := SetGloss(lexeme.Term{Language: "en", Text: "x"}).Apply(l)
	assert.ErrorIs(t, err, ErrWrongEntityType)
}

func TestGlossListMustNotBeEmpty(t *testing.T) {
	l := testLexeme(t)
	vc := validation.Create("data").At("senses").AtIndex(0).At("glosses")

	op := EditSense{
		ID:      "L1-S1",
		Edit:    ChangeOps{GlossList(ChangeOps{RemoveGloss("en")}, vc)},
		Context: vc,
	}

	err := op.Apply(l)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.IsType(t, validation.GlossesMustNotBeEmpty{}, verr.Err)
	assert.Equal(t, []string{"senses", "0", "glosses"}, verr.Path)
	assert.Equal(t, "small feline", l.Senses[0].Glosses["en"].Text, "sense must be untouched")

	replace := EditSense{
		ID: "L1-S1",
		Edit: ChangeOps{GlossList(ChangeOps{
			RemoveGloss("en"),
			SetGloss(lexeme.Term{Language: "de", Text: "kleine Katze"}),
		}, vc)},
	}
	require.NoError(t, replace.Apply(l))
	assert.Equal(t, []string{"de"}, l.Senses[0].Glosses.Languages())
}

func TestAddForm(t *testing.T) {
	l := testLexeme(t)
	vc := validation.Create("data").At("forms").AtIndex(0)

	op := AddForm{
		Edit: ChangeOps{
			RepresentationList(ChangeOps{SetRepresentation(lexeme.Term{Language: "en", Text: "cat's"})}, vc),
			SetGrammaticalFeatures{Features: []lexeme.ItemID{"Q2", "Q1"}},
		},
		Context: vc,
	}

	require.NoError(t, op.Apply(l))
	require.NoError(t, op.Apply(l))

	require.Len(t, l.Forms, 3)
	assert.Equal(t, lexeme.FormID("L1-F2"), l.Forms[1].ID)
	assert.Equal(t, lexeme.FormID("L1-F3"), l.Forms[2].ID)
	assert.Equal(t, []lexeme.ItemID{"Q1", "Q2"}, l.Forms[2].GrammaticalFeatures)

	t.Run("without representation", func(t *testing.T) {
		before := l.Clone()
		err := AddForm{Context: vc}.Apply(l)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.IsType(t, validation.FormMustHaveRepresentation{}, verr.Err)
		assert.Equal(t, before, lexeme.Entity(l))
	})
}

func TestAddSenseRequiresGloss(t *testing.T) {
	l := testLexeme(t)
	vc := validation.Create("data").At("senses").AtIndex(0)

	err := AddSense{Context: vc}.Apply(l)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.IsType(t, validation.GlossesMustNotBeEmpty{}, verr.Err)
	assert.Equal(t, 2, l.NextSenseID, "failed add must not consume an id")
}

func TestSubEntityNotFound(t *testing.T) {
	l := testLexeme(t)
	vc := validation.Create("data").At("forms").AtIndex(0)

	tests := []struct {
		name string
		op   ChangeOp
		want validation.APIError
	}{
		{"edit form", EditForm{ID: "L1-F9", Context: vc}, validation.FormNotFound{ID: "L1-F9"}},
		{"remove form", RemoveForm{ID: "L1-F9", Context: vc}, validation.FormNotFound{ID: "L1-F9"}},
		{"edit sense", EditSense{ID: "L1-S9", Context: vc}, validation.SenseNotFound{ID: "L1-S9"}},
		{"remove sense", RemoveSense{ID: "L1-S9", Context: vc}, validation.SenseNotFound{ID: "L1-S9"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var verr *validation.Error
			require.ErrorAs(t, tc.op.Apply(l), &verr)
			assert.Equal(t, tc.want, verr.Err)
			assert.Equal(t, validation.KindReference, verr.Kind())
		})
	}

	require.NoError(t, RemoveForm{ID: "L1-F1"}.Apply(l))
	assert.Empty(t, l.Forms)
}

func TestStatementOps(t *testing.T) {
	l := testLexeme(t)
	vc := validation.Create("data").At("claims").AtIndex(0)

	set := SetStatement{
		Statement: lexeme.Statement{MainSnak: lexeme.Snak{SnakType: lexeme.SnakNoValue, Property: "P5"}},
		Context:   vc,
	}
	require.NoError(t, set.Apply(l))
	require.Len(t, l.Claims, 1)
	guid := l.Claims[0].GUID
	assert.Equal(t, "L1", lexeme.GUIDEntityID(guid))
	assert.Equal(t, lexeme.RankNormal, l.Claims[0].Rank)

	foreign := SetStatement{
		Statement: lexeme.Statement{GUID: "L2$abc", MainSnak: lexeme.Snak{SnakType: lexeme.SnakNoValue, Property: "P5"}},
		Context:   vc,
	}
	var verr *validation.Error
	require.ErrorAs(t, foreign.Apply(l), &verr)
	assert.IsType(t, validation.InvalidStatement{}, verr.Err)

	require.NoError(t, RemoveStatement{GUID: guid, Context: vc}.Apply(l))
	require.ErrorAs(t, RemoveStatement{GUID: guid, Context: vc}.Apply(l), &verr)
	assert.IsType(t, validation.StatementNotFound{}, verr.Err)

	formStatement := EditForm{ID: "L1-F1", Edit: ChangeOps{set}}
	require.NoError(t, formStatement.Apply(l))
	assert.Equal(t, "L1-F1", lexeme.GUIDEntityID(l.Forms[0].Claims[0].GUID))
}
