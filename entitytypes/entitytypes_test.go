package entitytypes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlex/changeop"
	"github.com/c360studio/semlex/changeop/deserialization"
	"github.com/c360studio/semlex/changeop/validation"
	"github.com/c360studio/semlex/config"
	"github.com/c360studio/semlex/lexeme"
	"github.com/c360studio/semlex/storage"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	store, err := storage.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.PutItem(ctx, &lexeme.Item{
		ID:     "Q146786",
		Labels: lexeme.NewTermList(lexeme.Term{Language: "en", Text: "plural"}),
	}))

	s, err := NewServices(config.DefaultConfig(), store, nil)
	require.NoError(t, err)
	return s
}

func data() validation.Context { return validation.Create(deserialization.ParamData) }

func TestDefinitions(t *testing.T) {
	s := newTestServices(t)

	for _, typ := range s.Types() {
		t.Run(string(typ), func(t *testing.T) {
			d, err := s.Definition(typ)
			require.NoError(t, err)
			assert.Equal(t, typ, d.Type)
			assert.Equal(t, ContentModelLexeme, d.ContentModelID)
			assert.Equal(t, typ, d.NewEntity().EntityType())
			assert.NotNil(t, d.ChangeOpDeserializer)
			assert.NotNil(t, d.RDFBuilder)
			assert.NotNil(t, d.View)
		})
	}

	_, err := s.Definition(lexeme.EntityTypeItem)
	assert.ErrorIs(t, err, ErrUnknownEntityType)
}

func TestLexemeDefinition_Deserialize(t *testing.T) {
	s := newTestServices(t)
	d, err := s.Definition(lexeme.EntityTypeLexeme)
	require.NoError(t, err)

	payload := map[string]any{
		"lemmas": map[string]any{
			"en": map[string]any{"language": "en", "value": "  cat "},
		},
	}
	op, err := d.ChangeOpDeserializer(context.Background(), "L1", payload, data())
	require.NoError(t, err)

	l := lexeme.NewLexeme("L1")
	require.NoError(t, op.Apply(l))
	lemma, ok := l.Lemmas.Get("en")
	require.True(t, ok)
	assert.Equal(t, "cat", lemma.Text)
}

func TestFormDefinition_Deserialize(t *testing.T) {
	s := newTestServices(t)
	d, err := s.Definition(lexeme.EntityTypeForm)
	require.NoError(t, err)

	payload := map[string]any{
		"representations":     map[string]any{"en": map[string]any{"language": "en", "value": "cats"}},
		"grammaticalFeatures": []any{"Q146786"},
	}
	op, err := d.ChangeOpDeserializer(context.Background(), "L1-F1", payload, data())
	require.NoError(t, err)

	f := d.NewEntity().(*lexeme.Form)
	require.NoError(t, op.Apply(f))
	assert.Equal(t, []lexeme.ItemID{"Q146786"}, f.GrammaticalFeatures)

	_, err = d.ChangeOpDeserializer(context.Background(), "L1-F1", map[string]any{
		"grammaticalFeatures": []any{"Q999"},
	}, data())
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validation.KindReference, verr.Kind())
}

func TestReload(t *testing.T) {
	s := newTestServices(t)
	d, err := s.Definition(lexeme.EntityTypeSense)
	require.NoError(t, err)

	payload := map[string]any{
		"glosses": map[string]any{"ko": map[string]any{"language": "ko", "value": "고양이"}},
	}

	_, err = d.ChangeOpDeserializer(context.Background(), "L1-S1", payload, data())
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "not-recognized-language", verr.Code())

	cfg := config.DefaultConfig()
	cfg.Terms.Languages = append(cfg.Terms.Languages, "ko")
	require.NoError(t, s.Reload(cfg))

	_, err = d.ChangeOpDeserializer(context.Background(), "L1-S1", payload, data())
	assert.NoError(t, err)

	cfg.Terms.Languages = []string{"[unclosed"}
	assert.Error(t, s.Reload(cfg))
	assert.True(t, s.TermLanguages.Contains("ko"))
}

func TestRDFBuilderAndView(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	l := lexeme.NewLexeme("L3")
	l.Lemmas.Set(lexeme.Term{Language: "en", Text: "cat"})
	form, err := l.NewForm()
	require.NoError(t, err)
	form.Representations.Set(lexeme.Term{Language: "en", Text: "cats"})
	form.SetGrammaticalFeatures([]lexeme.ItemID{"Q146786"})
	l.AttachForm(form)

	lexDef, err := s.Definition(lexeme.EntityTypeLexeme)
	require.NoError(t, err)
	entities, err := lexDef.RDFBuilder(l, 2)
	require.NoError(t, err)
	assert.Len(t, entities, 2)

	formDef, err := s.Definition(lexeme.EntityTypeForm)
	require.NoError(t, err)
	entities, err = formDef.RDFBuilder(form, 2)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, lexeme.EntityTypeForm, entities[0].EntityType)

	_, err = formDef.RDFBuilder(l, 2)
	assert.ErrorIs(t, err, changeop.ErrWrongEntityType)

	html, err := formDef.View(ctx, form)
	require.NoError(t, err)
	assert.Contains(t, string(html), "cats")
	assert.Contains(t, string(html), ">plural</a>")

	html, err = lexDef.View(ctx, l)
	require.NoError(t, err)
	assert.Contains(t, string(html), "wb-lexeme-L3")
}
