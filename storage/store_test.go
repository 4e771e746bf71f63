package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semlex/lexeme"
)

// testStoreContract runs the behaviour every Store backend must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("lexeme ids are sequential", func(t *testing.T) {
		s := newStore(t)
		first, err := s.NextLexemeID(ctx)
		require.NoError(t, err)
		second, err := s.NextLexemeID(ctx)
		require.NoError(t, err)

		assert.Equal(t, lexeme.LexemeID("L1"), first)
		assert.Equal(t, lexeme.LexemeID("L2"), second)
	})

	t.Run("create get save", func(t *testing.T) {
		s := newStore(t)
		l := lexeme.NewLexeme("L1")
		l.Lemmas.Set(lexeme.Term{Language: "en", Text: "cat"})

		rev, err := s.CreateLexeme(ctx, l)
		require.NoError(t, err)

		_, err = s.CreateLexeme(ctx, l)
		assert.ErrorIs(t, err, ErrConflict)

		got, gotRev, err := s.GetLexeme(ctx, "L1")
		require.NoError(t, err)
		assert.Equal(t, rev, gotRev)
		assert.Equal(t, "cat", got.Lemmas["en"].Text)

		got.Lemmas.Set(lexeme.Term{Language: "de", Text: "Katze"})
		newRev, err := s.SaveLexeme(ctx, got, gotRev)
		require.NoError(t, err)
		assert.Greater(t, newRev, gotRev)

		_, err = s.SaveLexeme(ctx, got, gotRev)
		assert.ErrorIs(t, err, ErrConflict, "stale revision must be rejected")

		reloaded, _, err := s.GetLexeme(ctx, "L1")
		require.NoError(t, err)
		assert.Equal(t, []string{"de", "en"}, reloaded.Lemmas.Languages())
	})

	t.Run("missing lexeme", func(t *testing.T) {
		s := newStore(t)
		_, _, err := s.GetLexeme(ctx, "L404")
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = s.SaveLexeme(ctx, lexeme.NewLexeme("L404"), 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list lexemes", func(t *testing.T) {
		s := newStore(t)
		ids, err := s.ListLexemes(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)

		for _, id := range []lexeme.LexemeID{"L10", "L2", "L1"} {
			_, err := s.CreateLexeme(ctx, lexeme.NewLexeme(id))
			require.NoError(t, err)
		}
		ids, err = s.ListLexemes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []lexeme.LexemeID{"L1", "L2", "L10"}, ids)
	})

	t.Run("items", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutItem(ctx, &lexeme.Item{ID: "Q1860", Labels: lexeme.NewTermList(lexeme.Term{Language: "en", Text: "English"})}))
		require.NoError(t, s.PutItem(ctx, &lexeme.Item{ID: "P5", Labels: lexeme.TermList{}}))
		assert.Error(t, s.PutItem(ctx, &lexeme.Item{ID: "L1"}))

		item, err := s.GetItem(ctx, "Q1860")
		require.NoError(t, err)
		assert.Equal(t, "English", item.Labels["en"].Text)

		_, err = s.GetItem(ctx, "Q2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("has entity", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.PutItem(ctx, &lexeme.Item{ID: "Q1860"}))

		l := lexeme.NewLexeme("L1")
		f, err := l.NewForm()
		require.NoError(t, err)
		l.AttachForm(f)
		_, err = s.CreateLexeme(ctx, l)
		require.NoError(t, err)

		tests := []struct {
			id   lexeme.EntityID
			want bool
		}{
			{lexeme.ItemID("Q1860"), true},
			{lexeme.ItemID("Q1"), false},
			{lexeme.PropertyID("P1"), false},
			{lexeme.LexemeID("L1"), true},
			{lexeme.LexemeID("L2"), false},
			{lexeme.FormID("L1-F1"), true},
			{lexeme.FormID("L1-F2"), false},
			{lexeme.SenseID("L1-S1"), false},
			{lexeme.SenseID("L9-S1"), false},
		}
		for _, tc := range tests {
			got, err := s.HasEntity(ctx, tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, tc.id.String())
		}
	})
}
