// Package storage persists lexemes and the items they refer to.
//
// Two backends implement Store: NATS JetStream KV buckets and SQLite.
// Lexemes are stored whole, forms and senses included, with a revision used
// for optimistic concurrency.
package storage

import (
	"context"
	"fmt"

	"github.com/c360studio/semlex/lexeme"
)

// Store is the persistence interface used by the API and CLI.
type Store interface {
	// GetLexeme returns a lexeme and its current revision.
	GetLexeme(ctx context.Context, id lexeme.LexemeID) (*lexeme.Lexeme, uint64, error)
	// NextLexemeID allocates a fresh lexeme id.
	NextLexemeID(ctx context.Context) (lexeme.LexemeID, error)
	// CreateLexeme stores a new lexeme. It fails with ErrConflict if the id is taken.
	CreateLexeme(ctx context.Context, l *lexeme.Lexeme) (uint64, error)
	// SaveLexeme overwrites a lexeme if its stored revision equals baseRevision.
	SaveLexeme(ctx context.Context, l *lexeme.Lexeme, baseRevision uint64) (uint64, error)
	// ListLexemes returns the ids of all stored lexemes.
	ListLexemes(ctx context.Context) ([]lexeme.LexemeID, error)

	PutItem(ctx context.Context, item *lexeme.Item) error
	GetItem(ctx context.Context, id string) (*lexeme.Item, error)

	// HasEntity reports whether an item, property, lexeme, form or sense exists.
	HasEntity(ctx context.Context, id lexeme.EntityID) (bool, error)

	Close() error
}

// hasEntity implements Store.HasEntity on top of the other Store methods.
func hasEntity(ctx context.Context, s Store, id lexeme.EntityID) (bool, error) {
	var lexemeID lexeme.LexemeID
	switch typed := id.(type) {
	case lexeme.ItemID, lexeme.PropertyID:
		_, err := s.GetItem(ctx, id.String())
		return found(err)
	case lexeme.LexemeID:
		lexemeID = typed
	case lexeme.FormID:
		lexemeID = typed.LexemeID()
	case lexeme.SenseID:
		lexemeID = typed.LexemeID()
	default:
		return false, fmt.Errorf("unsupported entity type %s", id.EntityType())
	}

	l, _, err := s.GetLexeme(ctx, lexemeID)
	if ok, err := found(err); !ok {
		return false, err
	}
	switch typed := id.(type) {
	case lexeme.FormID:
		_, ok := l.Form(typed)
		return ok, nil
	case lexeme.SenseID:
		_, ok := l.Sense(typed)
		return ok, nil
	}
	return true, nil
}

func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func validateItem(item *lexeme.Item) (lexeme.EntityType, error) {
	t, err := item.Type()
	if err != nil {
		return "", fmt.Errorf("store item: %w", err)
	}
	return t, nil
}
