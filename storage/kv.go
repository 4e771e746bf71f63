package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/semlex/lexeme"
)

// Bucket names.
const (
	BucketLexemes = "SEMLEX_LEXEMES"
	BucketItems   = "SEMLEX_ITEMS"
	BucketMeta    = "SEMLEX_META"
)

const (
	lexemeCounterKey = "lexeme_counter"
	maxCounterRetry  = 10
)

// KVStore is a Store backed by NATS JetStream KV buckets.
type KVStore struct {
	lexemes jetstream.KeyValue
	items   jetstream.KeyValue
	meta    jetstream.KeyValue
}

var _ Store = (*KVStore)(nil)

// NewKVStore creates a KVStore with the given JetStream context.
// It creates the necessary KV buckets if they don't exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	lexemes, err := getOrCreateBucket(ctx, js, BucketLexemes)
	if err != nil {
		return nil, fmt.Errorf("create lexemes bucket: %w", err)
	}

	items, err := getOrCreateBucket(ctx, js, BucketItems)
	if err != nil {
		return nil, fmt.Errorf("create items bucket: %w", err)
	}

	meta, err := getOrCreateBucket(ctx, js, BucketMeta)
	if err != nil {
		return nil, fmt.Errorf("create meta bucket: %w", err)
	}

	return &KVStore{
		lexemes: lexemes,
		items:   items,
		meta:    meta,
	}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Semlex %s storage", strings.ToLower(strings.TrimPrefix(name, "SEMLEX_"))),
		History:     5, // Keep last 5 revisions
	})
}

// GetLexeme retrieves a lexeme by id.
func (s *KVStore) GetLexeme(ctx context.Context, id lexeme.LexemeID) (*lexeme.Lexeme, uint64, error) {
	entry, err := s.lexemes.Get(ctx, string(id))
	if err != nil {
		if isNotFound(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("get lexeme: %w", err)
	}

	var l lexeme.Lexeme
	if err := json.Unmarshal(entry.Value(), &l); err != nil {
		return nil, 0, fmt.Errorf("unmarshal lexeme: %w", err)
	}

	return &l, entry.Revision(), nil
}

// NextLexemeID increments the lexeme counter with compare-and-set updates.
func (s *KVStore) NextLexemeID(ctx context.Context) (lexeme.LexemeID, error) {
	for attempt := 0; attempt < maxCounterRetry; attempt++ {
		entry, err := s.meta.Get(ctx, lexemeCounterKey)
		if isNotFound(err) {
			if _, err := s.meta.Create(ctx, lexemeCounterKey, []byte("1")); err != nil {
				if errors.Is(err, jetstream.ErrKeyExists) {
					continue
				}
				return "", fmt.Errorf("create lexeme counter: %w", err)
			}
			return lexeme.NewLexemeID(1), nil
		}
		if err != nil {
			return "", fmt.Errorf("get lexeme counter: %w", err)
		}

		n, err := strconv.Atoi(string(entry.Value()))
		if err != nil {
			return "", fmt.Errorf("parse lexeme counter: %w", err)
		}
		n++
		if _, err := s.meta.Update(ctx, lexemeCounterKey, []byte(strconv.Itoa(n)), entry.Revision()); err != nil {
			if isWrongRevision(err) {
				continue
			}
			return "", fmt.Errorf("update lexeme counter: %w", err)
		}
		return lexeme.NewLexemeID(n), nil
	}
	return "", fmt.Errorf("allocate lexeme id: %w", ErrConflict)
}

// CreateLexeme stores a new lexeme.
func (s *KVStore) CreateLexeme(ctx context.Context, l *lexeme.Lexeme) (uint64, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("marshal lexeme: %w", err)
	}

	rev, err := s.lexemes.Create(ctx, string(l.ID), data)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("store lexeme: %w", err)
	}
	return rev, nil
}

// SaveLexeme updates an existing lexeme if baseRevision is current.
func (s *KVStore) SaveLexeme(ctx context.Context, l *lexeme.Lexeme, baseRevision uint64) (uint64, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("marshal lexeme: %w", err)
	}

	rev, err := s.lexemes.Update(ctx, string(l.ID), data, baseRevision)
	if err != nil {
		if isWrongRevision(err) {
			if _, _, getErr := s.GetLexeme(ctx, l.ID); errors.Is(getErr, ErrNotFound) {
				return 0, ErrNotFound
			}
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("update lexeme: %w", err)
	}
	return rev, nil
}

// ListLexemes returns all lexeme ids in numeric order.
func (s *KVStore) ListLexemes(ctx context.Context) ([]lexeme.LexemeID, error) {
	keys, err := s.lexemes.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list lexeme keys: %w", err)
	}

	ids := make([]lexeme.LexemeID, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, lexeme.LexemeID(key))
	}
	sortLexemeIDs(ids)
	return ids, nil
}

// PutItem stores an item or property record.
func (s *KVStore) PutItem(ctx context.Context, item *lexeme.Item) error {
	if _, err := validateItem(item); err != nil {
		return err
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	if _, err := s.items.Put(ctx, item.ID, data); err != nil {
		return fmt.Errorf("store item: %w", err)
	}
	return nil
}

// GetItem retrieves an item or property record.
func (s *KVStore) GetItem(ctx context.Context, id string) (*lexeme.Item, error) {
	entry, err := s.items.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	var item lexeme.Item
	if err := json.Unmarshal(entry.Value(), &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &item, nil
}

// HasEntity implements Store.
func (s *KVStore) HasEntity(ctx context.Context, id lexeme.EntityID) (bool, error) {
	return hasEntity(ctx, s, id)
}

// Close is a no-op; the NATS connection is owned by the caller.
func (s *KVStore) Close() error { return nil }

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, jetstream.ErrKeyNotFound)
}

// isWrongRevision reports a failed compare-and-set update.
func isWrongRevision(err error) bool {
	var apiErr *jetstream.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence {
		return true
	}
	return strings.Contains(err.Error(), "wrong last sequence")
}

func sortLexemeIDs(ids []lexeme.LexemeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Number() < ids[j].Number() })
}
