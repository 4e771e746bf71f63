package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/c360studio/semlex/lexeme"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entities (
	id       TEXT PRIMARY KEY,
	type     TEXT NOT NULL,
	revision INTEGER NOT NULL,
	data     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(type);
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (and migrates) the database at path. Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	s, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open database and creates the schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// GetLexeme retrieves a lexeme by id.
func (s *SQLiteStore) GetLexeme(ctx context.Context, id lexeme.LexemeID) (*lexeme.Lexeme, uint64, error) {
	var (
		data string
		rev  uint64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, revision FROM entities WHERE id = ? AND type = ?`,
		string(id), string(lexeme.EntityTypeLexeme),
	).Scan(&data, &rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("get lexeme: %w", err)
	}

	var l lexeme.Lexeme
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		return nil, 0, fmt.Errorf("unmarshal lexeme: %w", err)
	}
	return &l, rev, nil
}

// NextLexemeID increments the lexeme counter.
func (s *SQLiteStore) NextLexemeID(ctx context.Context) (lexeme.LexemeID, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO counters (name, value) VALUES ('lexeme', 1)
		 ON CONFLICT(name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`,
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("allocate lexeme id: %w", err)
	}
	return lexeme.NewLexemeID(n), nil
}

// CreateLexeme stores a new lexeme at revision 1.
func (s *SQLiteStore) CreateLexeme(ctx context.Context, l *lexeme.Lexeme) (uint64, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("marshal lexeme: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (id, type, revision, data) VALUES (?, ?, 1, ?)`,
		string(l.ID), string(lexeme.EntityTypeLexeme), string(data),
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("store lexeme: %w", err)
	}
	return 1, nil
}

// SaveLexeme updates a lexeme if baseRevision is current.
func (s *SQLiteStore) SaveLexeme(ctx context.Context, l *lexeme.Lexeme, baseRevision uint64) (uint64, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("marshal lexeme: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE entities SET data = ?, revision = revision + 1
		 WHERE id = ? AND type = ? AND revision = ?`,
		string(data), string(l.ID), string(lexeme.EntityTypeLexeme), baseRevision,
	)
	if err != nil {
		return 0, fmt.Errorf("update lexeme: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update lexeme: %w", err)
	}
	if n == 0 {
		if _, _, err := s.GetLexeme(ctx, l.ID); errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, ErrConflict
	}
	return baseRevision + 1, nil
}

// ListLexemes returns all lexeme ids in numeric order.
func (s *SQLiteStore) ListLexemes(ctx context.Context) ([]lexeme.LexemeID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM entities WHERE type = ?`, string(lexeme.EntityTypeLexeme))
	if err != nil {
		return nil, fmt.Errorf("list lexemes: %w", err)
	}
	defer rows.Close()

	var ids []lexeme.LexemeID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lexeme id: %w", err)
		}
		ids = append(ids, lexeme.LexemeID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lexemes: %w", err)
	}
	sortLexemeIDs(ids)
	return ids, nil
}

// PutItem stores an item or property record.
func (s *SQLiteStore) PutItem(ctx context.Context, item *lexeme.Item) error {
	t, err := validateItem(item)
	if err != nil {
		return err
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (id, type, revision, data) VALUES (?, ?, 1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, revision = entities.revision + 1`,
		item.ID, string(t), string(data),
	)
	if err != nil {
		return fmt.Errorf("store item: %w", err)
	}
	return nil
}

// GetItem retrieves an item or property record.
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (*lexeme.Item, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM entities WHERE id = ? AND type IN (?, ?)`,
		id, string(lexeme.EntityTypeItem), string(lexeme.EntityTypeProperty),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	var item lexeme.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &item, nil
}

// HasEntity implements Store.
func (s *SQLiteStore) HasEntity(ctx context.Context, id lexeme.EntityID) (bool, error) {
	return hasEntity(ctx, s, id)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "constraint failed")
}
