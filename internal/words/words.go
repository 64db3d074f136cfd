// internal/words/words.go
//
// Dictionary collaborator: validates candidate words against the word table.
//
// Responsibilities:
//   - Case-insensitive lookup (words are stored upper-cased).
//   - Bulk loading of a newline-separated word list into the table.
//
// The engine only ever asks "is this a word"; list management is an
// operator concern exposed through the load endpoint and WORDS_FILE.
package words

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"strings"
)

// Dictionary answers whether a candidate word exists. Implementations must
// compare case-insensitively.
type Dictionary interface {
	IsValid(ctx context.Context, word string) (bool, error)
}

// SQLStore is the SQLite-backed dictionary.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an opened database handle.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// IsValid reports whether the word exists in the dictionary table.
func (s *SQLStore) IsValid(ctx context.Context, word string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM words WHERE word = ?`,
		strings.ToUpper(word),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of loaded words.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM words`).Scan(&count)
	return count, err
}

// Load bulk-inserts a newline-separated word list. Lines are trimmed and
// upper-cased; blanks and single letters are skipped. Returns the number of
// lines offered to the table (duplicates are ignored by the schema).
func (s *SQLStore) Load(ctx context.Context, r io.Reader) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words (word) VALUES (?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	loaded := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if len(w) < 2 {
			continue
		}
		if _, err := stmt.ExecContext(ctx, w); err != nil {
			return 0, err
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return loaded, tx.Commit()
}

// LoadFile loads the word list at path via Load.
func (s *SQLStore) LoadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.Load(ctx, f)
}
