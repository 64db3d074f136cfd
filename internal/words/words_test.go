package words

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE words (word TEXT PRIMARY KEY) WITHOUT ROWID;`)
	require.NoError(t, err)
	return db
}

func TestLoadAndIsValid(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openTestDB(t))

	n, err := s.Load(ctx, strings.NewReader("cat\nDOG\n  bird  \n\nx\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, n, "blank lines and single letters are skipped")

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	for _, w := range []string{"cat", "CAT", "Dog", "BIRD"} {
		ok, err := s.IsValid(ctx, w)
		require.NoError(t, err)
		assert.True(t, ok, "%q should be valid", w)
	}
	ok, err := s.IsValid(ctx, "fish")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(openTestDB(t))

	_, err := s.Load(ctx, strings.NewReader("cat\ndog"))
	require.NoError(t, err)
	_, err = s.Load(ctx, strings.NewReader("cat\ndog"))
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
