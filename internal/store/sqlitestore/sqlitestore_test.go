package sqlitestore

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "shoplist-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreKVContract(t *testing.T) {
	s := setupStore(t)

	_, ok, err := s.Get("items")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("items", `["Eggs"]`))
	v, ok, err := s.Get("items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["Eggs"]`, v)

	require.NoError(t, s.Set("items", `["Milk"]`))
	v, _, _ = s.Get("items")
	assert.Equal(t, `["Milk"]`, v)

	require.NoError(t, s.Delete("items"))
	_, ok, err = s.Get("items")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMigrateRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateUp(db))
	require.NoError(t, MigrateDown(db))
	require.NoError(t, MigrateUp(db))

	s, err := New(db)
	require.NoError(t, err)
	require.NoError(t, s.Set("items", `[]`))
	v, ok, err := s.Get("items")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestNewRejectsNilDB(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
