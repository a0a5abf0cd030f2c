package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendContract runs the behaviour every Backend must share.
func backendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	got, ok, err := b.Get(ctx, "report-storage")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	require.NoError(t, b.Put(ctx, "report-storage", []byte(`[{"id":"1"}]`)))
	got, ok, err = b.Get(ctx, "report-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, b.Put(ctx, "report-storage", []byte(`[]`)))
	got, ok, err = b.Get(ctx, "report-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	_, _, err = b.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.ErrorIs(t, b.Put(ctx, "", []byte(`x`)), ErrInvalidKey)
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemoryStorage()
	backendContract(t, m)

	// Returned slices must not alias the stored payload.
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "k", []byte("abc")))
	got, _, _ := m.Get(ctx, "k")
	got[0] = 'z'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
	assert.NoError(t, m.Close())
}

func TestFileStorage(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)
	backendContract(t, fs)

	data, err := os.ReadFile(filepath.Join(dir, "report-storage.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStorage_RejectsPathKeys(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape", "a/b", `a\b`, ".."} {
		err := fs.Put(context.Background(), key, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestFileStorage_ReadError(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStorage(dir)
	require.NoError(t, err)

	// A directory where the file should be cannot be read as a payload.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "report-storage.json"), 0o750))
	_, _, err = fs.Get(context.Background(), "report-storage")
	assert.Error(t, err)
}

func TestSQLiteStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	backendContract(t, s)
	require.NoError(t, s.Close())

	// Payloads survive reopening the database.
	reopened, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, ok, err := reopened.Get(context.Background(), "report-storage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		kind Kind
		dsn  string
		want any
	}{
		{"file", KindFile, dir, &FileStorage{}},
		{"default is file", "", dir, &FileStorage{}},
		{"sqlite", KindSQLite, filepath.Join(dir, "x.db"), &SQLiteStorage{}},
		{"memory", KindMemory, "", &MemoryStorage{}},
		{"case insensitive", "MEMORY", "", &MemoryStorage{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Open(tc.kind, tc.dsn)
			require.NoError(t, err)
			defer b.Close()
			assert.IsType(t, tc.want, b)
		})
	}

	_, err := Open("redis", "")
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = Open(KindPostgres, "some=random")
	assert.ErrorContains(t, err, "ping postgres")
}
