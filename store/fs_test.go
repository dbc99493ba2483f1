package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := NewFS(t.TempDir())

	require.NoError(t, fs.Write(ctx, "raw/departures_20240301.json", []byte(`[]`)))
	require.NoError(t, fs.Write(ctx, "curated/trips_combined_20240301.parquet", []byte{1, 2, 3}))

	data, err := fs.Read(ctx, "raw/departures_20240301.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data)

	entries, err := fs.List(ctx, "raw/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "raw/departures_20240301.json", entries[0].Path)
	assert.WithinDuration(t, time.Now(), entries[0].Modified, time.Minute)
}

func TestFSReadMissing(t *testing.T) {
	fs := NewFS(t.TempDir())
	_, err := fs.Read(context.Background(), "nope.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSListMissingRoot(t *testing.T) {
	fs := NewFS(t.TempDir() + "/does-not-exist")
	entries, err := fs.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFSOverwrite(t *testing.T) {
	ctx := context.Background()
	fs := NewFS(t.TempDir())
	require.NoError(t, fs.Write(ctx, "a.json", []byte("one")))
	require.NoError(t, fs.Write(ctx, "a.json", []byte("two")))
	data, err := fs.Read(ctx, "a.json")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Write(ctx, "raw/planned/departures_2024-03-02.json", []byte("x")))
	require.NoError(t, m.Write(ctx, "raw/planned/departures_2024-03-01.json", []byte("y")))

	_, err := m.Read(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.SetModified("raw/planned/departures_2024-03-01.json", old)

	entries, err := m.List(ctx, "raw/planned/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, old, entries[0].Modified)
}
