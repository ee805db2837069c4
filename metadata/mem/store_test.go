package mem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tunabay/go-infounit"

	"github.com/lmmx/plcache/metadata"
)

func TestSetGetDelete(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	rec := metadata.Record{Path: "/blobs/k1", Lazy: true, Size: 10}

	require.NoError(t, s.Set(ctx, "k1", rec))
	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	require.NoError(t, s.Delete(ctx, "k1"))
	_, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", metadata.Record{Size: 1}))
	require.NoError(t, s.Set(ctx, "b", metadata.Record{Size: 1}))

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Len())
}

func TestEvictionOrder(t *testing.T) {
	t.Parallel()

	s := New(WithSizeLimit(25 * infounit.Byte))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "old", metadata.Record{Size: 10}))
	require.NoError(t, s.Set(ctx, "mid", metadata.Record{Size: 10}))

	// Touching "old" promotes it over "mid".
	_, ok, err := s.Get(ctx, "old")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Set(ctx, "new", metadata.Record{Size: 10}))

	_, ok, _ = s.Get(ctx, "mid")
	assert.False(t, ok, "least recently accessed record should be evicted")
	_, ok, _ = s.Get(ctx, "old")
	assert.True(t, ok)
	_, ok, _ = s.Get(ctx, "new")
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestReplaceAdjustsAccounting(t *testing.T) {
	t.Parallel()

	s := New(WithSizeLimit(100 * infounit.Byte))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", metadata.Record{Size: 90}))
	// Replacing must not double-count the old size.
	require.NoError(t, s.Set(ctx, "k", metadata.Record{Size: 50}))
	require.NoError(t, s.Set(ctx, "other", metadata.Record{Size: 40}))

	assert.Equal(t, 2, s.Len())
}

func TestOversizedRecordEvicted(t *testing.T) {
	t.Parallel()

	s := New(WithSizeLimit(10 * infounit.Byte))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "huge", metadata.Record{Size: 1000}))
	_, ok, err := s.Get(ctx, "huge")
	require.NoError(t, err)
	assert.False(t, ok, "a record alone over the limit cannot be kept")
}
