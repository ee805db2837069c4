package plcache

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The default handle is process-wide state, so these tests are serial and
// reset it around themselves.

func TestDefaultReusesSameDir(t *testing.T) {
	t.Cleanup(func() { _ = ResetDefault() })
	require.NoError(t, ResetDefault())

	dir := filepath.Join(t.TempDir(), "cache")
	c1, err := Default(WithDir(dir))
	require.NoError(t, err)
	c2, err := Default(WithDir(dir))
	require.NoError(t, err)
	assert.Same(t, c1, c2, "same resolved dir should reuse the instance")
}

func TestDefaultReplacedOnDirChange(t *testing.T) {
	t.Cleanup(func() { _ = ResetDefault() })
	require.NoError(t, ResetDefault())

	c1, err := Default(WithDir(filepath.Join(t.TempDir(), "one")))
	require.NoError(t, err)
	c2, err := Default(WithDir(filepath.Join(t.TempDir(), "two")))
	require.NoError(t, err)

	assert.NotSame(t, c1, c2)
	// The replaced instance was closed.
	_, err = c1.GetOrCompute(context.Background(), testID, nil, func(context.Context) (Result, error) {
		return Opaque(nil), nil
	})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPackageLevelGetOrCompute(t *testing.T) {
	t.Cleanup(func() { _ = ResetDefault() })
	require.NoError(t, ResetDefault())

	dir := filepath.Join(t.TempDir(), "cache")
	_, err := Default(WithDir(dir))
	require.NoError(t, err)

	var calls atomic.Int32
	compute := func(context.Context) (Result, error) {
		calls.Add(1)
		return Eager(testTable()), nil
	}
	args := Args{{Name: "n", Value: 5}}

	res, err := GetOrCompute(context.Background(), testID, args, compute)
	require.NoError(t, err)
	assert.Equal(t, ShapeEager, res.Shape())

	_, err = GetOrCompute(context.Background(), testID, args, compute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestResetDefaultIdempotent(t *testing.T) {
	require.NoError(t, ResetDefault())
	require.NoError(t, ResetDefault())
}
