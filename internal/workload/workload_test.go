package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/btreego/model"
)

func TestUniqueIntKeys(t *testing.T) {
	rng := NewRNG(42)

	keys := rng.UniqueIntKeys(1000, 5000)
	require.Len(t, keys, 1000)

	seen := make(map[model.Key]struct{}, len(keys))
	for _, k := range keys {
		v, ok := k.Int()
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(5000))

		_, dup := seen[k]
		require.False(t, dup, "duplicate key %s", k)
		seen[k] = struct{}{}
	}
}

func TestUniqueIntKeysNarrowSpace(t *testing.T) {
	rng := NewRNG(1)

	// Space below n is widened, so the draw terminates.
	keys := rng.UniqueIntKeys(100, 10)
	require.Len(t, keys, 100)
}

func TestUniqueIntKeysDeterministic(t *testing.T) {
	a := NewRNG(7).UniqueIntKeys(50, 1000)
	b := NewRNG(7).UniqueIntKeys(50, 1000)

	assert.Equal(t, a, b)
}

func TestUniqueStringKeys(t *testing.T) {
	rng := NewRNG(42)

	keys := rng.UniqueStringKeys(100, 1000)
	require.Len(t, keys, 100)

	seen := make(map[model.Key]struct{}, len(keys))
	for _, k := range keys {
		s, ok := k.StringValue()
		require.True(t, ok)
		assert.Contains(t, s, "user-")

		_, dup := seen[k]
		require.False(t, dup)
		seen[k] = struct{}{}
	}
}

func TestShuffledIntKeys(t *testing.T) {
	rng := NewRNG(42)

	keys := rng.ShuffledIntKeys(100)
	require.Len(t, keys, 100)

	seen := make(map[model.Key]struct{}, len(keys))
	for _, k := range keys {
		v, ok := k.Int()
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(100))
		seen[k] = struct{}{}
	}

	assert.Len(t, seen, 100)
}

func TestSample(t *testing.T) {
	rng := NewRNG(42)
	keys := rng.ShuffledIntKeys(10)

	sample := rng.Sample(keys, 100)
	require.Len(t, sample, 100)

	for _, k := range sample {
		assert.Contains(t, keys, k)
	}

	assert.Nil(t, rng.Sample(nil, 5))
}

func TestRecords(t *testing.T) {
	rng := NewRNG(42)

	records := rng.Records(10)
	require.Len(t, records, 10)

	for _, rec := range records {
		assert.Contains(t, rec, "name")
		assert.Contains(t, rec, "email")
		assert.Contains(t, rec, "score")
		assert.Contains(t, rec, "active")
		assert.Contains(t, rec["email"], "@")
	}
}
