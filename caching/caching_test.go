package caching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrSet(t *testing.T) {
	c := NewCache()
	defer c.Flush()

	calls := 0
	compute := func() ([]int, error) {
		calls++
		return []int{1, 2}, nil
	}

	v, err := GetOrSet(c, TrendingKey(5), TTLTrending, compute)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)

	v, err = GetOrSet(c, TrendingKey(5), TTLTrending, compute)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, v)
	assert.Equal(t, 1, calls)
}

func TestGetOrSetError(t *testing.T) {
	c := NewCache()
	defer c.Flush()

	boom := errors.New("boom")
	_, err := GetOrSet(c, "k", TTLTrending, func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, found := c.Memory().Get("k")
	assert.False(t, found)
}

func TestInvalidatePrefix(t *testing.T) {
	c := NewCache()
	defer c.Flush()

	c.Memory().SetDefault(TrendingKey(5), 1)
	c.Memory().SetDefault(TrendingKey(10), 2)
	c.Memory().SetDefault("other", 3)

	c.InvalidatePrefix(KeyTrendingPrefix)
	assert.Equal(t, 1, c.Memory().ItemCount())
	_, found := c.Memory().Get("other")
	assert.True(t, found)
}

func TestFlushCancelsContext(t *testing.T) {
	c := NewCache()
	c.Flush()
	assert.Error(t, c.GetCtx().Err())
}
