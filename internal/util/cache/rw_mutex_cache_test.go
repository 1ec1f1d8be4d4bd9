package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRWMutexCacheUpdate(t *testing.T) {
	require := require.New(t)
	c := NewRWMutexCache[string, int]()
	c.Put("seats/1", 1)
	c.Put("seats/2", 2)
	c.Put("users/1", 3)

	updated := c.Update(func(key string, value int) (int, bool) {
		if !strings.HasPrefix(key, "seats/") {
			return value, false
		}
		return value * 10, true
	})
	require.Equal(2, updated)

	v, found := c.Get("seats/2")
	require.True(found)
	require.Equal(20, v)
	v, _ = c.Get("users/1")
	require.Equal(3, v)

	prev, found := c.Delete("users/1")
	require.True(found)
	require.Equal(3, prev)
	require.Equal(2, c.Len())

	c.Clear()
	require.Equal(0, c.Len())
}
