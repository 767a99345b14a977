package render

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCacheHandles(t *testing.T) {
	c := NewModelCache()
	require.Equal(t, 1, c.Len())
	h, ok := c.Lookup(fallbackKey)
	require.True(t, ok)
	assert.Equal(t, FallbackHandle, h)

	crate := c.Put("prop/crate", Model{Size: mgl32.Vec3{1, 1, 1}})
	assert.Equal(t, ModelHandle(1), crate)

	again := c.Put("prop/crate", Model{Size: mgl32.Vec3{2, 2, 2}})
	assert.Equal(t, crate, again, "replacing keeps the handle")
	assert.Equal(t, float32(2), c.Model(crate).Size.X())
	assert.Equal(t, "prop/crate", c.Model(crate).Key)

	assert.Equal(t, fallbackKey, c.Model(99).Key)
	assert.Equal(t, fallbackKey, c.Model(-1).Key)

	_, ok = c.Lookup("prop/none")
	assert.False(t, ok)
}

func TestModelCacheConcurrentLoad(t *testing.T) {
	c := NewModelCache()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.Put(fmt.Sprintf("m/%d", i), Model{})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if h, ok := c.Lookup(fmt.Sprintf("m/%d", i)); ok {
				_ = c.Model(h)
			}
		}
	}()
	wg.Wait()
	assert.Equal(t, 201, c.Len())
}
