package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/image/colornames"
)

// ModelHandle indexes the model arena. Handles stay valid for the session.
type ModelHandle int32

// FallbackHandle is the plain box used when a model never arrives.
const FallbackHandle ModelHandle = 0

const fallbackKey = "fallback"

// Model is canonical prop geometry: a box footprint and a base colour.
type Model struct {
	Key   string
	Size  mgl32.Vec3 // width, height, depth in cells
	Color mgl32.Vec4
}

// ModelCache is an arena of models shared by every placed prop. The asset
// loader fills it from its own goroutine while the engine polls it.
type ModelCache struct {
	mu     deadlock.RWMutex
	models []Model
	byKey  map[string]ModelHandle
}

// NewModelCache creates a cache holding only the fallback primitive.
func NewModelCache() *ModelCache {
	c := &ModelCache{byKey: make(map[string]ModelHandle)}
	c.Put(fallbackKey, Model{
		Size:  mgl32.Vec3{0.5, 0.5, 0.5},
		Color: toVec4(mustColor(colornames.Gray), 1),
	})
	return c
}

// Put stores a model under key and returns its handle. Replacing a key keeps
// its handle, so props already placed pick up the new geometry.
func (c *ModelCache) Put(key string, m Model) ModelHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	m.Key = key
	if h, ok := c.byKey[key]; ok {
		c.models[h] = m
		return h
	}
	h := ModelHandle(len(c.models))
	c.models = append(c.models, m)
	c.byKey[key] = h
	return h
}

// Lookup returns the handle stored under key.
func (c *ModelCache) Lookup(key string) (ModelHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.byKey[key]
	return h, ok
}

// Model returns the geometry behind a handle. Unknown handles resolve to the fallback.
func (c *ModelCache) Model(h ModelHandle) Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if h < 0 || int(h) >= len(c.models) {
		return c.models[FallbackHandle]
	}
	return c.models[h]
}

// Len returns the number of models, fallback included.
func (c *ModelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.models)
}

// StockModels returns the built-in prop geometry keyed by model key. Hosts
// feed these to Put, typically after an artificial load delay.
func StockModels() map[string]Model {
	box := func(w, h, d float32, name string) Model {
		return Model{Size: mgl32.Vec3{w, h, d}, Color: toVec4(mustColor(colornames.Map[name]), 1)}
	}
	return map[string]Model{
		PropCrate.ModelKey():     box(0.6, 0.5, 0.6, "burlywood"),
		PropConsole.ModelKey():   box(0.8, 0.7, 0.4, "teal"),
		PropLocker.ModelKey():    box(0.5, 0.9, 0.4, "slategray"),
		PropPipeStack.ModelKey(): box(0.3, 0.9, 0.3, "darkorange"),
		PropPlanter.ModelKey():   box(0.5, 0.4, 0.5, "forestgreen"),
		PropBarrel.ModelKey():    box(0.4, 0.6, 0.4, "olive"),
	}
}
