package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/world"
)

func stockCache() *ModelCache {
	c := NewModelCache()
	for key, m := range StockModels() {
		c.Put(key, m)
	}
	return c
}

func TestPlanIsDeterministic(t *testing.T) {
	snap := scenario()
	room := snap.Rooms[0]
	tuning := config.Default().Engine

	a := NewPlacer(tuning, NewModelCache()).Plan(room, snap)
	b := NewPlacer(tuning, stockCache()).Plan(room, snap)
	require.Len(t, a, 6, "36 cells / 6")
	assert.Equal(t, a, b)

	for i := 1; i < len(a); i++ {
		prev, cur := a[i-1], a[i]
		ordered := prev.Key < cur.Key ||
			(prev.Key == cur.Key && (prev.Y < cur.Y || (prev.Y == cur.Y && prev.X < cur.X)))
		assert.True(t, ordered, "placement %d out of order", i)
	}
	for _, p := range a {
		assert.True(t, room.Contains(p.X, p.Y))
		assert.False(t, p.X == snap.PlayerX && p.Y == snap.PlayerY, "player cell")
		assert.Less(t, p.Kind, propKindCount)
		assert.Equal(t, propKey(p.X, p.Y, tuning.DecorSeed), p.Key)
	}

	tuning.DecorSeed++
	c := NewPlacer(tuning, NewModelCache()).Plan(room, snap)
	assert.NotEqual(t, a, c, "seed changes the layout")
}

func TestPlanSkipsOccupiedCells(t *testing.T) {
	snap := scenario()
	room := world.Room{ID: 9, X: 2, Y: 2, Width: 2, Height: 1}
	snap.Entities = []world.Entity{{ID: 1, Kind: world.EntityCrew, X: 2, Y: 2}}

	plan := NewPlacer(config.Default().Engine, NewModelCache()).Plan(room, snap)
	require.Len(t, plan, 1)
	assert.Equal(t, 3, plan[0].X)
}

func TestPlaceCapsPropCount(t *testing.T) {
	g := world.NewGrid(20, 20)
	room := world.Room{ID: 1, X: 1, Y: 1, Width: 12, Height: 12}
	carveRoom(g, room)
	snap := &world.Snapshot{Grid: g, Rooms: []world.Room{room}, PlayerX: -1, PlayerY: -1}

	plan := NewPlacer(config.Default().Engine, NewModelCache()).Plan(room, snap)
	assert.Len(t, plan, 8)
}

func TestPlaceIsIdempotent(t *testing.T) {
	snap := scenario()
	room := snap.Rooms[0]
	p := NewPlacer(config.Default().Engine, stockCache())
	group := &Group{Key: GroupKey{Kind: GroupRoom, RoomID: room.ID}}

	require.Equal(t, PlaceDone, p.Place(room, snap, group))
	n := len(group.Props())
	assert.Equal(t, 6, n)
	assert.True(t, p.Decorated(room.ID))

	snap.PlayerX, snap.PlayerY = 3, 3
	assert.Equal(t, PlaceAlready, p.Place(room, snap, group))
	assert.Len(t, group.Props(), n)

	for _, prop := range group.Props() {
		assert.NotEqual(t, FallbackHandle, prop.Handle)
		assert.Equal(t, prop.Kind.ModelKey(), p.cache.Model(prop.Handle).Key)
	}
}

func TestPlaceDefersThenFallsBack(t *testing.T) {
	snap := scenario()
	room := snap.Rooms[0]
	tuning := config.Default().Engine
	p := NewPlacer(tuning, NewModelCache())
	group := &Group{}

	for i := 0; i < tuning.DecorDeferFrames; i++ {
		require.Equal(t, PlaceDeferred, p.Place(room, snap, group), "frame %d", i)
	}
	assert.Equal(t, 1, p.Pending())
	assert.Empty(t, group.Props())

	require.Equal(t, PlaceDone, p.Place(room, snap, group))
	assert.Zero(t, p.Pending())
	require.Len(t, group.Props(), 6)
	for _, prop := range group.Props() {
		assert.Equal(t, FallbackHandle, prop.Handle)
	}
}

func TestPlaceResolvesLateGeometry(t *testing.T) {
	snap := scenario()
	room := snap.Rooms[0]
	cache := NewModelCache()
	p := NewPlacer(config.Default().Engine, cache)
	group := &Group{}

	assert.Equal(t, PlaceDeferred, p.Place(room, snap, group))
	for key, m := range StockModels() {
		cache.Put(key, m)
	}
	assert.Equal(t, PlaceDone, p.Place(room, snap, group))
	for _, prop := range group.Props() {
		assert.NotEqual(t, FallbackHandle, prop.Handle)
	}
}

func TestPlaceSkipsRoomWithoutCandidates(t *testing.T) {
	g := world.NewGrid(6, 6)
	room := world.Room{ID: 4, X: 1, Y: 1, Width: 2, Height: 1}
	g.SetType(1, 1, world.CellCorridor)
	g.SetType(2, 1, world.CellFloor)
	snap := &world.Snapshot{Grid: g, Rooms: []world.Room{room}, PlayerX: 2, PlayerY: 1}

	p := NewPlacer(config.Default().Engine, stockCache())
	group := &Group{}
	assert.Equal(t, PlaceSkipped, p.Place(room, snap, group))
	assert.True(t, p.Decorated(room.ID))
	assert.Empty(t, group.Props())
	assert.Equal(t, "skipped", PlaceSkipped.String())
}

func TestEveryPropKindHasModel(t *testing.T) {
	stock := StockModels()
	seen := map[string]bool{}
	for k := PropKind(0); k < propKindCount; k++ {
		key := k.ModelKey()
		assert.NotEqual(t, fallbackKey, key)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
		assert.Contains(t, stock, key)
	}
	assert.Equal(t, fallbackKey, propKindCount.ModelKey())
}
