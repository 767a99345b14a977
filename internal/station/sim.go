package station

import (
	"math/rand/v2"

	"github.com/mlange-42/ark/ecs"
	"github.com/sirupsen/logrus"

	"github.com/spacehole-rogue/deckview/internal/logger"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// Tick intervals (at 60 TPS)
const (
	droneInterval = 20  // drones step three times a second
	ventInterval  = 30  // vents push heat twice a second
	decayInterval = 120 // hazards settle every 2 sec
	movingWindow  = 15  // ticks after a step that still count as moving
)

const (
	sightRadius  = 6 // corridor flood radius in cells
	droneCount   = 3
	ventChance   = 3 // one room in ventChance gets a vent
	hazardDecay  = 0.97
	smokePerHeat = 0.5
	eventLines   = 32
	breachLevel  = 0.5 // pressure below this reads as a breach
)

// Sim is the demo simulation. It owns the station state the renderer
// reads through Snapshot.
type Sim struct {
	ECS     *ecs.World
	Station *Station
	Grid    *world.Grid
	Ticks   uint64
	Turn    uint64
	Overlay world.HazardOverlay
	Events  *EventLog

	room             int // index into Station.Rooms, -1 in a corridor
	facingX, facingY int
	lastMove         uint64
	moved            bool
	nextID           int

	player   ecs.Entity
	posMap   *ecs.Map[Position]
	actors   *ecs.Filter2[Position, Actor]
	patrols  *ecs.Filter2[Position, Patrol]
	vents    *ecs.Filter2[Position, Vent]
	occupied map[Position]bool

	rng *rand.Rand
	log *logrus.Entry
}

// NewSim creates a simulation on st and populates it from seed.
func NewSim(st *Station, seed int64) *Sim {
	w := ecs.NewWorld(256)

	player := ecs.NewMap2[Position, PlayerControlled](w).NewEntity(
		&Position{X: st.SpawnX, Y: st.SpawnY},
		&PlayerControlled{},
	)

	s := &Sim{
		ECS:      w,
		Station:  st,
		Grid:     st.Grid,
		facingY:  -1,
		room:     -1,
		Events:   NewEventLog(eventLines),
		player:   player,
		posMap:   ecs.NewMap[Position](w),
		actors:   ecs.NewFilter2[Position, Actor](w),
		patrols:  ecs.NewFilter2[Position, Patrol](w),
		vents:    ecs.NewFilter2[Position, Vent](w),
		occupied: make(map[Position]bool),
		rng:      rand.New(rand.NewPCG(uint64(seed), 0x5eed)),
		log:      logger.Component("station"),
	}
	s.populate()
	s.updateVisibility()
	s.Events.Add("Docked at "+st.Name+".", PriorityInfo, 0)
	s.enterRoom()

	s.log.WithFields(logrus.Fields{
		"station": st.Name,
		"rooms":   len(st.Rooms),
		"spawn_x": st.SpawnX,
		"spawn_y": st.SpawnY,
	}).Info("station ready")
	return s
}

// populate places terminals and crates in rooms, vents in some rooms and
// drones in the corridors.
func (s *Sim) populate() {
	actorMap := ecs.NewMap2[Position, Actor](s.ECS)
	droneMap := ecs.NewMap3[Position, Actor, Patrol](s.ECS)
	ventMap := ecs.NewMap3[Position, Actor, Vent](s.ECS)

	for i, r := range s.Station.Rooms {
		if p, ok := s.freeCellIn(r); ok {
			actorMap.NewEntity(&p, &Actor{ID: s.newID(), Kind: world.EntityTerminal})
		}
		if p, ok := s.freeCellIn(r); ok && r.Area() >= 12 {
			actorMap.NewEntity(&p, &Actor{ID: s.newID(), Kind: world.EntityCrate})
		}
		if i > 0 && s.rng.IntN(ventChance) == 0 {
			if p, ok := s.freeCellIn(r); ok {
				ventMap.NewEntity(&p, &Actor{ID: s.newID(), Kind: world.EntityHazardVent}, &Vent{Radius: 2, Output: 0.08})
			}
		}
	}

	var corridor []Position
	for y := 0; y < s.Grid.Height; y++ {
		for x := 0; x < s.Grid.Width; x++ {
			if s.Grid.Get(x, y).Type == world.CellCorridor && !s.occupied[Position{x, y}] {
				corridor = append(corridor, Position{x, y})
			}
		}
	}
	for i := 0; i < droneCount && len(corridor) > 0; i++ {
		k := s.rng.IntN(len(corridor))
		p := corridor[k]
		corridor = append(corridor[:k], corridor[k+1:]...)
		if p == s.PlayerPosition() {
			continue
		}
		s.occupied[p] = true
		dir := 1 - 2*(i%2)
		droneMap.NewEntity(&p, &Actor{ID: s.newID(), Kind: world.EntityDrone}, &Patrol{DX: dir})
	}
}

func (s *Sim) newID() int {
	s.nextID++
	return s.nextID
}

// freeCellIn picks a random walkable, unoccupied floor cell of a room.
func (s *Sim) freeCellIn(r world.Room) (Position, bool) {
	px, py := s.PlayerPos()
	for attempt := 0; attempt < 16; attempt++ {
		p := Position{r.X + s.rng.IntN(r.Width), r.Y + s.rng.IntN(r.Height)}
		if s.Grid.IsWalkable(p.X, p.Y) && !s.occupied[p] && (p.X != px || p.Y != py) {
			s.occupied[p] = true
			return p, true
		}
	}
	return Position{}, false
}

// PlayerPos returns the player's current cell.
func (s *Sim) PlayerPos() (int, int) {
	pos := s.posMap.Get(s.player)
	return pos.X, pos.Y
}

// PlayerPosition returns the player's cell as a Position.
func (s *Sim) PlayerPosition() Position {
	return *s.posMap.Get(s.player)
}

// TryMovePlayer attempts to move the player by (dx, dy). Facing follows the
// attempted step even when it is blocked.
func (s *Sim) TryMovePlayer(dx, dy int) bool {
	s.facingX, s.facingY = dx, dy
	pos := s.posMap.Get(s.player)
	nx, ny := pos.X+dx, pos.Y+dy
	if !s.Grid.IsWalkable(nx, ny) || s.occupied[Position{nx, ny}] {
		if c := s.Grid.At(nx, ny); c != nil && c.Type == world.CellLockedDoor {
			s.Events.Add("The door is sealed.", PriorityWarning, s.Turn)
		}
		return false
	}
	pos.X, pos.Y = nx, ny
	s.Turn++
	s.lastMove = s.Ticks
	s.moved = true
	s.updateVisibility()
	s.enterRoom()
	return true
}

// enterRoom logs the player crossing into a different room, warning about
// breached rooms on entry.
func (s *Sim) enterRoom() {
	px, py := s.PlayerPos()
	room := -1
	for i, r := range s.Station.Rooms {
		if r.Contains(px, py) {
			room = i
			break
		}
	}
	if room == s.room {
		return
	}
	s.room = room
	if room < 0 {
		return
	}
	r := s.Station.Rooms[room]
	s.Events.Add("Entered "+r.Name+".", PriorityDiscovery, s.Turn)
	if s.Grid.Get(px, py).Pressure < breachLevel {
		s.Events.Add("Pressure loss in "+r.Name+". Hull breach suspected.", PriorityCritical, s.Turn)
	}
}

// Underfoot describes the cell the player stands on, hazards included.
func (s *Sim) Underfoot() string {
	px, py := s.PlayerPos()
	return s.Grid.Get(px, py).Describe()
}

// Location names the room the player is in, or "" in a corridor.
func (s *Sim) Location() string {
	if s.room < 0 {
		return ""
	}
	return s.Station.Rooms[s.room].Name
}

// CycleOverlay switches to the next hazard overlay.
func (s *Sim) CycleOverlay() world.HazardOverlay {
	s.Overlay = s.Overlay.Next()
	s.Events.Add("Overlay: "+s.Overlay.String()+".", PriorityInfo, s.Turn)
	return s.Overlay
}

// Tick advances the simulation by one step.
func (s *Sim) Tick() {
	s.Ticks++
	if s.Ticks-s.lastMove > movingWindow {
		s.moved = false
	}
	if s.Ticks%droneInterval == 0 {
		s.tickDrones()
	}
	if s.Ticks%ventInterval == 0 {
		s.tickVents()
	}
	if s.Ticks%decayInterval == 0 {
		s.tickDecay()
	}
}

// tickDrones steps every patrol, reversing at walls and occupied cells.
func (s *Sim) tickDrones() {
	player := s.PlayerPosition()
	q := s.patrols.Query()
	for q.Next() {
		pos, patrol := q.Get()
		next := Position{pos.X + patrol.DX, pos.Y + patrol.DY}
		if !s.Grid.IsWalkable(next.X, next.Y) || s.occupied[next] || next == player {
			patrol.DX, patrol.DY = -patrol.DX, -patrol.DY
			continue
		}
		delete(s.occupied, *pos)
		*pos = next
		s.occupied[next] = true
	}
}

// tickVents adds heat and smoke around every vent.
func (s *Sim) tickVents() {
	q := s.vents.Query()
	for q.Next() {
		pos, vent := q.Get()
		for dy := -vent.Radius; dy <= vent.Radius; dy++ {
			for dx := -vent.Radius; dx <= vent.Radius; dx++ {
				d := abs(dx) + abs(dy)
				c := s.Grid.At(pos.X+dx, pos.Y+dy)
				if d > vent.Radius || c == nil || !c.Walkable {
					continue
				}
				add := vent.Output / float64(d+1)
				c.Heat = min(c.Heat+add, 1)
				c.Smoke = min(c.Smoke+add*smokePerHeat, 1)
			}
		}
	}
}

// tickDecay lets heat and smoke settle back toward nominal.
func (s *Sim) tickDecay() {
	for i := range s.Grid.Cells {
		c := &s.Grid.Cells[i]
		c.Heat *= hazardDecay
		c.Smoke *= hazardDecay
	}
}

// updateVisibility recomputes what the player can see. Inside a room the
// whole room and its walls are visible; everywhere the player floods out
// through walkable cells up to the sight radius, seeing the walls it touches.
func (s *Sim) updateVisibility() {
	g := s.Grid
	g.ClearVisible()
	px, py := s.PlayerPos()

	for _, r := range s.Station.Rooms {
		if !r.Contains(px, py) {
			continue
		}
		for y := r.Y - 1; y <= r.Y+r.Height; y++ {
			for x := r.X - 1; x <= r.X+r.Width; x++ {
				g.Reveal(x, y)
			}
		}
	}

	type node struct{ x, y, d int }
	seen := map[[2]int]bool{{px, py}: true}
	queue := []node{{px, py, 0}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		g.Reveal(n.x, n.y)
		if !g.IsWalkable(n.x, n.y) || n.d >= sightRadius {
			continue
		}
		for _, d := range [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			k := [2]int{n.x + d[0], n.y + d[1]}
			if seen[k] || !g.InBounds(k[0], k[1]) {
				continue
			}
			seen[k] = true
			queue = append(queue, node{k[0], k[1], n.d + 1})
		}
	}
}

// Snapshot returns the per-frame view handed to the renderer. The grid is
// shared, not copied; the renderer only reads it.
func (s *Sim) Snapshot() *world.Snapshot {
	px, py := s.PlayerPos()
	snap := &world.Snapshot{
		Grid:    s.Grid,
		Rooms:   s.Station.Rooms,
		PlayerX: px,
		PlayerY: py,
		FacingX: s.facingX,
		FacingY: s.facingY,
		Moving:  s.moved,
		Overlay: s.Overlay,
		Turn:    s.Turn,
	}
	q := s.actors.Query()
	for q.Next() {
		pos, a := q.Get()
		snap.Entities = append(snap.Entities, world.Entity{ID: a.ID, Kind: a.Kind, X: pos.X, Y: pos.Y})
	}
	return snap
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
