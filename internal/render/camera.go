package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spacehole-rogue/deckview/internal/config"
	"github.com/spacehole-rogue/deckview/internal/world"
)

// Mode is the camera projection.
type Mode uint8

const (
	ModeOrthographic Mode = iota // top-down follow camera
	ModeChase                    // third-person perspective camera
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeChase {
		return "chase"
	}
	return "orthographic"
}

const (
	orthoDistance = 60.0 // eye distance from the target along the elevation ray
	nearPlane     = 0.1
	farPlane      = 200.0
	maxPullIns    = 4
)

// CameraState is owned by the Rig and read by the drawer and the culler.
type CameraState struct {
	Mode             Mode
	TargetX, TargetZ float64 // smoothed follow target
	LookAtX, LookAtZ float64 // smoothed look-at point, the cull origin
	EyeX, EyeY, EyeZ float64
	Zoom             float64 // orthographic half-height in cells
	Elevation        float64 // degrees
	FOV              float64 // degrees
}

// RigInput is what the rig follows each frame.
type RigInput struct {
	PlayerX, PlayerZ float64 // world position of the player, cell centre
	FacingX, FacingZ float64 // zero keeps the previous facing
	InRoom           bool
	Moving           bool
}

// Rig drives both camera modes from one shared target.
type Rig struct {
	cfg   config.CameraConfig
	state CameraState

	pendingToggle bool
	ready         bool

	facingX, facingZ float64
	chaseDist        float64
	chaseHeight      float64
	candidateX       float64
	candidateZ       float64
	walk             []bool
	walkW, walkH     int
}

// NewRig creates a rig in orthographic mode.
func NewRig(cfg config.CameraConfig) *Rig {
	return &Rig{
		cfg: cfg,
		state: CameraState{
			Mode:      ModeOrthographic,
			Zoom:      clampF(cfg.Zoom, cfg.ZoomMin, cfg.ZoomMax),
			Elevation: clampF(cfg.Elevation, cfg.ElevationMin, cfg.ElevationMax),
			FOV:       cfg.FOV,
		},
		facingZ:     -1,
		chaseDist:   cfg.CorridorDistance,
		chaseHeight: cfg.CorridorHeight,
	}
}

// CacheWalkability copies the grid's walkable flags for wall avoidance.
func (r *Rig) CacheWalkability(g *world.Grid) {
	if len(r.walk) != len(g.Cells) {
		r.walk = make([]bool, len(g.Cells))
	}
	r.walkW, r.walkH = g.Width, g.Height
	for i, c := range g.Cells {
		r.walk[i] = c.Walkable
	}
}

// Toggle requests a mode switch. It takes effect on the next Update.
func (r *Rig) Toggle() {
	r.pendingToggle = !r.pendingToggle
}

// Mode returns the active mode.
func (r *Rig) Mode() Mode { return r.state.Mode }

// State returns a copy of the camera state.
func (r *Rig) State() CameraState { return r.state }

// Ready reports whether the rig has been updated at least once.
func (r *Rig) Ready() bool { return r.ready }

// CullOrigin returns the smoothed look-at point.
func (r *Rig) CullOrigin() (float64, float64) {
	return r.state.LookAtX, r.state.LookAtZ
}

// Candidate returns the last resolved chase camera position.
func (r *Rig) Candidate() (float64, float64) {
	return r.candidateX, r.candidateZ
}

// AdjustZoom changes the orthographic half-size by delta (positive zooms
// in) and returns the clamped result.
func (r *Rig) AdjustZoom(delta float64) float64 {
	r.state.Zoom = clampF(r.state.Zoom-delta, r.cfg.ZoomMin, r.cfg.ZoomMax)
	return r.state.Zoom
}

// AdjustElevation changes the orthographic elevation in degrees and returns
// the clamped result.
func (r *Rig) AdjustElevation(delta float64) float64 {
	r.state.Elevation = clampF(r.state.Elevation+delta, r.cfg.ElevationMin, r.cfg.ElevationMax)
	return r.state.Elevation
}

// Update advances the rig by dt seconds.
func (r *Rig) Update(dt float64, in RigInput) {
	if r.pendingToggle {
		r.pendingToggle = false
		if r.state.Mode == ModeOrthographic {
			r.state.Mode = ModeChase
		} else {
			r.state.Mode = ModeOrthographic
		}
	}

	if in.FacingX != 0 || in.FacingZ != 0 {
		l := math.Hypot(in.FacingX, in.FacingZ)
		in.FacingX, in.FacingZ = in.FacingX/l, in.FacingZ/l
	} else {
		in.FacingX, in.FacingZ = r.facingX, r.facingZ
	}

	if !r.ready {
		r.snapTo(in)
		return
	}

	eps := r.cfg.Epsilon
	s := &r.state
	s.TargetX = damp(s.TargetX, in.PlayerX, r.cfg.FollowSpeed, dt, eps)
	s.TargetZ = damp(s.TargetZ, in.PlayerZ, r.cfg.FollowSpeed, dt, eps)

	switch s.Mode {
	case ModeOrthographic:
		s.LookAtX, s.LookAtZ = s.TargetX, s.TargetZ
		r.placeOrthoEye()
		s.FOV = damp(s.FOV, r.cfg.FOV, r.cfg.FOVSpeed, dt, eps)
	case ModeChase:
		r.facingX = damp(r.facingX, in.FacingX, r.cfg.LookSpeed, dt, eps)
		r.facingZ = damp(r.facingZ, in.FacingZ, r.cfg.LookSpeed, dt, eps)
		fx, fz := normalize(r.facingX, r.facingZ)

		dist, height := r.cfg.CorridorDistance, r.cfg.CorridorHeight
		if in.InRoom {
			dist, height = r.cfg.RoomDistance, r.cfg.RoomHeight
		}
		r.chaseDist = damp(r.chaseDist, dist, r.cfg.ChaseSpeed, dt, eps)
		r.chaseHeight = damp(r.chaseHeight, height, r.cfg.ChaseSpeed, dt, eps)

		cx, cz := r.resolveCandidate(s.TargetX-fx*r.chaseDist, s.TargetZ-fz*r.chaseDist, in.PlayerX, in.PlayerZ)
		r.candidateX, r.candidateZ = cx, cz
		s.EyeX = damp(s.EyeX, cx, r.cfg.ChaseSpeed, dt, eps)
		s.EyeZ = damp(s.EyeZ, cz, r.cfg.ChaseSpeed, dt, eps)
		s.EyeY = damp(s.EyeY, r.chaseHeight, r.cfg.ChaseSpeed, dt, eps)

		s.LookAtX = damp(s.LookAtX, in.PlayerX+fx*r.cfg.LookAhead, r.cfg.LookSpeed, dt, eps)
		s.LookAtZ = damp(s.LookAtZ, in.PlayerZ+fz*r.cfg.LookAhead, r.cfg.LookSpeed, dt, eps)

		fov := r.cfg.FOV
		if in.Moving {
			fov = r.cfg.FOVMoving
		}
		s.FOV = damp(s.FOV, fov, r.cfg.FOVSpeed, dt, eps)
	}
}

// snapTo places the camera on the player without smoothing.
func (r *Rig) snapTo(in RigInput) {
	r.ready = true
	s := &r.state
	r.facingX, r.facingZ = in.FacingX, in.FacingZ
	s.TargetX, s.TargetZ = in.PlayerX, in.PlayerZ
	s.LookAtX, s.LookAtZ = in.PlayerX, in.PlayerZ
	r.placeOrthoEye()
	if s.Mode == ModeChase {
		fx, fz := normalize(r.facingX, r.facingZ)
		cx, cz := r.resolveCandidate(in.PlayerX-fx*r.chaseDist, in.PlayerZ-fz*r.chaseDist, in.PlayerX, in.PlayerZ)
		r.candidateX, r.candidateZ = cx, cz
		s.EyeX, s.EyeY, s.EyeZ = cx, r.chaseHeight, cz
	}
}

func (r *Rig) placeOrthoEye() {
	s := &r.state
	e := s.Elevation * math.Pi / 180
	s.EyeX = s.TargetX
	s.EyeY = orthoDistance * math.Sin(e)
	s.EyeZ = s.TargetZ + orthoDistance*math.Cos(e)
}

// resolveCandidate keeps the chase camera out of walls: a candidate whose
// cell is not walkable is pulled part of the way back toward the player,
// falling back to the player position.
func (r *Rig) resolveCandidate(x, z, px, pz float64) (float64, float64) {
	x, z = r.clampToMap(x, z)
	for i := 0; i < maxPullIns; i++ {
		if r.walkableAt(x, z) {
			return x, z
		}
		x += (px - x) * r.cfg.PullBack
		z += (pz - z) * r.cfg.PullBack
	}
	if r.walkableAt(x, z) {
		return x, z
	}
	return px, pz
}

func (r *Rig) clampToMap(x, z float64) (float64, float64) {
	if r.walk == nil {
		return x, z
	}
	return clampF(x, 0.5, float64(r.walkW)-0.5), clampF(z, 0.5, float64(r.walkH)-0.5)
}

func (r *Rig) walkableAt(x, z float64) bool {
	if r.walk == nil {
		return true
	}
	cx, cz := int(math.Floor(x)), int(math.Floor(z))
	if cx < 0 || cx >= r.walkW || cz < 0 || cz >= r.walkH {
		return false
	}
	return r.walk[cz*r.walkW+cx]
}

// ViewProjection returns the combined camera matrix for the given aspect ratio.
func (r *Rig) ViewProjection(aspect float64) mgl32.Mat4 {
	s := r.state
	eye := mgl32.Vec3{float32(s.EyeX), float32(s.EyeY), float32(s.EyeZ)}
	up := mgl32.Vec3{0, 1, 0}

	if s.Mode == ModeChase {
		center := mgl32.Vec3{float32(s.LookAtX), 0.5, float32(s.LookAtZ)}
		proj := mgl32.Perspective(mgl32.DegToRad(float32(s.FOV)), float32(aspect), nearPlane, farPlane)
		return proj.Mul4(mgl32.LookAtV(eye, center, up))
	}

	center := mgl32.Vec3{float32(s.TargetX), 0, float32(s.TargetZ)}
	hw, hh := float32(s.Zoom*aspect), float32(s.Zoom)
	proj := mgl32.Ortho(-hw, hw, -hh, hh, nearPlane, farPlane)
	return proj.Mul4(mgl32.LookAtV(eye, center, up))
}

// damp moves cur toward tgt by a frame-rate independent fraction and snaps
// once within eps.
func damp(cur, tgt, speed, dt, eps float64) float64 {
	cur += (tgt - cur) * math.Min(1, speed*dt)
	if math.Abs(tgt-cur) < eps {
		return tgt
	}
	return cur
}

func normalize(x, z float64) (float64, float64) {
	l := math.Hypot(x, z)
	if l < 1e-9 {
		return 0, -1
	}
	return x / l, z / l
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
