package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/spacehole-rogue/deckview/internal/world"
)

// Base palette. Surfaces are muted so room tints and hazards read on top.
var (
	floorBase        = mustColor(colornames.Slategray)
	corridorBase     = mustColor(colornames.Dimgray)
	wallBase         = mustColor(colornames.Lightslategray)
	corridorWallBase = mustColor(colornames.Darkgray)
	ceilingBase      = mustColor(colornames.Darkslategray)
	doorBase         = mustColor(colornames.Goldenrod)
	lockedDoorBase   = mustColor(colornames.Firebrick)
	trimBase         = mustColor(colornames.Silver)
	stripLightBase   = mustColor(colornames.Lightcyan)
	emergencyBase    = mustColor(colornames.Orangered)
	playerBase       = mustColor(colornames.White)
	fogFullBase      = mustColor(colornames.Black)
	fogMemoryBase    = mustColor(colornames.Midnightblue)
)

// Fog alpha per layer.
const (
	fogFullAlpha   = 1.0
	fogMemoryAlpha = 0.55
)

// roomTints are assigned to rooms by ID.
var roomTints = []colorful.Color{
	mustColor(colornames.Teal),
	mustColor(colornames.Steelblue),
	mustColor(colornames.Darkkhaki),
	mustColor(colornames.Mediumpurple),
	mustColor(colornames.Seagreen),
	mustColor(colornames.Indianred),
	mustColor(colornames.Cadetblue),
	mustColor(colornames.Peru),
}

// entityColors is indexed by world.EntityKind.
var entityColors = map[world.EntityKind]colorful.Color{
	world.EntityCrew:       mustColor(colornames.Lawngreen),
	world.EntityDrone:      mustColor(colornames.Deepskyblue),
	world.EntityTerminal:   mustColor(colornames.Aquamarine),
	world.EntityCrate:      mustColor(colornames.Burlywood),
	world.EntityHazardVent: mustColor(colornames.Orange),
}

// Hazard ramp endpoints.
var (
	hazardHeat    = mustColor(colornames.Orangered)
	hazardSmoke   = mustColor(colornames.Gray)
	hazardVacuum  = mustColor(colornames.Steelblue)
	hazardDirt    = mustColor(colornames.Saddlebrown)
	thermalCold   = mustColor(colornames.Navy)
	thermalWarm   = mustColor(colornames.Gold)
	thermalHot    = mustColor(colornames.Red)
	atmosGood     = mustColor(colornames.Mediumseagreen)
	atmosBad      = mustColor(colornames.Crimson)
	cleanSurface  = mustColor(colornames.Honeydew)
	filthySurface = mustColor(colornames.Saddlebrown)
)

func mustColor(c color.RGBA) colorful.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		panic("render: transparent palette colour")
	}
	return cc
}

// roomTint returns the tint for a room ID.
func roomTint(id int) colorful.Color {
	if id < 0 {
		id = -id
	}
	return roomTints[id%len(roomTints)]
}

// scaleColor multiplies brightness by f.
func scaleColor(c colorful.Color, f float64) colorful.Color {
	return colorful.Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// applyHazard recolours a floor colour from the cell's hazard values.
func applyHazard(c colorful.Color, cell world.Cell, mode world.HazardOverlay) colorful.Color {
	switch mode {
	case world.OverlayThermal:
		var ramp colorful.Color
		if cell.Heat < 0.5 {
			ramp = thermalCold.BlendRgb(thermalWarm, cell.Heat*2)
		} else {
			ramp = thermalWarm.BlendRgb(thermalHot, (cell.Heat-0.5)*2)
		}
		return ramp.BlendRgb(c, 0.25)
	case world.OverlayAtmospheric:
		ramp := atmosGood.BlendRgb(atmosBad, clamp01(1-cell.Pressure))
		ramp = ramp.BlendRgb(hazardSmoke, cell.Smoke*0.6)
		return ramp.BlendRgb(c, 0.25)
	case world.OverlayCleanliness:
		ramp := cleanSurface.BlendRgb(filthySurface, cell.Dirt)
		return ramp.BlendRgb(c, 0.25)
	}

	// No overlay: hazards only hint.
	if cell.Heat > 0 {
		c = c.BlendRgb(hazardHeat, clamp01(cell.Heat)*0.35)
	}
	if cell.Smoke > 0 {
		c = c.BlendRgb(hazardSmoke, clamp01(cell.Smoke)*0.5)
	}
	if vac := clamp01(1 - cell.Pressure); vac > 0 {
		c = c.BlendRgb(hazardVacuum, vac*0.4)
	}
	if cell.Dirt > 0 {
		c = c.BlendRgb(hazardDirt, clamp01(cell.Dirt)*0.25)
	}
	return c
}

// toVec4 converts to a clamped RGBA vector for the instance buffer.
func toVec4(c colorful.Color, alpha float64) mgl32.Vec4 {
	c = c.Clamped()
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), float32(clamp01(alpha))}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
