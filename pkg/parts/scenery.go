package parts

import (
	"math"
	"time"

	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
)

// Floor grid: FloorHalf tiles of FloorTile on each side of the origin.
const (
	FloorHalf  = 25
	FloorSide  = 2 * FloorHalf
	FloorTiles = FloorSide * FloorSide
	FloorTile  = 0.5
)

// TileCoords maps a flat tile index to its grid coordinates, both in
// [-FloorHalf, FloorHalf).
func TileCoords(k int) (i, j int) {
	return k/FloorSide - FloorHalf, k%FloorSide - FloorHalf
}

// TileColor is the checkerboard color of tile (i, j).
func TileColor(i, j int) gfx.Color {
	if (i+j)%2 == 0 {
		return TileLight
	}
	return TileDark
}

// Floor is the checkered ground, drawn filled without outlines.
func Floor(b *graph.Builder) graph.NodeID {
	tile := b.Shape("floor/tile", graph.Filled(gfx.Cube, func(e graph.Env) gfx.Color {
		return TileColor(TileCoords(e.Index))
	}), graph.Scale(FloorTile, 0.05, FloorTile))

	tiles := b.Repeat("floor/tiles", graph.Times(FloorTiles), graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			i, j := TileCoords(e.Index)
			return vec(FloorTile*float64(i), -0.1, FloorTile*float64(j))
		}),
	), tile)
	return b.Group("floor", nil, tiles)
}

// Poles are the two poles flanking the drive.
func Poles(b *graph.Builder) graph.NodeID {
	var children []graph.NodeID
	for _, side := range []struct {
		name string
		x    float64
	}{{"left", -6}, {"right", 6}} {
		children = append(children,
			b.Shape("poles/base-"+side.name, graph.Plain(gfx.Cylinder, TireGray),
				graph.Translate(side.x, 0, -8),
				graph.Scale(2, 0.2, 2),
			),
			b.Shape("poles/pole-"+side.name, graph.Plain(gfx.Cylinder, PoleGray),
				graph.Translate(side.x, 5, -8),
				graph.Scale(0.5, 10, 0.5),
			),
		)
	}
	return b.Group("poles", nil, children...)
}

var wallPanels = []box{
	{"lintel", -12.5, 11, -0.4, 0.2, 7, 25},
	{"left", -12.5, 4.4, 8.35, 0.2, 9, 7.5},
	{"right", -12.5, 4.4, -7.9, 0.2, 9, 10},
}

// Wall is the garage front around the door opening.
func Wall(b *graph.Builder) graph.NodeID {
	var children []graph.NodeID
	for _, p := range wallPanels {
		children = append(children, b.Shape("wall/"+p.name, graph.Plain(gfx.Cube, WallGray),
			graph.Translate(p.x, p.y, p.z),
			graph.Scale(p.sx, p.sy, p.sz),
		))
	}
	return b.Group("wall", nil, children...)
}

// GarageDoor is the white frame of the door opening.
func GarageDoor(b *graph.Builder) graph.NodeID {
	left := b.Shape("garage-door/left", graph.Plain(gfx.Cube, White),
		graph.Translate(-12.5, 3.9, 4.75),
		graph.Scale(0.3, 8, 0.3),
	)
	right := b.Shape("garage-door/right", graph.Plain(gfx.Cube, White),
		graph.Translate(-12.5, 3.9, -3),
		graph.Scale(0.3, 8, 0.3),
	)
	top := b.Shape("garage-door/top", graph.Plain(gfx.Cube, White),
		graph.Translate(-12.5, 7.75, 0.9),
		graph.RotateX(90),
		graph.Scale(0.3, 8, 0.3),
	)
	return b.Group("garage-door", nil, left, right, top)
}

// HandAngles returns the hour, minute and second hand angles in radians
// for the wall-clock time t. Each hand advances continuously with the
// next smaller unit.
func HandAngles(t time.Time) (hour, minute, second float64) {
	second = float64(t.Second()) / 60 * 2 * math.Pi
	minute = float64(t.Minute())/60*2*math.Pi + second/60
	hour = float64(t.Hour()%12)/12*2*math.Pi + minute/12
	return hour, minute, second
}

type hand struct {
	name   string
	radius float64
	length float64
	width  float64
	angle  func(t time.Time) float64
}

var clockHands = []hand{
	{"hour", 2, 4, 1, func(t time.Time) float64 { h, _, _ := HandAngles(t); return h }},
	{"minute", 3, 6, 0.75, func(t time.Time) float64 { _, m, _ := HandAngles(t); return m }},
	{"second", 4, 8, 0.5, func(t time.Time) float64 { _, _, s := HandAngles(t); return s }},
}

// Clock is the analog clock above the garage door. It is the only part
// driven by wall-clock time instead of a control variable.
func Clock(b *graph.Builder) graph.NodeID {
	border := b.Shape("clock/border", graph.Plain(gfx.Cylinder, TireGray),
		graph.Translate(0.2, 6, 8),
		graph.RotateZ(90),
		graph.Scale(2.2, 0.1, 2.2),
	)
	face := b.Shape("clock/face", graph.Plain(gfx.Cylinder, White),
		graph.Translate(0.21, 6, 8),
		graph.RotateZ(90),
		graph.Scale(1.75, 0.1, 1.75),
	)

	children := []graph.NodeID{b.Draw("clock/center/draw", graph.Plain(gfx.Cylinder, TireGray))}
	for _, h := range clockHands {
		children = append(children, b.Shape("clock/hand-"+h.name, graph.Plain(gfx.Cube, TireGray),
			graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
				a := h.angle(e.Now)
				return vec(math.Cos(a)*h.radius, -1, -math.Sin(a)*h.radius)
			}),
			graph.RotateFn(xform.AxisY, func(e graph.Env) float64 {
				return mgl64.RadToDeg(h.angle(e.Now))
			}),
			graph.Scale(h.length, 0.4, h.width),
		))
	}
	center := b.Group("clock/center", graph.Ops(
		graph.Translate(0.22, 6, 8),
		graph.RotateZ(90),
		graph.Scale(0.1, 0.1, 0.1),
	), children...)

	return b.Group("clock", graph.Ops(graph.Translate(-12.5, 0.9, 0.9)), border, face, center)
}

// DoorPlanks is the number of panels of the elevating door.
const DoorPlanks = 5

// ElevatingDoor is the garage door, raised to the live door position.
func ElevatingDoor(b *graph.Builder) graph.NodeID {
	protector := b.Shape("elevating-door/protector", graph.Plain(gfx.Cube, White),
		graph.Translate(0, -0.85, 0),
		graph.RotateX(90),
		graph.Scale(0.3, 8, 0.3),
	)
	plank := b.Shape("elevating-door/plank", graph.Solid(gfx.Cube, RimGray),
		graph.Scale(0.1, 1.5, 7.5),
	)
	planks := b.Repeat("elevating-door/planks", graph.Times(DoorPlanks), graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 { return vec(0, 1.5*float64(e.Index), 0) }),
	), plank)

	return b.Group("elevating-door", graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 { return vec(-12.5, e.State.DoorPos, 0.9) }),
	), protector, planks)
}

// Entrance is the garage front: wall, door frame, clock and door.
func Entrance(b *graph.Builder) graph.NodeID {
	return b.Group("entrance", nil, Wall(b), GarageDoor(b), Clock(b), ElevatingDoor(b))
}
