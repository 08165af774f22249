// Package parts holds one constructor per rigid part of the fire truck and
// its scenery. Every constructor adds a subtree to a graph.Builder and
// returns the id of its root group; none of them touches a transform
// stack. Dimensions that follow the truck-size family read the frame's
// step width through parameterized ops, so a part is built once and
// re-evaluated every frame.
//
// Recipes are written outer to inner: the first op is applied first and
// is therefore the outermost transform of the geometry.
package parts

import (
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/go-gl/mathgl/mgl64"
)

// Palette.
var (
	Red       = gfx.RGB(1, 0, 0)
	White     = gfx.RGB(1, 1, 1)
	Blue      = gfx.RGB(0, 0, 1)
	Yellow    = gfx.RGB(1, 1, 0)
	Orange    = gfx.RGB(1, 0.45, 0)
	Glass     = gfx.RGB(0.6, 0.6, 0.9)
	DecalRed  = gfx.RGB(0.6, 0, 0)
	TireGray  = gfx.Gray(0.1)
	RimGray   = gfx.Gray(0.5)
	SteelGray = gfx.Gray(0.3)
	WallGray  = gfx.Gray(0.4)
	PoleGray  = gfx.Gray(0.7)
	TileLight = gfx.Gray(0.8)
	TileDark  = gfx.Gray(0.2)
)

// Builder is the signature shared by every part constructor.
type Builder func(b *graph.Builder) graph.NodeID

// Entry names a part constructor.
type Entry struct {
	Name  string
	Build Builder
}

// Catalog lists every part in a stable order.
var Catalog = []Entry{
	{"wheel", Wheel},
	{"chassis", Chassis},
	{"truck-base", TruckBase},
	{"bumpers", Bumpers},
	{"cabin", Cabin},
	{"water-tank", WaterTank},
	{"stair-base-rotation", StairBaseRotation},
	{"stair-base-elevation", StairBaseElevation},
	{"stair", Stair},
	{"lower-stair", LowerStair},
	{"upper-stair", UpperStair},
	{"decals", Decals},
	{"firehose", Firehose},
	{"floor", Floor},
	{"poles", Poles},
	{"wall", Wall},
	{"garage-door", GarageDoor},
	{"clock", Clock},
	{"elevating-door", ElevatingDoor},
	{"entrance", Entrance},
}

// Lookup returns the catalog entry with the given name.
func Lookup(name string) (Entry, bool) {
	for _, e := range Catalog {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// stepWidth reads the truck-size family parameter of the frame.
func stepWidth(e graph.Env) float64 {
	return e.State.StepWidth
}

// DecalSize is the overall scale of the side lettering.
func DecalSize(e graph.Env) float64 {
	return min(0.6*stepWidth(e), 1)
}

// FirehoseSize is the overall scale of the hose reel.
func FirehoseSize(e graph.Env) float64 {
	return min(stepWidth(e), 1)
}

// vec is shorthand for the closures of parameterized ops.
func vec(x, y, z float64) mgl64.Vec3 {
	return mgl64.Vec3{x, y, z}
}

// swTranslate translates by a vector computed from the step width.
func swTranslate(fn func(sw float64) mgl64.Vec3) graph.Op {
	return graph.TranslateFn(func(e graph.Env) mgl64.Vec3 { return fn(stepWidth(e)) })
}

// swScale scales by a vector computed from the step width.
func swScale(fn func(sw float64) mgl64.Vec3) graph.Op {
	return graph.ScaleFn(func(e graph.Env) mgl64.Vec3 { return fn(stepWidth(e)) })
}
