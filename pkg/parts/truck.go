package parts

import (
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
)

// Wheel geometry. The tire torus has an outer radius of RimRadius.
const (
	RimRadius   = 0.5
	SpokeRadius = 0.03
	SpokeCount  = 20
)

// Wheel is a tire with SpokeCount radial spokes. The subtree is shared:
// every call on the same builder returns the same node.
func Wheel(b *graph.Builder) graph.NodeID {
	return b.Shared("wheel", func() graph.NodeID {
		tire := b.Draw("wheel/tire", graph.Plain(gfx.Torus, TireGray))

		// Rotate before translating so each spoke sits at its own angle
		// around the hub instead of spinning about its center.
		spoke := b.Shape("wheel/spoke", graph.Solid(gfx.Cylinder, RimGray),
			graph.Translate(RimRadius/2, 0, 0),
			graph.Scale(RimRadius, SpokeRadius, SpokeRadius),
		)
		spokes := b.Repeat("wheel/spokes", graph.Times(SpokeCount), graph.Ops(
			graph.RotateFn(xform.AxisZ, func(e graph.Env) float64 {
				return float64(e.Index) * 360 / SpokeCount
			}),
		), spoke)

		rim := b.Group("wheel/rim", graph.Ops(graph.RotateX(90)), spokes)
		return b.Group("wheel", nil, tire, rim)
	})
}

var wheelMounts = []struct {
	name string
	x, z float64
}{
	{"front-left", -3, 2},
	{"front-right", -3, -2},
	{"back-left", 3, 2},
	{"back-right", 3, -2},
}

// Chassis carries four wheels rolled by the live wheel angle, two axle
// connectors and the cover.
func Chassis(b *graph.Builder) graph.NodeID {
	wheel := Wheel(b)
	roll := graph.RotateFn(xform.AxisY, func(e graph.Env) float64 {
		return -e.State.WheelAngle
	})

	var children []graph.NodeID
	for _, m := range wheelMounts {
		children = append(children, b.Group("chassis/wheel-"+m.name, graph.Ops(
			graph.Translate(m.x, 0.65, m.z),
			graph.RotateY(90),
			graph.RotateZ(90),
			roll,
		), wheel))
	}
	for _, x := range []float64{-3, 3} {
		children = append(children, b.Shape("chassis/connector", graph.Solid(gfx.Cylinder, RimGray),
			graph.Translate(x, 0.65, 0),
			graph.RotateX(90),
			graph.Scale(0.2, 4, 0.2),
		))
	}
	children = append(children, b.Shape("chassis/cover", graph.Solid(gfx.Cube, Red),
		graph.Translate(0, 1.15, 0),
		graph.Scale(9.5, 0.8, 3.4),
	))
	return b.Group("chassis", nil, children...)
}

// TruckBase is the flat bed the upper body sits on.
func TruckBase(b *graph.Builder) graph.NodeID {
	return b.Shape("truck-base", graph.Solid(gfx.Cube, Red),
		graph.Translate(0, 1.5, 0),
		graph.Scale(10, 0.5, 4.5),
	)
}

type box struct {
	name    string
	x, y, z float64
	sx, sy  float64
	sz      float64
}

var bumperBoxes = []box{
	{"front", -5.11, 1, 0, 0.25, 0.5, 4.5},
	{"back", 5.11, 1, 0, 0.25, 0.5, 4.5},
	{"front-left", -4.5, 1, 2, 1.5, 0.5, 0.4},
	{"front-right", -4.5, 1, -2, 1.5, 0.5, 0.4},
	{"back-left", 4.5, 1, 2, 1.5, 0.5, 0.4},
	{"back-right", 4.5, 1, -2, 1.5, 0.5, 0.4},
	{"side-left", 0, 1, 2, 4.5, 0.5, 0.4},
	{"side-right", 0, 1, -2, 4.5, 0.5, 0.4},
}

// Bumpers wraps the base with white guards.
func Bumpers(b *graph.Builder) graph.NodeID {
	var children []graph.NodeID
	for _, p := range bumperBoxes {
		children = append(children, b.Shape("bumpers/"+p.name, graph.Solid(gfx.Cube, White),
			graph.Translate(p.x, p.y, p.z),
			graph.Scale(p.sx, p.sy, p.sz),
		))
	}
	return b.Group("bumpers", nil, children...)
}

// Cabin is the driver's cab: body, windshield, side windows, blinkers and
// the light bar on the roof. Its width follows the step width.
func Cabin(b *graph.Builder) graph.NodeID {
	body := b.Shape("cabin/body", graph.Solid(gfx.Cube, Red),
		graph.Translate(-3.7, 3, 0),
		swScale(func(sw float64) mgl64.Vec3 { return vec(1.4*sw, 3, 2.6*sw) }),
	)
	windshield := b.Shape("cabin/windshield", graph.Plain(gfx.Cube, Glass),
		swTranslate(func(sw float64) mgl64.Vec3 { return vec(-0.75*sw-3.6, 3.5, 0) }),
		swScale(func(sw float64) mgl64.Vec3 { return vec(0.25, 1.5, 2.2*sw) }),
	)
	children := []graph.NodeID{body, windshield}

	for _, side := range []struct {
		name string
		sign float64
	}{{"left", 1}, {"right", -1}} {
		sign := side.sign
		children = append(children, b.Shape("cabin/window-"+side.name, graph.Plain(gfx.Cube, Glass),
			swTranslate(func(sw float64) mgl64.Vec3 { return vec(-0.2*sw-3.6, 3.5, sign*1.25*sw) }),
			graph.RotateY(90),
			swScale(func(sw float64) mgl64.Vec3 { return vec(0.25, 1.5, 0.9*sw) }),
		))
		children = append(children, b.Shape("cabin/blinker-"+side.name, graph.Plain(gfx.Cylinder, Yellow),
			swTranslate(func(sw float64) mgl64.Vec3 { return vec(-0.75*sw-3.6, 2.25, sign*0.8*sw) }),
			graph.RotateZ(90),
			graph.Scale(0.5, 0.25, 0.5),
		))
	}

	var lights []graph.NodeID
	for _, l := range []struct {
		name string
		z    float64
		c    gfx.Color
	}{{"blue", -0.5, Blue}, {"white", 0, White}, {"red", 0.5, Red}} {
		lights = append(lights, b.Shape("cabin/light-"+l.name, graph.Solid(gfx.Cube, l.c),
			graph.Translate(0, 0, l.z),
			graph.Scale(0.5, 0.25, 0.5),
		))
	}
	children = append(children, b.Group("cabin/light-bar", graph.Ops(graph.Translate(-3.75, 4.6, 0)), lights...))

	return b.Group("cabin", nil, children...)
}

// WaterTank is the body behind the cabin.
func WaterTank(b *graph.Builder) graph.NodeID {
	return b.Shape("water-tank", graph.Solid(gfx.Cube, Red),
		graph.Translate(1.25, 3, 0),
		swScale(func(sw float64) mgl64.Vec3 { return vec(4.4*sw, 2.5, 2.5*sw) }),
	)
}
