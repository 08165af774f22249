// Package scene assembles the parts into the full fire station hierarchy
// and wires the control variables into it.
package scene

import (
	"fmt"

	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/parts"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
)

// Root names, in traversal order.
const (
	RootFloor    = "floor"
	RootPoles    = "poles"
	RootEntrance = "entrance"
	RootTruck    = "truck"
)

// Names of the nodes that carry a control variable.
const (
	NodeLowerBody = "truck/lower-body"
	NodeCabin     = "truck/cabin"
	NodeFirehose  = "truck/firehose"
	NodeLadder    = "truck/ladder"
	NodeElevation = "truck/ladder/elevation"
	NodeBoom      = "truck/ladder/boom"
	NodeExtension = "truck/ladder/extension"
)

// Build creates the scene graph and validates it against a stack of
// xform.DefaultCapacity entries.
func Build() (*graph.Graph, error) {
	b := graph.NewBuilder()
	Scenery(b)
	b.Root(Truck(b))

	g := b.Build()
	for _, e := range graph.Validate(g, xform.DefaultCapacity) {
		if e.Severity == graph.SeverityError {
			return nil, fmt.Errorf("scene: invalid graph: %w", e)
		}
	}
	return g, nil
}

// MustBuild is like Build but panics on error.
func MustBuild() *graph.Graph {
	g, err := Build()
	if err != nil {
		panic(err)
	}
	return g
}

// Scenery adds the floor, the poles and the garage entrance as roots.
func Scenery(b *graph.Builder) {
	b.Root(parts.Floor(b))
	b.Root(parts.Poles(b))
	b.Root(parts.Entrance(b))
}

func stepWidth(e graph.Env) float64 {
	return e.State.StepWidth
}

// Truck adds the fire truck. Every part hangs off one translation driven
// by the truck position.
func Truck(b *graph.Builder) graph.NodeID {
	lowerBody := b.Group(NodeLowerBody, graph.Ops(
		graph.ScaleFn(func(e graph.Env) mgl64.Vec3 {
			sw := stepWidth(e)
			return mgl64.Vec3{sw / 1.5, 1, sw / 1.6}
		}),
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			sw := stepWidth(e)
			return mgl64.Vec3{-3*(sw-control.MinStepWidth) + sw + 1.4, 0, 0}
		}),
	), parts.Chassis(b), parts.TruckBase(b), parts.Bumpers(b))

	cabin := b.Group(NodeCabin, graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			return mgl64.Vec3{-2.922*stepWidth(e) + 4.8, 0, 0}
		}),
	), parts.Cabin(b))

	firehose := b.Group(NodeFirehose, graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			return mgl64.Vec3{7*control.StairWidth + 2.2*stepWidth(e), 3, 0}
		}),
		graph.ScaleFn(func(e graph.Env) mgl64.Vec3 {
			s := parts.FirehoseSize(e)
			return mgl64.Vec3{s, s, s}
		}),
	), parts.Firehose(b))

	return b.Group(RootTruck, graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			return mgl64.Vec3{1 + e.State.TruckPos, 0, 1}
		}),
	),
		lowerBody,
		cabin,
		parts.WaterTank(b),
		parts.Decals(b),
		firehose,
		Ladder(b),
	)
}

// Ladder adds the ladder assembly: the turntable yawed by the stair base
// angle, the elevation block, and the two stairs pitched by the ladder
// inclination. The upper stair slides back along the boom by the ladder
// extension.
func Ladder(b *graph.Builder) graph.NodeID {
	extension := b.Group(NodeExtension, graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			return mgl64.Vec3{-e.State.UpperLadderPos, 0, 0}
		}),
	), parts.UpperStair(b))

	boom := b.Group(NodeBoom, graph.Ops(
		graph.RotateFn(xform.AxisZ, func(e graph.Env) float64 { return -e.State.LadderInclination }),
		graph.Translate(-2, 0.5, 0),
	), parts.LowerStair(b), extension)

	elevation := b.Group(NodeElevation, graph.Ops(graph.Translate(0, 0.7, 0)),
		parts.StairBaseElevation(b), boom)

	return b.Group(NodeLadder, graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
			return mgl64.Vec3{1.5 * stepWidth(e), 4.5, 0}
		}),
		graph.RotateFn(xform.AxisY, func(e graph.Env) float64 { return e.State.StairBaseAngle }),
	), parts.StairBaseRotation(b), elevation)
}

// Counts summarizes a graph by node kind.
type Counts struct {
	Nodes   int `json:"nodes"`
	Groups  int `json:"groups"`
	Draws   int `json:"draws"`
	Repeats int `json:"repeats"`
	Roots   int `json:"roots"`
	Depth   int `json:"depth"`
}

// Stats reports the node counts of g. Repeats count once, not per
// instance.
func Stats(g *graph.Graph) Counts {
	c := Counts{
		Nodes:   g.NodeCount(),
		Draws:   len(g.Draws()),
		Repeats: len(g.Repeats()),
		Roots:   len(g.Roots),
		Depth:   g.MaxDepth(),
	}
	c.Groups = c.Nodes - c.Draws - c.Repeats
	return c
}

// DrawsPerFrame is the number of draw calls one viewport of the scene
// issues in env. Solid parts draw twice.
func DrawsPerFrame(g *graph.Graph, env graph.Env) int {
	var count func(id graph.NodeID, env graph.Env) int
	count = func(id graph.NodeID, env graph.Env) int {
		n := g.Get(id)
		if n == nil {
			return 0
		}
		switch d := n.Data.(type) {
		case graph.DrawData:
			return d.Calls()
		case graph.RepeatData:
			total := 0
			for i := 0; i < d.Count(env); i++ {
				env.Index = i
				for _, c := range n.Children {
					total += count(c, env)
				}
			}
			return total
		default:
			total := 0
			for _, c := range n.Children {
				total += count(c, env)
			}
			return total
		}
	}

	total := 0
	for _, r := range g.Roots {
		total += count(r, env)
	}
	return total
}
