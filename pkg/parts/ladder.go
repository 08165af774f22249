package parts

import (
	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/go-gl/mathgl/mgl64"
)

// StepSpace is the distance between two consecutive steps of a stair.
const StepSpace = 3 * control.StairWidth

// StairHeight is the length of a stair's rails for n steps of the given
// width. The step width doubles as the gap kept free at each end.
func StairHeight(n int, sw float64) float64 {
	return float64(max(n, 0))*StepSpace + sw
}

// StairCompensation re-centers a stair of n steps so that its near end
// and every step keep their position when n changes. Only the far end
// moves.
func StairCompensation(n int) float64 {
	return StepSpace * float64(max(n, 0)) / 2
}

// StairBaseRotation is the turntable the ladder yaws on.
func StairBaseRotation(b *graph.Builder) graph.NodeID {
	return b.Shape("stair-base/rotation", graph.Solid(gfx.Cylinder, Orange),
		swScale(func(sw float64) mgl64.Vec3 { return vec(1.5*sw, 0.5, 1.5*sw) }),
	)
}

// StairBaseElevation is the block the ladder pivots on.
func StairBaseElevation(b *graph.Builder) graph.NodeID {
	return b.Shape("stair-base/elevation", graph.Solid(gfx.Cube, SteelGray),
		swScale(func(sw float64) mgl64.Vec3 { return vec(sw, 1, sw) }),
	)
}

// Stair is two rails and StepNr steps, laid along the local -X axis of its
// parent. The subtree is shared by the lower and upper stair.
func Stair(b *graph.Builder) graph.NodeID {
	return b.Shared("stair", func() graph.NodeID {
		var rails []graph.NodeID
		for _, side := range []struct {
			name string
			sign float64
		}{{"left", -1}, {"right", 1}} {
			sign := side.sign
			rails = append(rails, b.Shape("stair/rail-"+side.name, graph.Solid(gfx.Cube, SteelGray),
				swTranslate(func(sw float64) mgl64.Vec3 {
					return vec(sign*(sw+control.StairWidth)/2, 0, 0)
				}),
				graph.ScaleFn(func(e graph.Env) mgl64.Vec3 {
					return vec(control.StairWidth, StairHeight(e.State.StepNr, stepWidth(e)), control.StairWidth)
				}),
			))
		}

		step := b.Shape("stair/step", graph.Solid(gfx.Cube, SteelGray),
			swScale(func(sw float64) mgl64.Vec3 {
				return vec(sw, control.StairWidth, control.StairWidth-0.04)
			}),
		)
		steps := b.Repeat("stair/steps",
			func(e graph.Env) int { return max(e.State.StepNr, 0) },
			graph.Ops(graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
				sw := stepWidth(e)
				h := StairHeight(e.State.StepNr, sw)
				return vec(0, float64(e.Index)*StepSpace-h/2+sw, 0)
			})),
			step,
		)

		return b.Group("stair", graph.Ops(
			graph.RotateY(90),
			graph.RotateX(-90),
			graph.TranslateFn(func(e graph.Env) mgl64.Vec3 {
				return vec(0, StairCompensation(e.State.StepNr), 0)
			}),
		), append(rails, steps)...)
	})
}

// LowerStair is the fixed stair section.
func LowerStair(b *graph.Builder) graph.NodeID {
	return b.Group("lower-stair", graph.Ops(graph.Translate(1.7, -0.6, 0)), Stair(b))
}

// UpperStair is the sliding stair section. The caller places it at the
// live extension offset.
func UpperStair(b *graph.Builder) graph.NodeID {
	return b.Group("upper-stair", graph.Ops(graph.Translate(1.6, -0.4, 0)), Stair(b))
}
