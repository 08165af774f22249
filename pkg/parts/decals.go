package parts

import (
	"fmt"

	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/go-gl/mathgl/mgl64"
)

// decalDepth is the thickness of every decal box.
const decalDepth = 0.01

// stroke is one box of a glyph, in glyph-local units.
type stroke struct {
	x, y, z float64
	w, h    float64
}

var glyphStrokes = map[rune][]stroke{
	'C': {
		{-0.2, 0.3, -0.001, 0.2, 0.2},
		{-0.3, 0, 0, 0.1, 0.6},
		{-0.2, -0.3, -0.001, 0.2, 0.2},
	},
	'G': {
		{-0.15, 0.3, 0, 0.2, 0.2},
		{-0.3, 0, 0, 0.1, 0.6},
		{-0.15, -0.3, 0, 0.2, 0.2},
		{-0.1, -0.13, -0.004, 0.05, 0.4},
		{-0.1, 0, 0, 0.1, 0.2},
	},
	'I': {
		{0, 0, 0, 0.1, 0.8},
	},
	'T': {
		{0, 0.8, 0, 2, 0.4},
		{0, 0, 0, 0.4, 2},
	},
	'P': {
		{-0.8, 0, 0, 0.4, 2},
		{0, 0.8, 0, 1.2, 0.4},
		{0.8, 0.4, 0, 0.4, 1.2},
		{0, 0, 0, 1.2, 0.4},
	},
	'2': {
		{0, 0.8, 0, 2, 0.4},
		{0.8, 0.4, 0, 0.4, 1.2},
		{0, 0, 0, 2, 0.4},
		{-0.8, -0.4, 0, 0.4, 1.2},
		{0, -0.8, 0, 2, 0.4},
	},
}

// Glyphs returns the characters Glyph can draw.
func Glyphs() []rune {
	return []rune{'C', 'G', 'I', 'T', 'P', '2'}
}

// Glyph adds one letterform centered at x on its panel. It returns an
// error for a character without strokes.
func Glyph(b *graph.Builder, r rune, x float64) (graph.NodeID, error) {
	strokes, ok := glyphStrokes[r]
	if !ok {
		return graph.ZeroID, fmt.Errorf("parts: no glyph for %q", r)
	}
	name := fmt.Sprintf("glyph-%c", r)

	children := make([]graph.NodeID, 0, len(strokes))
	for _, s := range strokes {
		children = append(children, b.Shape(name+"/stroke", graph.Solid(gfx.Cube, DecalRed),
			graph.Translate(s.x, s.y, s.z),
			graph.Scale(s.w, s.h, decalDepth),
		))
	}
	return b.Group(name, graph.Ops(graph.Translate(x, 0, 0)), children...), nil
}

func mustGlyph(b *graph.Builder, r rune, x float64) graph.NodeID {
	id, err := Glyph(b, r, x)
	if err != nil {
		panic(err)
	}
	return id
}

// Decals letters both sides of the water tank: CGI on the left and a
// mirrored TP2 on the right.
func Decals(b *graph.Builder) graph.NodeID {
	size := graph.ScaleFn(func(e graph.Env) mgl64.Vec3 {
		s := DecalSize(e)
		return vec(s, s, 1)
	})

	left := b.Group("decals/left", graph.Ops(
		swTranslate(func(sw float64) mgl64.Vec3 { return vec(1.35, 3, 1.25*sw) }),
		graph.Scale(7, 2.5, 4),
		size,
	),
		mustGlyph(b, 'C', -0.1),
		mustGlyph(b, 'G', 0.23),
		mustGlyph(b, 'I', 0.33),
	)

	right := b.Group("decals/right", graph.Ops(
		swTranslate(func(sw float64) mgl64.Vec3 { return vec(1.3, 3, -1.25*sw) }),
		graph.Scale(-1, 1, 1),
		size,
	),
		mustGlyph(b, 'T', -2.2),
		mustGlyph(b, 'P', 0),
		mustGlyph(b, '2', 2.2),
	)

	return b.Group("decals", nil, left, right)
}

// Firehose is the hose reel on the back of the truck: three nested tori
// and the nozzle. The caller places and sizes it.
func Firehose(b *graph.Builder) graph.NodeID {
	coils := []struct {
		x, r float64
	}{
		{0, 1.5},
		{0.1, 0.75},
		{0.2, 0.3575},
	}

	var children []graph.NodeID
	for _, c := range coils {
		children = append(children, b.Shape("firehose/coil", graph.Solid(gfx.Torus, White),
			graph.Translate(c.x, 0, 0),
			graph.RotateX(90),
			graph.RotateZ(90),
			graph.Scale(c.r, 0.8, c.r),
		))
	}
	children = append(children, b.Shape("firehose/nozzle", graph.Solid(gfx.Cylinder, White),
		graph.Translate(0.4, 0, 0),
		graph.RotateX(90),
		graph.RotateZ(90),
		graph.Scale(0.2, 0.2, 0.2),
	))
	return b.Group("firehose", nil, children...)
}
