package graph

import (
	"time"

	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
)

// Env is what parameterized ops and draws may read while a frame is
// evaluated. It is passed by value, so a repeat's Index is only visible
// inside its own subtree.
type Env struct {
	State control.State // the frame's snapshot
	Index int           // instance index of the innermost enclosing repeat
	Now   time.Time     // frame time, drives the clock hands
}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData is a local coordinate frame. Ops are applied in order after the
// push, so the last op is the one closest to the geometry.
type GroupData struct {
	Ops []Op `json:"ops,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Draw
// ---------------------------------------------------------------------------

// DrawStyle selects how a draw node issues its draw calls.
type DrawStyle int

const (
	// StyleSolid fills in the frame's mode, then outlines in wireframe.
	StyleSolid DrawStyle = iota
	// StylePlain draws once in the frame's mode.
	StylePlain
	// StyleFilled always draws filled triangles, whatever the frame's mode.
	StyleFilled
)

func (s DrawStyle) String() string {
	switch s {
	case StyleSolid:
		return "solid"
	case StylePlain:
		return "plain"
	case StyleFilled:
		return "filled"
	default:
		return "unknown"
	}
}

func (s DrawStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DrawData issues one primitive (two draw calls for StyleSolid). When
// ColorFn is set it overrides Color.
type DrawData struct {
	Shape   gfx.Shape           `json:"shape"`
	Style   DrawStyle           `json:"style"`
	Color   gfx.Color           `json:"color"`
	ColorFn func(Env) gfx.Color `json:"-"`
}

func (DrawData) nodeData() {}

// ColorAt resolves the fill color for env.
func (d DrawData) ColorAt(env Env) gfx.Color {
	if d.ColorFn != nil {
		return d.ColorFn(env)
	}
	return d.Color
}

// Calls returns the number of draw calls the node issues per visit.
func (d DrawData) Calls() int {
	if d.Style == StyleSolid {
		return 2
	}
	return 1
}

// Solid is a filled primitive with a wireframe outline.
func Solid(shape gfx.Shape, c gfx.Color) DrawData {
	return DrawData{Shape: shape, Style: StyleSolid, Color: c}
}

// Plain is a primitive drawn once in the frame's mode.
func Plain(shape gfx.Shape, c gfx.Color) DrawData {
	return DrawData{Shape: shape, Style: StylePlain, Color: c}
}

// Filled is a primitive that is always drawn filled, with a color computed
// from the environment.
func Filled(shape gfx.Shape, fn func(Env) gfx.Color) DrawData {
	return DrawData{Shape: shape, Style: StyleFilled, ColorFn: fn}
}

// ---------------------------------------------------------------------------
// Repeat
// ---------------------------------------------------------------------------

// RepeatData instances its children Count(env) times. Every instance is
// its own frame: push, apply Ops with env.Index set, walk children, pop.
type RepeatData struct {
	Count func(Env) int `json:"-"`
	Ops   []Op          `json:"ops,omitempty"`
}

func (RepeatData) nodeData() {}

// Times returns a constant count function.
func Times(n int) func(Env) int {
	return func(Env) int { return n }
}
