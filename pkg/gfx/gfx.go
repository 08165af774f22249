// Package gfx defines the boundary between scene evaluation and the
// rendering backend. Evaluation only ever talks to a Backend: it selects a
// color, uploads the current model-view transform, and asks for one of the
// canonical unit primitives to be drawn.
package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Shape enumerates the canonical unit primitives. Cube and cylinder span
// [-0.5, 0.5] on every axis (the cylinder's axis is Y); the torus lies in
// the XZ plane with outer radius 0.5.
type Shape int

const (
	Cube Shape = iota
	Cylinder
	Torus
)

func (s Shape) String() string {
	switch s {
	case Cube:
		return "cube"
	case Cylinder:
		return "cylinder"
	case Torus:
		return "torus"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	for _, c := range []Shape{Cube, Cylinder, Torus} {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("invalid shape %q", text)
}

// FillMode selects filled triangles or a wireframe of the primitive.
type FillMode int

const (
	Filled FillMode = iota
	Wireframe
)

func (m FillMode) String() string {
	switch m {
	case Filled:
		return "filled"
	case Wireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("FillMode(%d)", int(m))
	}
}

func (m FillMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *FillMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "filled":
		*m = Filled
	case "wireframe":
		*m = Wireframe
	default:
		return fmt.Errorf("invalid fill mode %q", text)
	}
	return nil
}

// Toggle returns the other fill mode.
func (m FillMode) Toggle() FillMode {
	if m == Wireframe {
		return Filled
	}
	return Wireframe
}

// Color is an RGBA color with components in [0, 1].
type Color mgl32.Vec4

// RGB returns an opaque color.
func RGB(r, g, b float32) Color {
	return Color{r, g, b, 1}
}

// Gray returns an opaque gray of intensity v.
func Gray(v float32) Color {
	return Color{v, v, v, 1}
}

var (
	OutlineColor = Gray(0.2)
	ClearColor   = RGB(0.4, 0.1, 0.1)
)

// Rect is a viewport rectangle in pixels, origin bottom-left.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Aspect returns W/H, or 1 for a degenerate rectangle.
func (r Rect) Aspect() float64 {
	if r.H == 0 {
		return 1
	}
	return float64(r.W) / float64(r.H)
}

// Backend receives the per-primitive calls issued while a scene is
// evaluated. Upload is called exactly once immediately before every Draw.
type Backend interface {
	SetColor(c Color)
	Upload(modelView mgl64.Mat4)
	Draw(s Shape, m FillMode)
}

// Target is a Backend that also receives the per-frame and per-viewport
// calls issued by the frame driver.
type Target interface {
	Backend
	Clear(c Color)
	Viewport(r Rect)
	SetProjection(p mgl64.Mat4)
}
