// Package camera supplies the view and projection matrices of each
// viewport: an orbiting axonometric camera plus fixed front, top and left
// views, and the single or four-way split layout of the canvas.
package camera

import (
	"math"

	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/go-gl/mathgl/mgl64"
)

// OrbitDistance is the distance of the orbiting eye from the origin. With
// an orthographic projection it only needs to clear the near plane.
const OrbitDistance = 5

// Depth range of the orthographic volume.
const (
	Near = -100.0
	Far  = 100.0
)

var (
	up       = mgl64.Vec3{0, 1, 0}
	origin   = mgl64.Vec3{}
	topUp    = mgl64.Vec3{0, 0, -1}
	frontEye = mgl64.Vec3{-10, 0, 0}
	topEye   = mgl64.Vec3{0, 10, 0}
	leftEye  = mgl64.Vec3{0, 0, 10}
)

// Orbit is a camera circling the origin. Theta turns around the vertical
// axis and Gamma raises the eye, both in radians.
type Orbit struct {
	Distance float64
	Theta    float64
	Gamma    float64
}

// NewOrbit returns the orbit camera of s.
func NewOrbit(s control.State) Orbit {
	return Orbit{Distance: OrbitDistance, Theta: s.Theta, Gamma: s.Gamma}
}

// Position returns the eye position.
func (o Orbit) Position() mgl64.Vec3 {
	return mgl64.Vec3{
		o.Distance * math.Cos(o.Theta) * math.Cos(o.Gamma),
		o.Distance * math.Sin(o.Gamma),
		o.Distance * math.Sin(o.Theta) * math.Cos(o.Gamma),
	}
}

// ViewMatrix looks from Position at the origin.
func (o Orbit) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(o.Position(), origin, up)
}

// View returns the view matrix of the given camera for state s. Only the
// axonometric view depends on s.
func View(v control.View, s control.State) mgl64.Mat4 {
	switch v {
	case control.ViewFront:
		return mgl64.LookAtV(frontEye, origin, up)
	case control.ViewTop:
		return mgl64.LookAtV(topEye, origin, topUp)
	case control.ViewLeft:
		return mgl64.LookAtV(leftEye, origin, up)
	default:
		return NewOrbit(s).ViewMatrix()
	}
}

// Projection returns the orthographic projection for a canvas of the
// given aspect ratio. Zoom is the half-height of the visible volume.
func Projection(aspect, zoom float64) mgl64.Mat4 {
	return mgl64.Ortho(-aspect*zoom, aspect*zoom, -zoom, zoom, Near, Far)
}

// Size is the canvas size in pixels.
type Size struct {
	W int `json:"w" yaml:"width"`
	H int `json:"h" yaml:"height"`
}

// Rect returns the full canvas.
func (s Size) Rect() gfx.Rect {
	return gfx.Rect{W: s.W, H: s.H}
}

// Viewport is one region of the canvas with the camera that renders it.
type Viewport struct {
	Camera     control.View
	Rect       gfx.Rect
	View       mgl64.Mat4
	Projection mgl64.Mat4
}

// Layout returns the viewports of one frame. In split mode the canvas is
// divided into front (top left), left (top right), top (bottom left) and
// axonometric (bottom right) quarters; otherwise the selected view fills
// the canvas. Every viewport uses the projection of the full canvas so a
// quarter shows the same scale as the large view.
func Layout(s control.State, size Size) []Viewport {
	proj := Projection(size.Rect().Aspect(), s.Zoom)

	if !s.AllViews {
		return []Viewport{{
			Camera:     s.View,
			Rect:       size.Rect(),
			View:       View(s.View, s),
			Projection: proj,
		}}
	}

	hw, hh := size.W/2, size.H/2
	quarters := []struct {
		camera control.View
		rect   gfx.Rect
	}{
		{control.ViewFront, gfx.Rect{X: 0, Y: hh, W: hw, H: hh}},
		{control.ViewTop, gfx.Rect{X: 0, Y: 0, W: hw, H: hh}},
		{control.ViewLeft, gfx.Rect{X: hw, Y: hh, W: hw, H: hh}},
		{control.ViewAxo, gfx.Rect{X: hw, Y: 0, W: hw, H: hh}},
	}
	vps := make([]Viewport, 0, len(quarters))
	for _, q := range quarters {
		vps = append(vps, Viewport{
			Camera:     q.camera,
			Rect:       q.rect,
			View:       View(q.camera, s),
			Projection: proj,
		})
	}
	return vps
}
