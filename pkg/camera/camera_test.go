package camera

import (
	"math"
	"testing"

	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOrbitPosition(t *testing.T) {
	o := Orbit{Distance: 5, Theta: 0, Gamma: 0}
	assert.True(t, o.Position().ApproxFuncEqual(mgl64.Vec3{5, 0, 0}, near))

	o = Orbit{Distance: 5, Theta: math.Pi / 2, Gamma: 0}
	assert.True(t, o.Position().ApproxFuncEqual(mgl64.Vec3{0, 0, 5}, near))

	o = Orbit{Distance: 5, Theta: 1.3, Gamma: 0.4}
	assert.InDelta(t, 5, o.Position().Len(), 1e-9)
	assert.InDelta(t, 5*math.Sin(0.4), o.Position().Y(), 1e-9)
}

func TestViewMapsOriginAlongViewAxis(t *testing.T) {
	s := control.Default()
	for _, v := range []control.View{control.ViewAxo, control.ViewFront, control.ViewTop, control.ViewLeft} {
		t.Run(v.String(), func(t *testing.T) {
			m := View(v, s)
			p := mgl64.TransformCoordinate(mgl64.Vec3{}, m)
			// The target sits on the view axis, straight ahead of the eye.
			assert.InDelta(t, 0, p.X(), 1e-9)
			assert.InDelta(t, 0, p.Y(), 1e-9)
			assert.Less(t, p.Z(), 0.0)
		})
	}
}

func TestTopViewOrientation(t *testing.T) {
	m := View(control.ViewTop, control.Default())
	// Looking down with -Z as up: a point at -Z appears above the center.
	p := mgl64.TransformCoordinate(mgl64.Vec3{0, 0, -1}, m)
	assert.InDelta(t, 1, p.Y(), 1e-9)
}

func TestOnlyAxoFollowsOrbit(t *testing.T) {
	a := control.Default()
	b := a
	b.Theta += 0.5

	assert.NotEqual(t, View(control.ViewAxo, a), View(control.ViewAxo, b))
	assert.Equal(t, View(control.ViewFront, a), View(control.ViewFront, b))
}

func TestProjection(t *testing.T) {
	p := Projection(2, 12)
	corner := mgl64.TransformCoordinate(mgl64.Vec3{24, 12, 0}, p)
	assert.InDelta(t, 1, corner.X(), 1e-9)
	assert.InDelta(t, 1, corner.Y(), 1e-9)
}

func TestLayoutSingle(t *testing.T) {
	s := control.Default()
	s.View = control.ViewTop

	vps := Layout(s, Size{W: 800, H: 600})
	require.Len(t, vps, 1)
	assert.Equal(t, control.ViewTop, vps[0].Camera)
	assert.Equal(t, gfx.Rect{W: 800, H: 600}, vps[0].Rect)
	assert.Equal(t, View(control.ViewTop, s), vps[0].View)
}

func TestLayoutSplit(t *testing.T) {
	s := control.Default()
	s.AllViews = true

	vps := Layout(s, Size{W: 800, H: 600})
	require.Len(t, vps, 4)

	want := []struct {
		camera control.View
		rect   gfx.Rect
	}{
		{control.ViewFront, gfx.Rect{X: 0, Y: 300, W: 400, H: 300}},
		{control.ViewTop, gfx.Rect{X: 0, Y: 0, W: 400, H: 300}},
		{control.ViewLeft, gfx.Rect{X: 400, Y: 300, W: 400, H: 300}},
		{control.ViewAxo, gfx.Rect{X: 400, Y: 0, W: 400, H: 300}},
	}
	full := Projection(800.0/600.0, s.Zoom)
	for i, w := range want {
		assert.Equal(t, w.camera, vps[i].Camera, "viewport %d", i)
		assert.Equal(t, w.rect, vps[i].Rect, "viewport %d", i)
		assert.Equal(t, full, vps[i].Projection, "viewport %d keeps the full-canvas aspect", i)
	}
}
