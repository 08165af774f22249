package gfx

import (
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderResolvesDraws(t *testing.T) {
	r := NewRecorder()
	r.Clear(ClearColor)
	r.Viewport(Rect{0, 0, 640, 480})
	r.SetProjection(mgl64.Ortho(-1, 1, -1, 1, -100, 100))

	r.SetColor(RGB(1, 0, 0))
	r.Upload(mgl64.Translate3D(1, 2, 3))
	r.Draw(Cube, Filled)
	r.SetColor(OutlineColor)
	r.Upload(mgl64.Translate3D(1, 2, 3))
	r.Draw(Cube, Wireframe)

	require.Len(t, r.Frame.Viewports, 1)
	draws := r.Frame.Viewports[0].Draws
	require.Len(t, draws, 2)

	assert.Equal(t, RGB(1, 0, 0), draws[0].Color)
	assert.Equal(t, Filled, draws[0].Mode)
	assert.Equal(t, OutlineColor, draws[1].Color)
	assert.Equal(t, Wireframe, draws[1].Mode)
	assert.InDelta(t, 2.0, float64(draws[0].ModelView[13]), 1e-6)

	assert.Equal(t, 2, r.Uploads())
	assert.Equal(t, 2, r.Frame.DrawCount())
	assert.Len(t, r.Calls, 9)
}

func TestRecorderClearStartsNewFrame(t *testing.T) {
	r := NewRecorder()
	r.Clear(ClearColor)
	r.Upload(mgl64.Ident4())
	r.Draw(Torus, Filled)
	r.Clear(ClearColor)

	assert.Equal(t, 0, r.Frame.DrawCount())
	assert.Equal(t, 0, r.Uploads())
	assert.Len(t, r.Calls, 1)
}

func TestRecorderWithoutCallLog(t *testing.T) {
	r := &Recorder{}
	r.Upload(mgl64.Ident4())
	r.Draw(Cylinder, Filled)

	assert.Empty(t, r.Calls)
	assert.Equal(t, 1, r.Frame.DrawCount(), "draw outside a viewport opens an implicit one")
}

func TestFrameJSON(t *testing.T) {
	r := NewRecorder()
	r.Clear(ClearColor)
	r.Viewport(Rect{W: 10, H: 10})
	r.SetColor(Gray(0.8))
	r.Upload(mgl64.Ident4())
	r.Draw(Cube, Filled)

	data, err := json.Marshal(r.Frame)
	require.NoError(t, err)

	var decoded struct {
		Viewports []struct {
			Draws []struct {
				Shape string    `json:"shape"`
				Mode  string    `json:"mode"`
				Color []float32 `json:"color"`
			} `json:"draws"`
		} `json:"viewports"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Viewports, 1)
	require.Len(t, decoded.Viewports[0].Draws, 1)
	assert.Equal(t, "cube", decoded.Viewports[0].Draws[0].Shape)
	assert.Equal(t, "filled", decoded.Viewports[0].Draws[0].Mode)
	assert.InDelta(t, 0.8, float64(decoded.Viewports[0].Draws[0].Color[0]), 1e-6)
}

func TestFillModeToggle(t *testing.T) {
	assert.Equal(t, Wireframe, Filled.Toggle())
	assert.Equal(t, Filled, Wireframe.Toggle())
}

func TestRectAspect(t *testing.T) {
	assert.InDelta(t, 2.0, Rect{W: 200, H: 100}.Aspect(), 1e-9)
	assert.InDelta(t, 1.0, Rect{}.Aspect(), 1e-9)
}

func TestTextRoundTrip(t *testing.T) {
	for _, s := range []Shape{Cube, Cylinder, Torus} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back Shape
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}
	var s Shape
	assert.Error(t, s.UnmarshalText([]byte("cone")))

	var m FillMode
	require.NoError(t, m.UnmarshalText([]byte("wireframe")))
	assert.Equal(t, Wireframe, m)
	assert.Error(t, m.UnmarshalText([]byte("dotted")))
}
