package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// CallOp identifies a recorded backend call.
type CallOp int

const (
	OpClear CallOp = iota
	OpViewport
	OpProjection
	OpColor
	OpUpload
	OpDraw
)

func (op CallOp) String() string {
	switch op {
	case OpClear:
		return "clear"
	case OpViewport:
		return "viewport"
	case OpProjection:
		return "projection"
	case OpColor:
		return "color"
	case OpUpload:
		return "upload"
	case OpDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Call is one recorded backend call. Only the fields relevant to Op are set.
type Call struct {
	Op     CallOp
	Shape  Shape
	Mode   FillMode
	Color  Color
	Matrix mgl64.Mat4
	Rect   Rect
}

// DrawCall is the resolved state of a single draw: which primitive, in
// which mode, with the color and model-view transform in effect.
type DrawCall struct {
	Shape     Shape      `json:"shape"`
	Mode      FillMode   `json:"mode"`
	Color     Color      `json:"color"`
	ModelView mgl32.Mat4 `json:"modelView"`
	Exact     mgl64.Mat4 `json:"-"`
}

// ViewportFrame groups the draws issued into one viewport.
type ViewportFrame struct {
	Rect       Rect       `json:"rect"`
	Projection mgl32.Mat4 `json:"projection"`
	Draws      []DrawCall `json:"draws"`
}

// Frame is everything a Recorder captured between two Clear calls.
type Frame struct {
	Clear     Color           `json:"clear"`
	Viewports []ViewportFrame `json:"viewports"`
}

// DrawCount returns the number of draws over all viewports.
func (f *Frame) DrawCount() int {
	n := 0
	for _, vp := range f.Viewports {
		n += len(vp.Draws)
	}
	return n
}

// Recorder is a Target that keeps every call it receives. It backs the
// web viewer, the glTF exporter and the tests.
type Recorder struct {
	// KeepCalls enables the raw call log. The resolved Frame is always kept.
	KeepCalls bool

	Calls []Call
	Frame Frame

	color    Color
	uploaded mgl64.Mat4
	uploads  int
}

// NewRecorder returns a Recorder that keeps both the call log and the
// resolved frame.
func NewRecorder() *Recorder {
	return &Recorder{KeepCalls: true}
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Frame = Frame{}
	r.uploads = 0
}

// Uploads returns the number of Upload calls since the last Reset.
func (r *Recorder) Uploads() int {
	return r.uploads
}

func (r *Recorder) record(c Call) {
	if r.KeepCalls {
		r.Calls = append(r.Calls, c)
	}
}

func (r *Recorder) Clear(c Color) {
	r.Reset()
	r.Frame.Clear = c
	r.record(Call{Op: OpClear, Color: c})
}

func (r *Recorder) Viewport(rect Rect) {
	r.Frame.Viewports = append(r.Frame.Viewports, ViewportFrame{Rect: rect})
	r.record(Call{Op: OpViewport, Rect: rect})
}

func (r *Recorder) SetProjection(p mgl64.Mat4) {
	vp := r.current()
	vp.Projection = toMat32(p)
	r.record(Call{Op: OpProjection, Matrix: p})
}

func (r *Recorder) SetColor(c Color) {
	r.color = c
	r.record(Call{Op: OpColor, Color: c})
}

func (r *Recorder) Upload(m mgl64.Mat4) {
	r.uploaded = m
	r.uploads++
	r.record(Call{Op: OpUpload, Matrix: m})
}

func (r *Recorder) Draw(s Shape, m FillMode) {
	vp := r.current()
	vp.Draws = append(vp.Draws, DrawCall{
		Shape:     s,
		Mode:      m,
		Color:     r.color,
		ModelView: toMat32(r.uploaded),
		Exact:     r.uploaded,
	})
	r.record(Call{Op: OpDraw, Shape: s, Mode: m, Color: r.color, Matrix: r.uploaded})
}

// current returns the viewport being recorded, opening an implicit one if
// the caller never set a viewport.
func (r *Recorder) current() *ViewportFrame {
	if len(r.Frame.Viewports) == 0 {
		r.Frame.Viewports = append(r.Frame.Viewports, ViewportFrame{})
	}
	return &r.Frame.Viewports[len(r.Frame.Viewports)-1]
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}
