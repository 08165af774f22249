// Package frame drives rendering: once per tick it clears the target and,
// for every viewport of the layout, loads the camera's view onto the
// transform stack and walks the scene with one control snapshot.
package frame

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/chazu/firehouse/pkg/camera"
	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/logging"
	"github.com/chazu/firehouse/pkg/traverse"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/pkg/errors"
)

// ErrFrameInFlight is returned by Render while another frame is being
// rendered by the same driver.
var ErrFrameInFlight = errors.New("frame: frame already in flight")

// State is the driver's position in its render cycle.
type State int32

const (
	Idle State = iota
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	default:
		return "unknown"
	}
}

// Stats describes one rendered frame.
type Stats struct {
	Frame     uint64         `json:"frame"`
	Viewports int            `json:"viewports"`
	Loads     int            `json:"loads"`
	Walk      traverse.Stats `json:"walk"`
	Duration  time.Duration  `json:"duration"`
}

// Observer receives the outcome of every frame rendered by Run.
type Observer func(Stats, error)

// Source supplies the control snapshot and canvas size of the next frame.
type Source func() (control.State, camera.Size)

// Option configures a Driver.
type Option func(*Driver)

// WithStack makes the driver evaluate on s instead of a fresh stack of
// xform.DefaultCapacity entries.
func WithStack(s *xform.Stack) Option {
	return func(d *Driver) { d.stack = s }
}

// WithObserver installs fn as the frame observer of Run.
func WithObserver(fn Observer) Option {
	return func(d *Driver) { d.observer = fn }
}

// Driver renders frames of one scene graph into one target. A Driver is
// not safe for concurrent use; overlapping calls to Render fail with
// ErrFrameInFlight instead of corrupting the shared stack.
type Driver struct {
	graph    *graph.Graph
	target   gfx.Target
	stack    *xform.Stack
	observer Observer

	state  atomic.Int32
	frames uint64
}

// New returns an idle driver for g rendering into target.
func New(g *graph.Graph, target gfx.Target, opts ...Option) *Driver {
	d := &Driver{graph: g, target: target}
	for _, opt := range opts {
		opt(d)
	}
	if d.stack == nil {
		d.stack = xform.NewDefault()
	}
	return d
}

// State reports whether a frame is in flight.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Frames returns the number of frames rendered so far.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Render renders one frame of s at the given canvas size. Every viewport
// sees the same snapshot; now drives the clock. A stack misuse inside the
// walk is returned as an error wrapping the *xform.StackError, and the
// driver returns to Idle either way.
func (d *Driver) Render(s control.State, size camera.Size, now time.Time) (st Stats, err error) {
	if !d.state.CompareAndSwap(int32(Idle), int32(Rendering)) {
		return Stats{}, ErrFrameInFlight
	}
	defer d.state.Store(int32(Idle))

	d.frames++
	st.Frame = d.frames
	start := time.Now()
	defer func() {
		st.Duration = time.Since(start)
	}()
	defer func() {
		if r := recover(); r != nil {
			serr, ok := r.(*xform.StackError)
			if !ok {
				panic(r)
			}
			err = errors.Wrapf(serr, "frame %d", st.Frame)
		}
	}()

	d.target.Clear(gfx.ClearColor)
	env := graph.Env{State: s, Now: now}

	for _, vp := range camera.Layout(s, size) {
		d.target.Viewport(vp.Rect)
		d.target.SetProjection(vp.Projection)
		d.stack.Load(vp.View)
		st.Loads++

		ws, werr := traverse.Walk(d.graph, d.stack, d.target, env)
		st.Walk.Add(ws)
		if werr != nil {
			return st, errors.Wrapf(werr, "frame %d: %s viewport", st.Frame, vp.Camera)
		}
		if depth := d.stack.Depth(); depth != 1 {
			return st, errors.Wrapf(xform.Imbalance("frame", depth, 1), "frame %d", st.Frame)
		}
		st.Viewports++
	}
	return st, nil
}

// Run renders one frame per tick until ctx is done or ticks is closed.
// Frames that fail are logged and reported to the observer; the loop
// keeps going. Skipping a tick is up to whoever feeds ticks.
func (d *Driver) Run(ctx context.Context, ticks <-chan time.Time, src Source) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			s, size := src()
			st, err := d.Render(s, size, now)
			if err != nil {
				logging.Error("frame failed", "frame", st.Frame, "error", err)
				logging.DebugDump("failed frame", s, st)
			} else {
				logging.Debug("frame rendered", "frame", st.Frame, "draws", st.Walk.Draws, "viewports", st.Viewports)
			}
			if d.observer != nil {
				d.observer(st, err)
			}
		}
	}
}
