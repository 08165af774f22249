package main

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/chazu/firehouse/pkg/camera"
	"github.com/chazu/firehouse/pkg/config"
	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/engine"
	"github.com/chazu/firehouse/pkg/export"
	"github.com/chazu/firehouse/pkg/frame"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/kernel"
	"github.com/chazu/firehouse/pkg/kernel/sdfx"
	"github.com/chazu/firehouse/pkg/logging"
	"github.com/chazu/firehouse/pkg/scene"
	"github.com/chazu/firehouse/pkg/web"
	"github.com/pkg/errors"
)

// shutdownTimeout bounds how long Serve waits for open requests.
const shutdownTimeout = 5 * time.Second

// App is the viewer backend. It owns the live control state; input from
// keys, scripts and HTTP mutates it under a lock and every frame renders a
// snapshot copied under the same lock.
type App struct {
	cfg    *config.Config
	graph  *graph.Graph
	engine *engine.Engine
	lib    *kernel.Library

	mu    sync.Mutex
	state control.State

	// clock drives the wall clock in the scene.
	clock func() time.Time
}

var _ web.Backend = (*App)(nil)

// NewApp builds the scene and the initial state described by cfg.
func NewApp(cfg *config.Config) (*App, error) {
	g, err := scene.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building scene")
	}
	return &App{
		cfg:    cfg,
		graph:  g,
		engine: engine.NewEngine(),
		lib:    kernel.NewLibrary(sdfx.NewWithCells(cfg.Kernel.MeshCells)),
		state:  cfg.InitialState(),
		clock:  time.Now,
	}, nil
}

// State returns a snapshot of the control state.
func (a *App) State() control.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Apply applies cmds in order and returns the new state.
func (a *App) Apply(cmds ...control.Command) control.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = control.ApplyAll(a.state, cmds)
	return a.state
}

// Key applies the command bound to the key name.
func (a *App) Key(name string) (control.State, error) {
	c, ok := control.KeyCommand(name)
	if !ok {
		return a.State(), errors.Wrapf(web.ErrUnknownKey, "%q", name)
	}
	logging.Debug("key", "key", name, "command", c)
	return a.Apply(c), nil
}

// scriptAttempts bounds how often Script evaluates again when input
// changes the state while a script runs.
const scriptAttempts = 3

// errStateChanged is returned when every attempt of a script lost the race
// against concurrent input.
var errStateChanged = errors.New("control state changed while the script ran")

// Script evaluates source against the current state and commits the
// resulting state only if no other input changed it in the meantime;
// otherwise the script runs again on the newer state. A script with errors
// changes nothing.
func (a *App) Script(source string) (control.State, []engine.EvalError, error) {
	for attempt := 1; attempt <= scriptAttempts; attempt++ {
		start := a.State()
		res, evalErrs, err := a.engine.Evaluate(source, start)
		if err != nil {
			logging.Error("script failed", "error", err)
			return start, nil, err
		}
		if len(evalErrs) > 0 {
			logging.Info("script rejected", "errors", len(evalErrs), "first", evalErrs[0].Error())
			return start, evalErrs, nil
		}
		if a.commit(start, res.State) {
			logging.DebugDump("script applied", res.Commands)
			return res.State, nil, nil
		}
		logging.Debug("state changed during script", "attempt", attempt)
	}
	return a.State(), nil, errors.Wrapf(errStateChanged, "after %d attempts", scriptAttempts)
}

// commit replaces the state with next if it still equals start.
func (a *App) commit(start, next control.State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != start {
		return false
	}
	a.state = next
	return true
}

// Frame renders the current state at size into a fresh recorder.
func (a *App) Frame(size camera.Size) (*gfx.Frame, frame.Stats, error) {
	rec := &gfx.Recorder{}
	st, err := frame.New(a.graph, rec).Render(a.State(), size, a.clock())
	if err != nil {
		return nil, st, err
	}
	return &rec.Frame, st, nil
}

// WriteGLB exports the current state in world space as binary glTF.
func (a *App) WriteGLB(w io.Writer) error {
	doc, err := export.Scene(a.lib, a.graph, a.State(), a.clock())
	if err != nil {
		return err
	}
	return export.WriteBinary(w, doc)
}

// Serve runs the HTTP server and the frame loop until ctx is done. Frames
// are only rendered while a websocket client is watching.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := web.NewServer(a, a.cfg.Server.WebDir, a.cfg.Viewport)

	rec := &gfx.Recorder{}
	driver := frame.New(a.graph, rec, frame.WithObserver(func(st frame.Stats, err error) {
		if err == nil {
			srv.PublishFrame(&rec.Frame, st)
		}
	}))

	ticker := time.NewTicker(a.cfg.Server.FrameInterval)
	defer ticker.Stop()
	ticks := visibleTicks(ctx, ticker.C, func() bool { return srv.Hub().Clients() > 0 })

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- driver.Run(ctx, ticks, func() (control.State, camera.Size) {
			return a.State(), a.cfg.Viewport
		})
	}()

	httpSrv := &http.Server{Addr: a.cfg.Server.Addr, Handler: srv.Handler()}
	serveErr := make(chan error, 1)
	go func() {
		logging.Info("starting server", "addr", a.cfg.Server.Addr)
		serveErr <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}
	<-loopDone
	logging.Info("server stopped", "frames", driver.Frames())
	return nil
}

// visibleTicks forwards ticks from in while visible reports true. A tick
// the consumer is not ready for is dropped.
func visibleTicks(ctx context.Context, in <-chan time.Time, visible func() bool) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case t, ok := <-in:
				if !ok {
					return
				}
				if !visible() {
					continue
				}
				select {
				case out <- t:
				default:
				}
			}
		}
	}()
	return out
}
