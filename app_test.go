package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/chazu/firehouse/pkg/camera"
	"github.com/chazu/firehouse/pkg/config"
	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/parts"
	"github.com/chazu/firehouse/pkg/scene"
	"github.com/qmuntal/gltf"
)

var testSize = camera.Size{W: 800, H: 600}

// newTestApp returns an app with a coarse mesh and a frozen clock.
func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Kernel.MeshCells = 16
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	app.clock = func() time.Time { return time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC) }
	return app
}

func runExample(t *testing.T, app *App, path string) control.State {
	t.Helper()
	source, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	st, evalErrs, err := app.Script(string(source))
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return st
}

// TestE2ERescueExample exercises the full pipeline: script source → engine →
// control state → frame driver → recorded draws.
func TestE2ERescueExample(t *testing.T) {
	app := newTestApp(t)
	st := runExample(t, app, "examples/rescue.lisp")

	if st.DoorPos != control.MaxDoorPos {
		t.Errorf("door = %v, want clamped to %v", st.DoorPos, control.MaxDoorPos)
	}
	if st.TruckPos != -3 {
		t.Errorf("truck = %v, want -3", st.TruckPos)
	}
	if st.StairBaseAngle != 90 || st.LadderInclination != 40 || st.UpperLadderPos != 3.5 {
		t.Errorf("ladder = (%v, %v, %v), want (90, 40, 3.5)",
			st.StairBaseAngle, st.LadderInclination, st.UpperLadderPos)
	}
	if app.State() != st {
		t.Error("App.State() does not reflect the applied script")
	}

	f, stats, err := app.Frame(testSize)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if len(f.Viewports) != 1 || stats.Viewports != 1 || stats.Loads != 1 {
		t.Fatalf("expected a single viewport with one load, got %d viewports, %d loads", len(f.Viewports), stats.Loads)
	}

	draws := f.Viewports[0].Draws
	want := scene.DrawsPerFrame(app.graph, graph.Env{State: st})
	if len(draws) != want {
		t.Errorf("draws = %d, want %d", len(draws), want)
	}

	tiles, tires := 0, 0
	for _, d := range draws {
		switch {
		case d.Shape == gfx.Cube && d.Mode == gfx.Filled && (d.Color == parts.TileLight || d.Color == parts.TileDark):
			tiles++
		case d.Shape == gfx.Torus && d.Color == parts.TireGray:
			tires++
		}
	}
	if tiles != parts.FloorTiles {
		t.Errorf("floor tiles = %d, want %d", tiles, parts.FloorTiles)
	}
	if tires != 4 {
		t.Errorf("tires = %d, want 4", tires)
	}
}

// TestE2EParadeExample checks the split layout and wireframe mode.
func TestE2EParadeExample(t *testing.T) {
	app := newTestApp(t)
	st := runExample(t, app, "examples/parade.lisp")

	if !st.AllViews || st.Mode != gfx.Wireframe {
		t.Fatalf("expected split wireframe view, got allViews=%v mode=%s", st.AllViews, st.Mode)
	}
	if st.StepNr != control.DefaultStepNr+2 {
		t.Errorf("steps = %d, want %d", st.StepNr, control.DefaultStepNr+2)
	}

	f, stats, err := app.Frame(testSize)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if len(f.Viewports) != 4 || stats.Loads != 4 {
		t.Fatalf("expected 4 viewports with one load each, got %d viewports, %d loads", len(f.Viewports), stats.Loads)
	}

	want := scene.DrawsPerFrame(app.graph, graph.Env{State: st})
	for i, vp := range f.Viewports {
		if len(vp.Draws) != want {
			t.Errorf("viewport %d: draws = %d, want %d", i, len(vp.Draws), want)
		}
		if vp.Rect.W*2 > testSize.W || vp.Rect.H*2 > testSize.H {
			t.Errorf("viewport %d: rect %+v exceeds a quarter of the canvas", i, vp.Rect)
		}
	}

	// Floor tiles stay filled in wireframe mode.
	for _, d := range f.Viewports[0].Draws {
		if d.Color == parts.TileLight && d.Mode != gfx.Filled {
			t.Fatalf("floor tile drawn in %s mode", d.Mode)
		}
	}
}

// TestE2EStairSteps checks that both stairs follow the step count.
func TestE2EStairSteps(t *testing.T) {
	app := newTestApp(t)
	base, _, err := app.Frame(testSize)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	app.Apply(control.Command{Kind: control.CmdSteps, Value: 3})
	more, _, err := app.Frame(testSize)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}

	// Each step is a solid cube: fill plus outline, on each of two stairs.
	got := more.DrawCount() - base.DrawCount()
	if got != 2*2*3 {
		t.Errorf("three more steps added %d draws, want 12", got)
	}
}

// TestE2EDefaultFrameIsDeterministic renders the same state twice.
func TestE2EDefaultFrameIsDeterministic(t *testing.T) {
	app := newTestApp(t)
	a, _, err := app.Frame(testSize)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	b, _, err := app.Frame(testSize)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if a.DrawCount() != b.DrawCount() {
		t.Fatalf("draw counts differ: %d vs %d", a.DrawCount(), b.DrawCount())
	}
	for i := range a.Viewports[0].Draws {
		if a.Viewports[0].Draws[i] != b.Viewports[0].Draws[i] {
			t.Fatalf("draw %d differs between frames", i)
		}
	}
}

// TestE2EExportGLB exports the scene and decodes it again.
func TestE2EExportGLB(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	if err := app.WriteGLB(&buf); err != nil {
		t.Fatalf("WriteGLB: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("glTF")) {
		t.Fatalf("missing GLB magic")
	}

	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := scene.DrawsPerFrame(app.graph, graph.Env{State: app.State()})
	if len(doc.Nodes) != want {
		t.Errorf("nodes = %d, want one per draw (%d)", len(doc.Nodes), want)
	}
	if len(doc.Meshes) == 0 || len(doc.Materials) == 0 {
		t.Error("export has no meshes or materials")
	}
}
