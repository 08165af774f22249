package traverse_test

import (
	"testing"

	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/traverse"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStack() *xform.Stack {
	s := xform.NewDefault()
	s.Load(mgl64.Ident4())
	return s
}

func newEnv() graph.Env {
	return graph.Env{State: control.Default()}
}

func TestWalkSolidDrawsFillThenOutline(t *testing.T) {
	b := graph.NewBuilder()
	b.Root(b.Shape("cover", graph.Solid(gfx.Cube, gfx.RGB(1, 0, 0)), graph.Translate(0, 1.15, 0)))

	rec := gfx.NewRecorder()
	s := newStack()
	stats, err := traverse.Walk(b.Build(), s, rec, newEnv())
	require.NoError(t, err)

	ops := make([]gfx.CallOp, len(rec.Calls))
	for i, c := range rec.Calls {
		ops[i] = c.Op
	}
	assert.Equal(t, []gfx.CallOp{
		gfx.OpColor, gfx.OpUpload, gfx.OpDraw,
		gfx.OpColor, gfx.OpUpload, gfx.OpDraw,
	}, ops)

	draws := rec.Frame.Viewports[0].Draws
	require.Len(t, draws, 2)
	assert.Equal(t, gfx.RGB(1, 0, 0), draws[0].Color)
	assert.Equal(t, gfx.Filled, draws[0].Mode)
	assert.Equal(t, gfx.OutlineColor, draws[1].Color)
	assert.Equal(t, gfx.Wireframe, draws[1].Mode)
	assert.InDelta(t, 1.15, draws[0].Exact[13], 1e-12)

	assert.Equal(t, 2, stats.Draws)
	assert.Equal(t, 2, stats.Uploads)
	assert.Equal(t, 1, s.Depth(), "walk must leave the stack as it found it")
}

func TestWalkUploadPrecedesEveryDraw(t *testing.T) {
	b := graph.NewBuilder()
	tile := b.Draw("tile", graph.Filled(gfx.Cube, func(e graph.Env) gfx.Color { return gfx.Gray(0.8) }))
	spoke := b.Shape("spoke", graph.Solid(gfx.Cylinder, gfx.Gray(0.5)))
	b.Root(b.Repeat("tiles", graph.Times(3), graph.Ops(graph.Translate(1, 0, 0)), tile))
	b.Root(b.Repeat("spokes", graph.Times(4), graph.Ops(graph.RotateZ(90)), spoke))

	rec := gfx.NewRecorder()
	stats, err := traverse.Walk(b.Build(), newStack(), rec, newEnv())
	require.NoError(t, err)

	draws := 0
	for i, c := range rec.Calls {
		if c.Op != gfx.OpDraw {
			continue
		}
		draws++
		require.Greater(t, i, 0)
		assert.Equal(t, gfx.OpUpload, rec.Calls[i-1].Op, "call %d: draw not preceded by upload", i)
	}
	assert.Equal(t, 3+4*2, draws)
	assert.Equal(t, draws, rec.Uploads())
	assert.Equal(t, draws, stats.Uploads)
}

func TestWalkSharedSubtree(t *testing.T) {
	b := graph.NewBuilder()
	wheel := b.Shape("wheel", graph.Plain(gfx.Torus, gfx.Gray(0.1)))

	var corners []graph.NodeID
	for _, p := range [][2]float64{{3, 2}, {3, -2}, {-3, 2}, {-3, -2}} {
		corners = append(corners, b.Group("corner", graph.Ops(graph.Translate(p[0], 0.65, p[1])), wheel))
	}
	b.Root(b.Group("chassis", nil, corners...))

	rec := gfx.NewRecorder()
	_, err := traverse.Walk(b.Build(), newStack(), rec, newEnv())
	require.NoError(t, err)

	draws := rec.Frame.Viewports[0].Draws
	require.Len(t, draws, 4)
	seen := map[[2]float64]bool{}
	for _, d := range draws {
		assert.Equal(t, gfx.Torus, d.Shape)
		seen[[2]float64{d.Exact[12], d.Exact[14]}] = true
	}
	assert.Len(t, seen, 4, "every instance of the shared wheel gets its own transform")
}

func TestWalkRepeatIndex(t *testing.T) {
	b := graph.NewBuilder()
	tile := b.Draw("tile", graph.Filled(gfx.Cube, func(e graph.Env) gfx.Color {
		if e.Index%2 == 0 {
			return gfx.Gray(0.8)
		}
		return gfx.Gray(0.2)
	}))
	b.Root(b.Repeat("row", graph.Times(4), graph.Ops(
		graph.TranslateFn(func(e graph.Env) mgl64.Vec3 { return mgl64.Vec3{0.5 * float64(e.Index), 0, 0} }),
	), tile))

	env := newEnv()
	env.State.Mode = gfx.Wireframe

	rec := gfx.NewRecorder()
	_, err := traverse.Walk(b.Build(), newStack(), rec, env)
	require.NoError(t, err)

	draws := rec.Frame.Viewports[0].Draws
	require.Len(t, draws, 4)
	for i, d := range draws {
		assert.InDelta(t, 0.5*float64(i), d.Exact[12], 1e-12)
		assert.Equal(t, gfx.Filled, d.Mode, "filled tiles ignore the frame's mode")
	}
	assert.Equal(t, gfx.Gray(0.8), draws[0].Color)
	assert.Equal(t, gfx.Gray(0.2), draws[1].Color)
}

func TestWalkPlainFollowsMode(t *testing.T) {
	b := graph.NewBuilder()
	b.Root(b.Shape("pole", graph.Plain(gfx.Cylinder, gfx.Gray(0.7))))

	env := newEnv()
	env.State.Mode = gfx.Wireframe
	rec := gfx.NewRecorder()
	_, err := traverse.Walk(b.Build(), newStack(), rec, env)
	require.NoError(t, err)

	require.Equal(t, 1, rec.Frame.DrawCount())
	assert.Equal(t, gfx.Wireframe, rec.Frame.Viewports[0].Draws[0].Mode)
}

func TestWalkDepth(t *testing.T) {
	b := graph.NewBuilder()
	id := b.Draw("leaf", graph.Plain(gfx.Cube, gfx.Gray(0)))
	for i := 0; i < 5; i++ {
		id = b.Group("level", nil, id)
	}
	b.Root(id)

	s := newStack()
	stats, err := traverse.Walk(b.Build(), s, gfx.NewRecorder(), newEnv())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.MaxDepth)
	assert.Equal(t, 1, s.Depth())
}

func TestWalkImbalancePanics(t *testing.T) {
	s := newStack()
	b := graph.NewBuilder()
	b.Root(b.Group("leaky", graph.Ops(graph.TranslateFn(func(graph.Env) mgl64.Vec3 {
		s.Push()
		return mgl64.Vec3{}
	}))))

	defer func() {
		r := recover()
		require.NotNil(t, r, "unbalanced subtree must panic")
		serr, ok := r.(*xform.StackError)
		require.True(t, ok, "panic value %T", r)
		assert.ErrorIs(t, serr, xform.ErrImbalance)
		assert.Equal(t, "leaky", serr.Op)
	}()
	traverse.Walk(b.Build(), s, gfx.NewRecorder(), newEnv())
}

func TestWalkBadDataKeepsBalance(t *testing.T) {
	g := graph.New()
	bad := &graph.Node{ID: graph.NewNodeID("bad"), Kind: graph.NodeGroup, Name: "bad", Data: graph.Solid(gfx.Cube, gfx.Gray(0))}
	outer := &graph.Node{ID: graph.NewNodeID("outer"), Kind: graph.NodeGroup, Name: "outer", Children: []graph.NodeID{bad.ID}, Data: graph.GroupData{}}
	g.AddNode(bad)
	g.AddNode(outer)
	g.AddRoot(outer.ID)

	s := newStack()
	_, err := traverse.Walk(g, s, gfx.NewRecorder(), newEnv())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected data type")
	assert.Equal(t, 1, s.Depth())
}

func TestWalkVisitor(t *testing.T) {
	b := graph.NewBuilder()
	b.Root(b.Group("truck", graph.Ops(graph.Translate(1, 0, 1)),
		b.Shape("cover", graph.Solid(gfx.Cube, gfx.RGB(1, 0, 0)), graph.Translate(0, 1.15, 0))))

	tops := map[string]mgl64.Mat4{}
	_, err := traverse.Walk(b.Build(), newStack(), gfx.NewRecorder(), newEnv(),
		traverse.WithVisitor(func(n *graph.Node, top mgl64.Mat4, _ graph.Env) {
			tops[n.Name] = top
		}))
	require.NoError(t, err)

	require.Contains(t, tops, "truck")
	require.Contains(t, tops, "cover/draw")
	assert.InDelta(t, 1.15, tops["cover/draw"][13], 1e-12)
	assert.InDelta(t, 1.0, tops["cover/draw"][12], 1e-12)
}

func TestWalkNilGraph(t *testing.T) {
	stats, err := traverse.Walk(nil, newStack(), gfx.NewRecorder(), newEnv())
	assert.NoError(t, err)
	assert.Zero(t, stats.Draws)
}
