// Package traverse evaluates a scene graph against a transform stack and
// issues the resulting draw calls to a graphics backend. It is the only
// code that pushes and pops the stack while a frame is rendered.
package traverse

import (
	"fmt"

	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
)

// Stats counts the work done by one Walk.
type Stats struct {
	Nodes    int `json:"nodes"`    // node visits, repeat instances counted once per node
	Draws    int `json:"draws"`    // Draw calls issued
	Uploads  int `json:"uploads"`  // Upload calls issued
	MaxDepth int `json:"maxDepth"` // deepest stack depth reached
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.Draws += o.Draws
	s.Uploads += o.Uploads
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

// Visitor is called for every group frame (after its ops are applied),
// every repeat instance and every draw, with the top of the stack at that
// point.
type Visitor func(n *graph.Node, top mgl64.Mat4, env graph.Env)

// Option configures a Walk.
type Option func(*walker)

// WithVisitor installs fn as the walk's visitor.
func WithVisitor(fn Visitor) Option {
	return func(w *walker) { w.visit = fn }
}

type walker struct {
	g     *graph.Graph
	s     *xform.Stack
	b     gfx.Backend
	visit Visitor
	stats Stats
}

// Walk evaluates every root of g in order. The stack must already hold the
// view transform; on return its depth is unchanged. A subtree that leaves
// the stack deeper or shallower than it found it panics with an
// *xform.StackError wrapping xform.ErrImbalance. Malformed nodes are
// reported as errors.
func Walk(g *graph.Graph, s *xform.Stack, b gfx.Backend, env graph.Env, opts ...Option) (Stats, error) {
	if g == nil {
		return Stats{}, nil
	}
	w := &walker{g: g, s: s, b: b}
	for _, opt := range opts {
		opt(w)
	}
	w.stats.MaxDepth = s.Depth()

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			return w.stats, fmt.Errorf("traverse: root %s does not exist", rootID.Short())
		}
		if err := w.walkNode(root, env); err != nil {
			return w.stats, fmt.Errorf("traverse: error walking root %s: %w", name(root), err)
		}
	}
	return w.stats, nil
}

// walkNode dispatches on the node kind and checks that the subtree left
// the stack as deep as it found it.
func (w *walker) walkNode(n *graph.Node, env graph.Env) error {
	before := w.s.Depth()
	w.stats.Nodes++

	var err error
	switch n.Kind {
	case graph.NodeGroup:
		err = w.handleGroup(n, env)
	case graph.NodeRepeat:
		err = w.handleRepeat(n, env)
	case graph.NodeDraw:
		err = w.handleDraw(n, env)
	default:
		err = fmt.Errorf("unknown node kind: %v", n.Kind)
	}

	if after := w.s.Depth(); after != before {
		panic(xform.Imbalance(name(n), after, before))
	}
	return err
}

// handleGroup pushes a frame, applies the recipe, walks the children and
// pops. The pop also happens on the error path.
func (w *walker) handleGroup(n *graph.Node, env graph.Env) error {
	gd, ok := n.Data.(graph.GroupData)
	if !ok {
		return fmt.Errorf("group node %s has unexpected data type %T", name(n), n.Data)
	}

	w.push()
	for _, op := range gd.Ops {
		op.Apply(w.s, env)
	}
	if w.visit != nil {
		w.visit(n, w.s.Top(), env)
	}
	err := w.walkChildren(n, env)
	w.s.Pop()
	return err
}

// handleRepeat instances the children once per index, each instance in its
// own frame.
func (w *walker) handleRepeat(n *graph.Node, env graph.Env) error {
	rd, ok := n.Data.(graph.RepeatData)
	if !ok {
		return fmt.Errorf("repeat node %s has unexpected data type %T", name(n), n.Data)
	}
	if rd.Count == nil {
		return fmt.Errorf("repeat node %s has no count", name(n))
	}

	count := rd.Count(env)
	for i := 0; i < count; i++ {
		env.Index = i
		w.push()
		for _, op := range rd.Ops {
			op.Apply(w.s, env)
		}
		if w.visit != nil {
			w.visit(n, w.s.Top(), env)
		}
		err := w.walkChildren(n, env)
		w.s.Pop()
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", name(n), i, err)
		}
	}
	return nil
}

// handleDraw issues the draw calls of a leaf with the current transform.
func (w *walker) handleDraw(n *graph.Node, env graph.Env) error {
	d, ok := n.Data.(graph.DrawData)
	if !ok {
		return fmt.Errorf("draw node %s has unexpected data type %T", name(n), n.Data)
	}
	if w.visit != nil {
		w.visit(n, w.s.Top(), env)
	}

	mode := env.State.Mode
	switch d.Style {
	case graph.StyleSolid:
		w.drawSolid(d.Shape, d.ColorAt(env), gfx.OutlineColor, mode)
	case graph.StylePlain:
		w.draw(d.Shape, d.ColorAt(env), mode)
	case graph.StyleFilled:
		w.draw(d.Shape, d.ColorAt(env), gfx.Filled)
	default:
		return fmt.Errorf("draw node %s has unknown style %v", name(n), d.Style)
	}
	return nil
}

func (w *walker) walkChildren(n *graph.Node, env graph.Env) error {
	for _, childID := range n.Children {
		child := w.g.Get(childID)
		if child == nil {
			return fmt.Errorf("node %s: child %s does not exist", name(n), childID.Short())
		}
		if err := w.walkNode(child, env); err != nil {
			return err
		}
	}
	return nil
}

// drawSolid fills the shape in the frame's mode, then outlines it.
func (w *walker) drawSolid(shape gfx.Shape, fill, outline gfx.Color, mode gfx.FillMode) {
	w.draw(shape, fill, mode)
	w.draw(shape, outline, gfx.Wireframe)
}

// draw uploads the current top and issues one draw call.
func (w *walker) draw(shape gfx.Shape, c gfx.Color, mode gfx.FillMode) {
	w.b.SetColor(c)
	w.b.Upload(w.s.Top())
	w.b.Draw(shape, mode)
	w.stats.Uploads++
	w.stats.Draws++
}

func (w *walker) push() {
	w.s.Push()
	if d := w.s.Depth(); d > w.stats.MaxDepth {
		w.stats.MaxDepth = d
	}
}

func name(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
