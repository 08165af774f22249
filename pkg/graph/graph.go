package graph

import "fmt"

// Graph is the scene graph: every node keyed by ID plus the ordered list of
// roots. Roots are evaluated in order, each inside its own push/pop.
type Graph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *Graph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given name, or nil.
func (g *Graph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *Graph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *Graph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Draws returns all draw nodes in the graph.
func (g *Graph) Draws() []*Node {
	return g.ofKind(NodeDraw)
}

// Repeats returns all repeat nodes in the graph.
func (g *Graph) Repeats() []*Node {
	return g.ofKind(NodeRepeat)
}

func (g *Graph) ofKind(k NodeKind) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if n.Kind == k {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Children returns the child nodes of the given node.
func (g *Graph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// Depth returns the stack depth needed to evaluate the deepest path below
// id, counting one level per group and per repeat instance. Cycles are not
// detected here; run Validate first.
func (g *Graph) Depth(id NodeID) int {
	memo := make(map[NodeID]int)
	var depth func(id NodeID) int
	depth = func(id NodeID) int {
		if d, ok := memo[id]; ok {
			return d
		}
		n := g.Nodes[id]
		if n == nil {
			return 0
		}
		deepest := 0
		for _, c := range n.Children {
			if d := depth(c); d > deepest {
				deepest = d
			}
		}
		if n.Kind != NodeDraw {
			deepest++
		}
		memo[id] = deepest
		return deepest
	}
	return depth(id)
}

// MaxDepth returns the deepest Depth over all roots.
func (g *Graph) MaxDepth() int {
	deepest := 0
	for _, r := range g.Roots {
		if d := g.Depth(r); d > deepest {
			deepest = d
		}
	}
	return deepest
}
