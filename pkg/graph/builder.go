package graph

import "fmt"

// Builder provides a fluent API for building scene graphs. Node names are
// unique within a graph; a repeated name gets a "#n" suffix so that two
// independent builders of the same part never collide.
type Builder struct {
	graph *Graph
	used  map[string]int
}

// NewBuilder creates a new graph builder.
func NewBuilder() *Builder {
	return &Builder{
		graph: New(),
		used:  make(map[string]int),
	}
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// Build returns the finished graph.
func (b *Builder) Build() *Graph {
	return b.graph
}

func (b *Builder) add(name string, kind NodeKind, data NodeData, children []NodeID) NodeID {
	if name == "" {
		name = kind.String()
	}
	if n := b.used[name]; n > 0 {
		b.used[name] = n + 1
		name = fmt.Sprintf("%s#%d", name, n+1)
	} else {
		b.used[name] = 1
	}

	id := NewNodeID(name)
	b.graph.AddNode(&Node{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	})
	return id
}

// Group adds a group node that applies ops and then walks children.
func (b *Builder) Group(name string, ops []Op, children ...NodeID) NodeID {
	return b.add(name, NodeGroup, GroupData{Ops: ops}, children)
}

// Draw adds a draw leaf.
func (b *Builder) Draw(name string, d DrawData) NodeID {
	return b.add(name, NodeDraw, d, nil)
}

// Repeat adds a repeat node.
func (b *Builder) Repeat(name string, count func(Env) int, ops []Op, children ...NodeID) NodeID {
	return b.add(name, NodeRepeat, RepeatData{Count: count, Ops: ops}, children)
}

// Shape adds a group holding a single draw: the common "place, size, draw"
// leaf of every part.
func (b *Builder) Shape(name string, d DrawData, ops ...Op) NodeID {
	draw := b.Draw(name+"/draw", d)
	return b.Group(name, ops, draw)
}

// Shared returns the node already registered under name, or builds it.
// Use it for subtrees instanced from several places.
func (b *Builder) Shared(name string, build func() NodeID) NodeID {
	if n := b.graph.Lookup(name); n != nil {
		return n.ID
	}
	return build()
}

// Root registers id as the next root.
func (b *Builder) Root(id NodeID) NodeID {
	b.graph.AddRoot(id)
	return id
}
