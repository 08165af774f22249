package graph

import (
	"fmt"

	"github.com/chazu/firehouse/pkg/gfx"
)

// ValidationSeverity indicates whether a validation finding blocks
// evaluation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// HasErrors reports whether errs contains a blocking finding.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs all structural checks on the scene graph and returns the
// findings. maxDepth is the capacity of the stack the graph will be
// evaluated with; zero skips the depth check. An empty slice means the
// graph is valid. Validate never mutates the graph.
func Validate(g *Graph, maxDepth int) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateData(g)...)
	if maxDepth > 0 && !HasErrors(errs) {
		errs = append(errs, validateDepth(g, maxDepth)...)
	}
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(g *Graph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", describe(g, id)),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for id := range g.Nodes {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex is injective and that every
// entry points to an existing node.
func validateNames(g *Graph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range g.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root references an existing node and
// warns about orphans (nodes unreachable from any root).
func validateRoots(g *Graph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id := range g.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", describe(g, id)),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateData checks that each node's payload matches its kind.
func validateData(g *Graph) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, msg string) {
		errs = append(errs, ValidationError{NodeID: n.ID, Message: msg, Severity: SeverityError})
	}

	for _, n := range g.Nodes {
		switch n.Kind {
		case NodeGroup:
			if _, ok := n.Data.(GroupData); !ok {
				bad(n, fmt.Sprintf("group node has %T data", n.Data))
			}
		case NodeDraw:
			d, ok := n.Data.(DrawData)
			if !ok {
				bad(n, fmt.Sprintf("draw node has %T data", n.Data))
				continue
			}
			if len(n.Children) > 0 {
				bad(n, "draw node has children")
			}
			if d.Shape < gfx.Cube || d.Shape > gfx.Torus {
				bad(n, fmt.Sprintf("draw node has invalid shape %s", d.Shape))
			}
		case NodeRepeat:
			r, ok := n.Data.(RepeatData)
			if !ok {
				bad(n, fmt.Sprintf("repeat node has %T data", n.Data))
				continue
			}
			if r.Count == nil {
				bad(n, "repeat node has no count")
			}
		default:
			bad(n, fmt.Sprintf("unknown node kind %d", int(n.Kind)))
		}
	}
	return errs
}

// validateDepth checks that no path from a root needs more stack entries
// than the stack provides. The view entry loaded at frame start takes one.
func validateDepth(g *Graph, maxDepth int) []ValidationError {
	var errs []ValidationError
	for _, rid := range g.Roots {
		if d := g.Depth(rid) + 1; d > maxDepth {
			errs = append(errs, ValidationError{
				NodeID:   rid,
				Message:  fmt.Sprintf("root %q needs stack depth %d, capacity is %d", describe(g, rid), d, maxDepth),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func describe(g *Graph, id NodeID) string {
	if n := g.Nodes[id]; n != nil && n.Name != "" {
		return n.Name
	}
	return id.Short()
}
