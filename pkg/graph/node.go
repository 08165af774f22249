package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeGroup  NodeKind = iota // push, apply the recipe, walk children, pop
	NodeDraw                   // draw a primitive with the current transform
	NodeRepeat                 // instance the children Count times
)

func (k NodeKind) String() string {
	switch k {
	case NodeGroup:
		return "group"
	case NodeDraw:
		return "draw"
	case NodeRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
