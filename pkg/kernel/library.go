package kernel

import (
	"fmt"
	"sync"

	"github.com/chazu/firehouse/pkg/gfx"
)

// Dimensions of the canonical primitives. Each fits the unit cube
// centered on the origin, so a draw's scale is the primitive's size.
const (
	CylinderHeight = 1.0
	CylinderRadius = 0.5
	TorusRing      = 0.4 // distance from the axis to the center of the tube
	TorusTube      = 0.1
)

// Unit returns the canonical solid of a primitive shape.
func Unit(k Kernel, s gfx.Shape) (Solid, error) {
	switch s {
	case gfx.Cube:
		return k.Box(1, 1, 1), nil
	case gfx.Cylinder:
		return k.Cylinder(CylinderHeight, CylinderRadius), nil
	case gfx.Torus:
		return k.Torus(TorusRing, TorusTube), nil
	default:
		return nil, fmt.Errorf("kernel: no primitive for shape %v", s)
	}
}

// Library tessellates each primitive once and hands out the cached mesh.
// It is safe for concurrent use.
type Library struct {
	k Kernel

	mu     sync.Mutex
	meshes map[gfx.Shape]*Mesh
}

// NewLibrary returns an empty library backed by k.
func NewLibrary(k Kernel) *Library {
	return &Library{k: k, meshes: make(map[gfx.Shape]*Mesh)}
}

// Mesh returns the mesh of the canonical primitive s. Callers must not
// modify it.
func (l *Library) Mesh(s gfx.Shape) (*Mesh, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.meshes[s]; ok {
		return m, nil
	}
	solid, err := Unit(l.k, s)
	if err != nil {
		return nil, err
	}
	m, err := l.k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("kernel: tessellating %v: %w", s, err)
	}
	m.Name = s.String()
	l.meshes[s] = m
	return m, nil
}

// Shapes returns the primitives already tessellated.
func (l *Library) Shapes() []gfx.Shape {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []gfx.Shape
	for _, s := range []gfx.Shape{gfx.Cube, gfx.Cylinder, gfx.Torus} {
		if _, ok := l.meshes[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
