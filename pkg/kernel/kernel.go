// Package kernel defines the geometry kernel that tessellates the three
// canonical primitives every draw call refers to. Implementations (sdfx)
// build solids behind this interface; Library turns them into cached
// triangle meshes for exporters and viewers.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. Every solid is
// centered on the origin; axes of revolution run along Y.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Torus(ring, tube float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
