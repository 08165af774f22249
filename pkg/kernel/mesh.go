package kernel

import "math"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // primitive the mesh was built for
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the per-axis minimum and maximum vertex coordinates. An
// empty mesh has zero bounds.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if m.IsEmpty() {
		return min, max
	}
	for i := 0; i < 3; i++ {
		min[i] = math.MaxFloat32
		max[i] = -math.MaxFloat32
	}
	for v := 0; v+2 < len(m.Vertices); v += 3 {
		for i := 0; i < 3; i++ {
			c := m.Vertices[v+i]
			if c < min[i] {
				min[i] = c
			}
			if c > max[i] {
				max[i] = c
			}
		}
	}
	return min, max
}

// Positions returns the vertices as triples.
func (m *Mesh) Positions() [][3]float32 {
	out := make([][3]float32, 0, m.VertexCount())
	for v := 0; v+2 < len(m.Vertices); v += 3 {
		out = append(out, [3]float32{m.Vertices[v], m.Vertices[v+1], m.Vertices[v+2]})
	}
	return out
}

// NormalVectors returns the normals as triples.
func (m *Mesh) NormalVectors() [][3]float32 {
	out := make([][3]float32, 0, len(m.Normals)/3)
	for v := 0; v+2 < len(m.Normals); v += 3 {
		out = append(out, [3]float32{m.Normals[v], m.Normals[v+1], m.Normals[v+2]})
	}
	return out
}
