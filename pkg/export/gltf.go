// Package export writes evaluated frames as glTF 2.0 documents. Every draw
// call becomes one node whose matrix is the draw's model-view transform
// and whose mesh is the canonical primitive from a kernel.Library.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/chazu/firehouse/pkg/control"
	"github.com/chazu/firehouse/pkg/gfx"
	"github.com/chazu/firehouse/pkg/graph"
	"github.com/chazu/firehouse/pkg/kernel"
	"github.com/chazu/firehouse/pkg/traverse"
	"github.com/chazu/firehouse/pkg/xform"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type geometryKey struct {
	shape gfx.Shape
	mode  gfx.FillMode
}

type meshKey struct {
	geometryKey
	color gfx.Color
}

// geometry holds the accessors of one tessellated primitive.
type geometry struct {
	position, normal, indices uint32
}

// Exporter accumulates draws into one document. Draws of the same
// primitive share vertex accessors, draws in the same mode share index
// accessors, and draws that also share a color share a mesh.
type Exporter struct {
	lib *kernel.Library
	doc *gltf.Document

	geometries map[geometryKey]geometry
	meshes     map[meshKey]uint32
	materials  map[gfx.Color]uint32
}

// New returns an exporter with an empty document.
func New(lib *kernel.Library) *Exporter {
	return &Exporter{
		lib:        lib,
		doc:        gltf.NewDocument(),
		geometries: make(map[geometryKey]geometry),
		meshes:     make(map[meshKey]uint32),
		materials:  make(map[gfx.Color]uint32),
	}
}

// Document returns the document built so far.
func (e *Exporter) Document() *gltf.Document {
	return e.doc
}

// AddDraws appends one node per draw.
func (e *Exporter) AddDraws(draws []gfx.DrawCall) error {
	for i, d := range draws {
		mesh, err := e.mesh(meshKey{geometryKey{d.Shape, d.Mode}, d.Color})
		if err != nil {
			return errors.Wrapf(err, "draw %d", i)
		}
		e.doc.Scenes[0].Nodes = append(e.doc.Scenes[0].Nodes, uint32(len(e.doc.Nodes)))
		e.doc.Nodes = append(e.doc.Nodes, &gltf.Node{
			Name:   fmt.Sprintf("draw-%d-%s", len(e.doc.Nodes), d.Shape),
			Mesh:   gltf.Index(mesh),
			Matrix: [16]float32(d.ModelView),
		})
	}
	return nil
}

func (e *Exporter) mesh(key meshKey) (uint32, error) {
	if idx, ok := e.meshes[key]; ok {
		return idx, nil
	}
	geo, err := e.geometry(key.geometryKey)
	if err != nil {
		return 0, err
	}

	primitive := &gltf.Primitive{
		Attributes: map[string]uint32{
			"POSITION": geo.position,
			"NORMAL":   geo.normal,
		},
		Indices:  gltf.Index(geo.indices),
		Material: gltf.Index(e.material(key.color)),
	}
	if key.mode == gfx.Wireframe {
		primitive.Mode = gltf.PrimitiveLines
	}

	idx := uint32(len(e.doc.Meshes))
	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{
		Name:       fmt.Sprintf("%s-%s-%d", key.shape, key.mode, idx),
		Primitives: []*gltf.Primitive{primitive},
	})
	e.meshes[key] = idx
	return idx, nil
}

func (e *Exporter) geometry(key geometryKey) (geometry, error) {
	if geo, ok := e.geometries[key]; ok {
		return geo, nil
	}

	m, err := e.lib.Mesh(key.shape)
	if err != nil {
		return geometry{}, errors.Wrapf(err, "tessellating %s", key.shape)
	}
	var geo geometry
	if other, ok := e.geometries[geometryKey{key.shape, key.mode.Toggle()}]; ok {
		geo.position, geo.normal = other.position, other.normal
	} else {
		geo.position = modeler.WritePosition(e.doc, m.Positions())
		geo.normal = modeler.WriteNormal(e.doc, m.NormalVectors())
	}
	if key.mode == gfx.Wireframe {
		geo.indices = modeler.WriteIndices(e.doc, edges(m.Indices))
	} else {
		geo.indices = modeler.WriteIndices(e.doc, m.Indices)
	}
	e.geometries[key] = geo
	return geo, nil
}

// material returns the index of the material for c.
func (e *Exporter) material(c gfx.Color) uint32 {
	if idx, ok := e.materials[c]; ok {
		return idx
	}
	color := new([4]float32)
	*color = [4]float32(c)

	idx := uint32(len(e.doc.Materials))
	e.doc.Materials = append(e.doc.Materials, &gltf.Material{
		Name:        fmt.Sprintf("color-%d", idx),
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: color,
		},
	})
	e.materials[c] = idx
	return idx
}

// edges turns a triangle index list into a line list with every edge of
// every triangle.
func edges(tris []uint32) []uint32 {
	out := make([]uint32, 0, len(tris)*2)
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		out = append(out, a, b, b, c, c, a)
	}
	return out
}

// Scene evaluates g once with an identity view, so node matrices are world
// transforms, and returns the resulting document.
func Scene(lib *kernel.Library, g *graph.Graph, s control.State, now time.Time) (*gltf.Document, error) {
	rec := &gfx.Recorder{}
	stack := xform.NewDefault()
	stack.Load(mgl64.Ident4())

	if _, err := traverse.Walk(g, stack, rec, graph.Env{State: s, Now: now}); err != nil {
		return nil, errors.Wrap(err, "evaluating scene")
	}

	e := New(lib)
	for _, vp := range rec.Frame.Viewports {
		if err := e.AddDraws(vp.Draws); err != nil {
			return nil, err
		}
	}
	return e.Document(), nil
}

// WriteBinary encodes doc as a binary glTF (.glb) stream.
func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return errors.Wrap(encoder.Encode(doc), "encoding glb")
}
