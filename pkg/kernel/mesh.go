package kernel

import (
	"math"

	"github.com/chazu/vumesh/pkg/vu"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`
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

// Area is the total planar area of the mesh triangles.
func (m *Mesh) Area() float64 {
	var a float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		p := m.vertex(m.Indices[i])
		q := m.vertex(m.Indices[i+1])
		r := m.vertex(m.Indices[i+2])
		a += 0.5 * ((q[0]-p[0])*(r[1]-p[1]) - (q[1]-p[1])*(r[0]-p[0]))
	}
	return math.Abs(a)
}

func (m *Mesh) vertex(i uint32) [2]float64 {
	return [2]float64{float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1])}
}

// MeshFromGraph fans every interior face of g into triangles. Faces
// carrying vu.MaskExterior and faces without positive area are skipped.
// Triangulated graphs come out one triangle per face.
func MeshFromGraph(g *vu.Graph, name string) *Mesh {
	m := &Mesh{Name: name}
	for _, f := range g.CollectFaces(vu.MaskExterior) {
		if f.MaskOr != 0 || f.Area <= 0 || len(f.Points) < 3 {
			continue
		}
		base := uint32(m.VertexCount())
		for _, p := range f.Points {
			m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
			m.Normals = append(m.Normals, 0, 0, 1)
		}
		for i := 1; i+1 < len(f.Points); i++ {
			m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
		}
	}
	return m
}
