// Package body places a converted mesh the way the simulation's OBJ body
// template does (offset, then uniform scale) and checks it against the
// simulation domain.
package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/config"
)

type Template struct {
	Offset      mgl64.Vec3
	ScaleFactor float64
	Domain      mgl64.Vec3 // zero means unknown
}

func FromConfig(c config.BodyConfig) Template {
	return Template{
		Offset:      mgl64.Vec3(c.Offset),
		ScaleFactor: c.ScaleFactor,
		Domain:      mgl64.Vec3(c.Domain),
	}
}

// Matrix maps model coordinates to simulation coordinates:
// scale * (v + offset).
func (t Template) Matrix() mgl64.Mat4 {
	return mgl64.Scale3D(t.ScaleFactor, t.ScaleFactor, t.ScaleFactor).
		Mul4(mgl64.Translate3D(t.Offset[0], t.Offset[1], t.Offset[2]))
}

func (t Template) Apply(v meshconv.Vertex) mgl64.Vec3 {
	return mgl64.TransformCoordinate(toVec(v), t.Matrix())
}

// Report summarises a mesh and its placement.
type Report struct {
	Vertices int
	Faces    int

	Min, Max mgl64.Vec3 // model space
	Size     mgl64.Vec3

	PlacedMin, PlacedMax mgl64.Vec3

	SurfaceArea float64
	Volume      float64

	DomainKnown  bool
	InsideDomain bool
}

func (t Template) Inspect(m *meshconv.Mesh) Report {
	r := Report{
		Vertices:    m.VertexCount(),
		Faces:       m.FaceCount(),
		SurfaceArea: SurfaceArea(m),
		Volume:      Volume(m),
		DomainKnown: t.Domain != (mgl64.Vec3{}),
	}

	min, max, ok := m.Bounds()
	if !ok {
		r.InsideDomain = r.DomainKnown
		return r
	}
	r.Min, r.Max = toVec(min), toVec(max)
	r.Size = r.Max.Sub(r.Min)
	r.PlacedMin, r.PlacedMax = t.placeBox(r.Min, r.Max)

	if r.DomainKnown {
		r.InsideDomain = true
		for axis := 0; axis < 3; axis++ {
			if r.PlacedMin[axis] < 0 || r.PlacedMax[axis] > t.Domain[axis] {
				r.InsideDomain = false
			}
		}
	}
	return r
}

// placeBox places all eight corners so the result stays correct for any
// affine placement matrix.
func (t Template) placeBox(min, max mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for corner := 0; corner < 8; corner++ {
		p := meshconv.Vertex(min)
		for axis := 0; axis < 3; axis++ {
			if corner&(1<<axis) != 0 {
				p[axis] = max[axis]
			}
		}
		q := t.Apply(p)
		for axis := 0; axis < 3; axis++ {
			lo[axis] = math.Min(lo[axis], q[axis])
			hi[axis] = math.Max(hi[axis], q[axis])
		}
	}
	return lo, hi
}

// SurfaceArea sums the triangle areas of m.
func SurfaceArea(m *meshconv.Mesh) float64 {
	total := 0.0
	for _, f := range m.Faces {
		a, b, c := corners(m, f)
		total += b.Sub(a).Cross(c.Sub(a)).Len() / 2
	}
	return total
}

// Volume uses the signed tetrahedron method, so it is only meaningful for a
// closed, consistently wound mesh.
func Volume(m *meshconv.Mesh) float64 {
	total := 0.0
	for _, f := range m.Faces {
		a, b, c := corners(m, f)
		total += a.Dot(b.Cross(c))
	}
	return math.Abs(total / 6)
}

func corners(m *meshconv.Mesh, f meshconv.Face) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	return toVec(m.Vertices[f[0]]), toVec(m.Vertices[f[1]]), toVec(m.Vertices[f[2]])
}

func toVec(v meshconv.Vertex) mgl64.Vec3 {
	return mgl64.Vec3(v)
}
