// Package scene turns a mesh into screen-space line segments for the preview
// window.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/smasonuk/meshconv"
)

// Edge joins two vertex indices, lower index first.
type Edge [2]int

// Segment is a projected edge in pixels, origin top left.
type Segment struct {
	X0, Y0, X1, Y1 float32
}

// Edges lists every distinct edge of m once, in the order faces first use
// them. Edges from a vertex to itself are skipped.
func Edges(m *meshconv.Mesh) []Edge {
	seen := make(map[Edge]struct{}, len(m.Faces)*3/2)
	edges := make([]Edge, 0, len(m.Faces)*3/2)

	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			e := Edge{a, b}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// Project transforms edges into screen space, appending to dst. Edges are
// clipped against the near plane; edges wholly behind it are dropped.
func (c *Camera) Project(m *meshconv.Mesh, edges []Edge, dst []Segment) []Segment {
	view := c.View()
	proj := c.Projection()

	camSpace := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		camSpace[i] = mgl64.TransformCoordinate(mgl64.Vec3(v), view)
	}

	// The camera looks down -Z in view space.
	nearZ := -c.Near
	for _, e := range edges {
		p, q := camSpace[e[0]], camSpace[e[1]]
		pIn, qIn := p.Z() <= nearZ, q.Z() <= nearZ

		switch {
		case !pIn && !qIn:
			continue
		case !pIn:
			p = clipToNear(q, p, nearZ)
		case !qIn:
			q = clipToNear(p, q, nearZ)
		}

		x0, y0 := c.toScreen(proj, p)
		x1, y1 := c.toScreen(proj, q)
		dst = append(dst, Segment{X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	return dst
}

// clipToNear returns the point where the segment from inside to outside
// crosses z == nearZ.
func clipToNear(inside, outside mgl64.Vec3, nearZ float64) mgl64.Vec3 {
	t := (nearZ - inside.Z()) / (outside.Z() - inside.Z())
	return inside.Add(outside.Sub(inside).Mul(t))
}

func (c *Camera) toScreen(proj mgl64.Mat4, p mgl64.Vec3) (float32, float32) {
	clip := proj.Mul4x1(p.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	x := (ndc.X() + 1) / 2 * float64(c.Width)
	y := (1 - ndc.Y()) / 2 * float64(c.Height)
	return float32(x), float32(y)
}

// Batches splits segs into consecutive runs of at most n segments.
func Batches(segs []Segment, n int) [][]Segment {
	if n < 1 {
		n = 1
	}
	batches := make([][]Segment, 0, (len(segs)+n-1)/n)
	for start := 0; start < len(segs); start += n {
		end := min(start+n, len(segs))
		batches = append(batches, segs[start:end:end])
	}
	return batches
}
