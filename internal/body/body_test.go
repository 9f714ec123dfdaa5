package body

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/config"
)

const float64EqualityThreshold = 1e-9

func unitCube() *meshconv.Mesh {
	m := meshconv.NewMesh()
	pts := []meshconv.Vertex{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	for _, p := range pts {
		m.AddVertex(p)
	}
	for _, f := range []meshconv.Face{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{3, 7, 6}, {3, 6, 2}, // back
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	} {
		m.AddFace(f)
	}
	return m
}

func assertVecNear(t *testing.T, expected, actual mgl64.Vec3) {
	t.Helper()
	for axis := range expected {
		assert.InDelta(t, expected[axis], actual[axis], float64EqualityThreshold, "axis %d", axis)
	}
}

func TestSurfaceAreaAndVolume(t *testing.T) {
	cube := unitCube()
	assert.InDelta(t, 6.0, SurfaceArea(cube), float64EqualityThreshold)
	assert.InDelta(t, 1.0, Volume(cube), float64EqualityThreshold)

	empty := meshconv.NewMesh()
	assert.Zero(t, SurfaceArea(empty))
	assert.Zero(t, Volume(empty))
}

func TestTemplateApply(t *testing.T) {
	tpl := Template{Offset: mgl64.Vec3{20, 20, 20}, ScaleFactor: 0.005}
	assertVecNear(t, mgl64.Vec3{0.1, 0.105, 0.1}, tpl.Apply(meshconv.Vertex{0, 1, 0}))
}

func TestInspectPlacement(t *testing.T) {
	testCases := []struct {
		name   string
		tpl    Template
		min    mgl64.Vec3
		max    mgl64.Vec3
		known  bool
		inside bool
	}{
		{
			name:   "truss template fits",
			tpl:    FromConfig(config.BodyConfig{Offset: [3]float64{20, 20, 20}, ScaleFactor: 0.005, Domain: [3]float64{0.17, 0.37, 0.21}}),
			min:    mgl64.Vec3{0.1, 0.1, 0.1},
			max:    mgl64.Vec3{0.105, 0.105, 0.105},
			known:  true,
			inside: true,
		},
		{
			name:   "sticks out of the domain",
			tpl:    Template{ScaleFactor: 1, Domain: mgl64.Vec3{0.5, 2, 2}},
			min:    mgl64.Vec3{0, 0, 0},
			max:    mgl64.Vec3{1, 1, 1},
			known:  true,
			inside: false,
		},
		{
			name:   "negative offset leaves the domain",
			tpl:    Template{Offset: mgl64.Vec3{-0.5, 0, 0}, ScaleFactor: 2, Domain: mgl64.Vec3{10, 10, 10}},
			min:    mgl64.Vec3{-1, 0, 0},
			max:    mgl64.Vec3{1, 2, 2},
			known:  true,
			inside: false,
		},
		{
			name:  "no domain",
			tpl:   Template{ScaleFactor: 3},
			min:   mgl64.Vec3{0, 0, 0},
			max:   mgl64.Vec3{3, 3, 3},
			known: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.tpl.Inspect(unitCube())
			assert.Equal(t, 8, r.Vertices)
			assert.Equal(t, 12, r.Faces)
			assertVecNear(t, mgl64.Vec3{1, 1, 1}, r.Size)
			assertVecNear(t, tc.min, r.PlacedMin)
			assertVecNear(t, tc.max, r.PlacedMax)
			assert.Equal(t, tc.known, r.DomainKnown)
			assert.Equal(t, tc.inside, r.InsideDomain)
		})
	}
}

func TestInspectEmptyMesh(t *testing.T) {
	r := Template{ScaleFactor: 1, Domain: mgl64.Vec3{1, 1, 1}}.Inspect(meshconv.NewMesh())
	assert.Zero(t, r.Vertices)
	assert.True(t, r.InsideDomain)
}
