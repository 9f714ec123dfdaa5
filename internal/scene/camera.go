package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/smasonuk/meshconv"
)

const (
	defaultFovY = math.Pi / 4
	maxPitch    = math.Pi/2 - 0.01
)

// Camera orbits Target at Distance. Yaw turns around the world Y axis,
// Pitch tilts towards it.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	FovY     float64

	Near, Far float64

	Width, Height int
}

// FrameMesh points a camera at the centre of m's bounds, far enough back for
// the whole bounding sphere to fit the vertical field of view.
func FrameMesh(m *meshconv.Mesh, width, height int) *Camera {
	c := &Camera{
		Distance: 1,
		FovY:     defaultFovY,
		Pitch:    0.4,
		Yaw:      0.6,
		Width:    width,
		Height:   height,
	}

	min, max, ok := m.Bounds()
	radius := 0.0
	if ok {
		lo, hi := mgl64.Vec3(min), mgl64.Vec3(max)
		c.Target = lo.Add(hi).Mul(0.5)
		radius = hi.Sub(lo).Len() / 2
	}
	if radius > 0 {
		c.Distance = radius / math.Sin(c.FovY/2) * 1.1
	} else {
		radius = 1
	}

	c.Near = c.Distance * 0.01
	c.Far = c.Distance + radius*4
	return c
}

func (c *Camera) Eye() mgl64.Vec3 {
	dir := mgl64.Vec3{
		math.Cos(c.Pitch) * math.Sin(c.Yaw),
		math.Sin(c.Pitch),
		math.Cos(c.Pitch) * math.Cos(c.Yaw),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl64.Mat4 {
	aspect := 1.0
	if c.Height > 0 {
		aspect = float64(c.Width) / float64(c.Height)
	}
	return mgl64.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// AddAngle turns the camera. Pitch is clamped short of the poles, where the
// look-at basis degenerates.
func (c *Camera) AddAngle(yaw, pitch float64) {
	c.Yaw += yaw
	c.Pitch = mgl64.Clamp(c.Pitch+pitch, -maxPitch, maxPitch)
}

// Zoom scales the orbit distance; factors below 1 move closer.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance *= factor
	c.Near *= factor
	c.Far *= factor
}
