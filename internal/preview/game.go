// Package preview shows a mesh as a rotating wireframe in an ebiten window.
package preview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/meshconv"
	"github.com/smasonuk/meshconv/internal/scene"
)

var (
	background = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	lineColor  = color.RGBA{R: 120, G: 220, B: 140, A: 255}
)

const (
	autoSpin  = 0.004
	dragScale = 200.0
)

type Game struct {
	title  string
	mesh   *meshconv.Mesh
	edges  []scene.Edge
	camera *scene.Camera
	segs   []scene.Segment

	width, height int
	spinning      bool
	isDragging    bool
	lastX, lastY  int
}

func NewGame(title string, m *meshconv.Mesh, width, height int) *Game {
	return &Game{
		title:    title,
		mesh:     m,
		edges:    scene.Edges(m),
		camera:   scene.FrameMesh(m, width, height),
		width:    width,
		height:   height,
		spinning: true,
	}
}

func (g *Game) Update() error {
	if g.spinning && !g.isDragging {
		g.camera.AddAngle(autoSpin, 0)
	}

	// Mouse camera control
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.isDragging = true
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if g.isDragging {
		x, y := ebiten.CursorPosition()
		dx := float64(x-g.lastX) / dragScale
		dy := float64(y-g.lastY) / dragScale
		g.camera.AddAngle(-dx, dy)
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.isDragging = false
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		if wy > 0 {
			g.camera.Zoom(0.9)
		} else {
			g.camera.Zoom(1.1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.spinning = !g.spinning
	}

	g.segs = g.camera.Project(g.mesh, g.edges, g.segs[:0])
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	drawSegments(screen, g.segs, 1, lineColor)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nvertices %d  faces %d  edges %d\nFPS: %0.2f",
		g.title, g.mesh.VertexCount(), g.mesh.FaceCount(), len(g.edges), ebiten.ActualFPS()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the window and blocks until it is closed.
func Run(title string, m *meshconv.Mesh, width, height int) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("meshconv - " + title)
	return ebiten.RunGame(NewGame(title, m, width, height))
}
