package preview

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/smasonuk/meshconv/internal/scene"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// A stroked segment is a quad of four vertices. ebiten indexes a
// DrawTriangles call with uint16, so each call carries at most this many.
const segmentsPerDraw = 8192

// drawSegments strokes the segments as a few large paths, one DrawTriangles
// call per batch.
func drawSegments(screen *ebiten.Image, segs []scene.Segment, strokeWidth float32, clr color.RGBA) {
	strokeOp := &vector.StrokeOptions{
		Width: strokeWidth,
	}
	drawOp := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	}

	cr := float32(clr.R) / 255.0
	cg := float32(clr.G) / 255.0
	cb := float32(clr.B) / 255.0
	ca := float32(clr.A) / 255.0

	var (
		vertices []ebiten.Vertex
		indices  []uint16
	)
	for _, batch := range scene.Batches(segs, segmentsPerDraw) {
		var path vector.Path
		for _, s := range batch {
			path.MoveTo(s.X0, s.Y0)
			path.LineTo(s.X1, s.Y1)
		}

		vertices, indices = path.AppendVerticesAndIndicesForStroke(vertices[:0], indices[:0], strokeOp)
		for i := range vertices {
			vertices[i].ColorR = cr
			vertices[i].ColorG = cg
			vertices[i].ColorB = cb
			vertices[i].ColorA = ca
			vertices[i].SrcX = 1
			vertices[i].SrcY = 1
		}

		screen.DrawTriangles(vertices, indices, whiteSub, drawOp)
	}
}
