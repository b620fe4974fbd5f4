// Package render draws the board surface. Rendering is a pure function
// of the scene and layout: the same inputs always produce the same
// pixels, which is what makes the blanket re-render per snapshot safe.
package render

import (
	"image"
	"image/color"
	imagedraw "image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/costad3atwit/cardchess-client/internal/board"
	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

// Scene is everything one frame depends on. The renderer holds no
// game state of its own.
type Scene struct {
	Rows       int
	ActiveRows int // active play area; fog covers the ring beyond it
	Flipped    bool

	Pieces []gamedto.Piece

	Green     map[string]struct{}
	Forbidden map[string]struct{}
	Mines     map[string]struct{}
	Glue      map[string]struct{}

	SelectedPos   string
	LegalMoves    []string
	LegalCaptures []string

	// Background, when set, replaces the checkered fill. A nil value
	// (asset still loading) falls back to solid squares.
	Background image.Image
}

var (
	lightSquare    = color.RGBA{233, 207, 163, 255}
	darkSquare     = color.RGBA{187, 136, 96, 255}
	fogOverlay     = color.NRGBA{24, 26, 34, 185}
	greenOverlay   = color.NRGBA{86, 196, 104, 110}
	forbiddenFill  = color.NRGBA{140, 48, 48, 120}
	mineMarker     = color.NRGBA{30, 30, 30, 220}
	glueOverlay    = color.NRGBA{222, 196, 84, 110}
	moveOverlay    = color.NRGBA{90, 160, 255, 130}
	captureOverlay = color.NRGBA{235, 80, 80, 150}
	selectOutline  = color.NRGBA{255, 228, 120, 230}
	whiteDisc      = color.RGBA{240, 240, 240, 255}
	blackDisc      = color.RGBA{40, 40, 40, 255}
	labelColor     = color.NRGBA{110, 116, 138, 255}
)

type Renderer struct {
	sprites *SpriteSet
}

func NewRenderer() *Renderer {
	return &Renderer{sprites: NewSpriteSet()}
}

// Sprites exposes the sprite cache so load failures elsewhere can mark
// artwork broken for the session.
func (r *Renderer) Sprites() *SpriteSet { return r.sprites }

// Render draws one frame onto a fresh RGBA surface.
func (r *Renderer) Render(scene Scene, l Layout, surfaceW, surfaceH int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, surfaceW, surfaceH))

	r.drawBoard(img, scene, l)
	r.drawFog(img, scene, l)
	r.drawTiles(img, scene, l)
	r.drawHighlights(img, scene, l)
	r.drawPieces(img, scene, l)
	r.drawSelection(img, scene, l)
	drawLabels(img, scene, l)

	return img
}

func (r *Renderer) drawBoard(img *image.RGBA, scene Scene, l Layout) {
	grid := l.GridRect()
	if scene.Background != nil {
		imagedraw.Draw(img, grid, scene.Background, scene.Background.Bounds().Min, imagedraw.Src)
		return
	}
	for row := 0; row < scene.Rows; row++ {
		for col := 0; col < scene.Rows; col++ {
			sq := board.Square{Row: row, Col: col}
			clr := lightSquare
			if (row+col)%2 == 1 {
				clr = darkSquare
			}
			fillRect(img, l.CellRect(sq, scene.Flipped), clr)
		}
	}
}

// drawFog covers the ring beyond the active play area while that area
// is smaller than the rendered grid.
func (r *Renderer) drawFog(img *image.RGBA, scene Scene, l Layout) {
	active := scene.ActiveRows
	if active <= 0 || active >= scene.Rows {
		return
	}
	t := (scene.Rows - active) / 2
	for row := 0; row < scene.Rows; row++ {
		for col := 0; col < scene.Rows; col++ {
			inner := row >= t && row < scene.Rows-t && col >= t && col < scene.Rows-t
			if inner {
				continue
			}
			overlayRect(img, l.CellRect(board.Square{Row: row, Col: col}, scene.Flipped), fogOverlay)
		}
	}
}

func (r *Renderer) drawTiles(img *image.RGBA, scene Scene, l Layout) {
	for n := range scene.Green {
		if sq, ok := board.Parse(n, scene.Rows); ok {
			overlayRect(img, l.CellRect(sq, scene.Flipped), greenOverlay)
		}
	}
	for n := range scene.Forbidden {
		if sq, ok := board.Parse(n, scene.Rows); ok {
			overlayRect(img, l.CellRect(sq, scene.Flipped), forbiddenFill)
		}
	}
	for n := range scene.Glue {
		if sq, ok := board.Parse(n, scene.Rows); ok {
			overlayRect(img, l.CellRect(sq, scene.Flipped), glueOverlay)
		}
	}
	for n := range scene.Mines {
		if sq, ok := board.Parse(n, scene.Rows); ok {
			rect := l.CellRect(sq, scene.Flipped)
			drawDisc(img, center(rect), l.CellSize/6, mineMarker)
		}
	}
}

func (r *Renderer) drawHighlights(img *image.RGBA, scene Scene, l Layout) {
	for _, n := range scene.LegalMoves {
		if sq, ok := board.Parse(n, scene.Rows); ok {
			rect := l.CellRect(sq, scene.Flipped)
			drawDisc(img, center(rect), l.CellSize/5, moveOverlay)
		}
	}
	for _, n := range scene.LegalCaptures {
		if sq, ok := board.Parse(n, scene.Rows); ok {
			rect := l.CellRect(sq, scene.Flipped)
			drawRing(img, center(rect), l.CellSize/2-2, l.CellSize/10, captureOverlay)
		}
	}
}

func (r *Renderer) drawPieces(img *image.RGBA, scene Scene, l Layout) {
	for i := range scene.Pieces {
		p := &scene.Pieces[i]
		if !p.Active() || p.Position == "" {
			continue
		}
		sq, ok := board.Parse(p.Position, scene.Rows)
		if !ok {
			continue
		}
		// cell positions flip with orientation; sprite pixels are drawn
		// as-is so the artwork stays upright for both players
		rect := l.CellRect(sq, scene.Flipped)
		if sprite, ok := r.sprites.Sprite(p.Type, p.Color, l.CellSize); ok {
			imagedraw.Draw(img, rect, sprite, image.Point{}, imagedraw.Over)
			continue
		}
		clr := blackDisc
		if p.Color == gamedto.White {
			clr = whiteDisc
		}
		drawDisc(img, center(rect), l.CellSize/2-l.CellSize/8, clr)
	}
}

func (r *Renderer) drawSelection(img *image.RGBA, scene Scene, l Layout) {
	if scene.SelectedPos == "" {
		return
	}
	sq, ok := board.Parse(scene.SelectedPos, scene.Rows)
	if !ok {
		return
	}
	outlineRect(img, l.CellRect(sq, scene.Flipped), 3, selectOutline)
}

func drawLabels(img *image.RGBA, scene Scene, l Layout) {
	if l.CellSize < basicfont.Face7x13.Advance*2 {
		return
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
	}
	grid := l.GridRect()
	for col := 0; col < scene.Rows; col++ {
		sq := board.Square{Row: scene.Rows - 1, Col: col}
		rect := l.CellRect(sq, scene.Flipped)
		label := string(rune('a' + col))
		w := drawer.MeasureString(label).Round()
		drawer.Dot = fixed.P(rect.Min.X+(l.CellSize-w)/2, grid.Max.Y+basicfont.Face7x13.Ascent+2)
		drawer.DrawString(label)
	}
	for row := 0; row < scene.Rows; row++ {
		sq := board.Square{Row: row, Col: 0}
		rect := l.CellRect(sq, scene.Flipped)
		label := board.Square{Row: row, Col: 0}.Notation(scene.Rows)[1:]
		drawer.Dot = fixed.P(grid.Min.X-basicfont.Face7x13.Advance*len(label)-4, rect.Min.Y+(l.CellSize+basicfont.Face7x13.Ascent)/2)
		drawer.DrawString(label)
	}
}

// --- primitives ---

func fillRect(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
}

func overlayRect(img *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func outlineRect(img *image.RGBA, rect image.Rectangle, thickness int, clr color.Color) {
	if thickness < 1 {
		thickness = 1
	}
	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y)
	right := image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y)
	for _, r := range []image.Rectangle{top, bottom, left, right} {
		overlayRect(img, r, clr)
	}
}

func center(rect image.Rectangle) image.Point {
	return image.Point{X: (rect.Min.X + rect.Max.X) / 2, Y: (rect.Min.Y + rect.Max.Y) / 2}
}

func drawDisc(img *image.RGBA, c image.Point, radius int, clr color.Color) {
	if radius < 1 {
		radius = 1
	}
	rSq := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > rSq {
				continue
			}
			blendPixel(img, c.X+dx, c.Y+dy, clr)
		}
	}
}

func drawRing(img *image.RGBA, c image.Point, radius, thickness int, clr color.Color) {
	if radius < 1 || thickness < 1 {
		return
	}
	outer := radius * radius
	in := radius - thickness
	if in < 0 {
		in = 0
	}
	inner := in * in
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := dx*dx + dy*dy
			if d > outer || d < inner {
				continue
			}
			blendPixel(img, c.X+dx, c.Y+dy, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	dst := img.RGBAAt(x, y)
	a := float64(sa) / 65535.0
	// RGBA() returns alpha-premultiplied channels
	blend := func(s uint32, d uint8) uint8 {
		v := float64(s)/65535.0*255.0 + float64(d)*(1-a)
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	img.SetRGBA(x, y, color.RGBA{
		R: blend(sr, dst.R),
		G: blend(sg, dst.G),
		B: blend(sb, dst.B),
		A: 255,
	})
}
