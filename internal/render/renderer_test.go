package render

import (
	"bytes"
	"testing"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

func testScene() Scene {
	return Scene{
		Rows:       8,
		ActiveRows: 8,
		Pieces: []gamedto.Piece{
			{ID: "wP1", Type: gamedto.Pawn, Color: gamedto.White, Position: "e2", Status: "active"},
			{ID: "bK1", Type: gamedto.King, Color: gamedto.Black, Position: "e8", Status: "active"},
		},
		Green:         map[string]struct{}{"c3": {}},
		LegalMoves:    []string{"e3", "e4"},
		LegalCaptures: []string{"d3"},
		SelectedPos:   "e2",
	}
}

func renderOnce(t *testing.T, scene Scene) []byte {
	t.Helper()
	r := NewRenderer()
	l := ComputeLayout(400, 400, scene.Rows, scene.Rows)
	img := r.Render(scene, l, 400, 400)
	return img.Pix
}

func TestRenderIdempotent(t *testing.T) {
	scene := testScene()
	r := NewRenderer()
	l := ComputeLayout(400, 400, 8, 8)
	a := r.Render(scene, l, 400, 400)
	b := r.Render(scene, l, 400, 400)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("two renders of the same scene differ")
	}
}

func TestRenderFlipChangesImage(t *testing.T) {
	scene := testScene()
	plain := renderOnce(t, scene)
	scene.Flipped = true
	flipped := renderOnce(t, scene)
	if bytes.Equal(plain, flipped) {
		t.Fatalf("flipped viewpoint should differ for an asymmetric scene")
	}
}

func TestRenderUnknownPieceFallsBackToDisc(t *testing.T) {
	scene := Scene{
		Rows:       8,
		ActiveRows: 8,
		Pieces: []gamedto.Piece{
			// no sprite asset exists for a transformed scout
			{ID: "wS1", Type: gamedto.Scout, Color: gamedto.White, Position: "d4", Status: "active"},
		},
	}
	withPiece := renderOnce(t, scene)
	scene.Pieces = nil
	empty := renderOnce(t, scene)
	if bytes.Equal(withPiece, empty) {
		t.Fatalf("placeholder disc should still be drawn for broken sprites")
	}
}

func TestRenderFogOutsideActiveArea(t *testing.T) {
	scene := Scene{Rows: 10, ActiveRows: 8}
	fogged := renderOnce(t, scene)
	scene.ActiveRows = 10
	clear := renderOnce(t, scene)
	if bytes.Equal(fogged, clear) {
		t.Fatalf("inactive outer ring must be fogged")
	}
}

func TestCapturedPiecesNotDrawn(t *testing.T) {
	scene := Scene{
		Rows:       8,
		ActiveRows: 8,
		Pieces: []gamedto.Piece{
			{ID: "wP1", Type: gamedto.Pawn, Color: gamedto.White, Position: "e2", Status: "captured"},
		},
	}
	withCaptured := renderOnce(t, scene)
	scene.Pieces = nil
	empty := renderOnce(t, scene)
	if !bytes.Equal(withCaptured, empty) {
		t.Fatalf("captured pieces must not render")
	}
}

func TestSpriteBrokenIsPermanent(t *testing.T) {
	s := NewSpriteSet()
	if _, ok := s.Sprite(gamedto.Scout, gamedto.White, 64); ok {
		t.Fatalf("scout has no asset, load should fail")
	}
	// second lookup hits the broken set, still no sprite
	if _, ok := s.Sprite(gamedto.Scout, gamedto.White, 64); ok {
		t.Fatalf("broken sprite must never recover")
	}
	if _, ok := s.Sprite(gamedto.Pawn, gamedto.White, 64); !ok {
		t.Fatalf("pawn sprite should rasterize")
	}
}
