package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/costad3atwit/cardchess-client/pkg/gamedto"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

type spriteKey struct {
	kind  gamedto.PieceType
	color gamedto.Color
	size  int
}

// SpriteSet rasterizes SVG piece artwork on demand. A sprite that
// fails to load is marked broken for the rest of the session and the
// renderer falls back to a placeholder disc; it is never retried.
type SpriteSet struct {
	mu     sync.RWMutex
	cache  map[spriteKey]image.Image
	broken map[string]struct{}
}

func NewSpriteSet() *SpriteSet {
	return &SpriteSet{
		cache:  map[spriteKey]image.Image{},
		broken: map[string]struct{}{},
	}
}

// Sprite returns the rasterized piece image, or ok=false when the
// asset is missing or permanently broken.
func (s *SpriteSet) Sprite(kind gamedto.PieceType, clr gamedto.Color, size int) (image.Image, bool) {
	key := spriteKey{kind: kind, color: clr, size: size}
	name := spriteAssetName(kind, clr)

	s.mu.RLock()
	if img, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return img, true
	}
	if _, bad := s.broken[name]; bad {
		s.mu.RUnlock()
		return nil, false
	}
	s.mu.RUnlock()

	img, err := rasterize(name, size)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.broken[name] = struct{}{}
		return nil, false
	}
	s.cache[key] = img
	return img, true
}

// MarkBroken is exposed for load-failure paths outside the set itself.
func (s *SpriteSet) MarkBroken(kind gamedto.PieceType, clr gamedto.Color) {
	s.mu.Lock()
	s.broken[spriteAssetName(kind, clr)] = struct{}{}
	s.mu.Unlock()
}

func rasterize(name string, size int) (image.Image, error) {
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}

	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

func spriteAssetName(kind gamedto.PieceType, clr gamedto.Color) string {
	prefix := "b"
	if clr == gamedto.White {
		prefix = "w"
	}
	return fmt.Sprintf("assets/pieces/%s%s.svg", prefix, string(kind))
}

// sanitizeSVG patches style quirks some exporters leave behind that
// oksvg's parser rejects.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill:000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stop-color: #"), []byte("stop-color:#"))
	return fixed
}
