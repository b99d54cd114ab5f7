package arcade

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// TileID identifies a distinct visual tile across every atlas composed into a
// map. Ids are unique per composition but not required to be contiguous.
// The zero id conventionally means "no tile".
type TileID uint32

// Flip flag bits carried on raw layer values (same convention as Tiled).
const (
	FlipHorizontal uint32 = 1 << 31
	FlipVertical   uint32 = 1 << 30
	FlipDiagonal   uint32 = 1 << 29
	flipMask       uint32 = FlipHorizontal | FlipVertical | FlipDiagonal
)

// SplitTileValue separates a raw layer value into its tile id and flip flags.
func SplitTileValue(raw uint32) (TileID, uint32) {
	return TileID(raw &^ flipMask), raw & flipMask
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is an opaque black.
var ColorBlack = Color{0, 0, 0, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions and offsets.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// whitePixel is a 1x1 white image scaled and tinted to draw solid rectangles.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}
