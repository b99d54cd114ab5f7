package arcade

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera scrolls a viewport over a map. It only translates; tiles are drawn
// one texel per pixel. Pass Offset to TileMap.Draw and sprite systems.
type Camera struct {
	// X and Y are the map-space position the camera centers on.
	X, Y float64
	// Viewport is the screen-space rectangle the camera renders into.
	Viewport Rect

	follow     func() Vec2
	followLerp float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the map-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	scrollTween *scrollAnim
}

// NewCamera creates a camera for the given viewport, centered on the
// viewport's own center.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		X:        viewport.Width / 2,
		Y:        viewport.Height / 2,
		Viewport: viewport,
	}
}

// Follow makes the camera track the point returned by target each update.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(target func() Vec2, lerp float64) {
	c.follow = target
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// ScrollTo animates the camera to the given map position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// ScrollToTile scrolls to the center of the given map cell.
func (c *Camera) ScrollToTile(col, row, tileW, tileH int, duration float32, easeFn ease.TweenFunc) {
	x := float64(col*tileW) + float64(tileW)/2
	y := float64(row*tileH) + float64(tileH)/2
	c.ScrollTo(x, y, duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scrollTween != nil }

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// SetMapBounds clamps the camera to the pixel extent of m.
func (c *Camera) SetMapBounds(m *TileMap) {
	c.SetBounds(Rect{Width: float64(m.Width * m.TileWidth), Height: float64(m.Height * m.TileHeight)})
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll and bounds clamping by dt seconds.
// A scroll animation overrides following until it completes.
func (c *Camera) Update(dt float64) {
	if c.follow != nil && c.scrollTween == nil {
		target := c.follow()
		c.X += (target.X - c.X) * c.followLerp
		c.Y += (target.Y - c.Y) * c.followLerp
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(float32(dt))
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(float32(dt))
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / 2
	halfH := c.Viewport.Height / 2

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// Offset returns the map-space point drawn at the viewport origin, rounded
// to whole pixels so tiles do not shimmer.
func (c *Camera) Offset() Vec2 {
	return Vec2{
		X: math.Round(c.X - c.Viewport.Width/2 - c.Viewport.X),
		Y: math.Round(c.Y - c.Viewport.Height/2 - c.Viewport.Y),
	}
}

// WorldToScreen converts map coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	o := c.Offset()
	return wx - o.X, wy - o.Y
}

// ScreenToWorld converts screen coordinates to map coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	o := c.Offset()
	return sx + o.X, sy + o.Y
}

// VisibleBounds returns the map-space rectangle inside the viewport.
func (c *Camera) VisibleBounds() Rect {
	return Rect{
		X:      c.X - c.Viewport.Width/2,
		Y:      c.Y - c.Viewport.Height/2,
		Width:  c.Viewport.Width,
		Height: c.Viewport.Height,
	}
}
