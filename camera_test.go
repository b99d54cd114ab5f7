package arcade

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(Rect{Width: 320, Height: 240})
	if cam.X != 160 || cam.Y != 120 {
		t.Errorf("center = (%f,%f), want (160,120)", cam.X, cam.Y)
	}
	if o := cam.Offset(); o != (Vec2{}) {
		t.Errorf("offset = %+v, want zero", o)
	}
}

func TestCameraTranslation(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X = 500
	cam.Y = 400

	sx, sy := cam.WorldToScreen(500, 400)
	if !approxEqual(sx, 400, epsilon) || !approxEqual(sy, 300, epsilon) {
		t.Errorf("WorldToScreen(center) = (%f,%f), want (400,300)", sx, sy)
	}
	wx, wy := cam.ScreenToWorld(0, 0)
	if !approxEqual(wx, 100, epsilon) || !approxEqual(wy, 100, epsilon) {
		t.Errorf("ScreenToWorld(0,0) = (%f,%f), want (100,100)", wx, wy)
	}
}

func TestCameraViewportOrigin(t *testing.T) {
	cam := NewCamera(Rect{X: 50, Y: 20, Width: 200, Height: 100})
	cam.X, cam.Y = 100, 50
	sx, sy := cam.WorldToScreen(0, 0)
	if !approxEqual(sx, 50, epsilon) || !approxEqual(sy, 20, epsilon) {
		t.Errorf("map origin on screen = (%f,%f), want viewport origin (50,20)", sx, sy)
	}
}

func TestCameraOffsetRounds(t *testing.T) {
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.X = 60.4
	cam.Y = 60.6
	if o := cam.Offset(); o.X != 10 || o.Y != 11 {
		t.Errorf("offset = %+v, want (10,11)", o)
	}
}

func TestVisibleBounds(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X = 400
	cam.Y = 300
	b := cam.VisibleBounds()
	if !approxEqual(b.X, 0, epsilon) || !approxEqual(b.Width, 800, epsilon) || !approxEqual(b.Height, 600, epsilon) {
		t.Errorf("VisibleBounds = %+v", b)
	}
	if !b.Contains(800, 600) || b.Contains(801, 0) {
		t.Error("Contains should include edges and exclude points outside")
	}
}

func TestCameraFollow(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	target := Vec2{X: 200, Y: 150}
	cam.Follow(func() Vec2 { return target }, 1.0) // lerp=1 snaps immediately

	cam.Update(1.0 / 60.0)
	if !approxEqual(cam.X, 200, epsilon) || !approxEqual(cam.Y, 150, epsilon) {
		t.Errorf("after follow snap: cam = (%f,%f), want (200,150)", cam.X, cam.Y)
	}

	target = Vec2{X: 300, Y: 150}
	cam.Update(1.0 / 60.0)
	if !approxEqual(cam.X, 300, epsilon) {
		t.Errorf("follow should read the target every update, cam.X = %f", cam.X)
	}
}

func TestCameraFollowLerp(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	cam.Follow(func() Vec2 { return Vec2{X: 100} }, 0.5)
	cam.Update(1.0 / 60.0)
	// Should move halfway from 0 to 100
	if !approxEqual(cam.X, 50, epsilon) {
		t.Errorf("after lerp 0.5: cam.X = %f, want 50", cam.X)
	}
}

func TestCameraUnfollow(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Follow(func() Vec2 { return Vec2{X: 10, Y: 10} }, 1)
	cam.Unfollow()
	cam.Update(1.0 / 60.0)
	if cam.X != 400 || cam.Y != 300 {
		t.Errorf("after unfollow cam moved to (%f,%f)", cam.X, cam.Y)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	cam.ScrollTo(100, 200, 1.0, ease.Linear)

	// Advance halfway
	cam.Update(0.5)
	if !approxEqual(cam.X, 50, 1.0) || !approxEqual(cam.Y, 100, 1.0) {
		t.Errorf("scroll halfway: cam = (%f,%f), want ~(50,100)", cam.X, cam.Y)
	}

	// Advance to end
	cam.Update(0.5)
	if !approxEqual(cam.X, 100, 1.0) || !approxEqual(cam.Y, 200, 1.0) {
		t.Errorf("scroll end: cam = (%f,%f), want ~(100,200)", cam.X, cam.Y)
	}

	if cam.Scrolling() {
		t.Error("scroll should be cleared after completion")
	}
}

func TestCameraScrollOverridesFollow(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 0, 0
	cam.Follow(func() Vec2 { return Vec2{X: 1000, Y: 1000} }, 1)
	cam.ScrollTo(100, 100, 1.0, nil)
	cam.Update(0.5)
	if !approxEqual(cam.X, 50, 1.0) {
		t.Errorf("scroll should win over follow, cam.X = %f", cam.X)
	}
}

func TestCameraScrollToTile(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.ScrollToTile(3, 2, 32, 32, 0.0001, ease.Linear)

	// tile center: (3*32+16, 2*32+16) = (112, 80)
	cam.Update(1.0) // large dt to finish instantly
	if !approxEqual(cam.X, 112, 1.0) || !approxEqual(cam.Y, 80, 1.0) {
		t.Errorf("scrollToTile: cam = (%f,%f), want ~(112,80)", cam.X, cam.Y)
	}
}

func TestCameraBounds(t *testing.T) {
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.SetBounds(Rect{Width: 1000, Height: 1000})

	cam.X = 0
	cam.Y = 0
	cam.Update(0)
	if cam.X < 50 || cam.Y < 50 {
		t.Errorf("bounds clamp min: cam = (%f,%f), want >= (50,50)", cam.X, cam.Y)
	}

	cam.X = 999
	cam.Y = 999
	cam.Update(0)
	if cam.X > 950 || cam.Y > 950 {
		t.Errorf("bounds clamp max: cam = (%f,%f), want <= (950,950)", cam.X, cam.Y)
	}

	cam.ClearBounds()
	cam.X = 0
	cam.Update(0)
	if cam.X != 0 {
		t.Errorf("after ClearBounds cam.X = %f, want 0", cam.X)
	}
}

func TestCameraMapBoundsSmallMap(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	// Map smaller than viewport is centered.
	cam.SetMapBounds(NewTileMap(4, 3, 25, 25, nil, nil))
	cam.X = 0
	cam.Y = 0
	cam.Update(0)
	if !approxEqual(cam.X, 50, epsilon) || !approxEqual(cam.Y, 37.5, epsilon) {
		t.Errorf("small map center: cam = (%f,%f), want (50,37.5)", cam.X, cam.Y)
	}
}
