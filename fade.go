package arcade

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FadeState is an overlay state that tweens a full-screen color from one
// alpha to another. While it is on the stack it swallows input, so nothing
// underneath reacts mid-fade; updates still propagate so the scene below keeps
// animating. When the tween completes it returns its Then transition once.
type FadeState struct {
	// Color is the fade color. Its alpha is multiplied by the tweened alpha.
	Color Color
	// Then is returned from Update when the fade completes. A fade-in on top
	// of a new scene normally uses Pop to remove itself.
	Then Transition

	from, to float32
	tween    *gween.Tween
	alpha    float64
	done     bool
	op       ebiten.DrawImageOptions
}

// NewFadeState creates a fade from alpha from to alpha to over duration
// seconds using the easing function fn (ease.Linear when nil).
func NewFadeState(from, to float64, duration float32, fn ease.TweenFunc, then Transition) *FadeState {
	if fn == nil {
		fn = ease.Linear
	}
	return &FadeState{
		Color: ColorBlack,
		Then:  then,
		from:  float32(from),
		to:    float32(to),
		tween: gween.New(float32(from), float32(to), duration, fn),
		alpha: from,
	}
}

// FadeIn fades from opaque black to clear, then pops itself.
func FadeIn(duration float32) *FadeState {
	return NewFadeState(1, 0, duration, ease.OutQuad, Pop())
}

// Alpha returns the current overlay alpha.
func (f *FadeState) Alpha() float64 { return f.alpha }

// Done reports whether the tween has completed.
func (f *FadeState) Done() bool { return f.done }

// OnCreate rewinds the tween so a reused FadeState plays again.
func (f *FadeState) OnCreate() {
	f.tween.Reset()
	f.alpha = float64(f.from)
	f.done = false
}

// OnDestroy implements GameState.
func (f *FadeState) OnDestroy() {}

// HandleEvent swallows every event while the fade is on the stack.
func (f *FadeState) HandleEvent(Event) (Transition, bool) {
	return None(), false
}

// Update advances the tween by dt seconds.
func (f *FadeState) Update(dt float64) (Transition, bool) {
	if f.done {
		return None(), true
	}
	val, finished := f.tween.Update(float32(dt))
	f.alpha = float64(val)
	if finished {
		f.alpha = float64(f.to)
		f.done = true
		return f.Then, true
	}
	return None(), true
}

// Draw covers the screen with the fade color at the current alpha.
func (f *FadeState) Draw(screen *ebiten.Image) {
	a := float32(clamp01(f.alpha * f.Color.A))
	if a <= 0 {
		return
	}
	b := screen.Bounds()
	f.op.GeoM.Reset()
	f.op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	f.op.GeoM.Translate(float64(b.Min.X), float64(b.Min.Y))
	f.op.ColorScale.Reset()
	f.op.ColorScale.Scale(float32(f.Color.R)*a, float32(f.Color.G)*a, float32(f.Color.B)*a, a)
	screen.DrawImage(ensureWhitePixel(), &f.op)
}
