package arcade

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugOverlayInterval is how often, in seconds, the overlay text refreshes.
const debugOverlayInterval = 0.5

// DebugOverlay is a transparent state that prints FPS, TPS and the stack
// depth in the top-left corner. It never consumes events or updates.
type DebugOverlay struct {
	stack *StateStack
	since float64
	text  string
}

// NewDebugOverlay creates an overlay reporting on stack.
func NewDebugOverlay(stack *StateStack) *DebugOverlay {
	return &DebugOverlay{stack: stack}
}

// Text returns the text drawn last refresh.
func (o *DebugOverlay) Text() string { return o.text }

func (o *DebugOverlay) OnCreate() {
	o.since = debugOverlayInterval // refresh on first update
}

func (o *DebugOverlay) OnDestroy() {}

func (o *DebugOverlay) HandleEvent(Event) (Transition, bool) {
	return None(), true
}

func (o *DebugOverlay) Update(dt float64) (Transition, bool) {
	o.since += dt
	if o.since < debugOverlayInterval {
		return None(), true
	}
	o.since = 0
	depth := 0
	if o.stack != nil {
		depth = o.stack.Len()
	}
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nStates: %d", ebiten.ActualFPS(), ebiten.ActualTPS(), depth)
	return None(), true
}

func (o *DebugOverlay) Draw(screen *ebiten.Image) {
	if o.text != "" {
		ebitenutil.DebugPrint(screen, o.text)
	}
}
