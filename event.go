package arcade

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventKeyDown   EventType = iota // a key was pressed this tick
	EventKeyUp                      // a key was released this tick
	EventMouseDown                  // a mouse button was pressed this tick
	EventMouseUp                    // a mouse button was released this tick
)

// String returns the event type's name.
func (t EventType) String() string {
	switch t {
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventMouseDown:
		return "mousedown"
	case EventMouseUp:
		return "mouseup"
	default:
		return "unknown"
	}
}

// Event is an input event dispatched through the state stack.
type Event struct {
	Type   EventType
	Key    ebiten.Key         // valid for key events
	Button ebiten.MouseButton // valid for mouse events
	X, Y   int                // cursor position in screen pixels
}

// KeyEvent returns a key event of the given type.
func KeyEvent(typ EventType, key ebiten.Key) Event {
	return Event{Type: typ, Key: key}
}

// Pressed reports whether e is a key-down event for key.
func (e Event) Pressed(key ebiten.Key) bool {
	return e.Type == EventKeyDown && e.Key == key
}

var pollButtons = [...]ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// inputPoller turns Ebitengine's per-tick input state into edge events.
// Scratch buffers are reused across ticks.
type inputPoller struct {
	keys []ebiten.Key
}

// poll appends this tick's key and mouse edges to dst.
func (p *inputPoller) poll(dst []Event) []Event {
	x, y := ebiten.CursorPosition()

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		dst = append(dst, Event{Type: EventKeyDown, Key: k, X: x, Y: y})
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		dst = append(dst, Event{Type: EventKeyUp, Key: k, X: x, Y: y})
	}

	for _, b := range pollButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			dst = append(dst, Event{Type: EventMouseDown, Button: b, X: x, Y: y})
		}
		if inpututil.IsMouseButtonJustReleased(b) {
			dst = append(dst, Event{Type: EventMouseUp, Button: b, X: x, Y: y})
		}
	}
	return dst
}
