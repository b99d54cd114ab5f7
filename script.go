package arcade

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptStep represents a single action in an event script.
type scriptStep struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`
	Button string `json:"button,omitempty"`
	Label  string `json:"label,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Frames int    `json:"frames,omitempty"`

	key    ebiten.Key
	button ebiten.MouseButton
}

// eventScript is the top-level JSON structure for an event script.
type eventScript struct {
	Steps []scriptStep `json:"steps"`
}

// EventScript feeds scripted input into a Game one event per frame, for
// automated play-testing. Supported actions:
//
//	{"action": "key", "key": "Escape"}           press then release (two frames)
//	{"action": "press", "key": "ArrowLeft"}      key down only
//	{"action": "release", "key": "ArrowLeft"}    key up only
//	{"action": "click", "x": 10, "y": 20}        mouse press then release
//	{"action": "wait", "frames": 30}
//	{"action": "screenshot", "label": "paused"}
//
// Key names are Ebitengine key names.
type EventScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	queue     []Event
	done      bool
}

// LoadEventScript parses and validates a JSON event script.
func LoadEventScript(jsonData []byte) (*EventScript, error) {
	var script eventScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("arcade: parse event script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("arcade: parse event script: no steps")
	}
	for i := range script.Steps {
		if err := script.Steps[i].validate(); err != nil {
			return nil, fmt.Errorf("arcade: event script step %d: %w", i, err)
		}
	}
	return &EventScript{steps: script.Steps}, nil
}

func (st *scriptStep) validate() error {
	switch st.Action {
	case "key", "press", "release":
		if err := st.key.UnmarshalText([]byte(st.Key)); err != nil {
			return fmt.Errorf("%s: unknown key %q", st.Action, st.Key)
		}
	case "click":
		b, err := parseMouseButton(st.Button)
		if err != nil {
			return err
		}
		st.button = b
	case "wait", "screenshot":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func parseMouseButton(s string) (ebiten.MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return ebiten.MouseButtonLeft, nil
	case "right":
		return ebiten.MouseButtonRight, nil
	case "middle":
		return ebiten.MouseButtonMiddle, nil
	}
	return 0, fmt.Errorf("click: unknown button %q", s)
}

// Done reports whether every step has run and every queued event was sent.
func (r *EventScript) Done() bool {
	return r.done
}

// screenshotter receives screenshot steps.
type screenshotter interface {
	Screenshot(label string)
}

// step advances the script by one frame, appending at most one event to dst.
func (r *EventScript) step(shots screenshotter, dst []Event) []Event {
	if r.done {
		return dst
	}
	if len(r.queue) > 0 {
		dst = append(dst, r.queue[0])
		copy(r.queue, r.queue[1:])
		r.queue = r.queue[:len(r.queue)-1]
		r.checkDone()
		return dst
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.checkDone()
		return dst
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return dst
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "key":
		r.queue = append(r.queue, Event{Type: EventKeyUp, Key: st.key})
		dst = append(dst, Event{Type: EventKeyDown, Key: st.key})
	case "press":
		dst = append(dst, Event{Type: EventKeyDown, Key: st.key})
	case "release":
		dst = append(dst, Event{Type: EventKeyUp, Key: st.key})
	case "click":
		r.queue = append(r.queue, Event{Type: EventMouseUp, Button: st.button, X: st.X, Y: st.Y})
		dst = append(dst, Event{Type: EventMouseDown, Button: st.button, X: st.X, Y: st.Y})
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		if shots != nil {
			shots.Screenshot(st.Label)
		}
	}

	r.checkDone()
	return dst
}

func (r *EventScript) checkDone() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(r.queue) == 0 {
		r.done = true
	}
}
