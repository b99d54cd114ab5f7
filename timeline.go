package arcade

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFrame is returned when raw animation frame data cannot be
// converted into AnimationFrames.
var ErrInvalidFrame = errors.New("invalid animation frame")

// AnimationFrame is a single step of a tile animation. Frame sequences are
// loaded once per base tile and shared read-only by every timeline playing them.
type AnimationFrame struct {
	TileID   TileID
	Duration int // milliseconds
}

// RawFrame is an animation frame as it appears in tileset data: a tile id local
// to its tileset and a duration in milliseconds.
type RawFrame struct {
	LocalID  int `json:"tileid"`
	Duration int `json:"duration"`
}

// ConvertFrames copies raw frames into AnimationFrames, adding firstGID to
// every local tile id. Negative ids or durations are rejected.
func ConvertFrames(raw []RawFrame, firstGID TileID) ([]AnimationFrame, error) {
	frames := make([]AnimationFrame, len(raw))
	for i, f := range raw {
		if f.LocalID < 0 {
			return nil, fmt.Errorf("arcade: frame %d: tile id %d: %w", i, f.LocalID, ErrInvalidFrame)
		}
		if f.Duration < 0 {
			return nil, fmt.Errorf("arcade: frame %d: duration %d: %w", i, f.Duration, ErrInvalidFrame)
		}
		frames[i] = AnimationFrame{
			TileID:   firstGID + TileID(f.LocalID),
			Duration: f.Duration,
		}
	}
	return frames, nil
}

// Timeline is the animation clock for one tile. It tracks elapsed time in
// milliseconds and selects the current frame by scanning cumulative frame
// durations, so frames of unequal length are supported.
//
// Timelines are driven by Update(dt) with dt in seconds. There is no global
// clock; whoever owns the timeline decides when it advances.
type Timeline struct {
	frames  []AnimationFrame
	total   float64 // sum of durations, ms
	elapsed float64 // ms

	current  int
	paused   bool
	finished bool
	advanced bool // a frame has been selected by Update since the last Start/Stop

	// Loop wraps elapsed time around the total length. When false the
	// timeline stops on its last frame and reports Finished.
	Loop bool
}

// NewTimeline creates a playing timeline over frames. The frames slice is
// shared, not copied.
func NewTimeline(frames []AnimationFrame, loop bool) *Timeline {
	total := 0
	for _, f := range frames {
		total += f.Duration
	}
	return &Timeline{
		frames: frames,
		total:  float64(total),
		Loop:   loop,
	}
}

// Frames returns the shared frame sequence. It must not be mutated.
func (t *Timeline) Frames() []AnimationFrame { return t.frames }

// TotalLength returns the sum of all frame durations in milliseconds.
func (t *Timeline) TotalLength() float64 { return t.total }

// Elapsed returns the elapsed time in milliseconds.
func (t *Timeline) Elapsed() float64 { return t.elapsed }

// CurrentFrame returns the index of the current frame.
func (t *Timeline) CurrentFrame() int { return t.current }

// Paused reports whether the timeline is paused or stopped.
func (t *Timeline) Paused() bool { return t.paused }

// Finished reports whether a non-looping timeline has run past its end.
func (t *Timeline) Finished() bool { return t.finished }

// Playing reports whether Update would advance the timeline.
func (t *Timeline) Playing() bool {
	return !t.paused && !t.finished && len(t.frames) > 0
}

// Advanced reports whether Update has selected a frame since the last Start
// or Stop. Until then callers show the owning tile's default id.
func (t *Timeline) Advanced() bool { return t.advanced }

// Start restarts the timeline from its first frame and plays it.
func (t *Timeline) Start() {
	t.elapsed = 0
	t.current = 0
	t.paused = false
	t.finished = false
	t.advanced = false
}

// Resume clears the paused and finished flags without touching elapsed
// time, so playback continues from where it left off.
func (t *Timeline) Resume() {
	t.paused = false
	t.finished = false
}

// Pause freezes the timeline on its current frame.
func (t *Timeline) Pause() {
	t.paused = true
}

// Stop pauses the timeline and rewinds it to the first frame.
func (t *Timeline) Stop() {
	t.paused = true
	t.finished = false
	t.elapsed = 0
	t.current = 0
	t.advanced = false
}

// Update advances the timeline by dt seconds. It is a no-op while paused,
// finished, or when there are no frames.
func (t *Timeline) Update(dt float64) {
	if t.paused || t.finished || len(t.frames) == 0 {
		return
	}
	t.advanced = true
	t.elapsed += dt * 1000

	if t.total <= 0 {
		t.elapsed = 0
		t.current = 0
		return
	}

	if t.Loop {
		t.elapsed = math.Mod(t.elapsed, t.total)
	} else if t.elapsed >= t.total {
		t.elapsed = t.total
		t.current = len(t.frames) - 1
		t.finished = true
		return
	}

	t.current = frameAt(t.frames, t.elapsed)
}

// frameAt returns the index of the first frame whose cumulative duration
// strictly exceeds elapsed, or 0 if there is none.
func frameAt(frames []AnimationFrame, elapsed float64) int {
	acc := 0.0
	for i, f := range frames {
		acc += float64(f.Duration)
		if acc > elapsed {
			return i
		}
	}
	return 0
}

// seek places the timeline at elapsed milliseconds and selects the frame
// without waiting for the next Update.
func (t *Timeline) seek(elapsed float64) {
	if len(t.frames) == 0 || t.total <= 0 {
		return
	}
	switch {
	case t.Loop:
		elapsed = math.Mod(elapsed, t.total)
	case elapsed >= t.total:
		elapsed = t.total
	}
	t.elapsed = elapsed
	if elapsed >= t.total {
		t.current = len(t.frames) - 1
	} else {
		t.current = frameAt(t.frames, elapsed)
	}
	t.advanced = true
}

// CurrentTileID returns the tile id of the current frame. The second result
// is false when the timeline has no frames.
func (t *Timeline) CurrentTileID() (TileID, bool) {
	if len(t.frames) == 0 {
		return 0, false
	}
	return t.frames[t.current].TileID, true
}
