package arcade

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	defaultWidth         = 640
	defaultHeight        = 480
	defaultTPS           = 60
	defaultScreenshotDir = "screenshots"
)

// RunConfig configures the window and frame loop created by Run.
// Zero values fall back to 640x480 at 60 ticks per second.
type RunConfig struct {
	Title         string
	Width         int
	Height        int
	TPS           int
	Debug         bool
	ClearColor    Color
	ScreenshotDir string

	// Script, if set, is fed into the stack ahead of real input.
	Script *EventScript
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.TPS <= 0 {
		c.TPS = defaultTPS
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	return c
}

// Game adapts a StateStack to ebiten.Game. Each tick it dispatches input
// events, then updates the stack with a fixed step of 1/TPS seconds; each
// frame it draws every state. The game terminates once the stack is empty.
type Game struct {
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	stack  *StateStack
	cfg    RunConfig
	dt     float64
	script *EventScript
	events []Event

	// input polls real devices; tests replace it.
	input  func(dst []Event) []Event
	poller inputPoller

	screenshotQueue []string
	stats           frameStats
}

// NewGame creates a host for stack.
func NewGame(stack *StateStack, cfg RunConfig) *Game {
	cfg = cfg.withDefaults()
	g := &Game{
		ScreenshotDir: cfg.ScreenshotDir,
		stack:         stack,
		cfg:           cfg,
		dt:            1.0 / float64(cfg.TPS),
		script:        cfg.Script,
	}
	g.input = g.poller.poll
	return g
}

// Stack returns the hosted state stack.
func (g *Game) Stack() *StateStack { return g.stack }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.stack.IsEmpty() {
		return ebiten.Termination
	}

	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}

	g.events = g.events[:0]
	if g.script != nil {
		g.events = g.script.step(g, g.events)
	}
	if g.input != nil {
		g.events = g.input(g.events)
	}
	for _, e := range g.events {
		if g.stack.IsEmpty() {
			break
		}
		g.stack.DispatchEvent(e)
	}

	if globalDebug {
		g.stats.eventTime = time.Since(t0)
		g.stats.events = len(g.events)
		t0 = time.Now()
	}

	g.stack.Update(g.dt)

	if globalDebug {
		g.stats.updateTime = time.Since(t0)
	}

	if g.stack.IsEmpty() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}

	if g.cfg.ClearColor.A > 0 {
		screen.Fill(g.cfg.ClearColor.toRGBA())
	}
	g.stack.Draw(screen)
	g.flushScreenshots(screen)

	if globalDebug {
		g.stats.drawTime = time.Since(t0)
		g.stats.depth = g.stack.Len()
		g.stats.log()
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and drives stack until it empties or the window closes.
func Run(stack *StateStack, cfg RunConfig) error {
	if cfg.Debug {
		SetDebug(true)
	}
	g := NewGame(stack, cfg)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetTPS(g.cfg.TPS)

	err := ebiten.RunGame(g)
	// Closing the window leaves states behind; destroy them in order.
	stack.Apply(Clear())
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
