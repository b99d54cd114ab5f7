// Package arcade is the runtime core of a 2D tile game built on [Ebitengine].
//
// It provides a stack of game states with deferred transitions, animation
// timelines driven by an explicit clock, and an atlas that resolves tile ids
// into texture regions. Maps and tilesets in the Tiled JSON format load into
// these pieces directly.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and drives
// a [StateStack] until it empties:
//
//	stack := arcade.NewStateStack(newTitleState())
//	if err := arcade.Run(stack, arcade.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, embed a [Game] in your own [ebiten.Game] or call
// [StateStack.DispatchEvent], [StateStack.Update] and [StateStack.Draw]
// directly from it.
//
// # States
//
// A [GameState] handles events, updates and draws. HandleEvent and Update
// return a [Transition] and whether the states below should see the same
// event or update. Returning false makes a state modal. Transitions are queued
// during a pass and applied in emission order once the pass ends:
//
//	func (p *pauseState) HandleEvent(e arcade.Event) (arcade.Transition, bool) {
//		if e.Pressed(ebiten.KeyEscape) {
//			return arcade.Pop(), false
//		}
//		return arcade.None(), false
//	}
//
// States are drawn bottom first, so a pause menu draws over the frozen game.
// OnCreate runs just before a state is pushed, OnDestroy just before it is
// removed; [Clear] destroys states from the top down.
//
// # Tiles and animation
//
// A [TileAtlas] composes single-tile textures with [GridSheet]s. Lookups check
// single tiles first, then sheets in insertion order; a miss returns false and
// the caller skips the tile.
//
// A [Timeline] plays a sequence of [AnimationFrame]s. Frame durations are in
// milliseconds; Update takes seconds. The [AnimationRegistry] binds tile
// instances to timelines: shared instances of the same base tile animate in
// lockstep off one timeline, owned instances get a private one.
//
//	anims := arcade.NewAnimationRegistry(tileset.Animations)
//	water := anims.AddInstance(waterID, arcade.OwnershipShared)
//	hero := anims.AddInstance(heroDown, arcade.OwnershipOwned)
//	anims.Timeline(hero).Start()
//	...
//	anims.Update(dt)
//	id, _ := anims.TileID(hero)
//
// # Maps
//
// [LoadTileMap] reads a Tiled JSON map and its tilesets, combining their atlases
// and animations. [TileMap.Draw] batches tiles by texture into DrawTriangles
// calls and honours the Tiled flip flags.
//
// # Debug mode
//
// [SetDebug] enables diagnostics on stderr: applied transitions, atlas misses
// and per-frame timings. [DebugOverlay] is a state that prints FPS, TPS and
// the stack depth on screen.
//
// # Scripted input
//
// [LoadEventScript] parses a JSON list of key presses, clicks, waits and
// screenshots; set it on [RunConfig].Script to play-test without a keyboard.
//
// [Ebitengine]: https://ebitengine.org
package arcade
