// Package ecs provides ECS adapters for arcade.
//
// [NewDonburiObserver] bridges state-stack transitions into a [Donburi] world
// as typed events; subscribe to [TransitionEventType] in your ECS systems to
// react to states being pushed and removed.
//
// [Sprite] is a component for entities drawn from an animation registry and
// a tile atlas, and [DrawSprites] is the system that draws them.
//
// Usage:
//
//	stack.SetObserver(ecs.NewDonburiObserver(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
