package ecs

import (
	"github.com/phanxgames/arcade"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransitionEventType is the Donburi event type for applied stack transitions.
var TransitionEventType = events.NewEventType[arcade.TransitionEvent]()

type donburiObserver struct {
	world donburi.World
}

// NewDonburiObserver creates a StackObserver backed by a Donburi world.
// Transitions are published to TransitionEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiObserver(world donburi.World) arcade.StackObserver {
	return &donburiObserver{world: world}
}

func (o *donburiObserver) TransitionApplied(e arcade.TransitionEvent) {
	TransitionEventType.Publish(o.world, e)
}
