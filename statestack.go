package arcade

import "github.com/hajimehoshi/ebiten/v2"

// GameState is one layer of the state stack: gameplay, a pause menu, a fade.
//
// HandleEvent and Update return a transition to apply once the current pass
// is over and whether the states below should also see this event or update.
// Draw is called for every state on the stack, bottom first.
type GameState interface {
	HandleEvent(e Event) (Transition, bool)
	Update(dt float64) (Transition, bool)
	Draw(screen *ebiten.Image)

	// OnCreate is called just before the state is placed on the stack.
	OnCreate()
	// OnDestroy is called just before the state is removed from the stack.
	OnDestroy()
}

// TransitionKind identifies a stack operation.
type TransitionKind uint8

const (
	TransitionNone   TransitionKind = iota // leave the stack unchanged
	TransitionPush                         // create and push a state
	TransitionPop                          // destroy and remove the top state
	TransitionSwitch                       // pop, then push
	TransitionClear                        // pop every state
)

// String returns the transition kind's name.
func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case TransitionPush:
		return "push"
	case TransitionPop:
		return "pop"
	case TransitionSwitch:
		return "switch"
	case TransitionClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Transition is a deferred stack operation returned by a GameState.
// The zero value is a no-op.
type Transition struct {
	Kind  TransitionKind
	State GameState // for Push and Switch
}

// None returns the no-op transition.
func None() Transition { return Transition{} }

// Push returns a transition that pushes s.
func Push(s GameState) Transition { return Transition{Kind: TransitionPush, State: s} }

// Pop returns a transition that removes the top state.
func Pop() Transition { return Transition{Kind: TransitionPop} }

// Switch returns a transition that replaces the top state with s.
func Switch(s GameState) Transition { return Transition{Kind: TransitionSwitch, State: s} }

// Clear returns a transition that removes every state.
func Clear() Transition { return Transition{Kind: TransitionClear} }

// TransitionEvent describes one applied stack change. For Clear, one event is
// reported per removed state with Kind TransitionClear.
type TransitionEvent struct {
	Kind  TransitionKind
	State GameState // the state pushed or removed
	Depth int       // stack depth after the change
}

// StackObserver receives every applied stack change.
type StackObserver interface {
	TransitionApplied(e TransitionEvent)
}

// StateStack owns an ordered stack of GameStates. The top state receives
// events and updates first; any state can stop propagation to the states
// below it. Transitions requested during a pass are queued in the order they
// were returned and applied when the pass ends, so the stack never changes
// while it is being walked.
type StateStack struct {
	states   []GameState
	pending  []Transition
	observer StackObserver
}

// NewStateStack creates a stack holding the given states, bottom first.
// Each state's OnCreate is called in order.
func NewStateStack(states ...GameState) *StateStack {
	s := &StateStack{}
	for _, st := range states {
		s.push(st)
	}
	return s
}

// SetObserver sets the optional observer notified of applied transitions.
func (s *StateStack) SetObserver(o StackObserver) {
	s.observer = o
}

// Len returns the number of states on the stack.
func (s *StateStack) Len() int { return len(s.states) }

// IsEmpty reports whether the stack has no states. The host loop stops
// once this becomes true.
func (s *StateStack) IsEmpty() bool { return len(s.states) == 0 }

// Top returns the top state, or nil when the stack is empty.
func (s *StateStack) Top() GameState {
	if len(s.states) == 0 {
		return nil
	}
	return s.states[len(s.states)-1]
}

// At returns the state at depth i, where 0 is the bottom.
func (s *StateStack) At(i int) GameState { return s.states[i] }

// DispatchEvent offers e to each state from the top down, stopping at the
// first state that does not propagate, then applies queued transitions.
func (s *StateStack) DispatchEvent(e Event) {
	for i := len(s.states) - 1; i >= 0; i-- {
		tr, propagate := s.states[i].HandleEvent(e)
		s.enqueue(tr)
		if !propagate {
			break
		}
	}
	s.flush()
}

// Update runs the update pass from the top down with the same early-exit
// rule as DispatchEvent, then applies queued transitions.
func (s *StateStack) Update(dt float64) {
	for i := len(s.states) - 1; i >= 0; i-- {
		tr, propagate := s.states[i].Update(dt)
		s.enqueue(tr)
		if !propagate {
			break
		}
	}
	s.flush()
}

// Draw draws every state from the bottom up, so states under an overlay stay
// visible behind it.
func (s *StateStack) Draw(screen *ebiten.Image) {
	for _, st := range s.states {
		st.Draw(screen)
	}
}

// Apply applies a transition immediately. States should return transitions
// instead; Apply is for the host and for setting up the initial stack.
// Pop and Switch on an empty stack do nothing.
func (s *StateStack) Apply(tr Transition) {
	switch tr.Kind {
	case TransitionPush:
		if tr.State != nil {
			s.push(tr.State)
		}
	case TransitionPop:
		s.pop(TransitionPop)
	case TransitionSwitch:
		// Switching on an empty stack is dropped like a stray Pop.
		if len(s.states) == 0 {
			return
		}
		s.pop(TransitionPop)
		if tr.State != nil {
			s.push(tr.State)
		}
	case TransitionClear:
		for len(s.states) > 0 {
			s.pop(TransitionClear)
		}
	}
}

func (s *StateStack) enqueue(tr Transition) {
	if tr.Kind == TransitionNone {
		return
	}
	s.pending = append(s.pending, tr)
}

// flush applies queued transitions in emission order and empties the queue.
func (s *StateStack) flush() {
	for i := 0; i < len(s.pending); i++ {
		s.Apply(s.pending[i])
		s.pending[i] = Transition{}
	}
	s.pending = s.pending[:0]
}

func (s *StateStack) push(st GameState) {
	st.OnCreate()
	s.states = append(s.states, st)
	debugf("push %T (depth %d)", st, len(s.states))
	debugCheckStackDepth(len(s.states))
	s.notify(TransitionPush, st)
}

// pop removes the top state. Popping an empty stack is a no-op.
func (s *StateStack) pop(kind TransitionKind) {
	n := len(s.states)
	if n == 0 {
		return
	}
	top := s.states[n-1]
	top.OnDestroy()
	s.states[n-1] = nil
	s.states = s.states[:n-1]
	debugf("%s %T (depth %d)", kind, top, len(s.states))
	s.notify(kind, top)
}

func (s *StateStack) notify(kind TransitionKind, st GameState) {
	if s.observer == nil {
		return
	}
	s.observer.TransitionApplied(TransitionEvent{Kind: kind, State: st, Depth: len(s.states)})
}
