package arcade

// Ownership selects how a tile instance's animation timeline is held.
type Ownership uint8

const (
	// OwnershipShared binds the instance to the one timeline kept per base
	// tile, so identical tiles animate in lockstep and cost one update.
	OwnershipShared Ownership = iota
	// OwnershipOwned gives the instance a private timeline it can play,
	// pause and stop independently (player and enemy sprites).
	OwnershipOwned
)

// InstanceID identifies a tile instance registered with an AnimationRegistry.
type InstanceID uint32

type bindingKind uint8

const (
	bindNone bindingKind = iota // base tile has no frames; show the base id
	bindShared
	bindOwned
)

// binding is the instance's view of its timeline: either a key into the
// registry's shared table or a private timeline.
type binding struct {
	kind   bindingKind
	shared TileID
	owned  *Timeline
}

type tileInstance struct {
	base      TileID
	ownership Ownership
	binding   binding
}

type sharedTimeline struct {
	timeline *Timeline
	refs     int
}

// AnimationRegistry associates tile instances with animation timelines.
// Frame sequences live in a library keyed by base tile id; instances reach
// them through either a shared, reference-counted timeline or an owned one.
//
// Update advances every distinct shared timeline exactly once and every owned
// timeline once, however many instances reference them.
type AnimationRegistry struct {
	library   map[TileID][]AnimationFrame
	shared    map[TileID]*sharedTimeline
	instances map[InstanceID]*tileInstance
	nextID    InstanceID

	// Loop is applied to every timeline the registry creates. Default true.
	Loop bool
}

// NewAnimationRegistry creates a registry over a frame library. The library
// map is copied; the frame slices are shared.
func NewAnimationRegistry(library map[TileID][]AnimationFrame) *AnimationRegistry {
	r := &AnimationRegistry{
		library:   make(map[TileID][]AnimationFrame, len(library)),
		shared:    make(map[TileID]*sharedTimeline),
		instances: make(map[InstanceID]*tileInstance),
		Loop:      true,
	}
	for id, frames := range library {
		r.library[id] = frames
	}
	return r
}

// AddFrames registers (or replaces) the frame sequence for a base tile.
// Existing timelines keep the sequence they were created with.
func (r *AnimationRegistry) AddFrames(base TileID, frames []AnimationFrame) {
	if len(frames) == 0 {
		delete(r.library, base)
		return
	}
	r.library[base] = frames
}

// Frames returns the frame sequence registered for base.
func (r *AnimationRegistry) Frames(base TileID) ([]AnimationFrame, bool) {
	frames, ok := r.library[base]
	return frames, ok
}

// Animated reports whether base has a registered frame sequence.
func (r *AnimationRegistry) Animated(base TileID) bool {
	_, ok := r.library[base]
	return ok
}

// Len returns the number of registered instances.
func (r *AnimationRegistry) Len() int { return len(r.instances) }

// SharedTimelines returns the number of live shared timelines.
func (r *AnimationRegistry) SharedTimelines() int { return len(r.shared) }

// AddInstance registers a tile instance displaying base and returns its id.
func (r *AnimationRegistry) AddInstance(base TileID, ownership Ownership) InstanceID {
	r.nextID++
	id := r.nextID
	inst := &tileInstance{base: base, ownership: ownership}
	r.bind(inst, nil)
	r.instances[id] = inst
	return id
}

// RemoveInstance unregisters an instance, releasing its shared timeline
// reference if it held one. Unknown ids are ignored.
func (r *AnimationRegistry) RemoveInstance(id InstanceID) {
	inst, ok := r.instances[id]
	if !ok {
		return
	}
	r.release(inst)
	delete(r.instances, id)
}

// SetDefaultTile changes the base tile an instance displays and re-resolves
// its timeline. An owned timeline that was playing hands its playing state
// and phase to the new one, so a facing change does not restart the cycle.
func (r *AnimationRegistry) SetDefaultTile(id InstanceID, base TileID) {
	inst, ok := r.instances[id]
	if !ok || inst.base == base {
		return
	}
	prev := inst.binding.owned
	r.release(inst)
	inst.base = base
	r.bind(inst, prev)
}

// DefaultTile returns the base tile of an instance.
func (r *AnimationRegistry) DefaultTile(id InstanceID) (TileID, bool) {
	inst, ok := r.instances[id]
	if !ok {
		return 0, false
	}
	return inst.base, true
}

// Timeline returns the timeline backing an instance, or nil when the
// instance is unknown or its base tile does not animate. Shared timelines
// are returned as-is; controlling one affects every instance sharing it.
func (r *AnimationRegistry) Timeline(id InstanceID) *Timeline {
	inst, ok := r.instances[id]
	if !ok {
		return nil
	}
	return r.timelineOf(inst)
}

// TileID returns the id an instance should draw: the current frame of its
// timeline, or its base tile when it has no frames or the timeline has not
// advanced since it was (re)started.
func (r *AnimationRegistry) TileID(id InstanceID) (TileID, bool) {
	inst, ok := r.instances[id]
	if !ok {
		return 0, false
	}
	t := r.timelineOf(inst)
	if t == nil || !t.Advanced() {
		return inst.base, true
	}
	if cur, ok := t.CurrentTileID(); ok {
		return cur, true
	}
	return inst.base, true
}

// Update advances each shared timeline once, then each owned timeline once.
func (r *AnimationRegistry) Update(dt float64) {
	for _, st := range r.shared {
		st.timeline.Update(dt)
	}
	for _, inst := range r.instances {
		if inst.binding.kind == bindOwned {
			inst.binding.owned.Update(dt)
		}
	}
}

func (r *AnimationRegistry) timelineOf(inst *tileInstance) *Timeline {
	switch inst.binding.kind {
	case bindShared:
		if st, ok := r.shared[inst.binding.shared]; ok {
			return st.timeline
		}
	case bindOwned:
		return inst.binding.owned
	}
	return nil
}

// bind resolves the timeline for inst.base. prev is the instance's previous
// owned timeline, if any.
func (r *AnimationRegistry) bind(inst *tileInstance, prev *Timeline) {
	frames, ok := r.library[inst.base]
	if !ok {
		inst.binding = binding{}
		return
	}

	if inst.ownership == OwnershipShared {
		st, ok := r.shared[inst.base]
		if !ok {
			st = &sharedTimeline{timeline: NewTimeline(frames, r.Loop)}
			r.shared[inst.base] = st
			debugf("shared timeline created for tile %d", inst.base)
		}
		st.refs++
		inst.binding = binding{kind: bindShared, shared: inst.base}
		return
	}

	t := NewTimeline(frames, r.Loop)
	t.paused = true
	if prev != nil && prev.Playing() {
		t.paused = false
		if prev.Advanced() {
			t.seek(prev.Elapsed())
		}
	}
	inst.binding = binding{kind: bindOwned, owned: t}
}

func (r *AnimationRegistry) release(inst *tileInstance) {
	if inst.binding.kind == bindShared {
		key := inst.binding.shared
		if st, ok := r.shared[key]; ok {
			st.refs--
			if st.refs <= 0 {
				delete(r.shared, key)
				debugf("shared timeline released for tile %d", key)
			}
		}
	}
	inst.binding = binding{}
}
