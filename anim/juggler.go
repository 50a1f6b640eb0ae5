// Package anim drives time-based objects from a single per-frame tick.
// A Juggler owns a set of Animatables and forwards the frame delta to
// each of them; anything that can move, fade or fire on a timer hangs
// off a juggler.
package anim

import "github.com/google/uuid"

// Animatable is anything that advances with time. dt is in seconds.
type Animatable interface {
	AdvanceTime(dt float64)
}

// Completable is implemented by animatables that finish on their own,
// like a delayed call that has fired. The juggler drops a completed
// object right after the tick that completed it.
type Completable interface {
	IsComplete() bool
}

// AnimationId identifies one juggled object, so callers can remove an
// animation without holding the object itself.
type AnimationId string

func makeAnimationId() AnimationId {
	return AnimationId(uuid.NewString())
}

type jugglerEntry struct {
	id  AnimationId
	obj Animatable
}

// Juggler advances a collection of animatables once per frame. It is
// not safe for concurrent use; like the rest of the engine it belongs
// to the frame loop. Objects are tracked by identity, so Animatable
// implementations must be comparable (pointers are). Removing objects
// (including from inside an AdvanceTime call) only clears their slot;
// the slot is compacted on the next tick, which keeps reentrant
// mutation safe.
type Juggler struct {
	entries []jugglerEntry
	elapsed float64
}

func NewJuggler() *Juggler {
	return &Juggler{}
}

// Add registers an animatable and returns its id. Adding nil returns an
// empty id; adding an object twice returns the id it already has.
// Objects added during an AdvanceTime tick start advancing on the next
// one.
func (j *Juggler) Add(obj Animatable) AnimationId {
	if obj == nil {
		return ""
	}
	for _, e := range j.entries {
		if e.obj == obj {
			return e.id
		}
	}
	id := makeAnimationId()
	j.entries = append(j.entries, jugglerEntry{id: id, obj: obj})
	return id
}

// Contains reports whether the object is currently juggled.
func (j *Juggler) Contains(obj Animatable) bool {
	if obj == nil {
		return false
	}
	for _, e := range j.entries {
		if e.obj == obj {
			return true
		}
	}
	return false
}

// Remove takes an object out of the juggler and returns the id it had,
// or an empty id when it was not juggled.
func (j *Juggler) Remove(obj Animatable) AnimationId {
	if obj == nil {
		return ""
	}
	for i, e := range j.entries {
		if e.obj == obj {
			j.entries[i] = jugglerEntry{}
			return e.id
		}
	}
	return ""
}

// RemoveById removes the object with the given id and reports whether
// it was found.
func (j *Juggler) RemoveById(id AnimationId) bool {
	if id == "" {
		return false
	}
	for i, e := range j.entries {
		if e.id == id {
			j.entries[i] = jugglerEntry{}
			return true
		}
	}
	return false
}

// Purge removes every object. Slots are only cleared, not compacted, so
// purging from inside an AdvanceTime tick is safe.
func (j *Juggler) Purge() {
	for i := range j.entries {
		j.entries[i] = jugglerEntry{}
	}
}

// ElapsedTime returns the total time in seconds this juggler has been
// advanced by.
func (j *Juggler) ElapsedTime() float64 {
	return j.elapsed
}

// AdvanceTime forwards dt seconds to every juggled object, compacting
// the slots freed by earlier removals along the way. Negative deltas
// are ignored.
func (j *Juggler) AdvanceTime(dt float64) {
	if dt < 0 {
		return
	}
	j.elapsed += dt

	// Only the objects present at the start of the tick advance now;
	// reentrant additions land behind num and run next frame.
	num := len(j.entries)
	current := 0
	for i := 0; i < num; i++ {
		e := j.entries[i]
		if e.obj == nil {
			continue
		}
		if current != i {
			j.entries[current] = e
			j.entries[i] = jugglerEntry{}
		}
		e.obj.AdvanceTime(dt)
		if c, ok := e.obj.(Completable); ok && c.IsComplete() {
			j.entries[current] = jugglerEntry{}
		}
		current++
	}

	if current != num {
		// Slots were freed; pull any reentrant additions down over them
		// and drop the leftover tail.
		total := len(j.entries)
		for i := num; i < total; i++ {
			j.entries[current] = j.entries[i]
			current++
		}
		tail := j.entries[current:]
		for i := range tail {
			tail[i] = jugglerEntry{}
		}
		j.entries = j.entries[:current]
	}
}
