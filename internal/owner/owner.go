// Package owner implements a handle-indexed record arena.
//
// IDs carry a registry tag, a generation and a slot index, so an ID that was
// freed, or that belongs to another registry, resolves to nothing instead of
// a recycled record.
package owner

import "errors"

// ID identifies a record. The zero ID is never valid.
type ID uint64

// IsValid reports whether id is non-zero. It does not check liveness.
func (id ID) IsValid() bool { return id != 0 }

func (id ID) index() uint32 { return uint32(id) }
func (id ID) gen() uint32   { return uint32(id>>32) & 0xFFFFFF }
func (id ID) tag() uint8    { return uint8(id >> 56) }

func makeID(tag uint8, gen, index uint32) ID {
	return ID(tag)<<56 | ID(gen&0xFFFFFF)<<32 | ID(index)
}

// State is the lifecycle state of a slot.
type State uint8

const (
	// StateFree means the ID does not resolve.
	StateFree State = iota
	// StateReserved means the ID was handed out but no record is stored yet.
	StateReserved
	// StateReady means the record is initialized and can be looked up.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReserved:
		return "reserved"
	case StateReady:
		return "ready"
	default:
		return "free"
	}
}

// Errors returned by Owner.
var (
	ErrUnknownID   = errors.New("owner: unknown id")
	ErrNotReserved = errors.New("owner: id is not reserved")
)

type slot[T any] struct {
	gen   uint32
	state State
	value T
}

// Owner stores records of type T. Record pointers returned by Get stay valid
// until the record is freed. Owner is not safe for concurrent use.
type Owner[T any] struct {
	tag   uint8
	slots []*slot[T]
	free  []uint32
	ready int
}

// New creates an empty owner. The tag distinguishes IDs of different owners
// and must be non-zero.
func New[T any](tag uint8) *Owner[T] {
	if tag == 0 {
		tag = 1
	}
	return &Owner[T]{tag: tag}
}

func (o *Owner[T]) lookup(id ID) *slot[T] {
	if id.tag() != o.tag {
		return nil
	}
	i := id.index()
	if int(i) >= len(o.slots) {
		return nil
	}
	s := o.slots[i]
	if s.state == StateFree || s.gen != id.gen() {
		return nil
	}
	return s
}

// Reserve returns a fresh ID in the reserved state.
func (o *Owner[T]) Reserve() ID {
	var i uint32
	if n := len(o.free); n > 0 {
		i = o.free[n-1]
		o.free = o.free[:n-1]
	} else {
		i = uint32(len(o.slots))
		o.slots = append(o.slots, &slot[T]{})
	}
	s := o.slots[i]
	s.gen = (s.gen + 1) & 0xFFFFFF
	if s.gen == 0 {
		s.gen = 1
	}
	s.state = StateReserved
	return makeID(o.tag, s.gen, i)
}

// Initialize stores the record of a reserved ID.
func (o *Owner[T]) Initialize(id ID, v T) error {
	s := o.lookup(id)
	if s == nil {
		return ErrUnknownID
	}
	if s.state != StateReserved {
		return ErrNotReserved
	}
	s.value = v
	s.state = StateReady
	o.ready++
	return nil
}

// Make reserves and initializes in one step.
func (o *Owner[T]) Make(v T) ID {
	id := o.Reserve()
	_ = o.Initialize(id, v)
	return id
}

// Get returns the record of a ready ID, or nil.
func (o *Owner[T]) Get(id ID) *T {
	s := o.lookup(id)
	if s == nil || s.state != StateReady {
		return nil
	}
	return &s.value
}

// Owns reports whether id resolves to a ready record.
func (o *Owner[T]) Owns(id ID) bool {
	return o.Get(id) != nil
}

// State reports the slot state of id.
func (o *Owner[T]) State(id ID) State {
	s := o.lookup(id)
	if s == nil {
		return StateFree
	}
	return s.state
}

// Free releases a reserved or ready ID. It reports whether anything was freed.
func (o *Owner[T]) Free(id ID) bool {
	s := o.lookup(id)
	if s == nil {
		return false
	}
	if s.state == StateReady {
		o.ready--
	}
	var zero T
	s.value = zero
	s.state = StateFree
	o.free = append(o.free, id.index())
	return true
}

// IDs returns every ready ID in slot order.
func (o *Owner[T]) IDs() []ID {
	ids := make([]ID, 0, o.ready)
	for i, s := range o.slots {
		if s.state == StateReady {
			ids = append(ids, makeID(o.tag, s.gen, uint32(i)))
		}
	}
	return ids
}

// Len returns the number of ready records.
func (o *Owner[T]) Len() int { return o.ready }
