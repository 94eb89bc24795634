package common

// Ring is a fixed-capacity ring of reusable slots with a rotating write index.
// Advance moves the write index forward, recycling the oldest slot; nothing
// is ever appended, so the ring never grows past its capacity.
type Ring[T any] struct {
	slots    []T
	writePos int
}

// NewRing creates a ring with size slots, each initialised by newSlot
func NewRing[T any](size int, newSlot func() T) *Ring[T] {
	if size <= 0 {
		size = 1
	}

	slots := make([]T, size)
	for i := range slots {
		slots[i] = newSlot()
	}

	return &Ring[T]{slots: slots}
}

// Advance rotates the ring so that the oldest slot becomes current and
// returns it. The caller overwrites its contents.
func (r *Ring[T]) Advance() T {
	r.writePos = (r.writePos + 1) % len(r.slots)
	return r.slots[r.writePos]
}

// Current returns the most recently advanced slot
func (r *Ring[T]) Current() T {
	return r.slots[r.writePos]
}

// Back returns the slot written n advances ago (Back(0) == Current()).
// n is taken modulo the capacity.
func (r *Ring[T]) Back(n int) T {
	size := len(r.slots)
	return r.slots[((r.writePos-n)%size+size)%size]
}

// Size returns the capacity of the ring
func (r *Ring[T]) Size() int {
	return len(r.slots)
}
