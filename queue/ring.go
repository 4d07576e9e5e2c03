// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "iter"

// defaultRingCap is the slot count allocated on the first Push.
const defaultRingCap = 16

// Ring is an unbounded FIFO backed by a circular buffer that doubles in
// place when it fills.
//
// head == tail means empty. A Push that makes head meet tail grows the
// buffer before returning, so a Ring is never observed full.
//
// Ring is a plain value type with no locking. The zero value is an empty
// queue ready to use. Copying a non-empty Ring aliases its buffer.
type Ring[T any] struct {
	items []T
	head  int
	tail  int
}

// Len returns the number of queued elements.
func (r *Ring[T]) Len() int {
	n := len(r.items)
	if n == 0 {
		return 0
	}
	return (r.tail - r.head + n) % n
}

// IsEmpty reports whether the queue holds no elements.
func (r *Ring[T]) IsEmpty() bool {
	return r.head == r.tail
}

// Cap returns the current number of slots.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Push appends v at the tail.
func (r *Ring[T]) Push(v T) {
	if r.items == nil {
		r.items = make([]T, defaultRingCap)
	}
	r.items[r.tail] = v
	r.tail = (r.tail + 1) % len(r.items)
	if r.head == r.tail {
		r.grow()
	}
}

// Pop removes and returns the element at the head.
// Returns (zero-value, false) if the queue is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.IsEmpty() {
		return zero, false
	}
	v := r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	return v, true
}

// Peek returns the element at the head without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	if r.IsEmpty() {
		var zero T
		return zero, false
	}
	return r.items[r.head], true
}

// All iterates from head to tail without removing anything.
// The queue must not be modified during iteration.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		n := len(r.items)
		for i := r.head; i != r.tail; i = (i + 1) % n {
			if !yield(r.items[i]) {
				return
			}
		}
	}
}

// grow splices a block of empty slots, as large as the current buffer, at
// the tail position. Elements from head onward shift right by that block,
// which keeps them in order behind the elements before tail.
func (r *Ring[T]) grow() {
	n := len(r.items)
	items := make([]T, n*2)
	copy(items, r.items[:r.tail])
	copy(items[r.tail+n:], r.items[r.tail:])
	r.items = items
	r.head += n
}
