// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import "sync"

// Unbounded is the capacity value for an MPMC queue without a size limit.
const Unbounded = 0

// MPMC is a blocking multi-producer multi-consumer FIFO for handing values
// between goroutines.
//
// One mutex guards all state. Waiters are split across three conditions so
// a wake only reaches goroutines that can act on it:
//
//	notEmpty - consumers blocked in Pop
//	notFull  - producers blocked in Push
//	empty    - Drain callers waiting for the buffer to run dry
//
// Close is one-way. After Close, Push refuses new elements while Pop keeps
// returning buffered ones until the queue is empty.
type MPMC[T any] struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond
	empty    sync.Cond
	ring     Ring[T]
	capacity int
	closing  bool
	policy   ClosedPolicy
}

// NewMPMC creates a queue holding at most capacity elements.
// A capacity of zero or less ([Unbounded]) never blocks producers.
func NewMPMC[T any](capacity int, opts ...Option) *MPMC[T] {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if capacity < 0 {
		capacity = Unbounded
	}
	q := &MPMC[T]{
		capacity: capacity,
		policy:   cfg.closedPolicy,
	}
	q.notEmpty.L = &q.mu
	q.notFull.L = &q.mu
	q.empty.L = &q.mu
	return q
}

func (q *MPMC[T]) full() bool {
	return q.capacity != Unbounded && q.ring.Len() >= q.capacity
}

func (q *MPMC[T]) refuse() error {
	if q.policy == DropOnClosed {
		return nil
	}
	return ErrClosed
}

// Push appends v, blocking while the queue is full.
//
// Once the queue is closed, including while Push is waiting for room, v is
// refused according to the queue's [ClosedPolicy].
func (q *MPMC[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.full() && !q.closing {
		q.notFull.Wait()
	}
	if q.closing {
		return q.refuse()
	}
	q.ring.Push(v)
	q.notEmpty.Signal()
	return nil
}

// TryPush appends v without blocking.
// Returns ErrWouldBlock if the queue is full.
func (q *MPMC[T]) TryPush(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closing {
		return q.refuse()
	}
	if q.full() {
		return ErrWouldBlock
	}
	q.ring.Push(v)
	q.notEmpty.Signal()
	return nil
}

// Pop removes and returns the head element, blocking while the queue is
// empty. Returns (zero-value, ErrClosed) once the queue is closed and
// empty.
func (q *MPMC[T]) Pop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.ring.IsEmpty() {
		if q.closing {
			var zero T
			return zero, ErrClosed
		}
		q.notEmpty.Wait()
	}
	return q.take(), nil
}

// TryPop removes and returns the head element without blocking.
// Returns ErrWouldBlock if the queue is empty and still open.
func (q *MPMC[T]) TryPop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ring.IsEmpty() {
		var zero T
		if q.closing {
			return zero, ErrClosed
		}
		return zero, ErrWouldBlock
	}
	return q.take(), nil
}

// take pops under the lock and publishes the resulting state changes.
func (q *MPMC[T]) take() T {
	v, _ := q.ring.Pop()
	q.notFull.Signal()
	if q.ring.IsEmpty() {
		q.empty.Broadcast()
	}
	return v
}

// Close stops the queue from accepting elements and wakes every blocked
// producer. Buffered elements are left for consumers. Close is idempotent.
func (q *MPMC[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closing {
		return
	}
	q.closing = true
	q.notFull.Broadcast()
	// consumers parked on an empty queue would otherwise never return
	q.notEmpty.Broadcast()
}

// Drain closes the queue and blocks until consumers have taken every
// buffered element.
func (q *MPMC[T]) Drain() {
	q.Close()
	q.mu.Lock()
	defer q.mu.Unlock()
	for !q.ring.IsEmpty() {
		q.empty.Wait()
	}
}

// Len returns the number of buffered elements.
func (q *MPMC[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ring.Len()
}

// Cap returns the capacity, or -1 for an unbounded queue.
func (q *MPMC[T]) Cap() int {
	if q.capacity == Unbounded {
		return -1
	}
	return q.capacity
}

// Closed reports whether Close has been called.
func (q *MPMC[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closing
}
