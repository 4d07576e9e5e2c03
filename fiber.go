// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import "strconv"

// Entry is the body of a stackful fiber. The running fiber is passed in so
// the body can yield, block, or spawn siblings without a global lookup.
type Entry func(f *Fiber)

// execContext is a fiber's resumable execution state.
// Stackful fibers use *coro.Context; effect fibers use a stepping runner.
type execContext interface {
	// Resume transfers control into the fiber until it suspends or ends.
	Resume() bool
	// Suspend transfers control from inside the fiber back to the
	// scheduler. Contexts that suspend by other means treat it as a no-op.
	Suspend()
	// Release frees the context, unwinding it if suspended.
	Release()
}

// Fiber is a cooperatively scheduled unit of execution.
//
// A Fiber is created by a scheduler's Spawn and belongs to that scheduler
// for its whole life. It is Ready, Running, or Blocked until its body
// returns, after which it is Completed and its context is released.
//
// Fibers are handles: two *Fiber values are the same fiber exactly when
// the pointers are equal, and [Fiber.ID] gives a process-unique number for
// use as a map key or in logs.
//
// All methods are safe on a nil *Fiber and do nothing, which makes code
// that may run outside any fiber a no-op rather than an error.
type Fiber struct {
	id        ID
	sched     Scheduler
	ctx       execContext
	blocked   bool
	completed bool
	queued    bool
}

func newFiber(s Scheduler) *Fiber {
	return &Fiber{id: nextID(), sched: s}
}

// ID returns the fiber's process-unique identifier.
func (f *Fiber) ID() ID {
	if f == nil {
		return 0
	}
	return f.id
}

// Scheduler returns the scheduler that created the fiber.
func (f *Fiber) Scheduler() Scheduler {
	if f == nil {
		return nil
	}
	return f.sched
}

// Blocked reports whether the fiber is excluded from scheduling until
// rescheduled.
func (f *Fiber) Blocked() bool {
	return f != nil && f.blocked
}

// Completed reports whether the fiber's body has returned, or the fiber
// was released by its scheduler's Close.
func (f *Fiber) Completed() bool {
	return f != nil && f.completed
}

// Yield hands control back to the scheduler. The fiber stays ready and
// runs again after every other ready fiber has had a turn.
//
// Yield only acts when f is the fiber currently running on its scheduler.
func (f *Fiber) Yield() {
	if f == nil {
		return
	}
	f.sched.Yield(f)
}

// Block parks the fiber until something calls Schedule or Wake for it.
func (f *Fiber) Block() {
	if f == nil || f.sched.Current() != f {
		return
	}
	f.sched.Unschedule(f)
	f.sched.Yield(f)
}

// Spawn creates a sibling fiber on f's scheduler and returns it.
// Like Yield, it only acts when f is the fiber currently running on its
// scheduler; otherwise it returns nil.
func (f *Fiber) Spawn(entry Entry) *Fiber {
	if f == nil || f.sched.Current() != f {
		return nil
	}
	return f.sched.Spawn(entry)
}

// String returns "fiber#<id>".
func (f *Fiber) String() string {
	if f == nil {
		return "fiber#nil"
	}
	return "fiber#" + strconv.FormatUint(f.id, 10)
}
