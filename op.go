// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// fiberDispatcher is implemented by every effect operation an effect fiber
// may perform. DispatchFiber returns the resumption value and whether the
// fiber must give control back to the scheduler before it is resumed.
type fiberDispatcher interface {
	DispatchFiber(f *Fiber) (v kont.Resumed, suspend bool)
}

// unit is the pre-boxed resumption value for operations returning struct{}.
var unit kont.Resumed = struct{}{}

// Yield is the effect operation for giving up the rest of the turn.
// Perform(Yield{}) suspends the fiber; it stays ready and resumes after
// every other ready fiber has run.
type Yield struct {
	kont.Phantom[struct{}]
}

// DispatchFiber suspends without changing the fiber's state.
func (Yield) DispatchFiber(*Fiber) (kont.Resumed, bool) {
	return unit, true
}

// Block is the effect operation for parking the fiber.
// Perform(Block{}) suspends the fiber until something schedules or wakes it.
type Block struct {
	kont.Phantom[struct{}]
}

// DispatchFiber unschedules the fiber and suspends.
func (Block) DispatchFiber(f *Fiber) (kont.Resumed, bool) {
	f.sched.Unschedule(f)
	return unit, true
}

// Spawn is the effect operation for starting a stackful sibling.
// Perform(Spawn{Entry: e}) resumes at once with the new *Fiber, which is
// nil if the scheduler has been closed.
type Spawn struct {
	kont.Phantom[*Fiber]
	Entry Entry
}

// DispatchFiber spawns on the fiber's scheduler. Never suspends.
func (s Spawn) DispatchFiber(f *Fiber) (kont.Resumed, bool) {
	return f.sched.Spawn(s.Entry), false
}

// Self is the effect operation for obtaining the running fiber.
// Perform(Self{}) resumes at once with the *Fiber executing the computation.
type Self struct {
	kont.Phantom[*Fiber]
}

// DispatchFiber resumes with f. Never suspends.
func (Self) DispatchFiber(f *Fiber) (kont.Resumed, bool) {
	return f, false
}
