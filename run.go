// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"context"

	"code.hybscloud.com/iox"
)

// Wake asks the scheduler to make f ready. Unlike Schedule it is safe to
// call from any goroutine: the request goes through a lock-free queue and
// takes effect at the start of the scheduler's next RunOnce.
//
// Returns ErrWouldBlock when the wake queue is full (see
// WithWakeCapacity) and ErrClosed after Close. Waking a nil fiber does
// nothing. Waking a fiber that is not blocked is harmless.
func (s *SimpleScheduler) Wake(f *Fiber) error {
	if f == nil {
		return nil
	}
	if f.sched != Scheduler(s) {
		panic("fiber: " + f.String() + " belongs to another scheduler")
	}
	if s.closed.LoadAcquire() {
		return ErrClosed
	}
	if err := s.wakeQ.Enqueue(&f); err != nil {
		return err
	}
	s.stats.wakes.AddAcqRel(1)
	return nil
}

// applyWakes schedules every fiber woken since the last step.
func (s *SimpleScheduler) applyWakes() {
	for {
		f, err := s.wakeQ.Dequeue()
		if err != nil {
			return
		}
		s.Schedule(f)
	}
}

// Serve runs the scheduler until ctx is done or no fiber remains.
//
// Unlike Run, Serve keeps going while every remaining fiber is blocked,
// waiting with adaptive backoff (iox.Backoff) for a Wake from another
// goroutine. It returns nil once every fiber has completed, ctx.Err() when
// ctx is done, and ErrClosed if the scheduler is closed.
func (s *SimpleScheduler) Serve(ctx context.Context) error {
	var bo iox.Backoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.closed.LoadAcquire() {
			return ErrClosed
		}
		if s.RunOnce() {
			bo.Reset()
			continue
		}
		if len(s.blocked) == 0 {
			return nil
		}
		bo.Wait()
	}
}
