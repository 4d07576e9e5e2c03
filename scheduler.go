// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
	"github.com/joeycumines/logiface"

	"code.hybscloud.com/fiber/internal/coro"
	"code.hybscloud.com/fiber/queue"
)

// Scheduler decides which ready fiber runs next and drives the run loop.
//
// The unexported destroy method keeps the contract closed to this package:
// fibers and their schedulers cooperate through state only they share.
type Scheduler interface {
	// Spawn creates a fiber running entry and makes it ready.
	Spawn(entry Entry) *Fiber
	// Schedule makes f ready, clearing its blocked state.
	Schedule(f *Fiber)
	// Unschedule marks f blocked. A blocked fiber is not resumed until
	// it is scheduled again.
	Unschedule(f *Fiber)
	// Yield transfers control from the running fiber f back to the
	// scheduler without changing its state.
	Yield(f *Fiber)
	// RunOnce runs one step of the loop. It returns false when no fiber
	// is ready.
	RunOnce() bool
	// Run calls RunOnce until it returns false.
	Run()
	// Current returns the fiber running on this scheduler, or nil when
	// called outside any fiber.
	Current() *Fiber

	// destroy is called from inside f once its body has returned. It is
	// the fiber's last act before control returns to the scheduler.
	destroy(f *Fiber)
}

// SimpleScheduler is a single-goroutine round-robin [Scheduler].
//
// Ready fibers are kept in a FIFO ring; a fiber that yields goes to the
// back, so each ready fiber gets one turn before any fiber gets a second.
// Blocked fibers are held aside until Schedule or Wake makes them ready.
//
// A SimpleScheduler is driven by one goroutine at a time: Spawn, Schedule,
// Unschedule, RunOnce, Run, Serve and Close must not be called
// concurrently. Wake and Stats may be called from any goroutine. Several
// schedulers may run in parallel on different goroutines.
type SimpleScheduler struct {
	cfg     config
	log     *logiface.Logger[logiface.Event]
	ready   queue.Ring[*Fiber]
	blocked map[ID]*Fiber
	current *Fiber
	wakeQ   *lfq.MPSC[*Fiber]
	closed  atomix.Bool
	stats   counters
}

var _ Scheduler = (*SimpleScheduler)(nil)

// NewSimpleScheduler creates an empty scheduler.
func NewSimpleScheduler(opts ...Option) *SimpleScheduler {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &SimpleScheduler{
		cfg:     cfg,
		log:     cfg.logger,
		blocked: make(map[ID]*Fiber),
		wakeQ:   lfq.NewMPSC[*Fiber](cfg.wakeCapacity),
	}
}

// Spawn creates a stackful fiber running entry and appends it to the
// ready queue. Returns nil after Close.
//
// Spawn may be called from inside a running fiber; the new fiber runs
// after every fiber already ready.
func (s *SimpleScheduler) Spawn(entry Entry) *Fiber {
	if entry == nil {
		panic("fiber: nil entry")
	}
	if s.closed.LoadAcquire() {
		return nil
	}
	f := newFiber(s)
	var c *coro.Context
	c = coro.New(func() {
		entry(f)
		if c.Released() {
			return
		}
		f.completed = true
		s.destroy(f)
	})
	f.ctx = c
	s.register(f, "stack")
	return f
}

// register counts a newly built fiber and makes it ready.
func (s *SimpleScheduler) register(f *Fiber, kind string) {
	s.stats.spawned.AddAcqRel(1)
	s.log.Debug().
		Str("scheduler", s.cfg.name).
		Uint64("fiber", f.id).
		Str("kind", kind).
		Log("fiber spawned")
	s.Schedule(f)
}

// Schedule makes f ready. It clears the blocked flag and, unless f is
// already queued or is the fiber currently running, appends f to the
// ready queue. Scheduling a completed fiber does nothing.
//
// Schedule is how external logic reactivates a blocked fiber from the
// scheduler's own goroutine; other goroutines use [SimpleScheduler.Wake].
func (s *SimpleScheduler) Schedule(f *Fiber) {
	if f == nil || f.completed {
		return
	}
	if f.sched != Scheduler(s) {
		panic("fiber: " + f.String() + " belongs to another scheduler")
	}
	f.blocked = false
	delete(s.blocked, f.id)
	if f.queued || f == s.current {
		return
	}
	f.queued = true
	s.ready.Push(f)
}

// Unschedule marks f blocked. It does not touch the ready queue: the run
// loop sees the flag when it next reaches f and parks it instead of
// resuming it. A running fiber that unschedules itself is parked once it
// yields.
func (s *SimpleScheduler) Unschedule(f *Fiber) {
	if f == nil || f.completed {
		return
	}
	f.blocked = true
}

// Yield transfers control from f back to the run loop. It does nothing
// unless f is the fiber currently running on s.
func (s *SimpleScheduler) Yield(f *Fiber) {
	if f == nil || f != s.current {
		return
	}
	f.ctx.Suspend()
}

// destroy records f's completion. Returning from the fiber's context right
// after it is what hands control back to RunOnce for the last time.
func (s *SimpleScheduler) destroy(f *Fiber) {
	s.stats.completed.AddAcqRel(1)
	s.log.Debug().
		Str("scheduler", s.cfg.name).
		Uint64("fiber", f.id).
		Log("fiber completed")
}

// Current returns the fiber running on s, or nil between fibers.
func (s *SimpleScheduler) Current() *Fiber {
	return s.current
}

// RunOnce runs one step of the round-robin loop and reports whether a
// fiber was taken from the ready queue.
//
// Pending Wake requests are applied first. Then the head of the ready
// queue is popped: a fiber that was unschedule'd while waiting is parked
// without running; otherwise control transfers into it until it yields,
// blocks, or completes. A completed fiber is released, a blocked one is
// parked, and any other goes to the back of the ready queue.
func (s *SimpleScheduler) RunOnce() bool {
	s.applyWakes()
	f, ok := s.ready.Pop()
	if !ok {
		return false
	}
	f.queued = false
	if f.blocked {
		s.park(f)
		return true
	}

	s.transfer(f)

	switch {
	case f.completed:
		f.ctx.Release()
	case f.blocked:
		s.park(f)
	default:
		f.queued = true
		s.ready.Push(f)
	}
	return true
}

// transfer runs f until it gives control back. The current-fiber slot is
// set only for the duration of the switch.
func (s *SimpleScheduler) transfer(f *Fiber) {
	s.current = f
	defer func() {
		s.current = nil
	}()
	if s.cfg.recoverPanics {
		defer s.recoverFiber(f)
	}
	s.stats.switches.AddAcqRel(1)
	f.ctx.Resume()
}

func (s *SimpleScheduler) recoverFiber(f *Fiber) {
	r := recover()
	if r == nil {
		return
	}
	f.completed = true
	f.blocked = false
	s.reportPanic(f, r)
}

// panicStacker is implemented by contexts that run on their own stack and
// capture the trace where they panicked.
type panicStacker interface {
	PanicStack() string
}

// reportPanic counts, logs, and hands a recovered fiber panic to the hook.
func (s *SimpleScheduler) reportPanic(f *Fiber, r any) {
	var stack string
	if ps, ok := f.ctx.(panicStacker); ok {
		stack = ps.PanicStack()
	}
	pe := newPanicError(f.id, r, stack)
	s.stats.panics.AddAcqRel(1)
	s.log.Err().
		Str("scheduler", s.cfg.name).
		Uint64("fiber", f.id).
		Any("panic", r).
		Log("fiber panicked")
	if s.cfg.onPanic != nil {
		s.cfg.onPanic(f, pe)
	}
}

func (s *SimpleScheduler) park(f *Fiber) {
	s.blocked[f.id] = f
	s.stats.parked.AddAcqRel(1)
	s.log.Debug().
		Str("scheduler", s.cfg.name).
		Uint64("fiber", f.id).
		Log("fiber blocked")
}

// Run calls RunOnce until no fiber is ready. Blocked fibers are left
// parked; Run does not wait for them to be woken (see Serve).
func (s *SimpleScheduler) Run() {
	for s.RunOnce() {
	}
}

// Ready returns the number of fibers in the ready queue.
func (s *SimpleScheduler) Ready() int {
	return s.ready.Len()
}

// Blocked returns the number of parked fibers.
func (s *SimpleScheduler) Blocked() int {
	return len(s.blocked)
}

// Close releases every ready and blocked fiber, unwinding suspended
// stacks so their deferred calls run, and makes later Spawn calls return
// nil and Wake calls return ErrClosed. Close is idempotent and must not be
// called from inside a fiber.
//
// A deferred call that panics while its fiber is unwound does not stop the
// teardown: every fiber is released first. With WithPanicRecovery such
// panics are reported like any other fiber panic; otherwise Close re-raises
// the first one once it is done.
func (s *SimpleScheduler) Close() {
	if s.current != nil {
		panic("fiber: Close called from inside " + s.current.String())
	}
	if s.closed.LoadAcquire() {
		return
	}
	s.closed.StoreRelease(true)
	s.wakeQ.Drain()
	for {
		if _, err := s.wakeQ.Dequeue(); err != nil {
			break
		}
	}

	var first any
	released := 0
	teardown := func(f *Fiber) {
		released++
		r := s.release(f)
		if r == nil {
			return
		}
		if s.cfg.recoverPanics {
			s.reportPanic(f, r)
		} else if first == nil {
			first = r
		}
	}
	for {
		f, ok := s.ready.Pop()
		if !ok {
			break
		}
		f.queued = false
		teardown(f)
	}
	for id, f := range s.blocked {
		delete(s.blocked, id)
		teardown(f)
	}
	s.log.Info().
		Str("scheduler", s.cfg.name).
		Int("released", released).
		Log("scheduler closed")
	if first != nil {
		panic(first)
	}
}

// release tears down a fiber that never completed and returns the value of
// any panic raised while its context unwound.
func (s *SimpleScheduler) release(f *Fiber) (r any) {
	f.completed = true
	f.blocked = false
	s.stats.released.AddAcqRel(1)
	defer func() {
		r = recover()
	}()
	f.ctx.Release()
	return nil
}
