// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"code.hybscloud.com/fiber"
)

func TestRunOnceDeterminism(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	for _, name := range []string{"a", "b"} {
		s.Spawn(func(f *fiber.Fiber) {
			for i := range 3 {
				tr.add(fmt.Sprintf("%s%d", name, i))
				f.Yield()
			}
		})
	}

	for i := range 8 {
		if !s.RunOnce() {
			t.Fatalf("RunOnce %d: got false, want true", i+1)
		}
	}
	if s.RunOnce() {
		t.Fatal("RunOnce 9: got true, want false")
	}
	tr.expect(t, "a0", "b0", "a1", "b1", "a2", "b2")

	st := s.Stats()
	if st.Spawned != 2 || st.Completed != 2 || st.Switches != 8 {
		t.Fatalf("stats: got %+v", st)
	}
}

func TestRunOnceEmpty(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	if s.RunOnce() {
		t.Fatal("RunOnce on empty scheduler: got true")
	}
	s.Run()
}

func TestRoundRobinFairness(t *testing.T) {
	const (
		fibers = 5
		rounds = 4
	)
	s := fiber.NewSimpleScheduler()
	var tr trace
	for i := range fibers {
		s.Spawn(func(f *fiber.Fiber) {
			for r := range rounds {
				tr.add(fmt.Sprintf("%d.%d", i, r))
				f.Yield()
			}
		})
	}
	s.Run()

	var want []string
	for r := range rounds {
		for i := range fibers {
			want = append(want, fmt.Sprintf("%d.%d", i, r))
		}
	}
	tr.expect(t, want...)
}

func TestCurrentIdentity(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	if s.Current() != nil {
		t.Fatal("Current outside fiber: got non-nil")
	}

	var inside []*fiber.Fiber
	var spawned []*fiber.Fiber
	for range 3 {
		spawned = append(spawned, s.Spawn(func(f *fiber.Fiber) {
			first := s.Current()
			inside = append(inside, first)
			if first != f {
				t.Errorf("Current: got %v, want %v", first, f)
			}
			if f.Scheduler() != fiber.Scheduler(s) {
				t.Errorf("Scheduler: got %v, want %v", f.Scheduler(), s)
			}
			for i := range 2 {
				f.Yield()
				if got := s.Current(); got != first {
					t.Errorf("%v Current after yield %d: got %v, want %v", f, i+1, got, first)
				}
			}
		}))
	}
	s.Run()

	for i := range spawned {
		if inside[i] != spawned[i] {
			t.Fatalf("fiber %d: Current %v, Spawn returned %v", i, inside[i], spawned[i])
		}
		if !spawned[i].Completed() {
			t.Fatalf("fiber %d not completed", i)
		}
	}
	if s.Current() != nil {
		t.Fatal("Current after Run: got non-nil")
	}
}

func TestBlockAndSchedule(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	a := s.Spawn(func(f *fiber.Fiber) {
		tr.add("a-block")
		f.Block()
		tr.add("a-resumed")
	})
	s.Spawn(func(f *fiber.Fiber) {
		tr.add("b")
	})

	s.Run()
	tr.expect(t, "a-block", "b")
	if !a.Blocked() || a.Completed() {
		t.Fatalf("a: blocked=%v completed=%v, want blocked", a.Blocked(), a.Completed())
	}
	if s.Blocked() != 1 || s.Ready() != 0 {
		t.Fatalf("counts: blocked=%d ready=%d, want 1, 0", s.Blocked(), s.Ready())
	}

	s.Schedule(a)
	if a.Blocked() || s.Blocked() != 0 || s.Ready() != 1 {
		t.Fatalf("after Schedule: blocked=%v sched.Blocked=%d ready=%d", a.Blocked(), s.Blocked(), s.Ready())
	}
	s.Run()
	tr.expect(t, "a-block", "b", "a-resumed")
	if !a.Completed() {
		t.Fatal("a not completed")
	}
}

func TestUnscheduleQueuedFiber(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	var b *fiber.Fiber
	s.Spawn(func(f *fiber.Fiber) {
		tr.add("a")
		s.Unschedule(b)
	})
	b = s.Spawn(func(f *fiber.Fiber) {
		tr.add("b")
	})

	if n := runCount(s); n != 2 {
		t.Fatalf("RunOnce true count: got %d, want 2", n)
	}
	tr.expect(t, "a")
	if !b.Blocked() || s.Blocked() != 1 {
		t.Fatalf("b: blocked=%v, sched.Blocked=%d", b.Blocked(), s.Blocked())
	}
	if st := s.Stats(); st.Switches != 1 || st.Parked != 1 {
		t.Fatalf("stats: got %+v, want 1 switch, 1 parked", st)
	}

	s.Schedule(b)
	s.Run()
	tr.expect(t, "a", "b")
}

func TestScheduleNoDuplicates(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	runs := 0
	f := s.Spawn(func(f *fiber.Fiber) {
		runs++
		// Scheduling the running fiber must not enqueue it a second time.
		s.Schedule(f)
		f.Yield()
		runs++
	})
	s.Schedule(f)
	s.Schedule(f)
	if s.Ready() != 1 {
		t.Fatalf("Ready: got %d, want 1", s.Ready())
	}
	if n := runCount(s); n != 2 {
		t.Fatalf("RunOnce true count: got %d, want 2", n)
	}
	if runs != 2 {
		t.Fatalf("runs: got %d, want 2", runs)
	}

	// Completed fibers are ignored.
	s.Schedule(f)
	s.Unschedule(f)
	if s.Ready() != 0 || f.Blocked() {
		t.Fatalf("completed fiber rescheduled: ready=%d blocked=%v", s.Ready(), f.Blocked())
	}
}

func TestScheduleForeignFiberPanics(t *testing.T) {
	a := fiber.NewSimpleScheduler()
	b := fiber.NewSimpleScheduler()
	f := a.Spawn(func(*fiber.Fiber) {})
	defer func() {
		if recover() == nil {
			t.Fatal("Schedule of a foreign fiber did not panic")
		}
		a.Close()
	}()
	b.Schedule(f)
}

func TestSpawnInsideFiber(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	s.Spawn(func(f *fiber.Fiber) {
		tr.add("parent")
		child := f.Spawn(func(*fiber.Fiber) {
			tr.add("child")
		})
		if child == nil || child.Completed() {
			t.Errorf("child: got %v", child)
		}
		f.Yield()
		tr.add("parent-again")
	})
	s.Spawn(func(*fiber.Fiber) {
		tr.add("sibling")
	})

	s.Run()
	tr.expect(t, "parent", "sibling", "child", "parent-again")
}

func TestYieldOutsideFiberIsNoop(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	ran := 0
	f := s.Spawn(func(*fiber.Fiber) { ran++ })

	f.Yield()
	f.Block()
	s.Yield(f)
	if f.Blocked() {
		t.Fatal("Block outside the fiber marked it blocked")
	}
	if got := f.Spawn(func(*fiber.Fiber) { ran++ }); got != nil || s.Ready() != 1 {
		t.Fatalf("Spawn outside the fiber: got %v, ready=%d, want nil, 1", got, s.Ready())
	}
	s.Run()
	if ran != 1 {
		t.Fatalf("ran: got %d, want 1", ran)
	}
	if got := f.Spawn(func(*fiber.Fiber) { ran++ }); got != nil || s.Ready() != 0 {
		t.Fatalf("Spawn from a completed fiber: got %v, ready=%d, want nil, 0", got, s.Ready())
	}
	s.Run()
	if ran != 1 {
		t.Fatalf("ran after Run: got %d, want 1", ran)
	}
}

func TestYieldOtherFiberIsNoop(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	var b *fiber.Fiber
	s.Spawn(func(f *fiber.Fiber) {
		b.Yield()
		tr.add("a")
	})
	b = s.Spawn(func(*fiber.Fiber) {
		tr.add("b")
	})
	if n := runCount(s); n != 2 {
		t.Fatalf("RunOnce true count: got %d, want 2", n)
	}
	tr.expect(t, "a", "b")
}

func TestNilFiber(t *testing.T) {
	var f *fiber.Fiber
	f.Yield()
	f.Block()
	if got := f.Spawn(func(*fiber.Fiber) {}); got != nil {
		t.Fatalf("Spawn on nil fiber: got %v", got)
	}
	if f.ID() != 0 || f.Blocked() || f.Completed() || f.Scheduler() != nil {
		t.Fatal("nil fiber accessors returned non-zero values")
	}
	if f.String() != "fiber#nil" {
		t.Fatalf("String: got %q", f.String())
	}

	s := fiber.NewSimpleScheduler()
	s.Schedule(nil)
	s.Unschedule(nil)
	s.Yield(nil)
	if err := s.Wake(nil); err != nil {
		t.Fatalf("Wake(nil): got %v", err)
	}
}

func TestSpawnNilEntryPanics(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	defer func() {
		if recover() == nil {
			t.Fatal("Spawn(nil) did not panic")
		}
	}()
	s.Spawn(nil)
}

func TestFiberString(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	defer s.Close()
	f := s.Spawn(func(*fiber.Fiber) {})
	want := fmt.Sprintf("fiber#%d", f.ID())
	if f.String() != want {
		t.Fatalf("String: got %q, want %q", f.String(), want)
	}
}

func TestPanicPropagates(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	s.Spawn(func(*fiber.Fiber) { panic("boom") })
	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Fatalf("recover: got %v, want boom", r)
			}
		}()
		s.RunOnce()
		t.Fatal("RunOnce returned normally")
	}()
	if s.Current() != nil {
		t.Fatal("Current after panic: got non-nil")
	}
	s.Close()
}

func TestPanicRecovery(t *testing.T) {
	var got []*fiber.PanicError
	var victims []*fiber.Fiber
	s := fiber.NewSimpleScheduler(fiber.WithOnPanic(func(f *fiber.Fiber, err *fiber.PanicError) {
		victims = append(victims, f)
		got = append(got, err)
	}))

	var tr trace
	bad := s.Spawn(func(f *fiber.Fiber) {
		tr.add("bad")
		f.Yield()
		panic(fmt.Errorf("wrapped: %w", fiber.ErrClosed))
	})
	s.Spawn(func(f *fiber.Fiber) {
		tr.add("good0")
		f.Yield()
		tr.add("good1")
		f.Yield()
		tr.add("good2")
	})

	s.Run()
	tr.expect(t, "bad", "good0", "good1", "good2")
	if len(got) != 1 || victims[0] != bad {
		t.Fatalf("hook: got %d calls for %v", len(got), victims)
	}
	pe := got[0]
	if pe.Fiber != bad.ID() {
		t.Fatalf("PanicError.Fiber: got %d, want %d", pe.Fiber, bad.ID())
	}
	if pe.Stack == "" {
		t.Fatal("PanicError.Stack: empty")
	}
	if strings.Contains(pe.Stack, "RunOnce") {
		t.Fatalf("PanicError.Stack: got the scheduler's stack\n%s", pe.Stack)
	}
	if !strings.Contains(pe.Error(), "wrapped") {
		t.Fatalf("Error: got %q", pe.Error())
	}
	if !errors.Is(pe, fiber.ErrClosed) {
		t.Fatal("errors.Is: PanicError does not unwrap to the panic value")
	}
	if !bad.Completed() {
		t.Fatal("panicked fiber not completed")
	}
	if st := s.Stats(); st.Panics != 1 || st.Completed != 1 {
		t.Fatalf("stats: got %+v, want 1 panic, 1 completed", st)
	}
}

func TestPanicRecoveryWithoutHook(t *testing.T) {
	s := fiber.NewSimpleScheduler(fiber.WithPanicRecovery())
	f := s.Spawn(func(*fiber.Fiber) { panic(42) })
	s.Run()
	if !f.Completed() {
		t.Fatal("panicked fiber not completed")
	}
	pe := &fiber.PanicError{Value: 42}
	if pe.Unwrap() != nil {
		t.Fatal("Unwrap: got non-nil for a non-error value")
	}
}

func TestCloseReleasesFibers(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	ready := s.Spawn(func(f *fiber.Fiber) {
		defer tr.add("ready-deferred")
		f.Yield()
		tr.add("ready-resumed")
	})
	blocked := s.Spawn(func(f *fiber.Fiber) {
		defer tr.add("blocked-deferred")
		f.Block()
		tr.add("blocked-resumed")
	})
	fresh := s.Spawn(func(f *fiber.Fiber) {
		tr.add("fresh-ran")
	})

	// Run ready and blocked one step each; fresh is never started.
	s.RunOnce()
	s.RunOnce()
	tr.expect(t)

	s.Close()
	tr.expect(t, "ready-deferred", "blocked-deferred")
	for _, f := range []*fiber.Fiber{ready, blocked, fresh} {
		if !f.Completed() {
			t.Fatalf("%v not completed after Close", f)
		}
	}
	if s.Ready() != 0 || s.Blocked() != 0 {
		t.Fatalf("counts after Close: ready=%d blocked=%d", s.Ready(), s.Blocked())
	}
	if st := s.Stats(); st.Released != 3 || st.Completed != 0 {
		t.Fatalf("stats: got %+v, want 3 released, 0 completed", st)
	}

	if got := s.Spawn(func(*fiber.Fiber) {}); got != nil {
		t.Fatalf("Spawn after Close: got %v", got)
	}
	if err := s.Wake(ready); err != fiber.ErrClosed {
		t.Fatalf("Wake after Close: got %v, want ErrClosed", err)
	}
	if s.RunOnce() {
		t.Fatal("RunOnce after Close: got true")
	}
	s.Close()
}

func failDeep() {
	panic("deep failure")
}

func TestPanicStackShowsFiberFrames(t *testing.T) {
	var pe *fiber.PanicError
	s := fiber.NewSimpleScheduler(fiber.WithOnPanic(func(_ *fiber.Fiber, err *fiber.PanicError) {
		pe = err
	}))
	s.Spawn(func(f *fiber.Fiber) {
		f.Yield()
		failDeep()
	})
	s.Run()
	if pe == nil {
		t.Fatal("hook not called")
	}
	if !strings.Contains(pe.Stack, "failDeep") {
		t.Fatalf("PanicError.Stack: missing panic site\n%s", pe.Stack)
	}
}

func TestCloseContinuesPastPanickingDefer(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	var tr trace
	a := s.Spawn(func(f *fiber.Fiber) {
		defer func() {
			tr.add("a-deferred")
			panic("cleanup failed")
		}()
		f.Yield()
	})
	b := s.Spawn(func(f *fiber.Fiber) {
		defer tr.add("b-deferred")
		f.Yield()
	})
	s.RunOnce()
	s.RunOnce()

	func() {
		defer func() {
			if r := recover(); r != "cleanup failed" {
				t.Fatalf("Close: recovered %v, want cleanup failed", r)
			}
		}()
		s.Close()
		t.Fatal("Close returned normally")
	}()
	tr.expect(t, "a-deferred", "b-deferred")
	if !a.Completed() || !b.Completed() {
		t.Fatalf("completed after Close: a=%v b=%v", a.Completed(), b.Completed())
	}
	if s.Ready() != 0 || s.Blocked() != 0 {
		t.Fatalf("counts after Close: ready=%d blocked=%d", s.Ready(), s.Blocked())
	}
	if st := s.Stats(); st.Released != 2 {
		t.Fatalf("Released: got %d, want 2", st.Released)
	}
	// Already closed.
	s.Close()
	if st := s.Stats(); st.Released != 2 {
		t.Fatalf("Released after second Close: got %d, want 2", st.Released)
	}
}

func TestCloseReportsPanickingDefer(t *testing.T) {
	var got []*fiber.PanicError
	s := fiber.NewSimpleScheduler(fiber.WithOnPanic(func(_ *fiber.Fiber, err *fiber.PanicError) {
		got = append(got, err)
	}))
	var tr trace
	a := s.Spawn(func(f *fiber.Fiber) {
		defer func() { panic("cleanup failed") }()
		f.Block()
	})
	s.Spawn(func(f *fiber.Fiber) {
		defer tr.add("b-deferred")
		f.Yield()
	})
	s.RunOnce()
	s.RunOnce()

	s.Close()
	tr.expect(t, "b-deferred")
	if len(got) != 1 || got[0].Fiber != a.ID() || got[0].Value != "cleanup failed" {
		t.Fatalf("hook: got %v", got)
	}
	if st := s.Stats(); st.Released != 2 || st.Panics != 1 {
		t.Fatalf("stats: got %+v, want 2 released, 1 panic", st)
	}
}

func TestCloseSwallowedUnwindCountsOnce(t *testing.T) {
	s := fiber.NewSimpleScheduler()
	f := s.Spawn(func(f *fiber.Fiber) {
		defer func() { recover() }()
		f.Yield()
	})
	s.RunOnce()
	s.Close()
	if !f.Completed() {
		t.Fatal("fiber not completed after Close")
	}
	if st := s.Stats(); st.Completed != 0 || st.Released != 1 {
		t.Fatalf("stats: got %+v, want 0 completed, 1 released", st)
	}
}

func TestCloseInsideFiberPanics(t *testing.T) {
	var pe *fiber.PanicError
	s := fiber.NewSimpleScheduler(fiber.WithOnPanic(func(_ *fiber.Fiber, err *fiber.PanicError) {
		pe = err
	}))
	s.Spawn(func(*fiber.Fiber) { s.Close() })
	s.Run()
	if pe == nil {
		t.Fatal("Close inside a fiber did not panic")
	}
	if !strings.Contains(fmt.Sprint(pe.Value), "Close called from inside") {
		t.Fatalf("panic value: got %v", pe.Value)
	}
	s.Close()
}

func TestSchedulerLogging(t *testing.T) {
	var buf bytes.Buffer
	s := fiber.NewSimpleScheduler(
		fiber.WithName("logtest"),
		fiber.WithLogger(newTestLogger(&buf)),
		fiber.WithPanicRecovery(),
	)
	s.Spawn(func(f *fiber.Fiber) { f.Block() })
	s.Spawn(func(*fiber.Fiber) { panic("logged") })
	s.Spawn(func(*fiber.Fiber) {})
	s.Run()
	s.Close()

	out := buf.String()
	for _, want := range []string{
		`"scheduler":"logtest"`,
		`"msg":"fiber spawned"`,
		`"msg":"fiber blocked"`,
		`"msg":"fiber completed"`,
		`"msg":"fiber panicked"`,
		`"msg":"scheduler closed"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestExec(t *testing.T) {
	var tr trace
	st := fiber.Exec(
		func(f *fiber.Fiber) {
			tr.add("a0")
			f.Yield()
			tr.add("a1")
		},
		func(f *fiber.Fiber) {
			tr.add("b0")
			f.Block()
			tr.add("b1")
		},
	)
	tr.expect(t, "a0", "b0", "a1")
	want := fiber.Stats{Spawned: 2, Completed: 1, Switches: 3, Parked: 1, Released: 1}
	if st != want {
		t.Fatalf("stats: got %+v, want %+v", st, want)
	}
}

func TestOptionValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("WithWakeCapacity(1) did not panic")
		}
	}()
	fiber.WithWakeCapacity(1)
}
