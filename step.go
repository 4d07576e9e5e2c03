// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// stepAction tells the stepper what to do with a dispatched operation.
type stepAction uint8

const (
	stepContinue stepAction = iota // resume at once
	stepSuspend                    // return to the scheduler, resume on the next turn
	stepAbort                      // discard the suspension; the value is the final result
)

// stepper is the execution context of an effect fiber. It evaluates the
// computation one effect at a time with kont.StepExpr, dispatching each
// suspended operation on the fiber until one of them asks to suspend.
type stepper[R any] struct {
	f       *Fiber
	expr    kont.Expr[R]
	susp    *kont.Suspension[R]
	resume  kont.Resumed
	started bool
	done    bool

	// dispatch handles one operation; nil means fiber operations only.
	dispatch func(f *Fiber, op kont.Operation) (kont.Resumed, stepAction)
	// finish receives the final result before the fiber completes.
	finish func(R)
}

// dispatchFiber is the default dispatch: fiber operations only.
func dispatchFiber(f *Fiber, op kont.Operation) (kont.Resumed, stepAction) {
	fop, ok := op.(fiberDispatcher)
	if !ok {
		panic("fiber: unhandled effect in effect fiber")
	}
	v, suspend := fop.DispatchFiber(f)
	if suspend {
		return v, stepSuspend
	}
	return v, stepContinue
}

// Resume steps the computation until it suspends or completes.
func (r *stepper[R]) Resume() bool {
	if r.done {
		return false
	}
	var result R
	if !r.started {
		r.started = true
		expr := r.expr
		r.expr = kont.Expr[R]{}
		result, r.susp = kont.StepExpr(expr)
	} else {
		susp, v := r.susp, r.resume
		r.susp, r.resume = nil, nil
		result, r.susp = susp.Resume(v)
	}

	dispatch := r.dispatch
	if dispatch == nil {
		dispatch = dispatchFiber
	}
	for r.susp != nil {
		v, action := dispatch(r.f, r.susp.Op())
		switch action {
		case stepSuspend:
			r.resume = v
			return true
		case stepAbort:
			r.susp.Discard()
			r.susp = nil
			result = v.(R)
		default:
			susp := r.susp
			r.susp = nil
			result, r.susp = susp.Resume(v)
		}
	}

	r.done = true
	if r.finish != nil {
		r.finish(result)
	}
	r.f.completed = true
	r.f.sched.destroy(r.f)
	return false
}

// Suspend is a no-op: effect fibers suspend by performing Yield or Block.
func (r *stepper[R]) Suspend() {}

// Release discards a pending suspension. Idempotent.
func (r *stepper[R]) Release() {
	r.done = true
	r.expr = kont.Expr[R]{}
	r.resume = nil
	if r.susp != nil {
		r.susp.Discard()
		r.susp = nil
	}
}

// SpawnExpr creates an effect fiber running expr and appends it to the
// ready queue. Returns nil after Close.
//
// The computation may perform Yield, Block, Spawn and Self. Any other
// effect panics when the fiber reaches it.
func (s *SimpleScheduler) SpawnExpr(expr kont.Expr[struct{}]) *Fiber {
	return s.spawnStepper(&stepper[struct{}]{expr: expr})
}

// SpawnEff creates an effect fiber running a Cont-world computation.
// See SpawnExpr.
func (s *SimpleScheduler) SpawnEff(eff kont.Eff[struct{}]) *Fiber {
	return s.SpawnExpr(Reify(eff))
}

func (s *SimpleScheduler) spawnStepper(r interface {
	execContext
	bind(f *Fiber)
}) *Fiber {
	if s.closed.LoadAcquire() {
		return nil
	}
	f := newFiber(s)
	r.bind(f)
	f.ctx = r
	s.register(f, "effect")
	return f
}

func (r *stepper[R]) bind(f *Fiber) {
	r.f = f
}
