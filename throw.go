// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// errorDispatcher is implemented by kont's Error effect operations.
type errorDispatcher[E any] interface {
	DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
}

// SpawnEffError creates an effect fiber whose computation may also use
// kont's Error effect (ThrowError, CatchError) with error type E.
//
// A throw that escapes the computation ends the fiber: the pending
// continuation is discarded, onErr receives the error on the scheduler's
// goroutine, and the fiber completes normally. onErr may be nil.
// Returns nil after Close.
func SpawnEffError[E any](s *SimpleScheduler, eff kont.Eff[struct{}], onErr func(E)) *Fiber {
	return SpawnExprError(s, Reify(eff), onErr)
}

// SpawnExprError is the Expr-world form of SpawnEffError.
func SpawnExprError[E any](s *SimpleScheduler, expr kont.Expr[struct{}], onErr func(E)) *Fiber {
	wrapped := kont.ExprMap(expr, func(r struct{}) kont.Either[E, struct{}] {
		return kont.Right[E, struct{}](r)
	})
	r := &stepper[kont.Either[E, struct{}]]{
		expr:     wrapped,
		dispatch: dispatchFiberError[E],
		finish: func(e kont.Either[E, struct{}]) {
			if err, ok := e.GetLeft(); ok && onErr != nil {
				onErr(err)
			}
		},
	}
	return s.spawnStepper(r)
}

// dispatchFiberError dispatches fiber operations first, then Error
// operations. A thrown error aborts with Left(err).
func dispatchFiberError[E any](f *Fiber, op kont.Operation) (kont.Resumed, stepAction) {
	if _, ok := op.(fiberDispatcher); ok {
		return dispatchFiber(f, op)
	}
	if eop, ok := op.(errorDispatcher[E]); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			return kont.Left[E, struct{}](ctx.Err), stepAbort
		}
		return v, stepContinue
	}
	panic("fiber: unhandled effect in effect fiber")
}
