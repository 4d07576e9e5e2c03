// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// Pre-boxed operations and frames for Expr-world construction.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprYield       kont.Erased = Yield{}
	exprBlock       kont.Erased = Block{}
	exprSelf        kont.Erased = Self{}
)

func identityResume(v kont.Erased) kont.Erased { return v }

// exprThen suspends on op and continues with next.
func exprThen[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprYieldThen gives up the turn and then continues with next.
// Fuses ExprPerform(Yield{}) + ExprThen.
func ExprYieldThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprThen(exprYield, next)
}

// ExprBlockThen parks the fiber and continues with next once rescheduled.
// Fuses ExprPerform(Block{}) + ExprThen.
func ExprBlockThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprThen(exprBlock, next)
}

func fiberBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(*Fiber) kont.Expr[B])
	result := f(current.(*Fiber))
	return kont.Erased(result.Value), result.Frame
}

// exprFiberBind suspends on op, which resumes with a *Fiber, and passes
// the fiber to f.
func exprFiberBind[B any](op kont.Erased, f func(*Fiber) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = fiberBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprSelfBind passes the running fiber to f.
// Fuses ExprPerform(Self{}) + ExprBind.
func ExprSelfBind[B any](f func(*Fiber) kont.Expr[B]) kont.Expr[B] {
	return exprFiberBind(exprSelf, f)
}

// ExprSpawnBind starts a stackful fiber running entry and passes it to f.
// Fuses ExprPerform(Spawn{Entry: entry}) + ExprBind.
func ExprSpawnBind[B any](entry Entry, f func(*Fiber) kont.Expr[B]) kont.Expr[B] {
	return exprFiberBind(Spawn{Entry: entry}, f)
}

// ExprDone ends an effect fiber.
func ExprDone() kont.Expr[struct{}] {
	return kont.ExprReturn(struct{}{})
}
