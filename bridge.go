// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// An effect fiber body has two interchangeable forms. The Cont-world form
// (kont.Eff) is built with Bind, Then, YieldThen, SelfBind and the other
// Cont-world constructors, and reads like ordinary sequential code. The
// Expr-world form (kont.Expr) is a defunctionalized frame chain: it is what
// the scheduler steps one effect at a time, so every yield, block and spawn
// of an effect fiber is a suspension in an Expr. Reify and Reflect convert
// between the two without changing which operations the fiber performs or
// where it gives control back to the scheduler.

// Reify turns a Cont-world fiber body into the Expr-world form that
// SpawnExpr runs. SpawnEff is SpawnExpr composed with Reify; call Reify
// directly to hold a body built with Bind and Then as a value and spawn it
// later, or to splice it into an Expr-world body.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect turns an Expr-world fiber body, such as one built with ExprYieldThen
// or ExprBlockThen, into Cont-world so it can be sequenced with Bind and
// Then inside a SpawnEff body. The reflected body suspends at the same
// points as the original, so a fiber that runs it yields to its siblings
// exactly where the Expr body would.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}
