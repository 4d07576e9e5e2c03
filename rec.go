// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive fiber body (Cont-world), yielding between
// iterations so a long loop shares the scheduler with its siblings.
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return kont.Bind(kont.Perform(Yield{}), func(struct{}) kont.Eff[A] {
				return Loop(left, step)
			})
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}
