// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// YieldThen gives up the turn and then continues with next.
// Fuses Perform(Yield{}) + Then.
func YieldThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield{}), next)
}

// BlockThen parks the fiber and continues with next once rescheduled.
// Fuses Perform(Block{}) + Then.
func BlockThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Block{}), next)
}

// SpawnBind starts a stackful fiber running entry and passes it to f.
// Fuses Perform(Spawn{Entry: entry}) + Bind.
func SpawnBind[B any](entry Entry, f func(*Fiber) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Spawn{Entry: entry}), f)
}

// SelfBind passes the running fiber to f.
// Fuses Perform(Self{}) + Bind.
func SelfBind[B any](f func(*Fiber) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Self{}), f)
}

// Done ends an effect fiber.
func Done() kont.Eff[struct{}] {
	return kont.Pure(struct{}{})
}
