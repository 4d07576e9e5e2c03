// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/kont"
)

// Exec spawns one stackful fiber per entry on a fresh SimpleScheduler,
// runs until no fiber is ready, closes the scheduler, and returns its
// final counters. Fibers still blocked when the run ends are released.
func Exec(entries ...Entry) Stats {
	s := NewSimpleScheduler()
	for _, e := range entries {
		s.Spawn(e)
	}
	s.Run()
	s.Close()
	return s.Stats()
}

// ExecEff is Exec for effect fibers.
func ExecEff(effs ...kont.Eff[struct{}]) Stats {
	s := NewSimpleScheduler()
	for _, eff := range effs {
		s.SpawnEff(eff)
	}
	s.Run()
	s.Close()
	return s.Stats()
}
