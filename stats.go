// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"code.hybscloud.com/atomix"
)

// Stats is a point-in-time snapshot of a scheduler's counters.
type Stats struct {
	Spawned   uint64 // fibers created
	Completed uint64 // fibers whose body returned
	Switches  uint64 // transfers into a fiber
	Parked    uint64 // times a fiber entered the blocked set
	Wakes     uint64 // accepted Wake requests
	Panics    uint64 // recovered fiber panics
	Released  uint64 // unfinished fibers torn down by Close
}

type counters struct {
	spawned   atomix.Uint64
	completed atomix.Uint64
	switches  atomix.Uint64
	parked    atomix.Uint64
	wakes     atomix.Uint64
	panics    atomix.Uint64
	released  atomix.Uint64
}

// Stats returns a snapshot of the scheduler's counters. Safe to call from
// any goroutine; fields are loaded one by one, so a snapshot taken while
// the scheduler runs need not be mutually consistent.
func (s *SimpleScheduler) Stats() Stats {
	c := &s.stats
	return Stats{
		Spawned:   c.spawned.LoadAcquire(),
		Completed: c.completed.LoadAcquire(),
		Switches:  c.switches.LoadAcquire(),
		Parked:    c.parked.LoadAcquire(),
		Wakes:     c.wakes.LoadAcquire(),
		Panics:    c.panics.LoadAcquire(),
		Released:  c.released.LoadAcquire(),
	}
}
