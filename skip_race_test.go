// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package fiber_test

import "testing"

// skipRace skips tests that call Wake from another goroutine.
// The wake queue is an lfq MPSC ring: the race detector tracks
// per-variable happens-before and cannot see its cross-variable memory
// ordering (store-release on the slot cycle, plain store on the data),
// producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: wake queue uses cross-variable memory ordering")
}
