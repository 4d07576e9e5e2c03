// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber_test

import (
	"io"
	"slices"
	"testing"

	"code.hybscloud.com/kont"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"code.hybscloud.com/fiber"
)

// trace records the order in which fibers take their steps.
type trace []string

func (tr *trace) add(s string) { *tr = append(*tr, s) }

// expect fails t unless the recorded steps equal want.
func (tr *trace) expect(t *testing.T, want ...string) {
	t.Helper()
	if !slices.Equal(*tr, want) {
		t.Fatalf("trace: got %v, want %v", *tr, want)
	}
}

// record is an effect that appends s to tr when the fiber reaches it.
func record(tr *trace, s string) kont.Eff[struct{}] {
	return fiber.SelfBind(func(*fiber.Fiber) kont.Eff[struct{}] {
		tr.add(s)
		return kont.Pure(struct{}{})
	})
}

// exprRecord is the Expr-world form of record.
func exprRecord(tr *trace, s string, next kont.Expr[struct{}]) kont.Expr[struct{}] {
	return fiber.ExprSelfBind(func(*fiber.Fiber) kont.Expr[struct{}] {
		tr.add(s)
		return next
	})
}

// runCount calls RunOnce until it returns false and returns how many
// calls returned true.
func runCount(s *fiber.SimpleScheduler) int {
	n := 0
	for s.RunOnce() {
		n++
	}
	return n
}

func newTestLogger(w io.Writer) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()
}
