// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import (
	"errors"
	"fmt"
	"runtime"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates [SimpleScheduler.Wake] could not enqueue the
// wake request because the wake queue is full. The caller should retry
// later, typically with iox.Backoff.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosed is returned by operations on a scheduler after Close.
var ErrClosed = errors.New("fiber: scheduler closed")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// PanicError wraps a value recovered from a panicking fiber together with
// the stack trace captured at the point of recovery.
//
// Schedulers built with [WithPanicRecovery] pass a *PanicError to the
// [WithOnPanic] hook instead of letting the panic escape RunOnce.
type PanicError struct {
	// Fiber is the ID of the fiber that panicked.
	Fiber ID

	// Value is the original value passed to panic().
	Value any

	// Stack is the stack trace of the fiber at the point of the panic.
	Stack string
}

// Error returns the panic value and the fiber that raised it.
func (e *PanicError) Error() string {
	return fmt.Sprintf("fiber %d panic: %v\n\n%s", e.Fiber, e.Value, e.Stack)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// newPanicError wraps v. An empty stack is captured here, which is only
// accurate when called from a deferred recover on the panicking goroutine.
func newPanicError(id ID, v any, stack string) *PanicError {
	if stack == "" {
		// 8 KiB is enough for most stack traces; runtime.Stack truncates.
		buf := make([]byte, 8192)
		n := runtime.Stack(buf, false)
		stack = string(buf[:n])
	}
	return &PanicError{
		Fiber: id,
		Value: v,
		Stack: stack,
	}
}
