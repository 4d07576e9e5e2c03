// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed.
//
// For TryPush: the queue is full.
// For TryPop: the queue is empty.
//
// It is a control flow signal, not a failure. This is an alias for
// [iox.ErrWouldBlock] so callers can share retry loops with lfq queues.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosed is returned by Push after Close, and by Pop once the queue is
// closed and no buffered elements remain.
var ErrClosed = errors.New("queue: closed")

// IsWouldBlock reports whether err indicates the operation would block.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsClosed reports whether err is or wraps ErrClosed.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}
