// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queue provides the FIFO containers used by the fiber runtime.
//
//   - [Ring]: an unbounded, growable, single-threaded ring buffer. The
//     scheduler keeps its ready fibers in one.
//   - [MPMC]: a bounded, blocking multi-producer multi-consumer queue built
//     on one mutex and three condition variables. It is the handoff between
//     goroutines, for example a background producer feeding a goroutine that
//     drives a scheduler.
//
// # Blocking and Close
//
//	q := queue.NewMPMC[Job](64)
//
//	go func() {
//	    for j := range jobs {
//	        if err := q.Push(j); err != nil {
//	            return // queue.ErrClosed
//	        }
//	    }
//	}()
//
//	for {
//	    j, err := q.Pop()
//	    if err != nil {
//	        break // closed and empty
//	    }
//	    j.Run()
//	}
//
// Push blocks only while the queue is full and Pop only while it is empty.
// [MPMC.Close] refuses further pushes and releases blocked producers;
// [MPMC.Drain] closes and then waits until consumers have emptied the
// buffer.
//
// What Push does after Close is a [ClosedPolicy]: [FailOnClosed] (default)
// returns [ErrClosed], [DropOnClosed] discards silently.
//
// # Non-blocking Variants
//
// [MPMC.TryPush] and [MPMC.TryPop] return [ErrWouldBlock], an alias of
// [code.hybscloud.com/iox.ErrWouldBlock], so they compose with iox.Backoff
// retry loops the same way lfq queues do.
package queue
