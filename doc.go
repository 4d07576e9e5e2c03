// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fiber provides cooperatively scheduled fibers that run on a
// single goroutine without preemption.
//
// A fiber runs until it yields, blocks, or returns. The scheduler then
// resumes the next ready fiber in FIFO order, so ready fibers take turns
// in strict round robin.
//
// # Architecture
//
//   - Stackful fibers: [SimpleScheduler.Spawn] runs an [Entry] on its own
//     execution context. The body calls [Fiber.Yield] or [Fiber.Block] at any
//     call depth.
//   - Effect fibers: [SimpleScheduler.SpawnEff] and [SimpleScheduler.SpawnExpr]
//     run a [code.hybscloud.com/kont] computation that performs [Yield],
//     [Block], [Spawn] and [Self]. They are stepped one effect at a time on the
//     scheduler's goroutine, with no context of their own.
//   - Cross-goroutine wake: [SimpleScheduler.Wake] hands a blocked fiber back
//     through a lock-free MPSC queue from [code.hybscloud.com/lfq]. It returns
//     [ErrWouldBlock] when the queue is full.
//   - Queues: package [code.hybscloud.com/fiber/queue] provides the ready
//     ring and a blocking MPMC queue for moving values between goroutines.
//
// # API Topologies
//
//   - Scheduling: [SimpleScheduler.RunOnce], [SimpleScheduler.Run],
//     [SimpleScheduler.Serve], [SimpleScheduler.Close].
//   - Cont-world: [YieldThen], [BlockThen], [SpawnBind], [SelfBind], [Done], [Loop].
//   - Expr-world: [ExprYieldThen], [ExprBlockThen], [ExprSpawnBind],
//     [ExprSelfBind], [ExprDone]. Bridge via [Reify] and [Reflect].
//   - Errors: [SpawnEffError] runs computations that use kont's Error effect.
//   - One-shot: [Exec] and [ExecEff] run fibers to completion on a fresh scheduler.
//
// # Example
//
//	s := fiber.NewSimpleScheduler()
//	for _, name := range []string{"a", "b"} {
//		s.Spawn(func(f *fiber.Fiber) {
//			for i := range 3 {
//				fmt.Println(name, i)
//				f.Yield()
//			}
//		})
//	}
//	s.Run() // a 0, b 0, a 1, b 1, a 2, b 2
//
// A SimpleScheduler is owned by one goroutine at a time. Only Wake and
// Stats may be called from elsewhere.
package fiber
