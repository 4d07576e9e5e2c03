// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"code.hybscloud.com/fiber"
	"code.hybscloud.com/fiber/queue"
)

const (
	workers = 4
	jobs    = 1000
)

func main() {
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(logiface.LevelInformational),
	).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	q := queue.NewMPMC[int](64)
	s := fiber.NewSimpleScheduler(
		fiber.WithName("fiberdemo"),
		fiber.WithLogger(logger),
		fiber.WithPanicRecovery(),
	)

	sums := make([]int, workers)
	pool := make([]*fiber.Fiber, workers)
	for i := range workers {
		pool[i] = s.Spawn(func(f *fiber.Fiber) {
			for {
				v, err := q.TryPop()
				switch {
				case err == nil:
					sums[i] += v
					f.Yield()
				case queue.IsClosed(err):
					return
				default:
					f.Block()
				}
			}
		})
	}

	go func() {
		wakeAll := func() {
			for _, w := range pool {
				for fiber.IsWouldBlock(s.Wake(w)) {
					time.Sleep(time.Millisecond)
				}
			}
		}
		for j := 1; j <= jobs; j++ {
			if err := q.Push(j); err != nil {
				break
			}
			wakeAll()
		}
		q.Close()
		wakeAll()
	}()

	if err := s.Serve(ctx); err != nil {
		logger.Err().Err(err).Log("serve failed")
		os.Exit(1)
	}
	s.Close()

	total := 0
	for i, sum := range sums {
		fmt.Printf("worker %d: %d\n", i, sum)
		total += sum
	}
	fmt.Printf("total: %d (want %d)\n", total, jobs*(jobs+1)/2)

	st := s.Stats()
	logger.Info().
		Uint64("spawned", st.Spawned).
		Uint64("completed", st.Completed).
		Uint64("switches", st.Switches).
		Uint64("parked", st.Parked).
		Uint64("wakes", st.Wakes).
		Log("done")
}
