// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import "github.com/joeycumines/logiface"

// defaultWakeCapacity bounds pending cross-goroutine wake requests.
const defaultWakeCapacity = 1024

type config struct {
	name          string
	logger        *logiface.Logger[logiface.Event]
	wakeCapacity  int
	recoverPanics bool
	onPanic       func(f *Fiber, err *PanicError)
}

// Option configures a [SimpleScheduler].
type Option func(*config)

func defaultConfig() config {
	return config{
		wakeCapacity: defaultWakeCapacity,
	}
}

// WithName labels the scheduler in log events.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets the structured logger. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithWakeCapacity sets how many [SimpleScheduler.Wake] requests may be
// pending between two scheduler steps. Capacity rounds up to the next
// power of 2. It panics if n < 2.
func WithWakeCapacity(n int) Option {
	if n < 2 {
		panic("fiber: wake capacity must be >= 2")
	}
	return func(c *config) {
		c.wakeCapacity = n
	}
}

// WithPanicRecovery makes RunOnce recover panics raised by fibers. The
// panicking fiber is treated as completed, the panic is logged, and the
// [WithOnPanic] hook, if any, receives it as a [*PanicError].
//
// Without this option a fiber panic propagates out of RunOnce.
func WithPanicRecovery() Option {
	return func(c *config) {
		c.recoverPanics = true
	}
}

// WithOnPanic registers a hook invoked on the scheduler's goroutine for
// every recovered fiber panic. It implies [WithPanicRecovery].
func WithOnPanic(fn func(f *Fiber, err *PanicError)) Option {
	return func(c *config) {
		c.recoverPanics = true
		c.onPanic = fn
	}
}
