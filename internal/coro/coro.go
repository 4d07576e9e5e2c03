// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coro provides the execution-context primitive behind stackful
// fibers: a context owns its own stack, is entered with Resume and left
// with Suspend.
//
// Contexts are built on [iter.Pull], which switches goroutine stacks
// directly in the runtime without going through the Go scheduler. This is
// the only package that creates or switches stacks.
package coro

import (
	"iter"
	"runtime"
)

// errReleased unwinds a suspended context whose owner called Release.
type errReleased struct{}

// Context is a resumable execution context with its own stack.
//
// Resume and Release are called by the owner; Suspend is called from the
// context's own entry function. A Context is not safe for concurrent use.
type Context struct {
	next     func() (struct{}, bool)
	stop     func()
	yield    func(struct{}) bool
	stack    string
	done     bool
	running  bool
	released bool
}

// New allocates a context bound to entry. Nothing runs until the first
// Resume.
func New(entry func()) *Context {
	c := &Context{}
	c.next, c.stop = iter.Pull(func(yield func(struct{}) bool) {
		c.yield = yield
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, ok := r.(errReleased); ok {
				return
			}
			// Deferred calls run on the panicking stack, so the trace
			// still shows where the entry function panicked.
			buf := make([]byte, 8192)
			n := runtime.Stack(buf, false)
			c.stack = string(buf[:n])
			panic(r)
		}()
		entry()
	})
	return c
}

// Resume transfers control into the context. It returns true when the
// context suspended and false when its entry function returned.
// A panic in the entry function propagates out of Resume.
func (c *Context) Resume() bool {
	if c.done {
		return false
	}
	c.running = true
	defer func() {
		c.running = false
	}()
	_, ok := c.next()
	if !ok {
		c.done = true
	}
	return ok
}

// Suspend transfers control from inside the context back to the caller of
// Resume. It returns when the context is resumed again. If the context is
// released while suspended, Suspend does not return: the entry function is
// unwound, running its deferred calls.
func (c *Context) Suspend() {
	if !c.running {
		return
	}
	c.running = false
	if !c.yield(struct{}{}) {
		panic(errReleased{})
	}
	c.running = true
}

// Release frees the context. A suspended context is unwound before
// Release returns. Release is idempotent.
//
// A panic raised by a deferred call during unwinding propagates out of
// Release; the context is released all the same.
func (c *Context) Release() {
	if c.stop == nil {
		return
	}
	stop := c.stop
	c.stop, c.next = nil, nil
	c.done = true
	c.released = true
	stop()
}

// Released reports whether Release has been called. An entry function that
// recovers the unwinding panic and returns can check it to tell a release
// from a normal return.
func (c *Context) Released() bool {
	return c.released
}

// PanicStack returns the stack trace captured where the entry function
// panicked, or "" if it has not panicked.
func (c *Context) PanicStack() string {
	return c.stack
}

// Done reports whether the entry function has returned or the context has
// been released.
func (c *Context) Done() bool {
	return c.done
}

// Running reports whether control is currently inside the context.
func (c *Context) Running() bool {
	return c.running
}
