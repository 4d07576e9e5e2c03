// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queue

// ClosedPolicy selects what Push does with an element offered after Close.
type ClosedPolicy int

const (
	// FailOnClosed refuses the element and returns ErrClosed.
	FailOnClosed ClosedPolicy = iota

	// DropOnClosed discards the element and returns nil.
	DropOnClosed
)

// String returns the policy name.
func (p ClosedPolicy) String() string {
	switch p {
	case FailOnClosed:
		return "fail"
	case DropOnClosed:
		return "drop"
	default:
		return "unknown"
	}
}

type config struct {
	closedPolicy ClosedPolicy
}

// Option configures an [MPMC] queue.
type Option func(*config)

func defaultConfig() config {
	return config{closedPolicy: FailOnClosed}
}

// WithClosedPolicy sets how Push treats elements offered after Close.
// It panics if p is not a known ClosedPolicy value.
func WithClosedPolicy(p ClosedPolicy) Option {
	return func(c *config) {
		switch p {
		case FailOnClosed, DropOnClosed:
			c.closedPolicy = p
		default:
			panic("queue: invalid closed policy")
		}
	}
}
