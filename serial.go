// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fiber

import "code.hybscloud.com/atomix"

// ID is a process-wide fiber identifier. IDs increase monotonically and
// are never reused, so they stay unique after a fiber is released.
type ID = uint64

// counter is the global monotonic counter for fiber IDs.
var counter atomix.Uint64

// nextID returns the next fiber ID. The first ID is 1.
func nextID() ID {
	return counter.AddAcqRel(1)
}
