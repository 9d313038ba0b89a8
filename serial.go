// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing task identifier, unique within
// one [Runtime].
type Serial = uint32

// serials is a runtime-scoped monotonic counter.
// Every task created by a runtime draws from its runtime's counter.
type serials struct {
	counter atomix.Uint32
}

// next returns the next monotonically increasing serial.
func (s *serials) next() Serial {
	return s.counter.Add(1)
}
