// VulcanizeDB
// Copyright © 2018 Vulcanize

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package core

import (
	"errors"
	"sync/atomic"
)

var ErrReentrantCall = errors.New("reentrant call")

// Guard is the single-writer critical-section flag shared by every mutating
// entry point of a component. Operations are admitted one at a time by the
// surrounding execution environment; the guard exists to reject a nested call
// back into the same component while an operation is still in flight.
type Guard struct {
	busy uint32
}

func (g *Guard) Enter() error {
	if !atomic.CompareAndSwapUint32(&g.busy, 0, 1) {
		return ErrReentrantCall
	}
	return nil
}

func (g *Guard) Exit() {
	atomic.StoreUint32(&g.busy, 0)
}
