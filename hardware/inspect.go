// This file is part of Amity.
//
// Amity is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Amity is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Amity.  If not, see <https://www.gnu.org/licenses/>.

package hardware

import (
	"sync"

	"github.com/amityemu/amity/hardware/beam"
	"github.com/amityemu/amity/hardware/clocks"
)

// Info is the stable inspection snapshot published by the run loop when
// the INSPECT control flag is serviced. The host reads it without touching
// live chip state.
type Info struct {
	Frame     int64
	Beam      beam.Position
	LongFrame bool

	PC    uint32
	Clock clocks.Cycle

	// lifetime counters
	BusStalls  int64
	FrameSwaps int64
	Dropped    int
}

// the lock guards the published Info value only. it is a field of its own
// rather than part of ctrl because the inspection path and the control
// word have different readers.
type inspection struct {
	lock sync.Mutex
	info Info
}

// publishInfo refreshes the inspection snapshot. Runs on the emulation
// goroutine between instructions.
func (amg *Amiga) publishInfo() {
	amg.inspect.lock.Lock()
	amg.inspect.info = Info{
		Frame:      amg.Agnus.Frame(),
		Beam:       amg.Agnus.Pos(),
		LongFrame:  amg.Agnus.LongFrame(),
		PC:         amg.CPU.PC(),
		Clock:      amg.CPU.Clock(),
		BusStalls:  amg.Agnus.BusStalls,
		FrameSwaps: amg.Denise.Pixels.Swaps(),
		Dropped:    amg.Msg.Dropped(),
	}
	amg.inspect.lock.Unlock()
}

// Inspection returns the most recently published inspection snapshot. Set
// the INSPECT control flag to request a refresh.
func (amg *Amiga) Inspection() Info {
	amg.inspect.lock.Lock()
	defer amg.inspect.lock.Unlock()
	return amg.inspect.info
}
