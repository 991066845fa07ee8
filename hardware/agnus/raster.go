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

package agnus

import (
	"github.com/amityemu/amity/hardware/beam"
)

// serveRasterEvent is the handler for the primary RAS slot.
func (ag *Agnus) serveRasterEvent(id EventID, _ int64) {
	switch id {
	case RasHsync:
		ag.hsyncActions()
	}
}

// hsyncActions runs at the end of every raster line: apply the bitplane
// modulos, advance the beam, run the end-of-frame tasks when the line count
// wraps, and rebuild the DMA slot allocation for the new line.
func (ag *Agnus) hsyncActions() {
	if ag.bplLineActive {
		ag.applyBitplaneModulos()
	}

	endedLine := int((ag.Sched.Clock-ag.frameStart)/beam.MasterCyclesPerLine) - 1

	if endedLine+1 >= ag.linesInFrame() {
		ag.vsyncActions()
	} else {
		ag.pos = beam.Position{V: endedLine + 1, H: 0}
	}

	if ag.OnHSync != nil {
		ag.OnHSync(ag.pos.V)
	}

	ag.updateDMAEventTable()
	ag.scheduleNextDMAEvent(0)
	ag.Sched.ScheduleRel(SlotRAS, beam.MasterCyclesPerLine, RasHsync)
}

// vsyncActions runs at the end of every frame: advance the frame counter,
// toggle the long-frame flip-flop in interlace mode and notify the frame
// observers.
func (ag *Agnus) vsyncActions() {
	ag.frame++
	ag.frameStart = ag.Sched.Clock
	ag.pos = beam.Position{}

	if ag.lace() {
		ag.lof = !ag.lof
	} else {
		ag.lof = true
	}

	if ag.OnVSync != nil {
		ag.OnVSync(ag.lof)
	}
}

// applyBitplaneModulos adds BPL1MOD to the odd bitplane pointers and
// BPL2MOD to the even ones. Odd/even refers to the bitplane number (BPL1,
// BPL3, BPL5 are odd).
func (ag *Agnus) applyBitplaneModulos() {
	planes := ag.bplCount()
	for p := 0; p < planes; p++ {
		if p%2 == 0 {
			ag.bplpt[p] += ag.bpl1mod
		} else {
			ag.bplpt[p] += ag.bpl2mod
		}
	}
}
