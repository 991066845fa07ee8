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
	"github.com/amityemu/amity/hardware/clocks"
)

// Fixed positions of the non-bitplane DMA slots within a raster line. Disk
// gets three slots, audio one per channel, sprites two each in the left
// border.
const (
	dmaSlotDisk0   = 0x07
	dmaSlotDisk1   = 0x09
	dmaSlotDisk2   = 0x0B
	dmaSlotAud0    = 0x0D
	dmaSlotAud1    = 0x0F
	dmaSlotAud2    = 0x11
	dmaSlotAud3    = 0x13
	dmaSlotSprite0 = 0x15
)

// relative fetch order inside a bitplane fetch unit. a lores unit is eight
// cycles wide, a hires unit four. the value is the bitplane number fetched
// at that offset (0 = no fetch). BPL1DAT is fetched last; its arrival
// triggers the shift register load in Denise.
var loresFetch = [8]int{0, 4, 6, 2, 0, 3, 5, 1}
var hiresFetch = [4]int{4, 2, 3, 1}

// updateDMAEventTable rebuilds the slot allocation for the current line
// from DMACON, the data-fetch window and the bitplane configuration.
func (ag *Agnus) updateDMAEventTable() {
	for i := range ag.dmaEvent {
		ag.dmaEvent[i] = EvNone
	}
	ag.bplLineActive = false

	if ag.dmacon&DMAConEnable != 0 {
		if ag.dmacon&DMAConDskEn != 0 {
			ag.dmaEvent[dmaSlotDisk0] = DMADisk
			ag.dmaEvent[dmaSlotDisk1] = DMADisk
			ag.dmaEvent[dmaSlotDisk2] = DMADisk
		}

		if ag.dmacon&DMAConAud0En != 0 {
			ag.dmaEvent[dmaSlotAud0] = DMAAud0
		}
		if ag.dmacon&DMAConAud1En != 0 {
			ag.dmaEvent[dmaSlotAud1] = DMAAud1
		}
		if ag.dmacon&DMAConAud2En != 0 {
			ag.dmaEvent[dmaSlotAud2] = DMAAud2
		}
		if ag.dmacon&DMAConAud3En != 0 {
			ag.dmaEvent[dmaSlotAud3] = DMAAud3
		}

		if ag.dmacon&DMAConSprEn != 0 {
			for s := 0; s < 8; s++ {
				ag.dmaEvent[dmaSlotSprite0+4*s] = DMASprite0 + EventID(s)
				ag.dmaEvent[dmaSlotSprite0+4*s+2] = DMASprite0 + EventID(s)
			}
		}

		if ag.dmacon&DMAConBplEn != 0 && ag.inVerticalDIW() {
			ag.allocBitplaneSlots()
		}
	}

	ag.rebuildNextDMAEvent()
}

// allocBitplaneSlots claims the bitplane fetch slots between DDFSTRT and
// DDFSTOP. Fetch granularity is eight cycles in lores and four in hires.
func (ag *Agnus) allocBitplaneSlots() {
	planes := ag.bplCount()
	if planes == 0 {
		return
	}
	ag.bplLineActive = true

	strt := int(ag.ddfstrt)
	stop := int(ag.ddfstop)
	if strt < 0x18 {
		strt = 0x18
	}
	if stop > 0xD8 {
		stop = 0xD8
	}
	if stop < strt {
		return
	}

	if ag.hires() {
		// hires allows at most four bitplanes
		if planes > 4 {
			planes = 4
		}
		for unit := strt; unit <= stop; unit += 4 {
			for off := 0; off < 4; off++ {
				p := hiresFetch[off]
				if p == 0 || p > planes {
					continue
				}
				h := unit + off
				if h < beam.HposCnt {
					ag.dmaEvent[h] = DMAHires1 + EventID(p-1)
				}
			}
		}
		return
	}

	for unit := strt; unit <= stop; unit += 8 {
		for off := 0; off < 8; off++ {
			p := loresFetch[off]
			if p == 0 || p > planes {
				continue
			}
			h := unit + off
			if h < beam.HposCnt {
				ag.dmaEvent[h] = DMALores1 + EventID(p-1)
			}
		}
	}
}

// rebuildNextDMAEvent derives the jump table that maps a DMA cycle to the
// next claimed cycle at or after it.
func (ag *Agnus) rebuildNextDMAEvent() {
	next := int16(-1)
	for i := beam.HposCnt - 1; i >= 0; i-- {
		if ag.dmaEvent[i] != EvNone {
			next = int16(i)
		}
		ag.nextDMAEvent[i] = next
	}
}

// scheduleNextDMAEvent arms the DMA slot for the next claimed cycle at or
// after DMA cycle h on the current line. If no claimed cycle remains the
// slot is cancelled; the HSYNC handler re-arms it for the next line.
func (ag *Agnus) scheduleNextDMAEvent(h int) {
	if h >= beam.HposCnt || ag.nextDMAEvent[h] < 0 {
		ag.Sched.Cancel(SlotDMA)
		return
	}

	n := int(ag.nextDMAEvent[h])
	cycle := ag.frameStart + (beam.Position{V: ag.pos.V, H: n}).ToCycle()
	ag.Sched.ScheduleAbs(SlotDMA, cycle, ag.dmaEvent[n])
}

// serveDMAEvent is the handler for the primary DMA slot.
func (ag *Agnus) serveDMAEvent(id EventID, _ int64) {
	ag.syncPos()
	h := ag.pos.H

	switch {
	case id == DMADisk:
		if ag.ServeDiskDMA != nil {
			ag.ServeDiskDMA()
		}

	case id >= DMAAud0 && id <= DMAAud3:
		if ag.ServeAudioDMA != nil {
			ag.ServeAudioDMA(int(id - DMAAud0))
		}

	case id >= DMASprite0 && id <= DMASprite7:
		ag.serveSpriteDMA(int(id-DMASprite0), h)

	case id >= DMALores1 && id <= DMALores6:
		ag.serveBitplaneDMA(int(id - DMALores1))

	case id >= DMAHires1 && id <= DMAHires4:
		ag.serveBitplaneDMA(int(id - DMAHires1))
	}

	ag.scheduleNextDMAEvent(h + 1)
}

// serveSpriteDMA fetches one word for a sprite channel and forwards it to
// the sprite unit. The unit decides whether the word is position/control or
// image data.
func (ag *Agnus) serveSpriteDMA(sprite int, h int) {
	if ag.chip == nil || ag.SpriteWord == nil {
		return
	}

	v := ag.chip.PeekChip16(ag.sprpt[sprite])
	ag.sprpt[sprite] += 2

	// slot 0 is the first of the sprite's two slots on this line
	slot := 0
	if h != dmaSlotSprite0+4*sprite {
		slot = 1
	}
	ag.SpriteWord(sprite, slot, v)
}

// serveBitplaneDMA fetches one word for a bitplane and forwards it to
// Denise's data register.
func (ag *Agnus) serveBitplaneDMA(plane int) {
	if ag.chip == nil {
		return
	}

	v := ag.chip.PeekChip16(ag.bplpt[plane])
	ag.bplpt[plane] += 2

	if ag.BPLFetch != nil {
		ag.BPLFetch(plane, v)
	}
}

// syncPos derives the beam position from the master clock. Called by event
// handlers that need an up-to-date position.
func (ag *Agnus) syncPos() {
	ag.pos = beam.FromCycle(ag.Sched.Clock - ag.frameStart)
}

// BlockingCPUAccesses computes the wait states for a CPU chip-bus access at
// the current beam position. If the current DMA slot is claimed the CPU
// stalls until the first free slot.
func (ag *Agnus) BlockingCPUAccesses() clocks.Cycle {
	ag.syncPos()
	h := ag.pos.H

	waits := clocks.Cycle(0)
	for h < beam.HposCnt && ag.dmaEvent[h] != EvNone {
		h++
		waits++
	}

	if waits > 0 {
		ag.BusStalls++
		ag.cpuWaits += clocks.DMAToMaster(waits)
	}
	return clocks.DMAToMaster(waits)
}

// DrainCPUWaits returns the wait cycles accumulated since the last drain
// and resets the accumulator. The CPU executor folds the result into its
// instruction timing.
func (ag *Agnus) DrainCPUWaits() clocks.Cycle {
	w := ag.cpuWaits
	ag.cpuWaits = 0
	return w
}
