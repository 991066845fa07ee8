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

// Package copper implements the display-list coprocessor. The Copper
// fetches 32-bit instructions from chip RAM at its own DMA slots and
// executes three instructions: MOVE, WAIT and SKIP.
//
// All state transitions run through dedicated event ids in the scheduler's
// COP slot. The Copper claims the bus every other DMA cycle; each fetch or
// move consumes one of its slots.
package copper

import (
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/beam"
	"github.com/amityemu/amity/hardware/clocks"
)

// the copper uses every other DMA cycle. expressed in master cycles
const copCycle = 2 * clocks.DMADivider

// CustomWriter is the path the Copper uses to write custom chip registers.
// Implemented by the memory package's custom-register page.
type CustomWriter interface {
	PokeCustom(reg uint16, v uint16)
}

// registers below this address are protected from Copper writes unless
// CDANG is set
const cdangBoundary = 0x40

// Copper is the display-list coprocessor.
type Copper struct {
	ag     *agnus.Agnus
	mem    agnus.ChipBus
	custom CustomWriter

	// BlitterBusy reports whether the blitter is active. consulted by WAIT
	// unless the instruction sets the blitter-finished-disable bit
	BlitterBusy func() bool

	pc      uint32
	cop1lc  uint32
	cop2lc  uint32
	ir1     uint16
	ir2     uint16
	cdang   bool
	active  bool
	waiting bool

	// halted after a CDANG violation. only a reset or a strobe restarts
	halted bool
}

// NewCopper is the preferred method of initialisation for the Copper type.
func NewCopper(ag *agnus.Agnus, mem agnus.ChipBus, custom CustomWriter) *Copper {
	cop := &Copper{
		ag:     ag,
		mem:    mem,
		custom: custom,
	}
	ag.Sched.RegisterHandler(agnus.SlotCOP, cop.serveEvent)
	return cop
}

// Reset the Copper to power-on state.
func (cop *Copper) Reset() {
	cop.pc = 0
	cop.cop1lc = 0
	cop.cop2lc = 0
	cop.ir1 = 0
	cop.ir2 = 0
	cop.cdang = false
	cop.active = false
	cop.waiting = false
	cop.halted = false
	cop.ag.Sched.Cancel(agnus.SlotCOP)
}

// PC returns the Copper's program counter.
func (cop *Copper) PC() uint32 {
	return cop.pc
}

// Waiting returns true if the Copper is blocked in a WAIT instruction.
func (cop *Copper) Waiting() bool {
	return cop.waiting
}

// PokeCOPCON sets the Copper control register. Only bit 1 (CDANG) is
// implemented by the hardware.
func (cop *Copper) PokeCOPCON(v uint16) {
	cop.cdang = v&0x02 != 0
}

// PokeCOP1LCH sets the high word of the first location register.
func (cop *Copper) PokeCOP1LCH(v uint16) {
	cop.cop1lc = (cop.cop1lc & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeCOP1LCL sets the low word of the first location register.
func (cop *Copper) PokeCOP1LCL(v uint16) {
	cop.cop1lc = (cop.cop1lc & 0xFFFF0000) | uint32(v&0xFFFE)
}

// PokeCOP2LCH sets the high word of the second location register.
func (cop *Copper) PokeCOP2LCH(v uint16) {
	cop.cop2lc = (cop.cop2lc & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeCOP2LCL sets the low word of the second location register.
func (cop *Copper) PokeCOP2LCL(v uint16) {
	cop.cop2lc = (cop.cop2lc & 0xFFFF0000) | uint32(v&0xFFFE)
}

// PokeCOPJMP1 strobes the first location register into the program counter.
func (cop *Copper) PokeCOPJMP1() {
	cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopJmp1)
}

// PokeCOPJMP2 strobes the second location register into the program
// counter.
func (cop *Copper) PokeCOPJMP2() {
	cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopJmp2)
}

// EnableDMA starts or stops the Copper when the COPEN bit of DMACON
// changes. Stopping preserves the program counter; restarting resumes where
// the Copper left off.
func (cop *Copper) EnableDMA(on bool) {
	if on {
		if cop.halted {
			return
		}
		cop.active = true
		cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopRequestDMA)
	} else {
		cop.active = false
		cop.ag.Sched.Disable(agnus.SlotCOP)
	}
}

// VSyncAction restarts the Copper at the first location register. Called at
// the start of every vertical blank.
func (cop *Copper) VSyncAction() {
	cop.halted = false
	cop.waiting = false
	cop.pc = cop.cop1lc

	if cop.ag.DMAEnabled(agnus.DMAConCopEn) {
		cop.active = true
		cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopRequestDMA)
	}
}

// BlitterDidTerminate unblocks a WAIT that was gated on the blitter-busy
// flag.
func (cop *Copper) BlitterDidTerminate() {
	if cop.waiting && cop.ir2&0x8000 == 0 {
		cop.scheduleWaitWakeup()
	}
}

// serveEvent is the handler for the COP slot.
func (cop *Copper) serveEvent(id agnus.EventID, _ int64) {
	switch id {
	case agnus.CopRequestDMA:
		cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopFetch)

	case agnus.CopFetch:
		if !cop.ag.DMAEnabled(agnus.DMAConCopEn) {
			cop.active = false
			return
		}
		cop.ir1 = cop.mem.PeekChip16(cop.pc)
		cop.pc += 2
		if cop.ir1&0x01 == 0 {
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopMove)
		} else {
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopWaitOrSkip)
		}

	case agnus.CopMove:
		cop.ir2 = cop.mem.PeekChip16(cop.pc)
		cop.pc += 2

		reg := cop.ir1 & 0x01FE
		if reg < cdangBoundary && !cop.cdang {
			// a protected register halts the Copper until the next strobe
			cop.halted = true
			cop.active = false
			cop.ag.Sched.Disable(agnus.SlotCOP)
			return
		}
		cop.custom.PokeCustom(reg, cop.ir2)
		cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopFetch)

	case agnus.CopWaitOrSkip:
		cop.ir2 = cop.mem.PeekChip16(cop.pc)
		cop.pc += 2
		if cop.ir2&0x01 == 0 {
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopWait)
		} else {
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopSkip)
		}

	case agnus.CopWait:
		if cop.comparisonSatisfied(cop.ag.Pos()) && cop.blitterGateOpen() {
			cop.waiting = false
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopFetch)
			return
		}
		cop.waiting = true
		cop.scheduleWaitWakeup()

	case agnus.CopSkip:
		if cop.comparisonSatisfied(cop.ag.Pos()) {
			// skip the next instruction
			cop.pc += 4
		}
		cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopFetch)

	case agnus.CopJmp1:
		cop.pc = cop.cop1lc
		cop.halted = false
		cop.waiting = false
		if cop.ag.DMAEnabled(agnus.DMAConCopEn) {
			cop.active = true
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopFetch)
		}

	case agnus.CopJmp2:
		cop.pc = cop.cop2lc
		cop.halted = false
		cop.waiting = false
		if cop.ag.DMAEnabled(agnus.DMAConCopEn) {
			cop.active = true
			cop.ag.Sched.ScheduleRel(agnus.SlotCOP, copCycle, agnus.CopFetch)
		}
	}
}

// comparison values from the instruction registers. the position compare
// masks the beam position with the enable bits before the test.
func (cop *Copper) compareTarget() (vp, hp, ve, he int) {
	vp = int(cop.ir1>>8) & 0xFF
	hp = int(cop.ir1) & 0xFE
	ve = int(cop.ir2>>8)&0x7F | 0x80
	he = int(cop.ir2) & 0xFE
	return vp, hp, ve, he
}

// comparisonSatisfied implements the masked beam comparison shared by WAIT
// and SKIP.
func (cop *Copper) comparisonSatisfied(p beam.Position) bool {
	vp, hp, ve, he := cop.compareTarget()

	mv := p.V & ve
	tv := vp & ve
	if mv > tv {
		return true
	}
	if mv < tv {
		return false
	}
	return p.H&he >= hp&he
}

// blitterGateOpen returns true if the WAIT's blitter gate allows the
// comparison to resolve. Bit 15 of ir2 disables the gate.
func (cop *Copper) blitterGateOpen() bool {
	if cop.ir2&0x8000 != 0 {
		return true
	}
	return cop.BlitterBusy == nil || !cop.BlitterBusy()
}

// scheduleWaitWakeup arms the COP slot for the earliest beam position
// satisfying the WAIT comparison. If no position in the current frame
// matches, the Copper sleeps until vertical blank restarts it.
func (cop *Copper) scheduleWaitWakeup() {
	pos := cop.ag.Pos()

	// scan forward one line at a time for the first matching position
	for v := pos.V; v < beam.VposCntLongFrame; v++ {
		h := 0
		if v == pos.V {
			h = pos.H + 1
		}
		for ; h < beam.HposCnt; h++ {
			if cop.comparisonSatisfied(beam.Position{V: v, H: h}) {
				cop.ag.Sched.SchedulePos(agnus.SlotCOP, v, h, agnus.CopWait)
				return
			}
		}
	}

	// no match this frame. sleep; VSyncAction restarts the program
	cop.ag.Sched.Disable(agnus.SlotCOP)
}
