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

// DMACON bit values. Bit 15 selects between set and clear semantics on
// write.
const (
	DMAConSetClr = 0x8000
	DMAConBBusy  = 0x4000
	DMAConBZero  = 0x2000
	DMAConBltPri = 0x0400
	DMAConEnable = 0x0200
	DMAConBplEn  = 0x0100
	DMAConCopEn  = 0x0080
	DMAConBltEn  = 0x0040
	DMAConSprEn  = 0x0020
	DMAConDskEn  = 0x0010
	DMAConAud3En = 0x0008
	DMAConAud2En = 0x0004
	DMAConAud1En = 0x0002
	DMAConAud0En = 0x0001

	dmaconRWMask = 0x07FF
)

// ChipBus is the path Agnus uses to read and write chip RAM on behalf of
// the DMA channels. Implemented by the memory package.
type ChipBus interface {
	PeekChip16(addr uint32) uint16
	PokeChip16(addr uint32, v uint16)
}

// Agnus owns the chip-RAM bus and the master clock. It arbitrates the DMA
// slot table, tracks the raster beam position and hosts the event
// scheduler.
type Agnus struct {
	Sched *Scheduler

	chip ChipBus

	// beam state. frameStart is the master cycle at which the current
	// frame's line 0 cycle 0 occurred
	pos        beam.Position
	frame      int64
	frameStart clocks.Cycle
	lof        bool // long frame when true

	// register file
	dmacon  uint16
	dskpt   uint32
	bplpt   [6]uint32
	audlc   [4]uint32
	sprpt   [8]uint32
	bpl1mod uint32
	bpl2mod uint32
	diwstrt uint16
	diwstop uint16
	ddfstrt uint16
	ddfstop uint16
	bplcon0 uint16

	// DMA slot allocation for the current line. dmaEvent[h] holds the event
	// id claiming DMA cycle h; nextDMAEvent[h] is the next claimed cycle at
	// or after h, or -1
	dmaEvent     [beam.HposCnt]EventID
	nextDMAEvent [beam.HposCnt]int16

	// true if bitplane slots are allocated on the current line. used to
	// decide whether the modulos apply at line end
	bplLineActive bool

	// wait cycles injected into the CPU since the last drain
	cpuWaits clocks.Cycle

	// stats
	BusStalls int64

	// callbacks registered at wiring time. Agnus never imports the chips it
	// serves
	ServeDiskDMA   func()
	ServeAudioDMA  func(ch int)
	SpriteWord     func(sprite int, slot int, v uint16)
	BPLFetch       func(plane int, v uint16)
	OnHSync        func(v int)
	OnVSync        func(longFrame bool)
	OnDMACONChange func(old, new uint16)
}

// NewAgnus is the preferred method of initialisation for the Agnus type.
func NewAgnus() *Agnus {
	ag := &Agnus{
		Sched: NewScheduler(),
		lof:   true,
	}
	ag.Sched.SetPosConverter(ag.BeamToCycle)
	ag.Sched.RegisterHandler(SlotRAS, ag.serveRasterEvent)
	ag.Sched.RegisterHandler(SlotDMA, ag.serveDMAEvent)
	return ag
}

// SetChipBus attaches the chip RAM access path. Must be called before the
// first DMA event fires.
func (ag *Agnus) SetChipBus(chip ChipBus) {
	ag.chip = chip
}

// Reset Agnus to power-on state. The scheduler is cleared and the first
// raster event is primed.
func (ag *Agnus) Reset() {
	for i := Slot(0); i < NumSlots; i++ {
		ag.Sched.Cancel(i)
	}
	for i := SecSlot(0); i < NumSecSlots; i++ {
		ag.Sched.CancelSec(i)
	}

	ag.pos = beam.Position{}
	ag.frame = 0
	ag.frameStart = ag.Sched.Clock
	ag.lof = true

	ag.dmacon = 0
	ag.dskpt = 0
	ag.bplpt = [6]uint32{}
	ag.audlc = [4]uint32{}
	ag.sprpt = [8]uint32{}
	ag.bpl1mod = 0
	ag.bpl2mod = 0
	ag.diwstrt = 0
	ag.diwstop = 0
	ag.ddfstrt = 0
	ag.ddfstop = 0
	ag.bplcon0 = 0
	ag.cpuWaits = 0

	ag.updateDMAEventTable()

	// prime the raster state machine
	ag.Sched.ScheduleRel(SlotRAS, beam.MasterCyclesPerLine, RasHsync)
	ag.scheduleNextDMAEvent(0)
}

// Pos returns the beam position for the current master clock.
func (ag *Agnus) Pos() beam.Position {
	ag.syncPos()
	return ag.pos
}

// Frame returns the frame counter.
func (ag *Agnus) Frame() int64 {
	return ag.frame
}

// LongFrame returns true if the current frame is a long frame.
func (ag *Agnus) LongFrame() bool {
	return ag.lof
}

// linesInFrame returns the vertical line count for the current frame.
func (ag *Agnus) linesInFrame() int {
	if ag.lof {
		return beam.VposCntLongFrame
	}
	return beam.VposCntShortFrame
}

// BeamToCycle converts a beam position in the current or the next frame to
// an absolute master cycle. Positions already passed in the current frame
// resolve to the next frame.
func (ag *Agnus) BeamToCycle(v, h int) clocks.Cycle {
	p := beam.Position{V: v, H: h}
	c := ag.frameStart + p.ToCycle()
	if c <= ag.Sched.Clock {
		c += clocks.Cycle(ag.linesInFrame()) * beam.MasterCyclesPerLine
	}
	return c
}

// CycleToBeam converts an absolute master cycle in the current frame to a
// beam position.
func (ag *Agnus) CycleToBeam(c clocks.Cycle) beam.Position {
	return beam.FromCycle(c - ag.frameStart)
}

// DMAEnabled returns true if the master enable bit and the specified
// channel bits are all set in DMACON.
func (ag *Agnus) DMAEnabled(bits uint16) bool {
	return ag.dmacon&DMAConEnable != 0 && ag.dmacon&bits == bits
}

// DMACON returns the current value of the DMACON register, including the
// read-only Blitter status bits.
func (ag *Agnus) DMACON() uint16 {
	return ag.dmacon
}

// SetBlitterBusy sets or clears the BBUSY read-only bit of DMACON.
func (ag *Agnus) SetBlitterBusy(busy bool) {
	if busy {
		ag.dmacon |= DMAConBBusy
	} else {
		ag.dmacon &^= DMAConBBusy
	}
}

// SetBlitterZero sets or clears the BZERO read-only bit of DMACON.
func (ag *Agnus) SetBlitterZero(zero bool) {
	if zero {
		ag.dmacon |= DMAConBZero
	} else {
		ag.dmacon &^= DMAConBZero
	}
}

// PokeDMACON implements the set/clear write protocol of the DMACON
// register. DMA channel changes rebuild the slot allocation for the current
// line.
func (ag *Agnus) PokeDMACON(v uint16) {
	old := ag.dmacon

	if v&DMAConSetClr != 0 {
		ag.dmacon |= v & dmaconRWMask
	} else {
		ag.dmacon &^= v & dmaconRWMask
	}

	if old != ag.dmacon {
		ag.updateDMAEventTable()
		ag.scheduleNextDMAEvent(ag.pos.H + 1)
		if ag.OnDMACONChange != nil {
			ag.OnDMACONChange(old, ag.dmacon)
		}
	}
}

// PokeDSKPTH sets the high word of the disk DMA pointer.
func (ag *Agnus) PokeDSKPTH(v uint16) {
	ag.dskpt = (ag.dskpt & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeDSKPTL sets the low word of the disk DMA pointer.
func (ag *Agnus) PokeDSKPTL(v uint16) {
	ag.dskpt = (ag.dskpt & 0xFFFF0000) | uint32(v&0xFFFE)
}

// DskPt returns the disk DMA pointer.
func (ag *Agnus) DskPt() uint32 {
	return ag.dskpt
}

// IncDskPt advances the disk DMA pointer by the specified number of bytes.
func (ag *Agnus) IncDskPt(delta uint32) {
	ag.dskpt += delta
}

// PokeBPLPTH sets the high word of a bitplane pointer.
func (ag *Agnus) PokeBPLPTH(plane int, v uint16) {
	ag.bplpt[plane] = (ag.bplpt[plane] & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeBPLPTL sets the low word of a bitplane pointer.
func (ag *Agnus) PokeBPLPTL(plane int, v uint16) {
	ag.bplpt[plane] = (ag.bplpt[plane] & 0xFFFF0000) | uint32(v&0xFFFE)
}

// PokeAUDLCH sets the high word of an audio channel location register.
func (ag *Agnus) PokeAUDLCH(ch int, v uint16) {
	ag.audlc[ch] = (ag.audlc[ch] & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeAUDLCL sets the low word of an audio channel location register.
func (ag *Agnus) PokeAUDLCL(ch int, v uint16) {
	ag.audlc[ch] = (ag.audlc[ch] & 0xFFFF0000) | uint32(v&0xFFFE)
}

// AudLc returns an audio channel location register.
func (ag *Agnus) AudLc(ch int) uint32 {
	return ag.audlc[ch]
}

// PokeSPRPTH sets the high word of a sprite pointer.
func (ag *Agnus) PokeSPRPTH(sprite int, v uint16) {
	ag.sprpt[sprite] = (ag.sprpt[sprite] & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeSPRPTL sets the low word of a sprite pointer.
func (ag *Agnus) PokeSPRPTL(sprite int, v uint16) {
	ag.sprpt[sprite] = (ag.sprpt[sprite] & 0xFFFF0000) | uint32(v&0xFFFE)
}

// PokeDIWSTRT sets the display window start position.
func (ag *Agnus) PokeDIWSTRT(v uint16) {
	ag.diwstrt = v
}

// PokeDIWSTOP sets the display window stop position.
func (ag *Agnus) PokeDIWSTOP(v uint16) {
	ag.diwstop = v
}

// PokeDDFSTRT sets the display data fetch start cycle.
func (ag *Agnus) PokeDDFSTRT(v uint16) {
	ag.ddfstrt = v & 0xFC
	ag.updateDMAEventTable()
	ag.scheduleNextDMAEvent(ag.pos.H + 1)
}

// PokeDDFSTOP sets the display data fetch stop cycle.
func (ag *Agnus) PokeDDFSTOP(v uint16) {
	ag.ddfstop = v & 0xFC
	ag.updateDMAEventTable()
	ag.scheduleNextDMAEvent(ag.pos.H + 1)
}

// PokeBPLCON0 latches the bitplane control bits Agnus cares about: the
// bitplane count, the hires flag and the interlace flag.
func (ag *Agnus) PokeBPLCON0(v uint16) {
	ag.bplcon0 = v
	ag.updateDMAEventTable()
	ag.scheduleNextDMAEvent(ag.pos.H + 1)
}

// PokeBPL1MOD sets the modulo added to odd bitplane pointers at line end.
func (ag *Agnus) PokeBPL1MOD(v uint16) {
	ag.bpl1mod = uint32(int32(int16(v &^ 1)))
}

// PokeBPL2MOD sets the modulo added to even bitplane pointers at line end.
func (ag *Agnus) PokeBPL2MOD(v uint16) {
	ag.bpl2mod = uint32(int32(int16(v &^ 1)))
}

// PeekVPOSR returns the vertical position register: LOF in bit 15 and the
// high bit of the vertical count in bit 0.
func (ag *Agnus) PeekVPOSR() uint16 {
	v := uint16(ag.pos.V>>8) & 0x01
	if ag.lof {
		v |= 0x8000
	}
	return v
}

// PeekVHPOSR returns the combined vertical/horizontal position register.
func (ag *Agnus) PeekVHPOSR() uint16 {
	return uint16(ag.pos.V&0xFF)<<8 | uint16(ag.pos.H&0xFF)
}

// bitplane count from BPLCON0 bits 14..12.
func (ag *Agnus) bplCount() int {
	n := int(ag.bplcon0>>12) & 0x07
	if n > 6 {
		n = 6
	}
	return n
}

// hires mode from BPLCON0 bit 15.
func (ag *Agnus) hires() bool {
	return ag.bplcon0&0x8000 != 0
}

// lace mode from BPLCON0 bit 2.
func (ag *Agnus) lace() bool {
	return ag.bplcon0&0x0004 != 0
}

// vertical display window test for the current line.
func (ag *Agnus) inVerticalDIW() bool {
	strt := int(ag.diwstrt >> 8)
	stop := int(ag.diwstop >> 8)
	// DIWSTOP vertical counts above 0x80 have bit 8 implied clear; those
	// below have it implied set
	if stop&0x80 == 0 {
		stop |= 0x100
	}
	return ag.pos.V >= strt && ag.pos.V < stop
}
