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

// Package blitter implements the rectangle and line drawing engine. Up to
// three source channels (A, B, C) are read from chip RAM, combined through
// one of 256 minterms and written back through the D channel.
//
// Two fidelity levels are supported. In the accurate mode the blit advances
// one word per BLT slot event, each word costing as many DMA cycles as the
// blit has enabled channels. In the fast mode the whole blit executes
// atomically when it is triggered and only the completion event is delayed
// by the cycle-accurate duration.
package blitter

import (
	"math/bits"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/logger"
	"github.com/amityemu/amity/prefs"
)

// BLTCON0 fields.
const (
	bltcon0UseA = 0x0800
	bltcon0UseB = 0x0400
	bltcon0UseC = 0x0200
	bltcon0UseD = 0x0100
)

// BLTCON1 fields.
const (
	bltcon1EFE  = 0x0010
	bltcon1IFE  = 0x0008
	bltcon1FCI  = 0x0004
	bltcon1Desc = 0x0002
	bltcon1Line = 0x0001

	// line mode reinterprets the low bits
	bltcon1Sign = 0x0040
	bltcon1SUD  = 0x0010
	bltcon1SUL  = 0x0008
	bltcon1AUL  = 0x0004
	bltcon1Sing = 0x0002
)

// channel indices for the pointer and modulo arrays.
const (
	chanA = iota
	chanB
	chanC
	chanD
)

// Accuracy selects the fidelity of the blit timing.
type Accuracy int

// List of allowed Accuracy values.
const (
	AccuracyFast Accuracy = iota
	AccuracyExact
)

// Blitter is the rectangle/line engine.
type Blitter struct {
	ag  *agnus.Agnus
	mem agnus.ChipBus

	// OnBlitDone is called when a blit terminates. wired to the BLIT
	// interrupt source at the hardware level
	OnBlitDone func()

	// OnTerminate is called after OnBlitDone. wired to the Copper so a
	// blocked WAIT can re-evaluate its blitter gate
	OnTerminate func()

	// a prefs value because the frontend can switch fidelity while a
	// blit is in progress. takes effect from the next blit
	accuracy prefs.Int

	bltcon0 uint16
	bltcon1 uint16
	afwm    uint16
	alwm    uint16
	pt      [4]uint32
	mod     [4]uint32
	dat     [3]uint16

	width  int
	height int

	running bool
	zero    bool

	// a BLTSIZE written while BLTEN is off starts the blit when the DMA
	// channel is enabled
	pending bool

	// per-blit iteration state for the accurate mode
	it blitIterator
}

// blitIterator carries the word-at-a-time state of an accurate-mode copy
// blit between BLT slot events.
type blitIterator struct {
	x, y  int
	aold  uint16
	bold  uint16
	fc    bool
	cost  clocks.Cycle
	words int
}

// NewBlitter is the preferred method of initialisation for the Blitter type.
func NewBlitter(ag *agnus.Agnus, mem agnus.ChipBus) *Blitter {
	blt := &Blitter{
		ag:  ag,
		mem: mem,
	}
	ag.Sched.RegisterHandler(agnus.SlotBLT, blt.serveEvent)
	return blt
}

// Reset the Blitter to power-on state.
func (blt *Blitter) Reset() {
	blt.bltcon0 = 0
	blt.bltcon1 = 0
	blt.afwm = 0
	blt.alwm = 0
	blt.pt = [4]uint32{}
	blt.mod = [4]uint32{}
	blt.dat = [3]uint16{}
	blt.width = 0
	blt.height = 0
	blt.running = false
	blt.zero = false
	blt.pending = false
	blt.it = blitIterator{}
	blt.ag.Sched.Cancel(agnus.SlotBLT)
	blt.ag.SetBlitterBusy(false)
}

// SetAccuracy selects the fidelity of the blit timing. Takes effect from the
// next blit.
func (blt *Blitter) SetAccuracy(acc Accuracy) {
	_ = blt.accuracy.Set(int(acc))
}

// Accuracy returns the current fidelity of the blit timing.
func (blt *Blitter) Accuracy() Accuracy {
	return Accuracy(blt.accuracy.Get().(int))
}

// Running returns true while a blit is in progress.
func (blt *Blitter) Running() bool {
	return blt.running
}

// PokeBLTCON0 sets the shift-A field, the channel enables and the minterm.
func (blt *Blitter) PokeBLTCON0(v uint16) {
	blt.bltcon0 = v
}

// PokeBLTCON1 sets the shift-B field, the fill and line controls.
func (blt *Blitter) PokeBLTCON1(v uint16) {
	blt.bltcon1 = v
}

// PokeBLTAFWM sets the first-word mask for channel A.
func (blt *Blitter) PokeBLTAFWM(v uint16) {
	blt.afwm = v
}

// PokeBLTALWM sets the last-word mask for channel A.
func (blt *Blitter) PokeBLTALWM(v uint16) {
	blt.alwm = v
}

// PokeBLTPTH sets the high word of a channel pointer. ch is one of the four
// channels in A, B, C, D order.
func (blt *Blitter) PokeBLTPTH(ch int, v uint16) {
	blt.pt[ch] = (blt.pt[ch] & 0x0000FFFF) | uint32(v&0x07)<<16
}

// PokeBLTPTL sets the low word of a channel pointer.
func (blt *Blitter) PokeBLTPTL(ch int, v uint16) {
	blt.pt[ch] = (blt.pt[ch] & 0xFFFF0000) | uint32(v&0xFFFE)
}

// PokeBLTMOD sets a channel modulo. The modulo is a signed byte offset
// applied at the end of every row.
func (blt *Blitter) PokeBLTMOD(ch int, v uint16) {
	blt.mod[ch] = uint32(int32(int16(v &^ 1)))
}

// PokeBLTDAT sets a channel data register. A disabled channel uses its data
// register in place of a memory fetch.
func (blt *Blitter) PokeBLTDAT(ch int, v uint16) {
	blt.dat[ch] = v
}

// PokeBLTSIZE latches the blit dimensions and triggers the blit. A zero
// width field means the maximum of 64 words; a zero height field means the
// maximum of 1024 rows.
func (blt *Blitter) PokeBLTSIZE(v uint16) {
	blt.width = int(v & 0x3F)
	if blt.width == 0 {
		blt.width = 64
	}
	blt.height = int(v>>6) & 0x3FF
	if blt.height == 0 {
		blt.height = 1024
	}

	if blt.running {
		logger.Log(logger.Allow, "blitter", "BLTSIZE written while blit in progress")
	}

	if !blt.ag.DMAEnabled(agnus.DMAConBltEn) {
		blt.pending = true
		return
	}
	blt.start()
}

// EnableDMA starts a pending blit or pauses/resumes a running one when the
// BLTEN bit of DMACON changes.
func (blt *Blitter) EnableDMA(on bool) {
	if on {
		if blt.pending {
			blt.pending = false
			blt.start()
		} else if blt.running {
			blt.ag.Sched.ScheduleRel(agnus.SlotBLT, blt.it.cost, agnus.BltExecute)
		}
	} else if blt.running {
		blt.ag.Sched.Disable(agnus.SlotBLT)
	}
}

// start begins the blit. The busy flag raises immediately; the first BLT
// slot event runs one DMA cycle later.
func (blt *Blitter) start() {
	blt.running = true
	blt.zero = true
	blt.ag.SetBlitterBusy(true)
	blt.ag.Sched.ScheduleRel(agnus.SlotBLT, clocks.DMADivider, agnus.BltInit)
}

// serveEvent is the handler for the BLT slot.
func (blt *Blitter) serveEvent(id agnus.EventID, _ int64) {
	switch id {
	case agnus.BltInit:
		if blt.bltcon1&bltcon1Line != 0 {
			// line mode always executes atomically. the completion is
			// delayed by the per-pixel cost
			dur := clocks.Cycle(blt.height) * 4 * clocks.DMADivider
			blt.doLineBlit()
			blt.it = blitIterator{y: blt.height}
			blt.ag.Sched.ScheduleRel(agnus.SlotBLT, dur, agnus.BltExecute)
			return
		}

		blt.it = blitIterator{
			fc:    blt.bltcon1&bltcon1FCI != 0,
			cost:  clocks.Cycle(blt.channelCount()) * clocks.DMADivider,
			words: blt.width * blt.height,
		}

		if blt.Accuracy() == AccuracyFast {
			blt.ag.Sched.ScheduleRel(agnus.SlotBLT, 0, agnus.BltFastBlit)
		} else {
			blt.ag.Sched.ScheduleRel(agnus.SlotBLT, blt.it.cost, agnus.BltExecute)
		}

	case agnus.BltFastBlit:
		dur := clocks.Cycle(blt.it.words) * blt.it.cost
		for blt.it.y < blt.height {
			blt.processWord()
		}
		blt.ag.Sched.ScheduleRel(agnus.SlotBLT, dur, agnus.BltExecute)

	case agnus.BltExecute:
		if blt.it.y < blt.height {
			blt.processWord()
			blt.ag.Sched.ScheduleRel(agnus.SlotBLT, blt.it.cost, agnus.BltExecute)
			return
		}
		blt.terminate()
	}
}

// terminate ends the blit: the busy flag drops, the zero flag latches into
// DMACON and the completion observers run.
func (blt *Blitter) terminate() {
	blt.running = false
	blt.ag.SetBlitterBusy(false)
	blt.ag.SetBlitterZero(blt.zero)
	if blt.OnBlitDone != nil {
		blt.OnBlitDone()
	}
	if blt.OnTerminate != nil {
		blt.OnTerminate()
	}
}

// channelCount returns the number of bus accesses per word. A blit with no
// enabled channels still consumes one cycle per word.
func (blt *Blitter) channelCount() int {
	n := bits.OnesCount16(blt.bltcon0 & 0x0F00)
	if n == 0 {
		n = 1
	}
	return n
}

// processWord runs one word of a copy blit: fetch the enabled channels,
// apply the masks and shifts, combine through the minterm, optionally fill,
// and write the result.
func (blt *Blitter) processWord() {
	desc := blt.bltcon1&bltcon1Desc != 0
	ash := uint(blt.bltcon0 >> 12)
	bsh := uint(blt.bltcon1 >> 12)

	anew := blt.dat[chanA]
	if blt.bltcon0&bltcon0UseA != 0 {
		anew = blt.mem.PeekChip16(blt.pt[chanA])
		blt.advance(chanA, desc)
	}
	if blt.it.x == 0 {
		anew &= blt.afwm
	}
	if blt.it.x == blt.width-1 {
		anew &= blt.alwm
	}

	bnew := blt.dat[chanB]
	if blt.bltcon0&bltcon0UseB != 0 {
		bnew = blt.mem.PeekChip16(blt.pt[chanB])
		blt.advance(chanB, desc)
	}

	chold := blt.dat[chanC]
	if blt.bltcon0&bltcon0UseC != 0 {
		chold = blt.mem.PeekChip16(blt.pt[chanC])
		blt.advance(chanC, desc)
	}

	var ahold, bhold uint16
	if desc {
		ahold = uint16(uint32(anew)<<ash | uint32(blt.it.aold)>>(16-ash))
		bhold = uint16(uint32(bnew)<<bsh | uint32(blt.it.bold)>>(16-bsh))
	} else {
		ahold = uint16((uint32(blt.it.aold)<<16 | uint32(anew)) >> ash)
		bhold = uint16((uint32(blt.it.bold)<<16 | uint32(bnew)) >> bsh)
	}
	blt.it.aold = anew
	blt.it.bold = bnew

	dhold := minterm(uint8(blt.bltcon0), ahold, bhold, chold)

	if desc && blt.bltcon1&(bltcon1EFE|bltcon1IFE) != 0 {
		dhold = blt.fill(dhold)
	}

	if dhold != 0 {
		blt.zero = false
	}

	if blt.bltcon0&bltcon0UseD != 0 {
		blt.mem.PokeChip16(blt.pt[chanD], dhold)
		blt.advance(chanD, desc)
	}

	blt.it.x++
	if blt.it.x >= blt.width {
		blt.it.x = 0
		blt.it.y++
		blt.it.aold = 0
		blt.it.bold = 0
		blt.applyModulos(desc)
	}
}

// advance moves a channel pointer one word in the blit direction.
func (blt *Blitter) advance(ch int, desc bool) {
	if desc {
		blt.pt[ch] -= 2
	} else {
		blt.pt[ch] += 2
	}
	blt.pt[ch] &= 0x07FFFF
}

// applyModulos adds (or in descending mode subtracts) each enabled
// channel's modulo at the end of a row.
func (blt *Blitter) applyModulos(desc bool) {
	for ch, use := range []uint16{bltcon0UseA, bltcon0UseB, bltcon0UseC, bltcon0UseD} {
		if blt.bltcon0&use == 0 {
			continue
		}
		if desc {
			blt.pt[ch] -= blt.mod[ch]
		} else {
			blt.pt[ch] += blt.mod[ch]
		}
		blt.pt[ch] &= 0x07FFFF
	}
}

// fill applies the area fill to one data word, bit 0 first. Inclusive fill
// keeps both boundary bits set; exclusive fill clears the closing boundary.
func (blt *Blitter) fill(d uint16) uint16 {
	inclusive := blt.bltcon1&bltcon1IFE != 0
	var out uint16
	for i := 0; i < 16; i++ {
		bit := d >> i & 0x01
		if inclusive {
			out |= (bit | boolBit(blt.it.fc)) << i
		} else {
			out |= (bit ^ boolBit(blt.it.fc)) << i
		}
		if bit != 0 {
			blt.it.fc = !blt.it.fc
		}
	}
	return out
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// minterm combines the three channel values through the boolean function
// selected by the low byte of BLTCON0.
func minterm(lf uint8, a, b, c uint16) uint16 {
	var d uint16
	if lf&0x01 != 0 {
		d |= ^a & ^b & ^c
	}
	if lf&0x02 != 0 {
		d |= ^a & ^b & c
	}
	if lf&0x04 != 0 {
		d |= ^a & b & ^c
	}
	if lf&0x08 != 0 {
		d |= ^a & b & c
	}
	if lf&0x10 != 0 {
		d |= a & ^b & ^c
	}
	if lf&0x20 != 0 {
		d |= a & ^b & c
	}
	if lf&0x40 != 0 {
		d |= a & b & ^c
	}
	if lf&0x80 != 0 {
		d |= a & b & c
	}
	return d
}

// doLineBlit draws a single-pixel-wide line. The A channel shifter supplies
// the pixel mask, the B data register the repeating texture, the C channel
// the background word and the D channel (tracking C) the destination. The A
// pointer serves as the Bresenham error accumulator with the A and B
// modulos as the two increments.
func (blt *Blitter) doLineBlit() {
	ash := int(blt.bltcon0 >> 12)
	bsh := uint(blt.bltcon1 >> 12)
	sign := blt.bltcon1&bltcon1Sign != 0
	single := blt.bltcon1&bltcon1Sing != 0

	// the texture register pre-rotated by the B shift
	blineb := blt.dat[chanB]>>bsh | blt.dat[chanB]<<(16-bsh)

	drawn := false
	for i := 0; i < blt.height; i++ {
		chold := blt.dat[chanC]
		if blt.bltcon0&bltcon0UseC != 0 {
			chold = blt.mem.PeekChip16(blt.pt[chanC])
		}

		ahold := (blt.dat[chanA] & blt.afwm) >> ash
		dhold := minterm(uint8(blt.bltcon0), ahold, blineb, chold)
		if dhold != 0 {
			blt.zero = false
		}

		if !single || !drawn {
			blt.mem.PokeChip16(blt.pt[chanC], dhold)
			drawn = true
		}

		blineb = blineb<<1 | blineb>>15

		// Bresenham step: the minor axis moves only while the error
		// accumulator is non-negative
		if !sign {
			if blt.bltcon1&bltcon1SUD != 0 {
				if blt.bltcon1&bltcon1SUL != 0 {
					ash = blt.lineStepLeft(ash)
				} else {
					ash = blt.lineStepRight(ash)
				}
			} else {
				blt.lineStepVertical(blt.bltcon1&bltcon1SUL != 0)
				drawn = false
			}
		}
		if blt.bltcon1&bltcon1SUD != 0 {
			blt.lineStepVertical(blt.bltcon1&bltcon1AUL != 0)
			drawn = false
		} else {
			if blt.bltcon1&bltcon1AUL != 0 {
				ash = blt.lineStepLeft(ash)
			} else {
				ash = blt.lineStepRight(ash)
			}
		}

		if sign {
			blt.pt[chanA] += blt.mod[chanB]
		} else {
			blt.pt[chanA] += blt.mod[chanA]
		}
		blt.pt[chanA] &= 0x07FFFF
		sign = int16(blt.pt[chanA]) < 0
	}

	blt.pt[chanD] = blt.pt[chanC]
}

// lineStepRight moves the line cursor one pixel right, carrying into the C
// pointer when the shift wraps.
func (blt *Blitter) lineStepRight(ash int) int {
	ash++
	if ash > 15 {
		ash = 0
		blt.pt[chanC] = (blt.pt[chanC] + 2) & 0x07FFFF
	}
	return ash
}

// lineStepLeft moves the line cursor one pixel left.
func (blt *Blitter) lineStepLeft(ash int) int {
	ash--
	if ash < 0 {
		ash = 15
		blt.pt[chanC] = (blt.pt[chanC] - 2) & 0x07FFFF
	}
	return ash
}

// lineStepVertical moves the line cursor one row up or down by the C
// modulo.
func (blt *Blitter) lineStepVertical(up bool) {
	if up {
		blt.pt[chanC] -= blt.mod[chanC]
	} else {
		blt.pt[chanC] += blt.mod[chanC]
	}
	blt.pt[chanC] &= 0x07FFFF
}
