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

package blitter_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/blitter"
	"github.com/amityemu/amity/test"
)

// fake chip RAM for blitter channel accesses.
type testRAM struct {
	data [4096]byte
}

func (r *testRAM) PeekChip16(addr uint32) uint16 {
	addr %= uint32(len(r.data))
	return uint16(r.data[addr])<<8 | uint16(r.data[addr+1])
}

func (r *testRAM) PokeChip16(addr uint32, v uint16) {
	addr %= uint32(len(r.data))
	r.data[addr] = byte(v >> 8)
	r.data[addr+1] = byte(v)
}

func newTestBlitter() (*agnus.Agnus, *testRAM, *blitter.Blitter) {
	ag := agnus.NewAgnus()
	ram := &testRAM{}
	ag.SetChipBus(ram)
	blt := blitter.NewBlitter(ag, ram)
	ag.Reset()
	blt.Reset()
	ag.PokeDMACON(agnus.DMAConSetClr | agnus.DMAConEnable | agnus.DMAConBltEn)
	return ag, ram, blt
}

func TestBlitter_copy(t *testing.T) {
	ag, ram, blt := newTestBlitter()

	done := 0
	blt.OnBlitDone = func() { done++ }

	src := []uint16{0x1234, 0x5678, 0x9ABC, 0xDEF0}
	for i, w := range src {
		ram.PokeChip16(uint32(0x100+i*2), w)
	}

	// straight A to D copy, 2 words by 2 rows
	blt.PokeBLTCON0(0x09F0)
	blt.PokeBLTCON1(0x0000)
	blt.PokeBLTAFWM(0xFFFF)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTPTL(0, 0x0100)
	blt.PokeBLTPTH(0, 0)
	blt.PokeBLTPTL(3, 0x0200)
	blt.PokeBLTPTH(3, 0)
	blt.PokeBLTSIZE(2<<6 | 2)

	test.ExpectSuccess(t, blt.Running())
	test.ExpectInequality(t, ag.DMACON()&agnus.DMAConBBusy, 0)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10000)

	test.ExpectFailure(t, blt.Running())
	test.ExpectEquality(t, ag.DMACON()&agnus.DMAConBBusy, 0)
	test.ExpectEquality(t, ag.DMACON()&agnus.DMAConBZero, 0)
	test.ExpectEquality(t, done, 1)

	for i, w := range src {
		test.ExpectEquality(t, ram.PeekChip16(uint32(0x200+i*2)), w)
	}
}

func TestBlitter_zeroDetect(t *testing.T) {
	ag, ram, blt := newTestBlitter()

	ram.PokeChip16(0x100, 0x00FF)
	ram.PokeChip16(0x300, 0xFF00)

	// A AND C with disjoint operands produces an all-zero result
	blt.PokeBLTCON0(0x0BA0)
	blt.PokeBLTCON1(0x0000)
	blt.PokeBLTAFWM(0xFFFF)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTPTL(0, 0x0100)
	blt.PokeBLTPTL(2, 0x0300)
	blt.PokeBLTPTL(3, 0x0400)
	blt.PokeBLTSIZE(1<<6 | 1)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10000)

	test.ExpectEquality(t, ram.PeekChip16(0x400), 0)
	test.ExpectInequality(t, ag.DMACON()&agnus.DMAConBZero, 0)
}

func TestBlitter_shift(t *testing.T) {
	ag, ram, blt := newTestBlitter()

	ram.PokeChip16(0x100, 0x8000)
	ram.PokeChip16(0x102, 0x0000)

	// ASH of 4 shifts the A channel right across the word boundary
	blt.PokeBLTCON0(0x4000 | 0x0900 | 0xF0)
	blt.PokeBLTCON1(0x0000)
	blt.PokeBLTAFWM(0xFFFF)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTPTL(0, 0x0100)
	blt.PokeBLTPTL(3, 0x0200)
	blt.PokeBLTSIZE(1<<6 | 2)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10000)

	test.ExpectEquality(t, ram.PeekChip16(0x200), 0x0800)
	test.ExpectEquality(t, ram.PeekChip16(0x202), 0x0000)
}

func TestBlitter_exactModeDuration(t *testing.T) {
	ag, ram, blt := newTestBlitter()
	blt.SetAccuracy(blitter.AccuracyExact)

	ram.PokeChip16(0x100, 0xAAAA)

	blt.PokeBLTCON0(0x09F0)
	blt.PokeBLTCON1(0x0000)
	blt.PokeBLTAFWM(0xFFFF)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTPTL(0, 0x0100)
	blt.PokeBLTPTL(3, 0x0200)
	blt.PokeBLTSIZE(1<<6 | 1)

	// one word with two channels costs two DMA cycles after the one cycle
	// start-up. nothing has been written halfway through
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 8)
	test.ExpectEquality(t, ram.PeekChip16(0x200), 0)
	test.ExpectSuccess(t, blt.Running())

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100)
	test.ExpectEquality(t, ram.PeekChip16(0x200), 0xAAAA)
	test.ExpectFailure(t, blt.Running())
}

func TestBlitter_pendingUntilDMAEnabled(t *testing.T) {
	ag, ram, blt := newTestBlitter()
	ag.PokeDMACON(agnus.DMAConBltEn) // clear BLTEN

	ram.PokeChip16(0x100, 0x1111)

	blt.PokeBLTCON0(0x09F0)
	blt.PokeBLTCON1(0x0000)
	blt.PokeBLTAFWM(0xFFFF)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTPTL(0, 0x0100)
	blt.PokeBLTPTL(3, 0x0200)
	blt.PokeBLTSIZE(1<<6 | 1)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10000)
	test.ExpectFailure(t, blt.Running())
	test.ExpectEquality(t, ram.PeekChip16(0x200), 0)

	ag.PokeDMACON(agnus.DMAConSetClr | agnus.DMAConBltEn)
	blt.EnableDMA(true)
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10000)
	test.ExpectEquality(t, ram.PeekChip16(0x200), 0x1111)
}

func TestBlitter_fill(t *testing.T) {
	ag, ram, blt := newTestBlitter()

	// descending blit with inclusive fill. boundary pair 0x4004 fills to
	// 0x7FFC
	ram.PokeChip16(0x100, 0x4004)

	blt.PokeBLTCON0(0x09F0)
	blt.PokeBLTCON1(0x0008 | 0x0002) // IFE | DESC
	blt.PokeBLTAFWM(0xFFFF)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTPTL(0, 0x0100)
	blt.PokeBLTPTL(3, 0x0200)
	blt.PokeBLTSIZE(1<<6 | 1)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10000)

	test.ExpectEquality(t, ram.PeekChip16(0x200), 0x7FFC)
}

func TestBlitter_line(t *testing.T) {
	ag, ram, blt := newTestBlitter()

	// horizontal 8-pixel line starting at bit 15 of word 0x200. octant
	// with the always-step moving right. dx=8, dy=0: accumulator starts
	// at 4*dy-2*dx, A modulo 4*(dy-dx), B modulo 4*dy
	blt.PokeBLTCON0(0x0000 | 0x0B00 | 0xCA) // ash=0, USEA|USEC|USED
	blt.PokeBLTCON1(0x0001 | 0x0040)        // LINE, SIGN (accumulator negative)
	blt.PokeBLTAFWM(0x8000)
	blt.PokeBLTALWM(0xFFFF)
	blt.PokeBLTDAT(0, 0x8000)
	blt.PokeBLTDAT(1, 0xFFFF)
	aptl, amod := int16(-16), int16(-32)
	blt.PokeBLTPTL(0, uint16(aptl)&0xFFFE)
	blt.PokeBLTMOD(0, uint16(amod)&0xFFFF)
	blt.PokeBLTMOD(1, 0)
	blt.PokeBLTMOD(2, 0)
	blt.PokeBLTPTL(2, 0x0200)
	blt.PokeBLTPTL(3, 0x0200)
	blt.PokeBLTSIZE(8<<6 | 2)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100000)

	test.ExpectFailure(t, blt.Running())
	test.ExpectEquality(t, ram.PeekChip16(0x200), 0xFF00)
}
