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

package copper_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/beam"
	"github.com/amityemu/amity/hardware/copper"
	"github.com/amityemu/amity/test"
)

// fake chip RAM for copper fetches.
type testRAM struct {
	data [1024]byte
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

// records custom register writes with the beam position they occurred at.
type testCustom struct {
	ag     *agnus.Agnus
	writes []customWrite
}

type customWrite struct {
	reg uint16
	val uint16
	pos beam.Position
}

func (c *testCustom) PokeCustom(reg uint16, v uint16) {
	c.writes = append(c.writes, customWrite{reg: reg, val: v, pos: c.ag.Pos()})
}

func writeList(ram *testRAM, words ...uint16) {
	for i, w := range words {
		ram.PokeChip16(uint32(i*2), w)
	}
}

func TestCopper_waitThenMove(t *testing.T) {
	ag := agnus.NewAgnus()
	ram := &testRAM{}
	ag.SetChipBus(ram)
	custom := &testCustom{ag: ag}
	cop := copper.NewCopper(ag, ram, custom)

	ag.Reset()
	cop.Reset()

	// WAIT (v=100, h=0); MOVE $180, $0F00; WAIT-FOREVER
	writeList(ram,
		0x6401, 0xFF00,
		0x0180, 0x0F00,
		0xFFFF, 0xFFFE,
	)

	ag.PokeDMACON(agnus.DMAConSetClr | agnus.DMAConEnable | agnus.DMAConCopEn)
	cop.VSyncAction()

	// run to just before line 100. no write may have happened
	ag.Sched.ExecuteUntil(ag.BeamToCycle(99, 0))
	test.ExpectEquality(t, len(custom.writes), 0)
	test.ExpectSuccess(t, cop.Waiting())

	// run through line 100
	ag.Sched.ExecuteUntil(ag.BeamToCycle(101, 0))
	test.ExpectEquality(t, len(custom.writes), 1)
	test.ExpectEquality(t, custom.writes[0].reg, 0x180)
	test.ExpectEquality(t, custom.writes[0].val, 0x0F00)
	test.ExpectEquality(t, custom.writes[0].pos.V, 100)
}

func TestCopper_skip(t *testing.T) {
	ag := agnus.NewAgnus()
	ram := &testRAM{}
	ag.SetChipBus(ram)
	custom := &testCustom{ag: ag}
	cop := copper.NewCopper(ag, ram, custom)

	ag.Reset()
	cop.Reset()

	// SKIP (v=0, h=0) — satisfied immediately, so the following MOVE is
	// skipped and the second MOVE executes
	writeList(ram,
		0x0001, 0xFF01,
		0x0180, 0x0111,
		0x0182, 0x0222,
		0xFFFF, 0xFFFE,
	)

	ag.PokeDMACON(agnus.DMAConSetClr | agnus.DMAConEnable | agnus.DMAConCopEn)
	cop.VSyncAction()

	ag.Sched.ExecuteUntil(ag.BeamToCycle(50, 0))

	test.ExpectEquality(t, len(custom.writes), 1)
	test.ExpectEquality(t, custom.writes[0].reg, 0x182)
	test.ExpectEquality(t, custom.writes[0].val, 0x0222)
}

func TestCopper_cdangHalt(t *testing.T) {
	ag := agnus.NewAgnus()
	ram := &testRAM{}
	ag.SetChipBus(ram)
	custom := &testCustom{ag: ag}
	cop := copper.NewCopper(ag, ram, custom)

	ag.Reset()
	cop.Reset()

	// MOVE to a protected register without CDANG halts the Copper; the
	// following MOVE never executes
	writeList(ram,
		0x0020, 0x1234,
		0x0180, 0x0F00,
	)

	ag.PokeDMACON(agnus.DMAConSetClr | agnus.DMAConEnable | agnus.DMAConCopEn)
	cop.VSyncAction()

	ag.Sched.ExecuteUntil(ag.BeamToCycle(50, 0))
	test.ExpectEquality(t, len(custom.writes), 0)
}
