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

package cia_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/cia"
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/test"
)

const (
	regTALO = 4
	regTAHI = 5
	regTBLO = 6
	regTBHI = 7
	regTODL = 8
	regTODM = 9
	regTODH = 10
	regSDR  = 12
	regICR  = 13
	regCRA  = 14
	regCRB  = 15
)

func newTestCIA(t *testing.T) (*agnus.Agnus, *cia.CIA) {
	t.Helper()
	ag := agnus.NewAgnus()
	ag.Reset()
	c := cia.NewCIA(ag, agnus.SlotCIAA, "CIA A")
	c.Reset()
	return ag, c
}

func TestCIA_timerUnderflow(t *testing.T) {
	ag, c := newTestCIA(t)

	raised := 0
	c.OnIRQ = func(up bool) {
		if up {
			raised++
		}
	}

	// timer A = 9, continuous, interrupt enabled
	c.Poke(regICR, 0x81)
	c.Poke(regTALO, 9)
	c.Poke(regTAHI, 0)
	c.Poke(regCRA, 0x01)

	// nine E-cycles pass without an underflow
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 9*clocks.CIADivider)
	test.ExpectEquality(t, raised, 0)
	test.ExpectEquality(t, c.Peek(regTALO), 0)

	// the tenth E-cycle underflows, reloads and raises the line
	ag.Sched.ExecuteUntil(ag.Sched.Clock + clocks.CIADivider)
	test.ExpectEquality(t, raised, 1)
	test.ExpectEquality(t, c.Peek(regTALO), 9)

	// reading ICR returns the pending bit plus the IR flag and clears both
	test.ExpectEquality(t, c.Peek(regICR), 0x81)
	test.ExpectEquality(t, c.Peek(regICR), 0)
}

func TestCIA_oneShot(t *testing.T) {
	ag, c := newTestCIA(t)

	c.Poke(regICR, 0x81)
	c.Poke(regTALO, 4)

	// in one-shot mode the high byte write starts the timer
	c.Poke(regCRA, 0x08)
	c.Poke(regTAHI, 0)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100*clocks.CIADivider)

	// exactly one underflow. the START bit has dropped
	test.ExpectEquality(t, c.Peek(regICR)&0x01, 0x01)
	test.ExpectEquality(t, c.Peek(regCRA)&0x01, 0)
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100*clocks.CIADivider)
	test.ExpectEquality(t, c.Peek(regICR)&0x01, 0)
}

func TestCIA_cascade(t *testing.T) {
	ag, c := newTestCIA(t)

	// timer A underflows every 4 E-cycles; timer B counts those underflows
	c.Poke(regTALO, 3)
	c.Poke(regTAHI, 0)
	c.Poke(regTBLO, 2)
	c.Poke(regTBHI, 0)
	c.Poke(regCRB, 0x41)
	c.Poke(regCRA, 0x01)

	// two underflows of A decrement B twice
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 8*clocks.CIADivider)
	test.ExpectEquality(t, c.Peek(regTBLO), 0)
	test.ExpectEquality(t, c.Peek(regICR)&0x02, 0)

	// the third clocks B at zero: underflow
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 4*clocks.CIADivider)
	test.ExpectEquality(t, c.Peek(regICR)&0x02, 0x02)
}

func TestCIA_lazyCounter(t *testing.T) {
	ag, c := newTestCIA(t)

	c.Poke(regTALO, 0xFF)
	c.Poke(regTAHI, 0x00)
	c.Poke(regCRA, 0x01)

	// the counter is advanced on demand. no events have run in between
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100*clocks.CIADivider)
	test.ExpectEquality(t, c.Peek(regTALO), 0xFF-100)
}

func TestCIA_todAlarm(t *testing.T) {
	_, c := newTestCIA(t)

	raised := 0
	c.OnIRQ = func(up bool) {
		if up {
			raised++
		}
	}
	c.Poke(regICR, 0x84)

	// alarm at 3 ticks. CRB bit 7 redirects TOD writes to the alarm latch
	c.Poke(regCRB, 0x80)
	c.Poke(regTODH, 0)
	c.Poke(regTODM, 0)
	c.Poke(regTODL, 3)
	c.Poke(regCRB, 0x00)

	// start the counter at zero
	c.Poke(regTODH, 0)
	c.Poke(regTODM, 0)
	c.Poke(regTODL, 0)

	c.TODPulse()
	c.TODPulse()
	test.ExpectEquality(t, raised, 0)

	// third pulse matches the alarm
	c.TODPulse()
	test.ExpectEquality(t, raised, 1)
	test.ExpectEquality(t, c.Peek(regICR)&0x04, 0x04)

	// the interrupt is edge-triggered. leaving the matching value and
	// reaching it again fires once more
	c.Poke(regTODH, 0)
	c.Poke(regTODM, 0)
	c.Poke(regTODL, 2)
	c.TODPulse()
	test.ExpectEquality(t, raised, 2)
}

func TestCIA_todFreeze(t *testing.T) {
	_, c := newTestCIA(t)

	c.Poke(regTODH, 0)
	c.Poke(regTODM, 0)
	c.Poke(regTODL, 0x10)

	// reading the high byte freezes the read value
	_ = c.Peek(regTODH)
	c.TODPulse()
	c.TODPulse()
	test.ExpectEquality(t, c.Peek(regTODM), 0)

	// reading the low byte thaws it
	test.ExpectEquality(t, c.Peek(regTODL), 0x10)
	test.ExpectEquality(t, c.Peek(regTODL), 0x12)

	// writing the high byte stops the counter until the low byte write
	c.Poke(regTODH, 0)
	c.TODPulse()
	test.ExpectEquality(t, c.Peek(regTODL), 0x12)
	c.Poke(regTODL, 0x12)
	c.TODPulse()
	test.ExpectEquality(t, c.Peek(regTODL), 0x13)
}

func TestCIA_portDirection(t *testing.T) {
	_, c := newTestCIA(t)

	var got []uint8
	c.OnPortBChange = func(_, new uint8) {
		got = append(got, new)
	}
	c.PortBIn = func() uint8 { return 0xFF }

	// all outputs, write a drive select pattern
	c.Poke(3, 0xFF)
	c.Poke(1, 0x7F)
	test.ExpectEquality(t, c.PortB(), 0x7F)

	// input bits read from the external driver
	c.Poke(3, 0x0F)
	test.ExpectEquality(t, c.PortB(), 0xFF&0xF0|0x0F)
	test.ExpectEquality(t, len(got), 3)
}

func TestCIA_serialIn(t *testing.T) {
	_, c := newTestCIA(t)

	c.Poke(regICR, 0x88)
	raised := false
	c.OnIRQ = func(up bool) { raised = up }

	c.SerialIn(0x59)
	test.ExpectSuccess(t, raised)
	test.ExpectEquality(t, c.Peek(regSDR), 0x59)
	test.ExpectEquality(t, c.Peek(regICR), 0x88)
}
