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

package cia

import (
	"fmt"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/clocks"
)

// control register bits. INModeB covers both INMODE bits of CRB.
const (
	crStart   = 0x01
	crPBOn    = 0x02
	crOutMode = 0x04
	crRunMode = 0x08
	crLoad    = 0x10
	crINMode  = 0x20
	crINModeB = 0x60
	crSPMode  = 0x40
	crAlarm   = 0x80
)

// interrupt control bits.
const (
	icrTA    = 0x01
	icrTB    = 0x02
	icrAlarm = 0x04
	icrSP    = 0x08
	icrFlag  = 0x10
	icrIR    = 0x80
)

// timer is one of the two 16-bit interval timers. modeMask selects the
// INMODE field: one bit for timer A, two for timer B.
type timer struct {
	counter  uint16
	latch    uint16
	cr       uint8
	modeMask uint8
}

// countingClock returns true if the timer decrements on every E-clock
// pulse.
func (t *timer) countingClock() bool {
	return t.cr&crStart != 0 && t.cr&t.modeMask == 0
}

// countingUnderflow returns true if the timer decrements on every underflow
// of the other timer. Only meaningful for timer B.
func (t *timer) countingUnderflow() bool {
	return t.cr&crStart != 0 && t.cr&crINModeB == 0x40
}

// CIA is one instance of the 8520 complex interface adapter. The Amiga
// carries two; they differ only in what their ports and lines are wired to.
type CIA struct {
	ag   *agnus.Agnus
	slot agnus.Slot
	name string

	// OnIRQ reports level changes of the interrupt line. CIA A is wired to
	// the PORTS interrupt, CIA B to EXTER
	OnIRQ func(raised bool)

	// external input bits for the two ports. input lines with no driver
	// read high
	PortAIn func() uint8
	PortBIn func() uint8

	// port output observers. the disk controller watches CIA B port B for
	// the select/motor/step lines
	OnPortAChange func(old uint8, new uint8)
	OnPortBChange func(old uint8, new uint8)

	// OnSerialOut is called when a byte has been shifted out of the serial
	// port
	OnSerialOut func(v uint8)

	pra, prb   uint8
	ddra, ddrb uint8
	ta, tb     timer
	tod        tod
	sdr        uint8
	spShift    int
	icr        uint8
	imr        uint8
	irq        bool

	// master clock of the most recent E-cycle boundary the timers have
	// been advanced to
	lastSync clocks.Cycle
}

// NewCIA is the preferred method of initialisation for the CIA type. slot
// must be one of SlotCIAA or SlotCIAB.
func NewCIA(ag *agnus.Agnus, slot agnus.Slot, name string) *CIA {
	cia := &CIA{
		ag:   ag,
		slot: slot,
		name: name,
	}
	ag.Sched.RegisterHandler(slot, cia.serveEvent)
	return cia
}

// Reset the CIA to power-on state. The timer latches reset to 0xFFFF and
// the TOD counter stops until it is first written.
func (cia *CIA) Reset() {
	cia.pra = 0
	cia.prb = 0
	cia.ddra = 0
	cia.ddrb = 0
	cia.ta = timer{latch: 0xFFFF, counter: 0xFFFF, modeMask: crINMode}
	cia.tb = timer{latch: 0xFFFF, counter: 0xFFFF, modeMask: crINModeB}
	cia.tod = tod{stopped: true}
	cia.sdr = 0
	cia.icr = 0
	cia.imr = 0
	cia.irq = false
	cia.lastSync = cia.ag.Sched.Clock
	cia.ag.Sched.Cancel(cia.slot)
}

func (cia *CIA) String() string {
	return fmt.Sprintf("%s: TA=%04x TB=%04x ICR=%02x IMR=%02x",
		cia.name, cia.ta.counter, cia.tb.counter, cia.icr, cia.imr)
}

// IRQ returns the current level of the interrupt line.
func (cia *CIA) IRQ() bool {
	return cia.irq
}

// serveEvent is the handler for the CIA's slot. Both event ids do the same
// work: advance the timers to the current clock and arm the next event.
func (cia *CIA) serveEvent(_ agnus.EventID, _ int64) {
	cia.sync()
	cia.schedule()
}

// sync advances the timers over all complete E-cycles since the last sync,
// serving underflows at their exact positions. The CIA sleeps between
// scheduled events so this runs on every register access as well.
func (cia *CIA) sync() {
	elapsed := int64((cia.ag.Sched.Clock - cia.lastSync) / clocks.CIADivider)
	cia.lastSync += clocks.Cycle(elapsed) * clocks.CIADivider

	for elapsed > 0 {
		step := elapsed
		if cia.ta.countingClock() && int64(cia.ta.counter)+1 < step {
			step = int64(cia.ta.counter) + 1
		}
		if cia.tb.countingClock() && int64(cia.tb.counter)+1 < step {
			step = int64(cia.tb.counter) + 1
		}
		elapsed -= step

		if cia.ta.countingClock() {
			if int64(cia.ta.counter) >= step {
				cia.ta.counter -= uint16(step)
			} else {
				cia.underflowA()
			}
		}
		if cia.tb.countingClock() {
			if int64(cia.tb.counter) >= step {
				cia.tb.counter -= uint16(step)
			} else {
				cia.underflowB()
			}
		}
	}
}

// schedule arms the slot for the next timer underflow. A CIA with no timer
// counting the E-clock has nothing to do until the next register access or
// TOD pulse; its slot stays empty.
func (cia *CIA) schedule() {
	next := agnus.Never
	if cia.ta.countingClock() {
		next = cia.lastSync + clocks.Cycle(cia.ta.counter+1)*clocks.CIADivider
	}
	if cia.tb.countingClock() {
		t := cia.lastSync + clocks.Cycle(cia.tb.counter+1)*clocks.CIADivider
		if t < next {
			next = t
		}
	}

	if next == agnus.Never {
		cia.ag.Sched.Cancel(cia.slot)
		return
	}
	cia.ag.Sched.ScheduleAbs(cia.slot, next, agnus.CIAExecute)
}

// underflowA reloads timer A from its latch, raises the interrupt bit,
// stops the timer in one-shot mode and clocks timer B when it is cascaded.
func (cia *CIA) underflowA() {
	cia.ta.counter = cia.ta.latch
	if cia.ta.cr&crRunMode != 0 {
		cia.ta.cr &^= crStart
	}
	cia.raiseICR(icrTA)

	if cia.tb.countingUnderflow() {
		if cia.tb.counter == 0 {
			cia.underflowB()
		} else {
			cia.tb.counter--
		}
	}

	if cia.ta.cr&crSPMode != 0 {
		cia.serialShiftOut()
	}
}

// underflowB reloads timer B from its latch, raises the interrupt bit and
// stops the timer in one-shot mode.
func (cia *CIA) underflowB() {
	cia.tb.counter = cia.tb.latch
	if cia.tb.cr&crRunMode != 0 {
		cia.tb.cr &^= crStart
	}
	cia.raiseICR(icrTB)
}

// raiseICR sets interrupt bits and raises the IRQ line if the mask allows.
func (cia *CIA) raiseICR(bits uint8) {
	cia.icr |= bits
	if cia.icr&cia.imr != 0 && !cia.irq {
		cia.irq = true
		if cia.OnIRQ != nil {
			cia.OnIRQ(true)
		}
	}
}

// serialShiftOut counts timer A underflows in serial output mode. After
// eight shifts the byte is out: the SP interrupt raises and the observer
// runs.
func (cia *CIA) serialShiftOut() {
	cia.spShift++
	if cia.spShift >= 8 {
		cia.spShift = 0
		cia.raiseICR(icrSP)
		if cia.OnSerialOut != nil {
			cia.OnSerialOut(cia.sdr)
		}
	}
}

// SerialIn receives a byte on the serial port. CIA A's serial port is fed
// by the keyboard.
func (cia *CIA) SerialIn(v uint8) {
	cia.sdr = v
	cia.raiseICR(icrSP)
}

// Flag pulses the FLAG input line. No device of the machine is wired to it;
// the line only changes through direct calls.
func (cia *CIA) Flag() {
	cia.raiseICR(icrFlag)
}

// TODPulse advances the TOD counter by one tick. CIA A's TOD counts
// vertical syncs, CIA B's counts horizontal syncs.
func (cia *CIA) TODPulse() {
	if cia.tod.increment() {
		cia.raiseICR(icrAlarm)
	}
}

// PortA returns the effective value of port A: output bits from the output
// register, input bits from the external drivers or pulled high.
func (cia *CIA) PortA() uint8 {
	ext := uint8(0xFF)
	if cia.PortAIn != nil {
		ext = cia.PortAIn()
	}
	return cia.pra&cia.ddra | ext&^cia.ddra
}

// PortB returns the effective value of port B.
func (cia *CIA) PortB() uint8 {
	ext := uint8(0xFF)
	if cia.PortBIn != nil {
		ext = cia.PortBIn()
	}
	return cia.prb&cia.ddrb | ext&^cia.ddrb
}
