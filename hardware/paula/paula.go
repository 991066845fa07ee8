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

package paula

import (
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/clocks"
)

// IrqSource identifies one of the fourteen interrupt sources, in INTREQ bit
// order.
type IrqSource int

// List of interrupt sources.
const (
	IrqTBE IrqSource = iota
	IrqDSKBLK
	IrqSOFT
	IrqPORTS
	IrqCOPER
	IrqVERTB
	IrqBLIT
	IrqAUD0
	IrqAUD1
	IrqAUD2
	IrqAUD3
	IrqRBF
	IrqDSKSYN
	IrqEXTER
	NumIrqSources
)

func (src IrqSource) String() string {
	return [...]string{
		"TBE", "DSKBLK", "SOFT", "PORTS", "COPER", "VERTB", "BLIT",
		"AUD0", "AUD1", "AUD2", "AUD3", "RBF", "DSKSYN", "EXTER",
	}[src]
}

// irqLevel maps each interrupt source to the 68000 interrupt priority level
// of its auto-vector.
var irqLevel = [NumIrqSources]int{
	1, 1, 1, // TBE, DSKBLK, SOFT
	2,       // PORTS
	3, 3, 3, // COPER, VERTB, BLIT
	4, 4, 4, 4, // AUD0-3
	5, 5, // RBF, DSKSYN
	6, // EXTER
}

// the set/clear bit of INTENA, INTREQ, ADKCON and DMACON writes.
const setClr = 0x8000

// the master interrupt enable bit of INTENA.
const intEnMaster = 0x4000

// Paula groups the interrupt controller with the disk controller, the audio
// unit and the UART.
type Paula struct {
	ag *agnus.Agnus

	// OnIRQChange publishes the pending interrupt level whenever it
	// changes. The CPU polls the published level before every instruction
	OnIRQChange func(level int)

	Disk  *DiskController
	Audio *AudioUnit
	UART  *UART

	intreq uint16
	intena uint16
	adkcon uint16

	// potentiometer counters. POTGO starts a charge cycle read back
	// through POT0DAT/POT1DAT
	potgo   uint16
	potCntX [2]uint8
	potCntY [2]uint8

	level int
}

// NewPaula is the preferred method of initialisation for the Paula type.
func NewPaula(ag *agnus.Agnus, mem agnus.ChipBus) *Paula {
	pa := &Paula{
		ag: ag,
	}
	pa.Disk = newDiskController(ag, mem, pa)
	pa.Audio = newAudioUnit(ag, mem, pa)
	pa.UART = newUART(ag, pa)

	for src := IrqTBE; src < NumIrqSources; src++ {
		slot := agnus.SlotIrqTBE + agnus.SecSlot(src)
		ag.Sched.RegisterSecHandler(slot, pa.serveIrqEvent)
	}
	ag.Sched.RegisterSecHandler(agnus.SlotPOT, pa.servePotEvent)

	return pa
}

// Reset Paula to power-on state.
func (pa *Paula) Reset() {
	pa.intreq = 0
	pa.intena = 0
	pa.adkcon = 0
	pa.potgo = 0
	pa.level = 0
	pa.Disk.reset()
	pa.Audio.reset()
	pa.UART.reset()
	for src := IrqTBE; src < NumIrqSources; src++ {
		pa.ag.Sched.CancelSec(agnus.SlotIrqTBE + agnus.SecSlot(src))
	}
}

// IrqLevel returns the highest priority level with a pending and enabled
// interrupt, or 0 if no interrupt is pending.
func (pa *Paula) IrqLevel() int {
	return pa.level
}

// checkIrq recomputes the pending level and publishes a change.
func (pa *Paula) checkIrq() {
	level := 0
	if pa.intena&intEnMaster != 0 {
		pending := pa.intreq & pa.intena & 0x3FFF
		for src := IrqTBE; src < NumIrqSources; src++ {
			if pending&(1<<src) != 0 && irqLevel[src] > level {
				level = irqLevel[src]
			}
		}
	}
	if level != pa.level {
		pa.level = level
		if pa.OnIRQChange != nil {
			pa.OnIRQChange(level)
		}
	}
}

// RaiseIrq sets an INTREQ bit immediately.
func (pa *Paula) RaiseIrq(src IrqSource) {
	pa.intreq |= 1 << src
	pa.checkIrq()
}

// RaiseIrqDelayed sets an INTREQ bit after the specified number of master
// cycles, modelling the latency between a chip condition and the interrupt
// line.
func (pa *Paula) RaiseIrqDelayed(src IrqSource, delay clocks.Cycle) {
	slot := agnus.SlotIrqTBE + agnus.SecSlot(src)
	pa.ag.Sched.ScheduleSecRelData(slot, delay, agnus.IrqSet, int64(src))
}

// serveIrqEvent is the handler for the fourteen interrupt slots.
func (pa *Paula) serveIrqEvent(id agnus.EventID, data int64) {
	switch id {
	case agnus.IrqSet:
		pa.RaiseIrq(IrqSource(data))
	case agnus.IrqClear:
		pa.intreq &^= 1 << IrqSource(data)
		pa.checkIrq()
	}
}

// PokeINTENA sets or clears interrupt enable bits.
func (pa *Paula) PokeINTENA(v uint16) {
	pa.intena = setClrWrite(pa.intena, v)
	pa.checkIrq()
}

// PokeINTREQ sets or clears interrupt request bits. The CPU and the Copper
// write it through the custom register page; chips raise their interrupts
// with RaiseIrq. Clearing RBF also clears the serial overrun flag.
func (pa *Paula) PokeINTREQ(v uint16) {
	pa.intreq = setClrWrite(pa.intreq, v)
	if v&0x8000 == 0 && v&(1<<IrqRBF) != 0 {
		pa.UART.ClearOverrun()
	}
	pa.checkIrq()
}

// PeekINTENAR returns the interrupt enable bits.
func (pa *Paula) PeekINTENAR() uint16 {
	return pa.intena & 0x7FFF
}

// PeekINTREQR returns the interrupt request bits.
func (pa *Paula) PeekINTREQR() uint16 {
	return pa.intreq & 0x7FFF
}

// PokeADKCON sets or clears audio/disk control bits. Bit 10 is WORDSYNC:
// disk reads wait for a sync mark before transferring.
func (pa *Paula) PokeADKCON(v uint16) {
	pa.adkcon = setClrWrite(pa.adkcon, v)
}

// PeekADKCONR returns the audio/disk control bits.
func (pa *Paula) PeekADKCONR() uint16 {
	return pa.adkcon & 0x7FFF
}

// WordSync returns true if ADKCON bit 10 gates disk reads on the sync
// word.
func (pa *Paula) WordSync() bool {
	return pa.adkcon&0x0400 != 0
}

// PokePOTGO starts a potentiometer charge cycle. The counters reach their
// final values after roughly a frame; the POT slot models that delay.
func (pa *Paula) PokePOTGO(v uint16) {
	pa.potgo = v
	if v&0x01 != 0 {
		pa.potCntX = [2]uint8{}
		pa.potCntY = [2]uint8{}
		pa.ag.Sched.ScheduleSecRel(agnus.SlotPOT, 313*clocks.Cycle(227)*clocks.DMADivider, agnus.PotUpdate)
	}
}

// servePotEvent completes a potentiometer charge cycle.
func (pa *Paula) servePotEvent(_ agnus.EventID, _ int64) {
	pa.potCntX = [2]uint8{0xFF, 0xFF}
	pa.potCntY = [2]uint8{0xFF, 0xFF}
}

// PeekPOTDAT returns the counter pair of one of the two potentiometer
// ports.
func (pa *Paula) PeekPOTDAT(port int) uint16 {
	return uint16(pa.potCntY[port])<<8 | uint16(pa.potCntX[port])
}

// setClrWrite applies the set/clear protocol common to INTENA, INTREQ,
// ADKCON and DMACON.
func setClrWrite(reg uint16, v uint16) uint16 {
	if v&setClr != 0 {
		return reg | v&0x7FFF
	}
	return reg &^ (v & 0x7FFF)
}
