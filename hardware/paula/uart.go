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

// the LONG bit of SERPER selects nine data bits per frame.
const serperLong = 0x8000

// UART is Paula's serial port. Transmission and reception run on the TXD
// and RXD slots; one event covers a whole frame.
type UART struct {
	ag *agnus.Agnus
	pa *Paula

	// OnTransmit receives every completed outgoing frame. The low bits
	// hold the data including the programmed stop bits
	OnTransmit func(v uint16)

	serper uint16

	// transmit buffer and shift register. the buffer refills the shift
	// register as soon as it empties
	txBuffer  uint16
	txBufFull bool
	txShift   uint16
	txBusy    bool

	// receive buffer. bit 8 carries the stop bit
	rxBuffer uint16
	rxBusy   bool
	ovrun    bool
}

// newUART is the preferred method of initialisation for the UART type.
func newUART(ag *agnus.Agnus, pa *Paula) *UART {
	u := &UART{
		ag: ag,
		pa: pa,
	}
	ag.Sched.RegisterSecHandler(agnus.SlotTXD, u.serveTxd)
	ag.Sched.RegisterSecHandler(agnus.SlotRXD, u.serveRxd)
	return u
}

func (u *UART) reset() {
	u.serper = 0
	u.txBuffer = 0
	u.txBufFull = false
	u.txShift = 0
	u.txBusy = false
	u.rxBuffer = 0
	u.rxBusy = false
	u.ovrun = false
	u.ag.Sched.CancelSec(agnus.SlotTXD)
	u.ag.Sched.CancelSec(agnus.SlotRXD)

	// the transmit path is empty after reset
	u.pa.RaiseIrq(IrqTBE)
}

// frameDuration returns the length of one serial frame in master cycles:
// start bit, eight or nine data bits and one stop bit, each lasting
// SERPER+1 ticks of the DMA clock.
func (u *UART) frameDuration() clocks.Cycle {
	bits := clocks.Cycle(10)
	if u.serper&serperLong != 0 {
		bits = 11
	}
	return bits * clocks.Cycle(u.serper&0x7FFF+1) * clocks.DMADivider
}

// PokeSERPER sets the bit period and the frame length.
func (u *UART) PokeSERPER(v uint16) {
	u.serper = v
}

// PokeSERDAT loads the transmit buffer. An idle shift register takes the
// value immediately and transmission begins.
func (u *UART) PokeSERDAT(v uint16) {
	u.txBuffer = v
	u.txBufFull = true
	if !u.txBusy {
		u.shiftOut()
	}
}

// shiftOut moves the buffer into the shift register, arms the frame-end
// event and reports the empty buffer.
func (u *UART) shiftOut() {
	u.txShift = u.txBuffer
	u.txBufFull = false
	u.txBusy = true
	u.ag.Sched.ScheduleSecRel(agnus.SlotTXD, u.frameDuration(), agnus.UartBit)
	u.pa.RaiseIrq(IrqTBE)
}

// serveTxd completes an outgoing frame.
func (u *UART) serveTxd(_ agnus.EventID, _ int64) {
	u.txBusy = false
	if u.OnTransmit != nil {
		u.OnTransmit(u.txShift)
	}
	if u.txBufFull {
		u.shiftOut()
	}
}

// Receive presents an incoming frame to the receiver. The byte becomes
// visible in SERDATR one frame time later, modelling the shift-in.
func (u *UART) Receive(v uint8) {
	if u.rxBusy {
		return
	}
	u.rxBusy = true
	u.ag.Sched.ScheduleSecRelData(agnus.SlotRXD, u.frameDuration(), agnus.UartBit, int64(v))
}

// serveRxd completes an incoming frame. A frame arriving while the RBF
// interrupt is still pending sets the overrun flag.
func (u *UART) serveRxd(_ agnus.EventID, data int64) {
	u.rxBusy = false
	if u.pa.PeekINTREQR()&(1<<IrqRBF) != 0 {
		u.ovrun = true
	}
	u.rxBuffer = uint16(data) | 0x0100
	u.pa.RaiseIrq(IrqRBF)
}

// PeekSERDATR returns the receive buffer and the line status flags.
func (u *UART) PeekSERDATR() uint16 {
	v := u.rxBuffer & 0x03FF

	// RXD idles high
	if !u.rxBusy {
		v |= 0x0800
	}
	if !u.txBusy {
		v |= 0x1000 // TSRE
	}
	if !u.txBufFull {
		v |= 0x2000 // TBE
	}
	if u.pa.PeekINTREQR()&(1<<IrqRBF) != 0 {
		v |= 0x4000 // RBF
	}
	if u.ovrun {
		v |= 0x8000 // OVRUN
	}
	return v
}

// ClearOverrun drops the overrun flag. The system software clears it by
// acknowledging the RBF interrupt.
func (u *UART) ClearOverrun() {
	u.ovrun = false
}
