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
	"github.com/amityemu/amity/hardware/clocks"
)

// Slot is the index of a cell in the primary event table. When two slots
// are due at the same cycle the lower index is served first. The order of
// the constants is therefore a priority list.
type Slot int

// List of primary slots.
const (
	SlotCIAA Slot = iota
	SlotCIAB
	SlotDMA
	SlotCOP
	SlotBLT
	SlotRAS
	SlotINS
	SlotSEC
	NumSlots
)

func (s Slot) String() string {
	switch s {
	case SlotCIAA:
		return "CIAA"
	case SlotCIAB:
		return "CIAB"
	case SlotDMA:
		return "DMA"
	case SlotCOP:
		return "COP"
	case SlotBLT:
		return "BLT"
	case SlotRAS:
		return "RAS"
	case SlotINS:
		return "INS"
	case SlotSEC:
		return "SEC"
	}
	return "unknown"
}

// SecSlot is the index of a cell in the secondary event table. The
// secondary table is reached through the primary SEC slot and carries
// events that fire rarely.
type SecSlot int

// List of secondary slots. The first fourteen are the delayed interrupt
// slots, one per INTREQ source.
const (
	SlotIrqTBE SecSlot = iota
	SlotIrqDSKBLK
	SlotIrqSOFT
	SlotIrqPORTS
	SlotIrqCOPR
	SlotIrqVERTB
	SlotIrqBLIT
	SlotIrqAUD0
	SlotIrqAUD1
	SlotIrqAUD2
	SlotIrqAUD3
	SlotIrqRBF
	SlotIrqDSKSYN
	SlotIrqEXTER
	SlotDSK
	SlotDCH
	SlotTXD
	SlotRXD
	SlotPOT
	SlotSYNC
	NumSecSlots
)

func (s SecSlot) String() string {
	switch s {
	case SlotIrqTBE:
		return "IRQ.TBE"
	case SlotIrqDSKBLK:
		return "IRQ.DSKBLK"
	case SlotIrqSOFT:
		return "IRQ.SOFT"
	case SlotIrqPORTS:
		return "IRQ.PORTS"
	case SlotIrqCOPR:
		return "IRQ.COPR"
	case SlotIrqVERTB:
		return "IRQ.VERTB"
	case SlotIrqBLIT:
		return "IRQ.BLIT"
	case SlotIrqAUD0:
		return "IRQ.AUD0"
	case SlotIrqAUD1:
		return "IRQ.AUD1"
	case SlotIrqAUD2:
		return "IRQ.AUD2"
	case SlotIrqAUD3:
		return "IRQ.AUD3"
	case SlotIrqRBF:
		return "IRQ.RBF"
	case SlotIrqDSKSYN:
		return "IRQ.DSKSYN"
	case SlotIrqEXTER:
		return "IRQ.EXTER"
	case SlotDSK:
		return "DSK"
	case SlotDCH:
		return "DCH"
	case SlotTXD:
		return "TXD"
	case SlotRXD:
		return "RXD"
	case SlotPOT:
		return "POT"
	case SlotSYNC:
		return "SYNC"
	}
	return "unknown"
}

// EventID identifies the work a slot should perform when it fires. An id of
// EvNone is a no-op.
type EventID int

// List of event ids, grouped by the slot they are valid in.
const (
	EvNone EventID = iota

	// CIAA and CIAB slots
	CIAExecute
	CIAWakeup

	// DMA slot
	DMADisk
	DMAAud0
	DMAAud1
	DMAAud2
	DMAAud3
	DMASprite0
	DMASprite1
	DMASprite2
	DMASprite3
	DMASprite4
	DMASprite5
	DMASprite6
	DMASprite7
	DMALores1
	DMALores2
	DMALores3
	DMALores4
	DMALores5
	DMALores6
	DMAHires1
	DMAHires2
	DMAHires3
	DMAHires4

	// COP slot
	CopRequestDMA
	CopFetch
	CopMove
	CopWaitOrSkip
	CopWait
	CopSkip
	CopJmp1
	CopJmp2

	// BLT slot
	BltInit
	BltExecute
	BltFastBlit

	// RAS slot
	RasHsync
	RasDiwstrt
	RasDiwdraw

	// INS slot
	InsAmiga
	InsCPU
	InsMemory
	InsCIA
	InsAgnus
	InsPaula
	InsDenise
	InsEvents

	// SEC slot
	SecTrigger

	// secondary IRQ slots
	IrqSet
	IrqClear

	// DSK slot
	DskRotate

	// DCH slot
	DchEject
	DchInsert

	// TXD and RXD slots
	UartBit

	// POT slot
	PotUpdate

	// SYNC slot
	SyncEOL
)

// EventSlot is a single cell in the primary or secondary event table. A
// trigger cycle of Never marks the slot as empty/disabled.
type EventSlot struct {
	Trigger clocks.Cycle
	ID      EventID

	// aux data carried with the event. meaning depends on the id
	Data int64
}

// Handler is the function invoked when a slot fires. Registered per slot at
// wiring time by the chip that owns the slot.
type Handler func(id EventID, data int64)
