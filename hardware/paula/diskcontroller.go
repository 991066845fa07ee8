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
	"github.com/amityemu/amity/logger"
)

// DriveState is the state of the disk DMA engine.
type DriveState int

// List of disk DMA states.
const (
	DriveDMAOff DriveState = iota
	DriveDMAWait
	DriveDMARead
	DriveDMAWrite
	DriveDMAFlush
)

func (s DriveState) String() string {
	return [...]string{"OFF", "WAIT", "READ", "WRITE", "FLUSH"}[s]
}

// Drive is the side of a floppy drive the disk controller talks to. The
// drive package implements it.
type Drive interface {
	// ReadHead returns the byte under the head and advances the head
	ReadHead() uint8

	// WriteHead writes a byte at the head position and advances the head
	WriteHead(v uint8)

	// PRBDidChange decodes the CIA B port B lines: MTR SEL3-0 SIDE DIR
	// STEP
	PRBDidChange(old uint8, new uint8)

	// Selected returns true if the drive's SELx line is active
	Selected() bool

	// Spinning returns true if the motor is on
	Spinning() bool

	// Speed is the acceleration factor applied to the rotation period.
	// always at least one
	Speed() int

	// Turbo drives transfer whole blocks atomically instead of byte by
	// byte
	Turbo() bool
}

// time between two rotation events: the drive delivers one byte every 56
// DMA cycles.
const rotationPeriod = 56 * clocks.DMADivider

// minimum simulated time between the eject and the insert half of a disk
// change, so the system software sees the change line toggle.
const diskChangeDelay = clocks.Cycle(1.5 * 28375160)

// the incoming byte flag of DSKBYTR stays valid for this many master
// cycles after the byte arrived.
const dskbytrValid = 7

// DiskController connects up to four drives to the chip RAM through a six
// byte FIFO.
type DiskController struct {
	ag  *agnus.Agnus
	mem agnus.ChipBus
	pa  *Paula

	// OnDiskChange reports the insert half of a disk change event. carries
	// the drive number
	OnDiskChange func(drive int)

	drives   [4]Drive
	selected int // -1 if no drive is selected

	state   DriveState
	dsklen  uint16
	dsksync uint16

	// the FIFO holds at most six bytes, oldest in the highest occupied
	// byte position
	fifo      uint64
	fifoCount int

	// master cycle at which the most recent byte arrived from the drive
	incomingCycle clocks.Cycle
	incoming      uint8
}

// newDiskController is the preferred method of initialisation for the
// DiskController type.
func newDiskController(ag *agnus.Agnus, mem agnus.ChipBus, pa *Paula) *DiskController {
	dc := &DiskController{
		ag:       ag,
		mem:      mem,
		pa:       pa,
		selected: -1,
	}
	ag.Sched.RegisterSecHandler(agnus.SlotDSK, dc.serveRotation)
	ag.Sched.RegisterSecHandler(agnus.SlotDCH, dc.serveDiskChange)
	ag.ServeDiskDMA = dc.serveDMA
	return dc
}

func (dc *DiskController) reset() {
	dc.state = DriveDMAOff
	dc.dsklen = 0
	dc.dsksync = 0x4489
	dc.clearFifo()
	dc.incomingCycle = agnus.Never
	dc.selected = -1
	dc.ag.Sched.CancelSec(agnus.SlotDSK)
	dc.ag.Sched.CancelSec(agnus.SlotDCH)
}

// State returns the current state of the disk DMA engine.
func (dc *DiskController) State() DriveState {
	return dc.state
}

// AttachDrive connects a drive. nr is the drive number 0 to 3; a nil drive
// disconnects.
func (dc *DiskController) AttachDrive(nr int, dv Drive) {
	dc.drives[nr] = dv
}

// SelectedDrive returns the currently selected drive, or nil.
func (dc *DiskController) SelectedDrive() Drive {
	if dc.selected < 0 {
		return nil
	}
	return dc.drives[dc.selected]
}

// PRBDidChange forwards a CIA B port B write to all connected drives and
// re-derives the selected drive. The rotation event runs only while a
// selected drive is spinning.
func (dc *DiskController) PRBDidChange(old uint8, new uint8) {
	dc.selected = -1
	for nr, dv := range dc.drives {
		if dv == nil {
			continue
		}
		dv.PRBDidChange(old, new)
		if dv.Selected() {
			dc.selected = nr
		}
	}

	dv := dc.SelectedDrive()
	if dv != nil && dv.Spinning() {
		if !dc.ag.Sched.IsSecPending(agnus.SlotDSK) {
			dc.ag.Sched.ScheduleSecRel(agnus.SlotDSK, rotationPeriod/clocks.Cycle(dv.Speed()), agnus.DskRotate)
		}
	} else {
		dc.ag.Sched.CancelSec(agnus.SlotDSK)
	}
}

// ScheduleDiskChange arms the eject/insert event pair for a drive. insert
// runs the OnDiskChange observer after the change delay has passed.
func (dc *DiskController) ScheduleDiskChange(drive int) {
	dc.ag.Sched.ScheduleSecRelData(agnus.SlotDCH, clocks.Cycle(1), agnus.DchEject, int64(drive))
}

// serveDiskChange is the handler for the DCH slot.
func (dc *DiskController) serveDiskChange(id agnus.EventID, data int64) {
	switch id {
	case agnus.DchEject:
		dc.ag.Sched.ScheduleSecRelData(agnus.SlotDCH, diskChangeDelay, agnus.DchInsert, data)
	case agnus.DchInsert:
		if dc.OnDiskChange != nil {
			dc.OnDiskChange(int(data))
		}
	}
}

// PokeDSKLEN implements the double-write arming protocol. A write with bit
// 15 clear disables disk DMA. A write with bit 15 set arms the engine if
// the previous write also had bit 15 set: both writes with bit 14 set
// start a write transfer; otherwise a read, through the WAIT state when
// WORDSYNC gates on the sync word.
func (dc *DiskController) PokeDSKLEN(v uint16) {
	prev := dc.dsklen
	dc.dsklen = v

	if v&0x8000 == 0 {
		dc.setState(DriveDMAOff)
		return
	}

	if prev&0x8000 == 0 {
		// first write of the pair. nothing starts yet
		return
	}

	switch {
	case prev&v&0x4000 != 0:
		dc.setState(DriveDMAWrite)
	case dc.pa.WordSync():
		dc.setState(DriveDMAWait)
	default:
		dc.setState(DriveDMARead)
	}

	dv := dc.SelectedDrive()
	if dv != nil && dv.Turbo() {
		dc.performTurboDMA(dv)
	}
}

// setState transitions the DMA engine. Every transition empties the FIFO.
func (dc *DiskController) setState(s DriveState) {
	dc.state = s
	dc.clearFifo()
}

// PokeDSKSYNC sets the sync word the WORDSYNC mechanism compares against.
func (dc *DiskController) PokeDSKSYNC(v uint16) {
	dc.dsksync = v
}

// PeekDSKBYTR composes the disk status register: bit 15 flags a freshly
// arrived byte in the low eight bits, bit 14 mirrors the DMA enable state,
// bit 13 the transfer direction and bit 12 the sync comparator.
func (dc *DiskController) PeekDSKBYTR() uint16 {
	v := uint16(0)

	if dc.incomingCycle != agnus.Never && dc.ag.Sched.Clock-dc.incomingCycle <= dskbytrValid {
		v |= 0x8000 | uint16(dc.incoming)
	}
	if dc.dsklen&0x8000 != 0 {
		v |= 0x4000
	}
	if dc.dsklen&0x4000 != 0 {
		v |= 0x2000
	}
	if dc.compareFifo() {
		v |= 0x1000
	}
	return v
}

func (dc *DiskController) clearFifo() {
	dc.fifo = 0
	dc.fifoCount = 0
}

// writeFifo pushes one byte. A full FIFO drops its oldest word first; that
// only happens when disk DMA cannot keep up with the rotation events.
func (dc *DiskController) writeFifo(v uint8) {
	if dc.fifoCount == 6 {
		logger.Log(logger.Allow, "disk", "FIFO overflow; oldest word dropped")
		dc.fifoCount = 4
	}
	dc.fifo = dc.fifo<<8 | uint64(v)
	dc.fifoCount++
}

// readFifo pops the oldest byte.
func (dc *DiskController) readFifo() uint8 {
	dc.fifoCount--
	return uint8(dc.fifo >> (8 * dc.fifoCount))
}

// fifoHasWord returns true if at least two bytes are buffered.
func (dc *DiskController) fifoHasWord() bool {
	return dc.fifoCount >= 2
}

// readFifoWord pops the two oldest bytes as one word.
func (dc *DiskController) readFifoWord() uint16 {
	return uint16(dc.readFifo())<<8 | uint16(dc.readFifo())
}

// compareFifo tests the most recent two bytes against DSKSYNC.
func (dc *DiskController) compareFifo() bool {
	return dc.fifoCount >= 2 && uint16(dc.fifo) == dc.dsksync
}

// serveRotation is the handler for the DSK slot. One byte moves between
// the selected drive and the FIFO, then the next rotation event is armed.
func (dc *DiskController) serveRotation(_ agnus.EventID, _ int64) {
	dv := dc.SelectedDrive()
	if dv == nil || !dv.Spinning() {
		return
	}

	switch dc.state {
	case DriveDMAOff, DriveDMAWait, DriveDMARead:
		v := dv.ReadHead()
		dc.incoming = v
		dc.incomingCycle = dc.ag.Sched.Clock

		if dc.state != DriveDMAOff {
			dc.writeFifo(v)
			if dc.compareFifo() {
				dc.pa.RaiseIrq(IrqDSKSYN)
				if dc.state == DriveDMAWait {
					dc.setState(DriveDMARead)
				}
			}
		}

	case DriveDMAWrite, DriveDMAFlush:
		if dc.fifoCount > 0 {
			dv.WriteHead(dc.readFifo())
		} else if dc.state == DriveDMAFlush {
			dc.state = DriveDMAOff
		}
	}

	dc.ag.Sched.ScheduleSecRel(agnus.SlotDSK, rotationPeriod/clocks.Cycle(dv.Speed()), agnus.DskRotate)
}

// serveDMA runs in one of the three disk DMA slots of a raster line. One
// word moves between the FIFO and chip RAM.
func (dc *DiskController) serveDMA() {
	switch dc.state {
	case DriveDMARead:
		if !dc.fifoHasWord() {
			return
		}
		dc.mem.PokeChip16(dc.ag.DskPt(), dc.readFifoWord())
		dc.ag.IncDskPt(2)
		dc.decrementLength()

	case DriveDMAWrite:
		if dc.remainingWords() == 0 {
			return
		}
		if dc.fifoCount > 4 {
			// no room for another word until the drive drains a byte
			return
		}
		v := dc.mem.PeekChip16(dc.ag.DskPt())
		dc.ag.IncDskPt(2)
		dc.writeFifo(uint8(v >> 8))
		dc.writeFifo(uint8(v))
		dc.decrementLength()
	}
}

// decrementLength counts down the low fourteen bits of DSKLEN. At zero the
// block is complete: a read stops immediately, a write drains the FIFO
// through the FLUSH state first.
func (dc *DiskController) decrementLength() {
	dc.dsklen = dc.dsklen&0xC000 | (dc.dsklen-1)&0x3FFF
	if dc.dsklen&0x3FFF != 0 {
		return
	}

	switch dc.state {
	case DriveDMARead:
		dc.state = DriveDMAOff
		dc.pa.RaiseIrq(IrqDSKBLK)
	case DriveDMAWrite:
		dc.state = DriveDMAFlush
		dc.pa.RaiseIrq(IrqDSKBLK)
	}
}

func (dc *DiskController) remainingWords() int {
	return int(dc.dsklen & 0x3FFF)
}

// performTurboDMA transfers the whole block atomically. The DSKBLK
// interrupt arrives after a small fixed delay so the system software sees
// the arming write complete first.
func (dc *DiskController) performTurboDMA(dv Drive) {
	n := dc.remainingWords()

	switch dc.state {
	case DriveDMAWait, DriveDMARead:
		for i := 0; i < n; i++ {
			v := uint16(dv.ReadHead())<<8 | uint16(dv.ReadHead())
			dc.mem.PokeChip16(dc.ag.DskPt(), v)
			dc.ag.IncDskPt(2)
		}
	case DriveDMAWrite:
		for i := 0; i < n; i++ {
			v := dc.mem.PeekChip16(dc.ag.DskPt())
			dc.ag.IncDskPt(2)
			dv.WriteHead(uint8(v >> 8))
			dv.WriteHead(uint8(v))
		}
	default:
		return
	}

	dc.dsklen &= 0xC000
	dc.state = DriveDMAOff
	dc.pa.RaiseIrqDelayed(IrqDSKBLK, 64*clocks.DMADivider)
}
