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

// Package drive emulates a 3.5" double density floppy drive. The control
// lines arrive through the CIA B port B observer; the drive reports its
// status on the CIA A port A input lines. The recorded surface comes from
// the adf package and moves under the head one byte per rotation event.
package drive

import (
	"github.com/amityemu/amity/adf"
	"github.com/amityemu/amity/messages"
	"github.com/amityemu/amity/prefs"
)

// CIA B port B control lines, all active low.
const (
	prbStep = 0x01
	prbDir  = 0x02
	prbSide = 0x04
	prbSel0 = 0x08
	prbMtr  = 0x80
)

// CIA A port A status lines, all active low.
const (
	praChange  = 0x04
	praProtect = 0x08
	praTrack0  = 0x10
	praReady   = 0x20
)

// the identification code of a 3.5" double density drive, shifted out on
// the READY line while the motor is off.
const driveID = 0xFFFFFFFF

// Drive is one floppy drive unit.
type Drive struct {
	nr  int
	msg *messages.Queue

	disk     *adf.Disk
	cylinder int
	side     int
	offset   int

	selected bool
	motor    bool

	// the identification protocol: reloaded when the motor starts,
	// shifted by select pulses while the motor is off
	idShifter uint32

	// latched when the disk is removed, cleared by a step pulse with a
	// disk present
	diskChange bool

	// DRIVE_SPEED configuration value. negative selects the turbo model.
	// a prefs value because the frontend can change it while the disk
	// controller is mid-transfer
	speed prefs.Int
}

// NewDrive is the preferred method of initialisation for the Drive type.
func NewDrive(nr int, msg *messages.Queue) *Drive {
	dv := &Drive{
		nr:  nr,
		msg: msg,
	}
	_ = dv.speed.Set(1)
	return dv
}

// Reset the drive mechanics. Any inserted disk stays in.
func (dv *Drive) Reset() {
	dv.cylinder = 0
	dv.side = 0
	dv.offset = 0
	dv.selected = false
	dv.motor = false
	dv.idShifter = 0
}

// Nr returns the drive number.
func (dv *Drive) Nr() int {
	return dv.nr
}

// SetSpeed sets the DRIVE_SPEED acceleration value. Negative values select
// the turbo model.
func (dv *Drive) SetSpeed(speed int) {
	_ = dv.speed.Set(speed)
}

// Speed returns the acceleration factor applied to the rotation period.
func (dv *Drive) Speed() int {
	if s := dv.speed.Get().(int); s > 1 {
		return s
	}
	return 1
}

// Turbo returns true if the drive bypasses the byte-by-byte transfer model.
func (dv *Drive) Turbo() bool {
	return dv.speed.Get().(int) < 0
}

// Selected returns true if the drive's select line is active.
func (dv *Drive) Selected() bool {
	return dv.selected
}

// Spinning returns true if the motor is running.
func (dv *Drive) Spinning() bool {
	return dv.motor
}

// Cylinder returns the head cylinder.
func (dv *Drive) Cylinder() int {
	return dv.cylinder
}

// HasDisk returns true if a disk is inserted.
func (dv *Drive) HasDisk() bool {
	return dv.disk != nil
}

// Disk returns the inserted disk, or nil.
func (dv *Drive) Disk() *adf.Disk {
	return dv.disk
}

// InsertDisk loads a disk. The change latch stays set until the system
// software steps the head.
func (dv *Drive) InsertDisk(dsk *adf.Disk) {
	dv.disk = dsk
	dv.offset = 0
	if dv.msg != nil {
		dv.msg.Post(messages.NotifyDriveInsert, dv.nr)
	}
}

// EjectDisk removes the disk and latches the change line.
func (dv *Drive) EjectDisk() {
	dv.disk = nil
	dv.diskChange = true
	if dv.msg != nil {
		dv.msg.Post(messages.NotifyDriveEject, dv.nr)
	}
}

// sel returns the select line mask of this drive.
func (dv *Drive) sel() uint8 {
	return prbSel0 << uint(dv.nr)
}

// PRBDidChange decodes a CIA B port B write. Side and direction follow the
// lines directly; the motor follows the MTR line on every write while the
// drive is selected; a step pulse moves the head.
func (dv *Drive) PRBDidChange(old uint8, new uint8) {
	wasSelected := dv.selected
	dv.selected = new&dv.sel() == 0

	if !dv.selected {
		// a select pulse while the motor is off clocks the id shifter
		if wasSelected && !dv.motor {
			dv.idShifter <<= 1
		}
		return
	}

	dv.side = 0
	if new&prbSide == 0 {
		dv.side = 1
	}

	motor := new&prbMtr == 0
	if motor != dv.motor {
		dv.setMotor(motor)
	}

	if old&prbStep != 0 && new&prbStep == 0 {
		dv.step(new&prbDir != 0)
	}
}

func (dv *Drive) setMotor(on bool) {
	dv.motor = on
	if on {
		dv.idShifter = driveID
	}
	if dv.msg != nil {
		if on {
			dv.msg.Post(messages.NotifyDriveMotorOn, dv.nr)
		} else {
			dv.msg.Post(messages.NotifyDriveMotorOff, dv.nr)
		}
	}
}

// step moves the head one cylinder. outwards is towards cylinder 0.
func (dv *Drive) step(outwards bool) {
	if outwards {
		if dv.cylinder > 0 {
			dv.cylinder--
		}
	} else {
		if dv.cylinder < adf.NumCylinders-1 {
			dv.cylinder++
		}
	}

	if dv.disk != nil {
		dv.diskChange = false
	}
	if dv.msg != nil {
		dv.msg.Post(messages.NotifyDriveStep, dv.nr)
	}
}

// track returns the surface track under the head.
func (dv *Drive) track() int {
	return dv.cylinder*2 + dv.side
}

// ReadHead returns the byte under the head and advances the head by one
// byte position, wrapping at the end of the revolution.
func (dv *Drive) ReadHead() uint8 {
	if dv.disk == nil {
		return 0xFF
	}
	v := dv.disk.Read(dv.track(), dv.offset)
	dv.advanceHead()
	return v
}

// WriteHead writes a byte at the head position and advances the head.
func (dv *Drive) WriteHead(v uint8) {
	if dv.disk == nil || dv.disk.WriteProtected() {
		return
	}
	dv.disk.Write(dv.track(), dv.offset, v)
	dv.advanceHead()
}

func (dv *Drive) advanceHead() {
	dv.offset++
	if dv.offset >= dv.disk.TrackLen(dv.track()) {
		dv.offset = 0
	}
}

// StatusLines returns the drive's contribution to the CIA A port A input:
// change, write protection, track zero and ready, all active low. An
// unselected drive drives none of the lines.
func (dv *Drive) StatusLines() uint8 {
	v := uint8(0xFF)
	if !dv.selected {
		return v
	}

	if dv.motor {
		if dv.disk != nil {
			v &^= praReady
		}
	} else if dv.idShifter&0x80000000 != 0 {
		// with the motor off, READY presents the id shifter
		v &^= praReady
	}

	if dv.cylinder == 0 {
		v &^= praTrack0
	}
	if dv.disk != nil && dv.disk.WriteProtected() {
		v &^= praProtect
	}
	if dv.disk == nil || dv.diskChange {
		v &^= praChange
	}

	return v
}
