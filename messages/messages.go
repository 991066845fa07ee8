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

package messages

// Notice describes events raised by the emulation that change how it should
// be presented. These notifications can be used to present additional
// information to the user.
type Notice string

// List of defined notifications.
const (
	// configuration of the emulated machine has changed
	NotifyConfig Notice = "NotifyConfig"

	// power state transitions
	NotifyPowerOn  Notice = "NotifyPowerOn"
	NotifyPowerOff Notice = "NotifyPowerOff"
	NotifyRun      Notice = "NotifyRun"
	NotifyPause    Notice = "NotifyPause"
	NotifyReset    Notice = "NotifyReset"

	// warp mode transitions
	NotifyWarpOn  Notice = "NotifyWarpOn"
	NotifyWarpOff Notice = "NotifyWarpOff"

	// a Kickstart image could not be found at power on
	NotifyROMMissing Notice = "NotifyROMMissing"

	// an AROS replacement ROM is installed but the machine has less than
	// one megabyte of RAM
	NotifyArosRAMLimit Notice = "NotifyArosRAMLimit"

	// disk drive activity. the payload is the drive number
	NotifyDriveConnect    Notice = "NotifyDriveConnect"
	NotifyDriveDisconnect Notice = "NotifyDriveDisconnect"
	NotifyDriveInsert     Notice = "NotifyDriveInsert"
	NotifyDriveEject      Notice = "NotifyDriveEject"
	NotifyDriveMotorOn    Notice = "NotifyDriveMotorOn"
	NotifyDriveMotorOff   Notice = "NotifyDriveMotorOff"
	NotifyDriveStep       Notice = "NotifyDriveStep"

	// disk DMA has started or ended. the payload is the drive number
	NotifyDiskBlockStarted Notice = "NotifyDiskBlockStarted"
	NotifyDiskBlockEnded   Notice = "NotifyDiskBlockEnded"

	// the supervisor has halted the emulation at a breakpoint. the payload
	// is the program counter value at the halt
	NotifyBreakpointReached Notice = "NotifyBreakpointReached"

	// automatic snapshot activity
	NotifyAutoSnapshotTaken    Notice = "NotifyAutoSnapshotTaken"
	NotifyAutoSnapshotRestored Notice = "NotifyAutoSnapshotRestored"

	// serial port output is available from the emulated machine
	NotifySerialOut Notice = "NotifySerialOut"

	// a frame has completed. not sent through the queue for every frame,
	// only when a frame observer has been requested
	NotifyFrame Notice = "NotifyFrame"
)

// Message pairs a Notice with its payload. The meaning of the payload
// depends on the notice. For many notices it is unused and will be zero.
type Message struct {
	Notice  Notice
	Payload int
}

// Notify is used for direct communication between the hardware and the
// supervising emulation package. Delivery is synchronous and on the
// emulation goroutine.
type Notify interface {
	Notify(notice Notice) error
}
