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

package hardware

import (
	"github.com/amityemu/amity/adf"
	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/blitter"
	"github.com/amityemu/amity/hardware/cia"
	"github.com/amityemu/amity/hardware/copper"
	"github.com/amityemu/amity/hardware/cpu"
	"github.com/amityemu/amity/hardware/denise"
	"github.com/amityemu/amity/hardware/drive"
	"github.com/amityemu/amity/hardware/memory"
	"github.com/amityemu/amity/hardware/paula"
	"github.com/amityemu/amity/messages"
	"github.com/amityemu/amity/romfile"
)

// the number of floppy drive units on the bus.
const NumDrives = 4

// sentinal error returned by PowerOn when the machine is not ready.
const (
	PowerOnNotReady = "amiga: not ready for power on: %v"
)

// CIA A port A bit 0 drives the memory overlay.
const ciaaOVL = 0x01

// Amiga is the complete machine. The exported chip fields allow the
// debugger to reach into the machine for inspection. Mutation from outside
// the emulation goroutine must happen between Suspend and Resume calls.
type Amiga struct {
	Msg *messages.Queue

	Agnus   *agnus.Agnus
	Mem     *memory.Memory
	Custom  *memory.Custom
	CPU     *cpu.CPU
	Copper  *copper.Copper
	Blitter *blitter.Blitter
	Paula   *paula.Paula
	Denise  *denise.Denise
	CIAA    *cia.CIA
	CIAB    *cia.CIA

	Drives    [NumDrives]*drive.Drive
	connected [NumDrives]bool

	// a disk waiting for the insert half of a scheduled disk change
	pendingDisk [NumDrives]*adf.Disk

	powered bool

	// the run loop control surface. defined in run.go
	ctrl ctrl

	// the published inspection snapshot. defined in inspect.go
	inspect inspection

	// the auto snapshot ring. defined in snapshot.go
	autoSnapshots snapshotRing
}

// NewAmiga is the preferred method of initialisation for the Amiga type.
// The machine is created powered off with 512KB of chip RAM and df0
// connected. msg may be nil, in which case notifications are discarded.
func NewAmiga(msg *messages.Queue) *Amiga {
	if msg == nil {
		msg = messages.NewQueue()
	}

	amg := &Amiga{
		Msg: msg,
	}

	amg.Agnus = agnus.NewAgnus()
	amg.Mem = memory.NewMemory(amg.Agnus)
	amg.Agnus.SetChipBus(amg.Mem)

	// the custom register page and the Copper refer to one another. the
	// page's chip fields are filled in below
	amg.Custom = &memory.Custom{}
	amg.Copper = copper.NewCopper(amg.Agnus, amg.Mem, amg.Custom)
	amg.Blitter = blitter.NewBlitter(amg.Agnus, amg.Mem)
	amg.Paula = paula.NewPaula(amg.Agnus, amg.Mem)
	amg.Denise = denise.NewDenise(amg.Agnus)
	amg.CIAA = cia.NewCIA(amg.Agnus, agnus.SlotCIAA, "CIA-A")
	amg.CIAB = cia.NewCIA(amg.Agnus, agnus.SlotCIAB, "CIA-B")

	amg.Custom.Agnus = amg.Agnus
	amg.Custom.Copper = amg.Copper
	amg.Custom.Blitter = amg.Blitter
	amg.Custom.Paula = amg.Paula
	amg.Custom.Denise = amg.Denise
	amg.Mem.Attach(amg.Custom, amg.CIAA, amg.CIAB)

	amg.CPU = cpu.NewCPU(amg.Mem, amg.Agnus)

	for nr := range amg.Drives {
		amg.Drives[nr] = drive.NewDrive(nr, msg)
	}
	amg.ConnectDrive(0, true)

	amg.wire()
	amg.ctrl.init()

	return amg
}

// wire connects the callbacks between the chips. None of the chip packages
// import one another; every cross-chip path runs through a function
// registered here.
func (amg *Amiga) wire() {
	// interrupt plumbing. Paula computes the pending level, the CPU
	// presents it to the core before every instruction
	amg.Paula.OnIRQChange = amg.CPU.SetIrqLevel
	amg.CIAA.OnIRQ = func(raised bool) {
		if raised {
			amg.Paula.RaiseIrq(paula.IrqPORTS)
		}
	}
	amg.CIAB.OnIRQ = func(raised bool) {
		if raised {
			amg.Paula.RaiseIrq(paula.IrqEXTER)
		}
	}

	// DMA word routing from the Agnus slot table
	amg.Agnus.ServeAudioDMA = amg.Paula.Audio.ServeDMA
	amg.Agnus.BPLFetch = amg.Denise.SetBPLxDAT
	amg.Agnus.SpriteWord = amg.Denise.SpriteWord

	// raster lifecycle. CIA B's TOD counts raster lines, CIA A's counts
	// frames, standing in for the power supply tick
	amg.Agnus.OnHSync = func(v int) {
		amg.Denise.EndOfLine()
		amg.Paula.Audio.HSync()
		amg.CIAB.TODPulse()
	}
	amg.Agnus.OnVSync = func(longFrame bool) {
		amg.Denise.BeginOfFrame(longFrame)
		amg.Copper.VSyncAction()
		amg.CIAA.TODPulse()
		amg.Paula.RaiseIrq(paula.IrqVERTB)
	}

	// DMACON enable bits owned by chips outside Agnus
	amg.Agnus.OnDMACONChange = amg.dmaconChange

	// blitter completion: the interrupt and the Copper's blitter gate
	amg.Blitter.OnBlitDone = func() {
		amg.Paula.RaiseIrq(paula.IrqBLIT)
	}
	amg.Blitter.OnTerminate = amg.Copper.BlitterDidTerminate
	amg.Copper.BlitterBusy = amg.Blitter.Running

	// CIA A port A: bit 0 is the memory overlay output, bits 2 to 5 read
	// the drive status lines
	amg.CIAA.OnPortAChange = func(old uint8, new uint8) {
		amg.Mem.SetOVL(new&ciaaOVL != 0)
	}
	amg.CIAA.PortAIn = amg.driveStatus

	// CIA B port B carries the drive control lines. the disk controller
	// forwards the write to every connected drive
	amg.CIAB.OnPortBChange = amg.Paula.Disk.PRBDidChange

	// the insert half of a scheduled disk change
	amg.Paula.Disk.OnDiskChange = func(nr int) {
		if amg.pendingDisk[nr] != nil {
			amg.Drives[nr].InsertDisk(amg.pendingDisk[nr])
			amg.pendingDisk[nr] = nil
		}
	}

	// serial output leaves the machine through the message queue. the low
	// byte of the frame is the data
	amg.Paula.UART.OnTransmit = func(v uint16) {
		amg.Msg.Post(messages.NotifySerialOut, int(v&0xFF))
	}
}

// dmaconChange dispatches DMACON enable transitions to the chips that own
// them. Bitplane, sprite and disk DMA are gated inside Agnus itself.
func (amg *Amiga) dmaconChange(old uint16, new uint16) {
	oldEn := old & agnus.DMAConEnable
	newEn := new & agnus.DMAConEnable
	oldFn := old &^ agnus.DMAConEnable
	newFn := new &^ agnus.DMAConEnable

	on := func(bit uint16) bool {
		return newEn != 0 && newFn&bit != 0
	}
	was := func(bit uint16) bool {
		return oldEn != 0 && oldFn&bit != 0
	}

	if on(agnus.DMAConCopEn) != was(agnus.DMAConCopEn) {
		amg.Copper.EnableDMA(on(agnus.DMAConCopEn))
	}
	if on(agnus.DMAConBltEn) != was(agnus.DMAConBltEn) {
		amg.Blitter.EnableDMA(on(agnus.DMAConBltEn))
	}
	for ch := 0; ch < 4; ch++ {
		bit := uint16(agnus.DMAConAud0En) << ch
		if on(bit) != was(bit) {
			amg.Paula.Audio.EnableDMA(ch, on(bit))
		}
	}
}

// driveStatus combines the status lines of the connected drives for CIA A
// port A. The lines are open collector: a drive pulls its line low, so the
// individual values AND together.
func (amg *Amiga) driveStatus() uint8 {
	ext := uint8(0xFF)
	for nr, dv := range amg.Drives {
		if amg.connected[nr] {
			ext &= dv.StatusLines()
		}
	}
	return ext
}

// ConnectDrive attaches or removes a drive unit. A disconnected drive
// keeps any inserted disk but no longer answers on the bus.
func (amg *Amiga) ConnectDrive(nr int, connect bool) {
	if amg.connected[nr] == connect {
		return
	}
	amg.connected[nr] = connect
	if connect {
		amg.Paula.Disk.AttachDrive(nr, amg.Drives[nr])
		amg.Msg.Post(messages.NotifyDriveConnect, nr)
	} else {
		amg.Paula.Disk.AttachDrive(nr, nil)
		amg.Msg.Post(messages.NotifyDriveDisconnect, nr)
	}
}

// DriveConnected returns true if the numbered drive answers on the bus.
func (amg *Amiga) DriveConnected(nr int) bool {
	return amg.connected[nr]
}

// InsertDisk loads a disk into the numbered drive. Swapping a disk while
// the machine is powered goes through the scheduled eject/insert pair so
// the system software sees the change line toggle for a realistic time.
func (amg *Amiga) InsertDisk(nr int, dsk *adf.Disk) error {
	if !amg.connected[nr] {
		return curated.Errorf("amiga: drive df%d: not connected", nr)
	}
	if amg.powered && amg.Drives[nr].HasDisk() {
		amg.Drives[nr].EjectDisk()
		amg.pendingDisk[nr] = dsk
		amg.Paula.Disk.ScheduleDiskChange(nr)
		return nil
	}
	amg.Drives[nr].InsertDisk(dsk)
	return nil
}

// EjectDisk removes the disk from the numbered drive.
func (amg *Amiga) EjectDisk(nr int) {
	amg.Drives[nr].EjectDisk()
}

// LoadROM installs a Kickstart or boot ROM image.
func (amg *Amiga) LoadROM(rom *romfile.ROM) {
	amg.Mem.LoadROM(rom)
	amg.Msg.Post(messages.NotifyConfig, 0)
}

// ReadyToPowerUp checks the preconditions for a power on: a ROM must be
// installed and an AROS replacement ROM needs at least one megabyte of
// RAM, counting chip, slow and fast RAM together. The corresponding notification is posted for
// every failed precondition.
func (amg *Amiga) ReadyToPowerUp() error {
	if !amg.Mem.HasROM() {
		amg.Msg.Post(messages.NotifyROMMissing, 0)
		return curated.Errorf("amiga: no ROM installed")
	}
	if amg.Mem.ROM().Aros() && amg.Mem.RAMSize() < 1024*1024 {
		amg.Msg.Post(messages.NotifyArosRAMLimit, 0)
		return curated.Errorf("amiga: AROS ROM needs at least 1MB of RAM")
	}
	return nil
}

// PowerOn brings the machine up through a cold reset. Fails without side
// effects if the machine is not ready.
func (amg *Amiga) PowerOn() error {
	if amg.powered {
		return nil
	}
	if err := amg.ReadyToPowerUp(); err != nil {
		return curated.Errorf(PowerOnNotReady, err)
	}
	amg.powered = true
	amg.Reset()
	amg.Msg.Post(messages.NotifyPowerOn, 0)
	return nil
}

// PowerOff shuts the machine down. The machine configuration and any
// inserted disks survive.
func (amg *Amiga) PowerOff() {
	if !amg.powered {
		return
	}
	amg.powered = false
	amg.Msg.Post(messages.NotifyPowerOff, 0)
}

// Powered returns true if the machine is powered on.
func (amg *Amiga) Powered() bool {
	return amg.powered
}

// Reset the machine. The reset order matters: memory must have restored
// the ROM overlay before the CPU fetches its reset vectors.
func (amg *Amiga) Reset() {
	amg.Agnus.Reset()
	amg.Copper.Reset()
	amg.Blitter.Reset()
	amg.Paula.Reset()
	amg.Denise.Reset()
	amg.CIAA.Reset()
	amg.CIAB.Reset()
	for nr, dv := range amg.Drives {
		if amg.connected[nr] {
			dv.Reset()
		}
	}
	amg.Mem.Reset()
	amg.CPU.Reset()
	amg.Msg.Post(messages.NotifyReset, 0)
}
