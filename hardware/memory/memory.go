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

package memory

import (
	m68k "github.com/user-none/go-chip-m68k"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/cia"
	"github.com/amityemu/amity/romfile"
)

// RAM size limits in bytes.
const (
	MaxChipRAM = 2048 * 1024
	MaxSlowRAM = 512 * 1024
	MaxFastRAM = 8192 * 1024
)

// sentinel error returned by the allocation functions.
const BadRAMSize = "memory: unsupported RAM size: %v"

// Memory is the 24-bit address space of the machine: the three RAM areas,
// the ROMs, the CIA and custom chip pages and the overlay logic. It
// implements m68k.Bus for the CPU and agnus.ChipBus for the DMA channels.
type Memory struct {
	ag *agnus.Agnus

	chipRAM []uint8
	slowRAM []uint8
	fastRAM []uint8

	rom      *romfile.ROM
	extROM   *romfile.ROM
	extStart uint32 // 0xE0 or 0xF0

	ciaA *cia.CIA
	ciaB *cia.CIA
	rtc  *RTC

	custom *Custom

	// the overlay maps the ROM over address 0 until CIA A port A bit 0 is
	// driven low by the system software
	ovl bool
}

// NewMemory is the preferred method of initialisation for the Memory type.
// The chip registers, the CIAs and the RTC are attached afterwards, before
// the first bus access.
func NewMemory(ag *agnus.Agnus) *Memory {
	return &Memory{
		ag:      ag,
		chipRAM: make([]uint8, 512*1024),
		custom:  &Custom{},
		rtc:     NewRTC(),
	}
}

// Attach connects the chip register page and the CIAs. Must be called once
// during machine assembly.
func (mem *Memory) Attach(custom *Custom, ciaA *cia.CIA, ciaB *cia.CIA) {
	mem.custom = custom
	mem.ciaA = ciaA
	mem.ciaB = ciaB
}

// Reset implements m68k.Bus. The overlay is restored; RAM contents are
// preserved as on the real machine.
func (mem *Memory) Reset() {
	mem.ovl = true
}

// SetOVL sets the ROM overlay. Wired to CIA A port A bit 0, which the
// bootstrap clears once the vector table is in place.
func (mem *Memory) SetOVL(on bool) {
	mem.ovl = on
}

// OVL returns the state of the ROM overlay.
func (mem *Memory) OVL() bool {
	return mem.ovl
}

// AllocChipRAM resizes the chip RAM area. size is in KB.
func (mem *Memory) AllocChipRAM(size int) error {
	switch size {
	case 256, 512, 1024, 2048:
		mem.chipRAM = make([]uint8, size*1024)
	default:
		return curated.Errorf(BadRAMSize, size)
	}
	return nil
}

// AllocSlowRAM resizes the slow RAM area. size is in KB; zero removes it.
func (mem *Memory) AllocSlowRAM(size int) error {
	switch size {
	case 0:
		mem.slowRAM = nil
	case 256, 512:
		mem.slowRAM = make([]uint8, size*1024)
	default:
		return curated.Errorf(BadRAMSize, size)
	}
	return nil
}

// AllocFastRAM resizes the fast RAM area. size is in KB and must be a
// multiple of 64 up to 8192; zero removes it.
func (mem *Memory) AllocFastRAM(size int) error {
	if size < 0 || size > 8192 || size%64 != 0 {
		return curated.Errorf(BadRAMSize, size)
	}
	if size == 0 {
		mem.fastRAM = nil
	} else {
		mem.fastRAM = make([]uint8, size*1024)
	}
	return nil
}

// RAMSize returns the total RAM in bytes over all three areas.
func (mem *Memory) RAMSize() int {
	return len(mem.chipRAM) + len(mem.slowRAM) + len(mem.fastRAM)
}

// LoadROM installs a Kickstart or boot ROM.
func (mem *Memory) LoadROM(rom *romfile.ROM) {
	mem.rom = rom
}

// LoadExtROM installs an extended ROM at the configured start page.
func (mem *Memory) LoadExtROM(rom *romfile.ROM) {
	mem.extROM = rom
}

// HasROM returns true if a boot ROM or Kickstart is installed.
func (mem *Memory) HasROM() bool {
	return mem.rom != nil
}

// ROM returns the installed ROM, or nil.
func (mem *Memory) ROM() *romfile.ROM {
	return mem.rom
}

// SetExtStart selects the extended ROM page. page is 0xE0 or 0xF0.
func (mem *Memory) SetExtStart(page int) error {
	if page != 0xE0 && page != 0xF0 {
		return curated.Errorf(BadRAMSize, page)
	}
	mem.extStart = uint32(page) << 16
	return nil
}

// RTC returns the battery backed clock.
func (mem *Memory) RTC() *RTC {
	return mem.rtc
}

// romPeek8 reads a ROM byte through the Kickstart mirror. A 256k image
// appears at both 0xF80000 and 0xFC0000; a 512k image fills the area.
func (mem *Memory) romPeek8(addr uint32) uint8 {
	if mem.rom == nil {
		return 0xFF
	}
	return mem.rom.Data[int(addr-0xF80000)%len(mem.rom.Data)]
}

// peek8 reads a byte with no side effects other than possible CIA and
// custom register effects. The address has already been masked to 24 bits.
func (mem *Memory) peek8(addr uint32, spy bool) uint8 {
	switch {
	case addr < 0x200000:
		if mem.ovl {
			return mem.romPeek8(0xF80000 + addr%0x80000)
		}
		return mem.chipRAM[addr%uint32(len(mem.chipRAM))]

	case addr < 0xA00000:
		if n := uint32(len(mem.fastRAM)); n > 0 && addr-0x200000 < n {
			return mem.fastRAM[addr-0x200000]
		}
		return 0xFF

	case addr < 0xC00000:
		// CIA A responds on odd addresses, CIA B on even. the register
		// number travels on address lines 8..11
		reg := uint16(addr>>8) & 0xF
		if addr&1 == 1 {
			if mem.ciaA != nil {
				return mem.ciaA.Peek(reg)
			}
		} else {
			if mem.ciaB != nil {
				return mem.ciaB.Peek(reg)
			}
		}
		return 0xFF

	case addr < 0xD80000:
		if n := uint32(len(mem.slowRAM)); n > 0 && addr-0xC00000 < n {
			return mem.slowRAM[addr-0xC00000]
		}
		return 0xFF

	case addr >= 0xDC0000 && addr < 0xDD0000:
		// the clock chip occupies the odd bytes of its page
		if addr&1 == 1 {
			return mem.rtc.Peek(int(addr>>2) & 0xF)
		}
		return 0xFF

	case addr >= 0xDFF000 && addr < 0xE00000:
		reg := uint16(addr) & 0x1FE
		var v uint16
		if spy {
			v = mem.custom.SpyPeek(reg)
		} else {
			v = mem.custom.Peek(reg)
		}
		if addr&1 == 0 {
			return uint8(v >> 8)
		}
		return uint8(v)

	case mem.extROM != nil && addr >= mem.extStart && addr < mem.extStart+uint32(len(mem.extROM.Data)):
		return mem.extROM.Data[addr-mem.extStart]

	case addr >= 0xF80000:
		return mem.romPeek8(addr)
	}

	return 0xFF
}

// poke8 writes a byte. ROM areas ignore writes.
func (mem *Memory) poke8(addr uint32, v uint8) {
	switch {
	case addr < 0x200000:
		if mem.ovl {
			return
		}
		mem.chipRAM[addr%uint32(len(mem.chipRAM))] = v

	case addr < 0xA00000:
		if n := uint32(len(mem.fastRAM)); n > 0 && addr-0x200000 < n {
			mem.fastRAM[addr-0x200000] = v
		}

	case addr < 0xC00000:
		reg := uint16(addr>>8) & 0xF
		if addr&1 == 1 {
			if mem.ciaA != nil {
				mem.ciaA.Poke(reg, v)
			}
		} else {
			if mem.ciaB != nil {
				mem.ciaB.Poke(reg, v)
			}
		}

	case addr < 0xD80000:
		if n := uint32(len(mem.slowRAM)); n > 0 && addr-0xC00000 < n {
			mem.slowRAM[addr-0xC00000] = v
		}

	case addr >= 0xDC0000 && addr < 0xDD0000:
		if addr&1 == 1 {
			mem.rtc.Poke(int(addr>>2)&0xF, v)
		}

	case addr >= 0xDFF000 && addr < 0xE00000:
		// byte writes to custom registers replicate the byte on both
		// halves of the data bus
		mem.custom.Poke(uint16(addr)&0x1FE, uint16(v)<<8|uint16(v))
	}
}

// peek16 reads an aligned word.
func (mem *Memory) peek16(addr uint32, spy bool) uint16 {
	if addr >= 0xDFF000 && addr < 0xE00000 {
		if spy {
			return mem.custom.SpyPeek(uint16(addr) & 0x1FE)
		}
		return mem.custom.Peek(uint16(addr) & 0x1FE)
	}
	return uint16(mem.peek8(addr, spy))<<8 | uint16(mem.peek8(addr+1, spy))
}

func (mem *Memory) poke16(addr uint32, v uint16) {
	if addr >= 0xDFF000 && addr < 0xE00000 {
		mem.custom.Poke(uint16(addr)&0x1FE, v)
		return
	}
	mem.poke8(addr, uint8(v>>8))
	mem.poke8(addr+1, uint8(v))
}

// chipBusAccess charges the wait states of one CPU access to the shared
// chip bus. Fast RAM and ROM are on the CPU's own bus and never stall.
func (mem *Memory) chipBusAccess(addr uint32) {
	if addr < 0x200000 || (addr >= 0xC00000 && addr < 0xE00000) {
		mem.ag.BlockingCPUAccesses()
	}
}

// Read implements m68k.Bus. Long accesses are two bus cycles.
func (mem *Memory) Read(s m68k.Size, addr uint32) uint32 {
	addr &= 0xFFFFFF
	mem.chipBusAccess(addr)

	switch s {
	case m68k.Byte:
		return uint32(mem.peek8(addr, false))
	case m68k.Word:
		return uint32(mem.peek16(addr, false))
	default:
		mem.chipBusAccess(addr + 2)
		return uint32(mem.peek16(addr, false))<<16 | uint32(mem.peek16(addr+2, false))
	}
}

// Write implements m68k.Bus.
func (mem *Memory) Write(s m68k.Size, addr uint32, value uint32) {
	addr &= 0xFFFFFF
	mem.chipBusAccess(addr)

	switch s {
	case m68k.Byte:
		mem.poke8(addr, uint8(value))
	case m68k.Word:
		mem.poke16(addr, uint16(value))
	default:
		mem.chipBusAccess(addr + 2)
		mem.poke16(addr, uint16(value>>16))
		mem.poke16(addr+2, uint16(value))
	}
}

// SpyPeek8 reads a byte with all side effects suppressed. Used by the
// debugger and the disassembler.
func (mem *Memory) SpyPeek8(addr uint32) uint8 {
	return mem.peek8(addr&0xFFFFFF, true)
}

// SpyPeek16 reads a word with all side effects suppressed.
func (mem *Memory) SpyPeek16(addr uint32) uint16 {
	return mem.peek16(addr&0xFFFFFF, true)
}

// SpyPeek32 reads a long with all side effects suppressed.
func (mem *Memory) SpyPeek32(addr uint32) uint32 {
	return uint32(mem.SpyPeek16(addr))<<16 | uint32(mem.SpyPeek16(addr+2))
}

// PeekChip16 implements agnus.ChipBus. DMA sees chip RAM only; the overlay
// does not apply to the chip side of the bus.
func (mem *Memory) PeekChip16(addr uint32) uint16 {
	addr &= 0xFFFFFE
	n := uint32(len(mem.chipRAM))
	return uint16(mem.chipRAM[addr%n])<<8 | uint16(mem.chipRAM[(addr+1)%n])
}

// PokeChip16 implements agnus.ChipBus.
func (mem *Memory) PokeChip16(addr uint32, v uint16) {
	addr &= 0xFFFFFE
	n := uint32(len(mem.chipRAM))
	mem.chipRAM[addr%n] = uint8(v >> 8)
	mem.chipRAM[(addr+1)%n] = uint8(v)
}
