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

package memory_test

import (
	"testing"

	m68k "github.com/user-none/go-chip-m68k"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/memory"
	"github.com/amityemu/amity/romfile"
	"github.com/amityemu/amity/test"
)

func newMemory() *memory.Memory {
	ag := agnus.NewAgnus()
	mem := memory.NewMemory(ag)
	ag.SetChipBus(mem)
	return mem
}

func kickstart256k() *romfile.ROM {
	img := make([]uint8, 256*1024)
	copy(img, []uint8{0x11, 0x11, 0x4E, 0xF9, 0x00, 0xFC, 0x00})
	img[0x100] = 0x42
	rom, _ := romfile.NewROM(img)
	return rom
}

func TestChipRAM(t *testing.T) {
	mem := newMemory()

	mem.Write(m68k.Word, 0x1000, 0xCAFE)
	test.ExpectEquality(t, mem.SpyPeek16(0x1000), uint16(0xCAFE))
	test.ExpectEquality(t, uint16(mem.Read(m68k.Word, 0x1000)), uint16(0xCAFE))

	// chip RAM mirrors through the whole lower area
	test.ExpectEquality(t, mem.SpyPeek16(0x1000+512*1024), uint16(0xCAFE))

	mem.Write(m68k.Long, 0x2000, 0x01020304)
	test.ExpectEquality(t, mem.SpyPeek32(0x2000), uint32(0x01020304))
	test.ExpectEquality(t, mem.SpyPeek8(0x2003), uint8(0x04))
}

func TestOverlay(t *testing.T) {
	mem := newMemory()
	mem.LoadROM(kickstart256k())

	mem.Write(m68k.Word, 0x0000, 0xCAFE)
	mem.Reset()

	// with the overlay up, address 0 reads the ROM and writes are lost
	test.ExpectEquality(t, mem.OVL(), true)
	test.ExpectEquality(t, mem.SpyPeek16(0x0000), uint16(0x1111))
	mem.Write(m68k.Word, 0x0000, 0xBEEF)
	test.ExpectEquality(t, mem.SpyPeek16(0x0000), uint16(0x1111))

	// dropping the overlay reveals the chip RAM again
	mem.SetOVL(false)
	test.ExpectEquality(t, mem.SpyPeek16(0x0000), uint16(0xCAFE))
}

func TestKickstartMirror(t *testing.T) {
	mem := newMemory()
	mem.LoadROM(kickstart256k())

	// a 256k image appears at 0xF80000 and again at 0xFC0000
	test.ExpectEquality(t, mem.SpyPeek8(0xF80100), uint8(0x42))
	test.ExpectEquality(t, mem.SpyPeek8(0xFC0100), uint8(0x42))

	// ROM ignores writes
	mem.Write(m68k.Byte, 0xF80100, 0x99)
	test.ExpectEquality(t, mem.SpyPeek8(0xF80100), uint8(0x42))
}

func TestSlowRAM(t *testing.T) {
	mem := newMemory()

	// no slow RAM by default: open bus
	test.ExpectEquality(t, mem.SpyPeek8(0xC00000), uint8(0xFF))

	test.ExpectSuccess(t, mem.AllocSlowRAM(512) == nil)
	mem.Write(m68k.Word, 0xC00000, 0x5A5A)
	test.ExpectEquality(t, mem.SpyPeek16(0xC00000), uint16(0x5A5A))

	// beyond the allocated area is still open bus
	test.ExpectEquality(t, mem.SpyPeek8(0xC80000), uint8(0xFF))
}

func TestFastRAM(t *testing.T) {
	mem := newMemory()

	test.ExpectSuccess(t, mem.AllocFastRAM(512) == nil)
	mem.Write(m68k.Long, 0x200000, 0xDEADBEEF)
	test.ExpectEquality(t, mem.SpyPeek32(0x200000), uint32(0xDEADBEEF))

	test.ExpectEquality(t, mem.RAMSize(), (512+512)*1024)
}

func TestAllocValidation(t *testing.T) {
	mem := newMemory()

	test.ExpectFailure(t, mem.AllocChipRAM(300))
	test.ExpectFailure(t, mem.AllocSlowRAM(1024))
	test.ExpectFailure(t, mem.AllocFastRAM(100))
	test.ExpectFailure(t, mem.AllocFastRAM(-64))
	test.ExpectSuccess(t, mem.AllocFastRAM(0) == nil)
}

func TestChipBusIgnoresOverlay(t *testing.T) {
	mem := newMemory()
	mem.LoadROM(kickstart256k())
	mem.Reset()

	// the DMA side of the bus always sees chip RAM, overlay or not
	mem.PokeChip16(0x3000, 0x1234)
	test.ExpectEquality(t, mem.PeekChip16(0x3000), uint16(0x1234))
	test.ExpectEquality(t, mem.OVL(), true)
	test.ExpectInequality(t, mem.SpyPeek16(0x3000), uint16(0x1234))
}
