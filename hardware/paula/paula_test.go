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

package paula_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/beam"
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/hardware/paula"
	"github.com/amityemu/amity/test"
)

// testRAM is a 64KB chip RAM substitute.
type testRAM struct {
	data [0x10000]uint8
}

func (m *testRAM) PeekChip16(addr uint32) uint16 {
	addr &= 0xFFFF
	return uint16(m.data[addr])<<8 | uint16(m.data[addr+1])
}

func (m *testRAM) PokeChip16(addr uint32, v uint16) {
	addr &= 0xFFFF
	m.data[addr] = uint8(v >> 8)
	m.data[addr+1] = uint8(v)
}

// testDrive plays back a byte stream and records written bytes.
type testDrive struct {
	data    []uint8
	head    int
	written []uint8
	turbo   bool
}

func (dv *testDrive) ReadHead() uint8 {
	v := dv.data[dv.head%len(dv.data)]
	dv.head++
	return v
}

func (dv *testDrive) WriteHead(v uint8) {
	dv.written = append(dv.written, v)
}

func (dv *testDrive) PRBDidChange(_, _ uint8) {}
func (dv *testDrive) Selected() bool          { return true }
func (dv *testDrive) Spinning() bool          { return true }
func (dv *testDrive) Speed() int              { return 1 }
func (dv *testDrive) Turbo() bool             { return dv.turbo }

func newTestPaula(t *testing.T) (*agnus.Agnus, *testRAM, *paula.Paula) {
	t.Helper()
	ag := agnus.NewAgnus()
	ag.Reset()
	mem := &testRAM{}
	ag.SetChipBus(mem)
	pa := paula.NewPaula(ag, mem)
	pa.Reset()
	return ag, mem, pa
}

func TestPaula_irqPriority(t *testing.T) {
	_, _, pa := newTestPaula(t)

	var levels []int
	pa.OnIRQChange = func(level int) {
		levels = append(levels, level)
	}

	pa.PokeINTENA(0x8000 | 0x4000 | 1<<paula.IrqVERTB | 1<<paula.IrqAUD0)

	pa.RaiseIrq(paula.IrqVERTB)
	test.ExpectEquality(t, pa.IrqLevel(), 3)

	// a higher priority source takes over
	pa.RaiseIrq(paula.IrqAUD0)
	test.ExpectEquality(t, pa.IrqLevel(), 4)

	// acknowledging it drops back to the lower level
	pa.PokeINTREQ(1 << paula.IrqAUD0)
	test.ExpectEquality(t, pa.IrqLevel(), 3)

	// clearing the master enable silences everything
	pa.PokeINTENA(0x4000)
	test.ExpectEquality(t, pa.IrqLevel(), 0)

	test.ExpectEquality(t, len(levels), 4)
	test.ExpectEquality(t, levels[1], 4)
}

func TestPaula_irqDelayed(t *testing.T) {
	ag, _, pa := newTestPaula(t)

	pa.PokeINTENA(0x8000 | 0x4000 | 1<<paula.IrqBLIT)

	pa.RaiseIrqDelayed(paula.IrqBLIT, 100)
	test.ExpectEquality(t, pa.IrqLevel(), 0)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100)
	test.ExpectEquality(t, pa.IrqLevel(), 3)
}

func TestDisk_armingProtocol(t *testing.T) {
	_, _, pa := newTestPaula(t)

	// one write with bit 15 set does not arm
	pa.Disk.PokeDSKLEN(0x8004)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAOff)

	// the second does
	pa.Disk.PokeDSKLEN(0x8004)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMARead)

	// bit 15 clear disables
	pa.Disk.PokeDSKLEN(0x0000)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAOff)

	// both writes with bit 14 set start a write transfer
	pa.Disk.PokeDSKLEN(0xC004)
	pa.Disk.PokeDSKLEN(0xC004)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAWrite)
	pa.Disk.PokeDSKLEN(0x0000)

	// WORDSYNC holds a read in the WAIT state
	pa.PokeADKCON(0x8000 | 0x0400)
	pa.Disk.PokeDSKLEN(0x8004)
	pa.Disk.PokeDSKLEN(0x8004)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAWait)
}

func TestDisk_syncWaitRead(t *testing.T) {
	ag, mem, pa := newTestPaula(t)

	dv := &testDrive{data: []uint8{
		0xAA, 0xAA, // garbage before the sync mark
		0x44, 0x89,
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
		0xAA, 0xAA, 0xAA, 0xAA,
	}}
	pa.Disk.AttachDrive(0, dv)
	pa.Disk.PRBDidChange(0xFF, 0x7F)

	ag.PokeDSKPTH(0)
	ag.PokeDSKPTL(0x1000)
	ag.PokeDMACON(agnus.DMAConSetClr | agnus.DMAConEnable | agnus.DMAConDskEn)

	pa.PokeADKCON(0x8000 | 0x0400)
	pa.Disk.PokeDSKLEN(0x8004)
	pa.Disk.PokeDSKLEN(0x8004)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAWait)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 16*beam.MasterCyclesPerLine)

	// the sync mark raised DSKSYN and switched to READ; the four words
	// after it landed in chip RAM and DSKBLK ended the transfer
	test.ExpectInequality(t, pa.PeekINTREQR()&(1<<paula.IrqDSKSYN), 0)
	test.ExpectInequality(t, pa.PeekINTREQR()&(1<<paula.IrqDSKBLK), 0)
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAOff)

	test.ExpectEquality(t, mem.PeekChip16(0x1000), 0x1122)
	test.ExpectEquality(t, mem.PeekChip16(0x1002), 0x3344)
	test.ExpectEquality(t, mem.PeekChip16(0x1004), 0x5566)
	test.ExpectEquality(t, mem.PeekChip16(0x1006), 0x7788)
	test.ExpectEquality(t, ag.DskPt(), 0x1008)
}

func TestDisk_turbo(t *testing.T) {
	ag, mem, pa := newTestPaula(t)

	dv := &testDrive{
		data:  []uint8{0x11, 0x22, 0x33, 0x44, 0x55, 0x66},
		turbo: true,
	}
	pa.Disk.AttachDrive(0, dv)
	pa.Disk.PRBDidChange(0xFF, 0x7F)

	ag.PokeDSKPTH(0)
	ag.PokeDSKPTL(0x2000)

	pa.Disk.PokeDSKLEN(0x8003)
	pa.Disk.PokeDSKLEN(0x8003)

	// the whole block transferred at the arming write
	test.ExpectEquality(t, pa.Disk.State(), paula.DriveDMAOff)
	test.ExpectEquality(t, mem.PeekChip16(0x2000), 0x1122)
	test.ExpectEquality(t, mem.PeekChip16(0x2004), 0x5566)
	test.ExpectEquality(t, ag.DskPt(), 0x2006)

	// DSKBLK arrives after a short delay
	test.ExpectEquality(t, pa.PeekINTREQR()&(1<<paula.IrqDSKBLK), 0)
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 65*clocks.DMADivider)
	test.ExpectInequality(t, pa.PeekINTREQR()&(1<<paula.IrqDSKBLK), 0)
}

func TestDisk_dskbytr(t *testing.T) {
	_, _, pa := newTestPaula(t)

	test.ExpectEquality(t, pa.Disk.PeekDSKBYTR(), 0)

	// DMAON and DISKWRITE reflect the DSKLEN bits
	pa.Disk.PokeDSKLEN(0xC004)
	test.ExpectEquality(t, pa.Disk.PeekDSKBYTR()&0x6000, 0x6000)
	pa.Disk.PokeDSKLEN(0x0000)
	test.ExpectEquality(t, pa.Disk.PeekDSKBYTR()&0x6000, 0)
}

func TestUART_transmit(t *testing.T) {
	ag, _, pa := newTestPaula(t)

	var sent []uint16
	pa.UART.OnTransmit = func(v uint16) {
		sent = append(sent, v)
	}

	pa.UART.PokeSERPER(0x001F)

	// acknowledge the power-on TBE, then check the buffer-empty reload
	// raises it again
	pa.PokeINTREQ(1 << paula.IrqTBE)
	pa.UART.PokeSERDAT(0x159)
	test.ExpectInequality(t, pa.PeekINTREQR()&(1<<paula.IrqTBE), 0)

	// ten bits of 32 DMA clock ticks each
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10*32*clocks.DMADivider)
	test.ExpectEquality(t, len(sent), 1)
	test.ExpectEquality(t, sent[0], 0x159)

	// TSRE and TBE both set once the frame is out
	test.ExpectEquality(t, pa.UART.PeekSERDATR()&0x3000, 0x3000)
}

func TestUART_receive(t *testing.T) {
	ag, _, pa := newTestPaula(t)

	pa.UART.PokeSERPER(0x001F)

	pa.UART.Receive(0x42)
	test.ExpectEquality(t, pa.PeekINTREQR()&(1<<paula.IrqRBF), 0)

	ag.Sched.ExecuteUntil(ag.Sched.Clock + 10*32*clocks.DMADivider)
	test.ExpectInequality(t, pa.PeekINTREQR()&(1<<paula.IrqRBF), 0)

	v := pa.UART.PeekSERDATR()
	test.ExpectEquality(t, v&0x03FF, 0x142)
	test.ExpectInequality(t, v&0x4000, 0)
}

func TestAudio_dmaPlayback(t *testing.T) {
	ag, mem, pa := newTestPaula(t)

	mem.PokeChip16(0x3000, 0x7F80)
	mem.PokeChip16(0x3002, 0x0102)

	ag.PokeAUDLCH(0, 0)
	ag.PokeAUDLCL(0, 0x3000)
	pa.Audio.PokeAUDLEN(0, 2)
	pa.Audio.PokeAUDPER(0, 200)
	pa.Audio.PokeAUDVOL(0, 64)

	pa.Audio.EnableDMA(0, true)
	test.ExpectEquality(t, pa.Audio.ChannelState(0), 0b010)

	// the first fetched word raises the channel interrupt
	pa.Audio.ServeDMA(0)
	test.ExpectEquality(t, pa.Audio.ChannelState(0), 0b011)
	test.ExpectInequality(t, pa.PeekINTREQR()&(1<<paula.IrqAUD0), 0)

	pa.Audio.ServeDMA(0)
	test.ExpectEquality(t, pa.Audio.ChannelState(0), 0b110)

	var left []float32
	pa.Audio.OnSample = func(l, _ float32) {
		left = append(left, l)
	}

	// one line of ticks crosses the period once: the low byte of the
	// first word is on the DAC when the line's host samples are taken
	pa.Audio.HSync()
	test.ExpectEquality(t, len(left), 2)
	test.ExpectEquality(t, left[0], -0.5)
}
