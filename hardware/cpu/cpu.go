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

// Package cpu drives the M68000. The instruction decoder comes from the
// chip library; this package owns the conversion of consumed CPU cycles to
// master cycles, the wait states charged by Agnus for chip-bus contention,
// interrupt servicing and the breakpoint collection.
package cpu

import (
	m68k "github.com/user-none/go-chip-m68k"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/clocks"
)

// Bus is the memory attached to the CPU. SpyPeek32 reads the reset vectors
// without bus side effects.
type Bus interface {
	m68k.Bus
	SpyPeek32(addr uint32) uint32
}

// CPU is the M68000 executor.
type CPU struct {
	core *m68k.CPU
	bus  Bus
	ag   *agnus.Agnus

	// Breakpoints is consulted by the run loop before every instruction
	// when the breakpoint control flag is set.
	Breakpoints *Breakpoints

	// master cycle the CPU has executed up to
	clock clocks.Cycle

	// CPU_SPEED acceleration factor. master cycles per CPU cycle are
	// divided by this
	speed int

	// interrupt level published by Paula. presented to the core before
	// every instruction; the core compares it against the SR mask
	irqLevel int
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(bus Bus, ag *agnus.Agnus) *CPU {
	return &CPU{
		core:        m68k.New(bus),
		bus:         bus,
		ag:          ag,
		Breakpoints: NewBreakpoints(),
		speed:       1,
	}
}

// Reset performs the 68000 reset sequence: the supervisor stack pointer
// and the program counter are fetched from the vector table, which the ROM
// overlay maps to the start of the ROM.
func (mc *CPU) Reset() {
	regs := mc.core.Registers()
	regs.A[7] = mc.bus.SpyPeek32(0)
	regs.PC = mc.bus.SpyPeek32(4)
	regs.SR = 0x2700
	mc.core.SetState(regs)
	mc.clock = 0
}

// Clock returns the master cycle the CPU has executed up to.
func (mc *CPU) Clock() clocks.Cycle {
	return mc.clock
}

// PC returns the current program counter.
func (mc *CPU) PC() uint32 {
	return mc.core.Registers().PC
}

// Core exposes the chip library for register inspection by the debugger
// and for state serialization.
func (mc *CPU) Core() *m68k.CPU {
	return mc.core
}

// SetSpeed sets the CPU_SPEED acceleration factor. speed is 1, 2 or 4.
func (mc *CPU) SetSpeed(speed int) {
	mc.speed = speed
}

// Speed returns the CPU_SPEED acceleration factor.
func (mc *CPU) Speed() int {
	return mc.speed
}

// SetIrqLevel publishes the pending interrupt level. Wired to Paula's
// OnIRQChange.
func (mc *CPU) SetIrqLevel(level int) {
	mc.irqLevel = level
}

// ExecuteInstruction services any pending interrupt, steps one instruction
// and returns the new CPU clock in master cycles. The clock advances by
// the documented cycle count of the instruction, scaled by the speed
// factor, plus the wait states Agnus charged for chip-bus accesses during
// the instruction.
func (mc *CPU) ExecuteInstruction() clocks.Cycle {
	if mc.irqLevel > 0 {
		mc.core.RequestInterrupt(uint8(mc.irqLevel), nil)
	}

	before := mc.core.Cycles()
	mc.core.Step()
	consumed := clocks.Cycle(mc.core.Cycles() - before)

	mc.clock += consumed * clocks.CPUDivider / clocks.Cycle(mc.speed)
	mc.clock += mc.ag.DrainCPUWaits()
	return mc.clock
}
