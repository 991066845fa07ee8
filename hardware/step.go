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
	"github.com/amityemu/amity/debugger/govern"
)

// Step the machine forward by one CPU instruction. The chips catch up to
// the cycle the instruction ends on.
func (amg *Amiga) Step() error {
	target := amg.CPU.ExecuteInstruction()
	amg.Agnus.Sched.ExecuteUntil(target)
	return nil
}

// StepOver steps the machine but treats a subroutine call as a single
// instruction: a soft breakpoint is armed at the return address and the
// machine runs until it is reached. Any other instruction steps normally.
func (amg *Amiga) StepOver(continueCheck func() (govern.State, error)) error {
	pc := amg.CPU.PC()
	length := callLength(amg.Mem.SpyPeek16(pc))
	if length == 0 {
		return amg.Step()
	}

	amg.CPU.Breakpoints.SetSoft(pc + length)
	amg.SetCtrlFlag(CtrlBreakpoints)
	return amg.Run(continueCheck)
}

// callLength returns the byte length of a subroutine call instruction, or
// zero if the opcode is not a call. Covers JSR with its seven effective
// address modes and both forms of BSR.
func callLength(opcode uint16) uint32 {
	// BSR: short form embeds the displacement, long form takes an
	// extension word
	if opcode&0xFF00 == 0x6100 {
		if opcode&0x00FF == 0 {
			return 4
		}
		return 2
	}

	// JSR <ea>
	if opcode&0xFFC0 != 0x4E80 {
		return 0
	}
	mode := (opcode >> 3) & 0x7
	reg := opcode & 0x7
	switch mode {
	case 2: // (An)
		return 2
	case 5: // (d16,An)
		return 4
	case 6: // (d8,An,Xn)
		return 4
	case 7:
		switch reg {
		case 0: // (xxx).W
			return 4
		case 1: // (xxx).L
			return 6
		case 2: // (d16,PC)
			return 4
		case 3: // (d8,PC,Xn)
			return 4
		}
	}
	return 0
}
