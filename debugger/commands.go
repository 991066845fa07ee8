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

package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/debugger/terminal"
	"github.com/amityemu/amity/hardware"
	"github.com/amityemu/amity/logger"
)

// sentinel errors for command parsing.
const (
	UnknownCommand = "debugger: unknown command: %v"
	BadArgument    = "debugger: %v: %v"
)

// commandNames is used for tab completion and the HELP summary. Kept in
// the order help is printed in.
var commandNames = []string{
	"HELP", "STEP", "STEPOVER", "RUN", "HALT", "BREAK", "WATCH",
	"INSPECT", "REGISTERS", "MEM", "LOG", "WARP", "SNAPSHOT", "RESTORE",
	"RESET", "QUIT",
}

var commandHelp = map[string]string{
	"HELP":      "print this summary",
	"STEP":      "STEP [n] - execute the next n instructions (default 1)",
	"STEPOVER":  "step but run subroutine calls to completion",
	"RUN":       "run until ctrl-c, a breakpoint or a watch",
	"HALT":      "halt a running machine (same as ctrl-c)",
	"BREAK":     "BREAK [addr] - add breakpoint; no argument lists them",
	"WATCH":     "WATCH [addr] - watch a word of memory; no argument lists",
	"INSPECT":   "print machine information",
	"REGISTERS": "print the CPU register file",
	"MEM":       "MEM addr [len] - dump memory",
	"LOG":       "print recent log entries",
	"WARP":      "toggle warp mode",
	"SNAPSHOT":  "take a snapshot of the machine state",
	"RESTORE":   "restore the most recent snapshot",
	"RESET":     "reset the machine",
	"QUIT":      "leave the debugger",
}

// parseCommand tokenises one line of input and runs the command.
func (dbg *Debugger) parseCommand(input string) error {
	tokens := strings.Fields(input)
	cmd := strings.ToUpper(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "HELP":
		for _, c := range commandNames {
			dbg.printInstr(terminal.StyleHelp, "%-10s %s", c, commandHelp[c])
		}

	case "STEP":
		n := 1
		if len(args) > 0 {
			var err error
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return curated.Errorf(BadArgument, cmd, args[0])
			}
		}
		for i := 0; i < n; i++ {
			if err := dbg.amiga.Step(); err != nil {
				return err
			}
		}
		dbg.printMachineInfo()

	case "STEPOVER":
		if err := dbg.amiga.StepOver(dbg.continueCheck); err != nil {
			return err
		}
		dbg.printMachineInfo()

	case "RUN":
		dbg.amiga.SetCtrlFlag(hardware.CtrlBreakpoints)
		err := dbg.amiga.Run(dbg.continueCheck)
		dbg.amiga.ClearCtrlFlag(hardware.CtrlBreakpoints)
		if err != nil {
			return err
		}
		dbg.printMachineInfo()

	case "HALT":
		dbg.haltRequested = true

	case "BREAK":
		if len(args) == 0 {
			for _, bk := range dbg.amiga.CPU.Breakpoints.List() {
				state := "enabled"
				if !bk.Enabled {
					state = "disabled"
				}
				dbg.printInstr(terminal.StyleMachineInfo,
					"%08x %s (%d hits)", bk.Addr, state, bk.Hits)
			}
			return nil
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return curated.Errorf(BadArgument, cmd, args[0])
		}
		dbg.amiga.CPU.Breakpoints.Add(addr)
		dbg.printInstr(terminal.StyleFeedback, "breakpoint at %08x", addr)

	case "WATCH":
		if len(args) == 0 {
			for _, w := range dbg.watches {
				dbg.printInstr(terminal.StyleMachineInfo,
					"%08x = %04x", w.addr, w.last)
			}
			return nil
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return curated.Errorf(BadArgument, cmd, args[0])
		}
		dbg.watches = append(dbg.watches, watch{
			addr: addr,
			last: dbg.amiga.Mem.SpyPeek16(addr),
		})
		dbg.printInstr(terminal.StyleFeedback, "watching %08x", addr)

	case "INSPECT":
		dbg.printMachineInfo()

	case "REGISTERS":
		dbg.printRegisters()

	case "MEM":
		if len(args) == 0 {
			return curated.Errorf(BadArgument, cmd, "address required")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return curated.Errorf(BadArgument, cmd, args[0])
		}
		length := 64
		if len(args) > 1 {
			length, err = strconv.Atoi(args[1])
			if err != nil || length < 1 {
				return curated.Errorf(BadArgument, cmd, args[1])
			}
		}
		dbg.printMemory(addr, length)

	case "LOG":
		s := &strings.Builder{}
		logger.Tail(s, 20)
		for _, l := range strings.Split(strings.TrimSpace(s.String()), "\n") {
			dbg.printInstr(terminal.StyleLog, "%s", l)
		}

	case "WARP":
		dbg.amiga.SetWarp(!dbg.amiga.Warp())
		dbg.printInstr(terminal.StyleFeedback, "warp: %v", dbg.amiga.Warp())

	case "SNAPSHOT":
		dbg.amiga.SetCtrlFlag(hardware.CtrlSnapshot)
		// the flag is serviced between instructions; a single step gets
		// there immediately
		if err := dbg.amiga.Step(); err != nil {
			return err
		}

	case "RESTORE":
		if err := dbg.amiga.RestoreAutoSnapshot(); err != nil {
			return err
		}
		dbg.printMachineInfo()

	case "RESET":
		dbg.amiga.Reset()
		dbg.printInstr(terminal.StyleFeedback, "machine reset")

	case "QUIT":
		dbg.quit = true

	default:
		return curated.Errorf(UnknownCommand, cmd)
	}

	return nil
}

// parseAddress accepts hexadecimal with or without prefixes.
func parseAddress(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "$")
	v, err := strconv.ParseUint(s, 16, 32)
	return uint32(v), err
}

func (dbg *Debugger) printMachineInfo() {
	dbg.amiga.SetCtrlFlag(hardware.CtrlInspect)
	info := dbg.amiga.Inspection()

	dbg.printInstr(terminal.StyleMachineInfo,
		"frame %d beam %03d/%03d clock %d", info.Frame, info.Beam.V, info.Beam.H, info.Clock)
	dbg.printInstr(terminal.StyleInstruction,
		"PC %08x  opcode %04x", dbg.amiga.CPU.PC(), dbg.amiga.Mem.SpyPeek16(dbg.amiga.CPU.PC()))
}

func (dbg *Debugger) printRegisters() {
	regs := dbg.amiga.CPU.Core().Registers()

	s := &strings.Builder{}
	for i := 0; i < 8; i++ {
		fmt.Fprintf(s, "D%d=%08x ", i, regs.D[i])
		if i == 3 {
			s.WriteString("\n")
		}
	}
	s.WriteString("\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(s, "A%d=%08x ", i, regs.A[i])
		if i == 3 {
			s.WriteString("\n")
		}
	}
	fmt.Fprintf(s, "\nPC=%08x SR=%04x USP=%08x SSP=%08x",
		regs.PC, regs.SR, regs.USP, regs.SSP)

	for _, l := range strings.Split(s.String(), "\n") {
		dbg.printInstr(terminal.StyleMachineInfo, "%s", strings.TrimSpace(l))
	}
}

func (dbg *Debugger) printMemory(addr uint32, length int) {
	for i := 0; i < length; i += 16 {
		s := &strings.Builder{}
		fmt.Fprintf(s, "%08x: ", addr+uint32(i))
		for j := 0; j < 16 && i+j < length; j++ {
			fmt.Fprintf(s, "%02x ", dbg.amiga.Mem.SpyPeek8(addr+uint32(i+j)))
		}
		dbg.printInstr(terminal.StyleMachineInfo, "%s", s.String())
	}
}
