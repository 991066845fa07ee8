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
	"os"
	"os/signal"
	"strings"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/debugger/govern"
	"github.com/amityemu/amity/debugger/terminal"
	"github.com/amityemu/amity/hardware"
	"github.com/amityemu/amity/messages"
)

// maximum length of a command line
const inputBuffer = 255

// Debugger is the basic debugging frontend for the emulation.
type Debugger struct {
	amiga *hardware.Amiga
	term  terminal.Terminal

	events  *terminal.ReadEvents
	watches []watch

	// the debugger keeps the session alive until this is set
	quit bool

	// a request to halt the run loop has been seen. checked by the
	// continue-check given to the run loop
	haltRequested bool
}

// watch is a memory location inspected between instructions while the
// machine is running.
type watch struct {
	addr uint32
	last uint16
}

// New is the preferred method of initialisation for the Debugger type.
// The terminal is initialised here; CleanUp is deferred to the end of the
// Start function.
func New(amiga *hardware.Amiga, term terminal.Terminal) (*Debugger, error) {
	dbg := &Debugger{
		amiga: amiga,
		term:  term,
	}

	if err := dbg.term.Initialise(); err != nil {
		return nil, curated.Errorf("debugger: %v", err)
	}

	dbg.term.RegisterTabCompletion(newTabCompletion())

	dbg.events = &terminal.ReadEvents{
		IntEvents: make(chan os.Signal, 1),
		RawEvents: make(chan func(), 8),
	}
	signal.Notify(dbg.events.IntEvents, os.Interrupt)

	// messages from the machine appear on the terminal as they happen
	amiga.Msg.SetCallback(func(m messages.Message) {
		dbg.printInstr(terminal.StyleFeedback, "%s (%d)", m.Notice, m.Payload)
	})

	return dbg, nil
}

// Start the debugging session. Returns when the user quits.
func (dbg *Debugger) Start() error {
	defer dbg.term.CleanUp()

	if err := dbg.amiga.PowerOn(); err != nil {
		return curated.Errorf("debugger: %v", err)
	}

	buffer := make([]byte, inputBuffer)

	for !dbg.quit {
		prompt := terminal.Prompt{
			Type:    terminal.PromptTypeStep,
			Content: dbg.promptContent(),
		}

		n, err := dbg.term.TermRead(buffer, prompt, dbg.events)
		if err != nil {
			if curated.Is(err, terminal.UserInterrupt) {
				dbg.printInstr(terminal.StyleFeedback, "use QUIT to leave the debugger")
				continue
			}
			return err
		}

		input := strings.TrimSpace(string(buffer[:n]))
		if input == "" {
			continue
		}

		if err := dbg.parseCommand(input); err != nil {
			dbg.printInstr(terminal.StyleError, "%v", err)
		}
	}

	return nil
}

// promptContent summarises where the machine is, for the prompt text.
func (dbg *Debugger) promptContent() string {
	info := dbg.amiga.Inspection()
	return fmt.Sprintf("F%d %03d/%03d PC=%08x",
		info.Frame, info.Beam.V, info.Beam.H, dbg.amiga.CPU.PC())
}

func (dbg *Debugger) printInstr(style terminal.Style, format string, args ...interface{}) {
	dbg.term.TermPrintLine(style, fmt.Sprintf(format, args...))
}

// continueCheck is handed to the run loop. It watches for the interrupt
// signal and for changes to watched memory.
func (dbg *Debugger) continueCheck() (govern.State, error) {
	select {
	case <-dbg.events.IntEvents:
		dbg.haltRequested = true
	case f := <-dbg.events.RawEvents:
		f()
	default:
	}

	if dbg.haltRequested {
		dbg.haltRequested = false
		return govern.Ending, nil
	}

	for i := range dbg.watches {
		w := &dbg.watches[i]
		v := dbg.amiga.Mem.SpyPeek16(w.addr)
		if v != w.last {
			dbg.printInstr(terminal.StyleMachineInfo,
				"watch %08x: %04x -> %04x", w.addr, w.last, v)
			w.last = v
			return govern.Ending, nil
		}
	}

	return govern.Running, nil
}
