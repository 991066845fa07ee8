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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It
// wraps the termios methods in functions with friendlier names and keeps
// hold of the canonical attributes so the terminal can be restored.
package easyterm

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// EasyTerm is the base type for terminals that require raw mode.
type EasyTerm struct {
	input  *os.File
	output *os.File

	// attributes of the terminal at initialisation, restored by CleanUp
	canAttr unix.Termios
	rawAttr unix.Termios
}

// Initialise the easyterm instance. The attributes of the input terminal
// are recorded so they can be restored later.
func (et *EasyTerm) Initialise(input *os.File, output *os.File) error {
	et.input = input
	et.output = output

	if err := termios.Tcgetattr(et.input.Fd(), &et.canAttr); err != nil {
		return err
	}

	et.rawAttr = et.canAttr
	termios.Cfmakeraw(&et.rawAttr)

	// keep output post-processing so that \n still implies \r
	et.rawAttr.Oflag = et.canAttr.Oflag

	return nil
}

// CleanUp returns the terminal to its initial state.
func (et *EasyTerm) CleanUp() {
	_ = termios.Tcsetattr(et.input.Fd(), termios.TCSAFLUSH, &et.canAttr)
}

// RawMode puts the terminal into raw mode: no line buffering, no echo.
func (et *EasyTerm) RawMode() error {
	return termios.Tcsetattr(et.input.Fd(), termios.TCSAFLUSH, &et.rawAttr)
}

// CanonicalMode returns the terminal to line-buffered input.
func (et *EasyTerm) CanonicalMode() error {
	return termios.Tcsetattr(et.input.Fd(), termios.TCSAFLUSH, &et.canAttr)
}

// TermPrint writes a string to the terminal with no decoration.
func (et *EasyTerm) TermPrint(s string) {
	et.output.WriteString(s)
}

// Flush makes sure the output has hit the terminal.
func (et *EasyTerm) Flush() error {
	return et.output.Sync()
}
