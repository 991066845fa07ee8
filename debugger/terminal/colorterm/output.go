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

package colorterm

import (
	"github.com/amityemu/amity/debugger/terminal"
	"github.com/amityemu/amity/debugger/terminal/colorterm/easyterm/ansi"
)

// TermPrintLine implements the terminal.Output interface.
func (ct *ColorTerminal) TermPrintLine(style terminal.Style, s string) {
	if ct.silenced && style != terminal.StyleError {
		return
	}

	// the terminal echoes input already
	if style == terminal.StyleEcho {
		return
	}

	ct.EasyTerm.TermPrint("\r")

	switch style {
	case terminal.StyleHelp:
		ct.EasyTerm.TermPrint(ansi.DimPens["white"])
	case terminal.StyleFeedback:
		ct.EasyTerm.TermPrint(ansi.DimPens["white"])
	case terminal.StyleMachineInfo:
		ct.EasyTerm.TermPrint(ansi.Pens["cyan"])
	case terminal.StyleInstruction:
		ct.EasyTerm.TermPrint(ansi.Pens["yellow"])
	case terminal.StyleLog:
		ct.EasyTerm.TermPrint(ansi.DimPens["yellow"])
	case terminal.StyleError:
		ct.EasyTerm.TermPrint(ansi.Pens["red"])
		ct.EasyTerm.TermPrint("* ")
	case terminal.StylePromptStep:
		ct.EasyTerm.TermPrint(ansi.PenStyles["bold"])
	case terminal.StylePromptRun:
		ct.EasyTerm.TermPrint(ansi.DimPens["white"])
	case terminal.StylePromptConfirm:
		ct.EasyTerm.TermPrint(ansi.Pens["blue"])
	}

	ct.EasyTerm.TermPrint(s)
	ct.EasyTerm.TermPrint(ansi.NormalPen)

	// add a newline if print style is anything other than a prompt
	if !style.IsPrompt() {
		ct.EasyTerm.TermPrint("\n")
	}
}
