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

package terminal

// Style is used to identify the category of text being sent to the
// Terminal.TermPrintLine() function.
type Style int

// List of terminal styles.
const (
	// input that has been echoed back to the user. some terminal
	// implementations do this automatically and can ignore the entry
	StyleEcho Style = iota

	// help text
	StyleHelp

	// terminal feedback for acknowledged commands
	StyleFeedback

	// information about the machine: register contents, beam position,
	// memory dumps
	StyleMachineInfo

	// the instruction about to be executed
	StyleInstruction

	// entries from the central logger
	StyleLog

	// error messages. printed even when the terminal is silenced
	StyleError

	// the prompt styles
	StylePromptStep
	StylePromptRun
	StylePromptConfirm
)

// IsPrompt returns true if the style is one of the prompt styles. Prompt
// text is not terminated with a newline.
func (sty Style) IsPrompt() bool {
	switch sty {
	case StylePromptStep, StylePromptRun, StylePromptConfirm:
		return true
	}
	return false
}
