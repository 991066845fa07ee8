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
	"bufio"
	"io"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/debugger/terminal"
	"github.com/amityemu/amity/debugger/terminal/colorterm/easyterm"
	"github.com/amityemu/amity/debugger/terminal/colorterm/easyterm/ansi"
)

type readRune struct {
	r   rune
	err error
}

// runeReader pulls runes off the input stream on its own goroutine so
// that TermRead can select between user input and the debugger's event
// channels.
type runeReader struct {
	ch chan readRune
}

func initRuneReader(input io.Reader) runeReader {
	rr := runeReader{ch: make(chan readRune)}
	buf := bufio.NewReader(input)

	go func() {
		for {
			r, _, err := buf.ReadRune()
			rr.ch <- readRune{r: r, err: err}
			if err != nil {
				return
			}
		}
	}()

	return rr
}

// TermRead implements the terminal.Input interface. The terminal is
// placed into raw mode for the duration of the read, giving us line
// editing, history and tab completion.
func (ct *ColorTerminal) TermRead(buffer []byte, prompt terminal.Prompt, events *terminal.ReadEvents) (int, error) {
	if ct.silenced {
		return 0, nil
	}

	if err := ct.RawMode(); err != nil {
		return 0, err
	}
	defer func() {
		_ = ct.CanonicalMode()
	}()

	// input length in bytes and cursor position in bytes
	inputLen := 0
	cursorPos := 0

	// history traversal. len(commandHistory) means "not in history"
	historyIdx := len(ct.commandHistory)

	showInput := func() {
		ct.EasyTerm.TermPrint("\r")
		ct.EasyTerm.TermPrint(ansi.ClearLine)
		ct.TermPrintLine(prompt.Style(), prompt.String())
		ct.EasyTerm.TermPrint(string(buffer[:inputLen]))
		ct.EasyTerm.TermPrint(ansi.CursorMove(cursorPos - inputLen))
	}

	showInput()

	for {
		var rr readRune

		select {
		case rr = <-ct.reader.ch:
			if rr.err != nil {
				return inputLen, rr.err
			}
		case <-events.IntEvents:
			return 0, curated.Errorf(terminal.UserInterrupt)
		case f := <-events.RawEvents:
			f()
			showInput()
			continue
		}

		switch rr.r {
		case easyterm.KeyInterrupt:
			return 0, curated.Errorf(terminal.UserInterrupt)

		case easyterm.KeySuspend:
			_ = ct.CanonicalMode()
			easyterm.SuspendProcess()
			if err := ct.RawMode(); err != nil {
				return 0, err
			}
			showInput()

		case easyterm.KeyTab:
			if ct.tabCompletion != nil {
				s := ct.tabCompletion.Complete(string(buffer[:inputLen]))
				inputLen = copy(buffer, s)
				cursorPos = inputLen
				showInput()
			}

		case easyterm.KeyCarriageReturn:
			ct.EasyTerm.TermPrint("\n")

			if ct.tabCompletion != nil {
				ct.tabCompletion.Reset()
			}

			if inputLen > 0 {
				history := make([]byte, inputLen)
				copy(history, buffer[:inputLen])
				ct.commandHistory = append(ct.commandHistory, command{input: history})
			}

			// terminate the input with a newline, keeping the contract
			// with the caller's tokeniser
			buffer[inputLen] = '\n'
			return inputLen + 1, nil

		case easyterm.KeyEsc:
			rr = <-ct.reader.ch
			if rr.err != nil {
				return inputLen, rr.err
			}
			switch rr.r {
			case easyterm.EscCursor:
				rr = <-ct.reader.ch
				if rr.err != nil {
					return inputLen, rr.err
				}

				switch rr.r {
				case easyterm.CursorUp:
					if historyIdx > 0 {
						historyIdx--
						inputLen = copy(buffer, ct.commandHistory[historyIdx].input)
						cursorPos = inputLen
						showInput()
					}

				case easyterm.CursorDown:
					if historyIdx < len(ct.commandHistory)-1 {
						historyIdx++
						inputLen = copy(buffer, ct.commandHistory[historyIdx].input)
						cursorPos = inputLen
						showInput()
					} else if historyIdx == len(ct.commandHistory)-1 {
						historyIdx++
						inputLen = 0
						cursorPos = 0
						showInput()
					}

				case easyterm.CursorBackward:
					if cursorPos > 0 {
						cursorPos--
						ct.EasyTerm.TermPrint(ansi.CursorBackwardOne)
					}

				case easyterm.CursorForward:
					if cursorPos < inputLen {
						cursorPos++
						ct.EasyTerm.TermPrint(ansi.CursorForwardOne)
					}

				case easyterm.EscHome:
					cursorPos = 0
					showInput()

				case easyterm.EscEnd:
					cursorPos = inputLen
					showInput()

				case easyterm.EscDelete:
					// swallow the closing tilde
					<-ct.reader.ch
					if cursorPos < inputLen {
						copy(buffer[cursorPos:], buffer[cursorPos+1:inputLen])
						inputLen--
						showInput()
					}
				}
			}

		case easyterm.KeyBackspace, 127:
			if cursorPos > 0 {
				copy(buffer[cursorPos-1:], buffer[cursorPos:inputLen])
				cursorPos--
				inputLen--
				showInput()
			}

		default:
			// printable ASCII only. the command language has no use for
			// anything wider
			if rr.r >= 32 && rr.r < 127 && inputLen < len(buffer)-1 {
				copy(buffer[cursorPos+1:], buffer[cursorPos:inputLen])
				buffer[cursorPos] = byte(rr.r)
				cursorPos++
				inputLen++
				showInput()
			}
		}
	}
}
