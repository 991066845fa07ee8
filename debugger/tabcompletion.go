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
	"strings"
)

// tabCompletion cycles through the commands that match the last word on
// the line. Repeated presses of the tab key walk the candidate list.
type tabCompletion struct {
	matches []string
	idx     int

	// the input that generated the current match list. a change of input
	// starts a fresh cycle
	lastGuess string
}

func newTabCompletion() *tabCompletion {
	return &tabCompletion{}
}

// Complete implements the terminal.TabCompletion interface.
func (tc *tabCompletion) Complete(input string) string {
	if tc.matches != nil && input == tc.lastGuess {
		tc.idx++
		if tc.idx >= len(tc.matches) {
			tc.idx = 0
		}
		tc.lastGuess = tc.matches[tc.idx]
		return tc.lastGuess
	}

	// completion only operates on the command word itself
	if strings.Contains(strings.TrimSpace(input), " ") {
		tc.Reset()
		return input
	}

	prefix := strings.ToUpper(strings.TrimSpace(input))

	tc.matches = tc.matches[:0]
	for _, c := range commandNames {
		if strings.HasPrefix(c, prefix) {
			tc.matches = append(tc.matches, c)
		}
	}

	if len(tc.matches) == 0 {
		tc.Reset()
		return input
	}

	tc.idx = 0
	tc.lastGuess = tc.matches[0]
	return tc.lastGuess
}

// Reset implements the terminal.TabCompletion interface.
func (tc *tabCompletion) Reset() {
	tc.matches = nil
	tc.idx = 0
	tc.lastGuess = ""
}
