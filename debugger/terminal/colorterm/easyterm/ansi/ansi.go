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

// Package ansi defines ANSI control codes for styles and colours.
package ansi

import (
	"fmt"
)

// ansi colour numbers.
var colors = map[string]int{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
}

// ansi attribute numbers.
var attributes = map[string]int{
	"bold":      1,
	"underline": 4,
}

// Pens is the table of bright colors to be used for text.
var Pens map[string]string

// DimPens is the table of regular colors to be used for text.
var DimPens map[string]string

// PenStyles is the table of styles to be used for text.
var PenStyles map[string]string

// NormalPen is the CSI sequence for regular text.
const NormalPen = "\033[m"

func init() {
	Pens = make(map[string]string)
	DimPens = make(map[string]string)
	PenStyles = make(map[string]string)

	for name, col := range colors {
		// 9x is the bright pen target, 3x the regular pen target
		Pens[name] = fmt.Sprintf("\033[9%dm", col)
		DimPens[name] = fmt.Sprintf("\033[3%dm", col)
	}

	for name, attr := range attributes {
		PenStyles[name] = fmt.Sprintf("\033[%dm", attr)
	}
}

// ClearLine is the CSI sequence to clear the entire of the current line.
const ClearLine = "\033[2K"

// CursorStore is the CSI sequence to store the current cursor position.
const CursorStore = "\033[s"

// CursorRestore is the CSI sequence to restore the cursor position to a
// previous store.
const CursorRestore = "\033[u"

// CursorForwardOne is the CSI sequence to move the cursor forward (to the
// right for latin fonts) one character.
const CursorForwardOne = "\033[1C"

// CursorBackwardOne is the CSI sequence to move the cursor backward (to
// the left for latin fonts) one character.
const CursorBackwardOne = "\033[1D"

// CursorMove is the CSI sequence to move the cursor n characters forward
// (positive numbers) or n characters backwards (negative numbers).
func CursorMove(n int) string {
	if n < 0 {
		return fmt.Sprintf("\033[%dD", -n)
	} else if n > 0 {
		return fmt.Sprintf("\033[%dC", n)
	}
	return ""
}
