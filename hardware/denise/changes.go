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

package denise

import (
	"github.com/amityemu/amity/logger"
)

// change is one recorded register write, stamped with the pixel position
// it takes effect at.
type change struct {
	trigger int
	reg     uint16
	value   uint16
}

// the recorder stores this many changes per line before it starts
// dropping.
const recorderLen = 128

// recorder collects the register writes of one raster line so they can be
// replayed at pixel resolution when the line is translated.
type recorder struct {
	changes [recorderLen]change
	n       int
}

// add appends a change. Triggers arrive in non-decreasing order because
// they follow the beam.
func (rec *recorder) add(trigger int, reg uint16, value uint16) {
	if rec.n >= recorderLen {
		logger.Log(logger.Allow, "denise", "register change recorder full; change dropped")
		return
	}
	rec.changes[rec.n] = change{trigger: trigger, reg: reg, value: value}
	rec.n++
}

// clear empties the recorder for the next line.
func (rec *recorder) clear() {
	rec.n = 0
}
