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

// Package beam represents and can work with raster beam positions.
//
// A beam position is a measurement of time within a frame. It defines
// *when* something happened (a register was written, a DMA slot was
// granted) relative to the start of the frame. Positions are used
// throughout the emulation for event scheduling and for the sub-line
// register change recorders.
package beam

import (
	"fmt"

	"github.com/amityemu/amity/hardware/clocks"
)

// Dimensions of a PAL frame. The vertical count depends on the frame type:
// long frames have one extra line. Interlaced displays alternate long and
// short frames.
const (
	// number of DMA cycles in a single raster line
	HposCnt = 227

	// number of lines in a long and short PAL frame
	VposCntLongFrame  = 313
	VposCntShortFrame = 312
)

// MasterCyclesPerLine is the length of a raster line in master cycles.
const MasterCyclesPerLine = HposCnt * clocks.DMADivider

// Position is the coordinate of the raster beam. V indexes the raster line
// and H indexes the DMA cycle within the line.
type Position struct {
	V int
	H int
}

func (p Position) String() string {
	return fmt.Sprintf("Line: %03d  Cycle: %03d", p.V, p.H)
}

// Equal returns true if both positions are the same.
func Equal(a, b Position) bool {
	return a.V == b.V && a.H == b.H
}

// GreaterThan returns true if position a is later in the frame than
// position b.
func GreaterThan(a, b Position) bool {
	return a.V > b.V || (a.V == b.V && a.H > b.H)
}

// GreaterThanOrEqual returns true if position a is later in the frame than
// position b or is the same position.
func GreaterThanOrEqual(a, b Position) bool {
	return a.V > b.V || (a.V == b.V && a.H >= b.H)
}

// Valid returns true if the position lies inside a frame of the specified
// length.
func (p Position) Valid(linesInFrame int) bool {
	return p.V >= 0 && p.V < linesInFrame && p.H >= 0 && p.H < HposCnt
}

// ToCycle converts the position to the master cycle at which the beam
// reaches the start of the position's DMA slot. The result is relative to
// the start of the frame.
func (p Position) ToCycle() clocks.Cycle {
	return clocks.Cycle(p.V*HposCnt+p.H) * clocks.DMADivider
}

// FromCycle converts a frame-relative master cycle to a beam position. The
// position identifies the DMA slot the cycle falls inside.
func FromCycle(c clocks.Cycle) Position {
	d := int(c / clocks.DMADivider)
	return Position{
		V: d / HposCnt,
		H: d % HposCnt,
	}
}

// Advance the position by one DMA cycle, wrapping at line end. Returns true
// if the position wrapped to a new line.
func (p *Position) Advance() bool {
	p.H++
	if p.H >= HposCnt {
		p.H = 0
		p.V++
		return true
	}
	return false
}
