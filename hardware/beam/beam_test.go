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

package beam_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/beam"
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/test"
)

func TestRoundTrip(t *testing.T) {
	// every DMA slot in a long frame maps to a cycle and back again
	for v := 0; v < beam.VposCntLongFrame; v++ {
		for h := 0; h < beam.HposCnt; h++ {
			p := beam.Position{V: v, H: h}
			c := p.ToCycle()
			q := beam.FromCycle(c)
			if !beam.Equal(p, q) {
				t.Fatalf("round trip failed at %s (got %s)", p, q)
			}
		}
	}
}

func TestRoundTripCycles(t *testing.T) {
	// every slot-aligned master cycle in a frame maps to a position and back
	frameLen := clocks.Cycle(beam.VposCntLongFrame) * beam.MasterCyclesPerLine
	for c := clocks.Cycle(0); c < frameLen; c += clocks.DMADivider {
		test.ExpectEquality(t, beam.FromCycle(c).ToCycle(), c)
	}
}

func TestComparisons(t *testing.T) {
	a := beam.Position{V: 100, H: 50}
	b := beam.Position{V: 100, H: 51}
	c := beam.Position{V: 101, H: 0}

	test.ExpectSuccess(t, beam.GreaterThan(b, a))
	test.ExpectSuccess(t, beam.GreaterThan(c, b))
	test.ExpectFailure(t, beam.GreaterThan(a, a))
	test.ExpectSuccess(t, beam.GreaterThanOrEqual(a, a))
	test.ExpectSuccess(t, beam.Equal(a, a))
	test.ExpectFailure(t, beam.Equal(a, b))
}

func TestAdvance(t *testing.T) {
	p := beam.Position{V: 10, H: beam.HposCnt - 1}
	wrapped := p.Advance()
	test.ExpectSuccess(t, wrapped)
	test.ExpectEquality(t, p.V, 11)
	test.ExpectEquality(t, p.H, 0)

	wrapped = p.Advance()
	test.ExpectFailure(t, wrapped)
	test.ExpectEquality(t, p.H, 1)
}

func TestClockConversions(t *testing.T) {
	test.ExpectEquality(t, clocks.CPUToMaster(1), 4)
	test.ExpectEquality(t, clocks.DMAToMaster(1), 8)
	test.ExpectEquality(t, clocks.CIAToMaster(1), 40)
	test.ExpectEquality(t, clocks.MasterToCPU(40), 10)
	test.ExpectEquality(t, clocks.MasterToDMA(40), 5)
	test.ExpectEquality(t, clocks.MasterToCIA(40), 1)
}
