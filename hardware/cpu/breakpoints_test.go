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

package cpu_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/cpu"
	"github.com/amityemu/amity/test"
)

func TestBreakpoints_addRemove(t *testing.T) {
	bk := cpu.NewBreakpoints()

	test.ExpectEquality(t, len(bk.List()), 0)
	test.ExpectEquality(t, bk.Check(0x00fc0000), false)

	bk.Add(0x00fc0000)
	test.ExpectEquality(t, len(bk.List()), 1)
	test.ExpectEquality(t, bk.Check(0x00fc0000), true)

	// a second add of the same address does not create a second entry
	bk.Add(0x00fc0000)
	test.ExpectEquality(t, len(bk.List()), 1)

	test.ExpectEquality(t, bk.Remove(0x00fc0000), true)
	test.ExpectEquality(t, len(bk.List()), 0)
	test.ExpectEquality(t, bk.Remove(0x00fc0000), false)
}

func TestBreakpoints_hitCount(t *testing.T) {
	bk := cpu.NewBreakpoints()
	bk.Add(0x1000)

	bk.Check(0x1000)
	bk.Check(0x2000)
	bk.Check(0x1000)

	b := bk.At(0x1000)
	test.ExpectSuccess(t, b != nil)
	test.ExpectEquality(t, b.Hits, 2)
}

func TestBreakpoints_disabled(t *testing.T) {
	bk := cpu.NewBreakpoints()
	b := bk.Add(0x1000)
	b.Enabled = false

	test.ExpectEquality(t, bk.Check(0x1000), false)

	b.Enabled = true
	test.ExpectEquality(t, bk.Check(0x1000), true)
}

func TestBreakpoints_soft(t *testing.T) {
	bk := cpu.NewBreakpoints()

	// a soft breakpoint triggers like a normal one but does not appear in
	// the list
	bk.SetSoft(0x4000)
	test.ExpectEquality(t, len(bk.List()), 0)
	test.ExpectEquality(t, bk.Check(0x4000), true)

	bk.ClearSoft()
	test.ExpectEquality(t, bk.Check(0x4000), false)
}
