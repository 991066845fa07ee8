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

package hardware_test

import (
	"testing"

	"github.com/amityemu/amity/debugger/govern"
	"github.com/amityemu/amity/hardware"
	"github.com/amityemu/amity/romfile"
	"github.com/amityemu/amity/test"
)

// newTestMachine builds a powered machine around a 256k image whose entry
// point is a branch-to-self at 0x00FC0010. Stepping the machine executes
// that one branch over and over, which is enough to drive the chipset.
func newTestMachine(t *testing.T) *hardware.Amiga {
	t.Helper()

	img := make([]uint8, 256*1024)
	copy(img, []uint8{0x11, 0x11, 0x4E, 0xF9, 0x00, 0xFC, 0x00, 0x10})
	img[0x10] = 0x60
	img[0x11] = 0xFE

	rom, err := romfile.NewROM(img)
	if err != nil {
		t.Fatal(err)
	}

	amg := hardware.NewAmiga(nil)
	amg.LoadROM(rom)
	if err := amg.PowerOn(); err != nil {
		t.Fatal(err)
	}

	return amg
}

func TestStep(t *testing.T) {
	amg := newTestMachine(t)

	test.ExpectEquality(t, amg.CPU.PC(), uint32(0x00FC0010))

	// the branch lands on itself
	test.ExpectSuccess(t, amg.Step() == nil)
	test.ExpectEquality(t, amg.CPU.PC(), uint32(0x00FC0010))

	// time passes all the same
	test.ExpectSuccess(t, amg.CPU.Clock() > 0)
}

func TestRunForFrameCount(t *testing.T) {
	amg := newTestMachine(t)
	amg.SetWarp(true)

	start := amg.Agnus.Frame()
	test.ExpectSuccess(t, amg.RunForFrameCount(2, nil) == nil)
	test.ExpectEquality(t, amg.Agnus.Frame(), start+2)
}

func TestRun_continueCheckEnds(t *testing.T) {
	amg := newTestMachine(t)
	amg.SetWarp(true)

	count := 0
	err := amg.Run(func() (govern.State, error) {
		count++
		if count >= 100 {
			return govern.Ending, nil
		}
		return govern.Running, nil
	})
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, count, 100)
}

func TestRun_breakpoint(t *testing.T) {
	amg := newTestMachine(t)
	amg.SetWarp(true)

	amg.CPU.Breakpoints.Add(0x00FC0010)
	amg.SetCtrlFlag(hardware.CtrlBreakpoints)
	defer amg.ClearCtrlFlag(hardware.CtrlBreakpoints)

	// the run loop halts as soon as the breakpoint is seen
	err := amg.Run(nil)
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, amg.CPU.PC(), uint32(0x00FC0010))
	test.ExpectSuccess(t, amg.CPU.Breakpoints.At(0x00FC0010).Hits > 0)
}

func TestRun_powerRequired(t *testing.T) {
	amg := hardware.NewAmiga(nil)
	test.ExpectFailure(t, amg.Run(nil))
}
