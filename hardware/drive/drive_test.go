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

package drive_test

import (
	"testing"

	"github.com/amityemu/amity/adf"
	"github.com/amityemu/amity/hardware/drive"
	"github.com/amityemu/amity/test"
)

// CIA B port B lines, active low.
const (
	prbStep = 0x01
	prbDir  = 0x02
	prbSide = 0x04
	prbSel0 = 0x08
	prbMtr  = 0x80
)

// CIA A port A lines, active low.
const (
	praChange  = 0x04
	praProtect = 0x08
	praTrack0  = 0x10
	praReady   = 0x20
)

// poker tracks the previous port value so every write presents the edge to
// the drive the way the CIA observer does.
type poker struct {
	dv  *drive.Drive
	prb uint8
}

func newPoker(dv *drive.Drive) *poker {
	return &poker{dv: dv, prb: 0xFF}
}

func (p *poker) poke(v uint8) {
	p.dv.PRBDidChange(p.prb, v)
	p.prb = v
}

// stepPulse clocks the step line low and back high while the drive is
// selected. outwards is towards cylinder zero.
func (p *poker) stepPulse(outwards bool) {
	base := p.prb &^ prbDir
	if outwards {
		base |= prbDir
	}
	p.poke(base &^ prbStep)
	p.poke(base | prbStep)
}

func TestDrive_selection(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()
	p := newPoker(dv)

	test.ExpectEquality(t, dv.Selected(), false)
	p.poke(0xFF &^ prbSel0)
	test.ExpectEquality(t, dv.Selected(), true)
	p.poke(0xFF)
	test.ExpectEquality(t, dv.Selected(), false)

	// drive 1 answers a different select line
	dv1 := drive.NewDrive(1, nil)
	dv1.Reset()
	dv1.PRBDidChange(0xFF, 0xFF&^prbSel0)
	test.ExpectEquality(t, dv1.Selected(), false)
	dv1.PRBDidChange(0xFF, 0xFF&^(prbSel0<<1))
	test.ExpectEquality(t, dv1.Selected(), true)
}

func TestDrive_motor(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()
	p := newPoker(dv)

	p.poke(0xFF &^ prbSel0)
	test.ExpectEquality(t, dv.Spinning(), false)
	p.poke(0xFF &^ (prbSel0 | prbMtr))
	test.ExpectEquality(t, dv.Spinning(), true)
	p.poke(0xFF &^ prbSel0)
	test.ExpectEquality(t, dv.Spinning(), false)

	// the motor line is ignored while the drive is unselected
	p.poke(0xFF &^ prbMtr)
	test.ExpectEquality(t, dv.Spinning(), false)
}

func TestDrive_stepping(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()
	p := newPoker(dv)
	p.poke(0xFF &^ prbSel0)

	test.ExpectEquality(t, dv.Cylinder(), 0)
	p.stepPulse(false)
	test.ExpectEquality(t, dv.Cylinder(), 1)
	p.stepPulse(false)
	test.ExpectEquality(t, dv.Cylinder(), 2)
	p.stepPulse(true)
	test.ExpectEquality(t, dv.Cylinder(), 1)

	// the head stops at the outer and inner limits
	p.stepPulse(true)
	p.stepPulse(true)
	test.ExpectEquality(t, dv.Cylinder(), 0)

	for i := 0; i < 100; i++ {
		p.stepPulse(false)
	}
	test.ExpectEquality(t, dv.Cylinder(), adf.NumCylinders-1)
}

func TestDrive_statusLines(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()
	p := newPoker(dv)

	// an unselected drive pulls no line down
	test.ExpectEquality(t, dv.StatusLines(), uint8(0xFF))

	// no disk: the change line is active, and so is track zero
	p.poke(0xFF &^ prbSel0)
	test.ExpectEquality(t, dv.StatusLines(), uint8(0xFF&^(praChange|praTrack0)))

	// a disk clears the change line; the motor asserts ready
	dv.InsertDisk(adf.NewBlankDisk())
	test.ExpectEquality(t, dv.StatusLines(), uint8(0xFF&^praTrack0))
	p.poke(0xFF &^ (prbSel0 | prbMtr))
	test.ExpectEquality(t, dv.StatusLines(), uint8(0xFF&^(praTrack0|praReady)))

	// write protection
	dv.Disk().SetWriteProtected(true)
	test.ExpectEquality(t, dv.StatusLines(), uint8(0xFF&^(praTrack0|praReady|praProtect)))

	// off track zero
	p.stepPulse(false)
	test.ExpectEquality(t, dv.StatusLines(), uint8(0xFF&^(praReady|praProtect)))
}

func TestDrive_diskChangeLatch(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()
	p := newPoker(dv)
	p.poke(0xFF &^ prbSel0)

	dv.InsertDisk(adf.NewBlankDisk())
	test.ExpectEquality(t, dv.StatusLines()&praChange, uint8(praChange))

	// ejecting latches the change line; it stays down across a re-insert
	dv.EjectDisk()
	test.ExpectEquality(t, dv.StatusLines()&praChange, uint8(0))
	dv.InsertDisk(adf.NewBlankDisk())
	test.ExpectEquality(t, dv.StatusLines()&praChange, uint8(0))

	// a step with a disk present clears the latch
	p.stepPulse(false)
	test.ExpectEquality(t, dv.StatusLines()&praChange, uint8(praChange))
}

func TestDrive_identification(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()
	p := newPoker(dv)

	// run the motor once to load the id shifter
	p.poke(0xFF &^ prbSel0)
	p.poke(0xFF &^ (prbSel0 | prbMtr))
	p.poke(0xFF &^ prbSel0)

	// a double density drive shifts out 32 one bits on the ready line
	for i := 0; i < 32; i++ {
		test.ExpectEquality(t, dv.StatusLines()&praReady, uint8(0))
		p.poke(0xFF)
		p.poke(0xFF &^ prbSel0)
	}
	test.ExpectEquality(t, dv.StatusLines()&praReady, uint8(praReady))
}

func TestDrive_headTransfer(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	dv.Reset()

	// without a disk the head sees pulled-up lines
	test.ExpectEquality(t, dv.ReadHead(), uint8(0xFF))

	dv.InsertDisk(adf.NewBlankDisk())

	// the first bytes of a track are the sector pre-gap
	test.ExpectEquality(t, dv.ReadHead(), uint8(0xAA))
	test.ExpectEquality(t, dv.ReadHead(), uint8(0xAA))
	test.ExpectEquality(t, dv.ReadHead(), uint8(0x44))
	test.ExpectEquality(t, dv.ReadHead(), uint8(0x89))

	// the head wraps at the end of the revolution
	for i := 4; i < adf.TrackSize; i++ {
		dv.ReadHead()
	}
	test.ExpectEquality(t, dv.ReadHead(), uint8(0xAA))

	test.ExpectEquality(t, dv.Disk().Modified(), false)
	dv.WriteHead(0x12)
	test.ExpectEquality(t, dv.Disk().Modified(), true)

	// a protected disk ignores writes
	dv.Disk().SetWriteProtected(true)
	dv.WriteHead(0x34)
	test.ExpectEquality(t, dv.Disk().Read(0, 2), uint8(0x44))
}

func TestDrive_turbo(t *testing.T) {
	dv := drive.NewDrive(0, nil)
	test.ExpectEquality(t, dv.Turbo(), false)
	dv.SetSpeed(-1)
	test.ExpectEquality(t, dv.Turbo(), true)
	dv.SetSpeed(4)
	test.ExpectEquality(t, dv.Turbo(), false)
}
