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

package denise_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/hardware/denise"
	"github.com/amityemu/amity/test"
)

func newTestDenise(t *testing.T) (*agnus.Agnus, *denise.Denise) {
	t.Helper()
	ag := agnus.NewAgnus()
	ag.Reset()
	d := denise.NewDenise(ag)
	d.Reset()
	return ag, d
}

// finishFrame colorizes one more line and swaps the framebuffers so the
// line under test becomes readable through the stable buffer.
func finishFrame(d *denise.Denise) *denise.FrameBuffer {
	d.BeginOfFrame(true)
	d.EndOfLine()
	return d.Pixels.StableFrame(true)
}

func TestDenise_loresPlayfield(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x2000) // two planes, lores
	d.PokeCOLOR(1, 0x000F)
	d.PokeCOLOR(2, 0x00F0)
	d.PokeCOLOR(3, 0x0F00)

	d.SetBPLxDAT(1, 0xFF00)
	d.SetBPLxDAT(0, 0xF0F0)
	d.EndOfLine()

	fb := finishFrame(d)

	// the fetch lands at pixel 6, two pixels per lores bit
	test.ExpectEquality(t, fb.Pixels[6], 0xFF0000FF)   // colour 3
	test.ExpectEquality(t, fb.Pixels[13], 0xFF0000FF)  // still colour 3
	test.ExpectEquality(t, fb.Pixels[14], 0xFF00FF00)  // colour 2
	test.ExpectEquality(t, fb.Pixels[22], 0xFFFF0000)  // colour 1
	test.ExpectEquality(t, fb.Pixels[30], 0xFF000000)  // colour 0
	test.ExpectEquality(t, fb.Pixels[300], 0xFF000000) // border
}

func TestDenise_dualPlayfieldPriority(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x4400)  // four planes, dual playfield
	d.PokeBPLCON2(0x0040)  // PF2 in front
	d.PokeCOLOR(1, 0x0F00) // playfield 1
	d.PokeCOLOR(9, 0x00F0) // playfield 2

	d.SetBPLxDAT(1, 0x00FF) // playfield 2 covers the right half
	d.SetBPLxDAT(0, 0xFFFF) // playfield 1 covers everything
	d.EndOfLine()

	fb := finishFrame(d)

	// playfield 1 alone on the left, playfield 2 wins on the right
	test.ExpectEquality(t, fb.Pixels[6], 0xFF0000FF)
	test.ExpectEquality(t, fb.Pixels[22], 0xFF00FF00)
}

func TestDenise_dualPlayfieldPF1Front(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x4400)
	d.PokeCOLOR(1, 0x0F00)
	d.PokeCOLOR(9, 0x00F0)

	d.SetBPLxDAT(1, 0x00FF)
	d.SetBPLxDAT(0, 0xFFFF)
	d.EndOfLine()

	fb := finishFrame(d)

	// without PF2PRI playfield 1 covers both halves
	test.ExpectEquality(t, fb.Pixels[6], 0xFF0000FF)
	test.ExpectEquality(t, fb.Pixels[22], 0xFF0000FF)
}

func TestDenise_hamHoldAndModify(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x6800) // six planes, HAM
	d.PokeCOLOR(5, 0x0123)

	// pixels 0..3 load colour 5, pixels 4..7 modify blue to 0xF
	d.SetBPLxDAT(5, 0x0000)
	d.SetBPLxDAT(4, 0x0F00)
	d.SetBPLxDAT(3, 0x0F00)
	d.SetBPLxDAT(2, 0xFF00)
	d.SetBPLxDAT(1, 0x0F00)
	d.SetBPLxDAT(0, 0xFF00)
	d.EndOfLine()

	fb := finishFrame(d)

	test.ExpectEquality(t, fb.Pixels[6], 0xFF332211)  // loaded 0x123
	test.ExpectEquality(t, fb.Pixels[14], 0xFFFF2211) // blue held at 0xF
}

func TestDenise_extraHalfBrite(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x6000) // six planes, no HAM
	d.PokeCOLOR(1, 0x0F00)

	// plane 6 selects the half-brite shadow of colour 1
	d.SetBPLxDAT(5, 0x8000)
	d.SetBPLxDAT(4, 0x0000)
	d.SetBPLxDAT(3, 0x0000)
	d.SetBPLxDAT(2, 0x0000)
	d.SetBPLxDAT(1, 0x0000)
	d.SetBPLxDAT(0, 0x8000)
	d.EndOfLine()

	fb := finishFrame(d)

	test.ExpectEquality(t, fb.Pixels[6], 0xFF000077)
	test.ExpectEquality(t, fb.Pixels[8], 0xFF000000)
}

func TestDenise_spriteOverPlayfield(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x1000)  // one plane
	d.PokeBPLCON2(0x0018)  // playfield priority level 3
	d.PokeCOLOR(1, 0x000F) // playfield
	d.PokeCOLOR(17, 0x0F00)

	// sprite 0 covers lines 0..0 starting at lores pixel 8
	d.PokeSPRPOS(0, 0x0004)
	d.PokeSPRCTL(0, 0x0100)
	d.PokeSPRDATB(0, 0x0000)
	d.PokeSPRDATA(0, 0xFFFF)

	d.SetBPLxDAT(0, 0xFFFF)
	d.EndOfLine()

	fb := finishFrame(d)

	test.ExpectEquality(t, fb.Pixels[10], 0xFFFF0000) // playfield alone
	test.ExpectEquality(t, fb.Pixels[16], 0xFF0000FF) // sprite in front
}

func TestDenise_spriteBehindPlayfield(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeBPLCON0(0x1000)
	d.PokeCOLOR(1, 0x000F)
	d.PokeCOLOR(17, 0x0F00)

	d.PokeSPRPOS(0, 0x0004)
	d.PokeSPRCTL(0, 0x0100)
	d.PokeSPRDATB(0, 0x0000)
	d.PokeSPRDATA(0, 0xFFFF)

	d.SetBPLxDAT(0, 0xFFFF)
	d.EndOfLine()

	fb := finishFrame(d)

	// priority level 0 puts the playfield in front of every sprite, but
	// the sprite still shows where the playfield is transparent
	test.ExpectEquality(t, fb.Pixels[16], 0xFFFF0000)
	test.ExpectEquality(t, fb.Pixels[40], 0xFF0000FF)
}

func TestDenise_attachedSprites(t *testing.T) {
	_, d := newTestDenise(t)

	d.PokeCOLOR(31, 0x0FFF)

	d.PokeSPRPOS(0, 0x0004)
	d.PokeSPRCTL(0, 0x0100)
	d.PokeSPRDATB(0, 0xFFFF)
	d.PokeSPRDATA(0, 0xFFFF)

	d.PokeSPRPOS(1, 0x0004)
	d.PokeSPRCTL(1, 0x0180) // attach bit
	d.PokeSPRDATB(1, 0xFFFF)
	d.PokeSPRDATA(1, 0xFFFF)

	d.EndOfLine()

	fb := finishFrame(d)

	// all four data bits set selects colour 31
	test.ExpectEquality(t, fb.Pixels[16], 0xFFFFFFFF)
}

func TestDenise_collisions(t *testing.T) {
	_, d := newTestDenise(t)
	d.ClxSprSpr = true
	d.ClxSprPlf = true
	d.ClxPlfPlf = true

	// plane 1 must be set, plane 2 must be clear
	d.PokeCLXCON(0x00C1)

	d.PokeBPLCON0(0x1000)
	d.SetBPLxDAT(0, 0xFFFF)

	d.PokeSPRPOS(0, 0x0004)
	d.PokeSPRCTL(0, 0x0100)
	d.PokeSPRDATB(0, 0x0000)
	d.PokeSPRDATA(0, 0xFFFF)

	d.PokeSPRPOS(2, 0x0004)
	d.PokeSPRCTL(2, 0x0100)
	d.PokeSPRDATB(2, 0x0000)
	d.PokeSPRDATA(2, 0xFFFF)

	d.EndOfLine()

	// odd and even playfields both match over the plane 1 pixels, both
	// sprite groups overlap the playfield and each other
	v := d.PeekCLXDAT()
	test.ExpectEquality(t, v, uint16(0x0267))

	// reading clears
	test.ExpectEquality(t, d.PeekCLXDAT(), uint16(0))
}

func TestDenise_midLineColorChange(t *testing.T) {
	ag, d := newTestDenise(t)

	// advance the beam into the line before the write
	ag.Sched.ExecuteUntil(ag.Sched.Clock + 100*clocks.DMADivider)
	d.PokeCOLOR(0, 0x0FFF)
	d.EndOfLine()

	fb := finishFrame(d)

	// the background flips to white at the write position
	test.ExpectEquality(t, fb.Pixels[300], 0xFF000000)
	test.ExpectEquality(t, fb.Pixels[406], 0xFFFFFFFF)
	test.ExpectEquality(t, fb.Pixels[900], 0xFFFFFFFF)
}

func TestDenise_frameSwap(t *testing.T) {
	_, d := newTestDenise(t)

	test.ExpectEquality(t, d.Pixels.Swaps(), int64(0))

	d.EndOfLine()
	d.BeginOfFrame(true)
	d.EndOfLine()
	test.ExpectEquality(t, d.Pixels.Swaps(), int64(1))

	d.BeginOfFrame(true)
	d.EndOfLine()
	test.ExpectEquality(t, d.Pixels.Swaps(), int64(2))
}
