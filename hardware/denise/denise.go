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
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/beam"
)

// HPixels is the width of one raster line in hires pixels: four pixels per
// DMA cycle.
const HPixels = beam.HposCnt * 4

// VPixels is the height of the framebuffer, enough for a long frame.
const VPixels = beam.VposCntLongFrame

// the line buffers run a little past the visible line so that the last
// fetch and scrolled-out pixels never need a bounds check.
const bufLen = HPixels + 16*4 + 6

// ppos converts a DMA cycle to the first of its four buffer pixels.
func ppos(h int) int {
	return h*4 + 6
}

// depth bits of the z buffer. The five playfield priority levels interleave
// with the sprite pairs so that a plain numeric comparison resolves what is
// in front.
const (
	zLevel0  uint16 = 0x8000
	zSprite0 uint16 = 0x4000
	zSprite1 uint16 = 0x2000
	zLevel1  uint16 = 0x1000
	zSprite2 uint16 = 0x0800
	zSprite3 uint16 = 0x0400
	zLevel2  uint16 = 0x0200
	zSprite4 uint16 = 0x0100
	zSprite5 uint16 = 0x0080
	zLevel3  uint16 = 0x0040
	zSprite6 uint16 = 0x0020
	zSprite7 uint16 = 0x0010
	zLevel4  uint16 = 0x0008
	zDualPF  uint16 = 0x0004
	zPF1     uint16 = 0x0002
	zPF2     uint16 = 0x0001
)

// zSpriteMask covers all eight sprite channels.
const zSpriteMask = zSprite0 | zSprite1 | zSprite2 | zSprite3 |
	zSprite4 | zSprite5 | zSprite6 | zSprite7

// zSprite returns the depth bit of a sprite channel.
func zSprite(nr int) uint16 {
	z := zSprite0 >> (3 * uint(nr/2))
	if nr&1 != 0 {
		z >>= 1
	}
	return z
}

// zLevel returns the depth bit of a playfield priority level.
func zLevel(level int) uint16 {
	if level > 4 {
		level = 4
	}
	return zLevel0 >> (3 * uint(level))
}

// register ids used in the change recorders.
const (
	regBPLCON0 uint16 = 0x100
	regBPLCON1 uint16 = 0x102
	regBPLCON2 uint16 = 0x104
	regCOLOR00 uint16 = 0x180
)

// Denise emulates the Denise custom chip: the bitplane shift registers, the
// sprite serializers, the collision logic and the colour lookup.
//
// Per line, bitplane words arriving through SetBPLxDAT are serialized into
// bBuffer as raw colour indices. At the end of the line translate() resolves
// the playfield mode into iBuffer and zBuffer, the sprites composite on top
// and the pixel engine turns the indices into host pixels.
type Denise struct {
	ag     *agnus.Agnus
	Pixels *PixelEngine

	// collision detection and sprite drawing can be switched off. these
	// are configuration values, not chip state, so Reset leaves them alone
	EmulateSprites bool
	ClxSprSpr      bool
	ClxSprPlf      bool
	ClxPlfPlf      bool

	bplcon0 uint16
	bplcon1 uint16
	bplcon2 uint16

	// register values at the start of the line. translate replays the
	// conChanges ring on top of these
	initialBplcon0 uint16
	initialBplcon2 uint16

	bpldat   [6]uint16
	shiftReg [6]uint32

	// scroll values derived from BPLCON1, as shift register bit offsets
	scrollLoresOdd  int
	scrollLoresEven int
	scrollHiresOdd  int
	scrollHiresEven int

	// sprite register file. vstrt/vstop are kept decoded because the DMA
	// word router needs them on every slot
	sprpos   [8]uint16
	sprctl   [8]uint16
	sprdata  [8]uint16
	sprdatb  [8]uint16
	armed    [8]bool
	sprVStrt [8]int
	sprVStop [8]int

	// sprite visibility window, in buffer pixels, from DIWSTRT/DIWSTOP
	spriteClipBegin int
	spriteClipEnd   int

	clxdat uint16
	clxcon uint16

	joydat [2]uint16

	conChanges recorder

	bBuffer [bufLen]uint8
	iBuffer [bufLen]uint8
	zBuffer [bufLen]uint16

	// the line about to be finished by EndOfLine. advances there and wraps
	// when the pending frame swap is taken
	line         int
	framePending bool
	longFrame    bool
}

// NewDenise is the preferred method of initialisation for the Denise type.
// The chip is driven entirely through Agnus callbacks wired at the machine
// level; it claims no scheduler slots of its own.
func NewDenise(ag *agnus.Agnus) *Denise {
	d := &Denise{
		ag:             ag,
		Pixels:         newPixelEngine(),
		EmulateSprites: true,
	}
	return d
}

// Reset Denise to power-on state. Configuration switches survive.
func (d *Denise) Reset() {
	d.bplcon0 = 0
	d.bplcon1 = 0
	d.bplcon2 = 0
	d.initialBplcon0 = 0
	d.initialBplcon2 = 0
	d.bpldat = [6]uint16{}
	d.shiftReg = [6]uint32{}
	d.scrollLoresOdd = 0
	d.scrollLoresEven = 0
	d.scrollHiresOdd = 0
	d.scrollHiresEven = 0
	d.sprpos = [8]uint16{}
	d.sprctl = [8]uint16{}
	d.sprdata = [8]uint16{}
	d.sprdatb = [8]uint16{}
	d.armed = [8]bool{}
	d.sprVStrt = [8]int{}
	d.sprVStop = [8]int{}
	d.spriteClipBegin = 0
	d.spriteClipEnd = 2 * 0x100
	d.clxdat = 0
	d.clxcon = 0
	d.joydat = [2]uint16{}
	d.conChanges.clear()
	d.bBuffer = [bufLen]uint8{}
	d.iBuffer = [bufLen]uint8{}
	d.zBuffer = [bufLen]uint16{}
	d.line = 0
	d.framePending = false
	d.longFrame = true
	d.Pixels.reset()
}

// bpu returns the bitplane count from BPLCON0 bits 14..12.
func (d *Denise) bpu() int {
	n := int(d.bplcon0>>12) & 0x07
	if n > 6 {
		n = 6
	}
	return n
}

// hires mode from BPLCON0 bit 15.
func (d *Denise) hires() bool {
	return d.bplcon0&0x8000 != 0
}

// ham decides hold-and-modify mode: the HOMOD bit with five or six planes
// and the dual playfield and hires bits clear.
func ham(bplcon0 uint16) bool {
	if bplcon0&0x8C00 != 0x0800 {
		return false
	}
	bpu := int(bplcon0>>12) & 0x07
	return bpu == 5 || bpu == 6
}

// dualPlayfield from BPLCON0 bit 10.
func dualPlayfield(bplcon0 uint16) bool {
	return bplcon0&0x0400 != 0
}

// PokeBPLCON0 sets the display mode bits. The change is recorded so that
// the line translation switches mode at the right pixel.
func (d *Denise) PokeBPLCON0(v uint16) {
	d.conChanges.add(ppos(d.ag.Pos().H), regBPLCON0, v)
	d.bplcon0 = v
}

// PokeBPLCON1 sets the horizontal scroll values. They take effect
// immediately: the serializers read the shifted bits on the next fetch.
func (d *Denise) PokeBPLCON1(v uint16) {
	d.bplcon1 = v
	d.scrollLoresOdd = int(v & 0x0F)
	d.scrollLoresEven = int(v>>4) & 0x0F
	d.scrollHiresOdd = int(v&0x07) << 1
	d.scrollHiresEven = int(v>>4&0x07) << 1
}

// PokeBPLCON2 sets the playfield priorities.
func (d *Denise) PokeBPLCON2(v uint16) {
	d.conChanges.add(ppos(d.ag.Pos().H), regBPLCON2, v)
	d.bplcon2 = v
}

// SetBPLxDAT receives a bitplane word from the Agnus fetch unit or a CPU
// write to a BPLxDAT register. Plane 1 is the trigger: its arrival latches
// all planes into the shift registers and serializes one fetch worth of
// pixels into the line buffer.
func (d *Denise) SetBPLxDAT(plane int, v uint16) {
	d.bpldat[plane] = v
	if plane != 0 {
		return
	}

	for p := 0; p < 6; p++ {
		d.shiftReg[p] = d.shiftReg[p]<<16 | uint32(d.bpldat[p])
	}
	if d.hires() {
		d.drawHires()
	} else {
		d.drawLores()
	}
}

// drawLores serializes 16 bits into 32 buffer pixels, two per bit. The
// scroll values delay the output by indexing into the previous word still
// held in the top half of the shift registers.
func (d *Denise) drawLores() {
	base := ppos(d.ag.Pos().H)
	planes := d.bpu()

	for i := 0; i < 16; i++ {
		var col uint8
		for p := planes - 1; p >= 0; p-- {
			sh := d.scrollLoresEven
			if p&1 == 0 {
				sh = d.scrollLoresOdd
			}
			bit := uint8(d.shiftReg[p]>>uint(15-i+sh)) & 1
			col = col<<1 | bit
		}
		d.bBuffer[base+2*i] = col
		d.bBuffer[base+2*i+1] = col
	}
}

// drawHires serializes 16 bits into 16 buffer pixels.
func (d *Denise) drawHires() {
	base := ppos(d.ag.Pos().H)
	planes := d.bpu()

	for i := 0; i < 16; i++ {
		var col uint8
		for p := planes - 1; p >= 0; p-- {
			sh := d.scrollHiresEven
			if p&1 == 0 {
				sh = d.scrollHiresOdd
			}
			bit := uint8(d.shiftReg[p]>>uint(15-i+sh)) & 1
			col = col<<1 | bit
		}
		d.bBuffer[base+i] = col
	}
}

// prioBits derives the playfield depth values from BPLCON2: the priority
// level bit plus the playfield marker.
func prioBits(bplcon2 uint16) (prio1, prio2 uint16) {
	prio1 = zPF1 | zLevel(int(bplcon2)&0x07)
	prio2 = zPF2 | zLevel(int(bplcon2>>3)&0x07)
	return prio1, prio2
}

// translate resolves the raw bitplane bits of the finished line into colour
// indices and depth values, replaying the recorded BPLCON changes so that
// mid-line mode switches land on the right pixel.
func (d *Denise) translate() {
	bplcon0 := d.initialBplcon0
	bplcon2 := d.initialBplcon2
	prio1, prio2 := prioBits(bplcon2)

	pixel := 0
	for i := 0; i < d.conChanges.n; i++ {
		ch := d.conChanges.changes[i]
		trigger := ch.trigger
		if trigger > bufLen {
			trigger = bufLen
		}

		d.translateSegment(pixel, trigger, bplcon0, bplcon2, prio1, prio2)
		pixel = trigger

		switch ch.reg {
		case regBPLCON0:
			bplcon0 = ch.value
		case regBPLCON2:
			bplcon2 = ch.value
			prio1, prio2 = prioBits(bplcon2)
		}
	}
	d.translateSegment(pixel, bufLen, bplcon0, bplcon2, prio1, prio2)
	d.conChanges.clear()
}

func (d *Denise) translateSegment(from, to int, bplcon0, bplcon2, prio1, prio2 uint16) {
	if dualPlayfield(bplcon0) {
		d.translateDPF(from, to, bplcon2, prio1, prio2)
	} else {
		d.translateSPF(from, to, prio2)
	}
}

// translateSPF handles the single playfield modes, HAM and half-brite
// included: the raw bits already are the colour index.
func (d *Denise) translateSPF(from, to int, prio2 uint16) {
	for i := from; i < to; i++ {
		s := d.bBuffer[i]
		d.iBuffer[i] = s
		if s != 0 {
			d.zBuffer[i] = prio2
		} else {
			d.zBuffer[i] = 0
		}
	}
}

// translateDPF splits the planes into the two playfields and resolves their
// priority from the PF2PRI bit.
func (d *Denise) translateDPF(from, to int, bplcon2, prio1, prio2 uint16) {
	pf2pri := bplcon2&0x0040 != 0

	for i := from; i < to; i++ {
		s := d.bBuffer[i]

		// odd planes 1/3/5 form playfield 1, even planes playfield 2
		i1 := s&1 | s>>1&2 | s>>2&4
		i2 := s>>1&1 | s>>2&2 | s>>3&4

		z := zDualPF
		if i1 != 0 {
			z |= zPF1
		}
		if i2 != 0 {
			z |= zPF2
		}

		switch {
		case pf2pri && i2 != 0:
			d.iBuffer[i] = 8 + i2
			d.zBuffer[i] = z | prio2
		case i1 != 0:
			d.iBuffer[i] = i1
			d.zBuffer[i] = z | prio1
		case i2 != 0:
			d.iBuffer[i] = 8 + i2
			d.zBuffer[i] = z | prio2
		default:
			d.iBuffer[i] = 0
			d.zBuffer[i] = z
		}
	}
}

// EndOfLine finishes the current raster line: translate the playfields,
// composite the sprites, accumulate collisions and hand the line to the
// pixel engine. Wired to the Agnus OnHSync callback.
func (d *Denise) EndOfLine() {
	d.translate()
	d.drawSprites()
	d.checkCollisions()

	d.Pixels.colorize(d.line, &d.iBuffer, &d.zBuffer, ham(d.bplcon0))

	d.bBuffer = [bufLen]uint8{}
	d.iBuffer = [bufLen]uint8{}
	d.zBuffer = [bufLen]uint16{}

	d.initialBplcon0 = d.bplcon0
	d.initialBplcon2 = d.bplcon2

	if d.framePending {
		d.framePending = false
		d.Pixels.swapBuffers(d.longFrame, d.ag.Frame())
		d.line = 0
	} else {
		d.line++
	}
}

// BeginOfFrame schedules the framebuffer swap. The swap itself happens
// after the last line of the outgoing frame has been colorized. Wired to
// the Agnus OnVSync callback.
func (d *Denise) BeginOfFrame(longFrame bool) {
	d.framePending = true
	d.longFrame = longFrame
}

// PokeDIWSTRT sets the display window start. Denise uses the horizontal
// half for the sprite visibility window.
func (d *Denise) PokeDIWSTRT(v uint16) {
	d.spriteClipBegin = 2 * int(v&0xFF)
}

// PokeDIWSTOP sets the display window stop. The horizontal count has bit 8
// implied set.
func (d *Denise) PokeDIWSTOP(v uint16) {
	d.spriteClipEnd = 2 * (int(v&0xFF) | 0x100)
}

// PokeCOLOR sets one of the 32 colour registers. The write is forwarded to
// the pixel engine's change ring so it lands on the right pixel.
func (d *Denise) PokeCOLOR(reg int, v uint16) {
	d.Pixels.recordColor(ppos(d.ag.Pos().H), reg, v)
}

// PeekDENISEID returns the chip identification register. OCS Denise leaves
// the bus floating.
func (d *Denise) PeekDENISEID() uint16 {
	return 0xFFFF
}

// PeekJOY0DAT returns the port 1 mouse counters.
func (d *Denise) PeekJOY0DAT() uint16 {
	return d.joydat[0]
}

// PeekJOY1DAT returns the port 2 mouse counters.
func (d *Denise) PeekJOY1DAT() uint16 {
	return d.joydat[1]
}

// PokeJOYTEST presets the high bits of all four mouse counters.
func (d *Denise) PokeJOYTEST(v uint16) {
	d.joydat[0] = v & 0xFCFC
	d.joydat[1] = v & 0xFCFC
}

// MoveMouse adds a relative movement to the port 1 counters.
func (d *Denise) MoveMouse(dx, dy int) {
	x := uint8(d.joydat[0]) + uint8(dx)
	y := uint8(d.joydat[0]>>8) + uint8(dy)
	d.joydat[0] = uint16(y)<<8 | uint16(x)
}
