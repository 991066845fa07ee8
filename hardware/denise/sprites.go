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

// SpriteWord receives one word from an Agnus sprite DMA slot. Outside the
// sprite's vertical range the two slots of a line carry the position and
// control words; inside they carry the data words, and writing the A data
// word arms the serializer. Wired to the Agnus SpriteWord callback.
func (d *Denise) SpriteWord(sprite int, slot int, v uint16) {
	line := d.ag.Pos().V

	if line >= d.sprVStrt[sprite] && line < d.sprVStop[sprite] {
		if slot == 0 {
			d.PokeSPRDATA(sprite, v)
		} else {
			d.PokeSPRDATB(sprite, v)
		}
		return
	}

	if slot == 0 {
		d.PokeSPRPOS(sprite, v)
	} else {
		d.PokeSPRCTL(sprite, v)
	}
}

// updateSpriteRange decodes the vertical range from the position and
// control words, including the ninth bits held in SPRxCTL.
func (d *Denise) updateSpriteRange(nr int) {
	d.sprVStrt[nr] = int(d.sprpos[nr]>>8) | int(d.sprctl[nr]&0x04)<<6
	d.sprVStop[nr] = int(d.sprctl[nr]>>8) | int(d.sprctl[nr]&0x02)<<7
}

// sprHPos returns the horizontal start of a sprite in lores pixels,
// combining the eight bits of SPRxPOS with the low bit of SPRxCTL.
func (d *Denise) sprHPos(nr int) int {
	return int(d.sprpos[nr]&0xFF)<<1 | int(d.sprctl[nr]&0x01)
}

// PokeSPRPOS sets the position word of a sprite.
func (d *Denise) PokeSPRPOS(nr int, v uint16) {
	d.sprpos[nr] = v
	d.updateSpriteRange(nr)
}

// PokeSPRCTL sets the control word of a sprite and disarms it.
func (d *Denise) PokeSPRCTL(nr int, v uint16) {
	d.sprctl[nr] = v
	d.armed[nr] = false
	d.updateSpriteRange(nr)
}

// PokeSPRDATA sets the A data word of a sprite and arms it.
func (d *Denise) PokeSPRDATA(nr int, v uint16) {
	d.sprdata[nr] = v
	d.armed[nr] = true
}

// PokeSPRDATB sets the B data word of a sprite.
func (d *Denise) PokeSPRDATB(nr int, v uint16) {
	d.sprdatb[nr] = v
}

// spriteVisible is true if an armed sprite covers the given line.
func (d *Denise) spriteVisible(nr int, line int) bool {
	return d.armed[nr] && line >= d.sprVStrt[nr] && line < d.sprVStop[nr]
}

// drawSprites composites the armed sprites into the index and depth buffers
// of the finished line. Lower numbered sprites sit in front; the attach bit
// of the odd sprite of a pair switches the pair to 4-bit colours.
func (d *Denise) drawSprites() {
	if !d.EmulateSprites {
		return
	}
	line := d.line

	for pair := 0; pair < 4; pair++ {
		even := 2 * pair
		odd := even + 1
		attached := d.sprctl[odd]&0x80 != 0

		if attached && d.spriteVisible(even, line) && d.spriteVisible(odd, line) {
			d.drawAttachedPair(pair)
			continue
		}
		if d.spriteVisible(even, line) {
			d.drawSprite(even)
		}
		if d.spriteVisible(odd, line) {
			d.drawSprite(odd)
		}
	}
}

// drawSprite draws one sprite in 3-colour mode. Colour 0 is transparent;
// the pair selects the colour bank.
func (d *Denise) drawSprite(nr int) {
	base := 2 * d.sprHPos(nr)
	z := zSprite(nr)
	bank := uint8(16 + 4*(nr/2))

	for i := 0; i < 16; i++ {
		col := uint8(d.sprdata[nr]>>uint(15-i))&1 |
			uint8(d.sprdatb[nr]>>uint(15-i))&1<<1
		if col == 0 {
			continue
		}
		d.putSpritePixel(base+2*i, z, bank+col)
		d.putSpritePixel(base+2*i+1, z, bank+col)
	}
}

// drawAttachedPair draws an attached sprite pair in 15-colour mode. The odd
// sprite supplies the high bits; the even sprite's depth bit is used.
func (d *Denise) drawAttachedPair(pair int) {
	even := 2 * pair
	odd := even + 1
	base := 2 * d.sprHPos(even)
	z := zSprite(even)

	for i := 0; i < 16; i++ {
		sh := uint(15 - i)
		col := uint8(d.sprdata[even]>>sh)&1 |
			uint8(d.sprdatb[even]>>sh)&1<<1 |
			uint8(d.sprdata[odd]>>sh)&1<<2 |
			uint8(d.sprdatb[odd]>>sh)&1<<3
		if col == 0 {
			continue
		}
		d.putSpritePixel(base+2*i, z, 16+col)
		d.putSpritePixel(base+2*i+1, z, 16+col)
	}
}

// putSpritePixel writes one sprite pixel, clipped to the display window.
// The depth bit is always deposited for the collision checker; the colour
// only lands when nothing closer is already there.
func (d *Denise) putSpritePixel(pos int, z uint16, col uint8) {
	if pos < d.spriteClipBegin || pos >= d.spriteClipEnd || pos >= bufLen {
		return
	}
	if z > d.zBuffer[pos] {
		d.iBuffer[pos] = col
	}
	d.zBuffer[pos] |= z
}
