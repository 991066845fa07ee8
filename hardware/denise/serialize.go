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
	"github.com/amityemu/amity/snapshot"
)

func (rec *recorder) serialize(w *snapshot.Writer) {
	w.PutInt(int64(rec.n))
	for i := 0; i < rec.n; i++ {
		w.PutInt(int64(rec.changes[i].trigger))
		w.Put16(rec.changes[i].reg)
		w.Put16(rec.changes[i].value)
	}
}

func (rec *recorder) deserialize(r *snapshot.Reader) {
	rec.n = int(r.GetInt())
	if rec.n > recorderLen {
		rec.n = recorderLen
	}
	for i := 0; i < rec.n; i++ {
		rec.changes[i].trigger = int(r.GetInt())
		rec.changes[i].reg = r.Get16()
		rec.changes[i].value = r.Get16()
	}
}

// Serialize writes the Denise state: the register file, the sprite units,
// the line buffers of the partially drawn raster line and the pixel engine.
// The configuration switches are left out; they belong to the machine
// setup, not to the run.
func (dn *Denise) Serialize(w *snapshot.Writer) {
	w.Put16(dn.bplcon0)
	w.Put16(dn.bplcon1)
	w.Put16(dn.bplcon2)
	w.Put16(dn.initialBplcon0)
	w.Put16(dn.initialBplcon2)

	for i := range dn.bpldat {
		w.Put16(dn.bpldat[i])
	}
	for i := range dn.shiftReg {
		w.Put32(dn.shiftReg[i])
	}
	w.PutInt(int64(dn.scrollLoresOdd))
	w.PutInt(int64(dn.scrollLoresEven))
	w.PutInt(int64(dn.scrollHiresOdd))
	w.PutInt(int64(dn.scrollHiresEven))

	for i := 0; i < 8; i++ {
		w.Put16(dn.sprpos[i])
		w.Put16(dn.sprctl[i])
		w.Put16(dn.sprdata[i])
		w.Put16(dn.sprdatb[i])
		w.PutBool(dn.armed[i])
		w.PutInt(int64(dn.sprVStrt[i]))
		w.PutInt(int64(dn.sprVStop[i]))
	}
	w.PutInt(int64(dn.spriteClipBegin))
	w.PutInt(int64(dn.spriteClipEnd))

	w.Put16(dn.clxdat)
	w.Put16(dn.clxcon)
	w.Put16(dn.joydat[0])
	w.Put16(dn.joydat[1])

	dn.conChanges.serialize(w)

	w.PutBytes(dn.bBuffer[:])
	w.PutBytes(dn.iBuffer[:])
	for i := range dn.zBuffer {
		w.Put16(dn.zBuffer[i])
	}

	w.PutInt(int64(dn.line))
	w.PutBool(dn.framePending)
	w.PutBool(dn.longFrame)

	dn.Pixels.serialize(w)
}

// Deserialize restores the Denise state.
func (dn *Denise) Deserialize(r *snapshot.Reader) {
	dn.bplcon0 = r.Get16()
	dn.bplcon1 = r.Get16()
	dn.bplcon2 = r.Get16()
	dn.initialBplcon0 = r.Get16()
	dn.initialBplcon2 = r.Get16()

	for i := range dn.bpldat {
		dn.bpldat[i] = r.Get16()
	}
	for i := range dn.shiftReg {
		dn.shiftReg[i] = r.Get32()
	}
	dn.scrollLoresOdd = int(r.GetInt())
	dn.scrollLoresEven = int(r.GetInt())
	dn.scrollHiresOdd = int(r.GetInt())
	dn.scrollHiresEven = int(r.GetInt())

	for i := 0; i < 8; i++ {
		dn.sprpos[i] = r.Get16()
		dn.sprctl[i] = r.Get16()
		dn.sprdata[i] = r.Get16()
		dn.sprdatb[i] = r.Get16()
		dn.armed[i] = r.GetBool()
		dn.sprVStrt[i] = int(r.GetInt())
		dn.sprVStop[i] = int(r.GetInt())
	}
	dn.spriteClipBegin = int(r.GetInt())
	dn.spriteClipEnd = int(r.GetInt())

	dn.clxdat = r.Get16()
	dn.clxcon = r.Get16()
	dn.joydat[0] = r.Get16()
	dn.joydat[1] = r.Get16()

	dn.conChanges.deserialize(r)

	copy(dn.bBuffer[:], r.GetBytes())
	copy(dn.iBuffer[:], r.GetBytes())
	for i := range dn.zBuffer {
		dn.zBuffer[i] = r.Get16()
	}

	dn.line = int(r.GetInt())
	dn.framePending = r.GetBool()
	dn.longFrame = r.GetBool()

	dn.Pixels.deserialize(r)
}

// serialize writes the colour registers, the pending colour changes of the
// current line and the HAM hold register. The resolved colour tables and
// the frame buffers are derived and are not written.
func (pe *PixelEngine) serialize(w *snapshot.Writer) {
	for i := range pe.colreg {
		w.Put16(pe.colreg[i])
	}
	pe.colChanges.serialize(w)
	w.Put16(pe.hold)
}

func (pe *PixelEngine) deserialize(r *snapshot.Reader) {
	// setColor rebuilds the indexed table, half-brite shadows included
	for i := range pe.colreg {
		pe.setColor(i, r.Get16())
	}
	pe.colChanges.deserialize(r)
	pe.hold = r.Get16()
}
