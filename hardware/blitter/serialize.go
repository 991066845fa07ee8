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

package blitter

import (
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the blitter state: the register file, the run state and
// the per-blit iterator of the accurate mode.
func (blt *Blitter) Serialize(w *snapshot.Writer) {
	w.Put16(blt.bltcon0)
	w.Put16(blt.bltcon1)
	w.Put16(blt.afwm)
	w.Put16(blt.alwm)
	for _, pt := range blt.pt {
		w.Put32(pt)
	}
	for _, mod := range blt.mod {
		w.Put32(mod)
	}
	for _, dat := range blt.dat {
		w.Put16(dat)
	}
	w.PutInt(int64(blt.width))
	w.PutInt(int64(blt.height))
	w.PutBool(blt.running)
	w.PutBool(blt.zero)
	w.PutBool(blt.pending)

	w.PutInt(int64(blt.it.x))
	w.PutInt(int64(blt.it.y))
	w.Put16(blt.it.aold)
	w.Put16(blt.it.bold)
	w.PutBool(blt.it.fc)
	w.PutInt(int64(blt.it.cost))
	w.PutInt(int64(blt.it.words))
}

// Deserialize restores the blitter state.
func (blt *Blitter) Deserialize(r *snapshot.Reader) {
	blt.bltcon0 = r.Get16()
	blt.bltcon1 = r.Get16()
	blt.afwm = r.Get16()
	blt.alwm = r.Get16()
	for i := range blt.pt {
		blt.pt[i] = r.Get32()
	}
	for i := range blt.mod {
		blt.mod[i] = r.Get32()
	}
	for i := range blt.dat {
		blt.dat[i] = r.Get16()
	}
	blt.width = int(r.GetInt())
	blt.height = int(r.GetInt())
	blt.running = r.GetBool()
	blt.zero = r.GetBool()
	blt.pending = r.GetBool()

	blt.it.x = int(r.GetInt())
	blt.it.y = int(r.GetInt())
	blt.it.aold = r.Get16()
	blt.it.bold = r.Get16()
	blt.it.fc = r.GetBool()
	blt.it.cost = clocks.Cycle(r.GetInt())
	blt.it.words = int(r.GetInt())
}
