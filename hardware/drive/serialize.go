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

package drive

import (
	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the drive mechanism state: head position, motor and
// select lines, the identification shifter and the disk-change latch. The
// disk image itself is media, not mechanism, and is not written.
func (dv *Drive) Serialize(w *snapshot.Writer) {
	w.PutInt(int64(dv.cylinder))
	w.PutInt(int64(dv.side))
	w.PutInt(int64(dv.offset))
	w.PutBool(dv.selected)
	w.PutBool(dv.motor)
	w.Put32(dv.idShifter)
	w.PutBool(dv.diskChange)
}

// Deserialize restores the drive mechanism state.
func (dv *Drive) Deserialize(r *snapshot.Reader) {
	dv.cylinder = int(r.GetInt())
	dv.side = int(r.GetInt())
	dv.offset = int(r.GetInt())
	dv.selected = r.GetBool()
	dv.motor = r.GetBool()
	dv.idShifter = r.Get32()
	dv.diskChange = r.GetBool()
}
