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

package copper

import (
	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the Copper state.
func (cop *Copper) Serialize(w *snapshot.Writer) {
	w.Put32(cop.pc)
	w.Put32(cop.cop1lc)
	w.Put32(cop.cop2lc)
	w.Put16(cop.ir1)
	w.Put16(cop.ir2)
	w.PutBool(cop.cdang)
	w.PutBool(cop.active)
	w.PutBool(cop.waiting)
	w.PutBool(cop.halted)
}

// Deserialize restores the Copper state. Any in-flight fetch or wakeup
// event comes back with the scheduler.
func (cop *Copper) Deserialize(r *snapshot.Reader) {
	cop.pc = r.Get32()
	cop.cop1lc = r.Get32()
	cop.cop2lc = r.Get32()
	cop.ir1 = r.Get16()
	cop.ir2 = r.Get16()
	cop.cdang = r.GetBool()
	cop.active = r.GetBool()
	cop.waiting = r.GetBool()
	cop.halted = r.GetBool()
}
