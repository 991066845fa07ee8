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

package memory

import (
	"time"

	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the memory state: the three RAM banks, the overlay
// flag, the extended ROM placement and the RTC. The ROM images themselves
// are machine setup and are not written.
func (mem *Memory) Serialize(w *snapshot.Writer) {
	w.PutBytes(mem.chipRAM)
	w.PutBytes(mem.slowRAM)
	w.PutBytes(mem.fastRAM)
	w.PutBool(mem.ovl)
	w.Put32(mem.extStart)
	mem.rtc.serialize(w)
}

// Deserialize restores the memory state. The RAM banks take the sizes
// recorded in the snapshot, replacing whatever the current configuration
// allocated.
func (mem *Memory) Deserialize(r *snapshot.Reader) {
	mem.chipRAM = r.GetBytes()
	mem.slowRAM = r.GetBytes()
	mem.fastRAM = r.GetBytes()
	mem.ovl = r.GetBool()
	mem.extStart = r.Get32()
	mem.rtc.deserialize(r)
}

func (rtc *RTC) serialize(w *snapshot.Writer) {
	for i := range rtc.reg {
		w.Put8(rtc.reg[i])
	}
	w.PutInt(int64(rtc.diff))
}

func (rtc *RTC) deserialize(r *snapshot.Reader) {
	for i := range rtc.reg {
		rtc.reg[i] = r.Get8()
	}
	rtc.diff = time.Duration(r.GetInt())
}
