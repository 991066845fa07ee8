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

package cia

import (
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/snapshot"
)

func (t *timer) serialize(w *snapshot.Writer) {
	w.Put16(t.counter)
	w.Put16(t.latch)
	w.Put8(t.cr)
}

func (t *timer) deserialize(r *snapshot.Reader) {
	t.counter = r.Get16()
	t.latch = r.Get16()
	t.cr = r.Get8()
}

func (td *tod) serialize(w *snapshot.Writer) {
	w.Put32(td.value)
	w.Put32(td.alarm)
	w.Put32(td.latch)
	w.PutBool(td.frozen)
	w.PutBool(td.stopped)
	w.PutBool(td.matching)
}

func (td *tod) deserialize(r *snapshot.Reader) {
	td.value = r.Get32()
	td.alarm = r.Get32()
	td.latch = r.Get32()
	td.frozen = r.GetBool()
	td.stopped = r.GetBool()
	td.matching = r.GetBool()
}

// Serialize writes the CIA state: ports, timers, TOD, serial shifter and
// interrupt registers.
func (cia *CIA) Serialize(w *snapshot.Writer) {
	w.Put8(cia.pra)
	w.Put8(cia.prb)
	w.Put8(cia.ddra)
	w.Put8(cia.ddrb)
	cia.ta.serialize(w)
	cia.tb.serialize(w)
	cia.tod.serialize(w)
	w.Put8(cia.sdr)
	w.PutInt(int64(cia.spShift))
	w.Put8(cia.icr)
	w.Put8(cia.imr)
	w.PutBool(cia.irq)
	w.PutInt(int64(cia.lastSync))
}

// Deserialize restores the CIA state.
func (cia *CIA) Deserialize(r *snapshot.Reader) {
	cia.pra = r.Get8()
	cia.prb = r.Get8()
	cia.ddra = r.Get8()
	cia.ddrb = r.Get8()
	cia.ta.deserialize(r)
	cia.tb.deserialize(r)
	cia.tod.deserialize(r)
	cia.sdr = r.Get8()
	cia.spShift = int(r.GetInt())
	cia.icr = r.Get8()
	cia.imr = r.Get8()
	cia.irq = r.GetBool()
	cia.lastSync = clocks.Cycle(r.GetInt())
}
