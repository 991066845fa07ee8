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

package agnus

import (
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the scheduler state: the master clock and the trigger
// of every slot. Handlers are wiring, not state, and are not written.
func (sch *Scheduler) Serialize(w *snapshot.Writer) {
	w.PutInt(int64(sch.Clock))
	for i := range sch.primary {
		w.PutInt(int64(sch.primary[i].Trigger))
		w.PutInt(int64(sch.primary[i].ID))
		w.PutInt(sch.primary[i].Data)
	}
	for i := range sch.secondary {
		w.PutInt(int64(sch.secondary[i].Trigger))
		w.PutInt(int64(sch.secondary[i].ID))
		w.PutInt(sch.secondary[i].Data)
	}
}

// Deserialize restores the scheduler state and rebuilds the cached minimum
// triggers.
func (sch *Scheduler) Deserialize(r *snapshot.Reader) {
	sch.Clock = clocks.Cycle(r.GetInt())
	for i := range sch.primary {
		sch.primary[i].Trigger = clocks.Cycle(r.GetInt())
		sch.primary[i].ID = EventID(r.GetInt())
		sch.primary[i].Data = r.GetInt()
	}
	for i := range sch.secondary {
		sch.secondary[i].Trigger = clocks.Cycle(r.GetInt())
		sch.secondary[i].ID = EventID(r.GetInt())
		sch.secondary[i].Data = r.GetInt()
	}
	sch.rebuildNextTrigger()
	sch.rebuildNextSecTrigger()
}

// Serialize writes the Agnus state in declared order: beam, register file,
// wait accounting and the scheduler.
func (ag *Agnus) Serialize(w *snapshot.Writer) {
	w.PutInt(int64(ag.pos.V))
	w.PutInt(int64(ag.pos.H))
	w.PutInt(ag.frame)
	w.PutInt(int64(ag.frameStart))
	w.PutBool(ag.lof)

	w.Put16(ag.dmacon)
	w.Put32(ag.dskpt)
	for _, pt := range ag.bplpt {
		w.Put32(pt)
	}
	for _, lc := range ag.audlc {
		w.Put32(lc)
	}
	for _, pt := range ag.sprpt {
		w.Put32(pt)
	}
	w.Put32(ag.bpl1mod)
	w.Put32(ag.bpl2mod)
	w.Put16(ag.diwstrt)
	w.Put16(ag.diwstop)
	w.Put16(ag.ddfstrt)
	w.Put16(ag.ddfstop)
	w.Put16(ag.bplcon0)

	w.PutBool(ag.bplLineActive)
	w.PutInt(int64(ag.cpuWaits))
	w.PutInt(ag.BusStalls)

	ag.Sched.Serialize(w)
}

// Deserialize restores the Agnus state. The DMA slot table is derived from
// the register file and is rebuilt rather than read back.
func (ag *Agnus) Deserialize(r *snapshot.Reader) {
	ag.pos.V = int(r.GetInt())
	ag.pos.H = int(r.GetInt())
	ag.frame = r.GetInt()
	ag.frameStart = clocks.Cycle(r.GetInt())
	ag.lof = r.GetBool()

	ag.dmacon = r.Get16()
	ag.dskpt = r.Get32()
	for i := range ag.bplpt {
		ag.bplpt[i] = r.Get32()
	}
	for i := range ag.audlc {
		ag.audlc[i] = r.Get32()
	}
	for i := range ag.sprpt {
		ag.sprpt[i] = r.Get32()
	}
	ag.bpl1mod = r.Get32()
	ag.bpl2mod = r.Get32()
	ag.diwstrt = r.Get16()
	ag.diwstop = r.Get16()
	ag.ddfstrt = r.Get16()
	ag.ddfstop = r.Get16()
	ag.bplcon0 = r.Get16()

	ag.bplLineActive = r.GetBool()
	ag.cpuWaits = clocks.Cycle(r.GetInt())
	ag.BusStalls = r.GetInt()

	ag.Sched.Deserialize(r)

	// the slot allocation tables derive from the register file. the DMA
	// event trigger itself came back with the scheduler
	ag.updateDMAEventTable()
}
