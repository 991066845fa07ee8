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

package paula

import (
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the Paula state: the interrupt controller, the
// potentiometer counters and the three subunits.
func (pa *Paula) Serialize(w *snapshot.Writer) {
	w.Put16(pa.intreq)
	w.Put16(pa.intena)
	w.Put16(pa.adkcon)
	w.Put16(pa.potgo)
	for i := range pa.potCntX {
		w.Put8(pa.potCntX[i])
		w.Put8(pa.potCntY[i])
	}
	w.PutInt(int64(pa.level))

	pa.Disk.serialize(w)
	pa.Audio.serialize(w)
	pa.UART.serialize(w)
}

// Deserialize restores the Paula state. The published interrupt level is
// re-announced so the CPU sees the restored value.
func (pa *Paula) Deserialize(r *snapshot.Reader) {
	pa.intreq = r.Get16()
	pa.intena = r.Get16()
	pa.adkcon = r.Get16()
	pa.potgo = r.Get16()
	for i := range pa.potCntX {
		pa.potCntX[i] = r.Get8()
		pa.potCntY[i] = r.Get8()
	}
	pa.level = int(r.GetInt())

	pa.Disk.deserialize(r)
	pa.Audio.deserialize(r)
	pa.UART.deserialize(r)

	if pa.OnIRQChange != nil {
		pa.OnIRQChange(pa.level)
	}
}

func (dc *DiskController) serialize(w *snapshot.Writer) {
	w.PutInt(int64(dc.state))
	w.Put16(dc.dsklen)
	w.Put16(dc.dsksync)
	w.Put64(dc.fifo)
	w.PutInt(int64(dc.fifoCount))
	w.PutInt(int64(dc.incomingCycle))
	w.Put8(dc.incoming)
	w.PutInt(int64(dc.selected))
}

func (dc *DiskController) deserialize(r *snapshot.Reader) {
	dc.state = DriveState(r.GetInt())
	dc.dsklen = r.Get16()
	dc.dsksync = r.Get16()
	dc.fifo = r.Get64()
	dc.fifoCount = int(r.GetInt())
	dc.incomingCycle = clocks.Cycle(r.GetInt())
	dc.incoming = r.Get8()
	dc.selected = int(r.GetInt())
}

func (au *AudioUnit) serialize(w *snapshot.Writer) {
	for i := range au.channels {
		c := &au.channels[i]
		w.PutInt(int64(c.state))
		w.Put16(c.audlenLatch)
		w.Put16(c.audlen)
		w.Put16(c.audperLatch)
		w.Put16(c.audvol)
		w.Put16(c.auddat)
		w.Put32(c.audpt)
		w.PutInt(int64(c.audper))
		w.Put16(c.buffer)
		w.Put8(uint8(c.sample))
		w.PutBool(c.lo)
		w.PutBool(c.request)
	}
	w.PutInt(au.resample)
}

func (au *AudioUnit) deserialize(r *snapshot.Reader) {
	for i := range au.channels {
		c := &au.channels[i]
		c.state = int(r.GetInt())
		c.audlenLatch = r.Get16()
		c.audlen = r.Get16()
		c.audperLatch = r.Get16()
		c.audvol = r.Get16()
		c.auddat = r.Get16()
		c.audpt = r.Get32()
		c.audper = int32(r.GetInt())
		c.buffer = r.Get16()
		c.sample = int8(r.Get8())
		c.lo = r.GetBool()
		c.request = r.GetBool()
	}
	au.resample = r.GetInt()
}

func (u *UART) serialize(w *snapshot.Writer) {
	w.Put16(u.serper)
	w.Put16(u.txBuffer)
	w.PutBool(u.txBufFull)
	w.Put16(u.txShift)
	w.PutBool(u.txBusy)
	w.Put16(u.rxBuffer)
	w.PutBool(u.rxBusy)
	w.PutBool(u.ovrun)
}

func (u *UART) deserialize(r *snapshot.Reader) {
	u.serper = r.Get16()
	u.txBuffer = r.Get16()
	u.txBufFull = r.GetBool()
	u.txShift = r.Get16()
	u.txBusy = r.GetBool()
	u.rxBuffer = r.Get16()
	u.rxBusy = r.GetBool()
	u.ovrun = r.GetBool()
}
