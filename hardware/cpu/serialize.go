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

package cpu

import (
	m68k "github.com/user-none/go-chip-m68k"

	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/snapshot"
)

// Serialize writes the CPU state: the core's own serialization block, the
// master clock and the published interrupt level. The speed factor is a
// configuration value and is not written.
func (mc *CPU) Serialize(w *snapshot.Writer) error {
	buf := make([]byte, m68k.SerializeSize)
	if err := mc.core.Serialize(buf); err != nil {
		return err
	}
	w.PutBytes(buf)
	w.PutInt(int64(mc.clock))
	w.PutInt(int64(mc.irqLevel))
	return nil
}

// Deserialize restores the CPU state.
func (mc *CPU) Deserialize(r *snapshot.Reader) error {
	buf := r.GetBytes()
	if r.Err() != nil {
		return r.Err()
	}
	if err := mc.core.Deserialize(buf); err != nil {
		return err
	}
	mc.clock = clocks.Cycle(r.GetInt())
	mc.irqLevel = int(r.GetInt())
	return nil
}
