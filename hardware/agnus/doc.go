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

// Package agnus implements the address generator chip: the master-clock
// event scheduler, the raster beam state machine and the DMA slot
// arbitration for the chip-RAM bus.
//
// The scheduler is the centre of the emulation. Every chip registers a
// handler for the slot it owns and schedules events for itself; the run
// loop drives everything by calling ExecuteUntil() with the CPU's clock
// after each instruction.
//
// Agnus itself owns the DMA and RAS slots. The DMA slot walks the per-line
// slot allocation table, serving disk, audio, sprite and bitplane fetches
// in their fixed positions; the RAS slot runs the end-of-line and
// end-of-frame housekeeping.
//
// Agnus deliberately has no knowledge of the chips it serves. The chips
// attach callbacks at wiring time (ServeDiskDMA, ServeAudioDMA, SpriteWord,
// BPLFetch, OnHSync, OnVSync) and Agnus dispatches through them.
package agnus
