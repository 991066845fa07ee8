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

// Package memory maps the 24-bit address space of the machine: chip RAM
// (with the ROM overlay at power on), fast RAM, the two CIA pages, slow
// RAM, the battery backed clock, the custom chip register page and the
// ROM areas.
//
// Two bus interfaces are served. The CPU reaches everything through the
// m68k.Bus implementation; accesses that land on the shared chip bus are
// charged wait states through Agnus. The DMA channels reach chip RAM only,
// through the agnus.ChipBus implementation, and never stall.
//
// The custom chip register page decodes every word offset to the owning
// chip. The Copper writes through the same decoder, so Copper MOVEs and
// CPU pokes are indistinguishable to the chips. SpyPeek variants suppress
// read side effects for the debugger.
package memory
