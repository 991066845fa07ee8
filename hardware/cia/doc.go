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

// Package cia implements the two 8520 complex interface adapters. Each
// carries two interval timers, a 24-bit time-of-day counter with alarm, a
// serial shift register and two I/O ports.
//
// The timers count the E-clock, one fortieth of the master clock. A CIA
// does not execute cycle by cycle: the timers advance lazily, catching up
// on every register access, and the scheduler slot is armed only for the
// next underflow. A CIA with both timers stopped schedules nothing at all.
//
// The machine wires the ports at assembly time. CIA A's port A reads the
// drive status lines, and its fire button bits have no driver and read
// high; CIA B's port B latches the
// drive select, side, direction, step and motor lines, with every write
// forwarded to the disk controller.
package cia
