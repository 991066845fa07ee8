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

// Package paula emulates the Paula custom chip: the interrupt controller,
// the disk controller, the four audio channels and the serial port.
//
// The interrupt controller folds the fourteen INTREQ sources through the
// INTENA mask into a single pending 68000 interrupt level, published to
// the CPU through the OnIRQChange callback. Interrupts can be raised
// immediately or with a delay through the per-source secondary slots.
//
// The disk controller moves bytes between the selected drive and chip RAM
// through a six byte FIFO. The drive side runs on rotation events, one
// byte every 56 DMA cycles; the memory side runs in the three disk DMA
// slots of each raster line. The DSKLEN double-write protocol arms the
// engine; WORDSYNC holds a read in the WAIT state until the DSKSYNC word
// passes the head.
//
// The audio channels follow the hardware state machine. Block words
// arrive through the audio DMA slots; the period counters run at the DMA
// clock and are advanced line by line, resampling the DAC levels to the
// host rate.
package paula
