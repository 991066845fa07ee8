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

// Package clocks defines the constant values that define the speed of the
// master clock in the Amiga and the conversions between the derived chip
// clocks.
//
// Everything in the machine is timed against the master oscillator. The
// derived clocks divide it down: the CPU clock is a quarter of the master
// clock, the chipset (DMA) clock is an eighth and the CIA E-clock is a
// fortieth.
package clocks

// Cycle counts ticks of the master oscillator. All timestamps in the
// emulation are master cycles. The type is signed so that differences can
// be expressed without care.
type Cycle int64

// Master oscillator frequency (PAL) in MHz.
const MasterPAL = 28.37516

// Clock dividers from the master clock.
const (
	CPUDivider = 4
	DMADivider = 8
	CIADivider = 40
)

// CPUToMaster converts a count of CPU cycles to master cycles.
func CPUToMaster(c Cycle) Cycle {
	return c * CPUDivider
}

// MasterToCPU converts a count of master cycles to CPU cycles.
func MasterToCPU(c Cycle) Cycle {
	return c / CPUDivider
}

// DMAToMaster converts a count of DMA (chipset) cycles to master cycles.
func DMAToMaster(c Cycle) Cycle {
	return c * DMADivider
}

// MasterToDMA converts a count of master cycles to DMA cycles.
func MasterToDMA(c Cycle) Cycle {
	return c / DMADivider
}

// CIAToMaster converts a count of CIA E-clock cycles to master cycles.
func CIAToMaster(c Cycle) Cycle {
	return c * CIADivider
}

// MasterToCIA converts a count of master cycles to CIA E-clock cycles.
func MasterToCIA(c Cycle) Cycle {
	return c / CIADivider
}
