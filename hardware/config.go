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

package hardware

import (
	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/hardware/blitter"
	"github.com/amityemu/amity/messages"
)

// sentinal error returned by the Configure functions.
const BadConfig = "config: %v: %v"

// Option names one machine configuration value. Values are passed as
// plain integers; booleans as 0 or 1, sizes in KB.
type Option int

// List of machine configuration options.
const (
	OptChipRAM Option = iota
	OptSlowRAM
	OptFastRAM
	OptExtROMStart
	OptCPUSpeed
	OptEmulateSprites
	OptClxSprSpr
	OptClxSprPlf
	OptClxPlfPlf
	OptBlitterAccuracy
	OptDriveSpeed
)

func (opt Option) String() string {
	return [...]string{
		"CHIP_RAM", "SLOW_RAM", "FAST_RAM", "EXT_ROM_START", "CPU_SPEED",
		"EMULATE_SPRITES", "CLX_SPR_SPR", "CLX_SPR_PLF", "CLX_PLF_PLF",
		"BLITTER_ACCURACY", "DRIVE_SPEED",
	}[opt]
}

// DriveOption names one per-drive configuration value.
type DriveOption int

// List of per-drive configuration options.
const (
	OptDriveConnect DriveOption = iota
	OptDriveType
)

func (opt DriveOption) String() string {
	return [...]string{"DRIVE_CONNECT", "DRIVE_TYPE"}[opt]
}

// the only supported drive type: 3.5" double density.
const DriveTypeDD35 = 0

// Configure changes one machine configuration value. Validation precedes
// mutation: an invalid value is rejected with an error and no state
// change. Options that alter the memory map take effect immediately; the
// machine should be reset afterwards.
func (amg *Amiga) Configure(opt Option, value int) error {
	switch opt {
	case OptChipRAM:
		switch value {
		case 256, 512, 1024, 2048:
		default:
			return curated.Errorf(BadConfig, opt, value)
		}
		if err := amg.Mem.AllocChipRAM(value); err != nil {
			return curated.Errorf(BadConfig, opt, err)
		}

	case OptSlowRAM:
		switch value {
		case 0, 256, 512:
		default:
			return curated.Errorf(BadConfig, opt, value)
		}
		if err := amg.Mem.AllocSlowRAM(value); err != nil {
			return curated.Errorf(BadConfig, opt, err)
		}

	case OptFastRAM:
		if value < 0 || value > 8192 || value%64 != 0 {
			return curated.Errorf(BadConfig, opt, value)
		}
		if err := amg.Mem.AllocFastRAM(value); err != nil {
			return curated.Errorf(BadConfig, opt, err)
		}

	case OptExtROMStart:
		if err := amg.Mem.SetExtStart(value); err != nil {
			return curated.Errorf(BadConfig, opt, err)
		}

	case OptCPUSpeed:
		switch value {
		case 1, 2, 4:
		default:
			return curated.Errorf(BadConfig, opt, value)
		}
		amg.CPU.SetSpeed(value)

	case OptEmulateSprites:
		amg.Denise.EmulateSprites = value != 0

	case OptClxSprSpr:
		amg.Denise.ClxSprSpr = value != 0

	case OptClxSprPlf:
		amg.Denise.ClxSprPlf = value != 0

	case OptClxPlfPlf:
		amg.Denise.ClxPlfPlf = value != 0

	case OptBlitterAccuracy:
		switch blitter.Accuracy(value) {
		case blitter.AccuracyFast, blitter.AccuracyExact:
		default:
			return curated.Errorf(BadConfig, opt, value)
		}
		amg.Blitter.SetAccuracy(blitter.Accuracy(value))

	case OptDriveSpeed:
		switch value {
		case -1, 1, 2, 4, 8:
		default:
			return curated.Errorf(BadConfig, opt, value)
		}
		for _, dv := range amg.Drives {
			dv.SetSpeed(value)
		}

	default:
		return curated.Errorf(BadConfig, "unknown option", int(opt))
	}

	amg.Msg.Post(messages.NotifyConfig, 0)
	return nil
}

// ConfigureDrive changes one per-drive configuration value.
func (amg *Amiga) ConfigureDrive(nr int, opt DriveOption, value int) error {
	if nr < 0 || nr >= NumDrives {
		return curated.Errorf(BadConfig, opt, nr)
	}

	switch opt {
	case OptDriveConnect:
		amg.ConnectDrive(nr, value != 0)

	case OptDriveType:
		if value != DriveTypeDD35 {
			return curated.Errorf(BadConfig, opt, value)
		}

	default:
		return curated.Errorf(BadConfig, "unknown drive option", int(opt))
	}

	amg.Msg.Post(messages.NotifyConfig, 0)
	return nil
}
