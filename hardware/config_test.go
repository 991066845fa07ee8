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

package hardware_test

import (
	"testing"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/hardware"
	"github.com/amityemu/amity/test"
)

func TestConfigure_validation(t *testing.T) {
	amg := hardware.NewAmiga(nil)

	test.ExpectSuccess(t, amg.Configure(hardware.OptChipRAM, 1024) == nil)
	err := amg.Configure(hardware.OptChipRAM, 300)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, hardware.BadConfig))

	// the failed configuration did not change the machine
	test.ExpectEquality(t, amg.Mem.RAMSize(), 1024*1024)

	test.ExpectFailure(t, amg.Configure(hardware.OptCPUSpeed, 3))
	test.ExpectSuccess(t, amg.Configure(hardware.OptCPUSpeed, 2) == nil)

	test.ExpectFailure(t, amg.Configure(hardware.OptDriveSpeed, 3))
	test.ExpectSuccess(t, amg.Configure(hardware.OptDriveSpeed, 2) == nil)
}

func TestConfigureDrive(t *testing.T) {
	amg := hardware.NewAmiga(nil)

	// df0 is connected from the start, the others are not
	test.ExpectEquality(t, amg.DriveConnected(0), true)
	test.ExpectEquality(t, amg.DriveConnected(1), false)

	test.ExpectSuccess(t, amg.ConfigureDrive(1, hardware.OptDriveConnect, 1) == nil)
	test.ExpectEquality(t, amg.DriveConnected(1), true)

	test.ExpectFailure(t, amg.ConfigureDrive(4, hardware.OptDriveConnect, 1))
	test.ExpectFailure(t, amg.ConfigureDrive(0, hardware.OptDriveType, 99))
}

func TestPowerOn_requiresROM(t *testing.T) {
	amg := hardware.NewAmiga(nil)

	err := amg.PowerOn()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, hardware.PowerOnNotReady))
	test.ExpectEquality(t, amg.Powered(), false)
}
