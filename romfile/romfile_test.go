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

package romfile_test

import (
	"testing"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/romfile"
	"github.com/amityemu/amity/test"
)

func imageWithHeader(header []uint8, size int) []uint8 {
	img := make([]uint8, size)
	copy(img, header)
	return img
}

func TestROM_bootSignature(t *testing.T) {
	img := imageWithHeader([]uint8{0x11, 0x11, 0x4E, 0xF9, 0x00, 0xF8, 0x00, 0x8A}, 8192)
	rom, err := romfile.NewROM(img)
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, rom.Kind, romfile.KindBoot)
	test.ExpectEquality(t, rom.Size(), 8192)
}

func TestROM_kickstartSignatures(t *testing.T) {
	img := imageWithHeader([]uint8{0x11, 0x11, 0x4E, 0xF9, 0x00, 0xFC, 0x00}, 256*1024)
	rom, err := romfile.NewROM(img)
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, rom.Kind, romfile.KindKickstart)

	img = imageWithHeader([]uint8{0x11, 0x14, 0x4E, 0xF9, 0x00, 0xF8, 0x00}, 512*1024)
	rom, err = romfile.NewROM(img)
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, rom.Kind, romfile.KindKickstart)
}

func TestROM_rejectsUnknownBuffer(t *testing.T) {
	_, err := romfile.NewROM(make([]uint8, 256*1024))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, romfile.NotAROM))

	// too short to carry any signature
	_, err = romfile.NewROM([]uint8{0x11, 0x11})
	test.ExpectFailure(t, err)
}

func TestROM_arosDetection(t *testing.T) {
	img := imageWithHeader([]uint8{0x11, 0x14, 0x4E, 0xF9, 0x00, 0xF8, 0x00}, 512*1024)
	copy(img[0x40:], "AROS Research Operating System")
	rom, err := romfile.NewROM(img)
	test.ExpectSuccess(t, err == nil)
	test.ExpectSuccess(t, rom.Aros())

	// a plain Kickstart carries no marker
	img = imageWithHeader([]uint8{0x11, 0x14, 0x4E, 0xF9, 0x00, 0xF8, 0x00}, 512*1024)
	rom, err = romfile.NewROM(img)
	test.ExpectSuccess(t, err == nil)
	test.ExpectEquality(t, rom.Aros(), false)
}
