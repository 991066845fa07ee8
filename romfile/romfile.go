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

// Package romfile identifies boot ROM and Kickstart images by their leading
// signature bytes. A buffer that matches no known signature is rejected.
package romfile

import (
	"bytes"

	"github.com/amityemu/amity/curated"
)

// Kind classifies an identified ROM image.
type Kind int

// List of ROM kinds.
const (
	KindBoot Kind = iota
	KindKickstart
)

func (k Kind) String() string {
	switch k {
	case KindBoot:
		return "Boot ROM"
	case KindKickstart:
		return "Kickstart"
	}
	return "unknown"
}

// every ROM starts with a magic word followed by a JMP to the entry point
// inside the ROM area. the magic word encodes the image size.
var bootSignatures = [][]uint8{
	{0x11, 0x11, 0x4E, 0xF9, 0x00, 0xF8, 0x00, 0x8A},
}

var kickSignatures = [][]uint8{
	{0x11, 0x11, 0x4E, 0xF9, 0x00, 0xFC, 0x00}, // 256k images
	{0x11, 0x14, 0x4E, 0xF9, 0x00, 0xF8, 0x00}, // 512k images
}

// the AROS Kickstart replacement announces itself in a copyright string
// near the start of the image.
var arosMarker = []uint8("AROS")

// ROM is an identified ROM image.
type ROM struct {
	Data []uint8
	Kind Kind
}

// sentinel error returned by NewROM.
const NotAROM = "romfile: not a ROM image: %v"

// NewROM is the preferred method of initialisation for the ROM type. The
// buffer must begin with a known boot ROM or Kickstart signature.
func NewROM(data []uint8) (*ROM, error) {
	for _, sig := range bootSignatures {
		if len(data) >= len(sig) && bytes.Equal(data[:len(sig)], sig) {
			return &ROM{Data: data, Kind: KindBoot}, nil
		}
	}
	for _, sig := range kickSignatures {
		if len(data) >= len(sig) && bytes.Equal(data[:len(sig)], sig) {
			return &ROM{Data: data, Kind: KindKickstart}, nil
		}
	}
	return nil, curated.Errorf(NotAROM, "no matching signature")
}

// Size returns the byte length of the image.
func (rom *ROM) Size() int {
	return len(rom.Data)
}

// Aros returns true if the image is an AROS Kickstart replacement. AROS
// needs at least one megabyte of RAM to boot; the machine checks this
// before powering up.
func (rom *ROM) Aros() bool {
	if rom.Kind != KindKickstart {
		return false
	}
	n := len(rom.Data)
	if n > 1024 {
		n = 1024
	}
	return bytes.Contains(rom.Data[:n], arosMarker)
}
