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

package adf

import (
	"github.com/amityemu/amity/curated"
)

// geometry of a 3.5" double density disk.
const (
	NumSectors   = 11
	SectorSize   = 512
	NumTracks    = 160
	NumCylinders = 80

	// ImageSize is the byte length of a standard ADF.
	ImageSize = NumSectors * SectorSize * NumTracks
)

// MFM geometry. A sector encodes to 1088 bytes; the track gap pads the
// surface to the length of one disk revolution.
const (
	mfmSectorSize = 1088
	trackGap      = 700

	// TrackSize is the number of MFM bytes on one track.
	TrackSize = NumSectors*mfmSectorSize + trackGap
)

// Disk is the MFM surface built from an ADF image. The drive head reads
// and writes these bytes directly.
type Disk struct {
	tracks [NumTracks][]uint8

	writeProtected bool
	modified       bool
}

// sentinel error returned by NewDisk.
const NotAnADF = "adf: not an ADF image: %v"

// NewDisk is the preferred method of initialisation for the Disk type. The
// image is encoded track by track onto the simulated surface.
func NewDisk(image []uint8) (*Disk, error) {
	if len(image) != ImageSize {
		return nil, curated.Errorf(NotAnADF, "wrong size")
	}

	dsk := &Disk{}
	for t := 0; t < NumTracks; t++ {
		dsk.tracks[t] = encodeTrack(image, t)
	}
	return dsk, nil
}

// NewBlankDisk returns a formatted disk with an all-zero payload.
func NewBlankDisk() *Disk {
	dsk, _ := NewDisk(make([]uint8, ImageSize))
	return dsk
}

// Read returns the MFM byte at a head position.
func (dsk *Disk) Read(track int, offset int) uint8 {
	return dsk.tracks[track][offset]
}

// Write replaces the MFM byte at a head position.
func (dsk *Disk) Write(track int, offset int, v uint8) {
	dsk.tracks[track][offset] = v
	dsk.modified = true
}

// TrackLen returns the number of bytes in one revolution of a track.
func (dsk *Disk) TrackLen(track int) int {
	return len(dsk.tracks[track])
}

// WriteProtected returns the state of the write protection tab.
func (dsk *Disk) WriteProtected() bool {
	return dsk.writeProtected
}

// SetWriteProtected sets the write protection tab.
func (dsk *Disk) SetWriteProtected(protected bool) {
	dsk.writeProtected = protected
}

// Modified returns true if the surface has been written to since the disk
// was created.
func (dsk *Disk) Modified() bool {
	return dsk.modified
}
