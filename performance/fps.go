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

package performance

import (
	"github.com/amityemu/amity/hardware/beam"
	"github.com/amityemu/amity/hardware/clocks"
)

// the PAL frame rate, derived from the master clock and the dimensions of
// a long frame. a shade under 50Hz.
var framesPerSecond = clocks.MasterPAL * 1e6 /
	float64(beam.MasterCyclesPerLine*beam.VposCntLongFrame)

// CalcFPS takes a number of frames and a duration in seconds and returns
// the frames-per-second and that value as a percentage of the PAL rate.
func CalcFPS(numFrames int64, duration float64) (fps float64, accuracy float64) {
	fps = float64(numFrames) / duration
	accuracy = 100 * fps / framesPerSecond
	return fps, accuracy
}
