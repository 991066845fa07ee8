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

// Package denise emulates the Denise custom chip: the bitplane to pixel
// pipeline, the eight hardware sprites, the collision logic and the colour
// lookup.
//
// The pipeline works line by line through three parallel buffers. Bitplane
// words arriving from the Agnus fetch unit are serialized into bBuffer as
// raw colour indices, two buffer pixels per bit in lores and one in hires.
// At the end of the line the raw bits translate into iBuffer colour indices
// and zBuffer depth values according to the playfield mode in force at each
// pixel, the sprites composite on top using the depth values, collisions
// accumulate into CLXDAT, and the pixel engine resolves the indices to host
// colours through the per-line colour change ring.
//
// The depth word interleaves the five playfield priority levels with the
// eight sprite channels so that a single numeric comparison decides
// visibility.
//
// Register writes that affect the pipeline mid-line (BPLCON, COLORxx) are
// recorded with the pixel position they take effect at and replayed during
// translation, so the emulated copper can split the screen at pixel
// resolution.
//
// The pixel engine keeps four framebuffers, a working and a stable one for
// each frame parity. The finished frame is published by swapping the pair
// under a lock shared with the host reader.
package denise
