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

// Package prefs provides concurrency-safe preference values for the
// emulation. The types in this package (Bool, Int, String) store their
// values atomically so they can be read from the emulation goroutine while
// being set from elsewhere.
//
// Hook functions can be attached to a preference value with SetHookPre()
// and SetHookPost(). Hooks run on the goroutine that calls Set().
package prefs
