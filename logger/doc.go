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

// Package logger is the central log for the entire application. There is
// only one log and it can be accessed through the package level functions.
//
// Log entries are tagged with the part of the emulation that raised them.
// Repeated entries are deduplicated and counted rather than appended. The
// most recent entries can be echoed to an io.Writer as they arrive with
// SetEcho().
package logger
