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

// Package terminal defines the operations required for command line
// interaction with the debugger.
//
// For flexibility, terminal interaction is abstracted to the Terminal
// interface, which is composed of the Input and Output interfaces. The
// plainterm sub-package is an implementation that works with a dumb
// terminal; the colorterm sub-package adds colour, history and tab
// completion on terminals that can be put into raw mode.
package terminal
