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

package debugger

import (
	"testing"

	"github.com/amityemu/amity/test"
)

func TestTabCompletion(t *testing.T) {
	tc := newTabCompletion()

	// repeated completion of the same guess cycles through the matches
	test.ExpectEquality(t, tc.Complete("ST"), "STEP")
	test.ExpectEquality(t, tc.Complete("STEP"), "STEPOVER")
	test.ExpectEquality(t, tc.Complete("STEPOVER"), "STEP")

	// lower case input completes too
	tc.Reset()
	test.ExpectEquality(t, tc.Complete("ru"), "RUN")

	// no match leaves the input alone
	tc.Reset()
	test.ExpectEquality(t, tc.Complete("XYZZY"), "XYZZY")
}

func TestTabCompletion_argumentsUntouched(t *testing.T) {
	tc := newTabCompletion()

	// completion only works on the command word
	test.ExpectEquality(t, tc.Complete("BREAK 0xfc00"), "BREAK 0xfc00")

	// and a fresh command word afterwards completes normally
	test.ExpectEquality(t, tc.Complete("RE"), "REGISTERS")
	test.ExpectEquality(t, tc.Complete("REGISTERS"), "RESTORE")
	test.ExpectEquality(t, tc.Complete("RESTORE"), "RESET")
	test.ExpectEquality(t, tc.Complete("RESET"), "REGISTERS")
}
