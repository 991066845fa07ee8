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

package logger_test

import (
	"testing"

	"github.com/amityemu/amity/logger"
	"github.com/amityemu/amity/test"
)

func TestLogger(t *testing.T) {
	tw := &test.CompareWriter{}

	logger.Clear()
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare(""))

	logger.Log(logger.Allow, "test", "this is a test")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\n"))

	// clear the comparison buffer before continuing, makes comparisons
	// easier to manage
	tw.Clear()

	logger.Logf(logger.Allow, "test2", "this is %s test", "another")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	// asking for too many entries in a Tail() should be okay
	tw.Clear()
	logger.Tail(tw, 100)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	// asking for exactly the correct number of entries is okay
	tw.Clear()
	logger.Tail(tw, 2)
	test.ExpectSuccess(t, tw.Compare("test: this is a test\ntest2: this is another test\n"))

	// asking for fewer entries is okay too
	tw.Clear()
	logger.Tail(tw, 1)
	test.ExpectSuccess(t, tw.Compare("test2: this is another test\n"))

	// and no entries
	tw.Clear()
	logger.Tail(tw, 0)
	test.ExpectSuccess(t, tw.Compare(""))
}

func TestRepeatedEntries(t *testing.T) {
	tw := &test.CompareWriter{}

	logger.Clear()
	logger.Log(logger.Allow, "repeat", "same detail")
	logger.Log(logger.Allow, "repeat", "same detail")
	logger.Log(logger.Allow, "repeat", "same detail")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("repeat: same detail (repeat x3)\n"))
}
