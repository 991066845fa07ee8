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

package prefs_test

import (
	"fmt"
	"testing"

	"github.com/amityemu/amity/prefs"
	"github.com/amityemu/amity/test"
)

func TestBool(t *testing.T) {
	var p prefs.Bool

	// the zero value reads as false
	test.ExpectEquality(t, p.Get().(bool), false)

	test.ExpectSuccess(t, p.Set(true) == nil)
	test.ExpectEquality(t, p.Get().(bool), true)
	test.ExpectEquality(t, p.String(), "true")

	// string conversion: anything that isn't "true" is false
	test.ExpectSuccess(t, p.Set("TRUE") == nil)
	test.ExpectEquality(t, p.Get().(bool), true)
	test.ExpectSuccess(t, p.Set("yes") == nil)
	test.ExpectEquality(t, p.Get().(bool), false)

	test.ExpectFailure(t, p.Set(1.0))
}

func TestInt(t *testing.T) {
	var p prefs.Int

	test.ExpectEquality(t, p.Get().(int), 0)

	test.ExpectSuccess(t, p.Set(100) == nil)
	test.ExpectEquality(t, p.Get().(int), 100)

	test.ExpectSuccess(t, p.Set("-5") == nil)
	test.ExpectEquality(t, p.Get().(int), -5)

	test.ExpectFailure(t, p.Set("one hundred"))
	test.ExpectEquality(t, p.Get().(int), -5)

	test.ExpectSuccess(t, p.Reset() == nil)
	test.ExpectEquality(t, p.Get().(int), 0)
}

func TestString(t *testing.T) {
	var p prefs.String

	test.ExpectSuccess(t, p.Set("hello") == nil)
	test.ExpectEquality(t, p.String(), "hello")

	p.SetMaxLen(3)
	test.ExpectEquality(t, p.String(), "hel")
	test.ExpectSuccess(t, p.Set("world") == nil)
	test.ExpectEquality(t, p.String(), "wor")
}

func TestHooks(t *testing.T) {
	var p prefs.Int

	var sequence []string
	p.SetHookPre(func(v prefs.Value) error {
		sequence = append(sequence, fmt.Sprintf("pre %d", v.(int)))
		return nil
	})
	p.SetHookPost(func(v prefs.Value) error {
		sequence = append(sequence, fmt.Sprintf("post %d", v.(int)))
		return nil
	})

	test.ExpectSuccess(t, p.Set(7) == nil)
	test.ExpectEquality(t, len(sequence), 2)
	test.ExpectEquality(t, sequence[0], "pre 7")
	test.ExpectEquality(t, sequence[1], "post 7")

	// a pre hook failure prevents the update
	p.SetHookPre(func(v prefs.Value) error {
		return fmt.Errorf("no")
	})
	test.ExpectFailure(t, p.Set(8))
	test.ExpectEquality(t, p.Get().(int), 7)
}
