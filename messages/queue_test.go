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

package messages_test

import (
	"testing"

	"github.com/amityemu/amity/messages"
	"github.com/amityemu/amity/test"
)

func TestQueue(t *testing.T) {
	q := messages.NewQueue()

	test.ExpectSuccess(t, q.Drain() == nil)

	q.Post(messages.NotifyPowerOn, 0)
	q.Post(messages.NotifyFrame, 100)

	d := q.Drain()
	test.ExpectEquality(t, len(d), 2)
	test.ExpectEquality(t, d[0].Notice, messages.NotifyPowerOn)
	test.ExpectEquality(t, d[1].Notice, messages.NotifyFrame)
	test.ExpectEquality(t, d[1].Payload, 100)

	// draining empties the queue
	test.ExpectSuccess(t, q.Drain() == nil)
}

func TestQueue_overflow(t *testing.T) {
	q := messages.NewQueue()

	for i := 0; i < 100; i++ {
		q.Post(messages.NotifyFrame, i)
	}

	test.ExpectEquality(t, q.Dropped(), 100-64)

	d := q.Drain()
	test.ExpectEquality(t, len(d), 64)
	test.ExpectEquality(t, q.Dropped(), 0)
}

func TestQueue_callback(t *testing.T) {
	q := messages.NewQueue()

	var received []messages.Message
	q.SetCallback(func(m messages.Message) {
		received = append(received, m)
	})

	q.Post(messages.NotifyReset, 0)
	test.ExpectEquality(t, len(received), 1)
	test.ExpectEquality(t, received[0].Notice, messages.NotifyReset)

	// callback delivery bypasses the buffer
	test.ExpectSuccess(t, q.Drain() == nil)

	// reverting to buffered delivery
	q.SetCallback(nil)
	q.Post(messages.NotifyReset, 0)
	test.ExpectEquality(t, len(received), 1)
	test.ExpectEquality(t, len(q.Drain()), 1)
}
