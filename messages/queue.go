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

package messages

import (
	"sync"

	"github.com/amityemu/amity/logger"
)

// default capacity of a Queue.
const queueCapacity = 64

// Queue is a bounded buffer of messages from the emulation to whatever user
// interface is attached. Messages are posted from the emulation goroutine
// and drained from the presentation goroutine.
//
// When the queue is full new messages are dropped and counted. A full queue
// means no-one is draining it so there is nothing better to do.
type Queue struct {
	crit sync.Mutex

	messages []Message
	dropped  int

	// if a callback is registered messages bypass the buffer entirely
	callback func(Message)
}

// NewQueue is the preferred method of initialisation for the Queue type.
func NewQueue() *Queue {
	return &Queue{
		messages: make([]Message, 0, queueCapacity),
	}
}

// SetCallback registers a function to receive messages as they are posted.
// The callback is run on the posting goroutine so it must be quick and must
// not post messages itself. A nil callback reverts to buffered delivery.
func (q *Queue) SetCallback(callback func(Message)) {
	q.crit.Lock()
	defer q.crit.Unlock()
	q.callback = callback
}

// Post a message to the queue.
func (q *Queue) Post(notice Notice, payload int) {
	q.crit.Lock()
	defer q.crit.Unlock()

	m := Message{Notice: notice, Payload: payload}

	if q.callback != nil {
		q.callback(m)
		return
	}

	if len(q.messages) >= queueCapacity {
		if q.dropped == 0 {
			logger.Logf(logger.Allow, "messages", "queue full: dropping %s", notice)
		}
		q.dropped++
		return
	}

	q.messages = append(q.messages, m)
}

// Drain returns all pending messages and empties the queue. Returns nil if
// there are no pending messages.
func (q *Queue) Drain() []Message {
	q.crit.Lock()
	defer q.crit.Unlock()

	if len(q.messages) == 0 {
		return nil
	}

	d := make([]Message, len(q.messages))
	copy(d, q.messages)
	q.messages = q.messages[:0]
	q.dropped = 0

	return d
}

// Dropped returns the number of messages lost to a full queue since the
// last Drain().
func (q *Queue) Dropped() int {
	q.crit.Lock()
	defer q.crit.Unlock()
	return q.dropped
}
