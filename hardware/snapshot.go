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

package hardware

import (
	"sync"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/messages"
	"github.com/amityemu/amity/snapshot"
)

// number of auto snapshots kept before the oldest is overwritten
const autoSnapshotDepth = 16

// snapshotRing is a bounded store of auto snapshots. The run loop pushes
// from the emulation goroutine and the frontend pops from its own, so
// access is locked.
type snapshotRing struct {
	lock    sync.Mutex
	entries [autoSnapshotDepth][]byte
	next    int
	count   int
}

func (ring *snapshotRing) push(data []byte) {
	ring.lock.Lock()
	defer ring.lock.Unlock()
	ring.entries[ring.next] = data
	ring.next = (ring.next + 1) % autoSnapshotDepth
	if ring.count < autoSnapshotDepth {
		ring.count++
	}
}

// pop removes and returns the most recent snapshot, or nil.
func (ring *snapshotRing) pop() []byte {
	ring.lock.Lock()
	defer ring.lock.Unlock()
	if ring.count == 0 {
		return nil
	}
	ring.next = (ring.next - 1 + autoSnapshotDepth) % autoSnapshotDepth
	ring.count--
	data := ring.entries[ring.next]
	ring.entries[ring.next] = nil
	return data
}

// Snapshot serializes the complete machine state. The result is only
// meaningful between CPU instructions, which is where the run loop takes
// them.
func (amg *Amiga) Snapshot() ([]byte, error) {
	w := snapshot.NewWriter()

	amg.Agnus.Serialize(w)
	if err := amg.CPU.Serialize(w); err != nil {
		return nil, curated.Errorf("snapshot: %v", err)
	}
	amg.Mem.Serialize(w)
	amg.CIAA.Serialize(w)
	amg.CIAB.Serialize(w)
	amg.Paula.Serialize(w)
	amg.Copper.Serialize(w)
	amg.Blitter.Serialize(w)
	amg.Denise.Serialize(w)
	for i := range amg.Drives {
		amg.Drives[i].Serialize(w)
	}

	return w.Bytes(), nil
}

// RestoreSnapshot replaces the machine state with a previously serialized
// one. The header is validated before any live state is touched; a
// snapshot from a different format version is rejected whole.
func (amg *Amiga) RestoreSnapshot(data []byte) error {
	r, err := snapshot.NewReader(data)
	if err != nil {
		return err
	}

	amg.Agnus.Deserialize(r)
	if err := amg.CPU.Deserialize(r); err != nil {
		return curated.Errorf("snapshot: %v", err)
	}
	amg.Mem.Deserialize(r)
	amg.CIAA.Deserialize(r)
	amg.CIAB.Deserialize(r)
	amg.Paula.Deserialize(r)
	amg.Copper.Deserialize(r)
	amg.Blitter.Deserialize(r)
	amg.Denise.Deserialize(r)
	for i := range amg.Drives {
		amg.Drives[i].Deserialize(r)
	}

	if err := r.Err(); err != nil {
		return err
	}
	if n := r.Remaining(); n != 0 {
		return curated.Errorf(snapshot.TrailingBytes, n)
	}

	return nil
}

// takeAutoSnapshot is called by the run loop in response to the snapshot
// control flag. The snapshot goes into the ring; the frontend is told.
func (amg *Amiga) takeAutoSnapshot() error {
	data, err := amg.Snapshot()
	if err != nil {
		return err
	}
	amg.autoSnapshots.push(data)
	amg.Msg.Post(messages.NotifyAutoSnapshotTaken, len(data))
	return nil
}

// RestoreAutoSnapshot rewinds to the most recent auto snapshot. Returns a
// curated error if the ring is empty.
func (amg *Amiga) RestoreAutoSnapshot() error {
	data := amg.autoSnapshots.pop()
	if data == nil {
		return curated.Errorf("snapshot: no auto snapshot available")
	}
	if err := amg.RestoreSnapshot(data); err != nil {
		return err
	}
	amg.Msg.Post(messages.NotifyAutoSnapshotRestored, 0)
	return nil
}
