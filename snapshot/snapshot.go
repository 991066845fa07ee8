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

// Package snapshot implements the container format for machine state
// serialization. Chips write their persistent fields to a Writer in
// declared order and read them back from a Reader in the same order; the
// container adds a header with a magic number and a version so that stale
// snapshots are rejected before any live state is touched.
package snapshot

import (
	"encoding/binary"

	"github.com/amityemu/amity/curated"
)

// Sentinal errors returned by the snapshot package.
const (
	NotASnapshot  = "snapshot: not a snapshot: %v"
	WrongVersion  = "snapshot: version mismatch: snapshot is v%d.%d, emulator wants v%d.%d"
	Truncated     = "snapshot: truncated: %d bytes wanted, %d available"
	TrailingBytes = "snapshot: %d trailing bytes"
)

// the container magic number.
var magic = [4]uint8{'A', 'M', 'S', 'N'}

// Version of the snapshot format. Bump the major number for layout
// changes; readers reject any major mismatch.
const (
	VersionMajor = 1
	VersionMinor = 0
)

// Writer accumulates the serialized state. All multi-byte values are big
// endian.
type Writer struct {
	data []byte
}

// NewWriter is the preferred method of initialisation for the Writer type.
// The container header is written immediately.
func NewWriter() *Writer {
	w := &Writer{}
	w.data = append(w.data, magic[:]...)
	w.data = append(w.data, VersionMajor, VersionMinor)
	return w
}

// Bytes returns the accumulated snapshot.
func (w *Writer) Bytes() []byte {
	return w.data
}

func (w *Writer) Put8(v uint8) {
	w.data = append(w.data, v)
}

func (w *Writer) Put16(v uint16) {
	w.data = binary.BigEndian.AppendUint16(w.data, v)
}

func (w *Writer) Put32(v uint32) {
	w.data = binary.BigEndian.AppendUint32(w.data, v)
}

func (w *Writer) Put64(v uint64) {
	w.data = binary.BigEndian.AppendUint64(w.data, v)
}

func (w *Writer) PutInt(v int64) {
	w.data = binary.BigEndian.AppendUint64(w.data, uint64(v))
}

func (w *Writer) PutBool(v bool) {
	if v {
		w.data = append(w.data, 1)
	} else {
		w.data = append(w.data, 0)
	}
}

// PutBytes writes a length-prefixed byte block.
func (w *Writer) PutBytes(v []byte) {
	w.data = binary.BigEndian.AppendUint32(w.data, uint32(len(v)))
	w.data = append(w.data, v...)
}

// Reader walks a snapshot produced by a Writer. The first read error
// sticks; callers check Err() once after the last read rather than after
// every value.
type Reader struct {
	data []byte
	pos  int
	err  error
}

// NewReader validates the container header. Fails without a Reader if the
// buffer is not a snapshot or the version does not match.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < len(magic)+2 {
		return nil, curated.Errorf(NotASnapshot, "too short")
	}
	for i, m := range magic {
		if data[i] != m {
			return nil, curated.Errorf(NotASnapshot, "bad magic number")
		}
	}
	major := data[len(magic)]
	minor := data[len(magic)+1]
	if major != VersionMajor {
		return nil, curated.Errorf(WrongVersion, major, minor, VersionMajor, VersionMinor)
	}
	return &Reader{data: data, pos: len(magic) + 2}, nil
}

// Err returns the sticky read error, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = curated.Errorf(Truncated, n, len(r.data)-r.pos)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *Reader) Get8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Get16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *Reader) Get32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *Reader) Get64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *Reader) GetInt() int64 {
	return int64(r.Get64())
}

func (r *Reader) GetBool() bool {
	return r.Get8() != 0
}

// GetBytes reads a length-prefixed byte block. The returned slice is a
// copy.
func (r *Reader) GetBytes() []byte {
	n := int(r.Get32())
	b := r.take(n)
	if b == nil {
		return nil
	}
	c := make([]byte, n)
	copy(c, b)
	return c
}
