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

// Package hostaudio plays the audio unit's sample stream through the host
// sound device. The emulation goroutine queues stereo pairs into a ring;
// the audio library's own goroutine drains it. Queue never blocks: when
// the ring is full the oldest pair is dropped, keeping latency bounded at
// the expense of a click.
package hostaudio

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/hardware/paula"
	"github.com/amityemu/amity/logger"
)

const NoAudioDevice = "hostaudio: %v"

// ring capacity in float32 values. must be a power of two. 8192 stereo
// pairs is about 190ms at the host sample rate
const ringLen = 16384

// Player owns the host audio context and the sample ring between the
// emulation and the device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	// single producer (emulation), single consumer (device callback).
	// head and tail only ever move forward; the slice cells are written
	// before head is published
	ring [ringLen]float32
	head atomic.Int64
	tail atomic.Int64

	dropped atomic.Int64
}

// NewPlayer is the preferred method of initialisation for the Player type.
// Fails with a curated error when the host has no usable audio device.
func NewPlayer() (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   paula.HostSampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf(NoAudioDevice, err)
	}
	<-ready

	pl := &Player{ctx: ctx}
	pl.player = ctx.NewPlayer(pl)

	return pl, nil
}

// Start begins playback. The device pulls from the ring from here on.
func (pl *Player) Start() {
	pl.player.Play()
}

// Close stops playback and releases the device.
func (pl *Player) Close() error {
	if err := pl.player.Close(); err != nil {
		return curated.Errorf(NoAudioDevice, err)
	}
	return nil
}

// Queue adds one stereo pair. Suitable for direct use as the audio unit's
// sample callback. Never blocks.
func (pl *Player) Queue(left float32, right float32) {
	head := pl.head.Load()
	tail := pl.tail.Load()

	if head-tail >= ringLen {
		// full. drop the oldest pair rather than the newest so that what
		// plays is always the most recent audio
		pl.tail.CompareAndSwap(tail, tail+2)
		if pl.dropped.Add(2)%(paula.HostSampleRate*2) == 0 {
			logger.Log(logger.Allow, "hostaudio", "sample ring overrun")
		}
	}

	pl.ring[head&(ringLen-1)] = left
	pl.ring[(head+1)&(ringLen-1)] = right
	pl.head.Store(head + 2)
}

// Dropped returns the number of samples lost to ring overruns.
func (pl *Player) Dropped() int64 {
	return pl.dropped.Load()
}

// Read implements io.Reader. Called by the audio library's goroutine;
// underruns are padded with silence.
func (pl *Player) Read(p []byte) (int, error) {
	n := len(p) / 4 * 4

	head := pl.head.Load()
	tail := pl.tail.Load()

	for i := 0; i < n; i += 4 {
		var v float32
		if tail < head {
			v = pl.ring[tail&(ringLen-1)]
			tail++
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(v))
	}

	pl.tail.Store(tail)

	return n, nil
}
