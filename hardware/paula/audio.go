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

package paula

import (
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/beam"
)

// audio channel states. The three bits follow the hardware state machine:
// bit 2 distinguishes the output states from the startup states.
const (
	audIdle     = 0b000
	audCPU      = 0b001 // DMA off, driven by AUDxDAT writes
	audStartup1 = 0b010 // first word of a block on its way
	audStartup2 = 0b011 // second word on its way
	audOutputHi = 0b110 // playing the high byte of the buffer
	audOutputLo = 0b111 // playing the low byte
)

// DMA clock ticks per scan line. The period counters run at the DMA clock.
const audioTicksPerLine = beam.HposCnt

// host sample rate the unit resamples to.
const HostSampleRate = 44100

// DMA clock frequency, for the period to host-rate conversion.
const dmaClockHz = 3546895

// audioChannel is one of the four sample channels.
type audioChannel struct {
	nr    int
	state int

	audlenLatch uint16
	audlen      uint16
	audperLatch uint16
	audvol      uint16
	auddat      uint16

	audpt  uint32
	audper int32

	// the word being played and the byte currently on the DAC. lo marks
	// the low byte phase of the CPU output state
	buffer uint16
	sample int8
	lo     bool

	// true if the DMA slot should fetch the next word
	request bool
}

// vol returns the channel volume clamped to the 0..64 range.
func (c *audioChannel) vol() int32 {
	if c.audvol >= 64 {
		return 64
	}
	return int32(c.audvol)
}

// out returns the current DAC level scaled by the volume.
func (c *audioChannel) out() int32 {
	if c.state&0b100 == 0 && c.state != audCPU {
		return 0
	}
	return int32(c.sample) * c.vol()
}

// AudioUnit is Paula's four channel sample player. The DMA slots feed the
// channels; HSync advances the period counters and resamples the DAC
// levels to the host rate.
type AudioUnit struct {
	ag  *agnus.Agnus
	mem agnus.ChipBus
	pa  *Paula

	// OnSample receives one stereo frame at the host sample rate.
	// channels 0 and 3 mix to the left, 1 and 2 to the right
	OnSample func(left float32, right float32)

	channels [4]audioChannel

	// fractional host samples owed, in units of 1/HostSampleRate
	resample int64
}

// newAudioUnit is the preferred method of initialisation for the AudioUnit
// type.
func newAudioUnit(ag *agnus.Agnus, mem agnus.ChipBus, pa *Paula) *AudioUnit {
	au := &AudioUnit{
		ag:  ag,
		mem: mem,
		pa:  pa,
	}
	au.reset()
	return au
}

func (au *AudioUnit) reset() {
	au.channels = [4]audioChannel{}
	for ch := range au.channels {
		au.channels[ch].nr = ch
	}
	au.resample = 0
}

// ChannelState returns the state bits of one channel.
func (au *AudioUnit) ChannelState(ch int) int {
	return au.channels[ch].state
}

// PokeAUDLEN sets the block length, in words, of a channel.
func (au *AudioUnit) PokeAUDLEN(ch int, v uint16) {
	au.channels[ch].audlenLatch = v
}

// PokeAUDPER sets the period of a channel, in DMA clock ticks per byte.
func (au *AudioUnit) PokeAUDPER(ch int, v uint16) {
	au.channels[ch].audperLatch = v
}

// PokeAUDVOL sets the volume of a channel. 64 and above is maximum.
func (au *AudioUnit) PokeAUDVOL(ch int, v uint16) {
	au.channels[ch].audvol = v & 0x7F
}

// PokeAUDDAT feeds a sample word directly. With the channel's DMA disabled
// this drives the CPU output state: the word plays once and the interrupt
// requests the next.
func (au *AudioUnit) PokeAUDDAT(ch int, v uint16) {
	c := &au.channels[ch]
	c.auddat = v

	if c.state == audIdle {
		c.state = audCPU
		c.buffer = v
		c.audper = int32(c.audperLatch)
		c.sample = int8(v >> 8)
		c.lo = false
	}
}

// EnableDMA starts or stops the DMA state machine of a channel. Called on
// DMACON changes of the AUDxEN bits.
func (au *AudioUnit) EnableDMA(ch int, on bool) {
	c := &au.channels[ch]

	if on {
		if c.state == audIdle || c.state == audCPU {
			c.state = audStartup1
			c.audlen = c.audlenLatch
			c.audpt = au.ag.AudLc(ch)
			c.request = true
		}
		return
	}

	c.state = audIdle
	c.request = false
}

// ServeDMA fetches one word for a channel. Runs in the channel's DMA slot
// once per line; the fetch only happens when the state machine has asked
// for data.
func (au *AudioUnit) ServeDMA(ch int) {
	c := &au.channels[ch]
	if !c.request {
		return
	}
	c.request = false

	v := au.mem.PeekChip16(c.audpt)
	c.audpt += 2

	switch c.state {
	case audStartup1:
		// the first word of a block raises the interrupt: the handler has
		// one block length of time to supply the next pointers
		c.auddat = v
		c.state = audStartup2
		c.request = true
		au.pa.RaiseIrq(IrqAUD0 + IrqSource(ch))
		au.consumeLen(c, ch)

	case audStartup2:
		c.buffer = c.auddat
		c.auddat = v
		c.state = audOutputHi
		c.audper = int32(c.audperLatch)
		c.sample = int8(c.buffer >> 8)
		au.consumeLen(c, ch)

	case audOutputHi, audOutputLo:
		c.auddat = v
		au.consumeLen(c, ch)
	}
}

// consumeLen counts down the block length. At the end of the block the
// pointer and length reload from their latches.
func (au *AudioUnit) consumeLen(c *audioChannel, ch int) {
	if c.audlen > 1 {
		c.audlen--
		return
	}
	c.audlen = c.audlenLatch
	c.audpt = au.ag.AudLc(ch)
	au.pa.RaiseIrq(IrqAUD0 + IrqSource(ch))
}

// HSync advances all channels over one scan line of DMA clock ticks and
// emits the host samples that fall into the line.
func (au *AudioUnit) HSync() {
	for ch := range au.channels {
		au.advance(&au.channels[ch], audioTicksPerLine)
	}

	if au.OnSample == nil {
		return
	}

	au.resample += audioTicksPerLine * HostSampleRate
	for au.resample >= dmaClockHz {
		au.resample -= dmaClockHz

		left := au.channels[0].out() + au.channels[3].out()
		right := au.channels[1].out() + au.channels[2].out()

		// each side sums two channels of sample*volume, at most 2*127*64
		au.OnSample(float32(left)/16384, float32(right)/16384)
	}
}

// advance runs a channel's period counter over a number of DMA ticks,
// stepping the output state machine on every expiry.
func (au *AudioUnit) advance(c *audioChannel, ticks int32) {
	if c.state&0b100 == 0 && c.state != audCPU {
		return
	}

	for ticks > 0 {
		if c.audper > ticks {
			c.audper -= ticks
			return
		}
		ticks -= c.audper
		c.audper = int32(c.audperLatch)
		if c.audper == 0 {
			c.audper = 1
		}
		au.step(c)
	}
}

// step moves the output state machine one byte forward.
func (au *AudioUnit) step(c *audioChannel) {
	switch c.state {
	case audCPU:
		if !c.lo {
			c.sample = int8(c.buffer)
			c.lo = true
			break
		}
		// the word has played. request the next through the interrupt and
		// keep replaying the latch until it arrives
		au.pa.RaiseIrq(IrqAUD0 + IrqSource(c.nr))
		c.buffer = c.auddat
		c.sample = int8(c.buffer >> 8)
		c.lo = false

	case audOutputHi:
		c.sample = int8(c.buffer)
		c.state = audOutputLo

	case audOutputLo:
		c.buffer = c.auddat
		c.sample = int8(c.buffer >> 8)
		c.state = audOutputHi
		c.request = true
	}
}
