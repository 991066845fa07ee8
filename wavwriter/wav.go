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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirity, and written to disk
// on program end. It is therefore probably only suitable for testing purposes.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/hardware/paula"
	"github.com/amityemu/amity/logger"
)

// sentinel errors returned by the wavwriter package.
const (
	EncodingError = "wavwriter: %v: %v"
)

// WavWriter collects the stereo sample stream produced by the audio unit.
type WavWriter struct {
	filename string
	buffer   []int // interleaved left/right
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	aw := &WavWriter{
		filename: filename,
		buffer:   make([]int, 0, paula.HostSampleRate*2),
	}
	return aw, nil
}

// SetAudio appends one stereo sample pair. Suitable for direct use as the
// audio unit's sample callback.
func (aw *WavWriter) SetAudio(left float32, right float32) {
	aw.buffer = append(aw.buffer, int(left*32767), int(right*32767))
}

// EndMixing writes the collected samples to disk.
func (aw *WavWriter) EndMixing() error {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf(EncodingError, aw.filename, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, paula.HostSampleRate, 16, 2, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  paula.HostSampleRate,
		},
		Data:           aw.buffer,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return curated.Errorf(EncodingError, aw.filename, err)
	}

	logger.Logf(logger.Allow, "wavwriter", "%d samples written to %s",
		len(aw.buffer)/2, aw.filename)

	return nil
}
