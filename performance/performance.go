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

// Package performance measures the speed of the emulation. Check() runs
// a machine flat out for a fixed period of time and reports the achieved
// frame rate against the PAL rate. Profiling information can be gathered
// at the same time.
package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/amityemu/amity/debugger/govern"
	"github.com/amityemu/amity/hardware"
)

// sentinel error ending the run loop when the measurement period is over.
var timedOut = errors.New("performance timed out")

// Check runs the machine for the given duration and writes the achieved
// frame rate to output. The machine must be ready to power on: ROM
// installed and any disk already inserted. Warp is forced for the
// duration of the measurement.
func Check(output io.Writer, profile Profile, amg *hardware.Amiga, duration string) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return fmt.Errorf("performance: %w", err)
	}

	if err := amg.PowerOn(); err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	amg.SetWarp(true)

	// everything here runs on the emulation goroutine so the frame
	// counter can be read directly
	startFrame := amg.Agnus.Frame()

	runner := func() error {
		// a two second leadtime lets caches and the host scheduler settle
		// before measurement begins. false on the channel starts the
		// measurement, true ends it
		timerChan := make(chan bool)
		go func() {
			time.AfterFunc(2*time.Second, func() {
				timerChan <- false
				time.AfterFunc(dur, func() {
					timerChan <- true
				})
			})
		}()

		brakeCt := 0

		return amg.Run(func() (govern.State, error) {
			brakeCt++
			if brakeCt >= hardware.PerformanceBrake {
				brakeCt = 0
				select {
				case v := <-timerChan:
					if v {
						return govern.Ending, timedOut
					}
					startFrame = amg.Agnus.Frame()
				default:
				}
			}
			return govern.Running, nil
		})
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !errors.Is(err, timedOut) {
		return fmt.Errorf("performance: %w", err)
	}

	numFrames := amg.Agnus.Frame() - startFrame
	fps, accuracy := CalcFPS(numFrames, dur.Seconds())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n",
		fps, numFrames, dur.Seconds(), accuracy)

	return nil
}
