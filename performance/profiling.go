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

package performance

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strings"
)

// Profile selects the type of profiling RunProfiler performs.
type Profile int

// List of valid Profile values.
const (
	ProfileNone  Profile = 0x00
	ProfileCPU   Profile = 0x01
	ProfileMem   Profile = 0x02
	ProfileTrace Profile = 0x04
)

// ParseProfileString converts a list of profile names, separated by
// commas, into a Profile value.
func ParseProfileString(s string) (Profile, error) {
	p := ProfileNone
	for _, t := range strings.Split(s, ",") {
		switch strings.TrimSpace(t) {
		case "none", "":
			// leaves p alone
		case "cpu":
			p |= ProfileCPU
		case "mem":
			p |= ProfileMem
		case "trace":
			p |= ProfileTrace
		case "all":
			p = ProfileCPU | ProfileMem | ProfileTrace
		default:
			return ProfileNone, fmt.Errorf("profile: unrecognised type: %s", t)
		}
	}
	return p, nil
}

// RunProfiler runs the supplied function with the requested profiling
// active. Profile files are named after the tag.
func RunProfiler(profile Profile, tag string, run func() error) error {
	if profile&ProfileCPU == ProfileCPU {
		f, err := os.Create(fmt.Sprintf("%s_cpu.profile", tag))
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	if profile&ProfileTrace == ProfileTrace {
		f, err := os.Create(fmt.Sprintf("%s_trace.profile", tag))
		if err != nil {
			return err
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			return err
		}
		defer trace.Stop()
	}

	err := run()

	if profile&ProfileMem == ProfileMem {
		f, ferr := os.Create(fmt.Sprintf("%s_mem.profile", tag))
		if ferr != nil {
			return ferr
		}
		defer f.Close()
		runtime.GC()
		if perr := pprof.WriteHeapProfile(f); perr != nil {
			return perr
		}
	}

	return err
}
