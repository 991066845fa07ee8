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

// Package modalflag layers sub-modes on top of the flag package. The
// command line is consumed in stages: a mode word selects the next layer
// and each layer carries its own flag set.
package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Modes parses a command line made of flags and mode words. The Output
// field should be set before calling Parse() or help requests will print
// nothing.
type Modes struct {
	Output io.Writer

	flags *flag.FlagSet

	// the full argument list and the index of the first argument the next
	// Parse() should look at
	args    []string
	argsIdx int

	// sub-modes accepted by the next Parse(). the first entry is the
	// default when no mode word is given
	subModes []string

	// every mode word encountered so far
	path []string
}

// ParseResult is returned by Parse() alongside any error.
type ParseResult int

const (
	ParseContinue ParseResult = iota
	ParseHelp
	ParseError
)

// NewArgs begins parsing of a fresh argument list.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode starts a new parsing layer. Flags and sub-modes added after
// this call apply to the next Parse().
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
}

// Mode returns the most recent mode word.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode word encountered, separated by slashes.
func (md *Modes) Path() string {
	return strings.Join(md.path, "/")
}

// AddSubModes declares the mode words the next Parse() accepts. The
// first is the default. Comparison is case insensitive.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// AddBool flag for the next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddInt flag for the next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for the next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// Parse the current layer of the argument list. A request for help
// (-help et al) is serviced here and indicated with ParseHelp.
func (md *Modes) Parse() (ParseResult, error) {
	help := &strings.Builder{}
	md.flags.SetOutput(help)

	if err := md.flags.Parse(md.args[md.argsIdx:]); err != nil {
		if err == flag.ErrHelp {
			md.printHelp(help.String())
			return ParseHelp, nil
		}
		return ParseError, err
	}

	// a mode word is expected before any flags of the next layer. when
	// the word is missing the default sub-mode applies
	if len(md.subModes) > 0 {
		arg := strings.ToUpper(md.flags.Arg(0))
		mode := md.subModes[0]
		for _, m := range md.subModes {
			if m == arg {
				mode = arg
				md.argsIdx++
				break
			}
		}
		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

func (md *Modes) printHelp(flagHelp string) {
	if md.Output == nil {
		return
	}
	if md.Path() != "" {
		fmt.Fprintf(md.Output, "Usage of %s mode:\n", md.Path())
	} else {
		fmt.Fprintln(md.Output, "Usage:")
	}
	if s := strings.TrimPrefix(flagHelp, "Usage:\n"); s != "" {
		fmt.Fprint(md.Output, s)
	}
	if len(md.subModes) > 0 {
		fmt.Fprintf(md.Output, "  available sub-modes: %s (default %s)\n",
			strings.Join(md.subModes, ", "), md.subModes[0])
	}
}

// RemainingArgs returns the arguments of the current layer that follow its
// flags. A mode word recognised by Parse() is not removed and comes first.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered remaining argument, or the empty string.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}
