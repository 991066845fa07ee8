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

package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/amityemu/amity/adf"
	"github.com/amityemu/amity/debugger"
	"github.com/amityemu/amity/debugger/govern"
	"github.com/amityemu/amity/debugger/terminal"
	"github.com/amityemu/amity/debugger/terminal/colorterm"
	"github.com/amityemu/amity/debugger/terminal/plainterm"
	"github.com/amityemu/amity/hardware"
	"github.com/amityemu/amity/hostaudio"
	"github.com/amityemu/amity/logger"
	"github.com/amityemu/amity/messages"
	"github.com/amityemu/amity/modalflag"
	"github.com/amityemu/amity/performance"
	"github.com/amityemu/amity/romfile"
	"github.com/amityemu/amity/statsview"
	"github.com/amityemu/amity/version"
	"github.com/amityemu/amity/wavwriter"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "DEBUG", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "DEBUG":
		err = debug(md)
	case "PERFORMANCE":
		err = perform(md)
	case "VERSION":
		vers, revision, _ := version.Version()
		fmt.Printf("%s (%s)\n", vers, revision)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %v\n", md.Path(), err)
		os.Exit(20)
	}
}

// machineFlags are the flags shared by every mode that creates a machine.
type machineFlags struct {
	rom   *string
	disk  *string
	chip  *int
	slow  *int
	fast  *int
	log   *bool
	stats *bool
}

func addMachineFlags(md *modalflag.Modes) machineFlags {
	return machineFlags{
		rom:   md.AddString("rom", "", "Kickstart or boot ROM image"),
		disk:  md.AddString("disk", "", "ADF disk image for drive df0"),
		chip:  md.AddInt("chip", 512, "chip RAM size in KB"),
		slow:  md.AddInt("slow", 512, "slow RAM size in KB"),
		fast:  md.AddInt("fast", 0, "fast RAM size in KB"),
		log:   md.AddBool("log", false, "echo debugging log to stderr"),
		stats: md.AddBool("statsview", false, "run stats server"),
	}
}

// newMachine creates and configures a machine according to the shared
// flags. Power on is left to the caller.
func newMachine(mf machineFlags) (*hardware.Amiga, error) {
	if *mf.log {
		logger.SetEcho(os.Stderr, true)
	} else {
		logger.SetEcho(nil, false)
	}

	if *mf.stats {
		if statsview.Available() {
			statsview.Launch(os.Stderr)
		} else {
			fmt.Println("* statsview not in this build (use build tag 'statsview')")
		}
	}

	amg := hardware.NewAmiga(messages.NewQueue())

	for _, c := range []struct {
		opt   hardware.Option
		value int
	}{
		{hardware.OptChipRAM, *mf.chip},
		{hardware.OptSlowRAM, *mf.slow},
		{hardware.OptFastRAM, *mf.fast},
	} {
		if err := amg.Configure(c.opt, c.value); err != nil {
			return nil, err
		}
	}

	if *mf.rom == "" {
		return nil, fmt.Errorf("a ROM image is required (-rom)")
	}
	data, err := os.ReadFile(*mf.rom)
	if err != nil {
		return nil, err
	}
	rom, err := romfile.NewROM(data)
	if err != nil {
		return nil, err
	}
	amg.LoadROM(rom)

	if *mf.disk != "" {
		image, err := os.ReadFile(*mf.disk)
		if err != nil {
			return nil, err
		}
		dsk, err := adf.NewDisk(image)
		if err != nil {
			return nil, err
		}
		if err := amg.InsertDisk(0, dsk); err != nil {
			return nil, err
		}
	}

	return amg, nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	warp := md.AddBool("warp", false, "run the machine as fast as possible")
	frames := md.AddInt("frames", 0, "run for the given number of frames then quit")
	wav := md.AddString("wav", "", "record audio to wav file")
	audio := md.AddBool("audio", true, "play audio on the host sound device")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	amg, err := newMachine(mf)
	if err != nil {
		return err
	}

	// notices from the machine go to the log in this mode
	amg.Msg.SetCallback(func(m messages.Message) {
		logger.Logf(logger.Allow, "notify", "%s (%d)", m.Notice, m.Payload)
	})

	// audio can go to the host device and to a wav file at the same time
	var onSample func(left float32, right float32)

	if *audio && !*warp {
		player, err := hostaudio.NewPlayer()
		if err != nil {
			logger.Logf(logger.Allow, "hostaudio", "%v", err)
		} else {
			defer player.Close()
			player.Start()
			onSample = player.Queue
		}
	}

	if *wav != "" {
		aw, err := wavwriter.New(*wav)
		if err != nil {
			return err
		}
		defer func() {
			if err := aw.EndMixing(); err != nil {
				logger.Logf(logger.Allow, "wavwriter", "%v", err)
			}
		}()

		if onSample == nil {
			onSample = aw.SetAudio
		} else {
			hostSample := onSample
			onSample = func(left float32, right float32) {
				hostSample(left, right)
				aw.SetAudio(left, right)
			}
		}
	}

	amg.Paula.Audio.OnSample = onSample

	if err := amg.PowerOn(); err != nil {
		return err
	}
	amg.SetWarp(*warp)

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	if *frames > 0 {
		return amg.RunForFrameCount(*frames, func(frame int) (govern.State, error) {
			select {
			case <-intChan:
				return govern.Ending, nil
			default:
			}
			return govern.Running, nil
		})
	}

	return amg.Run(func() (govern.State, error) {
		select {
		case <-intChan:
			return govern.Ending, nil
		default:
		}
		return govern.Running, nil
	})
}

func debug(md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	termType := md.AddString("term", "COLOR", "terminal type to use in debug mode: COLOR, PLAIN")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	amg, err := newMachine(mf)
	if err != nil {
		return err
	}

	var term terminal.Terminal

	switch *termType {
	case "COLOR":
		term = &colorterm.ColorTerminal{}
	case "PLAIN":
		term = &plainterm.PlainTerminal{}
	default:
		fmt.Printf("! unknown terminal type (%s) defaulting to plain\n", *termType)
		term = &plainterm.PlainTerminal{}
	}

	dbg, err := debugger.New(amg, term)
	if err != nil {
		return err
	}

	return dbg.Start()
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	mf := addMachineFlags(md)
	duration := md.AddString("duration", "5s", "duration of the measurement period")
	profile := md.AddString("profile", "none", "profile the run: cpu, mem, trace, all")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	amg, err := newMachine(mf)
	if err != nil {
		return err
	}

	return performance.Check(os.Stdout, prf, amg, *duration)
}
