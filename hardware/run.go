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
	"sync/atomic"
	"time"

	"github.com/amityemu/amity/curated"
	"github.com/amityemu/amity/debugger/govern"
	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/messages"
)

// While the continueCheck() function only runs at the end of a CPU
// instruction, it can still be expensive to do a full continue check every
// time.
//
// It depends on context whether it is used or not but the PerformanceBrake
// is a standard value that can be used to filter out expensive code paths
// within a continueCheck() implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return govern.Ending, nil
//		}
//	}
//	return govern.Running, nil
const PerformanceBrake = 100

// CtrlFlag is one bit of the run loop's control word. The flags are set
// and cleared atomically so any goroutine can request attention; the run
// loop services them between instructions.
type CtrlFlag uint32

// List of defined control flags.
const (
	CtrlSnapshot CtrlFlag = 1 << iota
	CtrlInspect
	CtrlTrace
	CtrlBreakpoints
	CtrlStop
)

// wall clock drift beyond which the timer base is reset rather than caught
// up on.
const driftLimit = 200 * time.Millisecond

// how many instructions the trace ring keeps.
const traceDepth = 1024

// TraceEntry records one executed instruction.
type TraceEntry struct {
	Cycle clocks.Cycle
	PC    uint32
}

// ctrl is the control surface between the run loop and the host threads.
type ctrl struct {
	flags atomic.Uint32
	warp  atomic.Bool

	suspendLock sync.Mutex
	suspendCond *sync.Cond
	suspendCnt  int

	traceLock sync.Mutex
	trace     []TraceEntry
}

func (c *ctrl) init() {
	c.suspendCond = sync.NewCond(&c.suspendLock)
}

// SetCtrlFlag requests attention from the run loop. Safe to call from any
// goroutine.
func (amg *Amiga) SetCtrlFlag(f CtrlFlag) {
	for {
		old := amg.ctrl.flags.Load()
		if amg.ctrl.flags.CompareAndSwap(old, old|uint32(f)) {
			return
		}
	}
}

// ClearCtrlFlag withdraws a control flag.
func (amg *Amiga) ClearCtrlFlag(f CtrlFlag) {
	for {
		old := amg.ctrl.flags.Load()
		if amg.ctrl.flags.CompareAndSwap(old, old&^uint32(f)) {
			return
		}
	}
}

// CtrlFlags returns the current control word.
func (amg *Amiga) CtrlFlags() CtrlFlag {
	return CtrlFlag(amg.ctrl.flags.Load())
}

// Suspend raises the suspension count. A running loop parks at its next
// instruction boundary while the count is above zero. Suspend returns at
// once; it does not wait for the loop to reach that boundary. Suspend and
// Resume are ref-counted so nested suspensions behave; the loop restarts
// only when the count returns to zero.
func (amg *Amiga) Suspend() {
	amg.ctrl.suspendLock.Lock()
	amg.ctrl.suspendCnt++
	amg.ctrl.suspendLock.Unlock()
}

// Resume restarts the run loop if no other suspension is outstanding.
func (amg *Amiga) Resume() {
	amg.ctrl.suspendLock.Lock()
	if amg.ctrl.suspendCnt > 0 {
		amg.ctrl.suspendCnt--
	}
	if amg.ctrl.suspendCnt == 0 {
		amg.ctrl.suspendCond.Broadcast()
	}
	amg.ctrl.suspendLock.Unlock()
}

// suspensionPoint parks the run loop while a suspension is outstanding.
// Runs on the emulation goroutine between instructions.
func (amg *Amiga) suspensionPoint() {
	amg.ctrl.suspendLock.Lock()
	for amg.ctrl.suspendCnt > 0 {
		amg.ctrl.suspendCond.Wait()
	}
	amg.ctrl.suspendLock.Unlock()
}

// SetWarp switches warp mode. In warp mode the run loop does not
// synchronize with the host timer and runs as fast as the host allows.
func (amg *Amiga) SetWarp(on bool) {
	if amg.ctrl.warp.Swap(on) == on {
		return
	}
	if on {
		amg.Msg.Post(messages.NotifyWarpOn, 0)
	} else {
		amg.Msg.Post(messages.NotifyWarpOff, 0)
	}
}

// Warp returns true if warp mode is on.
func (amg *Amiga) Warp() bool {
	return amg.ctrl.warp.Load()
}

// TraceLog returns a copy of the instruction trace ring, oldest first.
func (amg *Amiga) TraceLog() []TraceEntry {
	amg.ctrl.traceLock.Lock()
	defer amg.ctrl.traceLock.Unlock()
	log := make([]TraceEntry, len(amg.ctrl.trace))
	copy(log, amg.ctrl.trace)
	return log
}

func (amg *Amiga) recordTrace(cycle clocks.Cycle, pc uint32) {
	amg.ctrl.traceLock.Lock()
	if len(amg.ctrl.trace) >= traceDepth {
		amg.ctrl.trace = amg.ctrl.trace[1:]
	}
	amg.ctrl.trace = append(amg.ctrl.trace, TraceEntry{Cycle: cycle, PC: pc})
	amg.ctrl.traceLock.Unlock()
}

// hostTimer paces the emulation against the wall clock. The base pair
// anchors a simulated cycle to a host instant; the pace comes from the
// master oscillator frequency.
type hostTimer struct {
	base      time.Time
	baseCycle clocks.Cycle
}

func (ht *hostTimer) reset(cycle clocks.Cycle) {
	ht.base = time.Now()
	ht.baseCycle = cycle
}

// sync sleeps until the wall clock catches up with the simulated time. A
// drift beyond the limit in either direction resets the timer base instead
// of trying to catch up.
func (ht *hostTimer) sync(cycle clocks.Cycle) {
	elapsed := float64(cycle-ht.baseCycle) / (clocks.MasterPAL * 1e6)
	expected := ht.base.Add(time.Duration(elapsed * float64(time.Second)))

	drift := time.Until(expected)
	if drift > driftLimit || drift < -driftLimit {
		ht.reset(cycle)
		return
	}
	if drift > 0 {
		time.Sleep(drift)
	}
}

// Run sets the emulation running as quickly as allowed: against the host
// timer normally, flat out in warp mode. Returns when the STOP flag is
// serviced, when a breakpoint is reached or when continueCheck returns the
// Ending state.
func (amg *Amiga) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	if !amg.powered {
		return curated.Errorf("amiga: Run() called on a powered off machine")
	}

	amg.Msg.Post(messages.NotifyRun, 0)

	var timer hostTimer
	timer.reset(amg.CPU.Clock())
	syncFrame := amg.Agnus.Frame()

	var err error

	state := govern.Running

	for state != govern.Ending {
		switch state {
		case govern.Running:
			target := amg.CPU.ExecuteInstruction()
			amg.Agnus.Sched.ExecuteUntil(target)

			if flags := amg.CtrlFlags(); flags != 0 {
				halt, err := amg.serviceCtrlFlags(flags, target)
				if err != nil {
					return err
				}
				if halt {
					amg.Msg.Post(messages.NotifyPause, 0)
					return nil
				}
			}

			// host timer synchronization once per frame
			if frame := amg.Agnus.Frame(); frame != syncFrame {
				syncFrame = frame
				if !amg.Warp() {
					timer.sync(target)
				}
			}
		case govern.Paused:
		default:
			return curated.Errorf("amiga: unsupported emulation state (%s) in Run() function", state)
		}

		amg.suspensionPoint()

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// serviceCtrlFlags handles the control word between instructions. target
// is the master cycle the machine has reached. Returns true if the run
// loop should halt.
func (amg *Amiga) serviceCtrlFlags(flags CtrlFlag, target clocks.Cycle) (bool, error) {
	if flags&CtrlSnapshot != 0 {
		amg.ClearCtrlFlag(CtrlSnapshot)
		if err := amg.takeAutoSnapshot(); err != nil {
			return false, err
		}
	}

	if flags&CtrlInspect != 0 {
		amg.ClearCtrlFlag(CtrlInspect)
		amg.publishInfo()
	}

	if flags&CtrlTrace != 0 {
		amg.recordTrace(target, amg.CPU.PC())
	}

	if flags&CtrlBreakpoints != 0 {
		if pc := amg.CPU.PC(); amg.CPU.Breakpoints.Check(pc) {
			amg.Msg.Post(messages.NotifyBreakpointReached, int(pc))
			return true, nil
		}
	}

	if flags&CtrlStop != 0 {
		amg.ClearCtrlFlag(CtrlStop)
		return true, nil
	}

	return false, nil
}

// RunForFrameCount sets emulator running for the specified number of
// frames. Useful for FPS measurement and regression tests. Not used by the
// debugger because breakpoints are more flexible.
func (amg *Amiga) RunForFrameCount(numFrames int, continueCheck func(frame int) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(frame int) (govern.State, error) { return govern.Running, nil }
	}

	targetFrame := amg.Agnus.Frame() + int64(numFrames)

	state := govern.Running
	for amg.Agnus.Frame() != targetFrame && state != govern.Ending {
		err := amg.Step()
		if err != nil {
			return err
		}

		state, err = continueCheck(int(amg.Agnus.Frame()))
		if err != nil {
			return err
		}
	}

	return nil
}
