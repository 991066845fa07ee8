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

package agnus

import (
	"math"

	"github.com/amityemu/amity/hardware/clocks"
	"github.com/amityemu/amity/logger"
)

// Never marks an event slot as empty/disabled.
const Never = clocks.Cycle(math.MaxInt64)

// Scheduler is the slotted event queue at the centre of the emulation. It
// owns the master clock: ExecuteUntil() advances the clock, serving every
// due event on the way.
//
// The primary table is the hot path and is kept small. Rare events live in
// the secondary table which is reached through the primary SEC slot. The
// SEC slot's trigger always mirrors the minimum trigger of the secondary
// table.
type Scheduler struct {
	// the master clock. only ExecuteUntil() advances it
	Clock clocks.Cycle

	primary   [NumSlots]EventSlot
	secondary [NumSecSlots]EventSlot

	// cached minimums of the two tables:
	//   nextTrigger    <= min(primary[*].Trigger)
	//   nextSecTrigger <= min(secondary[*].Trigger)
	// The cancel and disable calls and each round of event serving
	// recompute them exactly. A
	// schedule or reschedule lowers them to an earlier trigger but does not
	// raise them when the slot holding the minimum moves later; ExecuteUntil
	// then reaches the stale value, serves nothing there and recomputes.
	nextTrigger    clocks.Cycle
	nextSecTrigger clocks.Cycle

	handlers    [NumSlots]Handler
	secHandlers [NumSecSlots]Handler

	// converts a beam position in the current or next frame to an absolute
	// master cycle. assigned by Agnus at wiring time
	posToCycle func(v, h int) clocks.Cycle
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler() *Scheduler {
	sch := &Scheduler{}
	for i := range sch.primary {
		sch.primary[i].Trigger = Never
	}
	for i := range sch.secondary {
		sch.secondary[i].Trigger = Never
	}
	sch.nextTrigger = Never
	sch.nextSecTrigger = Never

	// the SEC slot is always owned by the scheduler itself
	sch.handlers[SlotSEC] = func(_ EventID, _ int64) {
		sch.serveSecondary()
	}

	return sch
}

// RegisterHandler binds a handler function to a primary slot. The chip that
// owns the slot registers its handler at wiring time.
func (sch *Scheduler) RegisterHandler(slot Slot, h Handler) {
	if slot == SlotSEC {
		logger.Log(logger.Allow, "scheduler", "SEC slot handler cannot be replaced")
		return
	}
	sch.handlers[slot] = h
}

// RegisterSecHandler binds a handler function to a secondary slot.
func (sch *Scheduler) RegisterSecHandler(slot SecSlot, h Handler) {
	sch.secHandlers[slot] = h
}

// SetPosConverter provides the function that converts a beam position to an
// absolute master cycle. Assigned by Agnus at wiring time.
func (sch *Scheduler) SetPosConverter(f func(v, h int) clocks.Cycle) {
	sch.posToCycle = f
}

// clamp the requested trigger cycle to now. scheduling into the past is a
// programming error but the release behaviour is to recover.
func (sch *Scheduler) clamp(cycle clocks.Cycle) clocks.Cycle {
	if cycle < sch.Clock {
		logger.Logf(logger.Allow, "scheduler", "past-cycle schedule (%d < %d) clamped", cycle, sch.Clock)
		return sch.Clock
	}
	return cycle
}

// ScheduleAbs sets a primary slot to fire at an absolute master cycle.
func (sch *Scheduler) ScheduleAbs(slot Slot, cycle clocks.Cycle, id EventID) {
	cycle = sch.clamp(cycle)
	sch.primary[slot].Trigger = cycle
	sch.primary[slot].ID = id
	if cycle < sch.nextTrigger {
		sch.nextTrigger = cycle
	}
}

// ScheduleAbsData is ScheduleAbs with aux data attached to the event.
func (sch *Scheduler) ScheduleAbsData(slot Slot, cycle clocks.Cycle, id EventID, data int64) {
	sch.ScheduleAbs(slot, cycle, id)
	sch.primary[slot].Data = data
}

// ScheduleRel sets a primary slot to fire delta master cycles from now.
func (sch *Scheduler) ScheduleRel(slot Slot, delta clocks.Cycle, id EventID) {
	sch.ScheduleAbs(slot, sch.Clock+delta, id)
}

// ScheduleRelData is ScheduleRel with aux data attached to the event.
func (sch *Scheduler) ScheduleRelData(slot Slot, delta clocks.Cycle, id EventID, data int64) {
	sch.ScheduleAbsData(slot, sch.Clock+delta, id, data)
}

// SchedulePos sets a primary slot to fire when the beam reaches the given
// position. If the position has already passed in the current frame the
// event is scheduled for the next frame.
func (sch *Scheduler) SchedulePos(slot Slot, v, h int, id EventID) {
	sch.ScheduleAbs(slot, sch.posToCycle(v, h), id)
}

// RescheduleAbs changes the trigger of a primary slot, keeping the event id
// and data. Rescheduling an empty slot is a programming error; the slot is
// left untouched.
func (sch *Scheduler) RescheduleAbs(slot Slot, cycle clocks.Cycle) {
	if sch.primary[slot].ID == EvNone {
		logger.Logf(logger.Allow, "scheduler", "reschedule of empty slot %s ignored", slot)
		return
	}
	cycle = sch.clamp(cycle)
	sch.primary[slot].Trigger = cycle
	if cycle < sch.nextTrigger {
		sch.nextTrigger = cycle
	}
}

// RescheduleRel changes the trigger of a primary slot to delta master
// cycles from now, keeping the event id and data.
func (sch *Scheduler) RescheduleRel(slot Slot, delta clocks.Cycle) {
	sch.RescheduleAbs(slot, sch.Clock+delta)
}

// Disable a primary slot. The event id is retained so the slot can be
// rescheduled later.
func (sch *Scheduler) Disable(slot Slot) {
	sch.primary[slot].Trigger = Never
	sch.rebuildNextTrigger()
}

// Cancel a primary slot, clearing both trigger and event id.
func (sch *Scheduler) Cancel(slot Slot) {
	sch.primary[slot].Trigger = Never
	sch.primary[slot].ID = EvNone
	sch.primary[slot].Data = 0
	sch.rebuildNextTrigger()
}

// ScheduleSecAbs sets a secondary slot to fire at an absolute master cycle.
// The SEC slot in the primary table is updated to mirror the new minimum of
// the secondary table.
func (sch *Scheduler) ScheduleSecAbs(slot SecSlot, cycle clocks.Cycle, id EventID) {
	cycle = sch.clamp(cycle)
	sch.secondary[slot].Trigger = cycle
	sch.secondary[slot].ID = id
	if cycle < sch.nextSecTrigger {
		sch.nextSecTrigger = cycle
	}
	sch.mirrorSecTrigger()
}

// ScheduleSecAbsData is ScheduleSecAbs with aux data attached to the event.
func (sch *Scheduler) ScheduleSecAbsData(slot SecSlot, cycle clocks.Cycle, id EventID, data int64) {
	sch.ScheduleSecAbs(slot, cycle, id)
	sch.secondary[slot].Data = data
}

// ScheduleSecRel sets a secondary slot to fire delta master cycles from
// now.
func (sch *Scheduler) ScheduleSecRel(slot SecSlot, delta clocks.Cycle, id EventID) {
	sch.ScheduleSecAbs(slot, sch.Clock+delta, id)
}

// ScheduleSecRelData is ScheduleSecRel with aux data attached to the event.
func (sch *Scheduler) ScheduleSecRelData(slot SecSlot, delta clocks.Cycle, id EventID, data int64) {
	sch.ScheduleSecAbsData(slot, sch.Clock+delta, id, data)
}

// ScheduleSecPos sets a secondary slot to fire when the beam reaches the
// given position.
func (sch *Scheduler) ScheduleSecPos(slot SecSlot, v, h int, id EventID) {
	sch.ScheduleSecAbs(slot, sch.posToCycle(v, h), id)
}

// RescheduleSecAbs changes the trigger of a secondary slot, keeping the
// event id and data.
func (sch *Scheduler) RescheduleSecAbs(slot SecSlot, cycle clocks.Cycle) {
	if sch.secondary[slot].ID == EvNone {
		logger.Logf(logger.Allow, "scheduler", "reschedule of empty slot %s ignored", slot)
		return
	}
	cycle = sch.clamp(cycle)
	sch.secondary[slot].Trigger = cycle
	if cycle < sch.nextSecTrigger {
		sch.nextSecTrigger = cycle
	}
	sch.mirrorSecTrigger()
}

// RescheduleSecRel changes the trigger of a secondary slot to delta master
// cycles from now.
func (sch *Scheduler) RescheduleSecRel(slot SecSlot, delta clocks.Cycle) {
	sch.RescheduleSecAbs(slot, sch.Clock+delta)
}

// DisableSec disables a secondary slot, retaining the event id.
func (sch *Scheduler) DisableSec(slot SecSlot) {
	sch.secondary[slot].Trigger = Never
	sch.rebuildNextSecTrigger()
	sch.mirrorSecTrigger()
}

// CancelSec cancels a secondary slot, clearing both trigger and event id.
func (sch *Scheduler) CancelSec(slot SecSlot) {
	sch.secondary[slot].Trigger = Never
	sch.secondary[slot].ID = EvNone
	sch.secondary[slot].Data = 0
	sch.rebuildNextSecTrigger()
	sch.mirrorSecTrigger()
}

// IsPending returns true if the primary slot has a trigger in the future.
func (sch *Scheduler) IsPending(slot Slot) bool {
	return sch.primary[slot].Trigger != Never
}

// IsSecPending returns true if the secondary slot has a trigger in the
// future.
func (sch *Scheduler) IsSecPending(slot SecSlot) bool {
	return sch.secondary[slot].Trigger != Never
}

// Peek returns a copy of the primary slot's cell.
func (sch *Scheduler) Peek(slot Slot) EventSlot {
	return sch.primary[slot]
}

// PeekSec returns a copy of the secondary slot's cell.
func (sch *Scheduler) PeekSec(slot SecSlot) EventSlot {
	return sch.secondary[slot]
}

// NextTrigger returns the cycle at which the earliest primary event is due.
func (sch *Scheduler) NextTrigger() clocks.Cycle {
	return sch.nextTrigger
}

// ExecuteUntil advances the master clock to the target cycle, serving every
// primary event due on the way. Events due at the same cycle are served in
// slot-index order.
func (sch *Scheduler) ExecuteUntil(cycle clocks.Cycle) {
	for sch.nextTrigger <= cycle {
		trigger := sch.nextTrigger
		sch.Clock = trigger

		for i := Slot(0); i < NumSlots; i++ {
			if sch.primary[i].Trigger > trigger {
				continue
			}

			id := sch.primary[i].ID
			data := sch.primary[i].Data

			// the slot is consumed before the handler runs so that the
			// handler is free to reschedule it
			sch.primary[i].Trigger = Never

			if id == EvNone {
				continue
			}
			if h := sch.handlers[i]; h != nil {
				h(id, data)
			}
		}

		sch.rebuildNextTrigger()
	}

	sch.Clock = cycle
}

// serveSecondary is the handler for the primary SEC slot. It serves every
// due secondary event and re-mirrors the new minimum.
func (sch *Scheduler) serveSecondary() {
	trigger := sch.Clock

	for i := SecSlot(0); i < NumSecSlots; i++ {
		if sch.secondary[i].Trigger > trigger {
			continue
		}

		id := sch.secondary[i].ID
		data := sch.secondary[i].Data
		sch.secondary[i].Trigger = Never

		if id == EvNone {
			continue
		}
		if h := sch.secHandlers[i]; h != nil {
			h(id, data)
		}
	}

	sch.rebuildNextSecTrigger()
	sch.mirrorSecTrigger()
}

func (sch *Scheduler) rebuildNextTrigger() {
	next := Never
	for i := range sch.primary {
		if sch.primary[i].Trigger < next {
			next = sch.primary[i].Trigger
		}
	}
	sch.nextTrigger = next
}

func (sch *Scheduler) rebuildNextSecTrigger() {
	next := Never
	for i := range sch.secondary {
		if sch.secondary[i].Trigger < next {
			next = sch.secondary[i].Trigger
		}
	}
	sch.nextSecTrigger = next
}

// mirrorSecTrigger copies the minimum secondary trigger into the primary
// SEC slot.
func (sch *Scheduler) mirrorSecTrigger() {
	sch.primary[SlotSEC].Trigger = sch.nextSecTrigger
	sch.primary[SlotSEC].ID = SecTrigger
	if sch.nextSecTrigger < sch.nextTrigger {
		sch.nextTrigger = sch.nextSecTrigger
	}
}
