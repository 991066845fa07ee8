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

package agnus_test

import (
	"testing"

	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/test"
)

func TestScheduler_ordering(t *testing.T) {
	sch := agnus.NewScheduler()

	var order []agnus.Slot
	sch.RegisterHandler(agnus.SlotCIAA, func(_ agnus.EventID, _ int64) {
		order = append(order, agnus.SlotCIAA)
	})
	sch.RegisterHandler(agnus.SlotCOP, func(_ agnus.EventID, _ int64) {
		order = append(order, agnus.SlotCOP)
	})
	sch.RegisterHandler(agnus.SlotBLT, func(_ agnus.EventID, _ int64) {
		order = append(order, agnus.SlotBLT)
	})

	// schedule in reverse priority order. all due at the same cycle
	sch.ScheduleAbs(agnus.SlotBLT, 100, agnus.BltExecute)
	sch.ScheduleAbs(agnus.SlotCOP, 100, agnus.CopFetch)
	sch.ScheduleAbs(agnus.SlotCIAA, 100, agnus.CIAExecute)

	sch.ExecuteUntil(200)

	test.ExpectEquality(t, len(order), 3)
	test.ExpectEquality(t, order[0], agnus.SlotCIAA)
	test.ExpectEquality(t, order[1], agnus.SlotCOP)
	test.ExpectEquality(t, order[2], agnus.SlotBLT)
	test.ExpectEquality(t, sch.Clock, 200)
}

func TestScheduler_nextTriggerInvariant(t *testing.T) {
	sch := agnus.NewScheduler()
	sch.RegisterHandler(agnus.SlotDMA, func(_ agnus.EventID, _ int64) {})

	sch.ScheduleAbs(agnus.SlotDMA, 500, agnus.DMADisk)
	sch.ScheduleAbs(agnus.SlotCOP, 300, agnus.CopFetch)
	sch.ScheduleAbs(agnus.SlotBLT, 400, agnus.BltInit)

	// next trigger is the minimum of all primary slots
	test.ExpectEquality(t, sch.NextTrigger(), 300)

	sch.Cancel(agnus.SlotCOP)
	test.ExpectEquality(t, sch.NextTrigger(), 400)

	sch.Disable(agnus.SlotBLT)
	test.ExpectEquality(t, sch.NextTrigger(), 500)
}

func TestScheduler_rescheduleKeepsID(t *testing.T) {
	sch := agnus.NewScheduler()

	var fired agnus.EventID
	sch.RegisterHandler(agnus.SlotCOP, func(id agnus.EventID, _ int64) {
		fired = id
	})

	sch.ScheduleAbs(agnus.SlotCOP, 100, agnus.CopWait)
	sch.RescheduleAbs(agnus.SlotCOP, 150)

	// scheduling followed by a reschedule to the same cycle is the same as
	// scheduling at that cycle directly
	test.ExpectEquality(t, sch.Peek(agnus.SlotCOP).Trigger, 150)
	test.ExpectEquality(t, sch.Peek(agnus.SlotCOP).ID, agnus.CopWait)

	sch.ExecuteUntil(150)
	test.ExpectEquality(t, fired, agnus.CopWait)
}

func TestScheduler_rescheduleEmptySlot(t *testing.T) {
	sch := agnus.NewScheduler()

	// rescheduling a slot that has never been scheduled is ignored
	sch.RescheduleAbs(agnus.SlotBLT, 100)
	test.ExpectEquality(t, sch.Peek(agnus.SlotBLT).Trigger, agnus.Never)
	test.ExpectEquality(t, sch.IsPending(agnus.SlotBLT), false)
}

func TestScheduler_pastCycleClamped(t *testing.T) {
	sch := agnus.NewScheduler()

	var fired int
	sch.RegisterHandler(agnus.SlotDMA, func(_ agnus.EventID, _ int64) {
		fired++
	})

	sch.ScheduleAbs(agnus.SlotDMA, 100, agnus.DMADisk)
	sch.ExecuteUntil(200)
	test.ExpectEquality(t, fired, 1)

	// scheduling in the past is clamped to now and fires at the next
	// ExecuteUntil
	sch.ScheduleAbs(agnus.SlotDMA, 50, agnus.DMADisk)
	test.ExpectEquality(t, sch.Peek(agnus.SlotDMA).Trigger, 200)

	sch.ExecuteUntil(201)
	test.ExpectEquality(t, fired, 2)
}

func TestScheduler_noneIDIsNoop(t *testing.T) {
	sch := agnus.NewScheduler()

	var fired int
	sch.RegisterHandler(agnus.SlotDMA, func(_ agnus.EventID, _ int64) {
		fired++
	})

	sch.ScheduleAbs(agnus.SlotDMA, 100, agnus.EvNone)
	sch.ExecuteUntil(200)
	test.ExpectEquality(t, fired, 0)
}

func TestScheduler_secondaryFanout(t *testing.T) {
	sch := agnus.NewScheduler()

	var served []agnus.SecSlot
	sch.RegisterSecHandler(agnus.SlotIrqVERTB, func(_ agnus.EventID, _ int64) {
		served = append(served, agnus.SlotIrqVERTB)
	})
	sch.RegisterSecHandler(agnus.SlotDSK, func(_ agnus.EventID, _ int64) {
		served = append(served, agnus.SlotDSK)
	})

	sch.ScheduleSecAbs(agnus.SlotDSK, 300, agnus.DskRotate)
	sch.ScheduleSecAbs(agnus.SlotIrqVERTB, 100, agnus.IrqSet)

	// the SEC slot mirrors the minimum secondary trigger
	test.ExpectEquality(t, sch.Peek(agnus.SlotSEC).Trigger, 100)
	test.ExpectEquality(t, sch.NextTrigger(), 100)

	sch.ExecuteUntil(150)
	test.ExpectEquality(t, len(served), 1)
	test.ExpectEquality(t, served[0], agnus.SlotIrqVERTB)

	// mirror has moved on to the remaining secondary event
	test.ExpectEquality(t, sch.Peek(agnus.SlotSEC).Trigger, 300)

	sch.ExecuteUntil(300)
	test.ExpectEquality(t, len(served), 2)
	test.ExpectEquality(t, served[1], agnus.SlotDSK)
}

func TestScheduler_handlerReschedules(t *testing.T) {
	sch := agnus.NewScheduler()

	var fired int
	sch.RegisterHandler(agnus.SlotCIAA, func(_ agnus.EventID, _ int64) {
		fired++
		if fired < 5 {
			sch.ScheduleRel(agnus.SlotCIAA, 40, agnus.CIAExecute)
		}
	})

	sch.ScheduleAbs(agnus.SlotCIAA, 40, agnus.CIAExecute)
	sch.ExecuteUntil(1000)

	test.ExpectEquality(t, fired, 5)
	test.ExpectEquality(t, sch.IsPending(agnus.SlotCIAA), false)
}
