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

package memory

import (
	"time"
)

// RTC is the battery backed clock chip. The sixteen nibble registers hold
// the time in BCD digits; the stored value is kept as an offset from the
// host clock so the chip stays settable without drifting.
type RTC struct {
	reg  [16]uint8
	diff time.Duration
}

// NewRTC is the preferred method of initialisation for the RTC type.
func NewRTC() *RTC {
	rtc := &RTC{}
	rtc.reg[13] = 0b001
	rtc.reg[14] = 0b000
	rtc.reg[15] = 0b100
	return rtc
}

// Peek reads one of the sixteen registers. The digit registers are
// refreshed from the host clock first.
func (rtc *RTC) Peek(nr int) uint8 {
	rtc.timeToRegisters()
	return rtc.reg[nr]
}

// Poke writes a register. Writing a digit register moves the clock; the
// new time is kept as an offset from the host clock.
func (rtc *RTC) Poke(nr int, v uint8) {
	rtc.reg[nr] = v & 0xF
	if nr < 13 {
		rtc.registersToTime()
	}
}

func (rtc *RTC) timeToRegisters() {
	t := time.Now().Add(rtc.diff)

	rtc.reg[0] = uint8(t.Second() % 10)
	rtc.reg[1] = uint8(t.Second() / 10)
	rtc.reg[2] = uint8(t.Minute() % 10)
	rtc.reg[3] = uint8(t.Minute() / 10)
	rtc.reg[4] = uint8(t.Hour() % 10)
	rtc.reg[5] = uint8(t.Hour() / 10)
	rtc.reg[6] = uint8(t.Day() % 10)
	rtc.reg[7] = uint8(t.Day() / 10)
	rtc.reg[8] = uint8(int(t.Month()) % 10)
	rtc.reg[9] = uint8(int(t.Month()) / 10)
	rtc.reg[10] = uint8(t.Year() % 10)
	rtc.reg[11] = uint8(t.Year() / 10 % 10)
	rtc.reg[12] = uint8(t.YearDay() / 7 & 0x7)

	// in 12 hour mode the PM flag replaces the hour 20 bit
	if rtc.reg[15]&0b100 == 0 && t.Hour() > 12 {
		rtc.reg[4] = uint8((t.Hour() - 12) % 10)
		rtc.reg[5] = uint8((t.Hour()-12)/10) | 0b100
	}
}

func (rtc *RTC) registersToTime() {
	now := time.Now()
	t := time.Date(
		now.Year()/100*100+int(rtc.reg[10])+10*int(rtc.reg[11]),
		time.Month(int(rtc.reg[8])+10*int(rtc.reg[9])),
		int(rtc.reg[6])+10*int(rtc.reg[7]),
		int(rtc.reg[4])+10*int(rtc.reg[5]&0b011),
		int(rtc.reg[2])+10*int(rtc.reg[3]),
		int(rtc.reg[0])+10*int(rtc.reg[1]),
		0, now.Location())
	rtc.diff = t.Sub(now)
}
