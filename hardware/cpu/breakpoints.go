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

package cpu

// Breakpoint is a single entry in the breakpoint collection. Skip
// suppresses that many matches before the breakpoint fires. Hits counts
// the times the breakpoint has fired.
type Breakpoint struct {
	Addr    uint32
	Enabled bool
	Skip    int
	Hits    int
}

// Breakpoints is the collection consulted before every instruction when
// breakpoint checking is enabled. In addition to the user entries there is
// a single soft breakpoint, used for step-over style stepping, which is
// consumed when it matches.
type Breakpoints struct {
	entries []*Breakpoint

	soft    uint32
	softSet bool
}

// NewBreakpoints is the preferred method of initialisation for the
// Breakpoints type.
func NewBreakpoints() *Breakpoints {
	return &Breakpoints{}
}

// Add inserts a breakpoint at addr. If a breakpoint already exists at that
// address it is re-enabled rather than duplicated.
func (bk *Breakpoints) Add(addr uint32) *Breakpoint {
	if b := bk.At(addr); b != nil {
		b.Enabled = true
		return b
	}
	b := &Breakpoint{Addr: addr, Enabled: true}
	bk.entries = append(bk.entries, b)
	return b
}

// Remove deletes the breakpoint at addr. Returns false if no breakpoint
// exists at that address.
func (bk *Breakpoints) Remove(addr uint32) bool {
	for i, b := range bk.entries {
		if b.Addr == addr {
			bk.entries = append(bk.entries[:i], bk.entries[i+1:]...)
			return true
		}
	}
	return false
}

// At returns the breakpoint at addr, or nil.
func (bk *Breakpoints) At(addr uint32) *Breakpoint {
	for _, b := range bk.entries {
		if b.Addr == addr {
			return b
		}
	}
	return nil
}

// List returns the breakpoint entries in insertion order.
func (bk *Breakpoints) List() []*Breakpoint {
	return bk.entries
}

// SetSoft arms the soft breakpoint. It is consumed by the next Check that
// matches it.
func (bk *Breakpoints) SetSoft(addr uint32) {
	bk.soft = addr
	bk.softSet = true
}

// ClearSoft disarms the soft breakpoint.
func (bk *Breakpoints) ClearSoft() {
	bk.softSet = false
}

// Check returns true if execution should halt at pc. The soft breakpoint
// is checked first and consumed on match. A matching entry with a
// non-zero skip count decrements the count and does not halt.
func (bk *Breakpoints) Check(pc uint32) bool {
	if bk.softSet && pc == bk.soft {
		bk.softSet = false
		return true
	}

	b := bk.At(pc)
	if b == nil || !b.Enabled {
		return false
	}
	if b.Skip > 0 {
		b.Skip--
		return false
	}
	b.Hits++
	return true
}
