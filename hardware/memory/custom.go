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
	"github.com/amityemu/amity/hardware/agnus"
	"github.com/amityemu/amity/hardware/blitter"
	"github.com/amityemu/amity/hardware/copper"
	"github.com/amityemu/amity/hardware/denise"
	"github.com/amityemu/amity/hardware/paula"
	"github.com/amityemu/amity/logger"
)

// Custom is the chip register page at 0xDFF000. Every word access is
// dispatched to the owning chip. It implements copper.CustomWriter so the
// Copper shares the decode with the CPU.
type Custom struct {
	Agnus   *agnus.Agnus
	Copper  *copper.Copper
	Blitter *blitter.Blitter
	Paula   *paula.Paula
	Denise  *denise.Denise
}

// Peek reads a chip register. reg is the even register offset within the
// page. Write-only registers read back the floating bus.
func (cs *Custom) Peek(reg uint16) uint16 {
	switch reg {
	case 0x002:
		return cs.Agnus.DMACON()
	case 0x004:
		return cs.Agnus.PeekVPOSR()
	case 0x006:
		return cs.Agnus.PeekVHPOSR()
	case 0x00A:
		return cs.Denise.PeekJOY0DAT()
	case 0x00C:
		return cs.Denise.PeekJOY1DAT()
	case 0x00E:
		return cs.Denise.PeekCLXDAT()
	case 0x010:
		return cs.Paula.PeekADKCONR()
	case 0x012:
		return cs.Paula.PeekPOTDAT(0)
	case 0x014:
		return cs.Paula.PeekPOTDAT(1)
	case 0x018:
		return cs.Paula.UART.PeekSERDATR()
	case 0x01A:
		return cs.Paula.Disk.PeekDSKBYTR()
	case 0x01C:
		return cs.Paula.PeekINTENAR()
	case 0x01E:
		return cs.Paula.PeekINTREQR()
	case 0x07C:
		return cs.Denise.PeekDENISEID()
	}
	return 0xFFFF
}

// SpyPeek reads a chip register with read side effects suppressed.
func (cs *Custom) SpyPeek(reg uint16) uint16 {
	if reg == 0x00E {
		return cs.Denise.SpyCLXDAT()
	}
	return cs.Peek(reg)
}

// Poke writes a chip register. Every write to an unmapped or ECS-only
// register is logged rather than faulted.
func (cs *Custom) Poke(reg uint16, v uint16) {
	switch reg {
	case 0x020:
		cs.Agnus.PokeDSKPTH(v)
	case 0x022:
		cs.Agnus.PokeDSKPTL(v)
	case 0x024:
		cs.Paula.Disk.PokeDSKLEN(v)
	case 0x02E:
		cs.Copper.PokeCOPCON(v)
	case 0x030:
		cs.Paula.UART.PokeSERDAT(v)
	case 0x032:
		cs.Paula.UART.PokeSERPER(v)
	case 0x034:
		cs.Paula.PokePOTGO(v)
	case 0x036:
		cs.Denise.PokeJOYTEST(v)

	case 0x040:
		cs.Blitter.PokeBLTCON0(v)
	case 0x042:
		cs.Blitter.PokeBLTCON1(v)
	case 0x044:
		cs.Blitter.PokeBLTAFWM(v)
	case 0x046:
		cs.Blitter.PokeBLTALWM(v)
	case 0x048, 0x04A, 0x04C, 0x04E, 0x050, 0x052, 0x054, 0x056:
		// pointer registers in C, B, A, D order
		ch := [4]int{2, 1, 0, 3}[(reg-0x048)>>2]
		if reg&2 == 0 {
			cs.Blitter.PokeBLTPTH(ch, v)
		} else {
			cs.Blitter.PokeBLTPTL(ch, v)
		}
	case 0x058:
		cs.Blitter.PokeBLTSIZE(v)
	case 0x060, 0x062, 0x064, 0x066:
		cs.Blitter.PokeBLTMOD([4]int{2, 1, 0, 3}[(reg-0x060)>>1], v)
	case 0x070, 0x072, 0x074:
		cs.Blitter.PokeBLTDAT([3]int{2, 1, 0}[(reg-0x070)>>1], v)

	case 0x07E:
		cs.Paula.Disk.PokeDSKSYNC(v)
	case 0x080:
		cs.Copper.PokeCOP1LCH(v)
	case 0x082:
		cs.Copper.PokeCOP1LCL(v)
	case 0x084:
		cs.Copper.PokeCOP2LCH(v)
	case 0x086:
		cs.Copper.PokeCOP2LCL(v)
	case 0x088:
		cs.Copper.PokeCOPJMP1()
	case 0x08A:
		cs.Copper.PokeCOPJMP2()

	case 0x08E:
		cs.Agnus.PokeDIWSTRT(v)
		cs.Denise.PokeDIWSTRT(v)
	case 0x090:
		cs.Agnus.PokeDIWSTOP(v)
		cs.Denise.PokeDIWSTOP(v)
	case 0x092:
		cs.Agnus.PokeDDFSTRT(v)
	case 0x094:
		cs.Agnus.PokeDDFSTOP(v)
	case 0x096:
		cs.Agnus.PokeDMACON(v)
	case 0x098:
		cs.Denise.PokeCLXCON(v)
	case 0x09A:
		cs.Paula.PokeINTENA(v)
	case 0x09C:
		cs.Paula.PokeINTREQ(v)
	case 0x09E:
		cs.Paula.PokeADKCON(v)

	case 0x0A0, 0x0B0, 0x0C0, 0x0D0:
		cs.Agnus.PokeAUDLCH(int(reg-0x0A0)>>4, v)
	case 0x0A2, 0x0B2, 0x0C2, 0x0D2:
		cs.Agnus.PokeAUDLCL(int(reg-0x0A2)>>4, v)
	case 0x0A4, 0x0B4, 0x0C4, 0x0D4:
		cs.Paula.Audio.PokeAUDLEN(int(reg-0x0A4)>>4, v)
	case 0x0A6, 0x0B6, 0x0C6, 0x0D6:
		cs.Paula.Audio.PokeAUDPER(int(reg-0x0A6)>>4, v)
	case 0x0A8, 0x0B8, 0x0C8, 0x0D8:
		cs.Paula.Audio.PokeAUDVOL(int(reg-0x0A8)>>4, v)
	case 0x0AA, 0x0BA, 0x0CA, 0x0DA:
		cs.Paula.Audio.PokeAUDDAT(int(reg-0x0AA)>>4, v)

	case 0x0E0, 0x0E4, 0x0E8, 0x0EC, 0x0F0, 0x0F4:
		cs.Agnus.PokeBPLPTH(int(reg-0x0E0)>>2, v)
	case 0x0E2, 0x0E6, 0x0EA, 0x0EE, 0x0F2, 0x0F6:
		cs.Agnus.PokeBPLPTL(int(reg-0x0E2)>>2, v)

	case 0x100:
		cs.Agnus.PokeBPLCON0(v)
		cs.Denise.PokeBPLCON0(v)
	case 0x102:
		cs.Denise.PokeBPLCON1(v)
	case 0x104:
		cs.Denise.PokeBPLCON2(v)
	case 0x108:
		cs.Agnus.PokeBPL1MOD(v)
	case 0x10A:
		cs.Agnus.PokeBPL2MOD(v)

	case 0x110, 0x112, 0x114, 0x116, 0x118, 0x11A:
		cs.Denise.SetBPLxDAT(int(reg-0x110)>>1, v)

	default:
		switch {
		case reg >= 0x120 && reg < 0x140:
			sprite := int(reg-0x120) >> 2
			if reg&2 == 0 {
				cs.Agnus.PokeSPRPTH(sprite, v)
			} else {
				cs.Agnus.PokeSPRPTL(sprite, v)
			}
		case reg >= 0x140 && reg < 0x180:
			sprite := int(reg-0x140) >> 3
			switch reg & 6 {
			case 0:
				cs.Denise.PokeSPRPOS(sprite, v)
			case 2:
				cs.Denise.PokeSPRCTL(sprite, v)
			case 4:
				cs.Denise.PokeSPRDATA(sprite, v)
			case 6:
				cs.Denise.PokeSPRDATB(sprite, v)
			}
		case reg >= 0x180 && reg < 0x1C0:
			cs.Denise.PokeCOLOR(int(reg-0x180)>>1, v)
		default:
			logger.Logf(logger.Allow, "memory", "write to unmapped custom register %03x", reg)
		}
	}
}

// PokeCustom implements copper.CustomWriter.
func (cs *Custom) PokeCustom(reg uint16, v uint16) {
	cs.Poke(reg, v)
}
