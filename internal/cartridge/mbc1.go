package cartridge

import "github.com/thelolagemann/gbcore/internal/state"

// mbc1 implements MBC1 (kinds 0x01-0x03): up to 2MiB ROM across a 5-bit
// primary bank register and a 2-bit secondary register, and up to 32KiB of
// RAM across 4 banks. In mode 1 the secondary register also banks the
// 0x0000-0x3FFF ROM window and the RAM window; in mode 0 it only extends the
// 0x4000-0x7FFF ROM bank number.
//
// Grounded on the teacher's MemoryBankedCartridge1, reworked from its
// bus-push CopyTo/CopyFrom style to the cached rom/ram offset contract: every
// control write recomputes romOffsetLo/romOffsetHi/ramBank once, and
// romOffset/ramOffset become pure slice-index arithmetic.
type mbc1 struct {
	rom []byte
	ram []byte

	romBanks int
	ramBanks int

	ramg        bool
	bank1       uint8
	bank2       uint8
	mode        bool
	isMultiCart bool

	romOffsetLo int // base offset for the 0x0000-0x3FFF window
	romOffsetHi int // base offset for the 0x4000-0x7FFF window
	ramBank     int // base offset for the 0xA000-0xBFFF window
}

func newMBC1(rom []byte, h *Header) *mbc1 {
	m := &mbc1{
		rom:      rom,
		ram:      make([]byte, h.RAMSize),
		romBanks: int(h.ROMSize / 0x4000),
		ramBanks: int(h.RAMSize / 0x2000),
		bank1:    1,
	}
	if m.ramBanks == 0 {
		m.ramBanks = 1
	}
	m.checkMultiCart()
	m.recompute()
	return m
}

func (m *mbc1) bankShift() uint8 {
	if m.isMultiCart {
		return 4
	}
	return 5
}

func (m *mbc1) checkMultiCart() {
	if len(m.rom) != 1024*1024 {
		return
	}
	matches := 0
	for bank := 0; bank < 4; bank++ {
		base := bank * 0x40000
		if base+0x0133 >= len(m.rom) {
			continue
		}
		ok := true
		for addr := 0x0104; addr <= 0x0133; addr++ {
			if m.rom[base+addr] != mbc1Logo[addr-0x0104] {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	if matches > 1 {
		m.isMultiCart = true
	}
}

func (m *mbc1) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramg = v&0x0F == 0x0A
	case addr < 0x4000:
		v &= 0x1F
		if v == 0 {
			v = 1
		}
		m.bank1 = v
		if m.isMultiCart {
			m.bank1 &= 0x0F
		}
	case addr < 0x6000:
		m.bank2 = v & 0b11
	case addr < 0x8000:
		m.mode = v&1 == 1
	case addr >= 0xA000 && addr < 0xC000:
		if len(m.ram) == 0 || !m.ramg {
			return
		}
		m.ram[m.ramOffset(addr)] = v
		return
	default:
		return
	}
	m.recompute()
}

// recompute refreshes the cached bank offsets after any control write. This
// keeps romOffset/ramOffset on the hot read/write path free of branching.
func (m *mbc1) recompute() {
	hi := uint16(m.bank1) | uint16(m.bank2)<<m.bankShift()
	if m.romBanks > 0 {
		hi %= uint16(m.romBanks)
	}
	m.romOffsetHi = int(hi) * 0x4000

	if m.mode {
		lo := uint16(m.bank2) << m.bankShift()
		if m.romBanks > 0 {
			lo %= uint16(m.romBanks)
		}
		m.romOffsetLo = int(lo) * 0x4000
		m.ramBank = (int(m.bank2) & 0x03) % m.ramBanks * 0x2000
	} else {
		m.romOffsetLo = 0
		m.ramBank = 0
	}
}

func (m *mbc1) romOffset(addr uint16) int {
	if addr < 0x4000 {
		return m.romOffsetLo + int(addr)
	}
	return m.romOffsetHi + int(addr-0x4000)
}

func (m *mbc1) ramOffset(addr uint16) int {
	return m.ramBank + int(addr-0xA000)
}

func (m *mbc1) ramEnabled() bool {
	return m.ramg && len(m.ram) > 0
}

func (m *mbc1) RAMSnapshot() []byte { return m.ram }

func (m *mbc1) ReloadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc1) Save(e *state.Encoder) {
	e.Uint32(uint32(len(m.ram)))
	e.WriteBytes(m.ram)
	e.Bool(m.ramg)
	e.Uint8(m.bank1)
	e.Uint8(m.bank2)
	e.Bool(m.mode)
	e.Bool(m.isMultiCart)
}

func (m *mbc1) Load(d *state.Decoder) {
	n := d.Uint32()
	d.Bytes(m.ram[:n])
	m.ramg = d.Bool()
	m.bank1 = d.Uint8()
	m.bank2 = d.Uint8()
	m.mode = d.Bool()
	m.isMultiCart = d.Bool()
	m.recompute()
}

var mbc1Logo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}
