package cartridge

import "github.com/thelolagemann/gbcore/internal/state"

// mbc2 implements MBC2 (kinds 0x05-0x06): up to 16 ROM banks selected by a
// 4-bit register latched from the low bit of the upper address byte, plus
// 512x4-bit built-in RAM. Only the low nibble of each RAM byte is wired; the
// upper nibble always reads back as 1s, and the 512-byte array is mirrored
// across the whole 0xA000-0xBFFF window.
//
// Grounded on the teacher's MemoryBankedCartridge2.
type mbc2 struct {
	rom []byte
	ram [512]byte

	romBanks int
	ramg     bool
	romBank  uint8

	romOffset_ int
}

func newMBC2(rom []byte, h *Header) *mbc2 {
	m := &mbc2{
		rom:      rom,
		romBanks: int(h.ROMSize / 0x4000),
		romBank:  1,
	}
	m.recompute()
	return m
}

func (m *mbc2) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x4000:
		if addr&0x100 == 0x100 {
			v &= 0x0F
			if v == 0 {
				v = 1
			}
			m.romBank = v
			m.recompute()
		} else {
			m.ramg = v&0x0F == 0x0A
		}
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramg {
			return
		}
		m.ram[addr&0x1FF] = v | 0xF0
	}
}

func (m *mbc2) recompute() {
	bank := int(m.romBank)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	m.romOffset_ = bank * 0x4000
}

func (m *mbc2) romOffset(addr uint16) int {
	if addr < 0x4000 {
		return int(addr)
	}
	return m.romOffset_ + int(addr-0x4000)
}

func (m *mbc2) ramOffset(addr uint16) int {
	return int(addr & 0x1FF)
}

func (m *mbc2) ramEnabled() bool { return m.ramg }

func (m *mbc2) RAMSnapshot() []byte { return m.ram[:] }

func (m *mbc2) ReloadRAM(data []byte) { copy(m.ram[:], data) }

func (m *mbc2) Save(e *state.Encoder) {
	e.WriteBytes(m.ram[:])
	e.Bool(m.ramg)
	e.Uint8(m.romBank)
}

func (m *mbc2) Load(d *state.Decoder) {
	d.Bytes(m.ram[:])
	m.ramg = d.Bool()
	m.romBank = d.Uint8()
	m.recompute()
}
