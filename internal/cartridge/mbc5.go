package cartridge

import "github.com/thelolagemann/gbcore/internal/state"

// mbc5 implements MBC5 (kinds 0x19-0x1E): a 9-bit ROM bank number split
// across two registers (supporting up to 512 banks / 8MiB), a 4-bit RAM
// bank register, and on the rumble variants, bit 3 of the RAM-bank write
// repurposed as the rumble motor control rather than a RAM bank bit.
//
// Grounded on the teacher's MemoryBankedCartridge5.
type mbc5 struct {
	rom []byte
	ram []byte

	romBanks int
	ramBanks int
	hasRumble bool

	ramg     bool
	romBank  uint16
	ramBank  uint8
	rumbleOn bool

	romOffset_ int
	ramOffset_ int
}

func newMBC5(rom []byte, h *Header) *mbc5 {
	m := &mbc5{
		rom:       rom,
		ram:       make([]byte, h.RAMSize),
		romBanks:  int(h.ROMSize / 0x4000),
		ramBanks:  int(h.RAMSize / 0x2000),
		romBank:   1,
		hasRumble: h.HasRumble,
	}
	m.recompute()
	return m
}

func (m *mbc5) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		m.ramg = v&0x0F == 0x0A
	case addr < 0x3000:
		m.romBank = (m.romBank &^ 0xFF) | uint16(v)
		m.recompute()
	case addr < 0x4000:
		m.romBank = (m.romBank & 0xFF) | (uint16(v&0x01) << 8)
		m.recompute()
	case addr < 0x6000:
		if m.hasRumble {
			m.rumbleOn = v&0x08 != 0
			m.ramBank = v & 0x07
		} else {
			m.ramBank = v & 0x0F
		}
		m.recompute()
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramg || len(m.ram) == 0 {
			return
		}
		m.ram[m.ramOffset_+int(addr-0xA000)] = v
	}
}

func (m *mbc5) recompute() {
	bank := int(m.romBank)
	if m.romBanks > 0 {
		bank %= m.romBanks
	}
	m.romOffset_ = bank * 0x4000

	if m.ramBanks > 0 {
		rb := int(m.ramBank) % m.ramBanks
		m.ramOffset_ = rb * 0x2000
	}
}

func (m *mbc5) romOffset(addr uint16) int {
	if addr < 0x4000 {
		return int(addr)
	}
	return m.romOffset_ + int(addr-0x4000)
}

func (m *mbc5) ramOffset(addr uint16) int {
	return m.ramOffset_ + int(addr-0xA000)
}

func (m *mbc5) ramEnabled() bool { return m.ramg && len(m.ram) > 0 }

// RumbleActive reports whether the motor control bit is currently set; the
// host input layer polls this to drive rumble feedback.
func (m *mbc5) RumbleActive() bool { return m.rumbleOn }

func (m *mbc5) RAMSnapshot() []byte { return m.ram }

func (m *mbc5) ReloadRAM(data []byte) { copy(m.ram, data) }

func (m *mbc5) Save(e *state.Encoder) {
	e.Uint32(uint32(len(m.ram)))
	e.WriteBytes(m.ram)
	e.Bool(m.ramg)
	e.Uint16(m.romBank)
	e.Uint8(m.ramBank)
	e.Bool(m.rumbleOn)
}

func (m *mbc5) Load(d *state.Decoder) {
	n := d.Uint32()
	d.Bytes(m.ram[:n])
	m.ramg = d.Bool()
	m.romBank = d.Uint16()
	m.ramBank = d.Uint8()
	m.rumbleOn = d.Bool()
	m.recompute()
}
