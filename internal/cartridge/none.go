package cartridge

import "github.com/thelolagemann/gbcore/internal/state"

// noneMBC backs a ROM-only cartridge (kind 0x00): up to 32KiB of ROM mapped
// flat, no banking, no RAM.
type noneMBC struct{}

func newNoneMBC() *noneMBC { return &noneMBC{} }

func (m *noneMBC) Write(addr uint16, v uint8) {}

func (m *noneMBC) romOffset(addr uint16) int {
	return int(addr)
}

func (m *noneMBC) ramOffset(addr uint16) int {
	return -1
}

func (m *noneMBC) ramEnabled() bool { return false }

func (m *noneMBC) RAMSnapshot() []byte   { return nil }
func (m *noneMBC) ReloadRAM(data []byte) {}

func (m *noneMBC) Save(e *state.Encoder) {}
func (m *noneMBC) Load(d *state.Decoder) {}
