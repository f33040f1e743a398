package video

import "github.com/thelolagemann/gbcore/internal/state"

// VRAM is 2 banks of 8KiB video RAM (bank 1 only meaningful on CGB).
// Reads during DrawingPixels return 0xFF; writes during DrawingPixels are
// dropped. The renderer bypasses these rules via ReadBank/WriteBank; HDMA/
// GDMA writes go through WriteBankDuringDMA, which re-applies the same
// DrawingPixels gate a CPU write is held to.
type VRAM struct {
	banks [2][0x2000]byte
	bank  uint8 // active bank selected by VBK (CGB only)
}

func NewVRAM() *VRAM {
	return &VRAM{}
}

// Read services a CPU read at a VRAM address (0x8000-0x9FFF).
func (v *VRAM) Read(addr uint16, mode Mode) uint8 {
	if mode == DrawingPixels {
		return 0xFF
	}
	return v.banks[v.bank][addr-0x8000]
}

// Write services a CPU write at a VRAM address.
func (v *VRAM) Write(addr uint16, mode Mode, val uint8) {
	if mode == DrawingPixels {
		return
	}
	v.banks[v.bank][addr-0x8000] = val
}

// ReadBank reads from a specific bank, bypassing mode gating. Used by the
// renderer, which runs at the DrawingPixels->HBlank transition rather than
// as a live CPU access.
func (v *VRAM) ReadBank(bank uint8, addr uint16) uint8 {
	return v.banks[bank&1][addr-0x8000]
}

// WriteBank writes to a specific bank bypassing mode gating entirely, for
// boot-time tile loads and test setup that has no CPU-timing mode to honor.
func (v *VRAM) WriteBank(bank uint8, addr uint16, val uint8) {
	v.banks[bank&1][addr-0x8000] = val
}

// WriteBankDuringDMA writes to a specific bank for an HDMA/GDMA transfer,
// which bypasses the mode check only outside DrawingPixels per spec.md 4.4:
// a CPU write to HDMA5 while the PPU is actively drawing must still have its
// bytes dropped, the same as a direct CPU write to VRAM would.
func (v *VRAM) WriteBankDuringDMA(bank uint8, addr uint16, val uint8, mode Mode) {
	if mode == DrawingPixels {
		return
	}
	v.banks[bank&1][addr-0x8000] = val
}

// SelectBank sets the active bank (VBK register, CGB only; bit 0 only).
func (v *VRAM) SelectBank(bank uint8) {
	v.bank = bank & 1
}

// Bank returns the active bank index.
func (v *VRAM) Bank() uint8 { return v.bank }

func (v *VRAM) Save(e *state.Encoder) {
	e.WriteBytes(v.banks[0][:])
	e.WriteBytes(v.banks[1][:])
	e.Uint8(v.bank)
}

func (v *VRAM) Load(d *state.Decoder) {
	d.Bytes(v.banks[0][:])
	d.Bytes(v.banks[1][:])
	v.bank = d.Uint8()
}
