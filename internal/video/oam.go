package video

import "github.com/thelolagemann/gbcore/internal/state"

// Sprite mirrors one 4-byte OAM entry.
type Sprite struct {
	Y, X, Tile, Flags uint8
}

const (
	// SpriteFlagPriority puts the sprite behind non-zero BG/window pixels
	// when set (the "BG over OBJ" bit).
	SpriteFlagPriority = 0x80
	SpriteFlagYFlip     = 0x40
	SpriteFlagXFlip     = 0x20
	SpriteFlagDMGPalette = 0x10
	SpriteFlagBank       = 0x08
	SpriteFlagCGBPalette = 0x07
)

// OAM is the 160-byte sprite attribute table (40 sprites x 4 bytes).
type OAM struct {
	raw [160]byte
}

func NewOAM() *OAM { return &OAM{} }

// Read services a CPU read. CPU reads return 0xFF during OamScan or
// DrawingPixels, or while dmaActive.
func (o *OAM) Read(addr uint16, mode Mode, dmaActive bool) uint8 {
	if dmaActive || mode == OamScan || mode == DrawingPixels {
		return 0xFF
	}
	return o.raw[addr-0xFE00]
}

// Write services a CPU write, dropped under the same gating as Read.
func (o *OAM) Write(addr uint16, mode Mode, dmaActive bool, val uint8) {
	if dmaActive || mode == OamScan || mode == DrawingPixels {
		return
	}
	o.raw[addr-0xFE00] = val
}

// DMAWrite is used by the OAM-DMA engine, which bypasses the mode/DMA
// gating that regular CPU writes are subject to.
func (o *OAM) DMAWrite(offset uint8, val uint8) {
	o.raw[offset] = val
}

// Sprite returns the parsed sprite entry at OAM index i (0-39).
func (o *OAM) Sprite(i int) Sprite {
	b := o.raw[i*4 : i*4+4]
	return Sprite{Y: b[0], X: b[1], Tile: b[2], Flags: b[3]}
}

// Raw exposes the backing array for tests asserting on the full table; the
// OAM-DMA engine writes byte by byte through DMAWrite instead.
func (o *OAM) Raw() *[160]byte { return &o.raw }

func (o *OAM) Save(e *state.Encoder) {
	e.WriteBytes(o.raw[:])
}

func (o *OAM) Load(d *state.Decoder) {
	d.Bytes(o.raw[:])
}
