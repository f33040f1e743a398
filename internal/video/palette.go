package video

import "github.com/thelolagemann/gbcore/internal/state"

// expand5to8 converts a 5-bit RGB555 channel to 8-bit RGBA8, per
// spec.md 4.4: chan8 = (chan5 << 3) | (chan5 >> 2). This replicates the
// low bits instead of leaving them zero, so 0x1F maps to 0xFF exactly.
func expand5to8(c uint8) uint8 {
	return (c << 3) | (c >> 2)
}

// CGBPalette is one of the two 64-byte CGB palette RAMs (background or
// sprite), addressed as 8 palettes x 4 colors x 2 little-endian RGB555
// bytes, with the BCPS/OCPS auto-increment index register.
//
// Grounded on the teacher's palette.CGBPalette, restructured to store raw
// RGB555 bytes (matching spec.md's literal "palette RAM stores
// little-endian RGB555" data model) rather than pre-expanded [3]uint8
// triples.
type CGBPalette struct {
	raw     [64]byte
	index   uint8
	autoInc bool
}

func NewCGBPalette() *CGBPalette {
	p := &CGBPalette{}
	for i := range p.raw {
		p.raw[i] = 0xFF
	}
	return p
}

// SetSpec handles a BCPS/OCPS write.
func (p *CGBPalette) SetSpec(v uint8) {
	p.index = v & 0x3F
	p.autoInc = v&0x80 != 0
}

// Spec returns the current BCPS/OCPS value.
func (p *CGBPalette) Spec() uint8 {
	v := p.index
	if p.autoInc {
		v |= 0x80
	}
	return v
}

// ReadData handles a BCPD/OCPD read.
func (p *CGBPalette) ReadData() uint8 {
	return p.raw[p.index]
}

// WriteData handles a BCPD/OCPD write, advancing the index modulo 64 when
// auto-increment is armed.
func (p *CGBPalette) WriteData(v uint8) {
	p.raw[p.index] = v
	if p.autoInc {
		p.index = (p.index + 1) & 0x3F
	}
}

// RGBA8 returns the expanded 8-bit RGB triple for palette paletteIdx
// (0-7), color colourIdx (0-3).
func (p *CGBPalette) RGBA8(paletteIdx, colourIdx uint8) (r, g, b uint8) {
	off := int(paletteIdx)*8 + int(colourIdx)*2
	lo, hi := p.raw[off], p.raw[off+1]
	packed := uint16(lo) | uint16(hi)<<8
	return expand5to8(uint8(packed & 0x1F)),
		expand5to8(uint8((packed >> 5) & 0x1F)),
		expand5to8(uint8((packed >> 10) & 0x1F))
}

func (p *CGBPalette) Save(e *state.Encoder) {
	e.WriteBytes(p.raw[:])
	e.Uint8(p.index)
	e.Bool(p.autoInc)
}

func (p *CGBPalette) Load(d *state.Decoder) {
	d.Bytes(p.raw[:])
	p.index = d.Uint8()
	p.autoInc = d.Bool()
}

// monochromeShades is the classic DMG greyscale ramp (white to black).
// The renderer uses it for both Monochrome and Compatibility function
// modes; Compatibility mode does not look colors up in the CGB palettes.
var monochromeShades = [4][3]uint8{
	{0xFF, 0xFF, 0xFF},
	{0xCC, 0xCC, 0xCC},
	{0x77, 0x77, 0x77},
	{0x00, 0x00, 0x00},
}

// MonochromeRGBA8 returns the DMG greyscale RGB triple for a 2-bit shade.
func MonochromeRGBA8(shade uint8) (r, g, b uint8) {
	c := monochromeShades[shade&3]
	return c[0], c[1], c[2]
}

// DMGPalette is a BGP/OBP0/OBP1-style register: four 2-bit shade slots
// indexed by color index.
type DMGPalette struct {
	value uint8
}

func (p *DMGPalette) Set(v uint8) { p.value = v }
func (p *DMGPalette) Get() uint8  { return p.value }

// Shade maps a 2-bit color index through the palette register to a 2-bit
// shade value.
func (p *DMGPalette) Shade(colourIdx uint8) uint8 {
	return (p.value >> (colourIdx * 2)) & 0x3
}

func (p *DMGPalette) Save(e *state.Encoder) { e.Uint8(p.value) }
func (p *DMGPalette) Load(d *state.Decoder) { p.value = d.Uint8() }
