package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVRAMModeGating(t *testing.T) {
	v := NewVRAM()
	v.Write(0x8000, HBlank, 0x42)
	assert.EqualValues(t, 0x42, v.Read(0x8000, HBlank))

	v.Write(0x8000, DrawingPixels, 0x99)
	assert.EqualValues(t, 0x42, v.Read(0x8000, HBlank), "writes during DrawingPixels must be dropped")
	assert.EqualValues(t, 0xFF, v.Read(0x8000, DrawingPixels), "reads during DrawingPixels return 0xFF")
}

func TestVRAMBankSelect(t *testing.T) {
	v := NewVRAM()
	v.WriteBank(0, 0x8000, 0x11)
	v.WriteBank(1, 0x8000, 0x22)
	assert.EqualValues(t, 0x11, v.ReadBank(0, 0x8000))
	assert.EqualValues(t, 0x22, v.ReadBank(1, 0x8000))
}

func TestWriteBankDuringDMAGating(t *testing.T) {
	v := NewVRAM()
	v.WriteBank(0, 0x8000, 0x11)

	v.WriteBankDuringDMA(0, 0x8000, 0x99, DrawingPixels)
	assert.EqualValues(t, 0x11, v.ReadBank(0, 0x8000), "an HDMA/GDMA write during DrawingPixels must be dropped")

	v.WriteBankDuringDMA(0, 0x8000, 0x99, HBlank)
	assert.EqualValues(t, 0x99, v.ReadBank(0, 0x8000), "outside DrawingPixels the write proceeds")
}

func TestOAMModeAndDMAGating(t *testing.T) {
	o := NewOAM()
	o.Write(0xFE00, HBlank, false, 0x10)
	assert.EqualValues(t, 0x10, o.Read(0xFE00, HBlank, false))
	assert.EqualValues(t, 0xFF, o.Read(0xFE00, OamScan, false))
	assert.EqualValues(t, 0xFF, o.Read(0xFE00, HBlank, true))

	o.Write(0xFE00, HBlank, true, 0x55)
	assert.EqualValues(t, 0x10, o.Read(0xFE00, HBlank, false), "DMA-gated write must be dropped")
}

func TestOAMSpriteParse(t *testing.T) {
	o := NewOAM()
	o.DMAWrite(0, 100)
	o.DMAWrite(1, 50)
	o.DMAWrite(2, 7)
	o.DMAWrite(3, SpriteFlagXFlip)
	s := o.Sprite(0)
	assert.EqualValues(t, 100, s.Y)
	assert.EqualValues(t, 50, s.X)
	assert.EqualValues(t, 7, s.Tile)
	assert.EqualValues(t, SpriteFlagXFlip, s.Flags)
}

func TestCGBPaletteAutoIncrement(t *testing.T) {
	p := NewCGBPalette()
	p.SetSpec(0x80) // index 0, auto-increment
	p.WriteData(0xFF)
	p.WriteData(0xFF)
	r, g, b := p.RGBA8(0, 0)
	assert.EqualValues(t, 0xFF, r)
	assert.EqualValues(t, 0xFF, g)
	assert.EqualValues(t, 0xFF, b)
	assert.EqualValues(t, 2, p.index)
}

func TestExpand5to8Formula(t *testing.T) {
	assert.EqualValues(t, 0x00, expand5to8(0))
	assert.EqualValues(t, 0xFF, expand5to8(0x1F))
	assert.EqualValues(t, 0x08, expand5to8(0x01))
}

func TestDMGPaletteShade(t *testing.T) {
	var p DMGPalette
	p.Set(0b11_10_01_00) // shade 3,2,1,0 for color idx 3,2,1,0
	assert.EqualValues(t, 0, p.Shade(0))
	assert.EqualValues(t, 1, p.Shade(1))
	assert.EqualValues(t, 2, p.Shade(2))
	assert.EqualValues(t, 3, p.Shade(3))
}
