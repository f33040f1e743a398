package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thelolagemann/gbcore/internal/interrupt"
)

func newTestPPU() (*PPU, *interrupt.Controller) {
	p := New(nil)
	p.WriteLCDC(0x91) // LCD + BG enabled, tile data at 0x8000, BG map at 0x9800
	irq := interrupt.New()
	irq.Write(interrupt.EnableRegister, 0xFF)
	return p, irq
}

// tickFrame drives the PPU one t-cycle at a time until FrameDone fires,
// returning the number of cycles consumed. It always ticks at least once, so
// a FrameDone left over from the previous frame does not end it early.
func tickFrame(t *testing.T, p *PPU, irq *interrupt.Controller) int {
	t.Helper()
	n := 0
	for {
		p.Tick(1, irq)
		n++
		if p.FrameDone {
			return n
		}
		if n > 200000 {
			t.Fatal("frame never completed")
		}
	}
}

func TestFrameCompletesInExpectedCycleCount(t *testing.T) {
	p, irq := newTestPPU()
	// First frame after enable runs a short first scanline (76 instead of
	// 80 cycles of OamScan), so it completes 4 cycles early.
	n := tickFrame(t, p, irq)
	assert.Equal(t, 70224-4, n)

	n = tickFrame(t, p, irq)
	assert.Equal(t, 70224, n)
}

func TestLYSequenceIsInOrder(t *testing.T) {
	p, irq := newTestPPU()
	var seen []uint8
	last := uint8(255)
	for !p.FrameDone {
		p.Tick(1, irq)
		if p.FrameDone {
			break // LY has already wrapped to 0 for the next frame
		}
		if p.LY != last {
			seen = append(seen, p.LY)
			last = p.LY
		}
	}
	assert.Len(t, seen, 154)
	for i, v := range seen {
		assert.EqualValues(t, i, v)
	}
}

func TestVBlankInterruptFiresOncePerFrame(t *testing.T) {
	p, irq := newTestPPU()
	count := 0
	for !p.FrameDone {
		p.Tick(1, irq)
		if s, ok := irq.Pending(); ok && s == interrupt.VBlank {
			count++
			irq.Clear(interrupt.VBlank)
		}
	}
	assert.Equal(t, 1, count)
}

func TestVRAMWriteDuringDrawingPixelsIsDropped(t *testing.T) {
	p, irq := newTestPPU()
	p.VRAM.Write(0x8000, HBlank, 0x42) // seed via a mode that allows writes
	for p.Mode() != DrawingPixels {
		p.Tick(1, irq)
	}
	p.VRAM.Write(0x8000, p.Mode(), 0xAA)
	assert.EqualValues(t, 0x42, p.VRAM.ReadBank(0, 0x8000), "write during DrawingPixels must not land")
}

func TestLYCInterruptRequestedOnMatch(t *testing.T) {
	p, irq := newTestPPU()
	p.WriteSTAT(0x40) // enable LYC=LY interrupt source
	p.WriteLYC(5)

	fired := false
	for !p.FrameDone {
		p.Tick(1, irq)
		if s, ok := irq.Pending(); ok && s == interrupt.LCDStat {
			fired = true
			irq.Clear(interrupt.LCDStat)
		}
	}
	assert.True(t, fired)
}

func TestMaxTenSpritesPerScanline(t *testing.T) {
	p, _ := newTestPPU()
	p.lcdc.raw |= 0x02 // sprites enabled
	p.VRAM.WriteBank(0, 0x8010, 0xFF) // tile 1, row 0: color index 1 across all columns
	p.VRAM.WriteBank(0, 0x8011, 0x00)
	p.OBP0.Set(0xE4) // non-identity palette so sprite pixels differ from the white background

	for i := 0; i < 12; i++ {
		off := i * 4
		p.OAM.DMAWrite(uint8(off+0), 16) // Y=16 -> visible at LY=0
		p.OAM.DMAWrite(uint8(off+1), uint8(8+i*9))
		p.OAM.DMAWrite(uint8(off+2), 1)
		p.OAM.DMAWrite(uint8(off+3), 0)
	}

	p.LY = 0
	p.renderScanline()

	for i := 0; i < 10; i++ {
		left := 8 + i*9 - 8
		off := (int(p.LY)*ScreenWidth + left) * 4
		assert.NotEqualValues(t, 0xFF, p.FrameBuffer[off], "sprite %d within the first 10 should render", i)
	}
	for i := 10; i < 12; i++ {
		left := 8 + i*9 - 8
		off := (int(p.LY)*ScreenWidth + left) * 4
		assert.EqualValues(t, 0xFF, p.FrameBuffer[off], "sprite %d beyond the 10-sprite cap should not render", i)
	}
}

func TestWindowLineCounterOnlyAdvancesWhenDrawn(t *testing.T) {
	p, _ := newTestPPU()
	p.lcdc.raw |= 0x20 // window enabled
	p.WY = 200         // window never active this frame
	p.WX = 7
	p.LY = 10
	var idx [ScreenWidth]uint8
	p.renderWindow(&idx)
	assert.EqualValues(t, 0, p.wly)

	p.WY = 0
	p.renderWindow(&idx)
	assert.EqualValues(t, 1, p.wly)
}
