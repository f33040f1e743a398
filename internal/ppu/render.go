package ppu

import "github.com/thelolagemann/gbcore/internal/video"

// renderScanline composites LY into FrameBuffer in three passes: background,
// window, then sprites. It runs once per visible scanline at the
// DrawingPixels->HBlank transition, not pixel-by-pixel, since nothing
// downstream needs mid-line fidelity.
func (p *PPU) renderScanline() {
	var bgColorIdx [ScreenWidth]uint8
	for i := range p.bgPriority {
		p.bgPriority[i] = Normal
	}

	p.renderBackground(&bgColorIdx)
	if p.lcdc.WindowEnabled() {
		p.renderWindow(&bgColorIdx)
	}
	if p.lcdc.SpriteEnabled() {
		p.renderSprites(&bgColorIdx)
	}
}

// tileDataAddress resolves a tile index to its VRAM address per LCDC bit 4:
// unsigned indexing from 0x8000, or signed indexing from 0x9000.
func (p *PPU) tileDataAddress(idx uint8) uint16 {
	if p.lcdc.TileDataUnsigned() {
		return 0x8000 + uint16(idx)*16
	}
	return uint16(0x9000 + int(int8(idx))*16)
}

// tilePixel decodes the 2bpp row at tileAddr+fineY*2 in the given VRAM bank,
// returning the 2-bit color index for column fineX (0 = leftmost), honoring
// the per-tile x/y flip attribute bits.
func (p *PPU) tilePixel(bank uint8, tileAddr uint16, fineX, fineY uint8, xFlip, yFlip bool) uint8 {
	if yFlip {
		fineY = 7 - fineY
	}
	if xFlip {
		fineX = 7 - fineX
	}
	lo := p.VRAM.ReadBank(bank, tileAddr+uint16(fineY)*2)
	hi := p.VRAM.ReadBank(bank, tileAddr+uint16(fineY)*2+1)
	shift := 7 - fineX
	return (hi>>shift)&1<<1 | (lo>>shift)&1
}

func (p *PPU) writePixel(x int, r, g, b uint8) {
	off := (int(p.LY)*ScreenWidth + x) * 4
	p.FrameBuffer[off+0] = r
	p.FrameBuffer[off+1] = g
	p.FrameBuffer[off+2] = b
	p.FrameBuffer[off+3] = 0xFF
}

func (p *PPU) bgColor(colorIdx, paletteIdx uint8) (r, g, b uint8) {
	if p.FunctionMode == Color {
		return p.BGPalette.RGBA8(paletteIdx, colorIdx)
	}
	return video.MonochromeRGBA8(p.BGP.Shade(colorIdx))
}

// renderBackground draws the scrolled background plane for LY, recording
// each column's color index and per-tile CGB priority attribute.
func (p *PPU) renderBackground(bgColorIdx *[ScreenWidth]uint8) {
	mapBase := uint16(0x9800)
	if p.lcdc.BGTileMapHi() {
		mapBase = 0x9C00
	}
	y := p.SCY + p.LY
	tileRow := uint16(y / 8)
	fineY := y % 8

	monochromeOff := p.FunctionMode != Color && !p.lcdc.BGEnabled()

	for x := 0; x < ScreenWidth; x++ {
		xx := p.SCX + uint8(x)
		tileCol := uint16(xx / 8)
		mapAddr := mapBase + tileRow*32 + tileCol

		tileIdx := p.VRAM.ReadBank(0, mapAddr)
		var attr uint8
		if p.FunctionMode == Color {
			attr = p.VRAM.ReadBank(1, mapAddr)
		}
		bank := uint8(0)
		if attr&video.SpriteFlagBank != 0 {
			bank = 1
		}

		colorIdx := p.tilePixel(bank, p.tileDataAddress(tileIdx), xx%8, fineY, attr&0x20 != 0, attr&0x40 != 0)
		bgColorIdx[x] = colorIdx

		if attr&0x80 != 0 {
			p.bgPriority[x] = BackgroundOnTop
		}

		if monochromeOff {
			r, g, b := video.MonochromeRGBA8(0)
			p.writePixel(x, r, g, b)
			continue
		}
		r, g, b := p.bgColor(colorIdx, attr&0x07)
		p.writePixel(x, r, g, b)
	}
}

// renderWindow overlays the window plane where active, advancing the
// internal line counter only on scanlines where it actually draws a column
// (spec.md 4.6's WLY edge case).
func (p *PPU) renderWindow(bgColorIdx *[ScreenWidth]uint8) {
	if p.WY > p.LY {
		return
	}
	startX := int(p.WX) - 7
	if startX >= ScreenWidth {
		return
	}

	mapBase := uint16(0x9800)
	if p.lcdc.WindowTileMapHi() {
		mapBase = 0x9C00
	}
	tileRow := uint16(p.wly / 8)
	fineY := p.wly % 8

	drew := false
	for x := 0; x < ScreenWidth; x++ {
		wx := x - startX
		if wx < 0 {
			continue
		}
		drew = true
		tileCol := uint16(wx / 8)
		mapAddr := mapBase + tileRow*32 + tileCol

		tileIdx := p.VRAM.ReadBank(0, mapAddr)
		var attr uint8
		if p.FunctionMode == Color {
			attr = p.VRAM.ReadBank(1, mapAddr)
		}
		bank := uint8(0)
		if attr&video.SpriteFlagBank != 0 {
			bank = 1
		}

		colorIdx := p.tilePixel(bank, p.tileDataAddress(tileIdx), uint8(wx%8), fineY, attr&0x20 != 0, attr&0x40 != 0)
		bgColorIdx[x] = colorIdx
		if attr&0x80 != 0 {
			p.bgPriority[x] = BackgroundOnTop
		} else {
			p.bgPriority[x] = Normal
		}

		r, g, b := p.bgColor(colorIdx, attr&0x07)
		p.writePixel(x, r, g, b)
	}

	if drew {
		p.wly++
		p.windowDrawnThisFrame = true
	}
}

type spriteEntry struct {
	index int
	s     video.Sprite
}

// renderSprites selects up to 10 sprites intersecting LY and composites
// them over the background/window result, respecting OBJ-to-BG and
// CGB BG-to-OAM priority.
func (p *PPU) renderSprites(bgColorIdx *[ScreenWidth]uint8) {
	height := int(p.lcdc.SpriteHeight())
	var visible []spriteEntry
	for i := 0; i < 40 && len(visible) < 10; i++ {
		s := p.OAM.Sprite(i)
		top := int(s.Y) - 16
		if int(p.LY) < top || int(p.LY) >= top+height {
			continue
		}
		visible = append(visible, spriteEntry{index: i, s: s})
	}

	coordinateOrder := p.FunctionMode != Color || p.OPRI&1 != 0
	if coordinateOrder {
		for i := 1; i < len(visible); i++ {
			for j := i; j > 0 && visible[j].s.X < visible[j-1].s.X; j-- {
				visible[j], visible[j-1] = visible[j-1], visible[j]
			}
		}
	}

	// Lower-priority sprites (later in the sorted order) are drawn first so
	// earlier ones overwrite them on overlap, matching real OBJ priority.
	for i := len(visible) - 1; i >= 0; i-- {
		e := visible[i]
		left := int(e.s.X) - 8
		if left >= ScreenWidth {
			continue
		}
		bank := uint8(0)
		if p.FunctionMode == Color && e.s.Flags&video.SpriteFlagBank != 0 {
			bank = 1
		}
		tile := e.s.Tile
		if height == 16 {
			tile &^= 1
		}
		row := int(p.LY) - (int(e.s.Y) - 16)
		yFlip := e.s.Flags&video.SpriteFlagYFlip != 0
		xFlip := e.s.Flags&video.SpriteFlagXFlip != 0
		if yFlip {
			row = height - 1 - row
		}
		tileAddr := uint16(0x8000) + uint16(tile)*16
		if height == 16 && row >= 8 {
			tileAddr += 16
			row -= 8
		}

		for col := 0; col < 8; col++ {
			x := left + col
			if x < 0 || x >= ScreenWidth {
				continue
			}
			colorIdx := p.tilePixel(bank, tileAddr, uint8(col), uint8(row), xFlip, false)
			if colorIdx == 0 {
				continue
			}
			if p.FunctionMode == Color && !p.lcdc.BGEnabled() {
				// BG master priority off: sprites always win.
			} else if p.bgPriority[x] == BackgroundOnTop && bgColorIdx[x] != 0 {
				continue
			} else if e.s.Flags&video.SpriteFlagPriority != 0 && bgColorIdx[x] != 0 {
				continue
			}

			var r, g, b uint8
			if p.FunctionMode == Color {
				r, g, b = p.OBPalette.RGBA8(e.s.Flags&video.SpriteFlagCGBPalette, colorIdx)
			} else {
				pal := &p.OBP0
				if e.s.Flags&video.SpriteFlagDMGPalette != 0 {
					pal = &p.OBP1
				}
				r, g, b = video.MonochromeRGBA8(pal.Shade(colorIdx))
			}
			p.writePixel(x, r, g, b)
		}
	}
}
