package ppu

import (
	"github.com/thelolagemann/gbcore/internal/bits"
	"github.com/thelolagemann/gbcore/internal/video"
)

// Mode re-exports video.Mode so callers outside this package don't need to
// import video just to compare PPU modes.
type Mode = video.Mode

const (
	HBlank        = video.HBlank
	VBlank        = video.VBlank
	OamScan       = video.OamScan
	DrawingPixels = video.DrawingPixels
)

// lcdc decodes LCDC (0xFF40) into its eight named bits.
type lcdc struct {
	raw uint8
}

func (l *lcdc) Enabled() bool          { return bits.Test(l.raw, 7) }
func (l *lcdc) WindowTileMapHi() bool  { return bits.Test(l.raw, 6) }
func (l *lcdc) WindowEnabled() bool    { return bits.Test(l.raw, 5) }
func (l *lcdc) TileDataUnsigned() bool { return bits.Test(l.raw, 4) }
func (l *lcdc) BGTileMapHi() bool      { return bits.Test(l.raw, 3) }
func (l *lcdc) SpriteHeight() uint8 {
	if bits.Test(l.raw, 2) {
		return 16
	}
	return 8
}
func (l *lcdc) SpriteEnabled() bool { return bits.Test(l.raw, 1) }

// BGEnabled is LCDC bit 0. In DMG-mode this disables the background plane
// entirely (forced to color 0); in CGB-mode the same bit instead means
// BG-master-priority (sprites always win over BG when clear). Callers pick
// the interpretation based on function mode.
func (l *lcdc) BGEnabled() bool { return bits.Test(l.raw, 0) }

func (l *lcdc) Get() uint8  { return l.raw }
func (l *lcdc) Set(v uint8) { l.raw = v }

// stat decodes STAT (0xFF41). Bits 0-2 (mode, LYC=LY coincidence) are
// read-only from the CPU's perspective and are maintained by the timing
// FSM; only the four interrupt-source enable bits are CPU-writable.
type stat struct {
	lycInt      bool
	oamInt      bool
	vblankInt   bool
	hblankInt   bool
	coincidence bool
	mode        Mode
}

// Write stores only the four interrupt-enable bits. The DMG quirk in which a
// STAT write briefly acts as if every enable bit were set is not reproduced.
func (s *stat) Write(v uint8) {
	s.lycInt = v&0x40 != 0
	s.oamInt = v&0x20 != 0
	s.vblankInt = v&0x10 != 0
	s.hblankInt = v&0x08 != 0
}

func (s *stat) Read() uint8 {
	v := uint8(0x80) // bit 7 always reads 1 on real hardware
	if s.lycInt {
		v |= 0x40
	}
	if s.oamInt {
		v |= 0x20
	}
	if s.vblankInt {
		v |= 0x10
	}
	if s.hblankInt {
		v |= 0x08
	}
	if s.coincidence {
		v |= 0x04
	}
	v |= uint8(s.mode) & 0x03
	return v
}

// line reports the OR of every currently-enabled STAT interrupt source,
// implementing the stat-line semantics of spec.md 4.7: only rising edges
// of this value fire the LCD_STAT interrupt.
func (s *stat) line() bool {
	return (s.mode == HBlank && s.hblankInt) ||
		(s.mode == OamScan && s.oamInt) ||
		(s.mode == VBlank && s.vblankInt) ||
		(s.coincidence && s.lycInt)
}

// FunctionMode selects how the renderer interprets LCDC bit 0 and which
// palette source it reads from.
type FunctionMode uint8

const (
	Monochrome FunctionMode = iota
	Compatibility
	Color
)

// Priority is the per-background-pixel compositing hint sprites consult.
type Priority uint8

const (
	Normal Priority = iota
	SpritesOnTop
	BackgroundOnTop
)
