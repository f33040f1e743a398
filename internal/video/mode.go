// Package video holds the PPU's memory-backed state: VRAM, OAM and CGB
// palette RAM, plus the mode-gating rules the bus consults before letting
// the CPU touch them.
package video

// Mode is the PPU's current scanline phase, gating CPU access to VRAM/OAM.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OamScan
	DrawingPixels
)
