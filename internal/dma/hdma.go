package dma

import (
	"github.com/thelolagemann/gbcore/internal/state"
	"github.com/thelolagemann/gbcore/internal/video"
)

// HDMA implements the CGB GDMA/HBlank-DMA engine behind HDMA1-5
// (0xFF51-0xFF55). Grounded on the teacher's hdma.go state machine
// (general-purpose vs HBlank mode, HDMA5 control/status encoding),
// generalized to this repo's VRAM/mode-gating split.
type HDMA struct {
	srcHi, srcLo uint8
	dstHi, dstLo uint8

	active          bool
	hblankMode      bool
	remainingBlocks uint8
	offset          uint16
}

func NewHDMA() *HDMA { return &HDMA{} }

func (h *HDMA) WriteSrcHi(v uint8) { h.srcHi = v }
func (h *HDMA) WriteSrcLo(v uint8) { h.srcLo = v & 0xF0 }
func (h *HDMA) WriteDstHi(v uint8) { h.dstHi = v & 0x1F }
func (h *HDMA) WriteDstLo(v uint8) { h.dstLo = v & 0xF0 }

func (h *HDMA) src() uint16 { return uint16(h.srcHi)<<8 | uint16(h.srcLo) }
func (h *HDMA) dst() uint16 { return 0x8000 | uint16(h.dstHi)<<8 | uint16(h.dstLo) }

// WriteHDMA5 handles the HDMA5 control write: bit 7 clear with a transfer
// already active in HBlank mode cancels it; bit 7 clear otherwise starts an
// immediate general-purpose transfer; bit 7 set arms an HBlank-paced
// transfer of ((v&0x7F)+1)*16 bytes. mode is the PPU's mode at the moment of
// the write, since a general-purpose transfer triggered while the PPU is in
// DrawingPixels must have its destination bytes dropped like any other CPU
// VRAM write would be (spec.md 4.4).
func (h *HDMA) WriteHDMA5(v uint8, mem MemReader, vram *video.VRAM, mode video.Mode) {
	blocks := (v & 0x7F) + 1
	if v&0x80 == 0 {
		if h.active && h.hblankMode {
			h.active = false
			h.hblankMode = false
			return
		}
		h.transfer(blocks, mem, vram, mode)
		h.active = false
		h.remainingBlocks = 0
		return
	}
	h.active = true
	h.hblankMode = true
	h.remainingBlocks = blocks
	h.offset = 0
}

// ReadHDMA5 reports ((!active) << 7) | (remaining_blocks - 1), per spec.
func (h *HDMA) ReadHDMA5() uint8 {
	flag := uint8(0)
	if !h.active {
		flag = 0x80
	}
	rem := uint8(0)
	if h.remainingBlocks > 0 {
		rem = h.remainingBlocks - 1
	}
	return flag | rem&0x7F
}

func (h *HDMA) Active() bool     { return h.active }
func (h *HDMA) HBlankMode() bool { return h.hblankMode }

// OnHBlank copies one 16-byte block per HBlank entry while an HBlank-mode
// transfer is active. Bus.Tick calls it when the PPU's mode FSM has just
// entered HBlank: the PPU has always just left DrawingPixels at this call
// site, so the copy is always allowed.
func (h *HDMA) OnHBlank(mem MemReader, vram *video.VRAM) {
	if !h.active || !h.hblankMode || h.remainingBlocks == 0 {
		return
	}
	h.copyBlock(mem, vram, 1, video.HBlank)
	h.remainingBlocks--
	if h.remainingBlocks == 0 {
		h.active = false
		h.hblankMode = false
	}
}

// transfer runs a general-purpose transfer of n 16-byte blocks synchronously.
// No CPU-stall cycles are charged for it, here or by the bus. mode is the
// PPU mode at the moment of the triggering HDMA5 write.
func (h *HDMA) transfer(n uint8, mem MemReader, vram *video.VRAM, mode video.Mode) {
	h.offset = 0
	h.copyBlock(mem, vram, n, mode)
}

// copyBlock drops every byte of the copy when mode is DrawingPixels, the
// same rule a direct CPU write to VRAM is held to (spec.md 4.4): VRAM-DMA
// writes bypass the mode check only outside DrawingPixels.
func (h *HDMA) copyBlock(mem MemReader, vram *video.VRAM, blocks uint8, mode video.Mode) {
	bank := vram.Bank()
	for b := uint8(0); b < blocks; b++ {
		srcAddr := h.src() + h.offset
		dstAddr := h.dst() + h.offset
		for i := uint16(0); i < 16; i++ {
			vram.WriteBankDuringDMA(bank, dstAddr+i, mem.ReadByte(srcAddr+i), mode)
		}
		h.offset += 16
	}
}

func (h *HDMA) Save(e *state.Encoder) {
	e.Uint8(h.srcHi)
	e.Uint8(h.srcLo)
	e.Uint8(h.dstHi)
	e.Uint8(h.dstLo)
	e.Bool(h.active)
	e.Bool(h.hblankMode)
	e.Uint8(h.remainingBlocks)
	e.Uint16(h.offset)
}

func (h *HDMA) Load(d *state.Decoder) {
	h.srcHi = d.Uint8()
	h.srcLo = d.Uint8()
	h.dstHi = d.Uint8()
	h.dstLo = d.Uint8()
	h.active = d.Bool()
	h.hblankMode = d.Bool()
	h.remainingBlocks = d.Uint8()
	h.offset = d.Uint16()
}
