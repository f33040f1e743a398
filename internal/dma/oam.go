// Package dma implements the OAM DMA engine and the CGB GDMA/HDMA engine.
// Both are driven by the bus's tick loop rather than holding a reference to
// it: they're handed a MemReader for the duration of one call, per the
// no-cyclic-references design this repo carries throughout.
package dma

import (
	"github.com/thelolagemann/gbcore/internal/state"
	"github.com/thelolagemann/gbcore/internal/video"
)

// MemReader is the minimal read capability a DMA engine needs from the bus:
// byte reads at the source address. The bus implements it with its ordinary
// Read, so a source in VRAM or OAM sees the same mode/DMA gating a CPU read
// does.
type MemReader interface {
	ReadByte(addr uint16) uint8
}

const (
	oamWarmupCycles         = 8 // 2 M-cycles before the first byte moves
	oamRestartPenaltyCycles = 8 // 2 extra M-cycles when a transfer restarts mid-flight
	oamCyclesPerByte        = 4
	oamTransferBytes        = 160
)

// OAM implements OAM DMA: writing 0xFF46 copies 160 bytes from v<<8 to OAM,
// one byte every 4 T-cycles, after an 8 T-cycle warm-up. Grounded on the
// teacher's dma.go OAM-transfer state machine, restructured onto this
// repo's Tick(cycles) convention.
type OAM struct {
	active     bool
	restarting bool
	src        uint16
	warmup     uint16
	accum      uint16
	progress   uint8
}

func NewOAM() *OAM { return &OAM{} }

// Write handles a 0xFF46 write, starting a new transfer. A transfer already
// in flight is marked restarting and aborts without corrupting bytes
// already copied; the new transfer then runs its own warm-up from scratch,
// plus an extra 2 M-cycles real hardware imposes as the restart penalty.
func (d *OAM) Write(v uint8) {
	warmup := uint16(oamWarmupCycles)
	if d.active {
		d.restarting = true
		warmup += oamRestartPenaltyCycles
	}
	d.src = uint16(v) << 8
	d.active = true
	d.warmup = warmup
	d.accum = 0
	d.progress = 0
}

// Active reports whether a transfer is in flight, gating CPU OAM access
// (video.OAM.Read/Write take this as their dmaActive parameter).
func (d *OAM) Active() bool { return d.active }

// Tick advances the transfer by cycles T-cycles, pulling bytes from mem and
// writing them directly into oam via DMAWrite (bypassing the CPU-facing
// mode gating, since this is not a CPU access).
func (d *OAM) Tick(cycles uint8, mem MemReader, oam *video.OAM) {
	for i := uint8(0); i < cycles; i++ {
		if !d.active {
			return
		}
		if d.warmup > 0 {
			d.warmup--
			continue
		}
		d.accum++
		if d.accum < oamCyclesPerByte {
			continue
		}
		d.accum = 0
		val := mem.ReadByte(d.src + uint16(d.progress))
		oam.DMAWrite(d.progress, val)
		d.progress++
		if d.progress == oamTransferBytes {
			d.active = false
			d.restarting = false
		}
	}
}

func (d *OAM) Save(e *state.Encoder) {
	e.Bool(d.active)
	e.Bool(d.restarting)
	e.Uint16(d.src)
	e.Uint16(d.warmup)
	e.Uint16(d.accum)
	e.Uint8(d.progress)
}

func (d *OAM) Load(dec *state.Decoder) {
	d.active = dec.Bool()
	d.restarting = dec.Bool()
	d.src = dec.Uint16()
	d.warmup = dec.Uint16()
	d.accum = dec.Uint16()
	d.progress = dec.Uint8()
}
