package machine

import (
	"testing"

	"github.com/cespare/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thelolagemann/gbcore/internal/bus"
	"github.com/thelolagemann/gbcore/internal/cartridge"
)

type silentSink struct{}

func (silentSink) PushSample(l, r float32) {}

func checksum(h []byte) uint8 {
	var sum uint8
	for _, b := range h[0x34:0x4D] {
		sum = sum - b - 1
	}
	return sum
}

func buildCart(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, 32*1024)
	copy(rom[0x134:0x143], []byte("MACHINETEST"))
	rom[0x147] = byte(cartridge.KindROM)
	rom[0x14D] = checksum(rom[0x100:0x150])
	c, err := cartridge.NewCartridge(rom, nil)
	require.NoError(t, err)
	return c
}

func newTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	b, err := bus.New(buildCart(t), nil, silentSink{}, false, nil)
	require.NoError(t, err)
	return b
}

// TestRunFrameStopsExactlyAtFrameBoundary is Testable Property 3 exercised
// through the full Machine/Bus wiring rather than the PPU in isolation.
func TestRunFrameStopsExactlyAtFrameBoundary(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF40, 0x91) // LCDC: enabled, BG enabled, tiles at 0x8000

	m := New(b, constantCPU{cycles: 4})
	m.RunFrame()

	assert.True(t, b.PPU.FrameDone)
	assert.EqualValues(t, 0, b.PPU.ReadLY())
}

type captureSink struct {
	frames [][]byte
}

func (c *captureSink) Draw(frame []byte) {
	c.frames = append(c.frames, append([]byte(nil), frame...))
}

func TestRunFrameInvokesVideoCallbackWithAFullFrame(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF40, 0x91)

	sink := &captureSink{}
	m := New(b, constantCPU{cycles: 4})
	m.Video = sink
	m.RunFrame()

	require.Len(t, sink.frames, 1)
	assert.Len(t, sink.frames[0], 160*144*4)
}

// TestBlankBackgroundFrameHashIsStableAcrossRuns is Testable Property (a)'s
// golden-frame regression shape: two independently constructed machines
// given identical ROM/register state must render byte-identical frames.
// cespare/xxhash (already a teacher dependency, used there for frame/patch
// cache dedup) hashes the output instead of comparing the raw 92KiB buffer.
func TestBlankBackgroundFrameHashIsStableAcrossRuns(t *testing.T) {
	run := func() uint64 {
		b := newTestBus(t)
		b.Write(0xFF40, 0x91)
		m := New(b, constantCPU{cycles: 4})
		m.RunFrame()
		return xxhash.Sum64(b.PPU.FrameBuffer[:])
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

// TestBlankBackgroundIsAllWhite pins down what the stable hash above
// actually represents: an all-zero VRAM with the default BGP (shade 0 ->
// white) renders a fully white frame.
func TestBlankBackgroundIsAllWhite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF40, 0x91)
	m := New(b, constantCPU{cycles: 4})
	m.RunFrame()

	for i := 0; i < len(b.PPU.FrameBuffer); i++ {
		if b.PPU.FrameBuffer[i] != 0xFF {
			t.Fatalf("frame buffer byte %d = %#02x, want 0xFF", i, b.PPU.FrameBuffer[i])
		}
	}
}

// TestVBlankInterruptDispatchesThroughTheFullStack is scenario (d)'s
// plumbing half: a dispatchingCPU stands in for the "next EI+HALT+NOP
// sequence" a real decoder would run, confirming the bus's interrupt
// controller correctly surfaces VBlank for the CPU collaborator to act on.
func TestVBlankInterruptDispatchesThroughTheFullStack(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF40, 0x91)
	b.Write(0xFFFF, 0xFF) // IE: all sources enabled

	cpu := &dispatchingCPU{cycles: 4}
	m := New(b, cpu)
	m.RunFrame()

	require.NotEmpty(t, cpu.dispatched)
	assert.Contains(t, cpu.dispatched, uint16(0x0040), "VBlank must dispatch to its vector once per frame")
}

// TestLYCInterruptDispatchesThroughTheFullStack exercises scenario (d)'s
// LYC=LY half the same way.
func TestLYCInterruptDispatchesThroughTheFullStack(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF40, 0x91)
	b.Write(0xFF45, 10) // LYC = 10
	b.Write(0xFF41, 0x40) // STAT: LYC interrupt enabled
	b.Write(0xFFFF, 0xFF)

	cpu := &dispatchingCPU{cycles: 4}
	m := New(b, cpu)
	m.RunFrame()

	assert.Contains(t, cpu.dispatched, uint16(0x0048), "LYC=LY must dispatch to the LCD STAT vector")
}
