package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// buildCart builds a minimal ROM-only, no-RAM cartridge for bus-level
// dispatch tests, which don't care about MBC behavior.
func buildCart(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	rom := make([]byte, 32*1024)
	copy(rom[0x134:0x143], []byte("BUSTEST"))
	rom[0x143] = 0x00 // DMG only
	rom[0x147] = byte(cartridge.KindROM)
	rom[0x148] = 0x00
	rom[0x149] = 0x00
	rom[0x14D] = checksum(rom[0x100:0x150])
	c, err := cartridge.NewCartridge(rom, nil)
	require.NoError(t, err)
	return c
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	b, err := New(buildCart(t), nil, silentSink{}, false, nil)
	require.NoError(t, err)
	return b
}

func TestWRAMBank0AndBank1AreDistinct(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC000, 0x11)
	b.Write(0xD000, 0x22)
	assert.EqualValues(t, 0x11, b.Read(0xC000))
	assert.EqualValues(t, 0x22, b.Read(0xD000))
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC010, 0x42)
	assert.EqualValues(t, 0x42, b.Read(0xE010))

	b.Write(0xE020, 0x99)
	assert.EqualValues(t, 0x99, b.Read(0xC020))
}

func TestSVBKIsInertOnDMGHardware(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xD000, 0x01)
	b.Write(0xFF70, 0x05) // SVBK: select bank 5, only meaningful on CGB
	assert.EqualValues(t, 0x01, b.Read(0xD000), "DMG hardware is pinned to WRAM bank 1")
}

func TestSVBKSwitchesWRAMBankOnCGB(t *testing.T) {
	b, err := New(buildCart(t), nil, silentSink{}, true, nil)
	require.NoError(t, err)
	b.Write(0xD000, 0xAA) // bank 1
	b.Write(0xFF70, 0x02)
	b.Write(0xD000, 0xBB) // bank 2
	b.Write(0xFF70, 0x01)
	assert.EqualValues(t, 0xAA, b.Read(0xD000))
	b.Write(0xFF70, 0x02)
	assert.EqualValues(t, 0xBB, b.Read(0xD000))

	b.Write(0xFF70, 0x00) // bank 0 reads back as bank 1
	assert.EqualValues(t, 0xAA, b.Read(0xD000))
}

func TestBootROMOverlayAndUnmap(t *testing.T) {
	boot := make([]byte, 0x100)
	boot[0x00] = 0xAB
	b, err := New(buildCart(t), boot, silentSink{}, false, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 0xAB, b.Read(0x0000), "boot ROM overlays the cartridge while mapped")
	b.Write(0xFF50, 0x01)
	assert.NotEqualValues(t, 0xAB, b.Read(0x0000), "disabling the boot ROM exposes the cartridge again")
}

func TestHeaderRegionAlwaysReadsCartridgeEvenWithBootMapped(t *testing.T) {
	boot := make([]byte, 0x100)
	b, err := New(buildCart(t), boot, silentSink{}, false, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 'B', b.Read(0x134), "title bytes must be visible through the boot ROM gap")
}

func TestNewRejectsBootROMWithNoRealHardwareSize(t *testing.T) {
	_, err := New(buildCart(t), make([]byte, 42), silentSink{}, false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, cartridge.ErrBootROMSize)
}

func TestNewAcceptsACGBSizedBootROMOnlyOnCGBHardware(t *testing.T) {
	_, err := New(buildCart(t), make([]byte, cgbBootROMSize), silentSink{}, false, nil)
	require.Error(t, err, "a CGB-sized boot rom is not valid on DMG hardware")

	_, err = New(buildCart(t), make([]byte, cgbBootROMSize), silentSink{}, true, nil)
	require.NoError(t, err)
}

func TestOAMDMAIsVisibleThroughTheBus(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC000, 0x7E) // source byte the DMA engine will copy

	b.Write(0xFF46, 0xC0) // source = 0xC000
	for i := 0; i < 8+160*4; i++ {
		b.Tick(1)
	}
	assert.False(t, b.OAMDMA.Active())
	assert.EqualValues(t, 0x7E, b.PPU.OAM.Raw()[0])
}

func TestUnmappedIORegisterReadsHighAndDoesNotPanic(t *testing.T) {
	b := newTestBus(t)
	assert.NotPanics(t, func() {
		assert.EqualValues(t, 0xFF, b.Read(0xFF72))
		b.Write(0xFF72, 0x55)
	})
}

func TestInterruptEnableRegisterRoutesToFFFF(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFFFF, 0x1F)
	assert.EqualValues(t, 0x1F, b.Read(0xFFFF))
}

func TestFunctionModeSelectionFollowsHardwareAndCartridge(t *testing.T) {
	dmg := newTestBus(t)
	assert.Equal(t, uint8(0), uint8(dmg.PPU.FunctionMode), "DMG hardware is always Monochrome")

	cgb, err := New(buildCart(t), nil, silentSink{}, true, nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), uint8(cgb.PPU.FunctionMode), "a DMG-only cart on CGB hardware runs in Compatibility mode")
}
