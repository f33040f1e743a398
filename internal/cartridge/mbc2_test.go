package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMBC2RAMUpperNibbleForced(t *testing.T) {
	rom := make([]byte, 0x8000)
	header := newTestHeader(t, KindMBC2Battery, 0x00, 0x00)
	header.ROMSize = uint32(len(rom))
	m := newMBC2(rom, header)

	m.Write(0x0000, 0x0A) // RAM enable, bit 8 of address clear
	require.True(t, m.ramg)

	m.Write(0xA000, 0x03)
	assert.EqualValues(t, 0xF3, m.ram[0])
}

func TestMBC2RAMWrapsEvery512Bytes(t *testing.T) {
	rom := make([]byte, 0x8000)
	header := newTestHeader(t, KindMBC2Battery, 0x00, 0x00)
	header.ROMSize = uint32(len(rom))
	m := newMBC2(rom, header)
	m.Write(0x0000, 0x0A)

	m.Write(0xA000, 0x05)
	m.Write(0xA200, 0x09) // 0xA200 wraps to the same 512-entry array

	assert.EqualValues(t, 0xF9, m.ram[0])
}

func TestMBC2ROMBankSelectViaAddressBit8(t *testing.T) {
	rom := make([]byte, 16*0x4000)
	rom[3*0x4000] = 0x55
	header := newTestHeader(t, KindMBC2, 0x02, 0x00)
	header.ROMSize = uint32(len(rom))
	m := newMBC2(rom, header)

	m.Write(0x0100, 0x03) // address bit 8 set selects ROM bank
	assert.EqualValues(t, 0x55, rom[m.romOffset(0x4000)])
}
