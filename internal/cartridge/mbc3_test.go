package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMBC3Test(t *testing.T, kind Kind, ramSizeByte uint8) *mbc3 {
	t.Helper()
	rom := make([]byte, 0x20000) // 8 banks
	header := newTestHeader(t, kind, 0x03, ramSizeByte)
	header.ROMSize = uint32(len(rom))
	return newMBC3(rom, header)
}

func TestMBC3ROMBanking(t *testing.T) {
	m := newMBC3Test(t, KindMBC3, 0x00)
	m.Write(0x2000, 0x05)
	assert.Equal(t, 5*0x4000, m.romOffset(0x4000))

	// writing 0 remaps to bank 1 on MBC3, as on MBC1.
	m.Write(0x2000, 0x00)
	assert.Equal(t, 1*0x4000, m.romOffset(0x4000))
}

func TestMBC3RTCLatchSequence(t *testing.T) {
	m := newMBC3Test(t, KindMBC3TimerBattery, 0x03)
	require.True(t, m.hasRTC)

	m.Write(0x0000, 0x0A) // enable RAM/RTC access
	m.Write(0x4000, 0x08) // select seconds register

	m.Write(0xA000, 0x2A) // write 42 into live seconds
	// before latching, reads return the stale latch snapshot (zero).
	v, ok := m.readRTC()
	require.True(t, ok)
	assert.EqualValues(t, 0, v)

	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01) // 0 -> 1 latches
	v, ok = m.readRTC()
	require.True(t, ok)
	assert.EqualValues(t, 0x2A, v)
}

func TestMBC3RTCTicksForward(t *testing.T) {
	m := newMBC3Test(t, KindMBC3TimerBattery, 0x00)
	m.rtc.Tick(rtcCyclesPerSecond * 61) // just over a minute
	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)

	assert.EqualValues(t, 1, m.rtc.LatchedSeconds())
	assert.EqualValues(t, 1, m.rtc.LatchedMinutes())
}

func TestMBC3RTCHaltFreezesClock(t *testing.T) {
	m := newMBC3Test(t, KindMBC3TimerBattery, 0x00)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x0C) // select day-high register
	m.Write(0xA000, 0x40) // set halt bit

	m.rtc.Tick(rtcCyclesPerSecond * 10)
	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)
	assert.EqualValues(t, 0, m.rtc.LatchedSeconds())
}

func TestMBC3_MBC30RAMBanks(t *testing.T) {
	m := newMBC3Test(t, KindMBC3RAMBattery, 0x05) // 64KiB -> 8 banks
	require.True(t, m.isMBC30)
	assert.EqualValues(t, 0x07, m.maxRAMSel())
}
