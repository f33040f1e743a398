package cartridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawHeader builds an 0x50-byte header block (rom[0x100:0x150]) with a
// correct checksum, then lets the caller mutate fields before corrupting
// or leaving the checksum as needed.
func rawHeader(t *testing.T, mutate func(h []byte)) []byte {
	t.Helper()
	h := make([]byte, 0x50)
	copy(h[0x34:0x43], []byte("TESTGAME"))
	h[0x43] = 0x00 // DMG only
	h[0x47] = byte(KindMBC1)
	h[0x48] = 0x00 // 32KiB
	h[0x49] = 0x00 // no RAM
	if mutate != nil {
		mutate(h)
	}
	h[0x4D] = computeChecksum(h)
	return h
}

func computeChecksum(h []byte) uint8 {
	var sum uint8
	for _, b := range h[0x34:0x4D] {
		sum = sum - b - 1
	}
	return sum
}

func TestParseHeaderValid(t *testing.T) {
	h := rawHeader(t, nil)
	hdr, err := parseHeader(h)
	require.NoError(t, err)
	assert.Equal(t, "TESTGAME", hdr.Title)
	assert.Equal(t, ModeDMGOnly, hdr.GBMode)
	assert.Equal(t, KindMBC1, hdr.Kind)
	assert.EqualValues(t, 32*1024, hdr.ROMSize)
	assert.EqualValues(t, 0, hdr.RAMSize)
}

func TestParseHeaderCGBTitleTruncation(t *testing.T) {
	h := rawHeader(t, func(h []byte) {
		h[0x43] = 0x80
		copy(h[0x34:0x43], []byte("LONGTITLE123456"))
	})
	hdr, err := parseHeader(h)
	require.NoError(t, err)
	assert.True(t, hdr.GameboyColor())
	assert.Len(t, hdr.Title, 15)
}

func TestParseHeaderChecksumMismatch(t *testing.T) {
	h := rawHeader(t, nil)
	h[0x4D] ^= 0xFF // corrupt the checksum byte after it was computed correctly
	hdr, err := parseHeader(h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidChecksum))
	assert.NotNil(t, hdr, "a checksum mismatch is non-fatal, the header should still be returned")
}

func TestParseHeaderInvalidROMSize(t *testing.T) {
	h := rawHeader(t, func(h []byte) { h[0x48] = 0x09 })
	_, err := parseHeader(h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidROMSize))
}

func TestParseHeaderInvalidRAMSize(t *testing.T) {
	h := rawHeader(t, func(h []byte) { h[0x49] = 0x01 })
	_, err := parseHeader(h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRAMSize))
}

func TestParseHeaderUnsupportedMBC(t *testing.T) {
	h := rawHeader(t, func(h []byte) { h[0x47] = 0xFE })
	_, err := parseHeader(h)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedMBC))
}

func TestParseHeaderMBC2FixedRAMSize(t *testing.T) {
	h := rawHeader(t, func(h []byte) { h[0x47] = byte(KindMBC2Battery) })
	hdr, err := parseHeader(h)
	require.NoError(t, err)
	assert.True(t, hdr.HasBattery)
	assert.EqualValues(t, 512, hdr.RAMSize)
}
