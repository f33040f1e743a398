package cartridge

import "errors"

// Sentinel errors of the cartridge package. NewCartridge returns the size and
// MBC errors (ErrInvalidChecksum is only logged there), ReloadRAM returns
// ErrRAMSizeMismatch, and bus.New returns ErrBootROMSize. Callers should use
// errors.Is, since several are wrapped with the offending byte value for
// logging.
var (
	ErrInvalidROMSize  = errors.New("cartridge: invalid rom size byte")
	ErrInvalidRAMSize  = errors.New("cartridge: invalid ram size byte")
	ErrInvalidChecksum = errors.New("cartridge: header checksum mismatch")
	ErrUnsupportedMBC  = errors.New("cartridge: unsupported mbc type")
	ErrRAMSizeMismatch = errors.New("cartridge: supplied save ram size does not match header")
	ErrBootROMSize     = errors.New("cartridge: invalid boot rom size")
)
