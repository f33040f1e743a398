// Package loader provides host-facing convenience for turning a file on
// disk into ROM bytes and a save file into restored RAM/RTC state.
// Grounded on the teacher's pkg/utils.LoadFile, which the same archive
// formats (.zip via stdlib, .7z via bodgit/sevenzip). The archive format is
// chosen by the outer file's extension; inside an archive, the entry is
// picked by its own ROM extension rather than taken as the first file,
// since ROM bundles often carry a README or manual alongside the ROM.
package loader

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bodgit/sevenzip"
	"github.com/thelolagemann/gbcore/internal/cartridge"
)

// ErrNoROMEntry is returned when an archive contains no file with a
// recognized Game Boy ROM extension.
var ErrNoROMEntry = errors.New("loader: archive contains no .gb/.gbc/.cgb entry")

var romExtensions = map[string]bool{
	".gb":  true,
	".gbc": true,
	".cgb": true,
}

// LoadROM reads path and, if it is a zip or 7z archive, returns the bytes of
// the first entry whose extension is .gb, .gbc, or .cgb. Plain ROM files
// (and any other extension) are returned as-is.
func LoadROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return loadFromZip(data)
	case ".7z":
		return loadFromSevenZip(path, data)
	default:
		return data, nil
	}
}

func loadFromZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: opening zip: %w", err)
	}
	for _, f := range r.File {
		if !romExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("loader: opening zip entry %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrNoROMEntry
}

func loadFromSevenZip(path string, data []byte) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	r, err := sevenzip.NewReader(f, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("loader: opening 7z: %w", err)
	}
	for _, entry := range r.File {
		if !romExtensions[strings.ToLower(filepath.Ext(entry.Name))] {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("loader: opening 7z entry %s: %w", entry.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, ErrNoROMEntry
}

// rtcRecordSize is the on-disk size of the optional RTC trailer: 8 little-
// endian uint32 fields plus a 64-bit UNIX timestamp, per spec.md 6.
const rtcRecordSize = 8*4 + 8

// SaveData is the parsed content of a save file: the raw cartridge RAM dump
// and, for RTC-equipped cartridges, the persisted clock registers and the
// UNIX time the save was written.
type SaveData struct {
	RAM []byte

	HasRTC     bool
	Seconds, Minutes, Hours, DayLow, DayFlags uint32
	LatchedSeconds, LatchedMinutes, LatchedHours uint32
	SavedAt time.Time
}

// LoadSave reads a save file written by WriteSave. ramSize is the
// cartridge's declared RAM size (cartridge.Header.RAMSize); bytes beyond
// that are interpreted as the optional RTC trailer only if present and of
// exactly the expected length, per spec.md 7's "RTC parse errors reset the
// RTC to zero and warn" contract — the caller, not this function, does the
// warning, since this package has no logger of its own.
func LoadSave(path string, ramSize uint32) (SaveData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SaveData{}, fmt.Errorf("loader: %w", err)
	}
	if uint32(len(data)) < ramSize {
		return SaveData{}, fmt.Errorf("loader: save file shorter than declared ram size: got %d, want at least %d", len(data), ramSize)
	}

	sd := SaveData{RAM: data[:ramSize]}

	trailer := data[ramSize:]
	if len(trailer) != rtcRecordSize {
		return sd, nil
	}

	sd.HasRTC = true
	sd.Seconds = binary.LittleEndian.Uint32(trailer[0:4])
	sd.Minutes = binary.LittleEndian.Uint32(trailer[4:8])
	sd.Hours = binary.LittleEndian.Uint32(trailer[8:12])
	sd.DayLow = binary.LittleEndian.Uint32(trailer[12:16])
	sd.DayFlags = binary.LittleEndian.Uint32(trailer[16:20])
	sd.LatchedSeconds = binary.LittleEndian.Uint32(trailer[20:24])
	sd.LatchedMinutes = binary.LittleEndian.Uint32(trailer[24:28])
	sd.LatchedHours = binary.LittleEndian.Uint32(trailer[28:32])
	sd.SavedAt = time.Unix(int64(binary.LittleEndian.Uint64(trailer[32:40])), 0)
	return sd, nil
}

// WriteSave persists ram, and if cart is non-nil and carries an RTC, the
// RTC trailer described in spec.md 6, timestamped savedAt (normally
// time.Now(), passed in so callers can keep this function itself
// deterministic).
func WriteSave(path string, ram []byte, cart *cartridge.Cartridge, savedAt time.Time) error {
	buf := make([]byte, 0, len(ram)+rtcRecordSize)
	buf = append(buf, ram...)

	if cart != nil && cart.HasRTC() {
		r := cart.RTC()
		var trailer [rtcRecordSize]byte
		binary.LittleEndian.PutUint32(trailer[0:4], uint32(r.Seconds()))
		binary.LittleEndian.PutUint32(trailer[4:8], uint32(r.Minutes()))
		binary.LittleEndian.PutUint32(trailer[8:12], uint32(r.Hours()))
		binary.LittleEndian.PutUint32(trailer[12:16], uint32(r.DayLow()))
		binary.LittleEndian.PutUint32(trailer[16:20], uint32(r.DayFlags()))
		binary.LittleEndian.PutUint32(trailer[20:24], uint32(r.LatchedSeconds()))
		binary.LittleEndian.PutUint32(trailer[24:28], uint32(r.LatchedMinutes()))
		binary.LittleEndian.PutUint32(trailer[28:32], uint32(r.LatchedHours()))
		binary.LittleEndian.PutUint64(trailer[32:40], uint64(savedAt.Unix()))
		buf = append(buf, trailer[:]...)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("loader: writing save file: %w", err)
	}
	return nil
}

// RestoreRTC applies a loaded save's RTC fields to cart's clock and fast-
// forwards it by the wall-clock gap since it was saved, matching real
// hardware's always-running battery-backed oscillator.
func RestoreRTC(cart *cartridge.Cartridge, sd SaveData) {
	if !sd.HasRTC || !cart.HasRTC() {
		return
	}
	r := cart.RTC()
	if r == nil {
		return
	}
	r.SetRaw(
		uint8(sd.Seconds), uint8(sd.Minutes), uint8(sd.Hours),
		uint8(sd.DayLow), uint8(sd.DayFlags),
		uint8(sd.LatchedSeconds), uint8(sd.LatchedMinutes), uint8(sd.LatchedHours),
	)
	r.AdvanceReal(time.Since(sd.SavedAt))
}
