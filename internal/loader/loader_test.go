package loader

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadROMPassesThroughPlainFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.gb")
	require.NoError(t, os.WriteFile(path, []byte("romdata"), 0o644))

	data, err := LoadROM(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("romdata"), data)
}

func TestLoadROMExtractsFirstMatchingZipEntry(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	readmeW, err := zw.Create("README.txt")
	require.NoError(t, err)
	_, err = readmeW.Write([]byte("not a rom"))
	require.NoError(t, err)
	romW, err := zw.Create("game.gbc")
	require.NoError(t, err)
	_, err = romW.Write([]byte("cgbdata"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(zipPath, buf.Bytes(), 0o644))

	data, err := LoadROM(zipPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("cgbdata"), data)
}

func TestLoadROMZipWithNoMatchingEntryErrors(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "bundle.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("manual.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(zipPath, buf.Bytes(), 0o644))

	_, err = LoadROM(zipPath)
	assert.ErrorIs(t, err, ErrNoROMEntry)
}

func TestSaveRoundTripWithoutRTC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.sav")
	ram := bytes.Repeat([]byte{0x5A}, 8*1024)

	require.NoError(t, WriteSave(path, ram, nil, time.Now()))

	sd, err := LoadSave(path, uint32(len(ram)))
	require.NoError(t, err)
	assert.Equal(t, ram, sd.RAM)
	assert.False(t, sd.HasRTC)
}
