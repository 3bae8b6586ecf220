package dfu

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildDfuFile(t *testing.T, payload []byte, fwVersion, pid, vid, dfuSpec uint16) string {
	t.Helper()
	suffix := make([]byte, suffixLen)
	binary.LittleEndian.PutUint16(suffix[0:2], fwVersion)
	binary.LittleEndian.PutUint16(suffix[2:4], pid)
	binary.LittleEndian.PutUint16(suffix[4:6], vid)
	binary.LittleEndian.PutUint16(suffix[6:8], dfuSpec)
	copy(suffix[8:11], "UFD")
	suffix[11] = 16
	binary.LittleEndian.PutUint32(suffix[12:16], 0xdeadbeef)

	path := filepath.Join(t.TempDir(), "fw.dfu")
	assert.NoError(t, os.WriteFile(path, append(append([]byte{}, payload...), suffix...), 0600))
	return path
}

func TestLoadValidFile(t *testing.T) {
	path := buildDfuFile(t, []byte("firmware-bytes-go-here"), 0x0102, 0x0003, 0x2def, 0x0110)

	f, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, []byte("firmware-bytes-go-here"), f.Data)
	assert.Equal(t, uint16(0x0102), f.Info.FWVersion)
	assert.Equal(t, uint16(0x2def), f.Info.VID)
}

func TestLoadBadSignature(t *testing.T) {
	suffix := make([]byte, suffixLen)
	copy(suffix[8:11], "XXX")
	path := filepath.Join(t.TempDir(), "bad.dfu")
	assert.NoError(t, os.WriteFile(path, suffix, 0600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestBlocksShortLastBlock(t *testing.T) {
	f := &File{Data: make([]byte, 130)}
	blocks := f.Blocks(64)
	assert.Len(t, blocks, 3)
	assert.Len(t, blocks[0], 64)
	assert.Len(t, blocks[2], 2)
}
