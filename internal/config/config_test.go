package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, uint(115200), cfg.DefaultBaud)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.DefaultBaud = 9600
	cfg.Profiles["sniffer1"] = SerialProfile{Device: "/dev/ttyACM0", Baud: 115200}

	assert.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, uint(9600), loaded.DefaultBaud)
	assert.Equal(t, "/dev/ttyACM0", loaded.Profiles["sniffer1"].Device)
}
