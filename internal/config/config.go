// Package config loads KiTools' persistent defaults: baud rate,
// debug verbosity, pcap capture directory, and named serial port
// profiles, from a YAML file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SerialProfile names a recurring port setup (device path and baud
// rate). cmd/kitools does not read profiles; it takes --port and
// --baud from the command line.
type SerialProfile struct {
	Device string `yaml:"device"`
	Baud   uint   `yaml:"baud"`
}

// Config is KiTools' on-disk configuration.
type Config struct {
	DefaultBaud uint                     `yaml:"default_baud"`
	DebugLevel  string                   `yaml:"debug_level"`
	PcapDir     string                   `yaml:"pcap_dir"`
	Profiles    map[string]SerialProfile `yaml:"profiles"`
}

// Default returns the built-in configuration used when no file is
// present.
func Default() *Config {
	return &Config{
		DefaultBaud: 115200,
		DebugLevel:  "none",
		PcapDir:     ".",
		Profiles:    map[string]SerialProfile{},
	}
}

// Load reads a YAML config file, falling back to Default() fields for
// anything the file leaves unset.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]SerialProfile{}
	}
	return cfg, nil
}

// Save writes the configuration back out as YAML, creating parent
// directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the platform-appropriate config file location,
// $XDG_CONFIG_HOME/kitools/config.yaml or ~/.config/kitools/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "kitools", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "kitools.yaml"
	}
	return filepath.Join(home, ".config", "kitools", "config.yaml")
}
