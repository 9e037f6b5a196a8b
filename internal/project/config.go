package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// ConfigFile is the name of the configuration file.
const ConfigFile = "spritecut.toml"

// OutputConfig names the files a run writes. Empty paths are skipped,
// except Atlas and Log which are always written.
type OutputConfig struct {
	Atlas    string `toml:"atlas"`
	Log      string `toml:"log"`
	Manifest string `toml:"manifest"`
	Report   string `toml:"report"`
	Workbook string `toml:"workbook"`
	DXF      string `toml:"dxf"`
}

// Config is the persisted tool configuration.
type Config struct {
	Pack   model.PackSettings `toml:"pack"`
	Output OutputConfig       `toml:"output"`
}

// DefaultConfig returns the default settings and output names.
func DefaultConfig() Config {
	return Config{
		Pack: model.DefaultSettings(),
		Output: OutputConfig{
			Atlas: "output.png",
			Log:   "log.txt",
		},
	}
}

// DefaultConfigDir returns the default directory for configuration.
// On all platforms this is ~/.spritecut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".spritecut")
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), ConfigFile)
}

// SaveConfig writes cfg to path as TOML.
// It creates any missing parent directories automatically.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadConfig reads a Config from path. Keys absent from the file keep
// their default values. If the file does not exist, it returns
// DefaultConfig with no error. The surface size is clamped to the
// supported range.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg.Pack = cfg.Pack.Clamped()
	return cfg, nil
}
