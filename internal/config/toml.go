// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer    TimerConfig    `toml:"timer"`
	Serve    ServeConfig    `toml:"serve"`
	Activity ActivityConfig `toml:"activity"`
	Log      LogConfig      `toml:"log"`
}

// TimerConfig maps timer-related settings.
type TimerConfig struct {
	Preset        *int  `toml:"preset"`
	BonusInterval *int  `toml:"bonus-interval"`
	Chime         *bool `toml:"chime"`
}

// ServeConfig maps settings of the HTTP control server.
type ServeConfig struct {
	Addr        *string  `toml:"addr"`
	CORSOrigins []string `toml:"cors-origins"`
}

// ActivityConfig maps the activity signal source.
type ActivityConfig struct {
	File *string `toml:"file"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Debug *bool `toml:"debug"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
