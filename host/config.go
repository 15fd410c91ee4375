package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config is the host-level configuration, persisted as config.json in
// the asset store directory. Environment variables override the file.
type Config struct {
	// ROMPath points at a program image to import when the store holds
	// none. Empty means ask with a file dialog.
	ROMPath string `json:"rom_path" env:"RETROWRAPPER_ROM"`

	// PadLayout selects the overlay variant (1, 2, or 3).
	PadLayout int `json:"pad_layout" env:"RETROWRAPPER_PAD_LAYOUT"`

	// Shader is "none", "crt", or "lcd".
	Shader string `json:"shader" env:"RETROWRAPPER_SHADER"`

	AudioEnabled bool `json:"audio_enabled" env:"RETROWRAPPER_AUDIO"`

	// Touchscreen declares whether the device has a touch pointer; the
	// overlay never shows without one.
	Touchscreen bool `json:"touchscreen" env:"RETROWRAPPER_TOUCHSCREEN"`

	// QueueInputUntilReady holds guarded input actions issued before
	// the surface is ready instead of dropping them.
	QueueInputUntilReady bool `json:"queue_input_until_ready" env:"RETROWRAPPER_QUEUE_INPUT"`

	// Keyboard and Gamepad override default bindings, keyed by retropad
	// button name.
	Keyboard map[string]string `json:"keyboard,omitempty"`
	Gamepad  map[string]string `json:"gamepad,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		PadLayout:    1,
		Shader:       "none",
		AudioEnabled: true,
		Touchscreen:  true,
	}
}

// LoadConfig reads the config file, falling back to defaults when it
// does not exist, then applies environment overrides. A corrupted file
// is an error rather than silently replaced.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file, defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return config, nil
}

// SaveConfig writes the configuration atomically: temp file first, then
// rename over the target.
func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
