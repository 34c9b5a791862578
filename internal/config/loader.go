package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcus/rtg/internal/input"
)

const (
	configDir  = ".config/rtg"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary.
type rawConfig struct {
	Words   rawWordsConfig   `json:"words"`
	Input   rawInputConfig   `json:"input"`
	Stepper rawStepperConfig `json:"stepper"`
	Locale  LocaleConfig     `json:"locale"`
	UI      rawUIConfig      `json:"ui"`
}

type rawWordsConfig struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Watch  *bool  `json:"watch"`
}

type rawInputConfig struct {
	Mode        string                     `json:"mode"`
	SpecialKeys map[string]json.RawMessage `json:"specialKeys"`
	KeyRelease  rawKeyReleaseConfig        `json:"keyRelease"`
}

type rawKeyReleaseConfig struct {
	Initial string `json:"initial"`
	Repeat  string `json:"repeat"`
}

type rawStepperConfig struct {
	MaxDelay string `json:"maxDelay"`
	AutoStop string `json:"autoStop"`
}

type rawUIConfig struct {
	FullscreenButton *bool   `json:"fullscreenButton"`
	QRCode           *string `json:"qrcode"`
	Theme            string  `json:"theme"`
	ShowHelp         *bool   `json:"showHelp"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/rtg/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil // Return defaults on error
		}
		path = filepath.Join(home, configDir, configFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := mergeConfig(cfg, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg.Words.Source = ExpandPath(cfg.Words.Source)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) error {
	// Words
	if raw.Words.Name != "" {
		cfg.Words.Name = raw.Words.Name
	}
	if raw.Words.Source != "" {
		cfg.Words.Source = raw.Words.Source
	}
	if raw.Words.Watch != nil {
		cfg.Words.Watch = *raw.Words.Watch
	}

	// Input
	if raw.Input.Mode != "" {
		cfg.Input.Mode = input.Mode(raw.Input.Mode)
	}
	if len(raw.Input.SpecialKeys) > 0 {
		overrides, err := parseSpecialKeys(raw.Input.SpecialKeys)
		if err != nil {
			return err
		}
		cfg.Input.SpecialKeys = input.MergeSpecialKeys(overrides)
	}
	if d, ok := parseDuration(raw.Input.KeyRelease.Initial); ok {
		cfg.Input.KeyRelease.Initial = d
	}
	if d, ok := parseDuration(raw.Input.KeyRelease.Repeat); ok {
		cfg.Input.KeyRelease.Repeat = d
	}

	// Stepper
	if d, ok := parseDuration(raw.Stepper.MaxDelay); ok {
		cfg.Stepper.MaxDelay = d
	}
	if d, ok := parseDuration(raw.Stepper.AutoStop); ok {
		cfg.Stepper.AutoStop = d
	}

	// Locale
	if raw.Locale.Language != "" {
		cfg.Locale.Language = raw.Locale.Language
	}
	if raw.Locale.Fallback != "" {
		cfg.Locale.Fallback = raw.Locale.Fallback
	}
	if len(raw.Locale.Languages) > 0 {
		cfg.Locale.Languages = append([]string(nil), raw.Locale.Languages...)
	}

	// UI
	if raw.UI.FullscreenButton != nil {
		cfg.UI.FullscreenButton = *raw.UI.FullscreenButton
	}
	if raw.UI.QRCode != nil {
		cfg.UI.QRCode = *raw.UI.QRCode
	}
	if raw.UI.Theme != "" {
		cfg.UI.Theme = raw.UI.Theme
	}
	if raw.UI.ShowHelp != nil {
		cfg.UI.ShowHelp = *raw.UI.ShowHelp
	}
	return nil
}

// parseSpecialKeys accepts either a list of keys or a string whose
// characters are the keys for each action.
func parseSpecialKeys(raw map[string]json.RawMessage) (input.SpecialKeys, error) {
	out := make(input.SpecialKeys, len(raw))
	for name, value := range raw {
		action, err := input.ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out[action] = input.SplitKeys(s)
			continue
		}
		var keys []string
		if err := json.Unmarshal(value, &keys); err != nil {
			return nil, fmt.Errorf("%w: special key %q must be a string or a list of keys", ErrInvalidConfig, name)
		}
		if keys == nil {
			keys = []string{}
		}
		out[action] = keys
	}
	return out, nil
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
