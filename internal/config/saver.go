package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/marcus/rtg/internal/input"
)

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Words   WordsConfig       `json:"words"`
	Input   saveInputConfig   `json:"input"`
	Stepper saveStepperConfig `json:"stepper"`
	Locale  LocaleConfig      `json:"locale"`
	UI      saveUIConfig      `json:"ui"`
}

type saveInputConfig struct {
	Mode        input.Mode           `json:"mode"`
	SpecialKeys input.SpecialKeys    `json:"specialKeys,omitempty"`
	KeyRelease  saveKeyReleaseConfig `json:"keyRelease"`
}

type saveKeyReleaseConfig struct {
	Initial string `json:"initial"`
	Repeat  string `json:"repeat"`
}

type saveStepperConfig struct {
	MaxDelay string `json:"maxDelay"`
	AutoStop string `json:"autoStop,omitempty"`
}

type saveUIConfig struct {
	FullscreenButton *bool  `json:"fullscreenButton"`
	QRCode           string `json:"qrcode"`
	Theme            string `json:"theme,omitempty"`
	ShowHelp         *bool  `json:"showHelp"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	sc := saveConfig{
		Words: cfg.Words,
		Input: saveInputConfig{
			Mode:        cfg.Input.Mode,
			SpecialKeys: cfg.Input.SpecialKeys,
			KeyRelease: saveKeyReleaseConfig{
				Initial: cfg.Input.KeyRelease.Initial.String(),
				Repeat:  cfg.Input.KeyRelease.Repeat.String(),
			},
		},
		Stepper: saveStepperConfig{
			MaxDelay: cfg.Stepper.MaxDelay.String(),
		},
		Locale: cfg.Locale,
		UI: saveUIConfig{
			FullscreenButton: &cfg.UI.FullscreenButton,
			QRCode:           cfg.UI.QRCode,
			Theme:            cfg.UI.Theme,
			ShowHelp:         &cfg.UI.ShowHelp,
		},
	}
	if cfg.Stepper.AutoStop > 0 {
		sc.Stepper.AutoStop = cfg.Stepper.AutoStop.String()
	}
	return sc
}

// Save writes the config to ~/.config/rtg/config.json
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path. Top-level keys the config does not
// manage are kept.
func SaveTo(path string, cfg *Config) error {
	if path == "" {
		return errors.New("no config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	doc := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// An unreadable file is replaced.
		_ = json.Unmarshal(existing, &doc)
	}

	managed, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &fields); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
