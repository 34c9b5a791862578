package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcus/rtg/internal/i18n"
	"github.com/marcus/rtg/internal/input"
	"github.com/marcus/rtg/internal/stepper"
	"github.com/marcus/rtg/internal/tty"
	"github.com/marcus/rtg/internal/words"
	"golang.org/x/text/language"
)

// ErrInvalidConfig wraps configuration errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration structure.
type Config struct {
	Words   WordsConfig   `json:"words"`
	Input   InputConfig   `json:"input"`
	Stepper StepperConfig `json:"stepper"`
	Locale  LocaleConfig  `json:"locale"`
	UI      UIConfig      `json:"ui"`
}

// WordsConfig selects the word list.
type WordsConfig struct {
	Name   string `json:"name"`   // file name without .json
	Source string `json:"source"` // directory or http(s) base URL
	Watch  bool   `json:"watch"`  // reload the list when its file changes
}

// InputConfig configures how input starts and stops stepping.
type InputConfig struct {
	Mode        input.Mode        `json:"mode"`
	SpecialKeys input.SpecialKeys `json:"specialKeys"`
	KeyRelease  KeyReleaseConfig  `json:"keyRelease"`
}

// KeyReleaseConfig tunes how key releases are inferred from auto-repeat.
type KeyReleaseConfig struct {
	Initial time.Duration `json:"initial"`
	Repeat  time.Duration `json:"repeat"`
}

// StepperConfig configures the randomization loop.
type StepperConfig struct {
	MaxDelay time.Duration `json:"maxDelay"`
	AutoStop time.Duration `json:"autoStop"` // 0 disables
}

// LocaleConfig selects display languages. Empty Language means the system
// locale; empty Languages means the locales found in the word list.
type LocaleConfig struct {
	Language  string   `json:"language"`
	Fallback  string   `json:"fallback"`
	Languages []string `json:"languages"`
}

// UIConfig configures the screen.
type UIConfig struct {
	FullscreenButton bool   `json:"fullscreenButton"`
	QRCode           string `json:"qrcode"` // empty hides the QR code
	Theme            string `json:"theme"`
	ShowHelp         bool   `json:"showHelp"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Words: WordsConfig{
			Name:   words.DefaultName,
			Source: words.DefaultDir,
		},
		Input: InputConfig{
			Mode:        input.DefaultMode,
			SpecialKeys: input.DefaultSpecialKeys(),
			KeyRelease: KeyReleaseConfig{
				Initial: tty.DefaultInitialRelease,
				Repeat:  tty.DefaultRepeatRelease,
			},
		},
		Stepper: StepperConfig{
			MaxDelay: stepper.DefaultMaxDelay,
		},
		UI: UIConfig{
			FullscreenButton: true,
			Theme:            "default",
			ShowHelp:         true,
		},
	}
}

// Validate checks the configuration for errors. Recoverable values are
// reset to defaults with a warning; a bad word list name or locale tag is
// an error.
func (c *Config) Validate() error {
	if !c.Input.Mode.Valid() {
		slog.Warn("unknown mode, using default", "mode", string(c.Input.Mode), "default", string(input.DefaultMode))
		c.Input.Mode = input.DefaultMode
	}
	if c.Stepper.MaxDelay <= 0 {
		c.Stepper.MaxDelay = stepper.DefaultMaxDelay
	}
	if c.Stepper.AutoStop < 0 {
		c.Stepper.AutoStop = 0
	}
	if c.Input.KeyRelease.Initial <= 0 {
		c.Input.KeyRelease.Initial = tty.DefaultInitialRelease
	}
	if c.Input.KeyRelease.Repeat <= 0 {
		c.Input.KeyRelease.Repeat = tty.DefaultRepeatRelease
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "default"
	}

	if err := words.ValidateName(c.Words.Name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, _, _, err := c.Locales(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Locales parses the configured locale settings. Unset values come back as
// language.Und or nil.
func (c *Config) Locales() (locale, fallback language.Tag, languages []language.Tag, err error) {
	if c.Locale.Language != "" {
		if locale, err = i18n.Parse(c.Locale.Language); err != nil {
			return
		}
	}
	if c.Locale.Fallback != "" {
		if fallback, err = i18n.Parse(c.Locale.Fallback); err != nil {
			return
		}
	}
	for _, s := range c.Locale.Languages {
		var tag language.Tag
		if tag, err = i18n.Parse(s); err != nil {
			return
		}
		languages = append(languages, tag)
	}
	return
}
