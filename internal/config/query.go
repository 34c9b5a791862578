package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/marcus/rtg/internal/input"
	"github.com/marcus/rtg/internal/words"
)

// ApplyQuery overrides the configuration from query-string style
// parameters, e.g. "words=steamhub&mode=press_press&qrcode=".
//
// An unknown mode falls back to the default with a warning. A word list
// name outside [A-Za-z0-9_-] is an error.
func (c *Config) ApplyQuery(query string) error {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrInvalidConfig, err)
	}
	return c.ApplyValues(values)
}

// ApplyValues is ApplyQuery for already parsed values.
func (c *Config) ApplyValues(values url.Values) error {
	if values.Has("words") {
		name := values.Get("words")
		if err := words.ValidateName(name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.Words.Name = name
	}
	if values.Has("mode") {
		c.Input.Mode = input.Mode(values.Get("mode"))
	}
	if values.Has("fullscreen") {
		c.UI.FullscreenButton = values.Get("fullscreen") != "false"
	}
	if values.Has("qrcode") {
		c.UI.QRCode = values.Get("qrcode")
	}
	if values.Has("language") {
		c.Locale.Language = values.Get("language")
	}
	if values.Has("fallbackLanguage") {
		c.Locale.Fallback = values.Get("fallbackLanguage")
	}
	if values.Has("languages") {
		c.Locale.Languages = nil
		for _, s := range strings.Split(values.Get("languages"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Locale.Languages = append(c.Locale.Languages, s)
			}
		}
	}
	if values.Has("theme") && values.Get("theme") != "" {
		c.UI.Theme = values.Get("theme")
	}
	return c.Validate()
}
