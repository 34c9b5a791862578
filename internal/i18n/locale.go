// Package i18n resolves display locales and looks up translated words.
package i18n

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLocale is returned for strings that are not BCP 47 tags.
var ErrInvalidLocale = errors.New("invalid locale tag")

// Parse validates s as a BCP 47 language tag.
func Parse(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return language.Und, fmt.Errorf("%w: empty", ErrInvalidLocale)
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("%w %q: %v", ErrInvalidLocale, s, err)
	}
	return tag, nil
}

// ParseList parses a comma separated list of tags, skipping empty items.
func ParseList(s string) ([]language.Tag, error) {
	var tags []language.Tag
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		tag, err := Parse(part)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// BaseName returns the tag without extensions or private use subtags,
// e.g. "de-CH-1996" for "de-CH-1996-u-co-phonebk".
func BaseName(tag language.Tag) string {
	parts := strings.Split(tag.String(), "-")
	for i, p := range parts {
		if i > 0 && len(p) == 1 {
			return strings.Join(parts[:i], "-")
		}
	}
	return strings.Join(parts, "-")
}

// FallbackLocales returns tag followed by each shorter prefix obtained by
// dropping the last subtag: de-CH-1996, de-CH, de.
func FallbackLocales(tag language.Tag) []string {
	var chain []string
	name := BaseName(tag)
	for name != "" {
		chain = append(chain, name)
		i := strings.LastIndex(name, "-")
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return chain
}

// IndexOfLocale returns the index of the best match for tag in locales, or
// -1. An exact base name match wins; otherwise the tag is shortened one
// subtag at a time.
func IndexOfLocale(locales []language.Tag, tag language.Tag) int {
	names := make([]string, len(locales))
	for i, l := range locales {
		names[i] = BaseName(l)
	}
	for _, candidate := range FallbackLocales(tag) {
		for i, name := range names {
			if name == candidate {
				return i
			}
		}
	}
	return -1
}

// SystemLocale derives a tag from the POSIX locale environment, falling
// back to English.
func SystemLocale() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag, ok := posixLocale(os.Getenv(key)); ok {
			return tag
		}
	}
	return language.English
}

func posixLocale(v string) (language.Tag, bool) {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
