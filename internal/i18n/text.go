package i18n

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/text/language"
)

// Replacement is shown when no translation can be found.
const Replacement = "�"

// ErrInvalidText is returned when JSON is neither a string nor an object of
// locale to string.
var ErrInvalidText = errors.New("word must be a string or an object of translations")

// Entry is a single translation.
type Entry struct {
	Locale string
	Text   string
}

// Text is either a plain string shown in every locale or a set of
// translations keyed by locale tag. The zero value is the empty plain
// string.
type Text struct {
	plain   string
	entries []Entry
	tags    []language.Tag
}

// Plain returns a locale-invariant text.
func Plain(s string) Text {
	return Text{plain: s}
}

// Translated returns a text with the given translations. Entries whose
// locale does not parse are rejected.
func Translated(entries ...Entry) (Text, error) {
	t := Text{
		entries: make([]Entry, 0, len(entries)),
		tags:    make([]language.Tag, 0, len(entries)),
	}
	for _, e := range entries {
		tag, err := Parse(e.Locale)
		if err != nil {
			return Text{}, err
		}
		t.entries = append(t.entries, e)
		t.tags = append(t.tags, tag)
	}
	return t, nil
}

// MustTranslated is like Translated but panics on an invalid locale.
func MustTranslated(entries ...Entry) Text {
	t, err := Translated(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// IsPlain reports whether the text is locale-invariant.
func (t Text) IsPlain() bool {
	return t.entries == nil
}

// Entries returns the translations in declaration order.
func (t Text) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Locales returns the translation locales in declaration order.
func (t Text) Locales() []language.Tag {
	out := make([]language.Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// String returns the plain text, or the first translation.
func (t Text) String() string {
	if t.IsPlain() {
		return t.plain
	}
	if len(t.entries) == 0 {
		return ""
	}
	return t.entries[0].Text
}

// UnmarshalJSON accepts a JSON string or an object mapping locale tags to
// strings. Object key order is preserved.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidText
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Plain(s)
		return nil
	case '{':
		entries, err := decodeEntries(data)
		if err != nil {
			return err
		}
		parsed, err := Translated(entries...)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	return fmt.Errorf("%w, got %s", ErrInvalidText, truncateJSON(data))
}

func decodeEntries(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	entries := []Entry{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: translation %q is not a string", ErrInvalidText, key)
		}
		entries = append(entries, Entry{Locale: key, Text: s})
	}
	return entries, nil
}

func truncateJSON(data []byte) string {
	const max = 32
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}

// T returns the text for locale. Plain texts are returned unchanged. A
// translated text uses the best match for locale, then the best match for
// fallback, then Replacement. Pass language.Und as fallback to disable the
// second lookup.
func T(t Text, locale, fallback language.Tag) string {
	if t.IsPlain() {
		return t.plain
	}
	if i := IndexOfLocale(t.tags, locale); i >= 0 {
		return t.entries[i].Text
	}
	if fallback == language.Und {
		slog.Error("no translation", "text", t.String(), "locale", locale.String())
		return Replacement
	}
	slog.Warn("no translation, using fallback", "text", t.String(), "locale", locale.String(), "fallback", fallback.String())
	if i := IndexOfLocale(t.tags, fallback); i >= 0 {
		return t.entries[i].Text
	}
	slog.Error("no fallback translation", "text", t.String(), "fallback", fallback.String())
	return Replacement
}
