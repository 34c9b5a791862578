// Package words loads and samples the word lists a title is built from.
package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/marcus/rtg/internal/i18n"
	"golang.org/x/text/language"
)

// DefaultName is the word list used when none is configured.
const DefaultName = "steamhub"

var (
	// ErrInvalidName is returned for list names outside [A-Za-z0-9_-].
	ErrInvalidName = errors.New("word list name must only include alphanumeric characters, hyphens (-) or underscores (_)")
	// ErrFetch is returned when the word list cannot be retrieved.
	ErrFetch = errors.New("unable to fetch word list")
	// ErrParse is returned when the word list is not valid JSON.
	ErrParse = errors.New("error parsing word list")
	// ErrInvalidFormat is returned when the JSON does not have the word list shape.
	ErrInvalidFormat = errors.New("invalid word list format")
)

var nameRe = regexp.MustCompile(`^[\w-]+$`)

// ValidateName checks that name is safe to use as a file name.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Word is a plain string or a set of translations.
type Word = i18n.Text

// List is one slot of the n-gram.
type List []Word

// Lists is the whole word list document: one List per displayed line.
type Lists []List

// Decode parses and validates a word list document.
func Decode(data []byte) (Lists, error) {
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	var lists Lists
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := lists.Validate(); err != nil {
		return nil, err
	}
	return lists, nil
}

// Validate checks that there is at least one list and that no list is empty.
func (l Lists) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: no word lists", ErrInvalidFormat)
	}
	for i, list := range l {
		if len(list) == 0 {
			return fmt.Errorf("%w: list %d is empty", ErrInvalidFormat, i)
		}
	}
	return nil
}

// Locales returns the distinct translation locales in first-seen order.
func (l Lists) Locales() []language.Tag {
	var out []language.Tag
	seen := make(map[string]bool)
	for _, list := range l {
		for _, w := range list {
			for _, tag := range w.Locales() {
				name := i18n.BaseName(tag)
				if seen[name] {
					continue
				}
				seen[name] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

// RandomNGram picks one word from each list. A nil rng uses the global
// source.
func RandomNGram(lists Lists, rng *rand.Rand) []Word {
	ngram := make([]Word, len(lists))
	for i, list := range lists {
		if rng != nil {
			ngram[i] = list[rng.IntN(len(list))]
		} else {
			ngram[i] = list[rand.IntN(len(list))]
		}
	}
	return ngram
}

// Translate renders an n-gram for locale.
func Translate(ngram []Word, locale, fallback language.Tag) []string {
	out := make([]string, len(ngram))
	for i, w := range ngram {
		out[i] = i18n.T(w, locale, fallback)
	}
	return out
}
