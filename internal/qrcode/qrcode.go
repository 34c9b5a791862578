// Package qrcode renders QR codes as terminal text.
package qrcode

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
	goqr "github.com/skip2/go-qrcode"
)

// ErrEmpty is returned when there is nothing to encode.
var ErrEmpty = errors.New("qrcode: empty content")

// Code is a rendered QR code.
type Code struct {
	Content string
	Lines   []string
}

// Render encodes content with medium error correction. Two modules share
// one cell using half-block characters so the code stays roughly square.
func Render(content string) (*Code, error) {
	if content == "" {
		return nil, ErrEmpty
	}
	q, err := goqr.New(content, goqr.Medium)
	if err != nil {
		return nil, err
	}
	text := strings.TrimRight(q.ToSmallString(false), "\n")
	return &Code{Content: content, Lines: strings.Split(text, "\n")}, nil
}

// Width returns the widest line in cells.
func (c *Code) Width() int {
	w := 0
	for _, line := range c.Lines {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

// Height returns the number of rows.
func (c *Code) Height() int {
	return len(c.Lines)
}

// String joins the rows.
func (c *Code) String() string {
	return strings.Join(c.Lines, "\n")
}
