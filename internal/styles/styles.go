package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - default dark theme
var (
	// Primary colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	// Status colors
	Success = lipgloss.Color("#10B981") // Green
	Error   = lipgloss.Color("#EF4444") // Red

	// Text colors
	TextPrimary = lipgloss.Color("#F9FAFB")
	TextMuted   = lipgloss.Color("#6B7280")

	// Background colors
	BgPrimary   = lipgloss.Color("#111827")
	BgSecondary = lipgloss.Color("#1F2937")

	// Border colors
	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	ToastSuccessTextColor = lipgloss.Color("#000000") // Toast success foreground
	ToastErrorTextColor   = lipgloss.Color("#FFFFFF") // Toast error foreground
)

// WordColors are the gradient stops across the displayed lines (updated by
// ApplyTheme).
var WordColors = []RGB{{245, 158, 11}, {124, 58, 237}, {59, 130, 246}}

// Stage styles
var (
	// Frame around the words while idle
	Frame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(1, 4)

	// Frame around the words while stepping
	FrameRunning = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(BorderActive).
			Padding(1, 4)

	Word = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	QRPanel = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color("#FFFFFF"))
)

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgSecondary).
		Padding(0, 1)

	ButtonPressed = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Primary).
		Padding(0, 1)
)

// Toast styles
var (
	ToastSuccess = lipgloss.NewStyle().
			Foreground(ToastSuccessTextColor).
			Background(Success).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Foreground(ToastErrorTextColor).
			Background(Error).
			Padding(0, 1)
)

// RGB is a color with float channels for interpolation.
type RGB struct {
	R, G, B float64
}

// HexToRGB converts "#RRGGBB" to RGB, ignoring any alpha. Invalid input
// yields mid gray.
func HexToRGB(hex string) RGB {
	if !IsValidHexColor(hex) {
		return RGB{128, 128, 128}
	}
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{128, 128, 128}
	}
	return RGB{float64(r), float64(g), float64(b)}
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(c.R), uint8(c.G), uint8(c.B))
}

// WordStyle returns the style for line i of n. Lines are tinted along the
// theme's word gradient while stepping and use the plain word style when
// settled.
func WordStyle(i, n int, running bool) lipgloss.Style {
	if !running {
		return Word
	}
	pos := 0.0
	if n > 1 {
		pos = float64(i) / float64(n-1)
	}
	r, g, b := interpolateColors(pos, WordColors)
	return Word.Foreground(lipgloss.Color(RGB{float64(r), float64(g), float64(b)}.Hex()))
}

// interpolateColors returns RGB for a position 0.0-1.0 across the color array
func interpolateColors(pos float64, colors []RGB) (uint8, uint8, uint8) {
	if len(colors) < 2 {
		if len(colors) == 1 {
			return uint8(colors[0].R), uint8(colors[0].G), uint8(colors[0].B)
		}
		return 128, 128, 128
	}

	// Scale position to color index
	scaled := pos * float64(len(colors)-1)
	idx := int(scaled)
	if idx >= len(colors)-1 {
		idx = len(colors) - 2
	}
	frac := scaled - float64(idx)

	c1, c2 := colors[idx], colors[idx+1]
	r := uint8(c1.R + frac*(c2.R-c1.R))
	g := uint8(c1.G + frac*(c2.G-c1.G))
	b := uint8(c1.B + frac*(c2.B-c1.B))

	return r, g, b
}

// parseWordColors converts hex color strings to RGB values for word tinting
func parseWordColors(hexColors []string) []RGB {
	if len(hexColors) == 0 {
		return []RGB{{245, 158, 11}, {124, 58, 237}, {59, 130, 246}}
	}
	colors := make([]RGB, len(hexColors))
	for i, hex := range hexColors {
		colors[i] = HexToRGB(hex)
	}
	return colors
}
