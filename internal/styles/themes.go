package styles

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ErrUnknownTheme is returned by ApplyTheme for unregistered names.
var ErrUnknownTheme = errors.New("unknown theme")

// themeMu protects access to themeRegistry
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Error   string `json:"error"`

	// Text colors
	TextPrimary string `json:"textPrimary"`
	TextMuted   string `json:"textMuted"`

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	// Gradient stops for the word lines while stepping
	WordColors []string `json:"wordColors"`

	// Toast foregrounds; empty picks black or white by contrast
	ToastSuccessText string `json:"toastSuccessText"`
	ToastErrorText   string `json:"toastErrorText"`
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	// DefaultTheme is the dark theme
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED", // Purple
			Secondary: "#3B82F6", // Blue
			Accent:    "#F59E0B", // Amber

			Success: "#10B981", // Green
			Error:   "#EF4444", // Red

			TextPrimary: "#F9FAFB",
			TextMuted:   "#6B7280",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			WordColors: []string{"#F59E0B", "#7C3AED", "#3B82F6"},

			ToastSuccessText: "#000000", // Black on green
			ToastErrorText:   "#FFFFFF", // White on red
		},
	}

	// DraculaTheme is a Dracula-inspired dark theme with vibrant colors
	DraculaTheme = Theme{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			Primary:   "#BD93F9", // Purple
			Secondary: "#8BE9FD", // Cyan
			Accent:    "#FFB86C", // Orange

			Success: "#50FA7B", // Green
			Error:   "#FF5555", // Red

			TextPrimary: "#F8F8F2", // Foreground
			TextMuted:   "#6272A4", // Comment

			BgPrimary:   "#282A36", // Background
			BgSecondary: "#44475A", // Current Line

			BorderNormal: "#44475A",
			BorderActive: "#BD93F9",

			WordColors: []string{"#BD93F9", "#FF79C6", "#8BE9FD"},

			ToastSuccessText: "#282A36", // Dark bg on green
			ToastErrorText:   "#F8F8F2", // Light on red
		},
	}

	// LightTheme suits brightly lit rooms and projectors
	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary:   "#6D28D9",
			Secondary: "#1D4ED8",
			Accent:    "#B45309",

			Success: "#047857",
			Error:   "#B91C1C",

			TextPrimary: "#111827",
			TextMuted:   "#6B7280",

			BgPrimary:   "#FFFFFF",
			BgSecondary: "#E5E7EB",

			BorderNormal: "#D1D5DB",
			BorderActive: "#6D28D9",

			WordColors: []string{"#B45309", "#6D28D9", "#1D4ED8"},
		},
	}

	// HighContrastTheme keeps every pair above WCAG AAA
	HighContrastTheme = Theme{
		Name:        "high-contrast",
		DisplayName: "High Contrast",
		Colors: ColorPalette{
			Primary:   "#FFFF00",
			Secondary: "#00FFFF",
			Accent:    "#FFFF00",

			Success: "#00FF00",
			Error:   "#FF0000",

			TextPrimary: "#FFFFFF",
			TextMuted:   "#C0C0C0",

			BgPrimary:   "#000000",
			BgSecondary: "#000000",

			BorderNormal: "#FFFFFF",
			BorderActive: "#FFFF00",

			WordColors: []string{"#FFFF00", "#FFFFFF"},
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"default":       DefaultTheme,
	"dracula":       DraculaTheme,
	"light":         LightTheme,
	"high-contrast": HighContrastTheme,
}

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// IsValidTheme checks if a theme name exists in the registry
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := themeRegistry[name]
	return ok
}

// GetTheme returns a theme by name, or the default theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return DefaultTheme
}

// ListThemes returns the names of all available themes in sorted order
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(themeRegistry))
	for name := range themeRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyTheme applies a theme by name, updating all style variables
func ApplyTheme(name string) error {
	if !IsValidTheme(name) {
		return fmt.Errorf("%w %q (available: %v)", ErrUnknownTheme, name, ListThemes())
	}
	ApplyThemeColors(GetTheme(name))
	return nil
}

// ApplyThemeColors updates all style package variables from a theme.
//
// IMPORTANT: This function is NOT thread-safe for concurrent reads.
// It must only be called during initialization, before the TUI starts.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Error = lipgloss.Color(c.Error)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextMuted = lipgloss.Color(c.TextMuted)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	ToastSuccessTextColor = textOn(c.ToastSuccessText, c.Success)
	ToastErrorTextColor = textOn(c.ToastErrorText, c.Error)

	WordColors = parseWordColors(c.WordColors)

	rebuildStyles()
}

// textOn returns explicit if set, otherwise the more readable of black and
// white on bg.
func textOn(explicit, bg string) lipgloss.Color {
	if explicit != "" {
		return lipgloss.Color(explicit)
	}
	return lipgloss.Color(ReadableText(bg))
}

// ReadableText returns "#000000" or "#FFFFFF", whichever contrasts more
// with bg.
func ReadableText(bg string) string {
	b := HexToRGB(bg)
	if contrastRatio(RGB{0, 0, 0}, b) >= contrastRatio(RGB{255, 255, 255}, b) {
		return "#000000"
	}
	return "#FFFFFF"
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	Frame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(1, 4)

	FrameRunning = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(BorderActive).
		Padding(1, 4)

	Word = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgSecondary).
		Padding(0, 1)

	ButtonPressed = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ReadableText(string(Primary)))).
		Background(Primary).
		Padding(0, 1)

	ToastSuccess = lipgloss.NewStyle().
		Foreground(ToastSuccessTextColor).
		Background(Success).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
		Foreground(ToastErrorTextColor).
		Background(Error).
		Padding(0, 1)
}
