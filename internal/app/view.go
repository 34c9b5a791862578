package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/rtg/internal/i18n"
	"github.com/marcus/rtg/internal/styles"
)

// qrGap separates the word frame from the QR code.
const qrGap = 3

// View renders the toast line, the centered words and, unless fullscreen,
// the help and button bar.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	bodyHeight := m.height - 1
	var bar string
	if !m.k.fullscreen {
		bar = m.renderBar()
		bodyHeight--
	}
	bodyHeight = max(bodyHeight, 0)

	parts := []string{
		m.renderToast(),
		lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderStage(bodyHeight)),
	}
	if bar != "" {
		parts = append(parts, bar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStage renders the framed words, with the QR code beside them when
// it fits.
func (m Model) renderStage(height int) string {
	title := m.k.title()
	maxWidth := max(m.width-14, 1)

	lines := make([]string, len(title))
	for i, word := range title {
		word = ansi.Truncate(word, maxWidth, "…")
		lines[i] = styles.WordStyle(i, len(title), m.k.running).Render(word)
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)

	frame := styles.Frame
	if m.k.running {
		frame = styles.FrameRunning
	}
	stage := frame.Render(block)

	if qr := m.k.qr; qr != nil {
		if lipgloss.Width(stage)+qrGap+qr.Width() <= m.width && qr.Height() <= height {
			stage = lipgloss.JoinHorizontal(lipgloss.Center,
				stage,
				strings.Repeat(" ", qrGap),
				styles.QRPanel.Render(qr.String()),
			)
		}
	}
	return stage
}

func (m Model) renderToast() string {
	if m.toast.Message == "" {
		return ""
	}
	style := styles.ToastSuccess
	if m.toast.IsError {
		style = styles.ToastError
	}
	text := ansi.Truncate(m.toast.Message, max(m.width-2, 1), "…")
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, style.Render(text))
}

// renderBar renders the help line on the left and the buttons on the right.
// Button positions must match layout.
func (m Model) renderBar() string {
	buttons := m.renderButtons()
	avail := max(m.width-lipgloss.Width(buttons)-1, 0)
	help := ansi.Truncate(m.helpLine(), avail, "…")
	gap := max(m.width-lipgloss.Width(help)-lipgloss.Width(buttons), 0)
	return help + strings.Repeat(" ", gap) + buttons
}

func (m Model) renderButtons() string {
	var parts []string
	if m.k.cfg.UI.FullscreenButton {
		parts = append(parts, m.button(regionFullscreen, fullscreenLabel))
	}
	if m.showLanguageButton() {
		parts = append(parts, m.button(regionLanguage, m.languageLabel()))
	}
	return strings.Join(parts, " ")
}

func (m Model) helpLine() string {
	if !m.k.cfg.UI.ShowHelp {
		return ""
	}
	parts := []string{modeHints[m.k.input.Mode()]}
	for _, b := range m.keys.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.Help.Render(strings.Join(parts, " · "))
}

const fullscreenLabel = "Fullscreen"

// button renders label, highlighted while its region holds a press.
func (m Model) button(region, label string) string {
	if m.k.router.PressedID() == region {
		return styles.ButtonPressed.Render(label)
	}
	return styles.Button.Render(label)
}

func (m Model) languageLabel() string {
	return "Language: " + i18n.BaseName(m.k.locale)
}

func (m Model) showLanguageButton() bool {
	return len(m.k.languages) > 1
}

// layout rebuilds the mouse hit regions to match View. The stage covers the
// whole screen; buttons sit on top of it in the bottom bar.
func (m *Model) layout() {
	hm := m.k.router.HitMap
	hm.Clear()
	if !m.ready {
		return
	}
	hm.AddRect(regionStage, 0, 0, m.width, m.height, nil)
	if m.k.fullscreen {
		return
	}

	y := m.height - 1
	x := m.width
	if m.showLanguageButton() {
		w := lipgloss.Width(styles.Button.Render(m.languageLabel()))
		x -= w
		hm.AddRect(regionLanguage, x, y, w, 1, nil)
		x-- // gap
	}
	if m.k.cfg.UI.FullscreenButton {
		w := lipgloss.Width(styles.Button.Render(fullscreenLabel))
		x -= w
		hm.AddRect(regionFullscreen, x, y, w, 1, nil)
	}
}
