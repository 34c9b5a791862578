// Package msg holds Bubble Tea messages shared across packages.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Default toast lifetimes.
const (
	ToastDuration      = 2 * time.Second
	ErrorToastDuration = 5 * time.Second
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ToastExpiredMsg clears the toast with the given sequence number.
type ToastExpiredMsg struct {
	Seq int
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}

// ShowError returns a command to show err as an error toast.
func ShowError(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return ToastMsg{
			Message:  "Error: " + err.Error(),
			Duration: ErrorToastDuration,
			IsError:  true,
		}
	}
}

// ExpireToast fires ToastExpiredMsg for seq after d.
func ExpireToast(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{Seq: seq}
	})
}
