package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/rtg/internal/clock"
	"github.com/marcus/rtg/internal/msg"
)

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, m.keys.Quit) {
			m.k.shutdown()
			return m, tea.Quit
		}
		m.k.keys.HandleKey(message)

	case tea.MouseMsg:
		m.k.router.HandleMouse(message)

	case tea.BlurMsg:
		m.k.keys.ReleaseAll()
		m.k.router.Cancel()

	case clock.FireMsg:
		if m.k.loop != nil {
			m.k.loop.Handle(message)
		}

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true

	case msg.ToastMsg:
		m.toast = message
		m.toastSeq++
		cmds = append(cmds, msg.ExpireToast(m.toastSeq, message.Duration))

	case msg.ToastExpiredMsg:
		if message.Seq == m.toastSeq {
			m.toast = msg.ToastMsg{}
		}

	case wordsReloadedMsg:
		if message.Err != nil {
			m.k.logger.Error("word list reload failed", "err", message.Err)
			cmds = append(cmds, msg.ShowError(message.Err))
		} else {
			m.k.reload(message.Lists)
			cmds = append(cmds, msg.ShowToast("Word list reloaded", msg.ToastDuration))
		}
		cmds = append(cmds, waitForReload(m.k.reloads))
	}

	m.layout()
	cmds = append(cmds, m.k.pending...)
	m.k.pending = nil

	return m, tea.Batch(cmds...)
}
