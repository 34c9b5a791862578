package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/rtg/internal/words"
)

// wordsReloadedMsg carries a word list reload from the file watcher.
type wordsReloadedMsg struct {
	words.Reload
}

// waitForReload blocks on the watcher channel. It returns nil once the
// channel is closed so the command is not re-issued.
func waitForReload(ch <-chan words.Reload) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return wordsReloadedMsg{r}
	}
}
