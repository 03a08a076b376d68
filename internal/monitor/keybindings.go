package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// keyMap defines the dashboard's key bindings. It satisfies help.KeyMap.
type keyMap struct {
	Quit  key.Binding
	Pause key.Binding
	Help  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Pause, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Pause, k.Help}}
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "pause view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// HandleKeyMsg processes keyboard input. Returns true if the key was handled.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Esc closes the help overlay before it quits
	if m.showHelp && (key.Matches(msg, m.keys.Help) || msg.String() == "esc") {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitRequests++
		if m.opts.OnQuit != nil {
			// the coordinator decides whether this is a graceful or forced stop
			// and ends the program by cancelling its context
			m.opts.OnQuit()
			return true, nil
		}
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return true, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return true, nil
	}

	return false, nil
}
