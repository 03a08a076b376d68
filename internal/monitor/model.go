package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the TUI.
type Options struct {
	// Subtitle is shown next to the title, e.g. "icmp every 1s".
	Subtitle string
	// Warnings are startup problems shown under the header for the whole run.
	Warnings []string
	// Span is the time range covered by the chart.
	Span time.Duration
	// OnQuit is called for every quit key press. When nil the program quits
	// by itself.
	OnQuit func()
}

// Model is the Bubble Tea model for the latency dashboard.
type Model struct {
	opts Options

	frame    Frame
	hasFrame bool
	frames   <-chan Frame

	width  int
	height int

	paused       bool
	showHelp     bool
	quitting     bool
	quitRequests int

	keys keyMap
	help help.Model
}

// frameMsg carries a new frame from the render loop.
type frameMsg Frame

// NewModel creates a dashboard model reading frames from the given channel.
func NewModel(frames <-chan Frame, opts Options) Model {
	if opts.Span <= 0 {
		opts.Span = 2 * time.Minute
	}
	return Model{
		opts:   opts,
		frames: frames,
		width:  80,
		height: 24,
		keys:   keys,
		help:   help.New(),
	}
}

// waitForFrame blocks until the render loop publishes a frame.
func waitForFrame(frames <-chan Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return nil
		}
		return frameMsg(f)
	}
}

// Init starts listening for frames.
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		// while paused the frame is dropped, but the mailbox keeps draining
		if !m.paused {
			m.frame = Frame(msg)
			m.hasFrame = true
		}
		return m, waitForFrame(m.frames)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Paused reports whether the view is frozen.
func (m Model) Paused() bool {
	return m.paused
}
