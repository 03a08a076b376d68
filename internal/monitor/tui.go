package monitor

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI draws frames in a full-screen Bubble Tea program.
type TUI struct {
	frames  chan Frame
	program *tea.Program
}

// Terminal overrides where the TUI reads keys and draws. The zero value
// uses the process terminal on the alternate screen.
type Terminal struct {
	Input  io.Reader
	Output io.Writer
	// Inline draws in the normal screen buffer instead of the alternate one.
	Inline bool
}

// NewTUI creates the dashboard. Call Run to start it.
func NewTUI(opts Options, term Terminal) *TUI {
	frames := make(chan Frame, 1)

	// signals belong to the coordinator, which turns them into interrupts
	programOpts := []tea.ProgramOption{tea.WithoutSignalHandler()}
	if term.Input != nil {
		programOpts = append(programOpts, tea.WithInput(term.Input))
	}
	if term.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(term.Output))
	}
	if !term.Inline {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	return &TUI{
		frames:  frames,
		program: tea.NewProgram(NewModel(frames, opts), programOpts...),
	}
}

// Draw publishes f, replacing any frame the program has not picked up yet.
// It never blocks.
func (t *TUI) Draw(f Frame) {
	select {
	case t.frames <- f:
		return
	default:
	}

	// mailbox is full: drop the stale frame and retry once
	select {
	case <-t.frames:
	default:
	}
	select {
	case t.frames <- f:
	default:
	}
}

// Run runs the program until ctx is cancelled or the program exits on its own.
func (t *TUI) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			t.program.Quit()
		case <-stop:
		}
	}()

	_, err := t.program.Run()
	if errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
