// Package monitor turns target histories into frames and draws them.
//
// # Architecture
//
// The render Loop runs on its own ticker, independent of the probers. On each
// tick it snapshots every target's history, computes stats, and hands the
// resulting Frame to a Drawer. The Loop never probes and never waits on the
// network, and Drawers must return from Draw without blocking.
//
// Two drawers exist:
//
//	TUI    - Bubble Tea program: latency chart, stats table, key help
//	Plain  - one text line per target whenever new samples arrive
//
// The TUI follows the Model-Update-View pattern:
//
//   - Model: the latest frame plus layout and UI state (paused, help shown)
//   - Update: key presses, window resizes, and frameMsg from the Loop
//   - View: header, braille chart, stats table, footer
//
// Frames reach the TUI through a mailbox of one: Draw replaces any frame the
// program has not picked up yet, so a slow terminal only ever skips frames.
//
// # Keyboard Shortcuts
//
//	q, Esc, Ctrl+C - Quit (press again to force)
//	p, Space       - Pause / resume the view (probing continues)
//	?              - Toggle help overlay
package monitor
