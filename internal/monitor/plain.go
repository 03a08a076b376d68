package monitor

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/pingplot/internal/stats"
)

// Plain writes one line per target whenever that target has new samples.
// It is used when stdout is not a terminal.
type Plain struct {
	w        io.Writer
	lastSent map[string]uint64
}

// NewPlain creates a plain-text drawer writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w, lastSent: make(map[string]uint64)}
}

// Draw implements Drawer. It is called only from the render loop goroutine.
func (p *Plain) Draw(f Frame) {
	for _, s := range f.Series {
		sent := s.Stats.Loss.Sent
		if sent == p.lastSent[s.Label] {
			continue
		}
		p.lastSent[s.Label] = sent
		fmt.Fprintln(p.w, FormatLine(f, s))
	}
}

// FormatLine renders one series as a single log-style line.
func FormatLine(f Frame, s Series) string {
	st := s.Stats
	return fmt.Sprintf("%s %s last=%s min=%s avg=%s max=%s jitter=%s loss=%s sent=%d",
		f.At.Format("15:04:05"),
		s.Name,
		stats.FormatLast(st),
		stats.FormatDuration(st.Min),
		stats.FormatDuration(st.Avg),
		stats.FormatDuration(st.Max),
		stats.FormatDuration(st.Jitter),
		stats.FormatPercent(st.LossPct),
		st.Loss.Sent,
	)
}
