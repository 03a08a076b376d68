package monitor

import (
	"context"
	"time"

	"github.com/rileyhilliard/pingplot/internal/history"
	"github.com/rileyhilliard/pingplot/internal/stats"
	"github.com/rileyhilliard/pingplot/internal/target"
)

// DefaultRenderInterval is how often a frame is produced.
const DefaultRenderInterval = 250 * time.Millisecond

// Series is one target's data within a frame.
type Series struct {
	Label   string
	// Name is the label plus the resolved address, as shown to the user.
	Name    string
	Samples []history.Sample
	Stats   stats.Stats
}

// Frame is everything a drawer needs for one redraw. Each Series is
// internally consistent; different series may be snapshotted a few
// microseconds apart.
type Frame struct {
	At     time.Time
	Series []Series
}

// Drawer receives frames from the Loop. Draw must not block.
type Drawer interface {
	Draw(Frame)
}

// DrawerFunc adapts a function to the Drawer interface.
type DrawerFunc func(Frame)

func (f DrawerFunc) Draw(fr Frame) { f(fr) }

// Loop periodically builds frames from target histories.
type Loop struct {
	Targets  []*target.Target
	Interval time.Duration
	Drawer   Drawer
}

// BuildFrame snapshots every target and computes its stats.
func BuildFrame(targets []*target.Target, at time.Time) Frame {
	f := Frame{At: at, Series: make([]Series, 0, len(targets))}
	for _, t := range targets {
		snap := t.History.Snapshot()
		f.Series = append(f.Series, Series{
			Label:   t.Label,
			Name:    t.DisplayName(),
			Samples: snap.Samples,
			Stats:   stats.Compute(snap),
		})
	}
	return f
}

// Run draws a frame immediately and then once per Interval until ctx is
// cancelled. It returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultRenderInterval
	}

	l.Drawer.Draw(BuildFrame(l.Targets, time.Now()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			l.Drawer.Draw(BuildFrame(l.Targets, now))
		}
	}
}
