package probe

import (
	"context"
	"time"

	"github.com/rileyhilliard/pingplot/internal/history"
	"github.com/rileyhilliard/pingplot/internal/logger"
	"github.com/rileyhilliard/pingplot/internal/target"
)

// Runner probes one target on a fixed schedule and records every outcome
// in the target's history. Each target gets its own Runner goroutine.
type Runner struct {
	Prober   Prober
	Interval time.Duration
	Timeout  time.Duration
	// Delay postpones the first probe so several runners started together
	// do not fire in lockstep.
	Delay time.Duration
	Log   logger.Logger
}

// Run probes until ctx is cancelled. Probe failures are recorded as lossy
// samples and never end the loop. A probe that is still in flight when ctx is
// cancelled is discarded. Run always returns nil; it exists in error form to
// fit an errgroup.
func (r *Runner) Run(ctx context.Context, t *target.Target) error {
	log := r.Log
	if log == nil {
		log = logger.Noop()
	}

	if r.Delay > 0 && !sleepUntil(ctx, time.Now().Add(r.Delay)) {
		return nil
	}

	var seq uint64
	for {
		if ctx.Err() != nil {
			return nil
		}

		sentAt := time.Now()
		probeCtx, cancel := context.WithTimeout(ctx, r.Timeout)
		rtt, err := r.Prober.Probe(probeCtx, t.Addr)
		cancel()

		if ctx.Err() != nil {
			return nil
		}

		outcome := Classify(rtt, err)
		if err != nil {
			log.Debug("%s seq=%d %s: %v", t.Label, seq, outcome, err)
		}
		if appendErr := t.History.Append(history.Sample{Seq: seq, SentAt: sentAt, Outcome: outcome}); appendErr != nil {
			log.Error("%s: %v", t.Label, appendErr)
		}
		seq++

		// the next probe is due one interval after this one was sent, not
		// after it completed
		if !sleepUntil(ctx, sentAt.Add(r.Interval)) {
			return nil
		}
	}
}

// sleepUntil waits for deadline and reports false if ctx ended first.
// A deadline in the past returns immediately.
func sleepUntil(ctx context.Context, deadline time.Time) bool {
	wait := time.Until(deadline)
	if wait <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
