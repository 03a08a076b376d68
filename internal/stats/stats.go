// Package stats derives display statistics from a history snapshot.
//
// Compute is a pure function. Values that cannot be derived from the data
// (no successful samples yet, nothing sent) are marked invalid rather than
// reported as zero, so callers can tell "no data" from "0ms".
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/rileyhilliard/pingplot/internal/history"
)

// Duration is an RTT statistic that may be absent.
type Duration struct {
	Value time.Duration
	Valid bool
}

func present(d time.Duration) Duration {
	return Duration{Value: d, Valid: true}
}

// Percent is a percentage that may be undefined.
type Percent struct {
	Value float64
	Valid bool
}

// Stats summarizes one target's snapshot.
type Stats struct {
	Min    Duration
	Max    Duration
	Avg    Duration
	StdDev Duration
	// Jitter is the mean absolute difference between consecutive successful
	// RTTs in the window.
	Jitter Duration
	// Last is the RTT of the newest sample when it succeeded.
	Last Duration
	// LastKind records how the newest sample ended; meaningful when Window > 0.
	LastKind history.OutcomeKind
	// Loss is computed over whole-run totals, not the window.
	Loss history.Totals
	// LossPct is Loss.Lost / Loss.Sent * 100.
	LossPct Percent
	// Window is the number of samples in the snapshot, Received the number
	// of those that succeeded.
	Window   int
	Received int
}

// Compute derives Stats from a snapshot.
func Compute(snap history.Snapshot) Stats {
	st := Stats{
		Loss:   snap.Totals,
		Window: len(snap.Samples),
	}

	if snap.Totals.Sent > 0 {
		st.LossPct = Percent{
			Value: float64(snap.Totals.Lost) / float64(snap.Totals.Sent) * 100,
			Valid: true,
		}
	}

	if last, ok := snap.Last(); ok {
		st.LastKind = last.Outcome.Kind
		if last.Outcome.OK() {
			st.Last = present(last.Outcome.RTT)
		}
	}

	var lo, hi, prev time.Duration
	var sum, jitterSum float64
	jitterN := 0
	rtts := make([]float64, 0, len(snap.Samples))
	for _, s := range snap.Samples {
		if !s.Outcome.OK() {
			continue
		}
		rtt := s.Outcome.RTT
		if len(rtts) == 0 || rtt < lo {
			lo = rtt
		}
		if len(rtts) == 0 || rtt > hi {
			hi = rtt
		}
		if len(rtts) > 0 {
			jitterSum += math.Abs(float64(rtt - prev))
			jitterN++
		}
		sum += float64(rtt)
		rtts = append(rtts, float64(rtt))
		prev = rtt
	}

	st.Received = len(rtts)
	if st.Received == 0 {
		return st
	}

	mean := sum / float64(st.Received)
	var sq float64
	for _, v := range rtts {
		sq += (v - mean) * (v - mean)
	}

	st.Min = present(lo)
	st.Max = present(hi)
	st.Avg = present(time.Duration(math.Round(mean)))
	st.StdDev = present(time.Duration(math.Round(math.Sqrt(sq / float64(st.Received)))))
	if jitterN > 0 {
		st.Jitter = present(time.Duration(math.Round(jitterSum / float64(jitterN))))
	}
	return st
}

// FormatDuration renders an RTT for display: "-" when absent, milliseconds
// with two decimals below one second, seconds above.
func FormatDuration(d Duration) string {
	if !d.Valid {
		return "-"
	}
	if d.Value < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Value)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Value.Seconds())
}

// FormatPercent renders a loss percentage, "-" when undefined.
func FormatPercent(p Percent) string {
	if !p.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", p.Value)
}

// FormatLast renders the newest sample: its RTT, or what happened instead.
func FormatLast(st Stats) string {
	if st.Window == 0 {
		return "-"
	}
	if st.Last.Valid {
		return FormatDuration(st.Last)
	}
	return st.LastKind.String()
}
