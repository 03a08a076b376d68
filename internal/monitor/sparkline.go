package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingplot/internal/history"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// sparklineLost marks a sample that got no reply.
const sparklineLost = '✗'

const (
	minTrendWidth = 8
	maxTrendWidth = 24
)

// RenderSparkline draws the most recent width samples as block characters.
// Levels are scaled from zero to the highest RTT shown, so a flat line near
// the bottom means low latency rather than no data. Lost samples are drawn
// as ✗.
func RenderSparkline(samples []history.Sample, width int) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	var peak float64
	for _, s := range samples {
		if s.Outcome.OK() && float64(s.Outcome.RTT) > peak {
			peak = float64(s.Outcome.RTT)
		}
	}

	lineStyle := lipgloss.NewStyle().Foreground(ColorGraph)
	lostStyle := lipgloss.NewStyle().Foreground(ColorCritical)
	numLevels := len(sparklineBlockRunes)

	var sb strings.Builder
	for _, s := range samples {
		if !s.Outcome.OK() {
			sb.WriteString(lostStyle.Render(string(sparklineLost)))
			continue
		}

		level := 0
		if peak > 0 {
			level = int(float64(s.Outcome.RTT) / peak * float64(numLevels-1))
		}
		if level >= numLevels {
			level = numLevels - 1
		}
		sb.WriteString(lineStyle.Render(string(sparklineBlockRunes[level])))
	}
	return sb.String()
}
