package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '⠀'

// brailleDots maps [row][col] within one character to the bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

const (
	// axisLabelWidth is the width of the y-axis labels; the gutter adds
	// a space and the axis line.
	axisLabelWidth = 7
	axisGutter     = axisLabelWidth + 2

	// minCeiling keeps a quiet network from being drawn as a wall of noise.
	minCeiling = 10 * time.Millisecond
)

// ChartCeiling returns the top of the y axis: the largest RTT drawn within
// span (at least 10ms) plus 20% headroom, rounded up to a whole millisecond.
func ChartCeiling(f Frame, span time.Duration) time.Duration {
	peak := minCeiling
	for _, s := range f.Series {
		for _, smp := range s.Samples {
			if !smp.Outcome.OK() || f.At.Sub(smp.SentAt) > span {
				continue
			}
			if smp.Outcome.RTT > peak {
				peak = smp.Outcome.RTT
			}
		}
	}
	// 20% headroom, rounded up to the next millisecond
	top := peak * 6 / 5
	return (top + time.Millisecond - 1) / time.Millisecond * time.Millisecond
}

// brailleCanvas is a grid of braille cells, each remembering which series
// last drew into it.
type brailleCanvas struct {
	width, height int
	cells         [][]rune
	owner         [][]int
	loss          []bool
}

func newBrailleCanvas(width, height int) *brailleCanvas {
	c := &brailleCanvas{
		width:  width,
		height: height,
		cells:  make([][]rune, height),
		owner:  make([][]int, height),
		loss:   make([]bool, width),
	}
	for r := 0; r < height; r++ {
		c.cells[r] = make([]rune, width)
		c.owner[r] = make([]int, width)
		for col := 0; col < width; col++ {
			c.cells[r][col] = brailleBase
			c.owner[r][col] = -1
		}
	}
	return c
}

// set turns on the dot at x (0 = left) and y (0 = bottom), in dot units.
func (c *brailleCanvas) set(x, y, series int) {
	if x < 0 || y < 0 || x >= c.width*2 || y >= c.height*4 {
		return
	}
	row := c.height - 1 - y/4
	col := x / 2
	c.cells[row][col] |= rune(1) << brailleDots[3-y%4][x%2]
	c.owner[row][col] = series
}

// line connects two dots with evenly spaced intermediate dots.
func (c *brailleCanvas) line(x0, y0, x1, y1, series int) {
	steps := absInt(x1 - x0)
	if dy := absInt(y1 - y0); dy > steps {
		steps = dy
	}
	if steps == 0 {
		c.set(x0, y0, series)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64((x1-x0)*i)/float64(steps)))
		y := y0 + int(math.Round(float64((y1-y0)*i)/float64(steps)))
		c.set(x, y, series)
	}
}

func (c *brailleCanvas) markLoss(x int) {
	if col := x / 2; col >= 0 && col < c.width {
		c.loss[col] = true
	}
}

// RenderChart draws every series as a braille line chart covering the last
// span before f.At, newest on the right. width includes the y-axis gutter;
// height is the number of plot rows. Two extra rows hold the x axis (with a
// ✗ under columns where a probe was lost) and the time labels.
func RenderChart(f Frame, span time.Duration, width, height int) string {
	plotWidth := width - axisGutter
	if plotWidth < 2 || height < 1 || span <= 0 {
		return ""
	}

	ceiling := ChartCeiling(f, span)
	canvas := newBrailleCanvas(plotWidth, height)
	dotsX := plotWidth * 2
	dotsY := height * 4

	for si, s := range f.Series {
		prevX, prevY := -1, -1
		for _, smp := range s.Samples {
			age := f.At.Sub(smp.SentAt)
			if age > span {
				prevX = -1
				continue
			}
			if age < 0 {
				age = 0
			}
			x := dotsX - 1 - int(math.Round(float64(age)/float64(span)*float64(dotsX-1)))

			if !smp.Outcome.OK() {
				canvas.markLoss(x)
				prevX = -1
				continue
			}

			y := int(math.Round(float64(smp.Outcome.RTT) / float64(ceiling) * float64(dotsY-1)))
			if y >= dotsY {
				y = dotsY - 1
			}

			if prevX >= 0 {
				canvas.line(prevX, prevY, x, y, si)
			} else {
				canvas.set(x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	return canvas.render(ceiling, span)
}

func (c *brailleCanvas) render(ceiling, span time.Duration) string {
	axisStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	lossStyle := lipgloss.NewStyle().Foreground(ColorCritical)

	lines := make([]string, 0, c.height+2)
	for r := 0; r < c.height; r++ {
		label := ""
		axis := "│"
		switch {
		case r == 0:
			label, axis = formatAxis(ceiling), "┤"
		case r == c.height/2 && c.height >= 3:
			label, axis = formatAxis(ceiling*time.Duration(c.height-r)/time.Duration(c.height)), "┤"
		}

		var b strings.Builder
		b.WriteString(MutedStyle.Render(fmt.Sprintf("%*s ", axisLabelWidth, label)))
		b.WriteString(axisStyle.Render(axis))
		for col := 0; col < c.width; col++ {
			owner := c.owner[r][col]
			if owner < 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(SeriesColor(owner)).Render(string(c.cells[r][col])))
		}
		lines = append(lines, b.String())
	}

	var axis strings.Builder
	axis.WriteString(MutedStyle.Render(fmt.Sprintf("%*s ", axisLabelWidth, "0")))
	axis.WriteString(axisStyle.Render("└"))
	for col := 0; col < c.width; col++ {
		if c.loss[col] {
			axis.WriteString(lossStyle.Render("✗"))
		} else {
			axis.WriteString(axisStyle.Render("─"))
		}
	}
	lines = append(lines, axis.String())

	left := "-" + span.Round(time.Second).String()
	right := "now"
	gap := c.width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, MutedStyle.Render(strings.Repeat(" ", axisGutter)+left+strings.Repeat(" ", gap)+right))

	return strings.Join(lines, "\n")
}

// formatAxis renders a y-axis value compactly.
func formatAxis(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	if ms >= 1000 {
		return fmt.Sprintf("%.1fs", ms/1000)
	}
	if ms >= 10 {
		return fmt.Sprintf("%.0fms", ms)
	}
	return fmt.Sprintf("%.1fms", ms)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
