package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingplot/internal/stats"
)

const (
	minPlotRows   = 3
	statColWidth  = 10
	maxLabelWidth = 32
)

func (m Model) renderDashboard() string {
	sections := []string{m.renderHeader()}
	for _, w := range m.opts.Warnings {
		sections = append(sections, WarningStyle.Render(" ⚠ "+w))
	}
	sections = append(sections,
		m.renderChartSection(),
		m.renderStatsTable(),
		m.renderFooter(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("pingplot")

	parts := []string{fmt.Sprintf("%d targets", len(m.frame.Series))}
	if m.opts.Subtitle != "" {
		parts = append(parts, m.opts.Subtitle)
	}
	if m.hasFrame {
		parts = append(parts, m.frame.At.Format("15:04:05"))
	}
	info := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(" | " + strings.Join(parts, " | "))

	header := HeaderStyle.Render(title + info)
	if m.paused {
		header += " " + PausedStyle.Render("PAUSED")
	}
	return header
}

// plotRows is the chart height left after the fixed parts of the layout.
func (m Model) plotRows() int {
	fixed := 1 + len(m.opts.Warnings) + // header
		4 + // section header, x axis, time labels, section footer
		1 + len(m.frame.Series) + // table header and rows
		1 // footer
	rows := m.height - fixed
	if rows < minPlotRows {
		rows = minPlotRows
	}
	return rows
}

func (m Model) renderChartSection() string {
	width := m.width
	inner := width - 4

	value := "waiting for samples"
	if m.hasFrame {
		value = "0 - " + formatAxis(ChartCeiling(m.frame, m.opts.Span))
	}

	lines := []string{SectionHeader("Latency", value, width)}
	chart := RenderChart(m.frame, m.opts.Span, inner, m.plotRows())
	for _, l := range strings.Split(chart, "\n") {
		lines = append(lines, SectionContentLine(l, width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// labelWidth sizes the first table column to the longest target name.
func (m Model) labelWidth() int {
	w := len("target")
	for _, s := range m.frame.Series {
		if l := lipgloss.Width(s.Name); l > w {
			w = l
		}
	}
	if w > maxLabelWidth {
		w = maxLabelWidth
	}
	return w + 2 // marker and space
}

var statHeaders = []string{"last", "min", "avg", "max", "jitter", "loss", "sent"}

// trendWidth is the width of the sparkline column, or 0 when the terminal
// is too narrow for it.
func (m Model) trendWidth() int {
	w := m.width - 1 - m.labelWidth() - len(statHeaders)*statColWidth - 2
	if w < minTrendWidth {
		return 0
	}
	if w > maxTrendWidth {
		w = maxTrendWidth
	}
	return w
}

func (m Model) renderStatsTable() string {
	labelStyle := lipgloss.NewStyle().Width(m.labelWidth()).MaxWidth(m.labelWidth())
	cell := lipgloss.NewStyle().Width(statColWidth).Align(lipgloss.Right)
	trend := m.trendWidth()

	var head strings.Builder
	head.WriteString(LabelStyle.Inherit(labelStyle).Render("  target"))
	for _, h := range statHeaders {
		head.WriteString(LabelStyle.Inherit(cell).Render(h))
	}
	if trend > 0 {
		head.WriteString("  " + LabelStyle.Render("trend"))
	}
	rows := []string{" " + head.String()}

	for i, s := range m.frame.Series {
		row := " " + renderStatsRow(i, s, labelStyle, cell)
		if trend > 0 {
			row += "  " + RenderSparkline(s.Samples, trend)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func renderStatsRow(i int, s Series, labelStyle, cell lipgloss.Style) string {
	st := s.Stats
	marker := lipgloss.NewStyle().Foreground(SeriesColor(i)).Render("●")

	var b strings.Builder
	b.WriteString(labelStyle.Render(marker + " " + s.Name))

	last := stats.FormatLast(st)
	lastStyle := ValueStyle
	if st.Window > 0 && !st.Last.Valid {
		lastStyle = lipgloss.NewStyle().Foreground(ColorCritical)
	}
	b.WriteString(lastStyle.Inherit(cell).Render(last))

	for _, d := range []stats.Duration{st.Min, st.Avg, st.Max, st.Jitter} {
		b.WriteString(ValueStyle.Inherit(cell).Render(stats.FormatDuration(d)))
	}

	lossStyle := MutedStyle
	if st.LossPct.Valid {
		lossStyle = lipgloss.NewStyle().Foreground(LossColor(st.LossPct.Value))
	}
	b.WriteString(lossStyle.Inherit(cell).Render(stats.FormatPercent(st.LossPct)))
	b.WriteString(MutedStyle.Inherit(cell).Render(fmt.Sprintf("%d", st.Loss.Sent)))

	return b.String()
}

func (m Model) renderFooter() string {
	footer := m.help.View(m.keys)
	if m.quitRequests > 0 {
		footer = WarningStyle.Render("stopping… press q again to force") + "  " + footer
	}
	return FooterStyle.Render(footer)
}
