package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/matcalc/internal/format"
)

const (
	barWidth        = 30
	logsWidthPct    = 55
	minPanelHeight  = 4
	headerAndFooter = 2
)

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	bodyHeight := max(m.height-headerAndFooter, minPanelHeight*2)
	leftWidth := m.width * logsWidthPct / 100
	rightWidth := m.width - leftWidth

	algos := m.renderAlgorithms(leftWidth)
	logsHeight := max(bodyHeight-lipgloss.Height(algos), minPanelHeight)
	left := lipgloss.JoinVertical(lipgloss.Left, algos, m.renderLogs(leftWidth, logsHeight))

	right := m.renderMetrics(rightWidth, lipgloss.Height(left))
	if m.showMat && m.product != nil {
		right = m.renderProduct(rightWidth, lipgloss.Height(left))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.renderFooter())
}

func (m Model) renderAlgorithms(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ALGORITHMS"))
	for _, r := range m.rows {
		status := dimStyle.Render("running")
		switch {
		case r.err != nil:
			status = errorStyle.Render("failed")
		case r.done:
			status = successStyle.Render(format.FormatExecutionDuration(r.duration))
		}
		fmt.Fprintf(&b, "\n %-9s %s %5.1f%%  %s", r.name, renderBar(r.progress, barWidth), r.progress*100, status)
	}
	eta := ""
	if m.eta > 0 {
		eta = "  ETA " + format.FormatETA(m.eta)
	}
	fmt.Fprintf(&b, "\n %-9s %s %5.1f%%%s", "average", renderBar(m.average, barWidth), m.average*100, eta)
	return panelStyle.Width(width - 2).Render(b.String())
}

func renderBar(progress float64, width int) string {
	filled := int(min(max(progress, 0), 1) * float64(width))
	return barStyle.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func (m Model) renderLogs(width, height int) string {
	visible := max(height-3, 1)
	end := max(len(m.logs)-m.scroll, 0)
	start := max(end-visible, 0)
	content := titleStyle.Render("LOG") + "\n" + strings.Join(m.logs[start:end], "\n")
	return panelStyle.Width(width - 2).Height(height - 2).Render(content)
}

func (m Model) renderMetrics(width, height int) string {
	s := m.engine
	lines := []string{
		titleStyle.Render("ENGINE"),
		metricLine("Recursions", format.FormatNumber(int64(s.Recursions))),
		metricLine("Base cases", format.FormatNumber(int64(s.BaseCases))),
		metricLine("Branches", fmt.Sprintf("%s spawned, %s inline", format.FormatNumber(int64(s.SpawnedBranches)), format.FormatNumber(int64(s.InlineBranches)))),
		metricLine("Depth", fmt.Sprintf("%d (peak %d)", s.Depth, s.PeakDepth)),
		metricLine("Pool", fmt.Sprintf("%s hits, %s misses, %.0f%%", format.FormatNumber(int64(s.CacheHits)), format.FormatNumber(int64(s.CacheMisses)), s.Pool.HitRate()*100)),
		metricLine("Pool bytes", format.FormatBytes(s.Pool.AllocatedBytes)),
		"",
		titleStyle.Render("RUNTIME"),
		metricLine("Heap", format.FormatBytes(m.mem.Alloc)+" / "+format.FormatBytes(m.mem.HeapSys)),
		metricLine("GC", fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6)),
		metricLine("Goroutines", fmt.Sprintf("%d", m.mem.NumGoroutine)),
		"",
		titleStyle.Render("HOST"),
		metricLine("CPU", fmt.Sprintf("%5.1f%% ", m.cpuHist.Last())+cpuSparklineStyle.Render(RenderSparkline(m.cpuHist.Slice()))),
		metricLine("Memory", fmt.Sprintf("%5.1f%% ", m.memHist.Last())+memSparklineStyle.Render(RenderSparkline(m.memHist.Slice()))),
	}
	return panelStyle.Width(width - 2).Height(max(height-2, 1)).Render(strings.Join(lines, "\n"))
}

func metricLine(label, value string) string {
	return " " + dimStyle.Render(fmt.Sprintf("%-11s", label)) + " " + valueStyle.Render(value)
}

func (m Model) renderProduct(width, height int) string {
	content := titleStyle.Render(fmt.Sprintf("PRODUCT %dx%d", m.product.Size, m.product.Size)) + "\n" + m.product.String()
	return panelStyle.Width(width - 2).Height(max(height-2, 1)).Render(content)
}

func (m Model) renderFooter() string {
	var parts []string
	for _, k := range m.keymap.ShortHelp() {
		h := k.Help()
		parts = append(parts, accentStyle.Render(h.Key)+" "+dimStyle.Render(h.Desc))
	}
	status := statusRunningStyle.Render("RUNNING")
	switch {
	case m.paused:
		status = statusPausedStyle.Render("PAUSED")
	case m.done && m.exitCode != 0:
		status = errorStyle.Render(fmt.Sprintf("FAILED (%d)", m.exitCode))
	case m.done:
		status = successStyle.Render("DONE")
	}
	return " " + status + "  " + strings.Join(parts, "  ")
}
