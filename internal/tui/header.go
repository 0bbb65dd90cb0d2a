package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/matcalc/internal/format"
)

// HeaderModel renders the top bar: title, size, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	n         int
	width     int
}

// NewHeaderModel creates a header for an n×n run.
func NewHeaderModel(version string, n int) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, n: n}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() { h.endTime = time.Now() }

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the time since the start, frozen by SetDone.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "matcalc monitor"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	row := titleStyle.Render(title) + pipe +
		accentStyle.Render(fmt.Sprintf("%dx%d", h.n, h.n)) + pipe +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Width(h.width).Render(row)
}
