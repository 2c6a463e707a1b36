package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(statuses []domain.ResourceStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("umatrack"),
		s.header.Render(fmt.Sprintf("resources: %d", len(statuses))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No resource statuses available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderResource(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderResource(status domain.ResourceStatus, opts RenderOptions, s styles) string {
	now := opts.Now.UnixMilli()

	head := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.resource.Render(fmt.Sprintf("%-3s", status.Label)),
		" ",
		renderProgressBar(status.Value, status.Cap, 24, s),
		" ",
		s.detail.Render(fmt.Sprintf("%d/%d", status.Value, status.Cap)),
	)

	parts := []string{head, s.detail.Render("  " + regenLine(status, now))}

	if status.Wasted.Ms > 0 {
		parts = append(parts, s.warning.Render("  "+wastedLine(status.Wasted)))
	}

	if status.NextReset > 0 {
		parts = append(parts, s.meta.Render(fmt.Sprintf("  daily reset in %s (%s)",
			formatDelta(status.NextReset-now), formatClock(status.NextReset))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func regenLine(status domain.ResourceStatus, now int64) string {
	if status.Value >= status.Cap {
		return "full"
	}

	return fmt.Sprintf("next +1 in %s · full in %s (%s)",
		formatDelta(status.NextPoint-now),
		formatDelta(status.FullAt-now),
		formatClock(status.FullAt))
}

func wastedLine(wasted domain.WastedInfo) string {
	return fmt.Sprintf("wasted %.1f pt (%s)", wasted.Points, formatDelta(wasted.Ms))
}

func renderProgressBar(value, capVal, width int, s styles) string {
	if width <= 0 || capVal <= 0 {
		return ""
	}

	fraction := float64(value) / float64(capVal)
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(math.Round(float64(width) * fraction))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

// formatDelta renders a millisecond span the way a countdown reads:
// seconds below a minute, then m+s, then h+m.
func formatDelta(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

func formatClock(ms int64) string {
	return time.UnixMilli(ms).Format("15:04")
}
