package tui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/domain"
)

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// statusBadge renders a status in its color, padded to width
func statusBadge(s domain.Status, width int) string {
	style := lipgloss.NewStyle().Width(width)
	if c, ok := statusColors[string(s)]; ok {
		style = style.Foreground(c)
	}
	return style.Render(string(s))
}

// formatNumber renders a quantity or rate without trailing zeros
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseAmount reads a numeric field. Empty is zero; anything unparsable is
// NaN so it shows up in the totals and is rejected on save.
func parseAmount(s string) float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
