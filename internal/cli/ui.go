package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints graph size and cache status on one dimmed line.
func printStats(w io.Writer, vertices, records int, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d vertices", vertices)),
		StyleDim.Render(fmt.Sprintf("%d records", records)),
		statusStyle.Render(status),
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// formatCount renders n with thousands separators.
func formatCount(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
