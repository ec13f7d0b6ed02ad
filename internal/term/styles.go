// Package term holds terminal presentation helpers: lipgloss styles, colour
// detection and the slog handler behind verbose diagnostics.
package term

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for consistent diagnostic output.
// Lipgloss automatically degrades colors based on terminal capabilities.
var (
	// StyleCyan is used for the log prefix and informational levels.
	StyleCyan = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleRed is used for errors.
	StyleRed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	// StyleYellow is used for warnings such as minify fallbacks.
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleGreen is used for success messages.
	StyleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	// StyleBold highlights paths and values inside messages.
	StyleBold = lipgloss.NewStyle().Bold(true)
	// StyleGray is used for attribute keys.
	StyleGray = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderStyle applies a lipgloss style to text when colors are enabled.
// When useColors is false, the text is returned unmodified.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// ShouldUseColors determines if colors should be enabled for f.
func ShouldUseColors(force bool, f *os.File) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// Check for FORCE_COLOR environment variable (GitHub Actions, etc.)
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// Auto-detect TTY
	if f == nil {
		return false
	}
	if fileInfo, err := f.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}
