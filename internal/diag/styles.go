package diag

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal styles shared by the reporter, the logger and the CLI.
// Lipgloss degrades colors to what the terminal supports.
var (
	// StyleCyan is used for file locations and headers.
	StyleCyan = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	// StyleRed is used for error titles.
	StyleRed = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	// StyleYellow is used for warnings and caret indicators.
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	// StyleGreen is used for success summaries.
	StyleGreen = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	// StyleGray is used for hints and linter names.
	StyleGray = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// StyleErrorBox frames section diagnostics.
	StyleErrorBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("1")).
			Padding(1).
			Margin(1)
	// StyleWarningBox frames non-fatal diagnostics.
	StyleWarningBox = StyleErrorBox.BorderForeground(lipgloss.Color("3"))
)

// RenderStyle applies a lipgloss style to text when colors are enabled.
// When useColors is false, the text is returned unmodified.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// ShouldUseColors reports whether output written to f should be colored.
// An explicit request wins, then CI hints, then TTY detection.
func ShouldUseColors(force bool, f *os.File) bool {
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
