// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/ik5/audmood/classify"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4") // audmood violet
	okColor      = lipgloss.Color("#00AA00")
	warnColor    = lipgloss.Color("#FFA500")
	errorColor   = lipgloss.Color("#A40000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	emotionStyle  = lipgloss.NewStyle().Bold(true).Foreground(okColor)
	rejectedStyle = lipgloss.NewStyle().Foreground(warnColor)
	failedStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("audmood"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// RenderResult formats one prediction line: an icon, the file name and
// the result message.
func RenderResult(path string, r classify.Result) string {
	var icon, msg string
	switch r.Kind {
	case classify.KindEmotion:
		icon = emotionStyle.Render("✓")
		msg = emotionStyle.Render(r.Message())
	case classify.KindRejected:
		icon = rejectedStyle.Render("!")
		msg = rejectedStyle.Render(r.Message())
	default:
		icon = failedStyle.Render("✗")
		msg = failedStyle.Render(r.Message())
	}

	return fmt.Sprintf(" %s %s  %s", icon, KeyStyle.Render(filepath.Base(path)), msg)
}

func PrintResult(w io.Writer, path string, r classify.Result) {
	fmt.Fprintln(w, RenderResult(path, r))
}

// PrintFormats lists the accepted upload extensions.
func PrintFormats(w io.Writer, exts []string) {
	fmt.Fprintln(w, TitleStyle.Render("Supported formats"))
	for _, ext := range exts {
		fmt.Fprintf(w, "  %s\n", ValueStyle.Render("."+ext))
	}
}
