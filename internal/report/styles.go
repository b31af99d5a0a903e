// Package report handles CLI report formatting for imgsorter: ANSI styling,
// column alignment for the simulation and write listings, and the parse
// progress indicator.
package report

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleOrange = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleBold   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	styleMagent = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// Red styles an error-level string.
func Red(s string) string { return styleRed.Render(s) }

// Orange styles a warning-level string.
func Orange(s string) string { return styleOrange.Render(s) }

// Green styles a success-level string.
func Green(s string) string { return styleGreen.Render(s) }

// BoldWhite styles a neutral emphasized string.
func BoldWhite(s string) string { return styleBold.Render(s) }

// Magenta styles a prompt string.
func Magenta(s string) string { return styleMagent.Render(s) }

// WarnArrow returns the styled prefix used for warning lines.
func WarnArrow() string { return Orange(">") }

// IsTTY reports whether stdout is a terminal. Progress indicators are
// suppressed when it is not.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
