// Package style provides the brand colors, icons and lipgloss styles shared by
// log lines, command messages and action reports.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons used by the log handler.
const (
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// Message prefixes of command output.
const (
	InfoPrefix   = "INFO:"
	ErrorPrefix  = "ERROR:"
	FailedPrefix = "FAILED:"
)

// Command message and action report styles.
var (
	Heading  = lipgloss.NewStyle().Bold(true).Foreground(Iris)
	Key      = lipgloss.NewStyle().Foreground(Slate)
	Success  = lipgloss.NewStyle().Foreground(Green)
	Failure  = lipgloss.NewStyle().Bold(true).Foreground(Red)
	Emphasis = lipgloss.NewStyle().Bold(true)
)
