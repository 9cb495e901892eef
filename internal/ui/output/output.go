// Package output decides how blaze colors what it writes. Command streams are
// colored only when they end up on a terminal; streams captured by the server
// and relayed to a client stay plain.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/blaze/internal/ui/style"
	"golang.org/x/term"
)

// ColorProfile returns the color profile for log output.
// NO_COLOR forces Ascii; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileFor returns the profile for a specific writer: Ascii unless the
// writer is a terminal and NO_COLOR is unset.
func ColorProfileFor(w io.Writer) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// IsTerminal reports whether w is a file descriptor attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// New creates a termenv.Output for log lines using ColorProfile.
func New(w io.Writer) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(ColorProfile()), termenv.WithTTY(true))
}

// Renderer returns a lipgloss renderer whose color profile suits w.
func Renderer(w io.Writer) *lipgloss.Renderer {
	return lipgloss.NewRenderer(w, termenv.WithProfile(ColorProfileFor(w)))
}

// Styled rebinds s to the renderer of w.
func Styled(w io.Writer, s lipgloss.Style) lipgloss.Style {
	return Renderer(w).NewStyle().Inherit(s)
}

// Infof writes an INFO message line to w.
func Infof(w io.Writer, format string, args ...any) {
	message(w, style.Success, style.InfoPrefix, format, args...)
}

// Errorf writes an ERROR message line to w.
func Errorf(w io.Writer, format string, args ...any) {
	message(w, style.Failure, style.ErrorPrefix, format, args...)
}

// Failedf writes a FAILED message line to w.
func Failedf(w io.Writer, format string, args ...any) {
	message(w, style.Failure, style.FailedPrefix, format, args...)
}

func message(w io.Writer, s lipgloss.Style, prefix, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Styled(w, s).Render(prefix), fmt.Sprintf(format, args...))
}
