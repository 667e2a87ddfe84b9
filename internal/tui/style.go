package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the text styles of the command line. Colors are dropped
// automatically when the output is not a terminal or NO_COLOR is set.
type Styles struct {
	Header  lipgloss.Style
	Current lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

var (
	colorWarning = lipgloss.AdaptiveColor{Light: "#e65100", Dark: "#ffa726"}
	colorError   = lipgloss.AdaptiveColor{Light: "#c62828", Dark: "#ef5350"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#0277bd", Dark: "#4fc3f7"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9e9e9e"}
)

// NewStyles returns the styles for output written to w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Header:  r.NewStyle().Bold(true),
		Current: r.NewStyle().Foreground(colorAccent).Bold(true),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Foreground(colorError).Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
	}
}
