// Package ui renders terminal output: the download progress bar, status
// lines and the history listing.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorAccent = "#7B2CBF"
	colorActive = "#9D4EDD"
	colorDim    = "60"
	colorOK     = "#2A9D8F"
)

// styles is a palette bound to one output. The renderer drops colors when
// the output is not a terminal.
type styles struct {
	title  lipgloss.Style
	accent lipgloss.Style
	active lipgloss.Style
	dim    lipgloss.Style
	ok     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		accent: r.NewStyle().Foreground(lipgloss.Color(colorAccent)),
		active: r.NewStyle().Foreground(lipgloss.Color(colorActive)).Bold(true),
		dim:    r.NewStyle().Foreground(lipgloss.Color(colorDim)),
		ok:     r.NewStyle().Foreground(lipgloss.Color(colorOK)),
	}
}
