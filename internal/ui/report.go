package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/litescript/apod-desktop/internal/history"
	"github.com/litescript/apod-desktop/internal/launcher"
)

// Printer writes the user-facing outcome of a command.
type Printer struct {
	out    io.Writer
	styles styles
}

// NewPrinter returns a Printer for out. Colors are used only when out is a
// terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, styles: newStyles(out)}
}

// Applied reports the picture now on the desktop. verb describes how it got
// there, e.g. "New picture" or "Previous".
func (p *Printer) Applied(verb string, rec history.Record, position, total int) {
	fmt.Fprintf(p.out, "%s %s %s\n",
		p.styles.accent.Render(verb+":"),
		p.styles.title.Render(rec.Title),
		p.styles.dim.Render(fmt.Sprintf("(%d/%d)", position+1, total)),
	)
	fmt.Fprintf(p.out, "  %s\n", p.styles.dim.Render(rec.File))
}

// Nothing reports a navigation that had nowhere to go.
func (p *Printer) Nothing(msg string) {
	fmt.Fprintln(p.out, p.styles.dim.Render(msg))
}

// Launchers reports the result of writing desktop files.
func (p *Printer) Launchers(res launcher.Result) {
	for _, path := range res.Written {
		fmt.Fprintf(p.out, "%s %s\n", p.styles.ok.Render("wrote  "), path)
	}
	for _, path := range res.Skipped {
		fmt.Fprintf(p.out, "%s %s\n", p.styles.dim.Render("exists "), path)
	}
}

// History lists every record, marking the current one.
func (p *Printer) History(st history.State) {
	WriteHistory(p.out, st, p.styles)
}

// WriteHistory writes the history table to w.
func WriteHistory(w io.Writer, st history.State, s styles) {
	fmt.Fprintf(w, "%s\n", s.title.Render(fmt.Sprintf("NASA APOD history (%d entries)", st.Len())))
	fmt.Fprintln(w, s.dim.Render(strings.Repeat("─", 72)))

	if st.Empty() {
		fmt.Fprintln(w, "No pictures yet")
		return
	}

	width := len(fmt.Sprint(st.Len()))
	for i, rec := range st.Entries {
		marker := "  "
		line := fmt.Sprintf("%*d  %-40s %s", width, i+1, truncateStr(rec.Title, 40), filepath.Base(rec.File))
		if i == st.Current {
			marker = s.active.Render("▶ ")
			line = s.active.Render(line)
		}
		fmt.Fprintln(w, marker+line)
	}
}

func truncateStr(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
