package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/litescript/apod-desktop/internal/imagery"
)

const (
	barPadding  = 4
	barMinWidth = 10
	barMaxWidth = 60
)

// Msg types for the download program.
type (
	// ProgressMsg carries the bytes received so far.
	ProgressMsg struct {
		Written int64
		Total   int64
	}

	// doneMsg ends the program once the transfer returns.
	doneMsg struct{}
)

// downloadModel is the Bubble Tea model for one download.
type downloadModel struct {
	label   string
	bar     progress.Model
	styles  styles
	written int64
	total   int64
	done    bool
}

func newDownloadModel(label string, st styles) downloadModel {
	return downloadModel{
		label:  label,
		bar:    progress.New(progress.WithGradient(colorAccent, colorActive), progress.WithWidth(40)),
		styles: st,
		total:  -1,
	}
}

func (m downloadModel) Init() tea.Cmd {
	return nil
}

func (m downloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.written, m.total = msg.Written, msg.Total
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-barPadding-24, barMinWidth), barMaxWidth)
	}
	return m, nil
}

func (m downloadModel) View() string {
	sizes := fmt.Sprintf("%s of %s", humanize.Bytes(uint64(m.written)), imagery.SizeString(m.total))
	if m.done {
		return m.styles.ok.Render("✓ ") + m.label + "  " + m.styles.dim.Render(sizes) + "\n"
	}
	return m.styles.accent.Render("↓ ") + m.label + "\n" +
		"  " + m.bar.ViewAs(m.percent()) + "  " + m.styles.dim.Render(sizes) + "\n"
}

func (m downloadModel) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.written) / float64(m.total)
	return min(p, 1)
}

// ProgressTracker shows downloads as a progress bar. Use it only when Out
// is a terminal.
type ProgressTracker struct {
	Out io.Writer
}

// Track implements imagery.Tracker.
func (t ProgressTracker) Track(ctx context.Context, label string, transfer func(imagery.ProgressFunc) error) error {
	progCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newDownloadModel(label, newStyles(t.Out)),
		tea.WithContext(progCtx),
		tea.WithOutput(t.Out),
		tea.WithInput(nil),
	)

	result := make(chan error, 1)
	go func() {
		err := transfer(func(written, total int64) {
			p.Send(ProgressMsg{Written: written, Total: total})
		})
		result <- err
		p.Send(doneMsg{})
	}()

	// The bar is cosmetic: a failed display does not fail the transfer.
	_, _ = p.Run()

	// Unblocks any Send still waiting on the finished program.
	cancel()
	return <-result
}
