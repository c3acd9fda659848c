package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDownloadModel_Progress(t *testing.T) {
	m := newDownloadModel("m42.png", newStyles(&bytes.Buffer{}))

	if m.percent() != 0 {
		t.Errorf("initial percent = %v", m.percent())
	}

	next, cmd := m.Update(ProgressMsg{Written: 1_500_000, Total: 3_000_000})
	m = next.(downloadModel)
	if cmd != nil {
		t.Error("progress should not return a command")
	}
	if m.percent() != 0.5 {
		t.Errorf("percent = %v, want 0.5", m.percent())
	}

	view := m.View()
	if !strings.Contains(view, "m42.png") || !strings.Contains(view, "1.5 MB of 3.0 MB") {
		t.Errorf("view = %q", view)
	}
}

func TestDownloadModel_UnknownTotal(t *testing.T) {
	m := newDownloadModel("x.png", newStyles(&bytes.Buffer{}))
	next, _ := m.Update(ProgressMsg{Written: 2048, Total: -1})
	m = next.(downloadModel)

	if m.percent() != 0 {
		t.Errorf("percent = %v, want 0", m.percent())
	}
	if !strings.Contains(m.View(), "unknown size") {
		t.Errorf("view = %q", m.View())
	}
}

func TestDownloadModel_Done(t *testing.T) {
	m := newDownloadModel("x.png", newStyles(&bytes.Buffer{}))
	next, cmd := m.Update(doneMsg{})
	m = next.(downloadModel)

	if !m.done {
		t.Error("model should be done")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if !strings.HasPrefix(m.View(), "✓ x.png") {
		t.Errorf("view = %q", m.View())
	}
}

func TestDownloadModel_WindowSize(t *testing.T) {
	m := newDownloadModel("x.png", newStyles(&bytes.Buffer{}))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 10})
	if w := next.(downloadModel).bar.Width; w != barMinWidth {
		t.Errorf("narrow width = %d, want %d", w, barMinWidth)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 300, Height: 10})
	if w := next.(downloadModel).bar.Width; w != barMaxWidth {
		t.Errorf("wide width = %d, want %d", w, barMaxWidth)
	}
}

func TestDownloadModel_PercentClamped(t *testing.T) {
	m := newDownloadModel("x.png", newStyles(&bytes.Buffer{}))
	m.written, m.total = 200, 100
	if m.percent() != 1 {
		t.Errorf("percent = %v, want 1", m.percent())
	}
}
