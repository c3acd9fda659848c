package wallpaper

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/litescript/apod-desktop/internal/apperr"
)

type fakeShell struct {
	calls [][]string
	fail  map[string]error // keyed by gsettings key
}

func (f *fakeShell) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(args) >= 3 {
		if err := f.fail[args[2]]; err != nil {
			return []byte("No such key"), err
		}
	}
	return nil, nil
}

func found(string) (string, error) { return "/usr/bin/gsettings", nil }

func missing(string) (string, error) { return "", exec.ErrNotFound }

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		spanned bool
		want    []string
	}{
		{
			name: "single screen",
			want: []string{
				"gsettings set org.gnome.desktop.background picture-uri file:///bg/m42.png",
				"gsettings set org.gnome.desktop.background picture-uri-dark file:///bg/m42.png",
			},
		},
		{
			name:    "spanned",
			spanned: true,
			want: []string{
				"gsettings set org.gnome.desktop.background picture-uri file:///bg/m42.png",
				"gsettings set org.gnome.desktop.background picture-uri-dark file:///bg/m42.png",
				"gsettings set org.gnome.desktop.background picture-options spanned",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shell := &fakeShell{}
			g := NewGSettings(tc.spanned, WithRunner(shell.run, found))

			if err := g.Apply(context.Background(), "/bg/m42.png"); err != nil {
				t.Fatalf("Apply: %v", err)
			}

			if len(shell.calls) != len(tc.want) {
				t.Fatalf("got %d calls, want %d: %v", len(shell.calls), len(tc.want), shell.calls)
			}
			for i, want := range tc.want {
				if got := strings.Join(shell.calls[i], " "); got != want {
					t.Errorf("call %d = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestApply_DarkKeyMissingIsIgnored(t *testing.T) {
	shell := &fakeShell{fail: map[string]error{"picture-uri-dark": errors.New("exit status 1")}}
	g := NewGSettings(false, WithRunner(shell.run, found))

	if err := g.Apply(context.Background(), "/bg/m42.png"); err != nil {
		t.Errorf("Apply: %v", err)
	}
}

func TestApply_EnvironmentErrors(t *testing.T) {
	t.Run("no gsettings", func(t *testing.T) {
		shell := &fakeShell{}
		g := NewGSettings(false, WithRunner(shell.run, missing))

		err := g.Apply(context.Background(), "/bg/m42.png")
		if !errors.Is(err, apperr.ErrEnvironment) {
			t.Errorf("err = %v, want environment error", err)
		}
		if len(shell.calls) != 0 {
			t.Errorf("commands run without gsettings: %v", shell.calls)
		}
	})

	t.Run("set fails", func(t *testing.T) {
		shell := &fakeShell{fail: map[string]error{"picture-uri": errors.New("exit status 1")}}
		g := NewGSettings(false, WithRunner(shell.run, found))

		err := g.Apply(context.Background(), "/bg/m42.png")
		if !errors.Is(err, apperr.ErrEnvironment) {
			t.Errorf("err = %v, want environment error", err)
		}
		if !strings.Contains(err.Error(), "No such key") {
			t.Errorf("command output missing from %q", err)
		}
	})
}

func TestFileURI(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/nic/backgrounds/m42.png", "file:///home/nic/backgrounds/m42.png"},
		{"/tmp/with space.png", "file:///tmp/with%20space.png"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := FileURI(tc.path); got != tc.want {
				t.Errorf("FileURI = %q, want %q", got, tc.want)
			}
		})
	}
}
