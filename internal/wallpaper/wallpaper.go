// Package wallpaper sets the desktop background through GNOME's gsettings.
package wallpaper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/litescript/apod-desktop/internal/apperr"
	"github.com/litescript/apod-desktop/internal/logging"
)

const schema = "org.gnome.desktop.background"

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// LookPath locates a command.
type LookPath func(file string) (string, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// GSettings applies wallpapers with the gsettings command.
type GSettings struct {
	// Spanned stretches one picture across all monitors.
	Spanned bool

	run      Runner
	lookPath LookPath
	logger   *logging.Logger
}

// Option configures GSettings.
type Option func(*GSettings)

// WithRunner replaces command execution, for tests.
func WithRunner(r Runner, lp LookPath) Option {
	return func(g *GSettings) {
		g.run = r
		g.lookPath = lp
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(g *GSettings) {
		g.logger = l
	}
}

// NewGSettings returns a setter using the real gsettings binary.
func NewGSettings(spanned bool, opts ...Option) *GSettings {
	g := &GSettings{
		Spanned:  spanned,
		run:      execRunner,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.Discard()
	}
	return g
}

// Apply sets file as the desktop background.
func (g *GSettings) Apply(ctx context.Context, file string) error {
	if _, err := g.lookPath("gsettings"); err != nil {
		return apperr.Environment("find gsettings", err)
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return apperr.Filesystem("resolve wallpaper path", err)
	}
	uri := FileURI(abs)

	g.logger.Debug("Setting the wallpaper to %s", uri)
	if err := g.set(ctx, "picture-uri", uri); err != nil {
		return err
	}

	// GNOME 42+ keeps a separate picture for the dark style; older versions
	// do not have the key.
	if err := g.set(ctx, "picture-uri-dark", uri); err != nil {
		g.logger.Debug("picture-uri-dark not set: %v", err)
	}

	if g.Spanned {
		if err := g.set(ctx, "picture-options", "spanned"); err != nil {
			return err
		}
	}
	return nil
}

func (g *GSettings) set(ctx context.Context, key, value string) error {
	out, err := g.run(ctx, "gsettings", "set", schema, key, value)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("gsettings set %s: %w", key, ctx.Err())
	}
	if msg := strings.TrimSpace(string(out)); msg != "" {
		err = fmt.Errorf("%w: %s", err, msg)
	}
	return apperr.Environment("gsettings set "+key, err)
}

// FileURI converts an absolute path into a file:// URI.
func FileURI(abs string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}
