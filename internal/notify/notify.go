// Package notify sends best-effort desktop notifications.
package notify

import (
	"context"
	"os"
	"os/exec"

	"github.com/litescript/apod-desktop/internal/logging"
)

// AppName is shown as the notification source.
const AppName = "NASA APOD Desktop"

// Notifier sends desktop notifications. Callers check Available once and
// skip Notify when it reports false.
type Notifier interface {
	Available() bool
	Notify(ctx context.Context, summary, body, icon string) error
}

// Disabled is a Notifier with no backend.
type Disabled struct{}

// Available implements Notifier.
func (Disabled) Available() bool { return false }

// Notify implements Notifier.
func (Disabled) Notify(context.Context, string, string, string) error { return nil }

// Runner executes a command.
type Runner func(ctx context.Context, name string, args ...string) error

// Desktop sends notifications with notify-send.
type Desktop struct {
	run       Runner
	lookPath  func(string) (string, error)
	getenv    func(string) string
	logger    *logging.Logger
	available *bool
}

// Option configures Desktop.
type Option func(*Desktop)

// WithExec replaces process execution and the environment, for tests.
func WithExec(run Runner, lookPath func(string) (string, error), getenv func(string) string) Option {
	return func(d *Desktop) {
		d.run = run
		d.lookPath = lookPath
		d.getenv = getenv
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Desktop) {
		d.logger = l
	}
}

// NewDesktop returns a notify-send backed Notifier.
func NewDesktop(opts ...Option) *Desktop {
	d := &Desktop{
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	return d
}

// Available reports whether notify-send exists and a session bus or
// display is reachable. The answer is computed once.
func (d *Desktop) Available() bool {
	if d.available != nil {
		return *d.available
	}
	ok := d.probe()
	d.available = &ok
	return ok
}

func (d *Desktop) probe() bool {
	if _, err := d.lookPath("notify-send"); err != nil {
		d.logger.Debug("Notifications off: notify-send not found")
		return false
	}
	if d.getenv("DBUS_SESSION_BUS_ADDRESS") == "" && d.getenv("DISPLAY") == "" && d.getenv("WAYLAND_DISPLAY") == "" {
		d.logger.Debug("Notifications off: no desktop session")
		return false
	}
	return true
}

// Notify shows a notification. icon may be a file path or an icon name.
func (d *Desktop) Notify(ctx context.Context, summary, body, icon string) error {
	args := []string{"--app-name", AppName}
	if icon != "" {
		args = append(args, "--icon", icon)
	}
	args = append(args, summary, body)
	return d.run(ctx, "notify-send", args...)
}
