package notify

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.err
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDesktop_Available(t *testing.T) {
	present := func(string) (string, error) { return "/usr/bin/notify-send", nil }
	absent := func(string) (string, error) { return "", exec.ErrNotFound }

	tests := []struct {
		name     string
		lookPath func(string) (string, error)
		vars     map[string]string
		want     bool
	}{
		{"session bus", present, map[string]string{"DBUS_SESSION_BUS_ADDRESS": "unix:path=/run/user/1000/bus"}, true},
		{"x11", present, map[string]string{"DISPLAY": ":0"}, true},
		{"wayland", present, map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, true},
		{"cron", present, nil, false},
		{"no binary", absent, map[string]string{"DISPLAY": ":0"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDesktop(WithExec((&recorder{}).run, tc.lookPath, env(tc.vars)))
			if got := d.Available(); got != tc.want {
				t.Errorf("Available = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDesktop_AvailableIsCached(t *testing.T) {
	lookups := 0
	lp := func(string) (string, error) { lookups++; return "/usr/bin/notify-send", nil }
	d := NewDesktop(WithExec((&recorder{}).run, lp, env(map[string]string{"DISPLAY": ":0"})))

	d.Available()
	d.Available()
	if lookups != 1 {
		t.Errorf("lookPath called %d times, want 1", lookups)
	}
}

func TestDesktop_Notify(t *testing.T) {
	rec := &recorder{}
	d := NewDesktop(WithExec(rec.run, exec.LookPath, env(nil)))

	if err := d.Notify(context.Background(), "NASA APOD Desktop", "Updated Background", "/bg/m42.png"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	want := "notify-send --app-name NASA APOD Desktop --icon /bg/m42.png NASA APOD Desktop Updated Background"
	if len(rec.calls) != 1 || strings.Join(rec.calls[0], " ") != want {
		t.Errorf("calls = %v", rec.calls)
	}
}
