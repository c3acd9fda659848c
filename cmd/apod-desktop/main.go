// Command apod-desktop sets NASA's Astronomy Picture of the Day as the
// desktop background and steps through previously fetched pictures.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/litescript/apod-desktop/internal/apod"
	"github.com/litescript/apod-desktop/internal/app"
	"github.com/litescript/apod-desktop/internal/apperr"
	"github.com/litescript/apod-desktop/internal/config"
	"github.com/litescript/apod-desktop/internal/history"
	"github.com/litescript/apod-desktop/internal/imagery"
	"github.com/litescript/apod-desktop/internal/launcher"
	"github.com/litescript/apod-desktop/internal/logging"
	"github.com/litescript/apod-desktop/internal/notify"
	"github.com/litescript/apod-desktop/internal/ui"
	"github.com/litescript/apod-desktop/internal/version"
	"github.com/litescript/apod-desktop/internal/wallpaper"
)

const usageText = `Usage: %s [flags] [command]

Commands:
  (none)               Fetch today's picture and set it as the background
  next                 Show the next newer picture from history
  previous             Show the next older picture from history
  write-desktop-files  Create launchers for the three commands above
  history              List stored pictures

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(version.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, usageText, version.Name)
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", version.Name, version.Version)
		return 0
	}

	command := fs.Arg(0)
	if fs.NArg() > 1 || !knownCommand(command) {
		fmt.Fprintf(stderr, "Unknown argument: %q\n\n", fs.Args())
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	logger.SetOutput(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer := ui.NewPrinter(stdout)

	if command == "write-desktop-files" {
		return report(stderr, writeLaunchers(cfg, printer))
	}

	a, err := newApp(cfg, stdout, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch command {
	case "":
		res, err := a.Refresh(ctx)
		if err == nil {
			printer.Applied(res.Outcome.String(), res.Record, res.Position, res.Total)
		}
		return report(stderr, err)
	case "next", "previous":
		move, empty := a.Next, "Already at the newest picture, nothing to show"
		if command == "previous" {
			move, empty = a.Previous, "Already at the oldest picture, nothing to show"
		}
		res, err := move(ctx)
		switch {
		case errors.Is(err, apperr.ErrNotAvailable):
			printer.Nothing(empty)
		case err == nil:
			printer.Applied(res.Outcome.String(), res.Record, res.Position, res.Total)
		}
		return report(stderr, err)
	case "history":
		st, err := a.History()
		if err == nil {
			printer.History(st)
		}
		return report(stderr, err)
	}
	return 0
}

func knownCommand(c string) bool {
	switch c {
	case "", "next", "previous", "write-desktop-files", "history":
		return true
	}
	return false
}

func loadConfig(flags *config.Flags) (config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath(), os.Getenv)
	if err != nil {
		return cfg, err
	}
	flags.Apply(&cfg)
	if err := cfg.Finalize(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newApp(cfg config.Config, stdout io.Writer, logger *logging.Logger) (*app.App, error) {
	fit, err := imagery.ParseFit(cfg.Fit)
	if err != nil {
		return nil, err
	}

	// Progress bar on a terminal, throttled log lines otherwise.
	var tracker imagery.Tracker = imagery.LogTracker{Logger: logger.Named("download")}
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tracker = ui.ProgressTracker{Out: stdout}
	}

	var notifier notify.Notifier = notify.Disabled{}
	if cfg.Notify {
		notifier = notify.NewDesktop(notify.WithLogger(logger.Named("notify")))
	}

	return app.New(app.Deps{
		Store: history.NewStore(cfg.HistoryFile, logger.Named("history")),
		Fetcher: apod.NewFetcher(
			apod.WithURL(cfg.SiteURL),
			apod.WithTimeout(cfg.PageTimeout),
			apod.WithLogger(logger.Named("apod")),
		),
		Downloader: imagery.NewDownloader(cfg.DownloadDir, cfg.Resolution.Width, cfg.Resolution.Height,
			imagery.WithFit(fit),
			imagery.WithTimeout(cfg.DownloadTimeout),
			imagery.WithTracker(tracker),
			imagery.WithLogger(logger.Named("download")),
		),
		Setter:   wallpaper.NewGSettings(cfg.MultiScreen, wallpaper.WithLogger(logger.Named("wallpaper"))),
		Notifier: notifier,
		Logger:   logger,
		Icon:     iconOrDefault(cfg.Icon),
	}), nil
}

func writeLaunchers(cfg config.Config, printer *ui.Printer) error {
	exe, err := os.Executable()
	if err != nil {
		return apperr.Environment("locate executable", err)
	}
	res, err := launcher.WriteDesktopFiles(cfg.DesktopDir, exe, launcher.Entries(iconOrDefault(cfg.Icon)))
	printer.Launchers(res)
	return err
}

func iconOrDefault(icon string) string {
	if icon == "" {
		return launcher.DefaultIcon
	}
	return icon
}

// report prints err, if any, and returns the exit code for it.
func report(stderr io.Writer, err error) int {
	code := apperr.ExitCode(err)
	if code != 0 {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}
