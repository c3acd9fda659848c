// Package app runs the fetch, apply and navigation commands over the
// history store and the external collaborators.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/litescript/apod-desktop/internal/apod"
	"github.com/litescript/apod-desktop/internal/history"
	"github.com/litescript/apod-desktop/internal/logging"
	"github.com/litescript/apod-desktop/internal/notify"
)

// Fetcher finds today's picture.
type Fetcher interface {
	FetchLatest(ctx context.Context) (apod.Latest, error)
}

// Downloader turns an image URL into a local, screen-sized file.
type Downloader interface {
	DownloadAndResize(ctx context.Context, imageURL string) (string, error)
}

// Setter puts a file on the desktop.
type Setter interface {
	Apply(ctx context.Context, file string) error
}

// Store persists the history between runs.
type Store interface {
	Load() (history.State, error)
	Save(history.State) error
}

// Outcome describes what a command did.
type Outcome int

const (
	OutcomeNew Outcome = iota
	OutcomeReapplied
	OutcomePrevious
	OutcomeNext
)

// String returns a label for display.
func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "New picture"
	case OutcomeReapplied:
		return "Current picture"
	case OutcomePrevious:
		return "Previous"
	case OutcomeNext:
		return "Next"
	default:
		return "Unknown"
	}
}

// Result is the record on the desktop after a command.
type Result struct {
	Outcome  Outcome
	Record   history.Record
	Position int
	Total    int
}

// Deps are the collaborators an App works with.
type Deps struct {
	Store      Store
	Fetcher    Fetcher
	Downloader Downloader
	Setter     Setter
	Notifier   notify.Notifier
	Logger     *logging.Logger
	// Icon is shown in the "fetching" notification.
	Icon string
}

// App wires the history store to the collaborators.
type App struct {
	store      Store
	fetcher    Fetcher
	downloader Downloader
	setter     Setter
	notifier   notify.Notifier
	notifyOn   bool
	logger     *logging.Logger
	icon       string
}

// New creates an App. Notification support is checked once here.
func New(d Deps) *App {
	a := &App{
		store:      d.Store,
		fetcher:    d.Fetcher,
		downloader: d.Downloader,
		setter:     d.Setter,
		notifier:   d.Notifier,
		logger:     d.Logger,
		icon:       d.Icon,
	}
	if a.logger == nil {
		a.logger = logging.Discard()
	}
	if a.notifier == nil {
		a.notifier = notify.Disabled{}
	}
	a.notifyOn = a.notifier.Available()
	return a
}

// Refresh fetches today's picture. A picture not seen before is
// downloaded, recorded and applied; otherwise the current record is
// applied again.
func (a *App) Refresh(ctx context.Context) (Result, error) {
	st, err := a.store.Load()
	if err != nil {
		return Result{}, err
	}

	latest, err := a.fetcher.FetchLatest(ctx)
	if err != nil {
		return Result{}, err
	}

	if !IsNew(st, latest.ImageURL) {
		rec, err := st.CurrentRecord()
		if err != nil {
			return Result{}, err
		}
		a.logger.Info("Already have %q, applying current picture", latest.Title)
		if err := a.apply(ctx, rec); err != nil {
			return Result{}, err
		}
		a.notifyUpdated(ctx, rec)
		return Result{Outcome: OutcomeReapplied, Record: rec, Position: st.Current, Total: st.Len()}, nil
	}

	a.notify(ctx, "Fetching Astronomy Picture of the Day...", a.icon)
	a.logger.Info("New picture: %q", latest.Title)

	file, err := a.downloader.DownloadAndResize(ctx, latest.ImageURL)
	if err != nil {
		return Result{}, err
	}

	// Record before applying so a desktop failure does not lose the
	// download; the next run re-applies it.
	st = st.RecordNew(latest.ImageURL, file, latest.Title)
	if err := a.store.Save(st); err != nil {
		return Result{}, err
	}

	rec, _ := st.CurrentRecord()
	if err := a.setter.Apply(ctx, rec.File); err != nil {
		return Result{}, err
	}
	a.notifyUpdated(ctx, rec)
	return Result{Outcome: OutcomeNew, Record: rec, Position: st.Current, Total: st.Len()}, nil
}

// Next applies the next newer record.
func (a *App) Next(ctx context.Context) (Result, error) {
	return a.move(ctx, OutcomeNext, history.State.MoveNext)
}

// Previous applies the next older record.
func (a *App) Previous(ctx context.Context) (Result, error) {
	return a.move(ctx, OutcomePrevious, history.State.MovePrevious)
}

func (a *App) move(ctx context.Context, outcome Outcome, step func(history.State) (history.State, history.Record, error)) (Result, error) {
	st, err := a.store.Load()
	if err != nil {
		return Result{}, err
	}

	moved, rec, err := step(st)
	if err != nil {
		return Result{Position: st.Current, Total: st.Len()}, fmt.Errorf("%s: %w", outcome, err)
	}

	// The pointer only moves once the wallpaper is on the desktop.
	if err := a.apply(ctx, rec); err != nil {
		return Result{}, err
	}
	if err := a.store.Save(moved); err != nil {
		return Result{}, err
	}

	a.notifyUpdated(ctx, rec)
	return Result{Outcome: outcome, Record: rec, Position: moved.Current, Total: moved.Len()}, nil
}

// History returns the stored state.
func (a *App) History() (history.State, error) {
	return a.store.Load()
}

// IsNew reports whether url should be appended: the history is empty or
// url matches neither the newest nor the current record.
func IsNew(st history.State, url string) bool {
	last, ok := st.Last()
	if !ok {
		return true
	}
	if last.URL == url {
		return false
	}
	if cur, err := st.CurrentRecord(); err == nil && cur.URL == url {
		return false
	}
	return true
}

// apply sets rec as the wallpaper, downloading it again if its file has
// been deleted.
func (a *App) apply(ctx context.Context, rec history.Record) error {
	file := rec.File
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) && rec.URL != "" {
		a.logger.Warn("%s is missing, downloading it again", file)
		file, err = a.downloader.DownloadAndResize(ctx, rec.URL)
		if err != nil {
			return err
		}
	}
	return a.setter.Apply(ctx, file)
}

func (a *App) notifyUpdated(ctx context.Context, rec history.Record) {
	a.notify(ctx, "Updated Background \n\""+rec.Title+"\"", rec.File)
}

func (a *App) notify(ctx context.Context, body, icon string) {
	if !a.notifyOn {
		return
	}
	if err := a.notifier.Notify(ctx, notify.AppName, body, icon); err != nil {
		a.logger.Warn("Notification failed: %v", err)
	}
}
