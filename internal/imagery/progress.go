package imagery

import (
	"context"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/litescript/apod-desktop/internal/logging"
)

// ProgressFunc receives the bytes received so far and the expected total,
// which is -1 when the server did not send a length.
type ProgressFunc func(written, total int64)

// Tracker runs a transfer and shows its progress.
type Tracker interface {
	Track(ctx context.Context, label string, transfer func(ProgressFunc) error) error
}

// LogTracker reports progress as debug log lines, at most one per Interval.
type LogTracker struct {
	Logger   *logging.Logger
	Interval time.Duration
}

// Track implements Tracker.
func (t LogTracker) Track(ctx context.Context, label string, transfer func(ProgressFunc) error) error {
	logger := t.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	interval := t.Interval
	if interval <= 0 {
		interval = time.Second
	}

	var (
		mu        sync.Mutex
		last      time.Time
		final     int64
		finalSize int64
	)
	logger.Debug("Retrieving %s", label)
	err := transfer(func(written, total int64) {
		mu.Lock()
		defer mu.Unlock()
		final, finalSize = written, total
		if time.Since(last) < interval {
			return
		}
		last = time.Now()
		logger.Debug("%s of %s", humanize.Bytes(uint64(written)), sizeString(total))
	})
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if finalSize < 0 {
		finalSize = final
	}
	logger.Debug("Done downloading %s", humanize.Bytes(uint64(finalSize)))
	return nil
}

// SizeString formats a byte count for display; negative means unknown.
func SizeString(n int64) string {
	return sizeString(n)
}

func sizeString(n int64) string {
	if n < 0 {
		return "unknown size"
	}
	return humanize.Bytes(uint64(n))
}

// countingWriter forwards the running byte count to a ProgressFunc.
type countingWriter struct {
	written  int64
	total    int64
	progress ProgressFunc
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.progress != nil {
		w.progress(w.written, w.total)
	}
	return len(p), nil
}
