// Package apod finds the current Astronomy Picture of the Day.
package apod

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/litescript/apod-desktop/internal/apperr"
	"github.com/litescript/apod-desktop/internal/logging"
	"github.com/litescript/apod-desktop/internal/version"
)

const (
	// DefaultSiteURL is the APOD front page.
	DefaultSiteURL = "https://apod.nasa.gov/apod/"

	// DefaultTimeout for the page request.
	DefaultTimeout = 30 * time.Second

	// maxPageSize bounds how much of the page is read.
	maxPageSize = 4 << 20
)

// Latest is the picture currently published on the page.
type Latest struct {
	ImageURL string
	Title    string
	PageURL  string
}

// Fetcher downloads and parses the APOD page.
type Fetcher struct {
	client  *http.Client
	url     string
	timeout time.Duration
	logger  *logging.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithURL sets a custom page URL.
func WithURL(url string) FetcherOption {
	return func(f *Fetcher) {
		f.url = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher creates a new APOD page fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		url:     DefaultSiteURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}
	if f.logger == nil {
		f.logger = logging.Discard()
	}

	return f
}

// FetchLatest retrieves the page and extracts the image URL and title.
func (f *Fetcher) FetchLatest(ctx context.Context) (Latest, error) {
	base, err := url.Parse(f.url)
	if err != nil {
		return Latest{}, fmt.Errorf("parse site URL: %w", err)
	}

	f.logger.Debug("Downloading contents of %s to find the image", f.url)
	start := time.Now()
	body, err := f.fetchRaw(ctx)
	if err != nil {
		return Latest{}, err
	}
	f.logger.Debug("Page fetched in %v (%d bytes)", time.Since(start).Round(time.Millisecond), len(body))

	latest, err := Parse(bytes.NewReader(body), base)
	if err != nil {
		return Latest{}, err
	}
	f.logger.Debug("Found %q at %s", latest.Title, latest.ImageURL)
	return latest, nil
}

func (f *Fetcher) fetchRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.Network("fetch APOD page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Errorf(apperr.KindNetwork, "fetch APOD page", "unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, apperr.Network("read response body", err)
	}

	return body, nil
}

// URL returns the configured page URL.
func (f *Fetcher) URL() string {
	return f.url
}
